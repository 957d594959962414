// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/storefront/internal/lib/jwt"
	"github.com/magabrotheeeer/storefront/internal/lib/password"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/storage/repository"
)

// ErrInvalidCredentials возвращается при неверном email или пароле.
// Текст одинаков для неизвестного email и неверного пароля,
// чтобы ответ не позволял перечислять зарегистрированные адреса.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его с заполненным UID.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)

	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)

	// UpdateUser обновляет имя, email и хэш пароля пользователя.
	UpdateUser(ctx context.Context, user models.User) (*models.User, error)

	// ListUsers возвращает всех пользователей.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// RemoveUser удаляет пользователя по UID.
	RemoveUser(ctx context.Context, userUID string) error
}

// AuthService отвечает за регистрацию, авторизацию, валидацию JWT
// и административные операции над пользователями.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной ролью "user".
// Возвращает созданного пользователя и подписанный токен сессии.
func (s *AuthService) Register(ctx context.Context, name, email, rawPassword string) (*models.User, string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, "", err
	}
	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         "user", // дефолтная роль при регистрации
	}
	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, "", err
	}
	token, err := s.jwtMaker.GenerateToken(created.UID, created.Email, created.Role)
	if err != nil {
		return nil, "", err
	}
	return created, token, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.UID, user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ValidateToken проверяет JWT и возвращает его claims.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Profile возвращает пользователя по UID.
func (s *AuthService) Profile(ctx context.Context, userUID string) (*models.User, error) {
	return s.users.GetUser(ctx, userUID)
}

// UpdateProfile частично обновляет профиль: пустые поля не изменяются,
// непустой пароль хэшируется заново. Возвращает обновленного пользователя
// и свежий токен, отражающий возможную смену email.
func (s *AuthService) UpdateProfile(ctx context.Context, userUID string, req models.DummyProfileUpdate) (*models.User, string, error) {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, "", err
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Password != "" {
		hashed, err := password.GetHash(req.Password)
		if err != nil {
			return nil, "", err
		}
		user.PasswordHash = hashed
	}
	updated, err := s.users.UpdateUser(ctx, *user)
	if err != nil {
		return nil, "", err
	}
	token, err := s.jwtMaker.GenerateToken(updated.UID, updated.Email, updated.Role)
	if err != nil {
		return nil, "", err
	}
	return updated, token, nil
}

// IsAdmin перечитывает роль пользователя из хранилища. Используется
// middleware привилегированных маршрутов: понижение роли вступает в силу
// сразу, не дожидаясь истечения токена.
func (s *AuthService) IsAdmin(ctx context.Context, userUID string) (bool, error) {
	const op = "services.auth.IsAdmin"
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return user.Role == "admin", nil
}

// ListUsers возвращает список всех пользователей (административная операция).
func (s *AuthService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.users.ListUsers(ctx)
}

// RemoveUser удаляет пользователя по UID (административная операция).
func (s *AuthService) RemoveUser(ctx context.Context, userUID string) error {
	return s.users.RemoveUser(ctx, userUID)
}
