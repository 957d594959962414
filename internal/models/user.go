// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и роль.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    `json:"uid"`        // Уникальный идентификатор пользователя
	Name         string    `json:"name"`       // Имя пользователя
	Email        string    `json:"email"`      // Электронная почта (уникальная)
	PasswordHash string    `json:"-"`          // Хэш пароля пользователя, наружу не отдается
	Role         string    `json:"role"`       // Роль пользователя, admin или user
	CreatedAt    time.Time `json:"created_at"` // Дата регистрации
	UpdatedAt    time.Time `json:"updated_at"` // Дата последнего изменения профиля
}

// DummyProfileUpdate используется для приёма данных из JSON-запроса
// на частичное обновление профиля. Пустые поля не изменяются,
// непустой пароль приводит к повторному хэшированию.
type DummyProfileUpdate struct {
	Name     string `json:"name" validate:"omitempty,min=2,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
}
