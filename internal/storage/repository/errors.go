package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Ошибки хранилища, по которым обработчики выбирают HTTP-статус.
var (
	// ErrNotFound — запись с указанным идентификатором отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email или название товара).
	ErrAlreadyExists = errors.New("already exists")
	// ErrConflict — запись нельзя удалить, на неё ссылаются другие данные.
	ErrConflict = errors.New("conflict")
)

// InsufficientStockError возвращается при оформлении заказа,
// когда запрошенное количество превышает остаток товара.
// Несёт название товара и доступный остаток для ответа клиенту.
type InsufficientStockError struct {
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: only %d available", e.ProductName, e.Available)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}
