// Package models содержит доменные структуры, описывающие товар каталога,
// а также вспомогательные типы для работы с данными из внешних источников
// (например, JSON-запросы администратора и фильтры листинга).
package models

import "time"

// Product представляет собой основную модель товара каталога,
// используемую в бизнес-логике и хранилище.
// Поле CountInStock никогда не опускается ниже нуля —
// это гарантируется условным декрементом в хранилище.
type Product struct {
	UID          string    `json:"uid"`            // Уникальный идентификатор товара
	Name         string    `json:"name"`           // Название товара (уникальное)
	Description  string    `json:"description"`    // Описание товара
	Price        float64   `json:"price"`          // Цена товара
	ImageURL     string    `json:"image_url"`      // Ссылка на изображение
	Category     string    `json:"category"`       // Категория товара
	CountInStock int       `json:"count_in_stock"` // Остаток на складе
	Rating       float64   `json:"rating"`         // Средний рейтинг
	ReviewsCount int       `json:"reviews_count"`  // Количество отзывов
	CreatedBy    string    `json:"created_by"`     // UID администратора, создавшего товар
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DummyProduct используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Product.
type DummyProduct struct {
	Name         string  `json:"name" validate:"required,min=2,max=200"`       // Название товара
	Description  string  `json:"description" validate:"required"`              // Описание
	Price        float64 `json:"price" validate:"required,gte=0"`              // Цена (>=0)
	ImageURL     string  `json:"image_url" validate:"required"`                // Изображение
	Category     string  `json:"category" validate:"required"`                 // Категория
	CountInStock int     `json:"count_in_stock" validate:"gte=0"`              // Остаток (>=0)
	Rating       float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`      // Рейтинг 0..5
	ReviewsCount int     `json:"reviews_count" validate:"omitempty,gte=0"`     // Количество отзывов
}

// ProductFilter описывает параметры листинга каталога:
// поиск по подстроке названия, фильтр по категории,
// сортировка и номер страницы.
type ProductFilter struct {
	Keyword  string // Подстрока названия, регистронезависимая
	Category string // Точное совпадение категории, пусто или "All" — без фильтра
	SortBy   string // price-asc | price-desc | пусто (новые первыми)
	Page     int    // Номер страницы, с единицы
}
