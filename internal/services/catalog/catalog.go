// Package services содержит бизнес-логику каталога товаров, включая кеширование.
package services

import (
	"fmt"
	"log/slog"
	"time"

	"context"

	"github.com/magabrotheeeer/storefront/internal/models"
)

// PageSize — фиксированный размер страницы листинга каталога.
const PageSize = 8

// ProductRepository определяет методы для работы с товарами в хранилище.
type ProductRepository interface {
	// CreateProduct добавляет новый товар и возвращает его с заполненным UID.
	CreateProduct(ctx context.Context, product models.Product) (*models.Product, error)
	// GetProduct возвращает товар по UID.
	GetProduct(ctx context.Context, productUID string) (*models.Product, error)
	// UpdateProduct обновляет данные товара по UID.
	UpdateProduct(ctx context.Context, product models.Product) (*models.Product, error)
	// RemoveProduct удаляет товар по UID.
	RemoveProduct(ctx context.Context, productUID string) error
	// ListProducts возвращает страницу товаров под фильтр.
	ListProducts(ctx context.Context, filter models.ProductFilter, limit, offset int) ([]*models.Product, error)
	// CountProducts возвращает количество товаров под фильтр.
	CountProducts(ctx context.Context, filter models.ProductFilter) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// CatalogService реализует бизнес-логику каталога, включая кеширование карточек.
type CatalogService struct {
	repo  ProductRepository
	cache Cache
	log   *slog.Logger
}

// NewCatalogService создает новый экземпляр CatalogService.
func NewCatalogService(repo ProductRepository, cache Cache, log *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// List возвращает страницу товаров под фильтр, номер страницы и общее число страниц.
func (s *CatalogService) List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	count, err := s.repo.CountProducts(ctx, filter)
	if err != nil {
		return nil, 0, 0, err
	}
	pages := (count + PageSize - 1) / PageSize

	items, err := s.repo.ListProducts(ctx, filter, PageSize, PageSize*(filter.Page-1))
	if err != nil {
		return nil, 0, 0, err
	}
	return items, filter.Page, pages, nil
}

// Read возвращает товар по UID, используя кеш или репозиторий.
func (s *CatalogService) Read(ctx context.Context, productUID string) (*models.Product, error) {
	var result *models.Product
	cacheKey := fmt.Sprintf("product:%s", productUID)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return result, nil
	}
	result, err = s.repo.GetProduct(ctx, productUID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// Create добавляет новый товар от имени администратора и кеширует карточку.
func (s *CatalogService) Create(ctx context.Context, adminUID string, req models.DummyProduct) (*models.Product, error) {
	product := models.Product{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		ImageURL:     req.ImageURL,
		Category:     req.Category,
		CountInStock: req.CountInStock,
		Rating:       req.Rating,
		ReviewsCount: req.ReviewsCount,
		CreatedBy:    adminUID,
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new product", slog.String("uid", created.UID))

	cacheKey := fmt.Sprintf("product:%s", created.UID)
	if err := s.cache.Set(cacheKey, created, time.Hour); err != nil {
		s.log.Warn("failed to cache product", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return created, nil
}

// Update обновляет товар и перезаписывает кеш карточки.
func (s *CatalogService) Update(ctx context.Context, productUID string, req models.DummyProduct) (*models.Product, error) {
	product := models.Product{
		UID:          productUID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		ImageURL:     req.ImageURL,
		Category:     req.Category,
		CountInStock: req.CountInStock,
		Rating:       req.Rating,
		ReviewsCount: req.ReviewsCount,
	}
	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	s.log.Info("updated product in storage", slog.String("uid", productUID))

	cacheKey := fmt.Sprintf("product:%s", productUID)
	if err := s.cache.Set(cacheKey, updated, time.Hour); err != nil {
		s.log.Warn("failed to cache product", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return updated, nil
}

// Remove удаляет товар и инвалидирует кеш карточки.
func (s *CatalogService) Remove(ctx context.Context, productUID string) error {
	cacheKey := fmt.Sprintf("product:%s", productUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return s.repo.RemoveProduct(ctx, productUID)
}
