package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}
func (m *RepoMock) GetProduct(ctx context.Context, productUID string) (*models.Product, error) {
	args := m.Called(ctx, productUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}
func (m *RepoMock) UpdateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}
func (m *RepoMock) RemoveProduct(ctx context.Context, productUID string) error {
	return m.Called(ctx, productUID).Error(0)
}
func (m *RepoMock) ListProducts(ctx context.Context, filter models.ProductFilter, limit, offset int) ([]*models.Product, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}
func (m *RepoMock) CountProducts(ctx context.Context, filter models.ProductFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCatalogService_List(t *testing.T) {
	products := []*models.Product{
		{UID: "p1", Name: "Airpods"},
		{UID: "p2", Name: "iPhone"},
	}

	tests := []struct {
		name       string
		filter     models.ProductFilter
		count      int
		wantPage   int
		wantPages  int
		wantOffset int
	}{
		{
			name:       "first page by default",
			filter:     models.ProductFilter{},
			count:      17,
			wantPage:   1,
			wantPages:  3,
			wantOffset: 0,
		},
		{
			name:       "explicit page",
			filter:     models.ProductFilter{Page: 3},
			count:      17,
			wantPage:   3,
			wantPages:  3,
			wantOffset: 16,
		},
		{
			name:       "empty catalog",
			filter:     models.ProductFilter{Page: 1},
			count:      0,
			wantPage:   1,
			wantPages:  0,
			wantOffset: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := NewCatalogService(repo, cache, newNoopLogger())

			normalized := tt.filter
			if normalized.Page < 1 {
				normalized.Page = 1
			}
			repo.On("CountProducts", mock.Anything, normalized).Return(tt.count, nil).Once()
			repo.On("ListProducts", mock.Anything, normalized, PageSize, tt.wantOffset).
				Return(products, nil).Once()

			got, page, pages, err := svc.List(context.Background(), tt.filter)
			assert.NoError(t, err)
			assert.Equal(t, products, got)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPages, pages)
			repo.AssertExpectations(t)
		})
	}
}

func TestCatalogService_Read(t *testing.T) {
	product := &models.Product{UID: "p1", Name: "Airpods", Price: 89.99}

	t.Run("cache miss falls back to storage", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewCatalogService(repo, cache, newNoopLogger())

		cache.On("Get", "product:p1", mock.Anything).Return(false, nil).Once()
		repo.On("GetProduct", mock.Anything, "p1").Return(product, nil).Once()
		cache.On("Set", "product:p1", product, time.Hour).Return(nil).Once()

		got, err := svc.Read(context.Background(), "p1")
		assert.NoError(t, err)
		assert.Equal(t, product, got)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache error does not fail read", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewCatalogService(repo, cache, newNoopLogger())

		cache.On("Get", "product:p1", mock.Anything).Return(false, errors.New("redis down")).Once()
		repo.On("GetProduct", mock.Anything, "p1").Return(product, nil).Once()
		cache.On("Set", "product:p1", product, time.Hour).Return(errors.New("redis down")).Once()

		got, err := svc.Read(context.Background(), "p1")
		assert.NoError(t, err)
		assert.Equal(t, product, got)
	})

	t.Run("unknown product", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := NewCatalogService(repo, cache, newNoopLogger())

		cache.On("Get", "product:missing", mock.Anything).Return(false, nil).Once()
		repo.On("GetProduct", mock.Anything, "missing").Return(nil, repository.ErrNotFound).Once()

		_, err := svc.Read(context.Background(), "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestCatalogService_Create(t *testing.T) {
	req := models.DummyProduct{
		Name:         "Airpods",
		Description:  "Wireless earbuds",
		Price:        89.99,
		ImageURL:     "/images/airpods.jpg",
		Category:     "Electronics",
		CountInStock: 10,
	}
	created := &models.Product{UID: "p1", Name: "Airpods", CreatedBy: "admin-1"}

	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := NewCatalogService(repo, cache, newNoopLogger())

	repo.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p models.Product) bool {
		return p.Name == req.Name && p.CreatedBy == "admin-1" && p.CountInStock == 10
	})).Return(created, nil).Once()
	cache.On("Set", "product:p1", created, time.Hour).Return(nil).Once()

	got, err := svc.Create(context.Background(), "admin-1", req)
	assert.NoError(t, err)
	assert.Equal(t, created, got)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCatalogService_Update(t *testing.T) {
	req := models.DummyProduct{
		Name:         "Airpods Pro",
		Description:  "Wireless earbuds",
		Price:        129.99,
		ImageURL:     "/images/airpods.jpg",
		Category:     "Electronics",
		CountInStock: 5,
	}
	updated := &models.Product{UID: "p1", Name: "Airpods Pro", Price: 129.99}

	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := NewCatalogService(repo, cache, newNoopLogger())

	repo.On("UpdateProduct", mock.Anything, mock.MatchedBy(func(p models.Product) bool {
		return p.UID == "p1" && p.Name == "Airpods Pro"
	})).Return(updated, nil).Once()
	cache.On("Set", "product:p1", updated, time.Hour).Return(nil).Once()

	got, err := svc.Update(context.Background(), "p1", req)
	assert.NoError(t, err)
	assert.Equal(t, updated, got)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCatalogService_Remove(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := NewCatalogService(repo, cache, newNoopLogger())

	cache.On("Invalidate", "product:p1").Return(nil).Once()
	repo.On("RemoveProduct", mock.Anything, "p1").Return(repository.ErrNotFound).Once()

	err := svc.Remove(context.Background(), "p1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}
