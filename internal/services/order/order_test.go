package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/storage/repository"
)

type OrdersMock struct{ mock.Mock }

func (m *OrdersMock) CreateOrder(ctx context.Context, order models.Order) (*models.Order, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}
func (m *OrdersMock) GetOrder(ctx context.Context, orderUID string) (*models.Order, error) {
	args := m.Called(ctx, orderUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}
func (m *OrdersMock) ListOrdersByUser(ctx context.Context, userUID string) ([]*models.Order, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}
func (m *OrdersMock) ListAllOrders(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}
func (m *OrdersMock) MarkOrderPaid(ctx context.Context, orderUID string, result models.PaymentResult) (*models.Order, error) {
	args := m.Called(ctx, orderUID, result)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}
func (m *OrdersMock) MarkOrderDelivered(ctx context.Context, orderUID string) (*models.Order, error) {
	args := m.Called(ctx, orderUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(routingKey string, message any) error {
	return m.Called(routingKey, message).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestOrderService_Place(t *testing.T) {
	req := models.DummyOrder{
		Items: []models.DummyOrderItem{
			{ProductUID: "p1", Quantity: 2},
		},
		ShippingAddress: models.ShippingAddress{
			Address:    "1 Main St",
			City:       "Boston",
			PostalCode: "02101",
			Country:    "USA",
		},
		PaymentMethod: "PayPal",
	}
	created := &models.Order{
		UID:        "o1",
		UserUID:    "u1",
		TotalPrice: 205.20,
		Items: []models.OrderItem{
			{ProductUID: "p1", Name: "Airpods", Price: 95.0, Quantity: 2},
		},
	}

	t.Run("success with event", func(t *testing.T) {
		repo := new(OrdersMock)
		events := new(PublisherMock)
		svc := NewOrderService(repo, events, nil, newNoopLogger())

		repo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o models.Order) bool {
			// цены из запроса не попадают в заказ, только товар и количество
			return o.UserUID == "u1" && len(o.Items) == 1 &&
				o.Items[0].ProductUID == "p1" && o.Items[0].Quantity == 2 &&
				o.Items[0].Price == 0
		})).Return(created, nil).Once()
		events.On("Publish", "order.created", OrderEvent{
			OrderUID:   "o1",
			UserUID:    "u1",
			TotalPrice: 205.20,
		}).Return(nil).Once()

		got, err := svc.Place(context.Background(), "u1", req)
		assert.NoError(t, err)
		assert.Equal(t, created, got)
		repo.AssertExpectations(t)
		events.AssertExpectations(t)
	})

	t.Run("empty order", func(t *testing.T) {
		svc := NewOrderService(new(OrdersMock), nil, nil, newNoopLogger())

		_, err := svc.Place(context.Background(), "u1", models.DummyOrder{})
		assert.ErrorIs(t, err, ErrEmptyOrder)
	})

	t.Run("insufficient stock passes through", func(t *testing.T) {
		repo := new(OrdersMock)
		svc := NewOrderService(repo, nil, nil, newNoopLogger())

		stockErr := &repository.InsufficientStockError{ProductName: "Airpods", Available: 1}
		repo.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, stockErr).Once()

		_, err := svc.Place(context.Background(), "u1", req)
		var got *repository.InsufficientStockError
		assert.ErrorAs(t, err, &got)
		assert.Equal(t, "Airpods", got.ProductName)
		assert.Equal(t, 1, got.Available)
	})

	t.Run("publish failure does not fail order", func(t *testing.T) {
		repo := new(OrdersMock)
		events := new(PublisherMock)
		svc := NewOrderService(repo, events, nil, newNoopLogger())

		repo.On("CreateOrder", mock.Anything, mock.Anything).Return(created, nil).Once()
		events.On("Publish", "order.created", mock.Anything).
			Return(errors.New("broker down")).Once()

		got, err := svc.Place(context.Background(), "u1", req)
		assert.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("invalidates cached cards of ordered products", func(t *testing.T) {
		repo := new(OrdersMock)
		productCache := new(CacheMock)
		svc := NewOrderService(repo, nil, productCache, newNoopLogger())

		// остаток p1 только что уменьшился, карточка в кеше устарела
		repo.On("CreateOrder", mock.Anything, mock.Anything).Return(created, nil).Once()
		productCache.On("Invalidate", "product:p1").Return(nil).Once()

		_, err := svc.Place(context.Background(), "u1", req)
		assert.NoError(t, err)
		productCache.AssertExpectations(t)
	})

	t.Run("cache failure does not fail order", func(t *testing.T) {
		repo := new(OrdersMock)
		productCache := new(CacheMock)
		svc := NewOrderService(repo, nil, productCache, newNoopLogger())

		repo.On("CreateOrder", mock.Anything, mock.Anything).Return(created, nil).Once()
		productCache.On("Invalidate", "product:p1").
			Return(errors.New("redis down")).Once()

		got, err := svc.Place(context.Background(), "u1", req)
		assert.NoError(t, err)
		assert.Equal(t, created, got)
	})
}

func TestOrderService_Get(t *testing.T) {
	order := &models.Order{UID: "o1", UserUID: "u1"}

	tests := []struct {
		name      string
		callerUID string
		role      string
		wantErr   error
	}{
		{name: "owner reads own order", callerUID: "u1", role: "user"},
		{name: "admin reads any order", callerUID: "u2", role: "admin"},
		{name: "foreign order denied", callerUID: "u2", role: "user", wantErr: ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(OrdersMock)
			svc := NewOrderService(repo, nil, nil, newNoopLogger())

			repo.On("GetOrder", mock.Anything, "o1").Return(order, nil).Once()

			got, err := svc.Get(context.Background(), "o1", tt.callerUID, tt.role)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, order, got)
			}
			repo.AssertExpectations(t)
		})
	}

	t.Run("unknown order", func(t *testing.T) {
		repo := new(OrdersMock)
		svc := NewOrderService(repo, nil, nil, newNoopLogger())

		repo.On("GetOrder", mock.Anything, "missing").Return(nil, repository.ErrNotFound).Once()

		_, err := svc.Get(context.Background(), "missing", "u1", "user")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestOrderService_MarkPaid(t *testing.T) {
	order := &models.Order{UID: "o1", UserUID: "u1", TotalPrice: 50}
	result := models.PaymentResult{
		ID:           "PAY-123",
		Status:       "COMPLETED",
		UpdateTime:   "2025-08-30T12:00:00Z",
		EmailAddress: "alice@example.com",
	}

	t.Run("owner pays own order", func(t *testing.T) {
		repo := new(OrdersMock)
		events := new(PublisherMock)
		svc := NewOrderService(repo, events, nil, newNoopLogger())

		paid := &models.Order{UID: "o1", UserUID: "u1", IsPaid: true, TotalPrice: 50}
		repo.On("GetOrder", mock.Anything, "o1").Return(order, nil).Once()
		repo.On("MarkOrderPaid", mock.Anything, "o1", result).Return(paid, nil).Once()
		events.On("Publish", "order.paid", mock.Anything).Return(nil).Once()

		got, err := svc.MarkPaid(context.Background(), "o1", "u1", "user", result)
		assert.NoError(t, err)
		assert.True(t, got.IsPaid)
		repo.AssertExpectations(t)
		events.AssertExpectations(t)
	})

	t.Run("foreign order denied", func(t *testing.T) {
		repo := new(OrdersMock)
		svc := NewOrderService(repo, nil, nil, newNoopLogger())

		repo.On("GetOrder", mock.Anything, "o1").Return(order, nil).Once()

		_, err := svc.MarkPaid(context.Background(), "o1", "u2", "user", result)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestOrderService_ListAll(t *testing.T) {
	repo := new(OrdersMock)
	svc := NewOrderService(repo, nil, nil, newNoopLogger())

	orders := []*models.Order{{UID: "o1"}, {UID: "o2"}}
	repo.On("ListAllOrders", mock.Anything, 10, 0).Return(orders, nil).Once()

	got, err := svc.ListAll(context.Background(), 10, 0)
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	repo.AssertExpectations(t)
}

func TestOrderService_MarkDelivered(t *testing.T) {
	repo := new(OrdersMock)
	svc := NewOrderService(repo, nil, nil, newNoopLogger())

	delivered := &models.Order{UID: "o1", IsDelivered: true}
	repo.On("MarkOrderDelivered", mock.Anything, "o1").Return(delivered, nil).Once()

	got, err := svc.MarkDelivered(context.Background(), "o1")
	assert.NoError(t, err)
	assert.True(t, got.IsDelivered)
	repo.AssertExpectations(t)
}
