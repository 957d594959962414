package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/storage/repository"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Place(ctx context.Context, userUID string, req models.DummyOrder) (*models.Order, error) {
	args := m.Called(ctx, userUID, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

const (
	testUserUID    = "11111111-1111-1111-1111-111111111111"
	testProductUID = "22222222-2222-2222-2222-222222222222"
)

func validBody() string {
	return `{
		"items": [{"product_uid": "` + testProductUID + `", "quantity": 2}],
		"shipping_address": {
			"address": "1 Main St",
			"city": "Boston",
			"postal_code": "02101",
			"country": "USA"
		},
		"payment_method": "PayPal"
	}`
}

func TestCreateOrderHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		withUser       bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "успешное оформление заказа",
			body:     validBody(),
			withUser: true,
			setupMock: func(m *MockService) {
				order := &models.Order{
					UID:        "33333333-3333-3333-3333-333333333333",
					UserUID:    testUserUID,
					TotalPrice: 215.20,
				}
				m.On("Place", mock.Anything, testUserUID, mock.MatchedBy(func(req models.DummyOrder) bool {
					return len(req.Items) == 1 && req.Items[0].Quantity == 2
				})).Return(order, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"total_price":215.2`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"items":`,
			withUser:       true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "пустая корзина",
			body:           `{"items": [], "shipping_address": {"address":"1 Main St","city":"Boston","postal_code":"02101","country":"USA"}, "payment_method": "PayPal"}`,
			withUser:       true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"order has no items"`,
		},
		{
			name:           "без авторизации",
			body:           validBody(),
			withUser:       false,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:     "нехватка товара",
			body:     validBody(),
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("Place", mock.Anything, testUserUID, mock.Anything).
					Return(nil, &repository.InsufficientStockError{ProductName: "Airpods", Available: 1})
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `insufficient stock for Airpods: only 1 available`,
		},
		{
			name:     "товар не найден",
			body:     validBody(),
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("Place", mock.Anything, testUserUID, mock.Anything).
					Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"product not found"`,
		},
		{
			name:     "ошибка сервиса",
			body:     validBody(),
			withUser: true,
			setupMock: func(m *MockService) {
				m.On("Place", mock.Anything, testUserUID, mock.Anything).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not create order"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(tt.body))
			if tt.withUser {
				ctx := context.WithValue(req.Context(), middlewarectx.UserUID, testUserUID)
				ctx = context.WithValue(ctx, middlewarectx.Role, "user")
				req = req.WithContext(ctx)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
