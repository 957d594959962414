package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/storage/repository"
)

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Read(ctx context.Context, productUID string) (*models.Product, error) {
	args := m.Called(ctx, productUID)
	if res := args.Get(0); res != nil {
		return res.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestReadProductHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	const productUID = "22222222-2222-2222-2222-222222222222"

	tests := []struct {
		name           string
		uid            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное чтение товара",
			uid:  productUID,
			setupMock: func(m *MockService) {
				product := &models.Product{
					UID:          productUID,
					Name:         "Airpods",
					Price:        89.99,
					CountInStock: 10,
				}
				m.On("Read", mock.Anything, productUID).Return(product, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"name":"Airpods"`,
		},
		{
			name:           "некорректный uid в URL",
			uid:            "not-a-uuid",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid product uid"`,
		},
		{
			name: "товар не найден",
			uid:  productUID,
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, productUID).Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"product not found"`,
		},
		{
			name: "ошибка сервиса",
			uid:  productUID,
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything, productUID).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not read product"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/products/"+tt.uid, nil)
			// Устанавливаем URL params с помощью роутера chi
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("uid", tt.uid)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
