// Package create реализует HTTP-обработчик оформления заказа.
//
// Handler принимает JSON-запрос с позициями корзины, адресом доставки и способом
// оплаты, валидирует их, извлекает идентификатор пользователя из контекста,
// вызывает бизнес-логику оформления заказа и возвращает созданный заказ.
//
// Итоговые суммы заказа считаются на сервере по текущим ценам каталога,
// присланные клиентом цены игнорируются. Резервирование остатков и создание
// заказа выполняются атомарно: при нехватке товара заказ не создается.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
	ordersvc "github.com/magabrotheeeer/storefront/internal/services/order"
	"github.com/magabrotheeeer/storefront/internal/storage/repository"
)

// Handler управляет HTTP-запросами на оформление заказов.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики заказов
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики оформления заказа.
type Service interface {
	Place(ctx context.Context, userUID string, req models.DummyOrder) (*models.Order, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Оформить заказ
// @Description Создает заказ из позиций корзины. Суммы считаются на сервере, остатки товаров резервируются атомарно.
// @Tags Orders
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyOrder true "Позиции корзины, адрес доставки и способ оплаты"
// @Success 201 {object} map[string]any "Созданный заказ"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON, пустая корзина или нехватка товара"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /orders [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyOrder
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Int("items", len(req.Items)))

	// Пустая корзина — BadRequest, а не ошибка валидации полей
	if len(req.Items) == 0 {
		log.Error("order has no items")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("order has no items"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	order, err := h.service.Place(r.Context(), userUID, req)
	if err != nil {
		var stockErr *repository.InsufficientStockError
		switch {
		case errors.Is(err, ordersvc.ErrEmptyOrder):
			log.Error("order has no items")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("order has no items"))
		case errors.As(err, &stockErr):
			log.Error("insufficient stock", slog.String("product", stockErr.ProductName))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(stockErr.Error()))
		case errors.Is(err, repository.ErrNotFound):
			log.Error("product not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("product not found"))
		default:
			log.Error("failed to create order", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create order"))
		}
		return
	}

	log.Info("order created", slog.String("order_uid", order.UID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"order": order,
	}))
}
