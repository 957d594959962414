// Package pay реализует HTTP-обработчик отметки заказа как оплаченного.
//
// Handler принимает результат оплаты от платежного провайдера, сохраняет его
// в заказе как есть и выставляет отметку оплаты с текущим временем.
package pay

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
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

// Handler обрабатывает запросы на отметку заказа оплаченным.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики оплаты заказа.
type Service interface {
	MarkPaid(ctx context.Context, orderUID, callerUID, role string, result models.PaymentResult) (*models.Order, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Отметить заказ оплаченным
// @Description Сохраняет результат оплаты и выставляет отметку оплаты. Доступен владельцу заказа и администраторам.
// @Tags Orders
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param uid path string true "UID заказа"
// @Param request body models.PaymentResult true "Результат оплаты от провайдера"
// @Success 200 {object} map[string]any "Обновленный заказ"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или UID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Чужой заказ"
// @Failure 404 {object} response.ErrorResponse "Заказ не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /orders/{uid}/pay [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.pay"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")
	if err := h.validate.Var(uid, "required,uuid"); err != nil {
		log.Error("invalid uid in url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid order uid"))
		return
	}

	var result models.PaymentResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	callerUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || callerUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	role, _ := r.Context().Value(middlewarectx.Role).(string)

	order, err := h.service.MarkPaid(r.Context(), uid, callerUID, role, result)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.Error("order not found", slog.String("order_uid", uid))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("order not found"))
		case errors.Is(err, ordersvc.ErrAccessDenied):
			log.Error("access to foreign order denied", slog.String("order_uid", uid))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		default:
			log.Error("failed to mark order as paid", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update order"))
		}
		return
	}

	log.Info("order marked as paid", slog.String("order_uid", order.UID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"order": order,
	}))
}
