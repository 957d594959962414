// Package deliver реализует HTTP-обработчик отметки заказа как доставленного.
// Доступен только администраторам.
package deliver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/storage/repository"
)

// Handler обрабатывает запросы на отметку заказа доставленным.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики доставки заказа.
type Service interface {
	MarkDelivered(ctx context.Context, orderUID string) (*models.Order, error)
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
// @Summary Отметить заказ доставленным
// @Description Выставляет отметку доставки с текущим временем. Только для администраторов.
// @Tags Orders
// @Produce  json
// @Security BearerAuth
// @Param uid path string true "UID заказа"
// @Success 200 {object} map[string]any "Обновленный заказ"
// @Failure 400 {object} response.ErrorResponse "Некорректный UID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Доступ запрещен"
// @Failure 404 {object} response.ErrorResponse "Заказ не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /orders/{uid}/deliver [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.deliver"

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

	order, err := h.service.MarkDelivered(r.Context(), uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("order not found", slog.String("order_uid", uid))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("order not found"))
			return
		}
		log.Error("failed to mark order as delivered", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update order"))
		return
	}

	log.Info("order marked as delivered", slog.String("order_uid", order.UID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"order": order,
	}))
}
