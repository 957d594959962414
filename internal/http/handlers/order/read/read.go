// Package read реализует HTTP-обработчик получения заказа по UID.
//
// Заказ доступен его владельцу и администраторам, остальным возвращается 403.
package read

import (
	"context"
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

// Handler обрабатывает запросы на получение заказа по уникальному идентификатору.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики чтения заказа.
type Service interface {
	Get(ctx context.Context, orderUID, callerUID, role string) (*models.Order, error)
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
// @Summary Получить заказ
// @Description Возвращает заказ по UID. Доступен владельцу заказа и администраторам.
// @Tags Orders
// @Produce  json
// @Security BearerAuth
// @Param uid path string true "UID заказа"
// @Success 200 {object} map[string]any "Данные заказа"
// @Failure 400 {object} response.ErrorResponse "Некорректный UID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Чужой заказ"
// @Failure 404 {object} response.ErrorResponse "Заказ не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /orders/{uid} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.read"

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

	callerUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || callerUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	role, _ := r.Context().Value(middlewarectx.Role).(string)

	order, err := h.service.Get(r.Context(), uid, callerUID, role)
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
			log.Error("failed to read order", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not read order"))
		}
		return
	}

	log.Info("success to read order", slog.String("order_uid", uid))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"order": order,
	}))
}
