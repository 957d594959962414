// Package list реализует HTTP-обработчик каталога товаров с поиском,
// фильтрацией по категории, сортировкой и постраничным выводом.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
)

// Handler обрабатывает запросы на получение списка товаров.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики каталога.
type Service interface {
	List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, int, error)
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
// @Summary Список товаров
// @Description Возвращает страницу каталога. Поддерживает поиск по названию, фильтр по категории и сортировку по цене.
// @Tags Products
// @Produce  json
// @Param keyword query string false "Поиск по названию"
// @Param category query string false "Категория"
// @Param sortBy query string false "Сортировка: price-asc, price-desc или по новизне"
// @Param pageNumber query int false "Номер страницы"
// @Success 200 {object} map[string]any "Страница каталога"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /products [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	page, err := strconv.Atoi(r.URL.Query().Get("pageNumber"))
	if err != nil || page <= 0 {
		page = 1
	}

	filter := models.ProductFilter{
		Keyword:  r.URL.Query().Get("keyword"),
		Category: r.URL.Query().Get("category"),
		SortBy:   r.URL.Query().Get("sortBy"),
		Page:     page,
	}

	products, curPage, pages, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list products", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list products"))
		return
	}

	log.Info("list products", "count", len(products))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"products": products,
		"page":     curPage,
		"pages":    pages,
	}))
}
