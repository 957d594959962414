package storefront

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/storefront/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/auth/profile"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/auth/profileupdate"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/health"
	ordercreate "github.com/magabrotheeeer/storefront/internal/http/handlers/order/create"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/order/deliver"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/order/listall"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/order/listmy"
	"github.com/magabrotheeeer/storefront/internal/http/handlers/order/pay"
	orderread "github.com/magabrotheeeer/storefront/internal/http/handlers/order/read"
	productcreate "github.com/magabrotheeeer/storefront/internal/http/handlers/product/create"
	productlist "github.com/magabrotheeeer/storefront/internal/http/handlers/product/list"
	productread "github.com/magabrotheeeer/storefront/internal/http/handlers/product/read"
	productremove "github.com/magabrotheeeer/storefront/internal/http/handlers/product/remove"
	productupdate "github.com/magabrotheeeer/storefront/internal/http/handlers/product/update"
	userlist "github.com/magabrotheeeer/storefront/internal/http/handlers/user/list"
	userremove "github.com/magabrotheeeer/storefront/internal/http/handlers/user/remove"
	"github.com/magabrotheeeer/storefront/internal/http/middlewarectx"
	authsvc "github.com/magabrotheeeer/storefront/internal/services/auth"
	catalogsvc "github.com/magabrotheeeer/storefront/internal/services/catalog"
	ordersvc "github.com/magabrotheeeer/storefront/internal/services/order"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authsvc.AuthService, catalogService *catalogsvc.CatalogService, orderService *ordersvc.OrderService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/users/register", register.New(logger, authService).ServeHTTP)
		r.Post("/users/login", login.New(logger, authService).ServeHTTP)
		r.Get("/products", productlist.New(logger, catalogService).ServeHTTP)
		r.Get("/products/{uid}", productread.New(logger, catalogService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/users/profile", profile.New(logger, authService).ServeHTTP)
			r.Put("/users/profile", profileupdate.New(logger, authService).ServeHTTP)

			r.Post("/orders", ordercreate.New(logger, orderService).ServeHTTP)
			r.Get("/orders/myorders", listmy.New(logger, orderService).ServeHTTP)
			r.Get("/orders/{uid}", orderread.New(logger, orderService).ServeHTTP)
			r.Put("/orders/{uid}/pay", pay.New(logger, orderService).ServeHTTP)

			// Группа администратора: роль проверяется по хранилищу
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireAdminMiddleware(logger, authService))

				r.Get("/users", userlist.New(logger, authService).ServeHTTP)
				r.Delete("/users/{uid}", userremove.New(logger, authService).ServeHTTP)

				r.Post("/products/admin", productcreate.New(logger, catalogService).ServeHTTP)
				r.Put("/products/admin/{uid}", productupdate.New(logger, catalogService).ServeHTTP)
				r.Delete("/products/admin/{uid}", productremove.New(logger, catalogService).ServeHTTP)

				r.Get("/orders", listall.New(logger, orderService).ServeHTTP)
				r.Put("/orders/{uid}/deliver", deliver.New(logger, orderService).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
