package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/storefront/internal/http/response"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
)

// AdminChecker описывает интерфейс проверки административной роли пользователя.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userUID string) (bool, error)
}

// RequireAdminMiddleware создает middleware для проверки роли администратора.
// Роль читается из хранилища, а не из токена, чтобы отзыв прав
// действовал сразу, не дожидаясь истечения токена.
func RequireAdminMiddleware(log *slog.Logger, checker AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireAdminMiddleware"

			log = log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			isAdmin, err := checker.IsAdmin(r.Context(), userUID)
			if err != nil {
				log.Error("failed to check user role", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			if !isAdmin {
				log.Error("admin access required", slog.String("user_uid", userUID))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("admin access required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
