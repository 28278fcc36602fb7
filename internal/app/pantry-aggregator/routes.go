// Package pantryaggregator предоставляет маршруты для основного приложения.
package pantryaggregator

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/pantry-aggregator/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/pantry-aggregator/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/pantry-aggregator/internal/http/handlers/health"
	historycreate "github.com/magabrotheeeer/pantry-aggregator/internal/http/handlers/history/create"
	historylist "github.com/magabrotheeeer/pantry-aggregator/internal/http/handlers/history/list"
	"github.com/magabrotheeeer/pantry-aggregator/internal/http/handlers/ingredient/create"
	"github.com/magabrotheeeer/pantry-aggregator/internal/http/handlers/ingredient/list"
	"github.com/magabrotheeeer/pantry-aggregator/internal/http/handlers/ingredient/remove"
	"github.com/magabrotheeeer/pantry-aggregator/internal/http/handlers/ingredient/update"
	"github.com/magabrotheeeer/pantry-aggregator/internal/http/handlers/password/forgot"
	"github.com/magabrotheeeer/pantry-aggregator/internal/http/handlers/password/reset"
	"github.com/magabrotheeeer/pantry-aggregator/internal/http/handlers/share/received"
	"github.com/magabrotheeeer/pantry-aggregator/internal/http/handlers/share/request"
	"github.com/magabrotheeeer/pantry-aggregator/internal/http/handlers/share/respond"
	"github.com/magabrotheeeer/pantry-aggregator/internal/http/handlers/share/sent"
	"github.com/magabrotheeeer/pantry-aggregator/internal/http/handlers/share/sharedwith"
	"github.com/magabrotheeeer/pantry-aggregator/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/pantry-aggregator/internal/services/auth"
	historyservice "github.com/magabrotheeeer/pantry-aggregator/internal/services/history"
	ingredientservice "github.com/magabrotheeeer/pantry-aggregator/internal/services/ingredient"
	shareservice "github.com/magabrotheeeer/pantry-aggregator/internal/services/share"
	"github.com/magabrotheeeer/pantry-aggregator/internal/storage"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *storage.Storage,
	authService *authservice.AuthService, ingredientService *ingredientservice.IngredientService,
	historyService *historyservice.HistoryService, shareService *shareservice.ShareService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Открытые конечные точки
	r.Post("/signup", register.New(logger, authService).ServeHTTP)
	r.Post("/login", login.New(logger, authService).ServeHTTP)
	r.Post("/forgot-password/request", forgot.New(logger, authService).ServeHTTP)
	r.Post("/forgot-password/reset", reset.New(logger, authService).ServeHTTP)

	// Группа с JWT аутентификацией
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(authService, logger))
		r.Use(middlewarectx.RateLimitMiddleware(logger))

		r.Post("/ingredients", create.New(logger, ingredientService).ServeHTTP)
		r.Get("/ingredients", list.New(logger, ingredientService).ServeHTTP)
		r.Put("/ingredients/{id}", update.New(logger, ingredientService).ServeHTTP)
		r.Delete("/ingredients/{id}", remove.New(logger, ingredientService).ServeHTTP)

		r.Get("/history", historylist.New(logger, historyService).ServeHTTP)
		r.Post("/history", historycreate.New(logger, historyService).ServeHTTP)

		r.Post("/share/request", request.New(logger, shareService).ServeHTTP)
		r.Post("/share/respond", respond.New(logger, shareService).ServeHTTP)
		r.Get("/share/received/{user_id}", received.New(logger, shareService).ServeHTTP)
		r.Get("/share/sent/{user_id}", sent.New(logger, shareService).ServeHTTP)
		r.Get("/share/shared-with/{user_id}", sharedwith.New(logger, shareService).ServeHTTP)
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
