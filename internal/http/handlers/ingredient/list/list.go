// Package list реализует HTTP-обработчик получения всех ингредиентов кладовой.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/pantry-aggregator/internal/http/response"
	"github.com/magabrotheeeer/pantry-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/pantry-aggregator/internal/models"
)

// Handler обрабатывает HTTP-запросы на получение списка ингредиентов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики получения списка.
type Service interface {
	List(ctx context.Context) ([]*models.Ingredient, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список ингредиентов
// @Description Возвращает все ингредиенты кладовой.
// @Tags Ingredients
// @Produce  json
// @Success 200 {object} map[string]any "Список ингредиентов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /ingredients [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ingredient.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	ingredients, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list ingredients", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list ingredients"))
		return
	}

	log.Info("success to list ingredients", slog.Int("count", len(ingredients)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"ingredients": ingredients,
		"count":       len(ingredients),
	}))
}
