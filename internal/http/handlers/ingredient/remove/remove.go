// Package remove реализует HTTP-обработчик удаления ингредиента.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/pantry-aggregator/internal/http/response"
	"github.com/magabrotheeeer/pantry-aggregator/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы на удаление ингредиента.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления ингредиента.
type Service interface {
	Remove(ctx context.Context, id string) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить ингредиент
// @Description Удаляет ингредиент по его ID. Удаление попадает в журнал операций.
// @Tags Ingredients
// @Produce  json
// @Param id path string true "ID ингредиента"
// @Success 200 {object} map[string]any "Успешное удаление"
// @Failure 404 {object} response.ErrorResponse "Ингредиент не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /ingredients/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ingredient.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	rowsAffected, err := h.service.Remove(r.Context(), id)
	if err != nil {
		log.Error("failed to delete ingredient", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not delete ingredient"))
		return
	}
	if rowsAffected == 0 {
		log.Info("ingredient not found", slog.String("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("ingredient not found"))
		return
	}

	log.Info("success to delete ingredient", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deleted_count": rowsAffected,
	}))
}
