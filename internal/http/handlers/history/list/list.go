// Package list реализует HTTP-обработчик чтения журнала операций.
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

// Handler обрабатывает HTTP-запросы на чтение журнала.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики журнала операций.
type Service interface {
	List(ctx context.Context, action, search string) ([]*models.HistoryEntry, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Журнал операций
// @Description Возвращает записи журнала от новых к старым. Поддерживает фильтр по типу операции и поиск по имени ингредиента.
// @Tags History
// @Produce  json
// @Param action query string false "Тип операции (added, updated, deleted, used)"
// @Param search query string false "Подстрока имени ингредиента"
// @Success 200 {object} map[string]any "Записи журнала"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /history [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.history.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	action := r.URL.Query().Get("action")
	search := r.URL.Query().Get("search")

	entries, err := h.service.List(r.Context(), action, search)
	if err != nil {
		log.Error("failed to list history", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list history"))
		return
	}

	log.Info("success to list history", slog.Int("count", len(entries)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"history": entries,
		"count":   len(entries),
	}))
}
