// Package received реализует HTTP-обработчик списка входящих заявок на шаринг.
package received

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/pantry-aggregator/internal/http/response"
	"github.com/magabrotheeeer/pantry-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/pantry-aggregator/internal/models"
	shareservice "github.com/magabrotheeeer/pantry-aggregator/internal/services/share"
)

// Handler обрабатывает HTTP-запросы списка входящих заявок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики шаринга.
type Service interface {
	ListReceived(ctx context.Context, userUID string) ([]*models.ReceivedShareView, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Входящие заявки на шаринг
// @Description Возвращает ожидающие заявки, адресованные пользователю, от новых к старым.
// @Tags Share
// @Produce  json
// @Param user_id path string true "UID пользователя"
// @Success 200 {object} map[string]any "Список заявок"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /share/received/{user_id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.share.received"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "user_id")

	views, err := h.service.ListReceived(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, shareservice.ErrUserNotFound) {
			log.Info("user not found", slog.String("user_id", userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to list received share requests", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list received share requests"))
		return
	}

	log.Info("success to list received share requests", slog.Int("count", len(views)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"requests": views,
		"count":    len(views),
	}))
}
