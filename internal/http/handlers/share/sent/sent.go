// Package sent реализует HTTP-обработчик списка исходящих заявок на шаринг.
package sent

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

// Handler обрабатывает HTTP-запросы списка исходящих заявок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики шаринга.
type Service interface {
	ListSent(ctx context.Context, userUID string) ([]*models.ShareRequest, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Исходящие заявки на шаринг
// @Description Возвращает все заявки, отправленные пользователем, от новых к старым.
// @Tags Share
// @Produce  json
// @Param user_id path string true "UID пользователя"
// @Success 200 {object} map[string]any "Список заявок"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /share/sent/{user_id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.share.sent"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "user_id")

	requests, err := h.service.ListSent(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, shareservice.ErrUserNotFound) {
			log.Info("user not found", slog.String("user_id", userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to list sent share requests", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list sent share requests"))
		return
	}

	log.Info("success to list sent share requests", slog.Int("count", len(requests)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"requests": requests,
		"count":    len(requests),
	}))
}
