// Package sharedwith реализует HTTP-обработчик списка пользователей,
// открывших доступ к своей кладовой.
package sharedwith

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

// Handler обрабатывает HTTP-запросы списка доступных кладовых.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики шаринга.
type Service interface {
	ListSharedWith(ctx context.Context, userUID string) ([]*models.SharedWithEntry, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Кто поделился кладовой
// @Description Возвращает пользователей, открывших доступ к своей кладовой указанному пользователю.
// @Tags Share
// @Produce  json
// @Param user_id path string true "UID пользователя"
// @Success 200 {object} map[string]any "Список пользователей"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /share/shared-with/{user_id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.share.sharedwith"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "user_id")

	entries, err := h.service.ListSharedWith(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, shareservice.ErrUserNotFound) {
			log.Info("user not found", slog.String("user_id", userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to list shared pantries", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list shared pantries"))
		return
	}

	log.Info("success to list shared pantries", slog.Int("count", len(entries)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"shared_with": entries,
		"count":       len(entries),
	}))
}
