// Package respond реализует HTTP-обработчик ответа на заявку на шаринг.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/pantry-aggregator/internal/http/middlewarectx"
	"github.com/magabrotheeeer/pantry-aggregator/internal/http/response"
	"github.com/magabrotheeeer/pantry-aggregator/internal/lib/sl"
	"github.com/magabrotheeeer/pantry-aggregator/internal/models"
	shareservice "github.com/magabrotheeeer/pantry-aggregator/internal/services/share"
)

// Request — входные данные ответа на заявку.
type Request struct {
	RequestID string `json:"request_id" validate:"required"`
	Action    string `json:"action" validate:"required,oneof=accept reject"`
}

// Handler обрабатывает HTTP-запросы ответа на заявку.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики шаринга.
type Service interface {
	Respond(ctx context.Context, userUID, requestID string, accept bool) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Ответить на заявку на шаринг
// @Description Принимает или отклоняет заявку. Повторный ответ перезаписывает предыдущий.
// @Tags Share
// @Accept  json
// @Produce  json
// @Param request body Request true "ID заявки и решение"
// @Success 200 {object} map[string]any "Ответ сохранён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /share/respond [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.share.respond"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("share_request_id", req.RequestID))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	accept := req.Action == "accept"
	if err := h.service.Respond(r.Context(), userUID, req.RequestID, accept); err != nil {
		switch {
		case errors.Is(err, shareservice.ErrRequestNotFound),
			errors.Is(err, shareservice.ErrUserNotFound):
			log.Info("share request not found", slog.String("share_request_id", req.RequestID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("share request not found"))
		default:
			log.Error("failed to respond to share request", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not respond to share request"))
		}
		return
	}

	status := models.ShareStatusRejected
	if accept {
		status = models.ShareStatusAccepted
	}
	log.Info("success to respond to share request",
		slog.String("share_request_id", req.RequestID), slog.String("action", req.Action))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": fmt.Sprintf("Request %sed successfully", req.Action),
		"status":  status,
	}))
}
