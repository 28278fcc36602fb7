// Package request реализует HTTP-обработчик создания заявки на шаринг кладовой.
package request

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/pantry-aggregator/internal/http/middlewarectx"
	"github.com/magabrotheeeer/pantry-aggregator/internal/http/response"
	"github.com/magabrotheeeer/pantry-aggregator/internal/lib/sl"
	shareservice "github.com/magabrotheeeer/pantry-aggregator/internal/services/share"
)

// Request — входные данные заявки на шаринг.
type Request struct {
	ToUsername string `json:"to_username" validate:"required,min=3,max=50"`
	Permission string `json:"permission" validate:"omitempty,oneof=view edit"`
}

// Handler обрабатывает HTTP-запросы создания заявки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики шаринга.
type Service interface {
	CreateRequest(ctx context.Context, fromUserUID, toUsername, permission string) (string, error)
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
// @Summary Создать заявку на шаринг
// @Description Отправляет другому пользователю заявку на доступ к своей кладовой.
// @Tags Share
// @Accept  json
// @Produce  json
// @Param request body Request true "Получатель и уровень доступа"
// @Success 200 {object} map[string]any "Заявка создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или шаринг с самим собой"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Получатель не найден"
// @Failure 409 {object} response.ErrorResponse "Заявка уже ожидает ответа"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /share/request [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.share.request"
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
	log.Info("request body decoded", slog.String("to_username", req.ToUsername))

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

	id, err := h.service.CreateRequest(r.Context(), userUID, req.ToUsername, req.Permission)
	if err != nil {
		switch {
		case errors.Is(err, shareservice.ErrUserNotFound):
			log.Info("share recipient not found", slog.String("to_username", req.ToUsername))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, shareservice.ErrSelfShare):
			log.Info("attempt to share pantry with self")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("cannot share pantry with yourself"))
		case errors.Is(err, shareservice.ErrDuplicatePending):
			log.Info("duplicate pending share request", slog.String("to_username", req.ToUsername))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("share request already pending"))
		default:
			log.Error("failed to create share request", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create share request"))
		}
		return
	}

	log.Info("success to create share request", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"request_id": id,
	}))
}
