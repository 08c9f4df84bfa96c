// Package share реализует HTTP-обработчик для выдачи доступа к гарантийной записи.
//
// Доступ выдается по email зарегистрированного пользователя. Повторная
// выдача одного и того же email завершается конфликтом.
package share

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/warrantywallet/warranty-wallet/internal/http/response"
	"github.com/warrantywallet/warranty-wallet/internal/lib/sl"
	"github.com/warrantywallet/warranty-wallet/internal/models"
	"github.com/warrantywallet/warranty-wallet/internal/services/warranty"
	"github.com/warrantywallet/warranty-wallet/internal/storage"
)

// Handler управляет HTTP-запросами на выдачу доступа к записи.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики выдачи доступа.
type Service interface {
	Share(ctx context.Context, id, email string) ([]string, error)
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
// @Summary Выдать доступ к гарантийной записи по email
// @Tags Sharing
// @Accept json
// @Produce json
// @Param id path string true "Идентификатор записи"
// @Param input body models.DummyShare true "Email получателя доступа"
// @Success 200 {object} response.Response "Обновленный список доступа"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор или тело запроса"
// @Failure 404 {object} response.ErrorResponse "Запись или пользователь не найдены"
// @Failure 409 {object} response.ErrorResponse "Доступ уже выдан этому email"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при выдаче доступа"
// @Router /shareAccess/{id} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.warranty.share"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var req models.DummyShare
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	sharedWith, err := h.service.Share(r.Context(), id, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, warranty.ErrInvalidID):
			log.Error("invalid warranty id", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid warranty id"))
		case errors.Is(err, storage.ErrWarrantyNotFound):
			log.Error("warranty not found", sl.Err(err))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("warranty not found"))
		case errors.Is(err, storage.ErrUserNotFound):
			log.Error("recipient not found", sl.Err(err))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, warranty.ErrAlreadyShared):
			log.Error("access already shared", sl.Err(err))
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error("access already shared with this email"))
		default:
			log.Error("failed to share access", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not share access"))
		}
		return
	}

	log.Info("success to share access",
		slog.String("id", id), slog.String("email", req.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{"shared_with": sharedWith}))
}
