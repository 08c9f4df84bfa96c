// Package revoke реализует HTTP-обработчик для отзыва доступа к гарантийной записи.
//
// Отзыв идемпотентен: удаление email, которого нет в списке доступа,
// завершается успешно.
package revoke

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

// Handler управляет HTTP-запросами на отзыв доступа к записи.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики отзыва доступа.
type Service interface {
	Revoke(ctx context.Context, id, email string) (*models.Warranty, error)
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
// @Summary Отозвать доступ к гарантийной записи по email
// @Tags Sharing
// @Accept json
// @Produce json
// @Param id path string true "Идентификатор записи"
// @Param input body models.DummyShare true "Email, у которого отзывается доступ"
// @Success 200 {object} response.Response "Обновленный список доступа"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор или тело запроса"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при отзыве доступа"
// @Router /revokeAccess/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.warranty.revoke"
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

	updated, err := h.service.Revoke(r.Context(), id, req.Email)
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
		default:
			log.Error("failed to revoke access", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not revoke access"))
		}
		return
	}

	log.Info("success to revoke access",
		slog.String("id", id), slog.String("email", req.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{"shared_with": updated.SharedWith}))
}
