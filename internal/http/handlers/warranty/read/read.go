// Package read реализует HTTP-обработчик для получения гарантийной записи по идентификатору.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/warrantywallet/warranty-wallet/internal/http/response"
	"github.com/warrantywallet/warranty-wallet/internal/lib/sl"
	"github.com/warrantywallet/warranty-wallet/internal/models"
	"github.com/warrantywallet/warranty-wallet/internal/services/warranty"
	"github.com/warrantywallet/warranty-wallet/internal/storage"
)

// Handler управляет HTTP-запросами на чтение гарантийной записи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения записи.
type Service interface {
	GetByID(ctx context.Context, id string) (*models.Warranty, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить гарантийную запись по идентификатору
// @Tags Warranties
// @Produce json
// @Param id path string true "Идентификатор записи"
// @Success 200 {object} response.Response "Найденная запись"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при чтении записи"
// @Router /getWarrantyById/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.warranty.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	result, err := h.service.GetByID(r.Context(), id)
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
			log.Error("failed to read warranty", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not read warranty"))
		}
		return
	}

	log.Info("success to read warranty", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(result))
}
