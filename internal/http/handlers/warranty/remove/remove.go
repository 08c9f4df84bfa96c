// Package remove реализует HTTP-обработчик для удаления гарантийной записи.
package remove

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
	"github.com/warrantywallet/warranty-wallet/internal/services/warranty"
	"github.com/warrantywallet/warranty-wallet/internal/storage"
)

// Handler управляет HTTP-запросами на удаление гарантийной записи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления записи.
type Service interface {
	Delete(ctx context.Context, id string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить гарантийную запись по идентификатору
// @Tags Warranties
// @Produce json
// @Param id path string true "Идентификатор записи"
// @Success 200 {object} response.Response "Подтверждение удаления"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при удалении записи"
// @Router /deleteWarrantyById/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.warranty.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
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
			log.Error("failed to delete warranty", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not delete warranty"))
		}
		return
	}

	log.Info("success to delete warranty", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]string{"id": id}))
}
