// Package list реализует HTTP-обработчик для получения всех записей пользователя.
//
// В выдачу попадают как собственные записи пользователя, так и записи,
// которыми с ним поделились по email.
package list

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
	"github.com/warrantywallet/warranty-wallet/internal/storage"
)

// Handler управляет HTTP-запросами на получение списка записей пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики получения списка записей.
type Service interface {
	ListForUser(ctx context.Context, ownerID string) ([]models.EnrichedWarranty, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить все гарантийные записи пользователя
// @Description Возвращает собственные и расшаренные записи с рассчитанными остатком дней и процентом истекшего срока.
// @Tags Warranties
// @Produce json
// @Param addedBy path string true "Идентификатор пользователя"
// @Success 200 {object} response.Response "Список записей"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при получении списка"
// @Router /getAllWarrantyByUser/{addedBy} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.warranty.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	ownerID := chi.URLParam(r, "addedBy")

	result, err := h.service.ListForUser(r.Context(), ownerID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Error("user not found", sl.Err(err))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to list warranties", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list warranties"))
		return
	}

	log.Info("success to list warranties", slog.Int("count", len(result)))
	render.JSON(w, r, response.OKWithData(result))
}
