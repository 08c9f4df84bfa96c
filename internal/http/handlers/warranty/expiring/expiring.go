// Package expiring реализует HTTP-обработчик для получения записей с истекающим сроком гарантии.
package expiring

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

// Handler управляет HTTP-запросами на получение истекающих записей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выборки истекающих записей.
type Service interface {
	ListExpiringSoon(ctx context.Context, ownerID string) ([]models.ExpiringWarranty, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить записи пользователя с гарантией, истекающей в ближайшие 10 дней
// @Tags Warranties
// @Produce json
// @Param addedBy path string true "Идентификатор пользователя"
// @Success 200 {object} response.Response "Список истекающих записей"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при получении списка"
// @Router /getExpiringWarrantiesByUser/{addedBy} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.warranty.expiring"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	ownerID := chi.URLParam(r, "addedBy")

	result, err := h.service.ListExpiringSoon(r.Context(), ownerID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Error("user not found", sl.Err(err))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to list expiring warranties", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list expiring warranties"))
		return
	}

	log.Info("success to list expiring warranties", slog.Int("count", len(result)))
	render.JSON(w, r, response.OKWithData(result))
}
