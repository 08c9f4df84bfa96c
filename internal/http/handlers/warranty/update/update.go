// Package update реализует HTTP-обработчик для обновления гарантийной записи.
//
// Обновление принимает тот же multipart-формат, что и создание записи.
// Владелец и список доступа при обновлении не изменяются. Новый файл чека,
// если он приложен, заменяет ссылку на прежний.
package update

import (
	"context"
	"errors"
	"io"
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

// maxUploadSize ограничивает размер файла чека (5MB).
const maxUploadSize = 5 << 20

// Handler управляет HTTP-запросами на обновление гарантийных записей.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления записи.
type Service interface {
	Update(ctx context.Context, id string, req models.DummyWarrantyUpdate, file *models.InvoiceFile) (*models.Warranty, error)
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
// @Summary Обновить гарантийную запись по идентификатору
// @Description Заменяет изменяемые поля записи. Владелец и список доступа не затрагиваются.
// @Tags Warranties
// @Accept mpfd
// @Produce json
// @Param id path string true "Идентификатор записи"
// @Param item_name formData string true "Название товара"
// @Param category formData string true "Категория товара"
// @Param warranty_provider formData string false "Поставщик гарантии"
// @Param purchased_on formData string true "Дата покупки в формате 02-01-2006"
// @Param expires_on formData string true "Дата окончания в формате 02-01-2006"
// @Param description formData string true "Описание покрытия"
// @Param invoice_url formData string false "Прежняя ссылка на чек"
// @Param invoiceFile formData file false "Новый файл чека"
// @Success 200 {object} response.Response "Обновленная запись"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор или форма запроса"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при обновлении записи"
// @Router /updateWarrantyById/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.warranty.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	req := models.DummyWarrantyUpdate{
		ItemName:         r.FormValue("item_name"),
		Category:         r.FormValue("category"),
		WarrantyProvider: r.FormValue("warranty_provider"),
		PurchasedOn:      r.FormValue("purchased_on"),
		ExpiresOn:        r.FormValue("expires_on"),
		Description:      r.FormValue("description"),
		InvoiceURL:       r.FormValue("invoice_url"),
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	file, err := readInvoiceFile(r)
	if err != nil {
		log.Error("failed to read invoice file", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid invoice file"))
		return
	}

	updated, err := h.service.Update(r.Context(), id, req, file)
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
			log.Error("failed to update warranty", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update warranty"))
		}
		return
	}

	log.Info("success to update warranty", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(updated))
}

func readInvoiceFile(r *http.Request) (*models.InvoiceFile, error) {
	f, header, err := r.FormFile("invoiceFile")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &models.InvoiceFile{
		Data:        data,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}
