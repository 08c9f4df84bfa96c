// Package add реализует HTTP-обработчик для создания новых гарантийных записей.
//
// Handler принимает multipart-запрос с полями записи и необязательным файлом
// чека, валидирует их, вызывает бизнес-логику создания записи через сервис
// и возвращает созданную запись в JSON-формате.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package add

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/warrantywallet/warranty-wallet/internal/http/response"
	"github.com/warrantywallet/warranty-wallet/internal/lib/sl"
	"github.com/warrantywallet/warranty-wallet/internal/models"
	"github.com/warrantywallet/warranty-wallet/internal/storage"
)

// maxUploadSize ограничивает размер файла чека (5MB).
const maxUploadSize = 5 << 20

// invoiceFileField имя поля с файлом чека в multipart-форме.
const invoiceFileField = "invoiceFile"

// Handler управляет HTTP-запросами на создание новых гарантийных записей.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания записи.
type Service interface {
	Add(ctx context.Context, req models.DummyWarranty, file *models.InvoiceFile) (*models.Warranty, error)
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
// @Summary Создать новую гарантийную запись
// @Description Создает гарантийную запись для указанного владельца. Необязательный файл чека загружается в объектное хранилище.
// @Tags Warranties
// @Accept mpfd
// @Produce json
// @Param item_name formData string true "Название товара"
// @Param category formData string true "Категория товара"
// @Param warranty_provider formData string false "Поставщик гарантии"
// @Param purchased_on formData string true "Дата покупки в формате 02-01-2006"
// @Param expires_on formData string true "Дата окончания в формате 02-01-2006"
// @Param description formData string true "Описание покрытия"
// @Param added_by formData string true "Идентификатор владельца"
// @Param invoiceFile formData file false "Файл чека"
// @Success 201 {object} response.Response "Созданная запись"
// @Failure 400 {object} response.ErrorResponse "Некорректная форма запроса"
// @Failure 404 {object} response.ErrorResponse "Владелец не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании записи"
// @Router /addWarranty [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.warranty.add"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	req := models.DummyWarranty{
		ItemName:         r.FormValue("item_name"),
		Category:         r.FormValue("category"),
		WarrantyProvider: r.FormValue("warranty_provider"),
		PurchasedOn:      r.FormValue("purchased_on"),
		ExpiresOn:        r.FormValue("expires_on"),
		Description:      r.FormValue("description"),
		AddedBy:          r.FormValue("added_by"),
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

	created, err := h.service.Add(r.Context(), req, file)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Error("owner not found", sl.Err(err))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to add warranty", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not add warranty"))
		return
	}

	log.Info("success to add warranty", slog.String("id", created.ID.Hex()))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(created))
}

// readInvoiceFile читает необязательный файл чека из multipart-формы.
// Отсутствие файла ошибкой не считается.
func readInvoiceFile(r *http.Request) (*models.InvoiceFile, error) {
	f, header, err := r.FormFile(invoiceFileField)
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
