// Package models содержит доменные структуры, описывающие гарантийную запись,
// а также вспомогательные типы для приёма данных из внешних источников
// (multipart-формы и JSON-запросы).
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Warranty представляет собой основную модель гарантийной записи,
// используемую в бизнес-логике и хранилище.
// Поле AddedBy задаётся один раз при создании и не изменяется,
// SharedWith содержит email-адреса с правом чтения без дубликатов.
type Warranty struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`                    // Идентификатор записи
	ItemName         string             `bson:"item_name" json:"item_name"`                 // Название товара
	Category         string             `bson:"category" json:"category"`                   // Категория товара
	WarrantyProvider string             `bson:"warranty_provider" json:"warranty_provider"` // Поставщик гарантии (опционально)
	PurchasedOn      time.Time          `bson:"purchased_on" json:"purchased_on"`           // Дата покупки
	ExpiresOn        time.Time          `bson:"expires_on" json:"expires_on"`               // Дата окончания гарантии
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`               // Дата создания записи
	Description      string             `bson:"description" json:"description"`             // Описание покрытия
	AddedBy          string             `bson:"added_by" json:"added_by"`                   // Идентификатор владельца
	InvoiceURL       string             `bson:"invoice_url" json:"invoice_url"`             // Ссылка на загруженный чек
	SharedWith       []string           `bson:"shared_with" json:"shared_with"`             // Email-адреса с доступом на чтение
}

// DummyWarranty используется для приёма данных из multipart-формы
// при создании записи, прежде чем конвертировать их в Warranty.
// Даты приходят в виде строк в формате 02-01-2006,
// чтобы их можно было валидировать и парсить вручную.
type DummyWarranty struct {
	ItemName         string `json:"item_name" validate:"required"`                        // Название товара
	Category         string `json:"category" validate:"required"`                         // Категория товара
	WarrantyProvider string `json:"warranty_provider,omitempty" validate:"omitempty"`     // Поставщик гарантии
	PurchasedOn      string `json:"purchased_on" validate:"required,datetime=02-01-2006"` // Дата покупки
	ExpiresOn        string `json:"expires_on" validate:"required,datetime=02-01-2006"`   // Дата окончания гарантии
	Description      string `json:"description" validate:"required"`                      // Описание покрытия
	AddedBy          string `json:"added_by" validate:"required"`                         // Идентификатор владельца
}

// DummyWarrantyUpdate используется для приёма данных при обновлении записи.
// Владелец и список доступа обновлением не затрагиваются. Поле InvoiceURL
// сохраняется как есть, если новый файл чека не приложен.
type DummyWarrantyUpdate struct {
	ItemName         string `json:"item_name" validate:"required"`                        // Название товара
	Category         string `json:"category" validate:"required"`                         // Категория товара
	WarrantyProvider string `json:"warranty_provider,omitempty" validate:"omitempty"`     // Поставщик гарантии
	PurchasedOn      string `json:"purchased_on" validate:"required,datetime=02-01-2006"` // Дата покупки
	ExpiresOn        string `json:"expires_on" validate:"required,datetime=02-01-2006"`   // Дата окончания гарантии
	Description      string `json:"description" validate:"required"`                      // Описание покрытия
	InvoiceURL       string `json:"invoice_url,omitempty" validate:"omitempty"`           // Прежняя ссылка на чек
}

// DummyShare используется для приёма email при выдаче и отзыве доступа.
type DummyShare struct {
	Email string `json:"email" validate:"required,email"` // Email получателя доступа
}

// EnrichedWarranty — производная проекция гарантийной записи для ответов
// на запросы списков. Поля DaysLeft и Percentage вычисляются на момент
// запроса и никогда не сохраняются в хранилище.
type EnrichedWarranty struct {
	Warranty
	DaysLeft     int     `json:"days_left"`      // Дней до окончания гарантии (не меньше 0)
	Percentage   float64 `json:"percentage"`     // Процент истёкшего срока покрытия (0-100)
	AddedByEmail string  `json:"added_by_email"` // Email владельца записи
}

// ExpiringWarranty — минимальная проекция для списка гарантий,
// истекающих в ближайшее время.
type ExpiringWarranty struct {
	ItemName string `json:"item_name"` // Название товара
	DaysLeft int    `json:"days_left"` // Дней до окончания гарантии
}
