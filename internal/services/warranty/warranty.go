// Package warranty содержит бизнес-логику жизненного цикла гарантийных записей:
// создание с загрузкой чека, чтение, выборки с обогащением по срокам,
// обновление, удаление и управление списком доступа.
package warranty

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/warrantywallet/warranty-wallet/internal/lib/sl"
	"github.com/warrantywallet/warranty-wallet/internal/models"
)

// Ошибки бизнес-логики. Слой HTTP проверяет их через errors.Is.
var (
	// ErrInvalidID возвращается для синтаксически некорректного идентификатора записи.
	ErrInvalidID = errors.New("invalid warranty id")
	// ErrAlreadyShared возвращается при повторной выдаче доступа на тот же email.
	ErrAlreadyShared = errors.New("access already shared with this email")
)

// DateLayout формат дат в запросах.
const DateLayout = "02-01-2006"

// ExpiringWindowDays фиксированное окно (в днях) для выборки истекающих гарантий.
const ExpiringWindowDays = 10

const cacheTTL = time.Hour

// Repository определяет методы для работы с гарантийными записями в хранилище.
type Repository interface {
	// CreateWarranty добавляет новую запись и возвращает её с присвоенным ID.
	CreateWarranty(ctx context.Context, warranty models.Warranty) (*models.Warranty, error)
	// FindWarrantyByID возвращает запись по ID.
	FindWarrantyByID(ctx context.Context, id primitive.ObjectID) (*models.Warranty, error)
	// FindWarrantiesByOwner возвращает записи, созданные пользователем.
	FindWarrantiesByOwner(ctx context.Context, ownerID string) ([]*models.Warranty, error)
	// FindWarrantiesBySharedEmail возвращает записи, доступные по email.
	FindWarrantiesBySharedEmail(ctx context.Context, email string) ([]*models.Warranty, error)
	// FindWarrantiesExpiring возвращает записи владельца с датой окончания в интервале.
	FindWarrantiesExpiring(ctx context.Context, ownerID string, start, end time.Time) ([]*models.Warranty, error)
	// UpdateWarrantyByID заменяет изменяемые поля записи.
	UpdateWarrantyByID(ctx context.Context, id primitive.ObjectID, warranty models.Warranty) (*models.Warranty, error)
	// DeleteWarrantyByID удаляет запись по ID.
	DeleteWarrantyByID(ctx context.Context, id primitive.ObjectID) error
	// AddSharedEmail добавляет email в список доступа.
	AddSharedEmail(ctx context.Context, id primitive.ObjectID, email string) (*models.Warranty, error)
	// RemoveSharedEmail удаляет все вхождения email из списка доступа.
	RemoveSharedEmail(ctx context.Context, id primitive.ObjectID, email string) (*models.Warranty, error)
}

// UserDirectory описывает справочник пользователей для определения email
// владельца и проверки получателя доступа.
type UserDirectory interface {
	FindUserByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// InvoiceUploader описывает адаптер загрузки чеков в объектное хранилище.
type InvoiceUploader interface {
	// Upload загружает файл и возвращает URL объекта.
	Upload(ctx context.Context, data []byte, filename, contentType string) (string, error)
	// Delete удаляет объект по URL.
	Delete(ctx context.Context, url string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Service реализует бизнес-логику работы с гарантийными записями.
type Service struct {
	repo     Repository
	users    UserDirectory
	invoices InvoiceUploader
	cache    Cache
	log      *slog.Logger
	now      func() time.Time
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, users UserDirectory, invoices InvoiceUploader, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		invoices: invoices,
		cache:    cache,
		log:      log,
		now:      time.Now,
	}
}

// Add создает новую гарантийную запись. Владелец должен существовать
// в справочнике пользователей. Если приложен файл чека, он загружается
// до записи в хранилище; при неудачной загрузке запись не создаётся,
// при неудачной записи после загрузки файл удаляется.
func (s *Service) Add(ctx context.Context, req models.DummyWarranty, file *models.InvoiceFile) (*models.Warranty, error) {
	if _, err := s.users.FindUserByGoogleID(ctx, req.AddedBy); err != nil {
		return nil, err
	}

	purchasedOn, err := time.Parse(DateLayout, req.PurchasedOn)
	if err != nil {
		return nil, fmt.Errorf("invalid purchase date: %w", err)
	}
	expiresOn, err := time.Parse(DateLayout, req.ExpiresOn)
	if err != nil {
		return nil, fmt.Errorf("invalid expiry date: %w", err)
	}

	var invoiceURL string
	if file != nil {
		invoiceURL, err = s.invoices.Upload(ctx, file.Data, file.Filename, file.ContentType)
		if err != nil {
			return nil, err
		}
	}

	warranty := models.Warranty{
		ItemName:         req.ItemName,
		Category:         req.Category,
		WarrantyProvider: req.WarrantyProvider,
		PurchasedOn:      purchasedOn,
		ExpiresOn:        expiresOn,
		CreatedAt:        s.now(),
		Description:      req.Description,
		AddedBy:          req.AddedBy,
		InvoiceURL:       invoiceURL,
		SharedWith:       []string{},
	}

	created, err := s.repo.CreateWarranty(ctx, warranty)
	if err != nil {
		if invoiceURL != "" {
			if delErr := s.invoices.Delete(ctx, invoiceURL); delErr != nil {
				s.log.Warn("failed to delete orphaned invoice", slog.String("url", invoiceURL), sl.Err(delErr))
			}
		}
		return nil, err
	}

	s.log.Info("created new warranty", slog.String("id", created.ID.Hex()))

	cacheKey := cacheKeyFor(created.ID.Hex())
	if err := s.cache.Set(cacheKey, created, cacheTTL); err != nil {
		s.log.Warn("failed to cache warranty", slog.String("key", cacheKey), sl.Err(err))
	}

	return created, nil
}

// GetByID возвращает гарантийную запись по ID, используя кеш или хранилище.
// Синтаксически некорректный ID отклоняется до обращения к хранилищу.
func (s *Service) GetByID(ctx context.Context, id string) (*models.Warranty, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var cached models.Warranty
	cacheKey := cacheKeyFor(id)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read warranty from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	result, err := s.repo.FindWarrantyByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, cacheTTL); err != nil {
		s.log.Warn("failed to cache warranty", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// ListForUser возвращает записи, созданные пользователем, и записи,
// доступные ему по email, обогащённые полями DaysLeft и Percentage
// на момент вызова. Пустой результат — пустой список, а не ошибка.
func (s *Service) ListForUser(ctx context.Context, ownerID string) ([]models.EnrichedWarranty, error) {
	user, err := s.users.FindUserByGoogleID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	owned, err := s.repo.FindWarrantiesByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	shared, err := s.repo.FindWarrantiesBySharedEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := make([]models.EnrichedWarranty, 0, len(owned)+len(shared))
	for _, w := range owned {
		result = append(result, enrich(*w, user.Email, now))
	}
	for _, w := range shared {
		result = append(result, enrich(*w, user.Email, now))
	}
	return result, nil
}

// ListExpiringSoon возвращает минимальную проекцию записей владельца,
// истекающих в ближайшие ExpiringWindowDays дней включительно.
// Пустой результат — пустой список, а не ошибка.
func (s *Service) ListExpiringSoon(ctx context.Context, ownerID string) ([]models.ExpiringWarranty, error) {
	now := s.now()
	end := now.AddDate(0, 0, ExpiringWindowDays)

	expiring, err := s.repo.FindWarrantiesExpiring(ctx, ownerID, now, end)
	if err != nil {
		return nil, err
	}

	result := make([]models.ExpiringWarranty, 0, len(expiring))
	for _, w := range expiring {
		result = append(result, models.ExpiringWarranty{
			ItemName: w.ItemName,
			DaysLeft: daysLeft(w.ExpiresOn, now),
		})
	}
	return result, nil
}

// Update заменяет изменяемые поля записи. Новый файл чека, если приложен,
// загружается и заменяет InvoiceURL, иначе сохраняется переданное значение.
// Владелец и список доступа не изменяются.
func (s *Service) Update(ctx context.Context, id string, req models.DummyWarrantyUpdate, file *models.InvoiceFile) (*models.Warranty, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	purchasedOn, err := time.Parse(DateLayout, req.PurchasedOn)
	if err != nil {
		return nil, fmt.Errorf("invalid purchase date: %w", err)
	}
	expiresOn, err := time.Parse(DateLayout, req.ExpiresOn)
	if err != nil {
		return nil, fmt.Errorf("invalid expiry date: %w", err)
	}

	invoiceURL := req.InvoiceURL
	if file != nil {
		invoiceURL, err = s.invoices.Upload(ctx, file.Data, file.Filename, file.ContentType)
		if err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.UpdateWarrantyByID(ctx, oid, models.Warranty{
		ItemName:         req.ItemName,
		Category:         req.Category,
		WarrantyProvider: req.WarrantyProvider,
		PurchasedOn:      purchasedOn,
		ExpiresOn:        expiresOn,
		Description:      req.Description,
		InvoiceURL:       invoiceURL,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("updated warranty", slog.String("id", id))
	s.invalidateCache(id)
	return updated, nil
}

// Delete удаляет гарантийную запись по ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	if err := s.repo.DeleteWarrantyByID(ctx, oid); err != nil {
		return err
	}

	s.log.Info("deleted warranty", slog.String("id", id))
	s.invalidateCache(id)
	return nil
}

// Share выдает доступ на чтение по email и возвращает обновлённый список доступа.
// Повторная выдача на тот же email завершается ErrAlreadyShared,
// email без зарегистрированного пользователя отклоняется.
func (s *Service) Share(ctx context.Context, id, email string) ([]string, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	warranty, err := s.repo.FindWarrantyByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if slices.Contains(warranty.SharedWith, email) {
		return nil, ErrAlreadyShared
	}

	if _, err := s.users.FindUserByEmail(ctx, email); err != nil {
		return nil, err
	}

	updated, err := s.repo.AddSharedEmail(ctx, oid, email)
	if err != nil {
		return nil, err
	}

	s.log.Info("shared warranty access", slog.String("id", id), slog.String("email", email))
	s.invalidateCache(id)
	return updated.SharedWith, nil
}

// Revoke отзывает доступ по email и возвращает обновлённую запись.
// Отсутствие email в списке доступа ошибкой не считается.
func (s *Service) Revoke(ctx context.Context, id, email string) (*models.Warranty, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	updated, err := s.repo.RemoveSharedEmail(ctx, oid, email)
	if err != nil {
		return nil, err
	}

	s.log.Info("revoked warranty access", slog.String("id", id), slog.String("email", email))
	s.invalidateCache(id)
	return updated, nil
}

func (s *Service) invalidateCache(id string) {
	cacheKey := cacheKeyFor(id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate warranty cache", slog.String("key", cacheKey), sl.Err(err))
	}
}

func cacheKeyFor(id string) string {
	return fmt.Sprintf("warranty:%s", id)
}

// enrich вычисляет производные поля записи на заданный момент времени.
func enrich(w models.Warranty, ownerEmail string, now time.Time) models.EnrichedWarranty {
	total := coverageDays(w.PurchasedOn, w.ExpiresOn)
	left := daysLeft(w.ExpiresOn, now)

	percentage := 100.0
	if total > 0 {
		percentage = math.Round(float64(total-left)/float64(total)*10000) / 100
	}

	return models.EnrichedWarranty{
		Warranty:     w,
		DaysLeft:     left,
		Percentage:   percentage,
		AddedByEmail: ownerEmail,
	}
}

// coverageDays возвращает полный срок покрытия в днях, округлённый вверх.
func coverageDays(purchasedOn, expiresOn time.Time) int {
	return int(math.Ceil(expiresOn.Sub(purchasedOn).Hours() / 24))
}

// daysLeft возвращает количество дней до окончания гарантии,
// округлённое вверх и не меньше нуля.
func daysLeft(expiresOn, now time.Time) int {
	left := int(math.Ceil(expiresOn.Sub(now).Hours() / 24))
	if left < 0 {
		return 0
	}
	return left
}
