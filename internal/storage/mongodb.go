// Package storage реализует хранилище данных на основе MongoDB
// для управления гарантийными записями и справочником пользователей.
// Предоставляет методы создания, чтения, обновления и удаления записей,
// выборки по владельцу, по email с правом доступа и по окну истечения,
// а также операции со списком доступа.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/warrantywallet/warranty-wallet/internal/config"
	"github.com/warrantywallet/warranty-wallet/internal/models"
)

// Ошибки отсутствия записей. Слои выше проверяют их через errors.Is.
var (
	// ErrWarrantyNotFound возвращается, когда гарантийная запись не найдена по ID.
	ErrWarrantyNotFound = errors.New("warranty not found")
	// ErrUserNotFound возвращается, когда пользователь отсутствует в справочнике.
	ErrUserNotFound = errors.New("user not found")
)

// Storage инкапсулирует подключение к MongoDB и реализует методы
// работы с гарантийными записями и пользователями.
// Клиент создаётся в composition root и передаётся через конструктор,
// глобального состояния пакет не хранит.
type Storage struct {
	client     *mongo.Client
	warranties *mongo.Collection
	users      *mongo.Collection
}

// New создаёт подключение к MongoDB и инициализирует коллекции.
func New(ctx context.Context, cfg config.MongoConnection) (*Storage, error) {
	const op = "storage.New"

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db := client.Database(cfg.Database)
	return &Storage{
		client:     client,
		warranties: db.Collection("warranties"),
		users:      db.Collection("users"),
	}, nil
}

// Close закрывает подключение к MongoDB.
func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// ===== WARRANTY METHODS =====

// CreateWarranty вставляет новую гарантийную запись и возвращает её с присвоенным ID.
func (s *Storage) CreateWarranty(ctx context.Context, warranty models.Warranty) (*models.Warranty, error) {
	const op = "storage.CreateWarranty"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if warranty.ID.IsZero() {
		warranty.ID = primitive.NewObjectID()
	}
	if warranty.SharedWith == nil {
		warranty.SharedWith = []string{}
	}
	if _, err := s.warranties.InsertOne(ctx, warranty); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &warranty, nil
}

// FindWarrantyByID возвращает гарантийную запись по её ID.
func (s *Storage) FindWarrantyByID(ctx context.Context, id primitive.ObjectID) (*models.Warranty, error) {
	const op = "storage.FindWarrantyByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var result models.Warranty
	err := s.warranties.FindOne(ctx, bson.M{"_id": id}).Decode(&result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s: %w", op, ErrWarrantyNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// FindWarrantiesByOwner возвращает все гарантийные записи, созданные пользователем.
func (s *Storage) FindWarrantiesByOwner(ctx context.Context, ownerID string) ([]*models.Warranty, error) {
	const op = "storage.FindWarrantiesByOwner"
	return s.findWarranties(ctx, op, bson.M{"added_by": ownerID})
}

// FindWarrantiesBySharedEmail возвращает записи, в список доступа которых входит email.
func (s *Storage) FindWarrantiesBySharedEmail(ctx context.Context, email string) ([]*models.Warranty, error) {
	const op = "storage.FindWarrantiesBySharedEmail"
	return s.findWarranties(ctx, op, bson.M{"shared_with": email})
}

// FindWarrantiesExpiring возвращает записи владельца, у которых дата окончания
// гарантии попадает в интервал [start, end] включительно.
func (s *Storage) FindWarrantiesExpiring(ctx context.Context, ownerID string, start, end time.Time) ([]*models.Warranty, error) {
	const op = "storage.FindWarrantiesExpiring"
	filter := bson.M{
		"added_by":   ownerID,
		"expires_on": bson.M{"$gte": start, "$lte": end},
	}
	return s.findWarranties(ctx, op, filter)
}

func (s *Storage) findWarranties(ctx context.Context, op string, filter bson.M) ([]*models.Warranty, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	cursor, err := s.warranties.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var result []*models.Warranty
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateWarrantyByID заменяет изменяемые поля записи и возвращает обновлённый документ.
// Поля added_by и shared_with этой операцией не затрагиваются.
func (s *Storage) UpdateWarrantyByID(ctx context.Context, id primitive.ObjectID, warranty models.Warranty) (*models.Warranty, error) {
	const op = "storage.UpdateWarrantyByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	update := bson.M{"$set": bson.M{
		"item_name":         warranty.ItemName,
		"category":          warranty.Category,
		"warranty_provider": warranty.WarrantyProvider,
		"purchased_on":      warranty.PurchasedOn,
		"expires_on":        warranty.ExpiresOn,
		"description":       warranty.Description,
		"invoice_url":       warranty.InvoiceURL,
	}}
	return s.findOneAndUpdate(ctx, op, id, update)
}

// DeleteWarrantyByID удаляет гарантийную запись по её ID.
func (s *Storage) DeleteWarrantyByID(ctx context.Context, id primitive.ObjectID) error {
	const op = "storage.DeleteWarrantyByID"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	err := s.warranties.FindOneAndDelete(ctx, bson.M{"_id": id}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", op, ErrWarrantyNotFound)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// AddSharedEmail добавляет email в список доступа записи и возвращает обновлённый документ.
// Дубликаты на этом уровне не отфильтровываются, проверка выполняется бизнес-логикой.
func (s *Storage) AddSharedEmail(ctx context.Context, id primitive.ObjectID, email string) (*models.Warranty, error) {
	const op = "storage.AddSharedEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	return s.findOneAndUpdate(ctx, op, id, bson.M{"$push": bson.M{"shared_with": email}})
}

// RemoveSharedEmail удаляет все вхождения email из списка доступа записи
// и возвращает обновлённый документ. Отсутствие email ошибкой не считается.
func (s *Storage) RemoveSharedEmail(ctx context.Context, id primitive.ObjectID, email string) (*models.Warranty, error) {
	const op = "storage.RemoveSharedEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	return s.findOneAndUpdate(ctx, op, id, bson.M{"$pull": bson.M{"shared_with": email}})
}

func (s *Storage) findOneAndUpdate(ctx context.Context, op string, id primitive.ObjectID, update bson.M) (*models.Warranty, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var result models.Warranty
	err := s.warranties.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s: %w", op, ErrWarrantyNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ===== USER METHODS =====

// FindUserByGoogleID возвращает пользователя справочника по внешнему идентификатору.
func (s *Storage) FindUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	const op = "storage.FindUserByGoogleID"
	return s.findUser(ctx, op, bson.M{"google_id": googleID})
}

// FindUserByEmail возвращает пользователя справочника по email.
func (s *Storage) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.FindUserByEmail"
	return s.findUser(ctx, op, bson.M{"email": email})
}

func (s *Storage) findUser(ctx context.Context, op string, filter bson.M) (*models.User, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var result models.User
	err := s.users.FindOne(ctx, filter).Decode(&result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}
