// Package invoicestore реализует адаптер загрузки чеков в объектное
// хранилище, совместимое с S3. Ключи объектов генерируются со случайным
// uuid-префиксом, чтобы одновременные загрузки одинаковых имён файлов
// не перезаписывали друг друга.
package invoicestore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/warrantywallet/warranty-wallet/internal/config"
)

// Store инкапсулирует S3-клиент и параметры бакета для загрузки чеков.
// Клиент создаётся в composition root и передаётся дальше через конструктор.
type Store struct {
	client   *s3.Client
	bucket   string
	region   string
	endpoint string
}

// New создаёт S3-клиент по настройкам из конфига. Пустой endpoint означает
// стандартные адреса AWS, непустой — S3-совместимое хранилище (minio и т.п.).
func New(ctx context.Context, cfg config.S3Storage) (*Store, error) {
	const op = "invoicestore.New"

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Store{
		client:   client,
		bucket:   cfg.Bucket,
		region:   cfg.Region,
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
	}, nil
}

// Upload загружает содержимое чека в бакет и возвращает URL объекта.
func (s *Store) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	const op = "invoicestore.Upload"

	key := storageKey(filename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return s.objectURL(key), nil
}

// Delete удаляет объект по его URL. Используется для компенсации,
// когда запись в хранилище после успешной загрузки не удалась.
func (s *Store) Delete(ctx context.Context, url string) error {
	const op = "invoicestore.Delete"

	key, err := s.keyFromURL(url)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// storageKey формирует ключ объекта со случайным префиксом.
func storageKey(filename string) string {
	return fmt.Sprintf("invoices/%s-%s", uuid.New(), filename)
}

func (s *Store) baseURL() string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s", s.endpoint, s.bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.bucket, s.region)
}

func (s *Store) objectURL(key string) string {
	return fmt.Sprintf("%s/%s", s.baseURL(), key)
}

func (s *Store) keyFromURL(url string) (string, error) {
	prefix := s.baseURL() + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", fmt.Errorf("url %q does not belong to bucket %s", url, s.bucket)
	}
	return strings.TrimPrefix(url, prefix), nil
}
