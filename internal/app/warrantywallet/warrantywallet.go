// Package warrantywallet собирает приложение целиком: хранилище, кеш,
// объектное хранилище чеков, бизнес-логику и HTTP-сервер.
package warrantywallet

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/warrantywallet/warranty-wallet/internal/cache"
	"github.com/warrantywallet/warranty-wallet/internal/config"
	"github.com/warrantywallet/warranty-wallet/internal/invoicestore"
	"github.com/warrantywallet/warranty-wallet/internal/lib/jwt"
	warrantyservice "github.com/warrantywallet/warranty-wallet/internal/services/warranty"
	"github.com/warrantywallet/warranty-wallet/internal/storage"
)

// App объединяет все компоненты приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
}

// New создает приложение: подключается к MongoDB, Redis и объектному
// хранилищу, собирает сервис и HTTP-сервер с маршрутами.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(ctx, cfg.MongoConnection)
	if err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	invoices, err := invoicestore.New(ctx, cfg.S3Storage)
	if err != nil {
		return nil, err
	}

	tokenMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	warrantyService := warrantyservice.NewService(db, db, invoices, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, warrantyService, tokenMaker)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста,
// после чего выполняет graceful shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.Close(timeoutCtx); closeErr != nil {
			a.logger.Error("failed to close mongodb connection", slog.String("error", closeErr.Error()))
		}
		return err
	}
}
