package warrantywallet

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/warrantywallet/warranty-wallet/internal/http/handlers/warranty/add"
	"github.com/warrantywallet/warranty-wallet/internal/http/handlers/warranty/expiring"
	"github.com/warrantywallet/warranty-wallet/internal/http/handlers/warranty/list"
	"github.com/warrantywallet/warranty-wallet/internal/http/handlers/warranty/read"
	"github.com/warrantywallet/warranty-wallet/internal/http/handlers/warranty/remove"
	"github.com/warrantywallet/warranty-wallet/internal/http/handlers/warranty/revoke"
	"github.com/warrantywallet/warranty-wallet/internal/http/handlers/warranty/share"
	"github.com/warrantywallet/warranty-wallet/internal/http/handlers/warranty/update"
	"github.com/warrantywallet/warranty-wallet/internal/http/middlewarectx"
	warrantyservice "github.com/warrantywallet/warranty-wallet/internal/services/warranty"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, service *warrantyservice.Service, tokenParser middlewarectx.TokenParser) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1/app/warranty", func(r chi.Router) {
		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(tokenParser, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/addWarranty", add.New(logger, service).ServeHTTP)
			r.Get("/getWarrantyById/{id}", read.New(logger, service).ServeHTTP)
			r.Get("/getAllWarrantyByUser/{addedBy}", list.New(logger, service).ServeHTTP)
			r.Get("/getExpiringWarrantiesByUser/{addedBy}", expiring.New(logger, service).ServeHTTP)
			r.Put("/updateWarrantyById/{id}", update.New(logger, service).ServeHTTP)
			r.Delete("/deleteWarrantyById/{id}", remove.New(logger, service).ServeHTTP)
			r.Post("/shareAccess/{id}", share.New(logger, service).ServeHTTP)
			r.Delete("/revokeAccess/{id}", revoke.New(logger, service).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
