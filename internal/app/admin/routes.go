// Package admin предоставляет маршруты панели.
package admin

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/iptv-admin/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/iptv-admin/internal/http/handlers/catalog"
	"github.com/magabrotheeeer/iptv-admin/internal/http/handlers/dashboard"
	"github.com/magabrotheeeer/iptv-admin/internal/http/handlers/health"
	"github.com/magabrotheeeer/iptv-admin/internal/http/handlers/subscriber/create"
	"github.com/magabrotheeeer/iptv-admin/internal/http/handlers/subscriber/list"
	"github.com/magabrotheeeer/iptv-admin/internal/http/handlers/subscriber/read"
	"github.com/magabrotheeeer/iptv-admin/internal/http/handlers/subscriber/remove"
	"github.com/magabrotheeeer/iptv-admin/internal/http/handlers/subscriber/renew"
	"github.com/magabrotheeeer/iptv-admin/internal/http/handlers/subscriber/update"
	"github.com/magabrotheeeer/iptv-admin/internal/http/middlewarectx"
	jwtlib "github.com/magabrotheeeer/iptv-admin/internal/lib/jwt"
	authservice "github.com/magabrotheeeer/iptv-admin/internal/services/auth"
	statsservice "github.com/magabrotheeeer/iptv-admin/internal/services/stats"
	subscriberservice "github.com/magabrotheeeer/iptv-admin/internal/services/subscriber"
	"github.com/magabrotheeeer/iptv-admin/internal/storage/repository"
)

// RouteServices сервисы и репозитории, нужные маршрутам панели.
type RouteServices struct {
	Clients   *subscriberservice.SubscriberService
	Resellers *subscriberservice.SubscriberService
	Auth      *authservice.AuthService
	Stats     *statsservice.StatsService
	Catalog   *repository.Repository
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, maker jwtlib.Maker, services RouteServices) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/login", login.New(logger, services.Auth).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(maker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			registerSubscriberRoutes(r, logger, "/clients", services.Clients)
			registerSubscriberRoutes(r, logger, "/resellers", services.Resellers)

			plans := catalog.NewPlansHandler(logger, services.Catalog)
			r.Post("/plans", plans.Create)
			r.Get("/plans", plans.List)
			r.Put("/plans/{id}", plans.Update)
			r.Delete("/plans/{id}", plans.Remove)

			templates := catalog.NewTemplatesHandler(logger, services.Catalog)
			r.Post("/templates", templates.Create)
			r.Get("/templates", templates.List)
			r.Put("/templates/{id}", templates.Update)
			r.Delete("/templates/{id}", templates.Remove)

			pix := catalog.NewPixHandler(logger, services.Catalog)
			r.Post("/pix", pix.Create)
			r.Get("/pix", pix.List)
			r.Post("/pix/{id}/activate", pix.Activate)
			r.Delete("/pix/{id}", pix.Remove)

			receipts := catalog.NewReceiptsHandler(logger, services.Catalog)
			r.Get("/receipts", receipts.List)

			r.Get("/dashboard/stats", dashboard.New(logger, services.Stats).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

func registerSubscriberRoutes(r chi.Router, logger *slog.Logger, prefix string, service *subscriberservice.SubscriberService) {
	r.Post(prefix, create.New(logger, service).ServeHTTP)
	r.Get(prefix, list.New(logger, service).ServeHTTP)
	r.Get(prefix+"/{id}", read.New(logger, service).ServeHTTP)
	r.Put(prefix+"/{id}", update.New(logger, service).ServeHTTP)
	r.Delete(prefix+"/{id}", remove.New(logger, service).ServeHTTP)
	r.Post(prefix+"/{id}/renew", renew.New(logger, service).ServeHTTP)
}
