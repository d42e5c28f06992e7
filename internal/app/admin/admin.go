// Package admin собирает HTTP-приложение панели: хранилище, кеш,
// сервисы и маршруты.
package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/iptv-admin/internal/cache"
	"github.com/magabrotheeeer/iptv-admin/internal/config"
	jwtlib "github.com/magabrotheeeer/iptv-admin/internal/lib/jwt"
	"github.com/magabrotheeeer/iptv-admin/internal/migrations"
	"github.com/magabrotheeeer/iptv-admin/internal/models"
	authservice "github.com/magabrotheeeer/iptv-admin/internal/services/auth"
	statsservice "github.com/magabrotheeeer/iptv-admin/internal/services/stats"
	subscriberservice "github.com/magabrotheeeer/iptv-admin/internal/services/subscriber"
	sweeperservice "github.com/magabrotheeeer/iptv-admin/internal/services/sweeper"
	"github.com/magabrotheeeer/iptv-admin/internal/storage"
	"github.com/magabrotheeeer/iptv-admin/internal/storage/repository"
)

type App struct {
	server  *http.Server
	logger  *slog.Logger
	db      *storage.Storage
	sweeper *sweeperservice.SweeperService
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	repo := repository.New(db.DB)
	maker := jwtlib.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	clientService := subscriberservice.NewSubscriberService(
		models.CollectionClients, repo, repo, cacheRedis, logger)
	resellerService := subscriberservice.NewSubscriberService(
		models.CollectionResellers, repo, repo, cacheRedis, logger)
	authService := authservice.NewAuthService(repo, maker, logger)
	if cfg.AdminUsername != "" {
		if err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			return nil, err
		}
	}
	statsService := statsservice.NewStatsService(repo, cacheRedis, logger)
	sweeper := sweeperservice.NewSweeperService(repo, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, maker, RouteServices{
		Clients:   clientService,
		Resellers: resellerService,
		Auth:      authService,
		Stats:     statsService,
		Catalog:   repo,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:  srv,
		logger:  logger,
		db:      db,
		sweeper: sweeper,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	// Стартовый проход: просроченные абоненты деактивируются до того,
	// как панель начнёт отдавать данные.
	a.sweeper.RunSweep(ctx)

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
		a.db.DB.Close()
		return err
	}
}
