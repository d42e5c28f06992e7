// Package scheduler собирает фоновое приложение: обход просроченных
// абонентов и проверку приближающихся сроков с публикацией уведомлений.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/iptv-admin/internal/cache"
	"github.com/magabrotheeeer/iptv-admin/internal/config"
	"github.com/magabrotheeeer/iptv-admin/internal/lib/rabbitmq"
	notifierservice "github.com/magabrotheeeer/iptv-admin/internal/services/notifier"
	sweeperservice "github.com/magabrotheeeer/iptv-admin/internal/services/sweeper"
	"github.com/magabrotheeeer/iptv-admin/internal/storage"
	"github.com/magabrotheeeer/iptv-admin/internal/storage/repository"
)

const checkInterval = time.Hour

type App struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	db       *storage.Storage
	sweeper  *sweeperservice.SweeperService
	notifier *notifierservice.NotifierService
	logger   *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, ch, err := rabbitmq.Connect(cfg.RabbitURL)
	if err != nil {
		return nil, err
	}
	if err := rabbitmq.SetupQueues(ch); err != nil {
		_ = conn.Close()
		return nil, err
	}

	repo := repository.New(db.DB)
	sweeper := sweeperservice.NewSweeperService(repo, logger)
	notifier := notifierservice.NewNotifierService(
		repo,
		cache.NewNotifiedStore(cacheRedis),
		rabbitmq.ChannelPublisher{Ch: ch},
		logger,
	)

	return &App{
		conn:     conn,
		ch:       ch,
		db:       db,
		sweeper:  sweeper,
		notifier: notifier,
		logger:   logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	go a.sweeper.Run(ctx, checkInterval)
	go a.notifier.Run(ctx, checkInterval)

	<-ctx.Done()
	a.logger.Info("scheduler shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	a.db.DB.Close()
	return nil
}
