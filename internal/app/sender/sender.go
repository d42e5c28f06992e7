// Package sender собирает приложение отправки уведомлений: потребитель
// очереди RabbitMQ и WhatsApp-шлюз.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/iptv-admin/internal/config"
	"github.com/magabrotheeeer/iptv-admin/internal/lib/rabbitmq"
	senderservice "github.com/magabrotheeeer/iptv-admin/internal/services/sender"
	"github.com/magabrotheeeer/iptv-admin/internal/storage"
	"github.com/magabrotheeeer/iptv-admin/internal/storage/repository"
	"github.com/magabrotheeeer/iptv-admin/internal/whatsapp"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	db            *storage.Storage
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
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

	gateway := whatsapp.NewClient(cfg.GatewayURL, cfg.GatewayToken, cfg.SendTimeout)
	repo := repository.New(db.DB)
	senderService := senderservice.NewSenderService(repo, gateway, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		db:            db,
		senderService: senderService,
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	queues := rabbitmq.GetNotificationQueues()
	err := a.senderService.Consume(ctx, a.ch, queues[0].QueueName)

	a.logger.Info("sender service shutting down gracefully")
	if closeErr := a.ch.Close(); closeErr != nil {
		a.logger.Error("failed to close channel", slog.Any("err", closeErr))
	}
	if closeErr := a.conn.Close(); closeErr != nil {
		a.logger.Error("failed to close connection", slog.Any("err", closeErr))
	}
	a.db.DB.Close()
	return err
}
