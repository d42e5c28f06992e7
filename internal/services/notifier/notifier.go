// Package services содержит проверку приближающихся сроков: абоненты,
// у которых подписка заканчивается примерно через 30 дней, попадают
// в очередь уведомлений.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/iptv-admin/internal/expiry"
	"github.com/magabrotheeeer/iptv-admin/internal/lib/sl"
	"github.com/magabrotheeeer/iptv-admin/internal/models"
)

// RoutingKeyExpiring30 ключ маршрутизации уведомлений о 30-дневном сроке.
const RoutingKeyExpiring30 = "expiring30"

// Окно в днях, в котором абонент считается "истекающим через месяц".
const (
	windowLow  = 29
	windowHigh = 31
)

// SubscriberRepository определяет методы хранилища, нужные проверке.
type SubscriberRepository interface {
	// ListAllSubscribers возвращает полную коллекцию.
	ListAllSubscribers(ctx context.Context, collection models.Collection) ([]*models.Subscriber, error)
}

// NotifiedStore хранит идентификаторы абонентов, уведомлённых в пределах дня.
type NotifiedStore interface {
	// WasNotified сообщает, отправлялось ли уведомление абоненту в этот день.
	WasNotified(ctx context.Context, day, id string) (bool, error)
	// MarkNotified отмечает абонента уведомлённым в этот день.
	MarkNotified(ctx context.Context, day, id string) error
}

// Publisher публикует сообщение в обменник уведомлений.
type Publisher interface {
	Publish(routingkey string, message any) error
}

// NotifierService находит абонентов с подпиской, истекающей через ~30 дней,
// и публикует по ним уведомления ровно один раз в день.
type NotifierService struct {
	repo        SubscriberRepository
	store       NotifiedStore
	publisher   Publisher
	log         *slog.Logger
	collections []models.Collection
}

// NewNotifierService создает новый экземпляр NotifierService.
func NewNotifierService(repo SubscriberRepository, store NotifiedStore, publisher Publisher, log *slog.Logger) *NotifierService {
	return &NotifierService{
		repo:        repo,
		store:       store,
		publisher:   publisher,
		log:         log,
		collections: []models.Collection{models.CollectionClients, models.CollectionResellers},
	}
}

// Run выполняет проверку сразу при старте и далее по тикеру, пока контекст жив.
func (s *NotifierService) Run(ctx context.Context, interval time.Duration) {
	s.log.Info("expiry notifier started", slog.Duration("interval", interval))

	s.RunCheck(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("expiry notifier stopped")
			return
		case <-ticker.C:
			s.RunCheck(ctx)
		}
	}
}

// RunCheck выполняет один проход по всем коллекциям и возвращает число
// опубликованных уведомлений. Тестовые и неактивные абоненты пропускаются,
// повторная отправка в тот же день подавляется через NotifiedStore.
func (s *NotifierService) RunCheck(ctx context.Context) int {
	today := expiry.Today()
	day := expiry.Format(today)

	published := 0
	for _, collection := range s.collections {
		subs, err := s.repo.ListAllSubscribers(ctx, collection)
		if err != nil {
			s.log.Error("failed to list collection for notification check",
				slog.String("collection", string(collection)), sl.Err(err))
			continue
		}

		for _, sub := range subs {
			if sub.Status == models.StatusTest || sub.Status == models.StatusInactive {
				continue
			}
			date, ok := expiry.Normalize(sub.ExpiryDate)
			if !ok {
				continue
			}
			diff := expiry.DaysUntil(date, today)
			if diff < windowLow || diff > windowHigh {
				continue
			}

			sent, err := s.store.WasNotified(ctx, day, sub.ID)
			if err != nil {
				s.log.Error("failed to check notification marker",
					slog.String("id", sub.ID), sl.Err(err))
				continue
			}
			if sent {
				continue
			}

			notice := models.ExpiryNotice{
				Collection: collection,
				ID:         sub.ID,
				Name:       sub.Name,
				Phone:      sub.Phone,
				Plan:       sub.Plan,
				ExpiryDate: sub.ExpiryDate,
				DaysLeft:   diff,
			}
			if err := s.publisher.Publish(RoutingKeyExpiring30, notice); err != nil {
				s.log.Error("failed to publish expiry notice",
					slog.String("id", sub.ID), sl.Err(err))
				continue
			}
			if err := s.store.MarkNotified(ctx, day, sub.ID); err != nil {
				s.log.Error("failed to mark subscriber notified",
					slog.String("id", sub.ID), sl.Err(err))
			}
			published++
			s.log.Info("published expiry notice",
				slog.String("collection", string(collection)),
				slog.String("id", sub.ID),
				slog.Int("days_left", diff))
		}
	}

	s.log.Info("notification check finished", slog.Int("published", published))
	return published
}
