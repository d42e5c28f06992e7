// Package services содержит фоновый обход коллекций: абоненты с истёкшим
// сроком переводятся в статус inactive.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/magabrotheeeer/iptv-admin/internal/expiry"
	"github.com/magabrotheeeer/iptv-admin/internal/lib/sl"
	"github.com/magabrotheeeer/iptv-admin/internal/models"
)

var (
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iptv_sweep_transitions_total",
		Help: "Subscribers transitioned to inactive by the expiry sweep.",
	}, []string{"collection"})

	sweepErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iptv_sweep_errors_total",
		Help: "Per-subscriber persistence errors during the expiry sweep.",
	}, []string{"collection"})

	sweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "iptv_sweep_duration_seconds",
		Help:    "Duration of a full expiry sweep over all collections.",
		Buckets: prometheus.DefBuckets,
	})
)

// SubscriberRepository определяет методы хранилища, нужные обходу.
type SubscriberRepository interface {
	// ListAllSubscribers возвращает полную коллекцию.
	ListAllSubscribers(ctx context.Context, collection models.Collection) ([]*models.Subscriber, error)
	// UpdateSubscriberStatus обновляет только статус абонента.
	UpdateSubscriberStatus(ctx context.Context, collection models.Collection, id string, status models.Status) (int, error)
}

// SweepResult итог одного прохода по всем коллекциям.
type SweepResult struct {
	Checked      int
	Transitioned int
	Failed       int
}

// SweeperService периодически деактивирует просроченных абонентов.
type SweeperService struct {
	repo        SubscriberRepository
	log         *slog.Logger
	collections []models.Collection
}

// NewSweeperService создает новый экземпляр SweeperService.
func NewSweeperService(repo SubscriberRepository, log *slog.Logger) *SweeperService {
	return &SweeperService{
		repo:        repo,
		log:         log,
		collections: []models.Collection{models.CollectionClients, models.CollectionResellers},
	}
}

// Run выполняет проход сразу при старте и далее по тикеру, пока контекст жив.
func (s *SweeperService) Run(ctx context.Context, interval time.Duration) {
	s.log.Info("expiry sweeper started", slog.Duration("interval", interval))

	s.RunSweep(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("expiry sweeper stopped")
			return
		case <-ticker.C:
			s.RunSweep(ctx)
		}
	}
}

// RunSweep выполняет один проход: читает снимок каждой коллекции, применяет
// правило перехода и записывает только статус изменившихся абонентов.
// Ошибка по одному абоненту не прерывает проход.
func (s *SweeperService) RunSweep(ctx context.Context) SweepResult {
	start := time.Now()
	today := expiry.Today()

	var result SweepResult
	for _, collection := range s.collections {
		subs, err := s.repo.ListAllSubscribers(ctx, collection)
		if err != nil {
			s.log.Error("failed to list collection for sweep",
				slog.String("collection", string(collection)), sl.Err(err))
			sweepErrorsTotal.WithLabelValues(string(collection)).Inc()
			result.Failed++
			continue
		}

		for _, sub := range subs {
			result.Checked++
			changed, ok := expiry.Transition(*sub, today)
			if !ok {
				continue
			}
			if _, err := s.repo.UpdateSubscriberStatus(ctx, collection, sub.ID, changed.Status); err != nil {
				s.log.Error("failed to deactivate expired subscriber",
					slog.String("collection", string(collection)),
					slog.String("id", sub.ID), sl.Err(err))
				sweepErrorsTotal.WithLabelValues(string(collection)).Inc()
				result.Failed++
				continue
			}
			transitionsTotal.WithLabelValues(string(collection)).Inc()
			result.Transitioned++
			s.log.Info("subscriber deactivated",
				slog.String("collection", string(collection)),
				slog.String("id", sub.ID),
				slog.String("expiry_date", sub.ExpiryDate))
		}
	}

	sweepDuration.Observe(time.Since(start).Seconds())
	s.log.Info("expiry sweep finished",
		slog.Int("checked", result.Checked),
		slog.Int("transitioned", result.Transitioned),
		slog.Int("failed", result.Failed))
	return result
}
