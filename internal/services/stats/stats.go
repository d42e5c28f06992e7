// Package services считает сводку панели: размеры корзин срочности
// по каждой коллекции.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/iptv-admin/internal/expiry"
	"github.com/magabrotheeeer/iptv-admin/internal/lib/sl"
	"github.com/magabrotheeeer/iptv-admin/internal/models"
)

const statsCacheKey = "dashboard:stats"
const statsCacheTTL = time.Minute

// SubscriberRepository определяет методы хранилища, нужные сводке.
type SubscriberRepository interface {
	// ListAllSubscribers возвращает полную коллекцию.
	ListAllSubscribers(ctx context.Context, collection models.Collection) ([]*models.Subscriber, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// CollectionStats сводка по одной коллекции.
type CollectionStats struct {
	Total         int `json:"total"`
	Active        int `json:"active"`
	Inactive      int `json:"inactive"`
	Test          int `json:"test"`
	ExpiringToday int `json:"expiring_today"`
	ExpiringTwo   int `json:"expiring_2"`
	ExpiringFive  int `json:"expiring_5"`
	Overdue       int `json:"overdue"`
}

// Stats сводка панели по всем коллекциям.
type Stats struct {
	Clients   CollectionStats `json:"clients"`
	Resellers CollectionStats `json:"resellers"`
}

// StatsService считает сводку панели с минутным кешированием.
type StatsService struct {
	repo  SubscriberRepository
	cache Cache
	log   *slog.Logger
}

// NewStatsService создает новый экземпляр StatsService.
func NewStatsService(repo SubscriberRepository, cache Cache, log *slog.Logger) *StatsService {
	return &StatsService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Collect возвращает сводку панели, из кеша или пересчитанную.
func (s *StatsService) Collect(ctx context.Context) (*Stats, error) {
	var cached *Stats
	found, err := s.cache.Get(statsCacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read stats cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	today := expiry.Today()

	clients, err := s.collect(ctx, models.CollectionClients, today)
	if err != nil {
		return nil, err
	}
	resellers, err := s.collect(ctx, models.CollectionResellers, today)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Clients: clients, Resellers: resellers}
	if err := s.cache.Set(statsCacheKey, stats, statsCacheTTL); err != nil {
		s.log.Warn("failed to cache stats", sl.Err(err))
	}
	return stats, nil
}

func (s *StatsService) collect(ctx context.Context, collection models.Collection, today time.Time) (CollectionStats, error) {
	subs, err := s.repo.ListAllSubscribers(ctx, collection)
	if err != nil {
		return CollectionStats{}, err
	}

	var stats CollectionStats
	stats.Total = len(subs)
	for _, sub := range subs {
		switch sub.Status {
		case models.StatusActive:
			stats.Active++
		case models.StatusInactive:
			stats.Inactive++
		case models.StatusTest:
			stats.Test++
		}
		switch expiry.ClassifyDate(sub.ExpiryDate, today) {
		case expiry.BucketToday:
			stats.ExpiringToday++
		case expiry.BucketTwoDays:
			stats.ExpiringTwo++
		case expiry.BucketFiveDays:
			stats.ExpiringFive++
		case expiry.BucketOverdue:
			stats.Overdue++
		}
	}
	return stats, nil
}
