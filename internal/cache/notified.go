package cache

import (
	"context"
	"fmt"
	"time"
)

// notifiedTTL время жизни множества отправленных уведомлений.
// Ключ дневной, двух суток достаточно с запасом.
const notifiedTTL = 48 * time.Hour

// NotifiedStore хранит идентификаторы абонентов, уже уведомлённых в пределах
// календарного дня: множество в Redis с ключом notify:30d:<YYYY-MM-DD>.
// Передаётся в проверку уведомлений явной зависимостью.
type NotifiedStore struct {
	cache *Cache
}

// NewNotifiedStore создаёт хранилище поверх подключения к Redis.
func NewNotifiedStore(c *Cache) *NotifiedStore {
	return &NotifiedStore{cache: c}
}

func notifiedKey(day string) string {
	return "notify:30d:" + day
}

// WasNotified сообщает, отправлялось ли уведомление абоненту в указанный день.
func (s *NotifiedStore) WasNotified(ctx context.Context, day, id string) (bool, error) {
	const op = "cache.WasNotified"
	ok, err := s.cache.Db.SIsMember(ctx, notifiedKey(day), id).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok, nil
}

// MarkNotified отмечает абонента уведомлённым в указанный день.
func (s *NotifiedStore) MarkNotified(ctx context.Context, day, id string) error {
	const op = "cache.MarkNotified"
	key := notifiedKey(day)
	if err := s.cache.Db.SAdd(ctx, key, id).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Db.Expire(ctx, key, notifiedTTL).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
