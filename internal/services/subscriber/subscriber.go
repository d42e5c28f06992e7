// Package services содержит бизнес-логику управления абонентами:
// CRUD с кешированием, фильтрацию по корзинам срочности и продление.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/iptv-admin/internal/expiry"
	"github.com/magabrotheeeer/iptv-admin/internal/lib/sl"
	"github.com/magabrotheeeer/iptv-admin/internal/models"
	"github.com/magabrotheeeer/iptv-admin/internal/storage/repository"
)

// ErrNotFound абонент не найден.
var ErrNotFound = errors.New("subscriber not found")

// ErrPlanNotFound план абонента не разрешился по имени. Продление не
// выполняется, ошибка показывается пользователю.
var ErrPlanNotFound = errors.New("plan not found")

// SubscriberRepository определяет методы для работы с абонентами в хранилище.
type SubscriberRepository interface {
	// CreateSubscriber добавляет нового абонента и возвращает его ID.
	CreateSubscriber(ctx context.Context, collection models.Collection, sub models.Subscriber) (string, error)
	// ReadSubscriber возвращает абонента по ID.
	ReadSubscriber(ctx context.Context, collection models.Collection, id string) (*models.Subscriber, error)
	// UpdateSubscriber обновляет все поля абонента по ID.
	UpdateSubscriber(ctx context.Context, collection models.Collection, sub models.Subscriber) (int, error)
	// RemoveSubscriber удаляет абонента по ID.
	RemoveSubscriber(ctx context.Context, collection models.Collection, id string) (int, error)
	// ListSubscribers возвращает срез абонентов с пагинацией.
	ListSubscribers(ctx context.Context, collection models.Collection, limit, offset int) ([]*models.Subscriber, error)
	// ListAllSubscribers возвращает полную коллекцию.
	ListAllSubscribers(ctx context.Context, collection models.Collection) ([]*models.Subscriber, error)
}

// CatalogRepository определяет методы каталога, нужные продлению.
type CatalogRepository interface {
	// FindPlanByName возвращает план по имени.
	FindPlanByName(ctx context.Context, name string) (*models.Plan, error)
	// GetActivePixConfig возвращает активную PIX-конфигурацию.
	GetActivePixConfig(ctx context.Context) (*models.PixConfig, error)
	// CreateReceipt сохраняет квитанцию о продлении.
	CreateReceipt(ctx context.Context, receipt models.Receipt) (string, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// SubscriberService реализует бизнес-логику работы с абонентами одной
// коллекции (клиенты или реселлеры).
type SubscriberService struct {
	collection models.Collection
	repo       SubscriberRepository
	catalog    CatalogRepository
	cache      Cache
	log        *slog.Logger
}

// NewSubscriberService создает новый экземпляр SubscriberService для коллекции.
func NewSubscriberService(collection models.Collection, repo SubscriberRepository, catalog CatalogRepository, cache Cache, log *slog.Logger) *SubscriberService {
	return &SubscriberService{
		collection: collection,
		repo:       repo,
		catalog:    catalog,
		cache:      cache,
		log:        log,
	}
}

// Collection возвращает коллекцию, которую обслуживает сервис.
func (s *SubscriberService) Collection() models.Collection {
	return s.collection
}

func (s *SubscriberService) cacheKey(id string) string {
	return fmt.Sprintf("%s:%s", s.collection, id)
}

func fromDummy(id string, req models.DummySubscriber) models.Subscriber {
	return models.Subscriber{
		ID:          id,
		Name:        req.Name,
		Phone:       req.Phone,
		Plan:        req.Plan,
		Screens:     req.Screens,
		Servers:     req.Servers,
		Credits:     req.Credits,
		Status:      models.Status(req.Status),
		ExpiryDate:  req.ExpiryDate,
		ExpiryTime:  req.ExpiryTime,
		Credentials: req.Credentials,
		Notes:       req.Notes,
	}
}

// Create создает нового абонента, кеширует его и возвращает ID.
func (s *SubscriberService) Create(ctx context.Context, req models.DummySubscriber) (string, error) {
	if req.ExpiryDate != "" {
		if _, ok := expiry.Normalize(req.ExpiryDate); !ok {
			return "", fmt.Errorf("invalid expiry date: %q", req.ExpiryDate)
		}
	}

	sub := fromDummy(uuid.New().String(), req)
	id, err := s.repo.CreateSubscriber(ctx, s.collection, sub)
	if err != nil {
		return "", err
	}

	s.log.Info("created new subscriber",
		slog.String("collection", string(s.collection)), slog.String("id", id))

	if err := s.cache.Set(s.cacheKey(id), sub, time.Hour); err != nil {
		s.log.Warn("failed to cache subscriber", slog.String("key", s.cacheKey(id)), sl.Err(err))
	}
	return id, nil
}

// Read возвращает абонента по ID, используя кеш или репозиторий.
func (s *SubscriberService) Read(ctx context.Context, id string) (*models.Subscriber, error) {
	var result *models.Subscriber
	found, err := s.cache.Get(s.cacheKey(id), &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadSubscriber(ctx, s.collection, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(s.cacheKey(id), result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", s.cacheKey(id)), sl.Err(err))
	}
	return result, nil
}

// Update обновляет абонента и инвалидирует кеш. Собранный из запроса
// Subscriber не содержит created_at, поэтому кешируется не он, а следующее
// чтение из репозитория.
func (s *SubscriberService) Update(ctx context.Context, id string, req models.DummySubscriber) (int, error) {
	if req.ExpiryDate != "" {
		if _, ok := expiry.Normalize(req.ExpiryDate); !ok {
			return 0, fmt.Errorf("invalid expiry date: %q", req.ExpiryDate)
		}
	}

	sub := fromDummy(id, req)
	count, err := s.repo.UpdateSubscriber(ctx, s.collection, sub)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrNotFound
	}

	if err := s.cache.Invalidate(s.cacheKey(id)); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", s.cacheKey(id)), sl.Err(err))
	}
	return count, nil
}

// Remove удаляет абонента по ID и инвалидирует кеш.
func (s *SubscriberService) Remove(ctx context.Context, id string) (int, error) {
	if err := s.cache.Invalidate(s.cacheKey(id)); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", s.cacheKey(id)), sl.Err(err))
	}

	count, err := s.repo.RemoveSubscriber(ctx, s.collection, id)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrNotFound
	}
	return count, nil
}

// List возвращает срез абонентов с пагинацией.
func (s *SubscriberService) List(ctx context.Context, limit, offset int) ([]*models.Subscriber, error) {
	return s.repo.ListSubscribers(ctx, s.collection, limit, offset)
}

// ListFiltered возвращает абонентов, отфильтрованных по строке поиска
// и корзинам срочности. bucket относится к дате окончания подписки,
// appBucket — к ближайшей дате окончания приложения среди учётных данных.
// Пустое значение корзины означает отсутствие фильтра по этой оси.
func (s *SubscriberService) ListFiltered(ctx context.Context, query string, bucket, appBucket expiry.Bucket) ([]*models.Subscriber, error) {
	subs, err := s.repo.ListAllSubscribers(ctx, s.collection)
	if err != nil {
		return nil, err
	}

	today := expiry.Today()
	query = strings.ToLower(query)

	var result []*models.Subscriber
	for _, sub := range subs {
		if query != "" &&
			!strings.Contains(strings.ToLower(sub.Name), query) &&
			!strings.Contains(sub.Phone, query) {
			continue
		}
		if bucket != "" && expiry.ClassifyDate(sub.ExpiryDate, today) != bucket {
			continue
		}
		if appBucket != "" {
			dates := make([]string, 0, len(sub.Credentials))
			for _, cred := range sub.Credentials {
				dates = append(dates, cred.AppExpiryDate)
			}
			diff, ok := expiry.MinDays(dates, today)
			// абонент без единой даты приложения не попадает ни в одну корзину
			if !ok || expiry.Classify(diff) != appBucket {
				continue
			}
		}
		result = append(result, sub)
	}
	return result, nil
}

// Renew продлевает абонента по его плану: срок сдвигается по арифметике
// пакета expiry, статус принудительно становится active, создаётся
// квитанция. Возвращает обновлённого абонента и квитанцию.
func (s *SubscriberService) Renew(ctx context.Context, id string) (*models.Subscriber, *models.Receipt, error) {
	sub, err := s.repo.ReadSubscriber(ctx, s.collection, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	plan, err := s.catalog.FindPlanByName(ctx, sub.Plan)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, fmt.Errorf("%w: %q", ErrPlanNotFound, sub.Plan)
	}
	if err != nil {
		return nil, nil, err
	}

	oldExpiry := sub.ExpiryDate
	renewed := expiry.Renew(*sub, *plan, expiry.Today())

	if _, err := s.repo.UpdateSubscriber(ctx, s.collection, renewed); err != nil {
		return nil, nil, fmt.Errorf("persist renewal: %w", err)
	}
	if err := s.cache.Set(s.cacheKey(id), renewed, time.Hour); err != nil {
		s.log.Warn("failed to cache subscriber", slog.String("key", s.cacheKey(id)), sl.Err(err))
	}

	receipt := s.buildReceipt(ctx, renewed, *plan, oldExpiry)
	if _, err := s.catalog.CreateReceipt(ctx, receipt); err != nil {
		// продление уже сохранено, квитанция не должна его откатывать
		s.log.Error("failed to store renewal receipt", slog.String("id", id), sl.Err(err))
	}

	s.log.Info("renewed subscriber",
		slog.String("collection", string(s.collection)),
		slog.String("id", id),
		slog.String("new_expiry", renewed.ExpiryDate))

	return &renewed, &receipt, nil
}

func (s *SubscriberService) buildReceipt(ctx context.Context, sub models.Subscriber, plan models.Plan, oldExpiry string) models.Receipt {
	pixKey := ""
	if pix, err := s.catalog.GetActivePixConfig(ctx); err == nil {
		pixKey = pix.Key
	}

	body := fmt.Sprintf(
		"Comprovante de Renovação\nCliente: %s\nPlano: %s\nValor: R$ %.2f\nNovo vencimento: %s",
		sub.Name, plan.Name, plan.Price, sub.ExpiryDate)
	if pixKey != "" {
		body += "\nPIX: " + pixKey
	}

	return models.Receipt{
		ID:            uuid.New().String(),
		Collection:    s.collection,
		SubscriberID:  sub.ID,
		Subscriber:    sub.Name,
		Plan:          plan.Name,
		Amount:        plan.Price,
		OldExpiryDate: oldExpiry,
		NewExpiryDate: sub.ExpiryDate,
		PixKey:        pixKey,
		Body:          body,
	}
}
