package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/iptv-admin/internal/expiry"
	"github.com/magabrotheeeer/iptv-admin/internal/models"
	"github.com/magabrotheeeer/iptv-admin/internal/storage/repository"
)

type MockSubscriberRepository struct {
	mock.Mock
}

func (m *MockSubscriberRepository) CreateSubscriber(ctx context.Context, collection models.Collection, sub models.Subscriber) (string, error) {
	args := m.Called(ctx, collection, sub)
	return args.String(0), args.Error(1)
}

func (m *MockSubscriberRepository) ReadSubscriber(ctx context.Context, collection models.Collection, id string) (*models.Subscriber, error) {
	args := m.Called(ctx, collection, id)
	if sub, ok := args.Get(0).(*models.Subscriber); ok {
		return sub, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSubscriberRepository) UpdateSubscriber(ctx context.Context, collection models.Collection, sub models.Subscriber) (int, error) {
	args := m.Called(ctx, collection, sub)
	return args.Int(0), args.Error(1)
}

func (m *MockSubscriberRepository) RemoveSubscriber(ctx context.Context, collection models.Collection, id string) (int, error) {
	args := m.Called(ctx, collection, id)
	return args.Int(0), args.Error(1)
}

func (m *MockSubscriberRepository) ListSubscribers(ctx context.Context, collection models.Collection, limit, offset int) ([]*models.Subscriber, error) {
	args := m.Called(ctx, collection, limit, offset)
	if subs, ok := args.Get(0).([]*models.Subscriber); ok {
		return subs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSubscriberRepository) ListAllSubscribers(ctx context.Context, collection models.Collection) ([]*models.Subscriber, error) {
	args := m.Called(ctx, collection)
	if subs, ok := args.Get(0).([]*models.Subscriber); ok {
		return subs, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) FindPlanByName(ctx context.Context, name string) (*models.Plan, error) {
	args := m.Called(ctx, name)
	if plan, ok := args.Get(0).(*models.Plan); ok {
		return plan, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogRepository) GetActivePixConfig(ctx context.Context) (*models.PixConfig, error) {
	args := m.Called(ctx)
	if pix, ok := args.Get(0).(*models.PixConfig); ok {
		return pix, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogRepository) CreateReceipt(ctx context.Context, receipt models.Receipt) (string, error) {
	args := m.Called(ctx, receipt)
	return args.String(0), args.Error(1)
}

// noopCache кеш, в котором ничего не находится и всё сохраняется без ошибок.
type noopCache struct{}

func (noopCache) Get(_ string, _ any) (bool, error)          { return false, nil }
func (noopCache) Set(_ string, _ any, _ time.Duration) error { return nil }
func (noopCache) Invalidate(_ string) error                  { return nil }

// recordingCache запоминает ключи операций кеша.
type recordingCache struct {
	noopCache
	setKeys         []string
	invalidatedKeys []string
}

func (c *recordingCache) Set(key string, _ any, _ time.Duration) error {
	c.setKeys = append(c.setKeys, key)
	return nil
}

func (c *recordingCache) Invalidate(key string) error {
	c.invalidatedKeys = append(c.invalidatedKeys, key)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newService(repo *MockSubscriberRepository, catalog *MockCatalogRepository) *SubscriberService {
	return NewSubscriberService(models.CollectionClients, repo, catalog, noopCache{}, discardLogger())
}

func TestCreate_RejectsInvalidExpiryDate(t *testing.T) {
	service := newService(new(MockSubscriberRepository), new(MockCatalogRepository))

	_, err := service.Create(context.Background(), models.DummySubscriber{
		Name:       "Joao",
		Status:     "active",
		ExpiryDate: "31/12/2026",
	})

	assert.Error(t, err)
}

func TestUpdate_InvalidatesCache(t *testing.T) {
	repo := new(MockSubscriberRepository)
	repo.On("UpdateSubscriber", mock.Anything, models.CollectionClients, mock.Anything).
		Return(1, nil)

	cache := &recordingCache{}
	service := NewSubscriberService(models.CollectionClients, repo, new(MockCatalogRepository), cache, discardLogger())

	count, err := service.Update(context.Background(), "abc", models.DummySubscriber{
		Name:   "Joao",
		Status: "active",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	// Собранный из запроса абонент не содержит created_at,
	// поэтому в кеш он попадать не должен.
	assert.Empty(t, cache.setKeys)
	assert.Equal(t, []string{"clients:abc"}, cache.invalidatedKeys)
}

func TestRead_NotFound(t *testing.T) {
	repo := new(MockSubscriberRepository)
	repo.On("ReadSubscriber", mock.Anything, models.CollectionClients, "missing").
		Return(nil, repository.ErrNotFound)

	service := newService(repo, new(MockCatalogRepository))
	_, err := service.Read(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenew(t *testing.T) {
	today := expiry.Today()

	tests := []struct {
		name           string
		currentExpiry  string
		planDuration   string
		expectedExpiry string
	}{
		{
			name:           "Действующая подписка продлевается от текущего срока",
			currentExpiry:  expiry.Format(today.AddDate(0, 0, 10)),
			planDuration:   "30",
			expectedExpiry: expiry.Format(today.AddDate(0, 0, 10).AddDate(0, 1, 0)),
		},
		{
			name:           "Просроченная подписка продлевается от сегодня",
			currentExpiry:  expiry.Format(today.AddDate(0, 0, -40)),
			planDuration:   "30",
			expectedExpiry: expiry.Format(today.AddDate(0, 1, 0)),
		},
		{
			name:           "Квартальный план добавляет три месяца",
			currentExpiry:  expiry.Format(today),
			planDuration:   "90",
			expectedExpiry: expiry.Format(today.AddDate(0, 3, 0)),
		},
		{
			name:           "Пустая дата трактуется как продление от сегодня",
			currentExpiry:  "",
			planDuration:   "30",
			expectedExpiry: expiry.Format(today.AddDate(0, 1, 0)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &models.Subscriber{
				ID:         "a",
				Name:       "Joao",
				Plan:       "Mensal",
				Status:     models.StatusInactive,
				ExpiryDate: tt.currentExpiry,
			}

			repo := new(MockSubscriberRepository)
			repo.On("ReadSubscriber", mock.Anything, models.CollectionClients, "a").Return(sub, nil)
			repo.On("UpdateSubscriber", mock.Anything, models.CollectionClients, mock.Anything).Return(1, nil)

			catalog := new(MockCatalogRepository)
			catalog.On("FindPlanByName", mock.Anything, "Mensal").
				Return(&models.Plan{Name: "Mensal", Duration: tt.planDuration, Price: 35.90}, nil)
			catalog.On("GetActivePixConfig", mock.Anything).
				Return(&models.PixConfig{Key: "chave@pix.br", Active: true}, nil)
			catalog.On("CreateReceipt", mock.Anything, mock.Anything).Return("r1", nil)

			service := newService(repo, catalog)
			renewed, receipt, err := service.Renew(context.Background(), "a")

			require.NoError(t, err)
			assert.Equal(t, tt.expectedExpiry, renewed.ExpiryDate)
			assert.Equal(t, models.StatusActive, renewed.Status)
			assert.Equal(t, tt.currentExpiry, receipt.OldExpiryDate)
			assert.Equal(t, tt.expectedExpiry, receipt.NewExpiryDate)
			assert.Equal(t, 35.90, receipt.Amount)
			assert.Equal(t, "chave@pix.br", receipt.PixKey)
			repo.AssertExpectations(t)
			catalog.AssertExpectations(t)
		})
	}
}

func TestRenew_PlanNotFound(t *testing.T) {
	sub := &models.Subscriber{ID: "a", Plan: "Inexistente", Status: models.StatusActive}

	repo := new(MockSubscriberRepository)
	repo.On("ReadSubscriber", mock.Anything, models.CollectionClients, "a").Return(sub, nil)

	catalog := new(MockCatalogRepository)
	catalog.On("FindPlanByName", mock.Anything, "Inexistente").
		Return(nil, repository.ErrNotFound)

	service := newService(repo, catalog)
	_, _, err := service.Renew(context.Background(), "a")

	assert.ErrorIs(t, err, ErrPlanNotFound)
	repo.AssertNotCalled(t, "UpdateSubscriber", mock.Anything, mock.Anything, mock.Anything)
}

func TestRenew_PersistenceErrorSurfaces(t *testing.T) {
	sub := &models.Subscriber{ID: "a", Plan: "Mensal", Status: models.StatusActive}

	repo := new(MockSubscriberRepository)
	repo.On("ReadSubscriber", mock.Anything, models.CollectionClients, "a").Return(sub, nil)
	repo.On("UpdateSubscriber", mock.Anything, models.CollectionClients, mock.Anything).
		Return(0, errors.New("connection reset"))

	catalog := new(MockCatalogRepository)
	catalog.On("FindPlanByName", mock.Anything, "Mensal").
		Return(&models.Plan{Name: "Mensal", Duration: "30"}, nil)

	service := newService(repo, catalog)
	_, _, err := service.Renew(context.Background(), "a")

	assert.Error(t, err)
	catalog.AssertNotCalled(t, "CreateReceipt", mock.Anything, mock.Anything)
}

func TestRenew_ReceiptErrorDoesNotFailRenewal(t *testing.T) {
	sub := &models.Subscriber{ID: "a", Plan: "Mensal", Status: models.StatusActive}

	repo := new(MockSubscriberRepository)
	repo.On("ReadSubscriber", mock.Anything, models.CollectionClients, "a").Return(sub, nil)
	repo.On("UpdateSubscriber", mock.Anything, models.CollectionClients, mock.Anything).Return(1, nil)

	catalog := new(MockCatalogRepository)
	catalog.On("FindPlanByName", mock.Anything, "Mensal").
		Return(&models.Plan{Name: "Mensal", Duration: "30"}, nil)
	catalog.On("GetActivePixConfig", mock.Anything).Return(nil, repository.ErrNotFound)
	catalog.On("CreateReceipt", mock.Anything, mock.Anything).
		Return("", errors.New("disk full"))

	service := newService(repo, catalog)
	renewed, _, err := service.Renew(context.Background(), "a")

	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, renewed.Status)
}

func TestListFiltered(t *testing.T) {
	today := expiry.Today()
	subs := []*models.Subscriber{
		{ID: "a", Name: "Joao Silva", Phone: "5511111111111", ExpiryDate: expiry.Format(today)},
		{ID: "b", Name: "Maria Souza", Phone: "5522222222222", ExpiryDate: expiry.Format(today.AddDate(0, 0, 4))},
		{ID: "c", Name: "Pedro Lima", Phone: "5533333333333", ExpiryDate: expiry.Format(today.AddDate(0, 0, -3))},
		{ID: "d", Name: "Ana Costa", Phone: "5544444444444", ExpiryDate: ""},
	}

	tests := []struct {
		name     string
		query    string
		bucket   expiry.Bucket
		expected []string
	}{
		{
			name:     "Без фильтров возвращаются все",
			expected: []string{"a", "b", "c", "d"},
		},
		{
			name:     "Поиск по имени без учёта регистра",
			query:    "maria",
			expected: []string{"b"},
		},
		{
			name:     "Поиск по телефону",
			query:    "5533",
			expected: []string{"c"},
		},
		{
			name:     "Фильтр по корзине expiring_today",
			bucket:   expiry.BucketToday,
			expected: []string{"a"},
		},
		{
			name:     "Фильтр по корзине overdue",
			bucket:   expiry.BucketOverdue,
			expected: []string{"c"},
		},
		{
			name:     "Абонент без даты попадает в корзину none",
			bucket:   expiry.BucketNone,
			expected: []string{"d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockSubscriberRepository)
			repo.On("ListAllSubscribers", mock.Anything, models.CollectionClients).Return(subs, nil)

			service := newService(repo, new(MockCatalogRepository))
			result, err := service.ListFiltered(context.Background(), tt.query, tt.bucket, "")

			require.NoError(t, err)
			ids := make([]string, 0, len(result))
			for _, sub := range result {
				ids = append(ids, sub.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestListFiltered_AppExpiryAxis(t *testing.T) {
	today := expiry.Today()
	subs := []*models.Subscriber{
		{ID: "a", Name: "Joao", Credentials: []models.Credential{
			{Login: "u1", AppExpiryDate: expiry.Format(today.AddDate(0, 0, 1))},
			{Login: "u2", AppExpiryDate: expiry.Format(today.AddDate(0, 0, 60))},
		}},
		{ID: "b", Name: "Maria", Credentials: []models.Credential{
			{Login: "u3", AppExpiryDate: expiry.Format(today.AddDate(0, 0, 60))},
		}},
		{ID: "c", Name: "Pedro"},
	}

	repo := new(MockSubscriberRepository)
	repo.On("ListAllSubscribers", mock.Anything, models.CollectionClients).Return(subs, nil)

	service := newService(repo, new(MockCatalogRepository))
	// минимальная разница по учётным данным определяет корзину
	result, err := service.ListFiltered(context.Background(), "", "", expiry.BucketTwoDays)

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "a", result[0].ID)
}
