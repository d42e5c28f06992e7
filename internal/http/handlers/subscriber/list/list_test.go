package list

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/iptv-admin/internal/expiry"
	"github.com/magabrotheeeer/iptv-admin/internal/models"
)

// MockService реализует интерфейс list.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, limit, offset int) ([]*models.Subscriber, error) {
	args := m.Called(ctx, limit, offset)
	if subs, ok := args.Get(0).([]*models.Subscriber); ok {
		return subs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) ListFiltered(ctx context.Context, query string, bucket, appBucket expiry.Bucket) ([]*models.Subscriber, error) {
	args := m.Called(ctx, query, bucket, appBucket)
	if subs, ok := args.Get(0).([]*models.Subscriber); ok {
		return subs, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	subs := []*models.Subscriber{{ID: "c1", Name: "Joao"}}

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "список без параметров использует пагинацию по умолчанию",
			url:  "/clients",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, 50, 0).Return(subs, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"count":1`,
		},
		{
			name: "явные limit и offset",
			url:  "/clients?limit=10&offset=20",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, 10, 20).Return(subs, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"count":1`,
		},
		{
			name: "фильтр по корзине уходит в ListFiltered",
			url:  "/clients?bucket=expiring_today",
			setupMock: func(m *MockService) {
				m.On("ListFiltered", mock.Anything, "", expiry.BucketToday, expiry.Bucket("")).
					Return(subs, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"count":1`,
		},
		{
			name: "поиск уходит в ListFiltered",
			url:  "/clients?q=joao",
			setupMock: func(m *MockService) {
				m.On("ListFiltered", mock.Anything, "joao", expiry.Bucket(""), expiry.Bucket("")).
					Return(subs, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"Joao"`,
		},
		{
			name:           "неизвестная корзина отклоняется",
			url:            "/clients?bucket=soon",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid bucket parameter"`,
		},
		{
			name:           "отрицательный limit отклоняется",
			url:            "/clients?limit=-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid limit parameter"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
