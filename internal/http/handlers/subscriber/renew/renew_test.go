package renew

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/iptv-admin/internal/models"
	subscriberservice "github.com/magabrotheeeer/iptv-admin/internal/services/subscriber"
)

// MockService реализует интерфейс renew.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Renew(ctx context.Context, id string) (*models.Subscriber, *models.Receipt, error) {
	args := m.Called(ctx, id)
	var sub *models.Subscriber
	var receipt *models.Receipt
	if res := args.Get(0); res != nil {
		sub = res.(*models.Subscriber)
	}
	if res := args.Get(1); res != nil {
		receipt = res.(*models.Receipt)
	}
	return sub, receipt, args.Error(2)
}

func TestRenewHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное продление абонента",
			id:   "c1",
			setupMock: func(m *MockService) {
				sub := &models.Subscriber{
					ID:         "c1",
					Name:       "Joao",
					Status:     models.StatusActive,
					ExpiryDate: "2026-09-27",
				}
				receipt := &models.Receipt{ID: "r1", NewExpiryDate: "2026-09-27"}
				m.On("Renew", mock.Anything, "c1").Return(sub, receipt, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"expiry_date":"2026-09-27"`,
		},
		{
			name: "абонент не найден",
			id:   "missing",
			setupMock: func(m *MockService) {
				m.On("Renew", mock.Anything, "missing").
					Return(nil, nil, subscriberservice.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"subscriber not found"`,
		},
		{
			name: "план абонента не найден",
			id:   "c2",
			setupMock: func(m *MockService) {
				m.On("Renew", mock.Anything, "c2").
					Return(nil, nil, subscriberservice.ErrPlanNotFound)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"subscriber plan not found"`,
		},
		{
			name: "ошибка сервиса продления",
			id:   "c3",
			setupMock: func(m *MockService) {
				m.On("Renew", mock.Anything, "c3").
					Return(nil, nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"could not renew subscriber"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/clients/"+tt.id+"/renew", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
