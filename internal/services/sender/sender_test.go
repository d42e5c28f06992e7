package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/iptv-admin/internal/models"
	"github.com/magabrotheeeer/iptv-admin/internal/storage/repository"
	"github.com/magabrotheeeer/iptv-admin/internal/whatsapp"
)

type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) FindTemplateByName(ctx context.Context, name string) (*models.MessageTemplate, error) {
	args := m.Called(ctx, name)
	if template, ok := args.Get(0).(*models.MessageTemplate); ok {
		return template, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) SendMessage(req whatsapp.SendMessageRequest) (*whatsapp.SendMessageResponse, error) {
	args := m.Called(req)
	if resp, ok := args.Get(0).(*whatsapp.SendMessageResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestRender(t *testing.T) {
	notice := models.ExpiryNotice{
		Name:       "Maria",
		Plan:       "Trimestral",
		ExpiryDate: "2026-09-27",
		DaysLeft:   30,
	}

	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "Все плейсхолдеры подставляются",
			body:     "{nome}: plano {plano}, vence {vencimento} ({dias} dias)",
			expected: "Maria: plano Trimestral, vence 27/09/2026 (30 dias)",
		},
		{
			name:     "Текст без плейсхолдеров не меняется",
			body:     "Renove hoje!",
			expected: "Renove hoje!",
		},
		{
			name:     "Повторный плейсхолдер подставляется каждый раз",
			body:     "{nome}, {nome}!",
			expected: "Maria, Maria!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Render(tt.body, notice))
		})
	}
}

func TestRender_InvalidDateKeptVerbatim(t *testing.T) {
	notice := models.ExpiryNotice{ExpiryDate: "not-a-date"}
	assert.Equal(t, "not-a-date", Render("{vencimento}", notice))
}

func noticeBody(t *testing.T, notice models.ExpiryNotice) []byte {
	t.Helper()
	body, err := json.Marshal(notice)
	require.NoError(t, err)
	return body
}

func TestHandleNotice(t *testing.T) {
	notice := models.ExpiryNotice{
		ID:         "a",
		Name:       "Maria",
		Phone:      "5511988887777",
		Plan:       "Mensal",
		ExpiryDate: "2026-09-27",
		DaysLeft:   30,
	}

	templates := new(MockTemplateRepository)
	templates.On("FindTemplateByName", mock.Anything, TemplateNameExpiring30).
		Return(&models.MessageTemplate{Name: TemplateNameExpiring30, Body: "Oi {nome}, vence em {dias} dias"}, nil)

	gateway := new(MockGateway)
	gateway.On("SendMessage", whatsapp.SendMessageRequest{
		Phone: "5511988887777",
		Body:  "Oi Maria, vence em 30 dias",
	}).Return(&whatsapp.SendMessageResponse{MessageID: "m1", Status: "sent"}, nil)

	service := NewSenderService(templates, gateway, discardLogger())
	err := service.HandleNotice(context.Background(), noticeBody(t, notice))

	require.NoError(t, err)
	templates.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestHandleNotice_MissingTemplateUsesDefault(t *testing.T) {
	notice := models.ExpiryNotice{ID: "a", Name: "Maria", Phone: "5511988887777", DaysLeft: 30}

	templates := new(MockTemplateRepository)
	templates.On("FindTemplateByName", mock.Anything, TemplateNameExpiring30).
		Return(nil, repository.ErrNotFound)

	gateway := new(MockGateway)
	gateway.On("SendMessage", mock.MatchedBy(func(req whatsapp.SendMessageRequest) bool {
		return req.Phone == "5511988887777" && req.Body != ""
	})).Return(&whatsapp.SendMessageResponse{MessageID: "m1"}, nil)

	service := NewSenderService(templates, gateway, discardLogger())
	err := service.HandleNotice(context.Background(), noticeBody(t, notice))

	require.NoError(t, err)
	gateway.AssertExpectations(t)
}

func TestHandleNotice_Errors(t *testing.T) {
	t.Run("Невалидный JSON возвращает ошибку", func(t *testing.T) {
		service := NewSenderService(new(MockTemplateRepository), new(MockGateway), discardLogger())
		err := service.HandleNotice(context.Background(), []byte("{broken"))
		assert.Error(t, err)
	})

	t.Run("Уведомление без телефона возвращает ошибку", func(t *testing.T) {
		service := NewSenderService(new(MockTemplateRepository), new(MockGateway), discardLogger())
		err := service.HandleNotice(context.Background(), noticeBody(t, models.ExpiryNotice{ID: "a"}))
		assert.Error(t, err)
	})

	t.Run("Ошибка шлюза пробрасывается", func(t *testing.T) {
		templates := new(MockTemplateRepository)
		templates.On("FindTemplateByName", mock.Anything, TemplateNameExpiring30).
			Return(nil, repository.ErrNotFound)
		gateway := new(MockGateway)
		gateway.On("SendMessage", mock.Anything).
			Return(nil, errors.New("gateway unavailable"))

		service := NewSenderService(templates, gateway, discardLogger())
		err := service.HandleNotice(context.Background(),
			noticeBody(t, models.ExpiryNotice{ID: "a", Phone: "551100000000"}))
		assert.Error(t, err)
	})
}
