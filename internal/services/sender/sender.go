// Package services содержит отправку уведомлений об окончании подписки:
// сообщения из очереди рендерятся по шаблону и уходят в WhatsApp-шлюз.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/iptv-admin/internal/expiry"
	"github.com/magabrotheeeer/iptv-admin/internal/lib/sl"
	"github.com/magabrotheeeer/iptv-admin/internal/models"
	"github.com/magabrotheeeer/iptv-admin/internal/storage/repository"
	"github.com/magabrotheeeer/iptv-admin/internal/whatsapp"
)

// TemplateNameExpiring30 имя шаблона уведомления о 30-дневном сроке.
const TemplateNameExpiring30 = "expiring30"

// Текст по умолчанию, если шаблон не заведён в каталоге.
const defaultExpiring30Body = "Olá {nome}! Seu plano {plano} vence em {dias} dias, no dia {vencimento}. Renove para não perder o acesso."

// TemplateRepository определяет методы каталога шаблонов.
type TemplateRepository interface {
	// FindTemplateByName возвращает шаблон по имени.
	FindTemplateByName(ctx context.Context, name string) (*models.MessageTemplate, error)
}

// Gateway отправляет сообщение абоненту.
type Gateway interface {
	SendMessage(req whatsapp.SendMessageRequest) (*whatsapp.SendMessageResponse, error)
}

// SenderService превращает уведомления из очереди в WhatsApp-сообщения.
type SenderService struct {
	templates TemplateRepository
	gateway   Gateway
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(templates TemplateRepository, gateway Gateway, log *slog.Logger) *SenderService {
	return &SenderService{
		templates: templates,
		gateway:   gateway,
		log:       log,
	}
}

// Render подставляет данные абонента в текст шаблона. Дата выводится
// в бразильском формате dd/mm/yyyy.
func Render(body string, notice models.ExpiryNotice) string {
	vencimento := notice.ExpiryDate
	if date, ok := expiry.Normalize(notice.ExpiryDate); ok {
		vencimento = date.Format("02/01/2006")
	}
	return strings.NewReplacer(
		"{nome}", notice.Name,
		"{plano}", notice.Plan,
		"{vencimento}", vencimento,
		"{dias}", strconv.Itoa(notice.DaysLeft),
	).Replace(body)
}

// HandleNotice обрабатывает одно сообщение очереди: разбирает уведомление,
// рендерит текст и отправляет его в шлюз.
func (s *SenderService) HandleNotice(ctx context.Context, body []byte) error {
	const op = "services.HandleNotice"

	var notice models.ExpiryNotice
	if err := json.Unmarshal(body, &notice); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if notice.Phone == "" {
		return fmt.Errorf("%s: notice %q has no phone", op, notice.ID)
	}

	text := defaultExpiring30Body
	template, err := s.templates.FindTemplateByName(ctx, TemplateNameExpiring30)
	switch {
	case err == nil:
		text = template.Body
	case errors.Is(err, repository.ErrNotFound):
		s.log.Warn("template not found, using default body",
			slog.String("template", TemplateNameExpiring30))
	default:
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := s.gateway.SendMessage(whatsapp.SendMessageRequest{
		Phone: notice.Phone,
		Body:  Render(text, notice),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("expiry notification sent",
		slog.String("id", notice.ID),
		slog.String("phone", notice.Phone),
		slog.String("message_id", resp.MessageID))
	return nil
}

// Consume читает сообщения очереди до отмены контекста. Сообщения с ошибкой
// обработки отклоняются без повторной постановки, остальные подтверждаются.
func (s *SenderService) Consume(ctx context.Context, ch *amqp.Channel, queue string) error {
	const op = "services.Consume"

	deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("notification sender started", slog.String("queue", queue))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("notification sender stopped")
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("%s: delivery channel closed", op)
			}
			if err := s.HandleNotice(ctx, delivery.Body); err != nil {
				s.log.Error("failed to handle expiry notice", sl.Err(err))
				_ = delivery.Nack(false, false)
				continue
			}
			_ = delivery.Ack(false)
		}
	}
}
