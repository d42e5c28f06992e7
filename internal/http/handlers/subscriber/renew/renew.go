// Package renew реализует HTTP-обработчик продления подписки абонента.
//
// Handler вызывает бизнес-логику продления по плану абонента и возвращает
// обновлённые данные вместе с квитанцией.
package renew

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/iptv-admin/internal/http/response"
	"github.com/magabrotheeeer/iptv-admin/internal/lib/sl"
	"github.com/magabrotheeeer/iptv-admin/internal/models"
	subscriberservice "github.com/magabrotheeeer/iptv-admin/internal/services/subscriber"
)

// Handler обрабатывает запросы на продление абонента.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики продления
}

// Service описывает интерфейс бизнес-логики продления абонента.
type Service interface {
	Renew(ctx context.Context, id string) (*models.Subscriber, *models.Receipt, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Продлить подписку абонента
// @Description Продлевает подписку по плану абонента, активирует его и создаёт квитанцию.
// @Tags Subscribers
// @Produce  json
// @Param id path string true "ID абонента"
// @Success 200 {object} map[string]any "Обновлённый абонент и квитанция"
// @Failure 404 {object} response.ErrorResponse "Абонент не найден"
// @Failure 422 {object} response.ErrorResponse "План абонента не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /clients/{id}/renew [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriber.renew"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Error("missing id in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing id in url"))
		return
	}

	sub, receipt, err := h.service.Renew(r.Context(), id)
	switch {
	case errors.Is(err, subscriberservice.ErrNotFound):
		log.Error("subscriber not found", slog.String("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("subscriber not found"))
		return
	case errors.Is(err, subscriberservice.ErrPlanNotFound):
		log.Error("plan not found for subscriber", slog.String("id", id), sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("subscriber plan not found"))
		return
	case err != nil:
		log.Error("failed to renew subscriber", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not renew subscriber"))
		return
	}

	log.Info("success to renew subscriber",
		slog.String("id", id), slog.String("new_expiry", sub.ExpiryDate))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscriber": sub,
		"receipt":    receipt,
	}))
}
