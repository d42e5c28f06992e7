// Package read реализует HTTP-обработчик для получения конкретного абонента по ID.
//
// Handler извлекает ID из URL-параметров, вызывает бизнес-логику для чтения
// абонента по идентификатору и возвращает его данные в JSON-формате.
package read

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

// Handler обрабатывает запросы на получение абонента по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики для чтения абонента по ID
}

// Service описывает интерфейс бизнес-логики чтения абонента.
type Service interface {
	Read(ctx context.Context, id string) (*models.Subscriber, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить абонента
// @Description Возвращает абонента коллекции по ID.
// @Tags Subscribers
// @Produce  json
// @Param id path string true "ID абонента"
// @Success 200 {object} map[string]any "Данные абонента"
// @Failure 404 {object} response.ErrorResponse "Абонент не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /clients/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriber.read"
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

	res, err := h.service.Read(r.Context(), id)
	if errors.Is(err, subscriberservice.ErrNotFound) {
		log.Error("subscriber not found", slog.String("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("subscriber not found"))
		return
	}
	if err != nil {
		log.Error("failed to read subscriber", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read subscriber"))
		return
	}

	log.Info("success to read subscriber", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscriber": res,
	}))
}
