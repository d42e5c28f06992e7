// Package remove реализует HTTP-обработчик для удаления абонента по ID.
package remove

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
	subscriberservice "github.com/magabrotheeeer/iptv-admin/internal/services/subscriber"
)

// Handler обрабатывает запросы на удаление абонента.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики для удаления абонентов
}

// Service описывает интерфейс бизнес-логики удаления абонента.
type Service interface {
	Remove(ctx context.Context, id string) (int, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить абонента
// @Description Удаляет абонента коллекции по ID.
// @Tags Subscribers
// @Produce  json
// @Param id path string true "ID абонента"
// @Success 200 {object} map[string]any "Число удалённых записей"
// @Failure 404 {object} response.ErrorResponse "Абонент не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /clients/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriber.remove"
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

	count, err := h.service.Remove(r.Context(), id)
	if errors.Is(err, subscriberservice.ErrNotFound) {
		log.Error("subscriber not found", slog.String("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("subscriber not found"))
		return
	}
	if err != nil {
		log.Error("failed to remove subscriber", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove subscriber"))
		return
	}

	log.Info("success to remove subscriber", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"removed": count,
	}))
}
