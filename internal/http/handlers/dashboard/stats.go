// Package dashboard реализует HTTP-обработчик сводки панели.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/iptv-admin/internal/http/response"
	"github.com/magabrotheeeer/iptv-admin/internal/lib/sl"
	statsservice "github.com/magabrotheeeer/iptv-admin/internal/services/stats"
)

// Handler обрабатывает запросы сводки панели.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис подсчёта сводки
}

// Service описывает интерфейс подсчёта сводки панели.
type Service interface {
	Collect(ctx context.Context) (*statsservice.Stats, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сводка панели
// @Description Возвращает размеры корзин срочности и статусов по коллекциям.
// @Tags Dashboard
// @Produce  json
// @Success 200 {object} map[string]any "Сводка панели"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /dashboard/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.stats"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	stats, err := h.service.Collect(r.Context())
	if err != nil {
		log.Error("failed to collect stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not collect stats"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(stats))
}
