package catalog

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/iptv-admin/internal/http/response"
	"github.com/magabrotheeeer/iptv-admin/internal/lib/sl"
	"github.com/magabrotheeeer/iptv-admin/internal/models"
)

// ReceiptRepository определяет методы хранилища квитанций.
type ReceiptRepository interface {
	ListReceipts(ctx context.Context, subscriberID string, limit, offset int) ([]*models.Receipt, error)
}

// ReceiptsHandler обрабатывает запросы истории квитанций.
type ReceiptsHandler struct {
	log  *slog.Logger
	repo ReceiptRepository
}

// NewReceiptsHandler создает новый ReceiptsHandler.
func NewReceiptsHandler(log *slog.Logger, repo ReceiptRepository) *ReceiptsHandler {
	return &ReceiptsHandler{log: log, repo: repo}
}

// List возвращает квитанции, опционально отфильтрованные по абоненту
// через query-параметр subscriber_id.
func (h *ReceiptsHandler) List(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(
		slog.String("op", "handlers.catalog.receipts.list"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid limit parameter"))
			return
		}
		limit = parsed
	}
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid offset parameter"))
			return
		}
		offset = parsed
	}

	receipts, err := h.repo.ListReceipts(r.Context(), r.URL.Query().Get("subscriber_id"), limit, offset)
	if err != nil {
		log.Error("failed to list receipts", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list receipts"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"receipts": receipts}))
}
