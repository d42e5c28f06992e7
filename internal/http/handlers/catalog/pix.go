package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/iptv-admin/internal/http/response"
	"github.com/magabrotheeeer/iptv-admin/internal/lib/sl"
	"github.com/magabrotheeeer/iptv-admin/internal/models"
	"github.com/magabrotheeeer/iptv-admin/internal/storage/repository"
)

// PixRepository определяет методы хранилища PIX-конфигураций.
type PixRepository interface {
	CreatePixConfig(ctx context.Context, pix models.PixConfig) (string, error)
	ListPixConfigs(ctx context.Context) ([]*models.PixConfig, error)
	ActivatePixConfig(ctx context.Context, id string) error
	RemovePixConfig(ctx context.Context, id string) (int, error)
}

// PixHandler обрабатывает запросы справочника PIX-конфигураций.
type PixHandler struct {
	log      *slog.Logger
	repo     PixRepository
	validate *validator.Validate
}

// NewPixHandler создает новый PixHandler.
func NewPixHandler(log *slog.Logger, repo PixRepository) *PixHandler {
	return &PixHandler{
		log:      log,
		repo:     repo,
		validate: validator.New(),
	}
}

func (h *PixHandler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// Create создаёт новую PIX-конфигурацию. Флаг Active в запросе игнорируется,
// активация выполняется отдельным запросом.
func (h *PixHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.catalog.pix.create")

	var req models.DummyPixConfig
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	pix := models.PixConfig{
		ID:      uuid.New().String(),
		KeyType: req.KeyType,
		Key:     req.Key,
		Holder:  req.Holder,
	}
	id, err := h.repo.CreatePixConfig(r.Context(), pix)
	if err != nil {
		log.Error("failed to create pix config", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create pix config"))
		return
	}

	log.Info("success to create pix config", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"id": id}))
}

// List возвращает все PIX-конфигурации.
func (h *PixHandler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.catalog.pix.list")

	configs, err := h.repo.ListPixConfigs(r.Context())
	if err != nil {
		log.Error("failed to list pix configs", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list pix configs"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"pix_configs": configs}))
}

// Activate делает конфигурацию активной, снимая флаг с остальных.
func (h *PixHandler) Activate(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.catalog.pix.activate")

	id := chi.URLParam(r, "id")
	err := h.repo.ActivatePixConfig(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("pix config not found"))
		return
	}
	if err != nil {
		log.Error("failed to activate pix config", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not activate pix config"))
		return
	}

	log.Info("success to activate pix config", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"activated": id}))
}

// Remove удаляет PIX-конфигурацию по ID.
func (h *PixHandler) Remove(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.catalog.pix.remove")

	id := chi.URLParam(r, "id")
	count, err := h.repo.RemovePixConfig(r.Context(), id)
	if err != nil {
		log.Error("failed to remove pix config", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove pix config"))
		return
	}
	if count == 0 {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("pix config not found"))
		return
	}

	log.Info("success to remove pix config", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"removed": count}))
}
