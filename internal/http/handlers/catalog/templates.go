package catalog

import (
	"context"
	"encoding/json"
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
)

// TemplateRepository определяет методы хранилища шаблонов сообщений.
type TemplateRepository interface {
	CreateTemplate(ctx context.Context, tmpl models.MessageTemplate) (string, error)
	ListTemplates(ctx context.Context) ([]*models.MessageTemplate, error)
	UpdateTemplate(ctx context.Context, tmpl models.MessageTemplate) (int, error)
	RemoveTemplate(ctx context.Context, id string) (int, error)
}

// TemplatesHandler обрабатывает CRUD-запросы справочника шаблонов сообщений.
type TemplatesHandler struct {
	log      *slog.Logger
	repo     TemplateRepository
	validate *validator.Validate
}

// NewTemplatesHandler создает новый TemplatesHandler.
func NewTemplatesHandler(log *slog.Logger, repo TemplateRepository) *TemplatesHandler {
	return &TemplatesHandler{
		log:      log,
		repo:     repo,
		validate: validator.New(),
	}
}

func (h *TemplatesHandler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// Create создаёт новый шаблон сообщения.
func (h *TemplatesHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.catalog.templates.create")

	var req models.DummyMessageTemplate
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

	tmpl := models.MessageTemplate{ID: uuid.New().String(), Name: req.Name, Body: req.Body}
	id, err := h.repo.CreateTemplate(r.Context(), tmpl)
	if err != nil {
		log.Error("failed to create template", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create template"))
		return
	}

	log.Info("success to create template", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"id": id}))
}

// List возвращает все шаблоны.
func (h *TemplatesHandler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.catalog.templates.list")

	templates, err := h.repo.ListTemplates(r.Context())
	if err != nil {
		log.Error("failed to list templates", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list templates"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"templates": templates}))
}

// Update обновляет шаблон по ID.
func (h *TemplatesHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.catalog.templates.update")

	id := chi.URLParam(r, "id")
	var req models.DummyMessageTemplate
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

	tmpl := models.MessageTemplate{ID: id, Name: req.Name, Body: req.Body}
	count, err := h.repo.UpdateTemplate(r.Context(), tmpl)
	if err != nil {
		log.Error("failed to update template", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update template"))
		return
	}
	if count == 0 {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("template not found"))
		return
	}

	log.Info("success to update template", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"updated": count}))
}

// Remove удаляет шаблон по ID.
func (h *TemplatesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.catalog.templates.remove")

	id := chi.URLParam(r, "id")
	count, err := h.repo.RemoveTemplate(r.Context(), id)
	if err != nil {
		log.Error("failed to remove template", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove template"))
		return
	}
	if count == 0 {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("template not found"))
		return
	}

	log.Info("success to remove template", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"removed": count}))
}
