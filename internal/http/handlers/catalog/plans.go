// Package catalog реализует HTTP-обработчики справочников панели:
// планы, шаблоны сообщений, PIX-конфигурации и квитанции.
//
// В отличие от обработчиков абонентов, операции справочников компактные,
// поэтому каждый ресурс обслуживается одним обработчиком с методами.
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

// PlanRepository определяет методы хранилища планов.
type PlanRepository interface {
	CreatePlan(ctx context.Context, plan models.Plan) (string, error)
	ListPlans(ctx context.Context) ([]*models.Plan, error)
	UpdatePlan(ctx context.Context, plan models.Plan) (int, error)
	RemovePlan(ctx context.Context, id string) (int, error)
}

// PlansHandler обрабатывает CRUD-запросы справочника планов.
type PlansHandler struct {
	log      *slog.Logger
	repo     PlanRepository
	validate *validator.Validate
}

// NewPlansHandler создает новый PlansHandler.
func NewPlansHandler(log *slog.Logger, repo PlanRepository) *PlansHandler {
	return &PlansHandler{
		log:      log,
		repo:     repo,
		validate: validator.New(),
	}
}

func (h *PlansHandler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// Create создаёт новый план.
func (h *PlansHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.catalog.plans.create")

	var req models.DummyPlan
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

	plan := models.Plan{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Duration: req.Duration,
		Price:    req.Price,
	}
	id, err := h.repo.CreatePlan(r.Context(), plan)
	if err != nil {
		log.Error("failed to create plan", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create plan"))
		return
	}

	log.Info("success to create plan", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"id": id}))
}

// List возвращает все планы.
func (h *PlansHandler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.catalog.plans.list")

	plans, err := h.repo.ListPlans(r.Context())
	if err != nil {
		log.Error("failed to list plans", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list plans"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"plans": plans}))
}

// Update обновляет план по ID.
func (h *PlansHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.catalog.plans.update")

	id := chi.URLParam(r, "id")
	var req models.DummyPlan
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

	plan := models.Plan{ID: id, Name: req.Name, Duration: req.Duration, Price: req.Price}
	count, err := h.repo.UpdatePlan(r.Context(), plan)
	if err != nil {
		log.Error("failed to update plan", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update plan"))
		return
	}
	if count == 0 {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("plan not found"))
		return
	}

	log.Info("success to update plan", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"updated": count}))
}

// Remove удаляет план по ID.
func (h *PlansHandler) Remove(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.catalog.plans.remove")

	id := chi.URLParam(r, "id")
	count, err := h.repo.RemovePlan(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && count == 0) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("plan not found"))
		return
	}
	if err != nil {
		log.Error("failed to remove plan", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove plan"))
		return
	}

	log.Info("success to remove plan", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{"removed": count}))
}
