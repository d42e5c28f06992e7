// Package list реализует HTTP-обработчик для получения списка абонентов.
//
// Handler поддерживает пагинацию через limit/offset, а также фильтрацию
// по строке поиска и корзинам срочности через query-параметры q, bucket
// и app_bucket. При наличии фильтров пагинация не применяется.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/iptv-admin/internal/expiry"
	"github.com/magabrotheeeer/iptv-admin/internal/http/response"
	"github.com/magabrotheeeer/iptv-admin/internal/lib/sl"
	"github.com/magabrotheeeer/iptv-admin/internal/models"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Handler обрабатывает запросы на получение списка абонентов.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики для получения списков
}

// Service описывает интерфейс бизнес-логики получения списков абонентов.
type Service interface {
	List(ctx context.Context, limit, offset int) ([]*models.Subscriber, error)
	ListFiltered(ctx context.Context, query string, bucket, appBucket expiry.Bucket) ([]*models.Subscriber, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func parseBucket(raw string) (expiry.Bucket, bool) {
	switch expiry.Bucket(raw) {
	case "", expiry.BucketToday, expiry.BucketTwoDays, expiry.BucketFiveDays,
		expiry.BucketOverdue, expiry.BucketNone:
		return expiry.Bucket(raw), true
	}
	return "", false
}

// ServeHTTP godoc
// @Summary Список абонентов
// @Description Возвращает абонентов коллекции с пагинацией или фильтрами.
// @Tags Subscribers
// @Produce  json
// @Param q query string false "Строка поиска по имени или телефону"
// @Param bucket query string false "Корзина срочности по дате подписки"
// @Param app_bucket query string false "Корзина срочности по датам приложений"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} map[string]any "Список абонентов"
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /clients [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscriber.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query().Get("q")
	bucket, ok := parseBucket(r.URL.Query().Get("bucket"))
	if !ok {
		log.Error("invalid bucket parameter")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid bucket parameter"))
		return
	}
	appBucket, ok := parseBucket(r.URL.Query().Get("app_bucket"))
	if !ok {
		log.Error("invalid app_bucket parameter")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid app_bucket parameter"))
		return
	}

	var (
		subs []*models.Subscriber
		err  error
	)
	if query != "" || bucket != "" || appBucket != "" {
		subs, err = h.service.ListFiltered(r.Context(), query, bucket, appBucket)
	} else {
		limit := defaultLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err = strconv.Atoi(raw)
			if err != nil || limit <= 0 || limit > maxLimit {
				log.Error("invalid limit parameter")
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error("invalid limit parameter"))
				return
			}
		}
		offset := 0
		if raw := r.URL.Query().Get("offset"); raw != "" {
			offset, err = strconv.Atoi(raw)
			if err != nil || offset < 0 {
				log.Error("invalid offset parameter")
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error("invalid offset parameter"))
				return
			}
		}
		subs, err = h.service.List(r.Context(), limit, offset)
	}
	if err != nil {
		log.Error("failed to list subscribers", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list subscribers"))
		return
	}

	log.Info("success to list subscribers", slog.Int("count", len(subs)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscribers": subs,
		"count":       len(subs),
	}))
}
