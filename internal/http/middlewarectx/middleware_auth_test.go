package middlewarectx

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwtlib "github.com/magabrotheeeer/iptv-admin/internal/lib/jwt"
)

func TestJWTMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	maker := jwtlib.NewJWTMaker("test-secret", time.Hour)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, _ := r.Context().Value(User).(string)
		w.Header().Set("X-Username", username)
		w.WriteHeader(http.StatusOK)
	})
	handler := JWTMiddleware(maker, logger)(next)

	t.Run("валидный токен пропускается и кладёт имя в контекст", func(t *testing.T) {
		token, err := maker.GenerateToken("admin")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/clients", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "admin", w.Header().Get("X-Username"))
	})

	t.Run("запрос без заголовка отклоняется", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/clients", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("мусорный токен отклоняется", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/clients", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("просроченный токен отклоняется", func(t *testing.T) {
		expired := jwtlib.NewJWTMaker("test-secret", -time.Minute)
		token, err := expired.GenerateToken("admin")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/clients", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
