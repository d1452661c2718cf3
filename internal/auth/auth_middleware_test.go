package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sebuszqo/BudgetKeeper/internal/config"
)

func TestJWTAccessTokenMiddleware(t *testing.T) {
	service, _ := newTestService(t)

	manager, err := NewTokenManager(&config.Config{
		JWTSecret:      "test-secret",
		JWTIssuer:      "BudgetKeeper",
		JWTAudience:    "BudgetKeeperAPI",
		AccessTokenTTL: 10 * time.Minute,
	})
	require.NoError(t, err)

	var gotUserID, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = r.Context().Value(ContextUserIDKey).(string)
		gotRole, _ = r.Context().Value(ContextRoleKey).(string)
		w.WriteHeader(http.StatusOK)
	})
	protected := service.JWTAccessTokenMiddleware()(next)

	t.Run("valid token passes and fills context", func(t *testing.T) {
		token, err := manager.GenerateAccessToken("user-1", "admin", "admin")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
		assert.Equal(t, "user-1", gotUserID)
		assert.Equal(t, "admin", gotRole)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
	})

	t.Run("non-bearer header rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
		req.Header.Set("Authorization", "Basic abc")
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		expiredManager, err := NewTokenManager(&config.Config{
			JWTSecret:      "test-secret",
			JWTIssuer:      "BudgetKeeper",
			JWTAudience:    "BudgetKeeperAPI",
			AccessTokenTTL: -time.Minute,
		})
		require.NoError(t, err)
		token, err := expiredManager.GenerateAccessToken("user-1", "admin", "admin")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
	})
}
