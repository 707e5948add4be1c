package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokens map[string][2]string

func (s stubTokens) ParseAccess(token string) (string, string, error) {
	claims, ok := s[token]
	if !ok {
		return "", "", errors.New("invalid token")
	}
	return claims[0], claims[1], nil
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func do(r http.Handler, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := stubTokens{"admin-token": {"u1", "admin"}, "worker-token": {"u2", "worker"}}
	r := newEngine()
	r.GET("/me", AuthMiddleware(tokens), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserIDKey)+"/"+c.GetString(ContextRoleKey))
	})

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", map[string]string{"Authorization": "Token admin-token"}).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer forged"}).Code)

	w := do(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer worker-token"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u2/worker", w.Body.String())
}

func TestRequireRole(t *testing.T) {
	tokens := stubTokens{"admin-token": {"u1", "admin"}, "worker-token": {"u2", "worker"}}
	r := newEngine()
	r.DELETE("/categories/:id", AuthMiddleware(tokens), RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := do(r, http.MethodDelete, "/categories/c1", map[string]string{"Authorization": "Bearer worker-token"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")

	w = do(r, http.MethodDelete, "/categories/c1", map[string]string{"Authorization": "Bearer admin-token"})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestIDValidator(t *testing.T) {
	r := newEngine()
	r.GET("/categories/:id/subcategories/:subId", IDValidator("id", "subId"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/categories/PLUMBING_CAT_001/subcategories/PLUMB_SUB_001", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/categories/7d8e1f2a-4b3c-4d5e-9f60-123456789abc/subcategories/x", nil).Code)

	w := do(r, http.MethodGet, "/categories/PLUMBING_CAT_001/subcategories/bad%20id", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "subId")
}

func TestRateLimitMiddleware(t *testing.T) {
	store, err := NewRateLimitStore(nil, "test")
	require.NoError(t, err)

	r := newEngine()
	r.GET("/workers", RateLimitMiddleware(store, 2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/workers", nil).Code)
	w := do(r, http.MethodGet, "/workers", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = do(r, http.MethodGet, "/workers", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "TOO_MANY_REQUESTS")
}

func TestErrorHandler_RecordedErrors(t *testing.T) {
	r := newEngine()
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("pq: relation does not exist"))
	})

	w := do(r, http.MethodGet, "/boom", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")
}
