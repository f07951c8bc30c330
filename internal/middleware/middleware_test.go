package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func echoIdentity(c *gin.Context) {
	id, ok := CurrentIdentity(c)
	c.JSON(http.StatusOK, gin.H{"authenticated": ok, "user_id": id.UserID, "email": id.Email})
}

func request(t *testing.T, h http.Handler, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func bearer(t *testing.T, secret string, ttl time.Duration) string {
	t.Helper()
	tok, err := utils.GenerateJWT(models.Identity{UserID: "user-1", Email: "alice@example.com"}, secret, ttl)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestAuthRequired(t *testing.T) {
	r := gin.New()
	r.GET("/", AuthRequired(testSecret), echoIdentity)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"sans header", "", http.StatusUnauthorized},
		{"format invalide", "Token abc", http.StatusUnauthorized},
		{"mauvaise signature", bearer(t, "other", time.Hour), http.StatusUnauthorized},
		{"expiré", bearer(t, testSecret, -time.Minute), http.StatusUnauthorized},
		{"valide", bearer(t, testSecret, time.Hour), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := request(t, r, tt.header)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w := request(t, r, bearer(t, testSecret, time.Hour))
	assert.JSONEq(t, `{"authenticated":true,"user_id":"user-1","email":"alice@example.com"}`, w.Body.String())
}

type memCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func (m *memCounter) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	if m.counts == nil {
		m.counts = map[string]int64{}
	}
	m.counts[key]++
	return m.counts[key], nil
}

func TestCheckoutRateLimit(t *testing.T) {
	counter := &memCounter{}
	limit := CheckoutRateLimit(counter, 2)
	user := gin.New()
	user.GET("/", AuthRequired(testSecret), limit, echoIdentity)
	guest := gin.New()
	guest.GET("/", limit, echoIdentity)

	tok := bearer(t, testSecret, time.Hour)
	assert.Equal(t, http.StatusOK, request(t, user, tok).Code)
	assert.Equal(t, http.StatusOK, request(t, user, tok).Code)
	w := request(t, user, tok)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "retry_after")

	// les invités sont comptés par IP, séparément
	assert.Equal(t, http.StatusOK, request(t, guest, "").Code)
	assert.Equal(t, int64(3), counter.counts["checkout_requests:user-1"])
}

func TestCheckoutRateLimit_FailsOpen(t *testing.T) {
	r := gin.New()
	r.GET("/", CheckoutRateLimit(&memCounter{err: errors.New("redis down")}, 1), echoIdentity)

	assert.Equal(t, http.StatusOK, request(t, r, "").Code)
	assert.Equal(t, http.StatusOK, request(t, r, "").Code)
}
