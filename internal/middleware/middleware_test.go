package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/JonnyWalker81/energylog/backend/internal/logger"
	"github.com/JonnyWalker81/energylog/backend/internal/models"
	"github.com/JonnyWalker81/energylog/backend/pkg/supabase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerifier struct {
	users map[string]*supabase.User
}

func (s *stubVerifier) VerifyToken(ctx context.Context, token string) (*supabase.User, error) {
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, errors.New("invalid token")
}

func TestAuth(t *testing.T) {
	verifier := &stubVerifier{users: map[string]*supabase.User{
		"good": {ID: "user-1", Email: "a@example.com"},
	}}

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", wantStatus: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "rejected token", header: "Bearer bad", wantStatus: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer good", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(Auth(verifier))
			r.GET("/me", func(c *gin.Context) {
				assert.Equal(t, "user-1", c.GetString("user_id"))
				assert.Equal(t, "user-1", logger.UserIDFromContext(c.Request.Context()))
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Contains(t, w.Header().Get("Content-Type"), "application/problem+json")
			}
		})
	}
}

func TestLogger_AssignsRequestIDAndLogs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := logger.NewZapLoggerFrom(zap.New(core), logger.LevelInfo)

	r := gin.New()
	r.Use(Logger(base))
	r.GET("/ok", func(c *gin.Context) {
		logger.Ctx(c.Request.Context()).Info("inside handler")
		c.Status(http.StatusOK)
	})
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	t.Run("propagates incoming request id", func(t *testing.T) {
		logs.TakeAll()
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))

		entries := logs.FilterMessage("inside handler").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])

		completed := logs.FilterMessage("request completed").All()
		require.Len(t, completed, 1)
		assert.Equal(t, zap.InfoLevel, completed[0].Level)
		assert.Equal(t, int64(http.StatusOK), completed[0].ContextMap()["status"])
		assert.Equal(t, "/ok", completed[0].ContextMap()["path"])
	})

	t.Run("generates request id and warns on 4xx", func(t *testing.T) {
		logs.TakeAll()
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

		completed := logs.FilterMessage("request completed").All()
		require.Len(t, completed, 1)
		assert.Equal(t, zap.WarnLevel, completed[0].Level)
	})
}

func TestSecurityHeaders(t *testing.T) {
	for _, production := range []bool{false, true} {
		r := gin.New()
		r.Use(SecurityHeaders(production))
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
		assert.Equal(t, production, w.Header().Get("Strict-Transport-Security") != "")
	}
}

type memoryIdempotencyRepo struct {
	mu      sync.Mutex
	records map[string]*models.IdempotencyKey
	getErr  error
	stores  int
}

func newMemoryIdempotencyRepo() *memoryIdempotencyRepo {
	return &memoryIdempotencyRepo{records: make(map[string]*models.IdempotencyKey)}
}

func (m *memoryIdempotencyRepo) Get(ctx context.Context, key, route, userID string) (*models.IdempotencyKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.records[userID+"|"+route+"|"+key], nil
}

func (m *memoryIdempotencyRepo) Store(ctx context.Context, key, route, userID string, body []byte, status int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stores++
	m.records[userID+"|"+route+"|"+key] = &models.IdempotencyKey{
		Key:          key,
		Route:        route,
		UserID:       userID,
		ResponseBody: append(json.RawMessage(nil), body...),
		StatusCode:   status,
	}
	return nil
}

func idempotencyRouter(repo *memoryIdempotencyRepo, calls *int, status int) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			c.Set("user_id", uid)
		}
		c.Next()
	})
	r.Use(Idempotency(repo))
	r.POST("/energy-logs", func(c *gin.Context) {
		*calls++
		c.JSON(status, gin.H{"call": *calls})
	})
	return r
}

func postEnergyLog(r *gin.Engine, key, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/energy-logs", strings.NewReader(`{"level":3}`))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency_ReplaysSuccessfulAppend(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	calls := 0
	r := idempotencyRouter(repo, &calls, http.StatusCreated)

	first := postEnergyLog(r, "k1", "user-1")
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Empty(t, first.Header().Get(IdempotencyReplayedHeader))

	second := postEnergyLog(r, "k1", "user-1")
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(IdempotencyReplayedHeader))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)

	// Keys are scoped per user
	other := postEnergyLog(r, "k1", "user-2")
	assert.Empty(t, other.Header().Get(IdempotencyReplayedHeader))
	assert.Equal(t, 2, calls)
}

func TestIdempotency_PassThrough(t *testing.T) {
	t.Run("no key", func(t *testing.T) {
		repo := newMemoryIdempotencyRepo()
		calls := 0
		r := idempotencyRouter(repo, &calls, http.StatusCreated)

		postEnergyLog(r, "", "user-1")
		postEnergyLog(r, "", "user-1")
		assert.Equal(t, 2, calls)
		assert.Zero(t, repo.stores)
	})

	t.Run("failed responses are not stored", func(t *testing.T) {
		repo := newMemoryIdempotencyRepo()
		calls := 0
		r := idempotencyRouter(repo, &calls, http.StatusBadRequest)

		postEnergyLog(r, "k1", "user-1")
		postEnergyLog(r, "k1", "user-1")
		assert.Equal(t, 2, calls)
		assert.Zero(t, repo.stores)
	})

	t.Run("lookup error proceeds", func(t *testing.T) {
		repo := newMemoryIdempotencyRepo()
		repo.getErr = errors.New("db down")
		calls := 0
		r := idempotencyRouter(repo, &calls, http.StatusCreated)

		w := postEnergyLog(r, "k1", "user-1")
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
	})
}

func TestIdempotency_Rejections(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	calls := 0
	r := idempotencyRouter(repo, &calls, http.StatusCreated)

	assert.Equal(t, http.StatusUnauthorized, postEnergyLog(r, "k1", "").Code)
	assert.Equal(t, http.StatusBadRequest, postEnergyLog(r, strings.Repeat("k", 256), "user-1").Code)
	assert.Zero(t, calls)
}
