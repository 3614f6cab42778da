package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leanttro/leanttrotech/apperrors"
	"github.com/leanttro/leanttrotech/metrics"
	"github.com/leanttro/leanttrotech/session"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := session.NewMemoryStore(0)
	require.NoError(t, store.Save(context.Background(), session.Session{ID: "ok", Authenticated: true}))
	m := session.NewManager(store, "sid", false, 0)

	var lastErr error
	router := gin.New()
	router.Use(func(c *gin.Context) {
		lastErr = nil
		c.Next()
		if len(c.Errors) > 0 {
			lastErr = c.Errors.Last().Err
		}
	})
	router.Use(m.Middleware())
	router.Any("/admin", RequireAdmin("/admin/login"), func(c *gin.Context) {
		c.String(http.StatusOK, "panel")
	})

	methods := []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}
	for _, method := range methods {
		t.Run(method+" anonymous", func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(method, "/admin", nil))
			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, "/admin/login", w.Header().Get("Location"))
			assert.ErrorIs(t, lastErr, apperrors.ErrUnauthorized)
		})

		t.Run(method+" authenticated", func(t *testing.T) {
			req := httptest.NewRequest(method, "/admin", nil)
			req.AddCookie(&http.Cookie{Name: "sid", Value: "ok"})
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.NoError(t, lastErr)
		})
	}
}

func TestLoginRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := gin.New()
	router.POST("/login", LoginRateLimit(ctx, 2), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	before := testutil.ToFloat64(metrics.AdminLoginsTotal.WithLabelValues("throttled"))
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.AdminLoginsTotal.WithLabelValues("throttled")))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiterSweep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rl := NewRateLimiter(ctx, rate.Every(time.Second), 1, time.Hour)

	rl.GetLimiter("1.1.1.1")
	rl.sweep(time.Now().Add(2 * time.Hour))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.ips)
}

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SecurityHeaders())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/admin", NoStore(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, w.Header().Get("Cache-Control"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Metrics())
	router.GET("/produto/:slug", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/produto/:slug", "404")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/produto/abc", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
