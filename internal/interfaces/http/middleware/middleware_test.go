package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrichain.backend/internal/domain/entities"
	domainerrors "agrichain.backend/internal/domain/errors"
	"agrichain.backend/pkg/logger"
	"agrichain.backend/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type resolverFunc func(ctx context.Context, token string) (*entities.Session, error)

func (f resolverFunc) ResolveSession(ctx context.Context, token string) (*entities.Session, error) {
	return f(ctx, token)
}

func TestRequestIDMiddleware(t *testing.T) {
	orig := newRequestID
	t.Cleanup(func() { newRequestID = orig })
	newRequestID = func() string { return "generated-id" }

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, logger.RequestIDFrom(c.Request.Context()))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, "generated-id", w.Body.String())
	assert.Equal(t, "generated-id", w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "client-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "client-id", w.Body.String())
}

func TestLoggerAndMetricsMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(LoggerMiddleware(), MetricsMiddleware())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/items/:id", "418"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/7?q=1", nil))
	require.Equal(t, http.StatusTeapot, w.Code)

	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/items/:id", "418"))
	assert.Equal(t, before+1, after)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.HTTPActiveRequests))
}

func TestSessionMiddleware(t *testing.T) {
	session := &entities.Session{ID: "s1", UserID: 5}
	resolver := resolverFunc(func(_ context.Context, token string) (*entities.Session, error) {
		switch token {
		case "good":
			return session, nil
		case "broken":
			return nil, context.DeadlineExceeded
		}
		return nil, domainerrors.Unauthenticated("Not authenticated")
	})

	r := gin.New()
	r.Use(SessionMiddleware(resolver))
	r.GET("/open", func(c *gin.Context) {
		_, ok := GetSession(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok, "userId": GetUserID(c)})
	})
	r.GET("/closed", RequireSession(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	cases := []struct {
		cookie     string
		openBody   string
		closedCode int
	}{
		{"", `{"authenticated":false,"userId":0}`, http.StatusUnauthorized},
		{"bad", `{"authenticated":false,"userId":0}`, http.StatusUnauthorized},
		{"broken", `{"authenticated":false,"userId":0}`, http.StatusUnauthorized},
		{"good", `{"authenticated":true,"userId":5}`, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run("cookie="+tc.cookie, func(t *testing.T) {
			for _, path := range []string{"/open", "/closed"} {
				req := httptest.NewRequest(http.MethodGet, path, nil)
				if tc.cookie != "" {
					req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tc.cookie})
				}
				w := httptest.NewRecorder()
				r.ServeHTTP(w, req)
				if path == "/open" {
					assert.JSONEq(t, tc.openBody, w.Body.String())
				} else {
					assert.Equal(t, tc.closedCode, w.Code)
				}
			}
		})
	}
}
