package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/products", "200"))
	RecordHTTPRequest("GET", "/api/products", 200, 15*time.Millisecond)
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/products", "200"))
	assert.Equal(t, before+1, after)

	RecordHTTPRequest("GET", "", 404, time.Millisecond)
	assert.GreaterOrEqual(t, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")), 1.0)
}

func TestRecordCacheAuthAndJobs(t *testing.T) {
	hits := testutil.ToFloat64(CacheHits.WithLabelValues("product"))
	misses := testutil.ToFloat64(CacheMisses.WithLabelValues("product"))
	RecordCache("product", true)
	RecordCache("product", false)
	assert.Equal(t, hits+1, testutil.ToFloat64(CacheHits.WithLabelValues("product")))
	assert.Equal(t, misses+1, testutil.ToFloat64(CacheMisses.WithLabelValues("product")))

	fail := testutil.ToFloat64(AuthEvents.WithLabelValues("login", "failure"))
	RecordAuth("login", errors.New("bad password"))
	assert.Equal(t, fail+1, testutil.ToFloat64(AuthEvents.WithLabelValues("login", "failure")))

	ok := testutil.ToFloat64(JobRuns.WithLabelValues("session_prune", "success"))
	RecordJob("session_prune", nil)
	assert.Equal(t, ok+1, testutil.ToFloat64(JobRuns.WithLabelValues("session_prune", "success")))
}

func TestHandler_ExposesRegistry(t *testing.T) {
	RecordHTTPRequest("POST", "/api/auth/login", 401, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "agrichain_http_requests_total")
	assert.Contains(t, string(body), "go_goroutines")
}
