package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusClass(t *testing.T) {
	tests := map[int]string{200: "2xx", 201: "2xx", 302: "3xx", 400: "4xx", 404: "4xx", 500: "5xx", 503: "5xx"}
	for status, want := range tests {
		assert.Equal(t, want, StatusClass(status), status)
	}
}

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.PostViews.Inc()
	a.Reactions.WithLabelValues("love").Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(a.PostViews))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.PostViews))
	assert.Equal(t, float64(1), testutil.ToFloat64(a.Reactions.WithLabelValues("love")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Requests.WithLabelValues("/", "2xx").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `blog_http_requests_total{route="/",status="2xx"} 1`)
}
