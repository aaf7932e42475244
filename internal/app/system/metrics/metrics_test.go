package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/casadefe/internal/app/system/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := metrics.New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/casas/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/metrics", m.Handler().ServeHTTP)

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/casas/"+id, nil))
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	want := `casadefe_http_requests_total{method="GET",route="/casas/{id}",status="418"} 3`
	if !strings.Contains(string(body), want) {
		t.Errorf("metrics output missing %q", want)
	}
}

func TestDomainCounters(t *testing.T) {
	m := metrics.New()
	m.ReportsSubmitted.Inc()
	m.ReportsSubmitted.Inc()
	m.ExportsGenerated.WithLabelValues("csv").Inc()

	if got := testutil.ToFloat64(m.ReportsSubmitted); got != 2 {
		t.Errorf("ReportsSubmitted: got %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ExportsGenerated.WithLabelValues("csv")); got != 1 {
		t.Errorf("ExportsGenerated{csv}: got %v, want 1", got)
	}
}
