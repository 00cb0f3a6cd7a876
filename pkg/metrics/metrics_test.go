package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JaimeStill/elp-audit/pkg/metrics"
)

func TestMetrics_AuditsTotal(t *testing.T) {
	m := metrics.New()
	m.AuditsTotal.WithLabelValues("es", metrics.OutcomeSuccess).Inc()
	m.AuditsTotal.WithLabelValues("es", metrics.OutcomeSuccess).Inc()
	m.AuditsTotal.WithLabelValues("eu", metrics.OutcomeFailed).Inc()

	if got := testutil.ToFloat64(m.AuditsTotal.WithLabelValues("es", metrics.OutcomeSuccess)); got != 2 {
		t.Errorf("es success = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.AuditsTotal.WithLabelValues("eu", metrics.OutcomeFailed)); got != 1 {
		t.Errorf("eu failed = %v, want 1", got)
	}
}

func TestMetrics_InstancesIndependent(t *testing.T) {
	a, b := metrics.New(), metrics.New()
	a.AuditsTotal.WithLabelValues("es", metrics.OutcomeSuccess).Inc()

	if got := testutil.ToFloat64(b.AuditsTotal.WithLabelValues("es", metrics.OutcomeSuccess)); got != 0 {
		t.Errorf("second registry saw %v, want 0", got)
	}
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.ObserveStage("extracting", time.Now().Add(-time.Second))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `elpaudit_stage_duration_seconds_count{stage="extracting"} 1`) {
		t.Error("stage histogram missing from exposition")
	}
}

func TestMetrics_Middleware(t *testing.T) {
	m := metrics.New()
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x", nil))

	if n := testutil.CollectAndCount(m.RequestDuration); n != 1 {
		t.Fatalf("series = %d, want 1", n)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `method="POST",status="418"`) {
		t.Error("request duration not labeled with method and status")
	}
}
