package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestMosaicCollectorCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewMosaicCollector(reg)
	if err != nil {
		t.Fatalf("NewMosaicCollector: %v", err)
	}

	collector.MergePerformed()
	collector.MergePerformed()
	collector.CandidateExcluded()
	collector.SetMosaicMembers(3)
	collector.OverlapEvaluated(15 * time.Millisecond)

	if got := testutil.ToFloat64(collector.MergesTotal); got != 2 {
		t.Fatalf("mosaic_merges_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.ExcludedTotal); got != 1 {
		t.Fatalf("mosaic_excluded_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.MosaicMembers); got != 3 {
		t.Fatalf("mosaic_members = %v, want 3", got)
	}
	if count := histogramSampleCount(t, reg, "mosaic_overlap_duration_seconds"); count != 1 {
		t.Fatalf("mosaic_overlap_duration_seconds sample_count = %d, want 1", count)
	}
}

func TestMosaicCollectorDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewMosaicCollector(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	// Registering again against the same registry must reuse the
	// existing collectors rather than failing.
	if _, err := NewMosaicCollector(reg); err != nil {
		t.Fatalf("second registration: %v", err)
	}
}

func TestMetricsHandlerServesMosaicMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewMosaicCollector(reg)
	if err != nil {
		t.Fatalf("NewMosaicCollector: %v", err)
	}
	collector.MergePerformed()
	collector.SetMosaicMembers(5)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"mosaic_merges_total",
		"mosaic_excluded_total",
		"mosaic_overlap_duration_seconds",
		"mosaic_members",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output", metric)
		}
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *MosaicCollector
	c.MergePerformed()
	c.CandidateExcluded()
	c.OverlapEvaluated(time.Second)
	c.SetMosaicMembers(1)
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string) uint64 {
	t.Helper()

	var families []*dto.MetricFamily
	families, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if h := m.GetHistogram(); h != nil {
				return h.GetSampleCount()
			}
		}
	}
	return 0
}
