package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MosaicCollector bundles Prometheus metrics for mosaic construction
// and implements the skyline builder's observer interface.
type MosaicCollector struct {
	gatherer prometheus.Gatherer

	MergesTotal     prometheus.Counter
	ExcludedTotal   prometheus.Counter
	OverlapDuration prometheus.Histogram
	MosaicMembers   prometheus.Gauge
}

// NewMosaicCollector registers mosaic Prometheus metrics against the
// provided registerer, defaulting to the global Prometheus registry
// when nil.
func NewMosaicCollector(reg prometheus.Registerer) (*MosaicCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	merges, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mosaic_merges_total",
		Help: "Cumulative number of footprints merged into mosaics.",
	}), "mosaic_merges_total")
	if err != nil {
		return nil, err
	}

	excluded, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mosaic_excluded_total",
		Help: "Cumulative number of footprints excluded from mosaics for lack of overlap or degenerate geometry.",
	}), "mosaic_excluded_total")
	if err != nil {
		return nil, err
	}

	overlap, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "mosaic_overlap_duration_seconds",
		Help:    "Duration of pairwise overlap evaluations during mosaic construction.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}), "mosaic_overlap_duration_seconds")
	if err != nil {
		return nil, err
	}

	members, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mosaic_members",
		Help: "Number of members in the mosaic currently being built.",
	}), "mosaic_members")
	if err != nil {
		return nil, err
	}

	return &MosaicCollector{
		gatherer:        gatherer,
		MergesTotal:     merges,
		ExcludedTotal:   excluded,
		OverlapDuration: overlap,
		MosaicMembers:   members,
	}, nil
}

// MergePerformed counts a successful merge into the mosaic.
func (c *MosaicCollector) MergePerformed() {
	if c == nil || c.MergesTotal == nil {
		return
	}
	c.MergesTotal.Inc()
}

// CandidateExcluded counts a footprint left out of the mosaic.
func (c *MosaicCollector) CandidateExcluded() {
	if c == nil || c.ExcludedTotal == nil {
		return
	}
	c.ExcludedTotal.Inc()
}

// OverlapEvaluated records the duration of one overlap computation.
func (c *MosaicCollector) OverlapEvaluated(d time.Duration) {
	if c == nil || c.OverlapDuration == nil {
		return
	}
	c.OverlapDuration.Observe(d.Seconds())
}

// SetMosaicMembers updates the member-count gauge.
func (c *MosaicCollector) SetMosaicMembers(n int) {
	if c == nil || c.MosaicMembers == nil {
		return
	}
	c.MosaicMembers.Set(float64(n))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *MosaicCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
