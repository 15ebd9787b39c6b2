package telemetry

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector captures telemetry events emitted by design sessions.
//
// Implementations may forward metrics to Prometheus, loggers or other
// monitoring systems. They should be inexpensive to call because hooks are
// executed inline with every toggle and layout rebuild.
type Collector interface {
	IncToggle(field, outcome string)
	IncCascadeReset(field string)
	ObserveLayoutBuild(entryID string, elapsed time.Duration)
	SetCapacity(megawatts float64)
	IncHotReload(file string)
}

// Toggle outcomes.
const (
	OutcomeSet      = "set"
	OutcomeCleared  = "cleared"
	OutcomeRejected = "rejected"
)

type noopCollector struct{}

// Noop returns a collector that discards all metrics.
func Noop() Collector {
	return noopCollector{}
}

func (noopCollector) IncToggle(string, string)                 {}
func (noopCollector) IncCascadeReset(string)                   {}
func (noopCollector) ObserveLayoutBuild(string, time.Duration) {}
func (noopCollector) SetCapacity(float64)                      {}
func (noopCollector) IncHotReload(string)                      {}

// PrometheusCollector exposes telemetry counters via Prometheus.
type PrometheusCollector struct {
	toggles       *prometheus.CounterVec
	cascades      *prometheus.CounterVec
	layoutBuilds  *prometheus.CounterVec
	buildDuration prometheus.Histogram
	capacity      prometheus.Gauge
	hotReloads    *prometheus.CounterVec
}

// NewPrometheusCollector registers the required metrics with the provided
// registerer. Metrics already registered by an earlier collector are reused.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	toggles, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ebos_selection_toggles_total",
		Help: "Number of selection toggles per field and outcome.",
	}, []string{"field", "outcome"}))
	if err != nil {
		return nil, err
	}
	cascades, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ebos_selection_cascade_resets_total",
		Help: "Number of downstream fields cleared by forward cascade resets.",
	}, []string{"field"}))
	if err != nil {
		return nil, err
	}
	builds, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ebos_layout_builds_total",
		Help: "Number of layouts built per catalog entry.",
	}, []string{"entry"}))
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ebos_layout_build_duration_seconds",
		Help:    "Time spent building a layout.",
		Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
	}))
	if err != nil {
		return nil, err
	}
	capacity, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ebos_layout_capacity_megawatts",
		Help: "DC capacity of the most recently built layout.",
	}))
	if err != nil {
		return nil, err
	}
	reloads, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ebos_config_hot_reload_total",
		Help: "Number of hot reload operations triggered per site file.",
	}, []string{"file"}))
	if err != nil {
		return nil, err
	}
	return &PrometheusCollector{
		toggles:       toggles,
		cascades:      cascades,
		layoutBuilds:  builds,
		buildDuration: duration,
		capacity:      capacity,
		hotReloads:    reloads,
	}, nil
}

// register adds c to reg or returns the collector that already occupies its
// descriptor.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(T); ok {
			return existing, nil
		}
	}
	var zero T
	return zero, err
}

// IncToggle counts one toggle of field with the given outcome.
func (p *PrometheusCollector) IncToggle(field, outcome string) {
	if p == nil || p.toggles == nil {
		return
	}
	p.toggles.WithLabelValues(field, outcome).Inc()
}

// IncCascadeReset counts one field cleared by a cascade.
func (p *PrometheusCollector) IncCascadeReset(field string) {
	if p == nil || p.cascades == nil {
		return
	}
	p.cascades.WithLabelValues(field).Inc()
}

// ObserveLayoutBuild records a completed layout build.
func (p *PrometheusCollector) ObserveLayoutBuild(entryID string, elapsed time.Duration) {
	if p == nil || p.layoutBuilds == nil {
		return
	}
	p.layoutBuilds.WithLabelValues(entryID).Inc()
	if p.buildDuration != nil {
		p.buildDuration.Observe(elapsed.Seconds())
	}
}

// SetCapacity updates the capacity gauge.
func (p *PrometheusCollector) SetCapacity(megawatts float64) {
	if p == nil || p.capacity == nil {
		return
	}
	p.capacity.Set(megawatts)
}

// IncHotReload increments the counter for the provided file path.
func (p *PrometheusCollector) IncHotReload(file string) {
	if p == nil || p.hotReloads == nil {
		return
	}
	p.hotReloads.WithLabelValues(file).Inc()
}
