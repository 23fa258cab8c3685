package metrics

import (
	"context"
	"math"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/pkg/errors"
)

// Metrics holds detector counters. Fields are updated by the detector loop
// and read by Prometheus collectors and the UI.
type Metrics struct {
	// Tick counters
	Ticks         atomic.Uint64
	CaptureErrors atomic.Uint64
	ScoreErrors   atomic.Uint64
	Panics        atomic.Uint64

	// State machine counters
	Edges              atomic.Uint64
	SuccessEvents      atomic.Uint64
	FailEvents         atomic.Uint64
	SuppressedMode     atomic.Uint64
	SuppressedCooldown atomic.Uint64
	NotifyErrors       atomic.Uint64

	// Current state
	Running  atomic.Uint64 // 0 = stopped, 1 = running
	InResult atomic.Uint64 // 0 = idle, 1 = in result screen

	// Latest tick
	TickLatencyUs atomic.Uint64
	successScore  atomic.Uint64 // float64 bits
	failScore     atomic.Uint64 // float64 bits

	registry *prometheus.Registry
}

// New creates a Metrics instance with its own Prometheus registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	m.registerPrometheusMetrics()
	return m
}

func (m *Metrics) registerPrometheusMetrics() {
	counters := []struct {
		name, help string
		v          *atomic.Uint64
	}{
		{"resultwatch_ticks_total", "Detection ticks executed", &m.Ticks},
		{"resultwatch_capture_errors_total", "Ticks skipped because capture failed", &m.CaptureErrors},
		{"resultwatch_score_errors_total", "Ticks skipped because scoring failed", &m.ScoreErrors},
		{"resultwatch_tick_panics_total", "Ticks that panicked and were recovered", &m.Panics},
		{"resultwatch_edges_total", "Transitions into a result screen", &m.Edges},
		{"resultwatch_success_events_total", "Success notifications emitted", &m.SuccessEvents},
		{"resultwatch_fail_events_total", "Fail notifications emitted", &m.FailEvents},
		{"resultwatch_suppressed_mode_total", "Edges suppressed by the notify mode", &m.SuppressedMode},
		{"resultwatch_suppressed_cooldown_total", "Edges suppressed by the cooldown", &m.SuppressedCooldown},
		{"resultwatch_notify_errors_total", "Notifier failures", &m.NotifyErrors},
	}
	for _, c := range counters {
		v := c.v
		m.registry.MustRegister(prometheus.NewCounterFunc(
			prometheus.CounterOpts{Name: c.name, Help: c.help},
			func() float64 { return float64(v.Load()) },
		))
	}

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "resultwatch_running",
			Help: "Detector running (0=stopped, 1=running)",
		},
		func() float64 { return float64(m.Running.Load()) },
	))
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "resultwatch_in_result",
			Help: "Result screen currently shown (0=idle, 1=in result)",
		},
		func() float64 { return float64(m.InResult.Load()) },
	))
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "resultwatch_tick_latency_seconds",
			Help: "Duration of the latest detection tick",
		},
		func() float64 { return float64(m.TickLatencyUs.Load()) / 1e6 },
	))
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name:        "resultwatch_score",
			Help:        "Latest similarity score per template",
			ConstLabels: prometheus.Labels{"template": "success"},
		},
		func() float64 { s, _ := m.Scores(); return s },
	))
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name:        "resultwatch_score",
			Help:        "Latest similarity score per template",
			ConstLabels: prometheus.Labels{"template": "fail"},
		},
		func() float64 { _, f := m.Scores(); return f },
	))
}

// ObserveTick records the latest scores and tick duration.
func (m *Metrics) ObserveTick(success, fail float64, d time.Duration) {
	m.Ticks.Add(1)
	m.successScore.Store(math.Float64bits(success))
	m.failScore.Store(math.Float64bits(fail))
	m.TickLatencyUs.Store(uint64(d.Microseconds()))
}

// Scores returns the latest success and fail scores.
func (m *Metrics) Scores() (success, fail float64) {
	return math.Float64frombits(m.successScore.Load()), math.Float64frombits(m.failScore.Load())
}

// SetRunning records the detector run state.
func (m *Metrics) SetRunning(on bool) { m.Running.Store(b2u(on)) }

// SetInResult records the machine state.
func (m *Metrics) SetInResult(on bool) { m.InResult.Store(b2u(on)) }

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler returns the Prometheus HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrapf(err, "metrics: listen %s", addr)
	}
	return nil
}
