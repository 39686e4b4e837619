// Package telemetry exposes Prometheus metrics for tick streams and
// clock reads.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tickworks/chrono/pkg/mono"
	"github.com/tickworks/chrono/pkg/span"
)

// Metrics holds all Prometheus metrics for chrono.
type Metrics struct {
	// Tick Stream Metrics
	TicksEmitted *prometheus.CounterVec
	TicksDropped *prometheus.CounterVec
	TickJitter   *prometheus.HistogramVec

	// Clock Metrics
	ClockReads   prometheus.Counter
	ReadDuration prometheus.Histogram
}

var defaultMetrics *Metrics

// InitMetrics initializes the Prometheus metrics.
// This should be called once at startup before any metrics are recorded.
func InitMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	// Buckets for jitter around a tick interval: 1µs through 100ms
	jitterBuckets := []float64{
		0.000001, // 1µs
		0.000005, // 5µs
		0.00001,  // 10µs
		0.00005,  // 50µs
		0.0001,   // 100µs
		0.0005,   // 500µs
		0.001,    // 1ms
		0.005,    // 5ms
		0.01,     // 10ms
		0.05,     // 50ms
		0.1,      // 100ms
	}

	m := &Metrics{
		TicksEmitted: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "chrono_ticks_emitted_total",
				Help: "Total number of ticks emitted per stream",
			},
			[]string{"stream"},
		),

		TicksDropped: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "chrono_ticks_dropped_total",
				Help: "Total number of ticks dropped because the subscriber lagged",
			},
			[]string{"stream"},
		),

		TickJitter: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chrono_tick_jitter_seconds",
				Help:    "Absolute deviation of tick emission from the configured interval",
				Buckets: jitterBuckets,
			},
			[]string{"stream"},
		),

		ClockReads: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "chrono_clock_reads_total",
				Help: "Total number of monotonic clock samples taken",
			},
		),

		ReadDuration: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chrono_clock_read_duration_seconds",
				Help:    "Time taken to sample the monotonic clock",
				Buckets: jitterBuckets,
			},
		),
	}

	defaultMetrics = m
	return m
}

// Default returns the default metrics instance.
// If InitMetrics hasn't been called, it will initialize with the default registry.
func Default() *Metrics {
	if defaultMetrics == nil {
		return InitMetrics(nil)
	}
	return defaultMetrics
}

// ObserveJitter records the absolute deviation of a tick from its
// configured interval.
func (m *Metrics) ObserveJitter(stream string, deviation span.Span) {
	d, ok := deviation.Abs().Duration()
	if !ok {
		return
	}
	m.TickJitter.WithLabelValues(stream).Observe(d.Seconds())
}

// Timer measures an operation against the monotonic clock.
type Timer struct {
	start mono.Instant
}

// NewTimer creates a timer starting now.
func NewTimer() *Timer {
	return &Timer{start: mono.Now()}
}

// Observe records the elapsed time in seconds to the given histogram.
func (t *Timer) Observe(histogram prometheus.Observer) {
	if d, ok := t.start.Elapsed().Duration(); ok {
		histogram.Observe(d.Seconds())
	}
}

// Elapsed returns the span since the timer started.
func (t *Timer) Elapsed() span.Span {
	return t.start.Elapsed()
}
