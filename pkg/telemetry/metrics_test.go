package telemetry

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tickworks/chrono/pkg/span"
)

func TestInitMetrics_RegistersAndCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := InitMetrics(reg)

	m.TicksEmitted.WithLabelValues("test").Add(3)
	m.TicksDropped.WithLabelValues("test").Inc()
	m.ClockReads.Inc()

	if got := testutil.ToFloat64(m.TicksEmitted.WithLabelValues("test")); got != 3 {
		t.Errorf("Expected 3 ticks emitted, got %v", got)
	}
	if got := testutil.ToFloat64(m.TicksDropped.WithLabelValues("test")); got != 1 {
		t.Errorf("Expected 1 tick dropped, got %v", got)
	}
	if got := testutil.ToFloat64(m.ClockReads); got != 1 {
		t.Errorf("Expected 1 clock read, got %v", got)
	}
}

func TestObserveJitter_UsesMagnitude(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := InitMetrics(reg)

	// Negative deviation is observed by magnitude
	m.ObserveJitter("jitter", span.FromDuration(-2*time.Millisecond))
	m.ObserveJitter("jitter", span.FromDuration(2*time.Millisecond))

	count := testutil.CollectAndCount(m.TickJitter)
	if count != 1 {
		t.Errorf("Expected one jitter series, got %d", count)
	}

	// A deviation too large for time.Duration is skipped, not panicked on
	m.ObserveJitter("jitter", span.Max)
}

func TestTimer_Elapsed(t *testing.T) {
	timer := NewTimer()
	time.Sleep(5 * time.Millisecond)

	elapsed := timer.Elapsed()
	if elapsed.Compare(span.FromDuration(5*time.Millisecond)) < 0 {
		t.Errorf("Expected at least 5ms, got %v", elapsed)
	}
}
