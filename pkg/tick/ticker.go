package tick

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tickworks/chrono/pkg/clock"
	"github.com/tickworks/chrono/pkg/mono"
	"github.com/tickworks/chrono/pkg/span"
	"github.com/tickworks/chrono/pkg/telemetry"
	"github.com/tickworks/chrono/pkg/walltime"
)

// Common errors returned by tickers
var (
	ErrIntervalNotPositive = errors.New("tick: interval must be positive")
	ErrIntervalTooLarge    = errors.New("tick: interval exceeds time.Duration range")
	ErrAlreadyStarted      = errors.New("tick: ticker already started")
)

// Ticker emits a Tick on a channel at a fixed interval. Stamps come from
// the injected clock.Clock; pacing uses the process timer. A slow
// consumer never blocks the ticker: ticks that cannot be delivered are
// dropped and counted.
type Ticker struct {
	stream   string
	interval time.Duration
	clk      clock.Clock
	metrics  *telemetry.Metrics

	mu      sync.Mutex
	started bool
	out     chan Tick
	done    chan struct{}
}

// Option configures a Ticker.
type Option func(*Ticker)

// WithClock substitutes the clock used for tick stamps. Defaults to the
// system clock.
func WithClock(c clock.Clock) Option {
	return func(t *Ticker) { t.clk = c }
}

// WithMetrics attaches a telemetry instance. Defaults to telemetry.Default.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(t *Ticker) { t.metrics = m }
}

// WithBuffer sets the delivery channel capacity. Defaults to 16.
func WithBuffer(n int) Option {
	return func(t *Ticker) {
		if n > 0 {
			t.out = make(chan Tick, n)
		}
	}
}

// NewTicker creates a ticker for the named stream. The interval must be
// positive and representable as a time.Duration.
func NewTicker(stream string, interval span.Span, opts ...Option) (*Ticker, error) {
	if !interval.IsPositive() {
		return nil, ErrIntervalNotPositive
	}
	d, ok := interval.Duration()
	if !ok {
		return nil, ErrIntervalTooLarge
	}

	t := &Ticker{
		stream:   stream,
		interval: d,
		clk:      clock.NewSystemClock(),
		metrics:  telemetry.Default(),
		out:      make(chan Tick, 16),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// C returns the delivery channel. It is closed once the ticker stops.
func (t *Ticker) C() <-chan Tick {
	return t.out
}

// Start launches the emission loop. It returns immediately; the loop
// runs until the context is canceled. Start may be called once.
func (t *Ticker) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		return ErrAlreadyStarted
	}
	t.started = true
	t.mu.Unlock()

	go t.run(ctx)
	return nil
}

// Done returns a channel closed when the emission loop has exited.
func (t *Ticker) Done() <-chan struct{} {
	return t.done
}

func (t *Ticker) run(ctx context.Context) {
	defer close(t.done)
	defer close(t.out)

	timer := time.NewTicker(t.interval)
	defer timer.Stop()

	var (
		seq      uint64
		prevAt   mono.Instant
		prevWall walltime.Time
	)

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			at := t.clk.Now()
			wall := walltime.FromStd(time.Now())
			t.metrics.ClockReads.Inc()

			var (
				delta span.Span
				shift = walltime.ShiftNone
			)
			if seq > 0 {
				delta = at.Diff(prevAt)
				// The stream only moves forward, so a wall stamp that
				// reads earlier than its predecessor means midnight
				// passed between the two ticks.
				if wall.Compare(prevWall) < 0 {
					shift = walltime.ShiftNextDay
				}
				t.metrics.ObserveJitter(t.stream, delta.Add(span.FromDuration(t.interval).Neg()))
			}

			tk := newTick(t.stream, seq, at, wall, shift, delta)
			select {
			case t.out <- tk:
				t.metrics.TicksEmitted.WithLabelValues(t.stream).Inc()
			default:
				t.metrics.TicksDropped.WithLabelValues(t.stream).Inc()
			}

			seq++
			prevAt = at
			prevWall = wall
		}
	}
}
