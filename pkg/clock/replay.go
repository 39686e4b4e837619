package clock

import (
	"sync"
	"time"

	"github.com/tickworks/chrono/pkg/mono"
	"github.com/tickworks/chrono/pkg/span"
)

// ReplayClock is a Clock that steps through a pre-loaded sequence of
// spans, optionally pacing itself against real time. It gives tests and
// recorded-session playback a deterministic timeline.
type ReplayClock struct {
	mu sync.RWMutex

	start   mono.Instant // Anchor instant for Reset
	deltas  []span.Span  // Pre-loaded steps
	current mono.Instant // Current position on the timeline
	index   int          // Next delta to apply
	speed   float64      // Playback speed multiplier
	noSleep bool         // If true, skip real-time pacing
}

// NewReplayClock creates a ReplayClock anchored at the current monotonic
// instant with no deltas loaded.
func NewReplayClock() *ReplayClock {
	now := mono.Now()
	return &ReplayClock{
		start:   now,
		current: now,
		speed:   1.0,
	}
}

// Load re-anchors the clock at the given instant and installs the delta
// sequence. Negative deltas are legal; the timeline they produce is the
// caller's responsibility.
func (r *ReplayClock) Load(start mono.Instant, deltas []span.Span) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.start = start
	r.current = start
	r.deltas = make([]span.Span, len(deltas))
	copy(r.deltas, deltas)
	r.index = 0
}

// Now returns the current position on the replay timeline.
func (r *ReplayClock) Now() mono.Instant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Since returns the span elapsed on the replay timeline since i.
func (r *ReplayClock) Since(i mono.Instant) span.Span {
	return r.Now().Diff(i)
}

// Advance applies the next delta. Unless noSleep is set it also sleeps
// the corresponding real-time amount scaled by the speed multiplier.
func (r *ReplayClock) Advance() {
	r.mu.Lock()

	if r.index >= len(r.deltas) {
		r.mu.Unlock()
		return
	}

	delta := r.deltas[r.index]
	r.index++

	var sleep time.Duration
	if !r.noSleep && r.speed > 0 && delta.IsPositive() {
		if d, ok := delta.Duration(); ok {
			sleep = time.Duration(float64(d) / r.speed)
		}
	}

	r.current = r.current.Add(delta)
	r.mu.Unlock()

	// Sleep outside the lock
	if sleep > 0 {
		time.Sleep(sleep)
	}
}

// AdvanceAll applies every remaining delta.
func (r *ReplayClock) AdvanceAll() {
	for r.HasNext() {
		r.Advance()
	}
}

// SetSpeed sets the playback speed multiplier (1.0 = real time).
func (r *ReplayClock) SetSpeed(mult float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if mult < 0 {
		mult = 1.0
	}
	r.speed = mult
}

// SetNoSleep enables or disables real-time pacing.
func (r *ReplayClock) SetNoSleep(noSleep bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.noSleep = noSleep
}

// Reset rewinds the timeline to the anchor instant.
func (r *ReplayClock) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = r.start
	r.index = 0
}

// HasNext reports whether deltas remain.
func (r *ReplayClock) HasNext() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.index < len(r.deltas)
}

// CurrentIndex returns the position in the delta sequence.
func (r *ReplayClock) CurrentIndex() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.index
}

// RemainingDeltas returns the number of deltas not yet applied.
func (r *ReplayClock) RemainingDeltas() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.deltas) - r.index
}

// TotalDeltas returns the number of deltas loaded.
func (r *ReplayClock) TotalDeltas() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.deltas)
}
