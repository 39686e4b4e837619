// Package clock abstracts the monotonic clock source so timing consumers
// can swap the real clock for a deterministic one in tests and replays.
package clock

import (
	"github.com/tickworks/chrono/pkg/mono"
	"github.com/tickworks/chrono/pkg/span"
)

// Clock provides monotonic time readings. All interval and ordering
// decisions in this module go through a Clock rather than calling the
// platform directly.
type Clock interface {
	// Now returns the current monotonic instant
	Now() mono.Instant

	// Since returns the signed span elapsed since the given instant
	Since(i mono.Instant) span.Span
}

// SystemClock reads the platform monotonic clock via mono.Now. It is
// stateless; every instance observes the same process timeline.
type SystemClock struct{}

// NewSystemClock creates a SystemClock.
func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

// Now returns the current monotonic instant.
func (s *SystemClock) Now() mono.Instant {
	return mono.Now()
}

// Since returns the span elapsed since the given instant.
func (s *SystemClock) Since(i mono.Instant) span.Span {
	return s.Now().Diff(i)
}
