// Package mono provides an opaque monotonic timestamp for measuring
// elapsed time. Instants live on a process-private timeline anchored at
// package initialization; they carry no wall-clock meaning and cannot be
// compared across processes.
package mono

import (
	"math"
	"time"

	"github.com/tickworks/chrono/pkg/span"
)

// processEpoch anchors the timeline. time.Since reads the runtime's
// monotonic clock, so samples never run backward within this process.
var processEpoch = time.Now()

// Instant is an opaque reading of the monotonic clock: nanoseconds from
// the process epoch. It is a comparable value type with no exported
// constructor from raw numbers; obtain one via Now and derive others
// through arithmetic. The zero value is the process epoch itself.
type Instant struct {
	ns int64
}

// Now samples the monotonic clock. It cannot fail: if the platform has
// no monotonic clock at all, the runtime falls back to the realtime
// clock and the monotonicity assumption is the environment's problem,
// not a recoverable error.
func Now() Instant {
	return Instant{ns: int64(time.Since(processEpoch))}
}

// Elapsed returns the time that has passed since i was sampled,
// equivalent to Now().Diff(i). Non-negative unless the platform's
// monotonicity guarantee is violated.
func (i Instant) Elapsed() span.Span {
	return Now().Diff(i)
}

// Diff returns the signed difference i-other: non-negative when i was
// sampled at or after other, negative otherwise. The unsigned distance
// is taken in whichever order is non-negative, so even instants at
// opposite edges of the range (reachable via saturating arithmetic)
// produce the exact span.
func (i Instant) Diff(other Instant) span.Span {
	if i.ns >= other.ns {
		return unsignedSpan(uint64(i.ns) - uint64(other.ns))
	}
	return unsignedSpan(uint64(other.ns) - uint64(i.ns)).Neg()
}

// unsignedSpan converts an unsigned nanosecond distance to a span.
// The full uint64 range fits: seconds top out near 1.8e10.
func unsignedSpan(ns uint64) span.Span {
	return span.New(int64(ns/span.NanosPerSecond), int32(ns%span.NanosPerSecond))
}

// CheckedAdd advances the instant by d. The second return is false
// exactly when the mathematically exact result would leave the
// representable timestamp range. A zero duration is a no-op success; a
// negative duration delegates to CheckedSub with the magnitude.
func (i Instant) CheckedAdd(d span.Span) (Instant, bool) {
	if d.IsNegative() {
		return i.checkedSubMagnitude(d.Abs())
	}
	return i.checkedAddMagnitude(d)
}

// CheckedSub moves the instant backward by d, symmetric to CheckedAdd.
func (i Instant) CheckedSub(d span.Span) (Instant, bool) {
	if d.IsNegative() {
		return i.checkedAddMagnitude(d.Abs())
	}
	return i.checkedSubMagnitude(d)
}

// magnitudeNanos returns a non-negative span as unsigned nanoseconds.
// The second return is false when even uint64 cannot hold it, in which
// case the span exceeds the timeline's full range outright.
func magnitudeNanos(d span.Span) (uint64, bool) {
	secs := uint64(d.Seconds())
	if secs > math.MaxUint64/span.NanosPerSecond {
		return 0, false
	}
	ns := secs * span.NanosPerSecond
	rem := uint64(d.Subsec())
	if ns > math.MaxUint64-rem {
		return 0, false
	}
	return ns + rem, true
}

// checkedAddMagnitude adds a non-negative span.
func (i Instant) checkedAddMagnitude(d span.Span) (Instant, bool) {
	m, ok := magnitudeNanos(d)
	if !ok {
		return Instant{}, false
	}
	// Headroom up to the top of the range, exact in two's complement.
	headroom := uint64(math.MaxInt64) - uint64(i.ns)
	if m > headroom {
		return Instant{}, false
	}
	return Instant{ns: int64(uint64(i.ns) + m)}, true
}

// checkedSubMagnitude subtracts a non-negative span.
func (i Instant) checkedSubMagnitude(d span.Span) (Instant, bool) {
	m, ok := magnitudeNanos(d)
	if !ok {
		return Instant{}, false
	}
	// Distance down to the bottom of the range, exact in two's
	// complement: adding 1<<63 maps int64 onto uint64 order-preservingly.
	floor := uint64(i.ns) + (1 << 63)
	if m > floor {
		return Instant{}, false
	}
	return Instant{ns: int64(uint64(i.ns) - m)}, true
}

// Add advances the instant by d, saturating to the edge of the
// representable range on overflow. Saturation (rather than panic or
// wraparound) keeps timing code total: a saturated instant stays
// ordered after every reachable one.
func (i Instant) Add(d span.Span) Instant {
	if out, ok := i.CheckedAdd(d); ok {
		return out
	}
	if d.IsNegative() {
		return Instant{ns: math.MinInt64}
	}
	return Instant{ns: math.MaxInt64}
}

// Sub moves the instant backward by d with the same saturation policy
// as Add.
func (i Instant) Sub(d span.Span) Instant {
	return i.Add(d.Neg())
}

// Equal reports whether two instants denote the same moment.
func (i Instant) Equal(other Instant) bool { return i.ns == other.ns }

// Before reports whether i precedes other.
func (i Instant) Before(other Instant) bool { return i.ns < other.ns }

// After reports whether i follows other.
func (i Instant) After(other Instant) bool { return i.ns > other.ns }

// Compare returns -1, 0, or +1 ordering i against other.
func (i Instant) Compare(other Instant) int {
	switch {
	case i.ns < other.ns:
		return -1
	case i.ns > other.ns:
		return 1
	default:
		return 0
	}
}
