// Package span provides a signed duration with a 96-bit representation:
// whole seconds as int64 plus a nanosecond remainder as int32. This covers
// ranges far beyond time.Duration (~292 years) while keeping nanosecond
// precision, and makes the sign of a duration explicit for calendrical
// arithmetic.
package span

import (
	"fmt"
	"math"
	"time"
)

// NanosPerSecond is the number of nanoseconds in one second.
const NanosPerSecond = 1_000_000_000

// Span is a signed length of time: whole seconds plus a nanosecond
// remainder. Invariant: |nanos| < NanosPerSecond, and nanos has the same
// sign as secs unless either is zero.
//
// The zero value is the zero duration. Span is comparable; two normalized
// spans are equal iff they represent the same length of time.
type Span struct {
	secs  int64 // Whole seconds component
	nanos int32 // Nanosecond remainder, sign matches secs
}

// Zero is the zero-length span.
var Zero = Span{}

// Max is the longest representable span. Saturating operations clamp here.
var Max = Span{secs: math.MaxInt64, nanos: NanosPerSecond - 1}

// Min is the most negative representable span. Saturating operations
// clamp here.
var Min = Span{secs: math.MinInt64, nanos: -(NanosPerSecond - 1)}

// New creates a normalized span from seconds and a nanosecond remainder.
// The nanosecond component may be any int32; whole seconds in it are
// carried into the seconds component. If the carry would overflow int64
// seconds the result saturates to Max or Min.
func New(secs int64, nanos int32) Span {
	s, ok := add64(secs, int64(nanos/NanosPerSecond))
	if !ok {
		if nanos > 0 {
			return Max
		}
		return Min
	}
	return normalize(s, nanos%NanosPerSecond)
}

// FromSeconds creates a span of whole seconds.
func FromSeconds(secs int64) Span {
	return Span{secs: secs}
}

// FromNanos creates a span from a total nanosecond count.
func FromNanos(ns int64) Span {
	return Span{secs: ns / NanosPerSecond, nanos: int32(ns % NanosPerSecond)}
}

// FromDuration converts a time.Duration to a span. The conversion is
// exact; every time.Duration is representable.
func FromDuration(d time.Duration) Span {
	return FromNanos(int64(d))
}

// normalize aligns the signs of the two components. Inputs must already
// satisfy |n| < NanosPerSecond.
func normalize(s int64, n int32) Span {
	if s > 0 && n < 0 {
		s--
		n += NanosPerSecond
	} else if s < 0 && n > 0 {
		s++
		n -= NanosPerSecond
	}
	return Span{secs: s, nanos: n}
}

// Seconds returns the whole-seconds component.
func (s Span) Seconds() int64 { return s.secs }

// Subsec returns the nanosecond remainder. Its sign matches Seconds
// unless either component is zero.
func (s Span) Subsec() int32 { return s.nanos }

// IsZero reports whether the span has zero length.
func (s Span) IsZero() bool { return s.secs == 0 && s.nanos == 0 }

// IsPositive reports whether the span is strictly positive.
func (s Span) IsPositive() bool {
	return s.secs > 0 || (s.secs == 0 && s.nanos > 0)
}

// IsNegative reports whether the span is strictly negative.
func (s Span) IsNegative() bool {
	return s.secs < 0 || (s.secs == 0 && s.nanos < 0)
}

// Neg returns the span with its sign flipped. Negating Min saturates
// to Max (math.MinInt64 has no positive counterpart).
func (s Span) Neg() Span {
	if s.secs == math.MinInt64 {
		return Max
	}
	return Span{secs: -s.secs, nanos: -s.nanos}
}

// Abs returns the absolute value of the span. Abs of Min saturates to Max.
func (s Span) Abs() Span {
	if s.IsNegative() {
		return s.Neg()
	}
	return s
}

// Add returns s+o. The result saturates to Max or Min if the sum is not
// representable.
func (s Span) Add(o Span) Span {
	nanos := s.nanos + o.nanos // |result| < 2e9, fits int32
	var carry int64
	if nanos >= NanosPerSecond {
		carry = 1
		nanos -= NanosPerSecond
	} else if nanos <= -NanosPerSecond {
		carry = -1
		nanos += NanosPerSecond
	}

	secs, ok := add64(s.secs, o.secs)
	if ok {
		secs, ok = add64(secs, carry)
	}
	if !ok {
		// Overflow direction follows the operands' shared sign.
		if s.secs > 0 || o.secs > 0 {
			return Max
		}
		return Min
	}
	return normalize(secs, nanos)
}

// Compare returns -1, 0, or +1 ordering s against o.
func (s Span) Compare(o Span) int {
	switch {
	case s.secs < o.secs:
		return -1
	case s.secs > o.secs:
		return 1
	case s.nanos < o.nanos:
		return -1
	case s.nanos > o.nanos:
		return 1
	default:
		return 0
	}
}

// Nanos returns the span as a total nanosecond count. The second return
// is false when the span does not fit in an int64 of nanoseconds
// (roughly +/-292 years).
func (s Span) Nanos() (int64, bool) {
	const maxSecs = math.MaxInt64 / NanosPerSecond
	if s.secs > maxSecs || s.secs < -maxSecs {
		return 0, false
	}
	total := s.secs * NanosPerSecond
	// The remainder cannot overflow: |secs| <= maxSecs leaves headroom
	// for |nanos| < 1e9 except at the very edge.
	sum := total + int64(s.nanos)
	if (s.nanos > 0 && sum < total) || (s.nanos < 0 && sum > total) {
		return 0, false
	}
	return sum, true
}

// Duration converts the span to a time.Duration. The second return is
// false when the span exceeds time.Duration's range.
func (s Span) Duration() (time.Duration, bool) {
	ns, ok := s.Nanos()
	return time.Duration(ns), ok
}

// String formats the span in time.Duration notation when it fits, and
// as decimal seconds otherwise.
func (s Span) String() string {
	if ns, ok := s.Nanos(); ok {
		return time.Duration(ns).String()
	}
	n := s.nanos
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("%d.%09ds", s.secs, n)
}

// add64 adds two int64 values, reporting whether the sum stayed in range.
func add64(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}
