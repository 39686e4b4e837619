package span

import (
	"math"
	"testing"
	"time"
)

func TestNew_Normalization(t *testing.T) {
	// Whole seconds in the nanos component carry into secs
	s := New(1, NanosPerSecond+500)
	if s.Seconds() != 2 || s.Subsec() != 500 {
		t.Errorf("Expected 2s 500ns, got %ds %dns", s.Seconds(), s.Subsec())
	}

	// Mixed signs are normalized so both components agree
	s = New(1, -1)
	if s.Seconds() != 0 || s.Subsec() != NanosPerSecond-1 {
		t.Errorf("Expected 0s 999999999ns, got %ds %dns", s.Seconds(), s.Subsec())
	}

	s = New(-1, 1)
	if s.Seconds() != 0 || s.Subsec() != -(NanosPerSecond-1) {
		t.Errorf("Expected 0s -999999999ns, got %ds %dns", s.Seconds(), s.Subsec())
	}
}

func TestNew_SaturatesOnCarry(t *testing.T) {
	s := New(math.MaxInt64, NanosPerSecond+1)
	if s != Max {
		t.Errorf("Expected saturation to Max, got %v", s)
	}

	s = New(math.MinInt64, -(NanosPerSecond + 1))
	if s != Min {
		t.Errorf("Expected saturation to Min, got %v", s)
	}
}

func TestFromNanos_RoundTrip(t *testing.T) {
	for _, ns := range []int64{0, 1, -1, NanosPerSecond, -NanosPerSecond, 1234567890123, -987654321098} {
		s := FromNanos(ns)
		back, ok := s.Nanos()
		if !ok {
			t.Fatalf("Nanos() reported overflow for %d", ns)
		}
		if back != ns {
			t.Errorf("Round-trip failed: %d -> %v -> %d", ns, s, back)
		}
	}
}

func TestFromDuration(t *testing.T) {
	d := 90*time.Second + 250*time.Millisecond
	s := FromDuration(d)
	if s.Seconds() != 90 || s.Subsec() != 250_000_000 {
		t.Errorf("Expected 90s 250000000ns, got %ds %dns", s.Seconds(), s.Subsec())
	}

	back, ok := s.Duration()
	if !ok || back != d {
		t.Errorf("Duration round-trip failed: %v -> %v (ok=%t)", d, back, ok)
	}
}

func TestSpan_Signs(t *testing.T) {
	cases := []struct {
		s                    Span
		zero, positive, negative bool
	}{
		{Zero, true, false, false},
		{FromSeconds(1), false, true, false},
		{FromSeconds(-1), false, false, true},
		{FromNanos(1), false, true, false},
		{FromNanos(-1), false, false, true},
	}

	for _, c := range cases {
		if c.s.IsZero() != c.zero || c.s.IsPositive() != c.positive || c.s.IsNegative() != c.negative {
			t.Errorf("%v: got zero=%t positive=%t negative=%t",
				c.s, c.s.IsZero(), c.s.IsPositive(), c.s.IsNegative())
		}
	}
}

func TestSpan_NegAbs(t *testing.T) {
	s := New(-3, -500)
	n := s.Neg()
	if n.Seconds() != 3 || n.Subsec() != 500 {
		t.Errorf("Neg failed: got %ds %dns", n.Seconds(), n.Subsec())
	}

	if s.Abs() != n {
		t.Errorf("Abs of negative should equal Neg: %v vs %v", s.Abs(), n)
	}
	if n.Abs() != n {
		t.Errorf("Abs of positive should be identity")
	}

	// Min has no positive counterpart; Neg saturates
	if Min.Neg() != Max {
		t.Errorf("Neg(Min) should saturate to Max, got %v", Min.Neg())
	}
}

func TestSpan_Add(t *testing.T) {
	a := New(1, 600_000_000)
	b := New(2, 700_000_000)
	sum := a.Add(b)
	if sum.Seconds() != 4 || sum.Subsec() != 300_000_000 {
		t.Errorf("Expected 4s 300000000ns, got %ds %dns", sum.Seconds(), sum.Subsec())
	}

	// Adding a span and its negation cancels exactly
	if got := a.Add(a.Neg()); !got.IsZero() {
		t.Errorf("a + (-a) should be zero, got %v", got)
	}

	// Saturation at the extremes
	if Max.Add(FromSeconds(1)) != Max {
		t.Error("Max + 1s should saturate to Max")
	}
	if Min.Add(FromSeconds(-1)) != Min {
		t.Error("Min - 1s should saturate to Min")
	}

	// Saturation clamps the whole span, not just the seconds
	if got := FromSeconds(math.MaxInt64).Add(FromSeconds(1)); got != Max {
		t.Errorf("Seconds overflow should return Max wholesale, got %v", got)
	}
	if got := FromSeconds(math.MinInt64).Add(New(-1, -500)); got != Min {
		t.Errorf("Seconds underflow should return Min wholesale, got %v", got)
	}
}

func TestSpan_Compare(t *testing.T) {
	a := New(1, 500)
	b := New(1, 501)
	c := New(2, 0)

	if a.Compare(b) != -1 || b.Compare(a) != 1 {
		t.Error("Nanosecond remainder should break ties")
	}
	if a.Compare(a) != 0 {
		t.Error("Span should compare equal to itself")
	}
	if c.Compare(b) != 1 {
		t.Error("Seconds should dominate comparison")
	}
	if FromSeconds(-1).Compare(Zero) != -1 {
		t.Error("Negative span should order before zero")
	}
}

func TestSpan_NanosOverflow(t *testing.T) {
	if _, ok := Max.Nanos(); ok {
		t.Error("Max should not fit in int64 nanoseconds")
	}
	if _, ok := Min.Nanos(); ok {
		t.Error("Min should not fit in int64 nanoseconds")
	}

	// The largest duration-representable span round-trips
	edge := FromNanos(math.MaxInt64)
	if ns, ok := edge.Nanos(); !ok || ns != math.MaxInt64 {
		t.Errorf("Edge span failed: ns=%d ok=%t", ns, ok)
	}
}

func TestSpan_String(t *testing.T) {
	if got := FromDuration(90 * time.Second).String(); got != "1m30s" {
		t.Errorf("Expected 1m30s, got %s", got)
	}
	if got := Zero.String(); got != "0s" {
		t.Errorf("Expected 0s, got %s", got)
	}

	// Beyond time.Duration range falls back to decimal seconds
	big := FromSeconds(math.MaxInt64)
	if got := big.String(); got != "9223372036854775807.000000000s" {
		t.Errorf("Unexpected big-span format: %s", got)
	}
}
