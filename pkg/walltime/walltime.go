// Package walltime provides a cyclic time-of-day value with nanosecond
// resolution. A Time carries no calendar date: arithmetic wraps around
// midnight and reports the wrap through a DayShift side channel so callers
// that track dates can account for the crossing.
package walltime

import (
	"fmt"
	"time"

	"github.com/tickworks/chrono/pkg/span"
)

// Time is a wall-clock time of day between 00:00:00.000000000 and
// 23:59:59.999999999. It is an immutable comparable value type; the zero
// value is midnight.
//
// Time has no leap-second support and no date component. Arithmetic
// never fails: it wraps around the day boundary and reports the crossing
// via DayShift.
type Time struct {
	hour   int8  // 0..23
	minute int8  // 0..59
	second int8  // 0..59
	nano   int32 // 0..999_999_999
}

// Midnight is the first instant of the day, 00:00:00.
var Midnight = Time{}

// Max is the last representable instant of the day, 23:59:59.999999999.
var Max = Time{hour: 23, minute: 59, second: 59, nano: span.NanosPerSecond - 1}

// DayShift reports whether a wrapping arithmetic operation crossed a
// calendar-day boundary.
type DayShift int

const (
	// ShiftNone means the result stayed within the same calendar day.
	ShiftNone DayShift = iota

	// ShiftNextDay means the result wrapped forward past 23:59:59.999999999.
	ShiftNextDay

	// ShiftPrevDay means the result wrapped backward past 00:00:00.
	ShiftPrevDay
)

func (s DayShift) String() string {
	switch s {
	case ShiftNone:
		return "NONE"
	case ShiftNextDay:
		return "NEXT_DAY"
	case ShiftPrevDay:
		return "PREV_DAY"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// RangeError reports a component passed to a Time constructor that falls
// outside its documented range. Fields are validated in the order hour,
// minute, second, sub-second; the first violation is reported.
type RangeError struct {
	// Field names the offending component (e.g. "hour", "millisecond")
	Field string

	// Value is the value that was provided
	Value int

	// Min and Max bound the valid range, inclusive
	Min int
	Max int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("walltime: %s %d out of range [%d, %d]", e.Field, e.Value, e.Min, e.Max)
}

// New creates a Time from hour, minute, and second components; the
// nanosecond component is zero. It returns a *RangeError naming the
// first component out of range.
func New(hour, minute, second int) (Time, error) {
	if err := checkHMS(hour, minute, second); err != nil {
		return Time{}, err
	}
	return unchecked(hour, minute, second, 0), nil
}

// NewMilli is like New with an additional millisecond component in
// the range 0..999.
func NewMilli(hour, minute, second, milli int) (Time, error) {
	if err := checkHMS(hour, minute, second); err != nil {
		return Time{}, err
	}
	if milli < 0 || milli > 999 {
		return Time{}, &RangeError{Field: "millisecond", Value: milli, Min: 0, Max: 999}
	}
	return unchecked(hour, minute, second, milli*1_000_000), nil
}

// NewMicro is like New with an additional microsecond component in
// the range 0..999_999.
func NewMicro(hour, minute, second, micro int) (Time, error) {
	if err := checkHMS(hour, minute, second); err != nil {
		return Time{}, err
	}
	if micro < 0 || micro > 999_999 {
		return Time{}, &RangeError{Field: "microsecond", Value: micro, Min: 0, Max: 999_999}
	}
	return unchecked(hour, minute, second, micro*1_000), nil
}

// NewNano is like New with an additional nanosecond component in
// the range 0..999_999_999.
func NewNano(hour, minute, second, nano int) (Time, error) {
	if err := checkHMS(hour, minute, second); err != nil {
		return Time{}, err
	}
	if nano < 0 || nano > span.NanosPerSecond-1 {
		return Time{}, &RangeError{Field: "nanosecond", Value: nano, Min: 0, Max: span.NanosPerSecond - 1}
	}
	return unchecked(hour, minute, second, nano), nil
}

// FromStd projects the wall-clock reading of a time.Time onto a Time,
// discarding the date and location.
func FromStd(t time.Time) Time {
	return unchecked(t.Hour(), t.Minute(), t.Second(), t.Nanosecond())
}

func checkHMS(hour, minute, second int) error {
	if hour < 0 || hour > 23 {
		return &RangeError{Field: "hour", Value: hour, Min: 0, Max: 23}
	}
	if minute < 0 || minute > 59 {
		return &RangeError{Field: "minute", Value: minute, Min: 0, Max: 59}
	}
	if second < 0 || second > 59 {
		return &RangeError{Field: "second", Value: second, Min: 0, Max: 59}
	}
	return nil
}

// unchecked builds a Time without validation. Callers must guarantee all
// components are in range (arithmetic results, std library conversions).
func unchecked(hour, minute, second, nano int) Time {
	return Time{hour: int8(hour), minute: int8(minute), second: int8(second), nano: int32(nano)}
}

// Hour returns the hour, 0..23.
func (t Time) Hour() int { return int(t.hour) }

// Minute returns the minute, 0..59.
func (t Time) Minute() int { return int(t.minute) }

// Second returns the second, 0..59.
func (t Time) Second() int { return int(t.second) }

// Millisecond returns the sub-second component truncated to
// milliseconds, 0..999.
func (t Time) Millisecond() int { return int(t.nano / 1_000_000) }

// Microsecond returns the sub-second component truncated to
// microseconds, 0..999_999.
func (t Time) Microsecond() int { return int(t.nano / 1_000) }

// Nanosecond returns the sub-second component in nanoseconds,
// 0..999_999_999.
func (t Time) Nanosecond() int { return int(t.nano) }

// Add returns t advanced by d, wrapping around midnight. The returned
// DayShift reports whether the wrap crossed into the next or previous
// calendar day; callers tracking dates must consume it.
func (t Time) Add(d span.Span) (Time, DayShift) {
	// Decompose the span into day-relative deltas. Each component keeps
	// its own sign; Go's % truncates toward zero, so a negative span
	// yields negative deltas that the cascade turns into borrows.
	// Intermediates are int64: the nanosecond sum can reach 2e9, past
	// a 32-bit int.
	secs := d.Seconds()
	dn := int64(d.Subsec())
	ds := secs % 60
	dm := secs / 60 % 60
	dh := secs / 3600 % 24

	nano, carry := cascade(int64(t.nano)+dn, span.NanosPerSecond)
	second, carry := cascade(int64(t.second)+ds+carry, 60)
	minute, carry := cascade(int64(t.minute)+dm+carry, 60)
	hour, days := cascade(int64(t.hour)+dh+carry, 24)

	shift := ShiftNone
	switch {
	case days > 0:
		shift = ShiftNextDay
	case days < 0:
		shift = ShiftPrevDay
	}
	return unchecked(int(hour), int(minute), int(second), int(nano)), shift
}

// Sub returns t moved backward by d, wrapping around midnight, with the
// same DayShift contract as Add.
func (t Time) Sub(d span.Span) (Time, DayShift) {
	return t.Add(d.Neg())
}

// Since returns the signed offset t-u assuming both values fall on the
// same calendar day. The assumption is documented, not enforced: if u
// belongs to a different day the result is the naive field-wise
// difference with no day count added back.
func (t Time) Since(u Time) span.Span {
	secs := int64(t.hour-u.hour)*3600 + int64(t.minute-u.minute)*60 + int64(t.second-u.second)
	return span.FromSeconds(secs).Add(span.FromNanos(int64(t.nano - u.nano)))
}

// Compare returns -1, 0, or +1 ordering t against u within a day.
func (t Time) Compare(u Time) int {
	tn := t.dayNanos()
	un := u.dayNanos()
	switch {
	case tn < un:
		return -1
	case tn > un:
		return 1
	default:
		return 0
	}
}

// dayNanos returns the offset from midnight in nanoseconds.
func (t Time) dayNanos() int64 {
	secs := int64(t.hour)*3600 + int64(t.minute)*60 + int64(t.second)
	return secs*span.NanosPerSecond + int64(t.nano)
}

// String formats the time as HH:MM:SS, with the nanosecond component
// appended when non-zero.
func (t Time) String() string {
	if t.nano == 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.hour, t.minute, t.second)
	}
	return fmt.Sprintf("%02d:%02d:%02d.%09d", t.hour, t.minute, t.second, t.nano)
}

// cascade normalizes v into [0, base), returning the normalized field and
// the signed carry into the next coarser field. A deficit borrows: -1
// with base 60 becomes 59 with carry -1.
func cascade(v, base int64) (field, carry int64) {
	carry = v / base
	field = v % base
	if field < 0 {
		field += base
		carry--
	}
	return field, carry
}
