// Package tick produces streams of timestamped ticks driven by a
// clock.Clock. Each tick carries both a monotonic stamp (for interval
// math) and a wall-clock stamp (for display), plus the day-crossing
// signal when the wall clock wraps past midnight between ticks.
package tick

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/google/uuid"

	"github.com/tickworks/chrono/pkg/mono"
	"github.com/tickworks/chrono/pkg/span"
	"github.com/tickworks/chrono/pkg/walltime"
)

// Tick is a single emission from a Ticker.
type Tick struct {
	// ID is a unique identifier for this tick instance
	ID string

	// Stream names the originating ticker
	Stream string

	// Seq is the emission index within the stream, starting at 0
	Seq uint64

	// At is the monotonic stamp; process-private and never serialized
	At mono.Instant

	// Wall is the wall-clock time of day at emission
	Wall walltime.Time

	// Shift reports a midnight crossing since the previous tick
	Shift walltime.DayShift

	// Delta is the monotonic span since the previous tick (zero for Seq 0)
	Delta span.Span
}

// Codec defines how to serialize and deserialize tick payloads.
type Codec interface {
	// Marshal converts a payload struct to bytes
	Marshal(v any) ([]byte, error)

	// Unmarshal deserializes bytes into a payload struct
	Unmarshal(data []byte, v any) error
}

// JSONCodec implements Codec using JSON.
type JSONCodec struct{}

// Marshal converts a payload to JSON bytes.
func (c JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal deserializes JSON bytes into a payload.
func (c JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// wireTick is the serialized form of a Tick. The monotonic stamp is
// deliberately absent: it has no meaning outside this process. The delta
// is carried as seconds plus nanosecond remainder.
type wireTick struct {
	ID         string `json:"id"`
	Stream     string `json:"stream"`
	Seq        uint64 `json:"seq"`
	Wall       string `json:"wall"`
	Shift      string `json:"shift"`
	DeltaSecs  int64  `json:"delta_secs"`
	DeltaNanos int32  `json:"delta_nanos"`
}

// Encode serializes the tick with the given codec.
func (t Tick) Encode(c Codec) ([]byte, error) {
	return c.Marshal(wireTick{
		ID:         t.ID,
		Stream:     t.Stream,
		Seq:        t.Seq,
		Wall:       t.Wall.String(),
		Shift:      t.Shift.String(),
		DeltaSecs:  t.Delta.Seconds(),
		DeltaNanos: t.Delta.Subsec(),
	})
}

// newTick builds a tick with a generated ID.
func newTick(stream string, seq uint64, at mono.Instant, wall walltime.Time, shift walltime.DayShift, delta span.Span) Tick {
	return Tick{
		ID:     uuid.New().String(),
		Stream: stream,
		Seq:    seq,
		At:     at,
		Wall:   wall,
		Shift:  shift,
		Delta:  delta,
	}
}

// String returns a compact representation for logs.
func (t Tick) String() string {
	return fmt.Sprintf("%s[%d] %s (+%v)", t.Stream, t.Seq, t.Wall, t.Delta)
}
