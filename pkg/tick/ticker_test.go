package tick

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/tickworks/chrono/pkg/clock"
	"github.com/tickworks/chrono/pkg/mono"
	"github.com/tickworks/chrono/pkg/span"
	"github.com/tickworks/chrono/pkg/telemetry"
	"github.com/tickworks/chrono/pkg/walltime"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testMetrics() *telemetry.Metrics {
	return telemetry.InitMetrics(prometheus.NewRegistry())
}

func TestNewTicker_Validation(t *testing.T) {
	_, err := NewTicker("s", span.Zero)
	assert.ErrorIs(t, err, ErrIntervalNotPositive)

	_, err = NewTicker("s", span.FromSeconds(-1))
	assert.ErrorIs(t, err, ErrIntervalNotPositive)

	_, err = NewTicker("s", span.Max)
	assert.ErrorIs(t, err, ErrIntervalTooLarge)
}

func TestTicker_Emits(t *testing.T) {
	tk, err := NewTicker("emits", span.FromDuration(5*time.Millisecond), WithMetrics(testMetrics()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, tk.Start(ctx))

	var ticks []Tick
	for len(ticks) < 3 {
		select {
		case got := <-tk.C():
			ticks = append(ticks, got)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for ticks")
		}
	}

	cancel()
	<-tk.Done()

	for i, got := range ticks {
		assert.Equal(t, uint64(i), got.Seq, "sequence should be contiguous")
		assert.Equal(t, "emits", got.Stream)
		_, err := uuid.Parse(got.ID)
		assert.NoError(t, err, "tick ID should be a UUID")
		if i == 0 {
			assert.True(t, got.Delta.IsZero(), "first tick has no delta")
		} else {
			assert.True(t, got.Delta.IsPositive(), "delta should be positive")
			assert.True(t, got.At.After(ticks[i-1].At), "monotonic stamps should advance")
		}
	}
}

func TestTicker_StartTwice(t *testing.T) {
	tk, err := NewTicker("twice", span.FromDuration(time.Millisecond), WithMetrics(testMetrics()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, tk.Start(ctx))
	assert.ErrorIs(t, tk.Start(ctx), ErrAlreadyStarted)

	cancel()
	<-tk.Done()
}

func TestTicker_ChannelClosesOnCancel(t *testing.T) {
	tk, err := NewTicker("closes", span.FromDuration(time.Millisecond), WithMetrics(testMetrics()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, tk.Start(ctx))
	cancel()
	<-tk.Done()

	// Drain; the channel must eventually report closed
	for {
		if _, open := <-tk.C(); !open {
			break
		}
	}
}

func TestTicker_ReplayClockStamps(t *testing.T) {
	replay := clock.NewReplayClock()
	replay.SetNoSleep(true)
	anchor := mono.Now()
	replay.Load(anchor, nil)

	tk, err := NewTicker("replay", span.FromDuration(time.Millisecond),
		WithClock(replay), WithMetrics(testMetrics()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, tk.Start(ctx))

	got := <-tk.C()
	cancel()
	<-tk.Done()

	assert.True(t, got.At.Equal(anchor), "stamp should come from the injected clock")
}

func TestTicker_DropsWhenConsumerLags(t *testing.T) {
	m := testMetrics()
	tk, err := NewTicker("lag", span.FromDuration(time.Millisecond),
		WithBuffer(1), WithMetrics(m))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, tk.Start(ctx))

	// Never read: the single-slot buffer fills and later ticks drop
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-tk.Done()

	var remaining int
	for range tk.C() {
		remaining++
	}
	assert.Equal(t, 1, remaining, "only the buffered tick should be delivered")
}

func TestTick_Encode(t *testing.T) {
	wall, err := walltime.NewMilli(12, 34, 56, 789)
	require.NoError(t, err)

	src := Tick{
		ID:     uuid.New().String(),
		Stream: "encode",
		Seq:    7,
		Wall:   wall,
		Shift:  walltime.ShiftNextDay,
		Delta:  span.New(1, 500),
	}

	data, err := src.Encode(JSONCodec{})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, JSONCodec{}.Unmarshal(data, &decoded))

	assert.Equal(t, src.ID, decoded["id"])
	assert.Equal(t, "encode", decoded["stream"])
	assert.Equal(t, "12:34:56.789000000", decoded["wall"])
	assert.Equal(t, "NEXT_DAY", decoded["shift"])
	assert.EqualValues(t, 1, decoded["delta_secs"])
	assert.EqualValues(t, 500, decoded["delta_nanos"])
}
