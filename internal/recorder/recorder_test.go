package recorder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxhoundv/wingmix/internal/automation"
	"github.com/foxhoundv/wingmix/internal/testutil"
)

func newTestRecorder() (*Recorder, *testutil.Clock) {
	clock := testutil.NewClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return New(WithTimeSource(clock.Now)), clock
}

func TestRecorder_StartsIdle(t *testing.T) {
	r, _ := newTestRecorder()
	assert.Equal(t, StateIdle, r.State())
	assert.Equal(t, 0.0, r.ElapsedTime(), "never-started recorder reports zero elapsed")
}

func TestRecorder_RecordsTimestampedEvents(t *testing.T) {
	r, clock := newTestRecorder()

	r.StartRecording(automation.InitialState{"ch_1_fader": -10})
	assert.Equal(t, StateRecording, r.State())

	clock.Advance(500 * time.Millisecond)
	r.RecordEvent(automation.ChannelTypeChannel, 1, automation.ParamTypeFader, -5)
	clock.Advance(500 * time.Millisecond)
	r.RecordEvent(automation.ChannelTypeChannel, 1, automation.ParamTypeMute, 1)
	clock.Advance(250 * time.Millisecond)

	seq := r.StopRecording()
	assert.Equal(t, StateIdle, r.State())

	require.Len(t, seq.Events, 2)
	assert.Equal(t, 0.5, seq.Events[0].Timestamp)
	assert.Equal(t, -5.0, seq.Events[0].Value)
	assert.Equal(t, 1.0, seq.Events[1].Timestamp)
	assert.Equal(t, automation.ParamTypeMute, seq.Events[1].ParamType)
	assert.Equal(t, 1.25, seq.Duration, "duration runs to the stop instant, past the last event")
	assert.Equal(t, automation.InitialState{"ch_1_fader": -10}, seq.InitialState)
	require.NoError(t, seq.Validate())
}

func TestRecorder_EventCountMatchesCalls(t *testing.T) {
	r, clock := newTestRecorder()
	r.StartRecording(nil)

	const n = 25
	for i := 0; i < n; i++ {
		clock.Advance(10 * time.Millisecond)
		r.RecordEvent(automation.ChannelTypeBus, 2, automation.ParamTypeFader, float64(i))
	}
	assert.Equal(t, n, r.EventCount())

	seq := r.StopRecording()
	require.Len(t, seq.Events, n)

	prev := 0.0
	for _, e := range seq.Events {
		assert.GreaterOrEqual(t, e.Timestamp, prev, "timestamps must be non-decreasing")
		assert.GreaterOrEqual(t, e.Timestamp, 0.0)
		prev = e.Timestamp
	}
}

func TestRecorder_RecordEventWhileIdleIsNoOp(t *testing.T) {
	r, clock := newTestRecorder()

	// Before any recording.
	r.RecordEvent(automation.ChannelTypeChannel, 1, automation.ParamTypeFader, -5)
	assert.Equal(t, 0, r.EventCount())

	r.StartRecording(nil)
	clock.Advance(time.Second)
	seq := r.StopRecording()
	assert.Empty(t, seq.Events)

	// Between recordings: must not leak into the next session's log.
	r.RecordEvent(automation.ChannelTypeChannel, 1, automation.ParamTypeMute, 1)

	r.StartRecording(nil)
	clock.Advance(time.Second)
	seq = r.StopRecording()
	assert.Empty(t, seq.Events, "idle events must not appear in a later recording")
}

func TestRecorder_ImmediateStop(t *testing.T) {
	r, _ := newTestRecorder()
	r.StartRecording(automation.InitialState{"main_1_fader": 0})
	seq := r.StopRecording()

	assert.NotNil(t, seq.Events)
	assert.Empty(t, seq.Events)
	assert.Equal(t, 0.0, seq.Duration)
}

func TestRecorder_Reusable(t *testing.T) {
	r, clock := newTestRecorder()

	r.StartRecording(automation.InitialState{"ch_1_fader": -10})
	clock.Advance(time.Second)
	r.RecordEvent(automation.ChannelTypeChannel, 1, automation.ParamTypeFader, 0)
	first := r.StopRecording()
	require.Len(t, first.Events, 1)

	r.StartRecording(automation.InitialState{"ch_2_fader": -20})
	clock.Advance(2 * time.Second)
	r.RecordEvent(automation.ChannelTypeChannel, 2, automation.ParamTypePan, 0.5)
	second := r.StopRecording()

	require.Len(t, second.Events, 1, "second session starts from an empty log")
	assert.Equal(t, 2.0, second.Events[0].Timestamp, "timestamps restart at the new start instant")
	assert.Equal(t, automation.InitialState{"ch_2_fader": -20}, second.InitialState)
	require.Len(t, first.Events, 1, "finalized sequence is not mutated by the next session")
}

func TestRecorder_ElapsedTime(t *testing.T) {
	r, clock := newTestRecorder()

	r.StartRecording(nil)
	clock.Advance(750 * time.Millisecond)
	assert.Equal(t, 0.75, r.ElapsedTime())

	r.StopRecording()
	clock.Advance(250 * time.Millisecond)
	assert.Equal(t, 1.0, r.ElapsedTime(), "elapsed keeps counting after stop until the next start")
}

func TestRecorder_InitialStateCopied(t *testing.T) {
	r, _ := newTestRecorder()
	initial := automation.InitialState{"ch_1_fader": -10}
	r.StartRecording(initial)

	initial["ch_1_fader"] = 99
	seq := r.StopRecording()
	assert.Equal(t, -10.0, seq.InitialState["ch_1_fader"], "initial state is captured verbatim at start")
}
