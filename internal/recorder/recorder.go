// Package recorder captures a time-ordered sequence of mixer parameter
// changes while armed, producing an automation.Sequence on stop.
package recorder

import (
	"sync"
	"time"

	"github.com/foxhoundv/wingmix/internal/automation"
)

// State is the recorder's lifecycle state.
type State int

const (
	// StateIdle means no recording is in progress.
	StateIdle State = iota
	// StateRecording means events are being accumulated.
	StateRecording
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	default:
		return "unknown"
	}
}

// Recorder accumulates events plus an initial-state snapshot while
// recording. A single instance is reusable across any number of
// start/stop cycles.
//
// RecordEvent while idle is a deliberate no-op, not an error: callers
// forwarding live mixer changes never need to track recorder state first.
// Arming and disarming of channels is an upstream concern (mixer.Feed).
//
// Thread-safety: all methods are safe for concurrent use.
type Recorder struct {
	mu        sync.Mutex
	state     State
	startedAt time.Time
	initial   automation.InitialState
	events    []automation.Event

	now func() time.Time
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithTimeSource replaces the wall clock. Tests use a manually advanced
// clock for deterministic timestamps.
func WithTimeSource(now func() time.Time) Option {
	return func(r *Recorder) {
		r.now = now
	}
}

// New creates an idle Recorder.
func New(opts ...Option) *Recorder {
	r := &Recorder{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// StartRecording transitions to the recording state. The event log is
// reset, the initial state is captured as given, and the start instant is
// taken from the time source. Starting while already recording simply
// restarts with a fresh log.
func (r *Recorder) StartRecording(initial automation.InitialState) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = StateRecording
	r.startedAt = r.now()
	r.events = nil
	r.initial = initial.Clone()
}

// RecordEvent appends one parameter change stamped with the elapsed time
// since StartRecording. When idle it does nothing.
func (r *Recorder) RecordEvent(ct automation.ChannelType, num int, pt automation.ParamType, value float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRecording {
		return
	}

	r.events = append(r.events, automation.Event{
		Timestamp:   r.elapsedLocked(),
		ChannelType: ct,
		ChannelNum:  num,
		ParamType:   pt,
		Value:       value,
	})
}

// StopRecording transitions back to idle and returns the finalized
// sequence. Duration is the elapsed time at the moment of stopping, which
// may exceed the last event's timestamp if nothing changed near the end.
func (r *Recorder) StopRecording() *automation.Sequence {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = StateIdle
	seq := &automation.Sequence{
		InitialState: r.initial.Clone(),
		Events:       r.events,
		Duration:     r.elapsedLocked(),
	}
	if seq.Events == nil {
		seq.Events = []automation.Event{}
	}
	r.events = nil
	return seq
}

// ElapsedTime returns the seconds since the recording start instant, or 0
// if the recorder has never been started. The value keeps counting after
// StopRecording until the next start; progress displays rely on that.
func (r *Recorder) ElapsedTime() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.elapsedLocked()
}

func (r *Recorder) elapsedLocked() float64 {
	if r.startedAt.IsZero() {
		return 0
	}
	return r.now().Sub(r.startedAt).Seconds()
}

// State returns the current lifecycle state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// EventCount returns the number of events accumulated so far.
func (r *Recorder) EventCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}
