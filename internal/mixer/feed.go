package mixer

import (
	"log/slog"

	"github.com/foxhoundv/wingmix/internal/automation"
	"github.com/foxhoundv/wingmix/internal/recorder"
)

// Feed routes live parameter changes: every change updates the state
// mirror, and changes on armed strips are additionally forwarded into the
// recorder. The recorder itself stays permissive; arming policy lives
// here, upstream of it.
type Feed struct {
	state *State
	armed *Armed
	rec   *recorder.Recorder
	log   *slog.Logger
}

// NewFeed wires a feed to its state mirror, armed set, and recorder.
func NewFeed(state *State, armed *Armed, rec *recorder.Recorder, log *slog.Logger) *Feed {
	if log == nil {
		log = slog.Default()
	}
	return &Feed{state: state, armed: armed, rec: rec, log: log}
}

// HandleChange processes one live parameter change. Safe to call from the
// OSC receive goroutine.
func (f *Feed) HandleChange(ct automation.ChannelType, num int, pt automation.ParamType, value float64) {
	f.state.Update(ct, num, pt, value)

	if !f.armed.IsArmed(ChannelRef{Type: ct, Num: num}) {
		return
	}
	f.rec.RecordEvent(ct, num, pt, value)
}
