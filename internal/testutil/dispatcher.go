package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/foxhoundv/wingmix/internal/automation"
)

// DispatchCall records one call made against CaptureDispatcher.
type DispatchCall struct {
	ChannelType automation.ChannelType
	ChannelNum  int
	ParamType   automation.ParamType
	Value       float64
	At          time.Time
}

// CaptureDispatcher implements the player's Dispatcher contract by
// recording every call instead of talking to a mixer.
//
// FailOn injects a delivery failure for a specific parameter kind, which
// lets tests verify that playback continues past a failed dispatch.
//
// Thread-safety: safe for concurrent use.
type CaptureDispatcher struct {
	mu    sync.Mutex
	calls []DispatchCall

	// FailOn, when non-nil, makes Dispatch return FailErr for matching
	// param kinds. The call is still recorded.
	FailOn  map[automation.ParamType]bool
	FailErr error
}

// NewCaptureDispatcher creates an empty capture dispatcher.
func NewCaptureDispatcher() *CaptureDispatcher {
	return &CaptureDispatcher{}
}

// Dispatch records the call and returns the injected error, if any.
func (d *CaptureDispatcher) Dispatch(_ context.Context, ct automation.ChannelType, num int, pt automation.ParamType, value float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.calls = append(d.calls, DispatchCall{
		ChannelType: ct,
		ChannelNum:  num,
		ParamType:   pt,
		Value:       value,
		At:          time.Now(),
	})
	if d.FailOn != nil && d.FailOn[pt] {
		return d.FailErr
	}
	return nil
}

// Calls returns a copy of all recorded calls in dispatch order.
func (d *CaptureDispatcher) Calls() []DispatchCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]DispatchCall, len(d.calls))
	copy(out, d.calls)
	return out
}

// Len returns the number of recorded calls.
func (d *CaptureDispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

// Reset discards all recorded calls.
func (d *CaptureDispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = nil
}
