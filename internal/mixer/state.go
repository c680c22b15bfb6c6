package mixer

import (
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/foxhoundv/wingmix/internal/automation"
)

// State mirrors the mixer parameter values observed so far. A snapshot of
// it becomes the initial_state of a recording, so playback from position
// zero can re-establish the baseline.
//
// Strip labels arrive from the console as UTF-8 and are NFC-normalized so
// the same name always compares and displays identically regardless of
// how the console composed it.
//
// Thread-safety: safe for concurrent use.
type State struct {
	mu     sync.RWMutex
	values map[string]float64
	labels map[ChannelRef]string
}

// NewState creates an empty mirror.
func NewState() *State {
	return &State{
		values: make(map[string]float64),
		labels: make(map[ChannelRef]string),
	}
}

// Update records the current value of one parameter.
func (s *State) Update(ct automation.ChannelType, num int, pt automation.ParamType, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[automation.MakeStateKey(ct, num, pt)] = value
}

// Value returns the last observed value of a parameter.
func (s *State) Value(ct automation.ChannelType, num int, pt automation.ParamType) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[automation.MakeStateKey(ct, num, pt)]
	return v, ok
}

// SetLabel records a strip's display name, NFC-normalized.
func (s *State) SetLabel(ref ChannelRef, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labels[ref] = norm.NFC.String(label)
}

// Label returns a strip's display name, or "" if never reported.
func (s *State) Label(ref ChannelRef) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.labels[ref]
}

// Snapshot returns a copy of all observed parameter values in the
// initial-state shape.
func (s *State) Snapshot() automation.InitialState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(automation.InitialState, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Len returns the number of observed parameters.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
