package automation

import (
	"fmt"
	"strconv"
	"strings"
)

// ChannelType identifies the kind of mixer strip a parameter belongs to.
// Values match the Wing OSC address space.
type ChannelType string

const (
	ChannelTypeChannel ChannelType = "ch"
	ChannelTypeBus     ChannelType = "bus"
	ChannelTypeMain    ChannelType = "main"
	ChannelTypeDCA     ChannelType = "dca"
	ChannelTypeAuxIn   ChannelType = "auxin"
	ChannelTypeMatrix  ChannelType = "mtx"
)

// ValidChannelTypes defines the allowed channel type tags.
var ValidChannelTypes = map[ChannelType]bool{
	ChannelTypeChannel: true,
	ChannelTypeBus:     true,
	ChannelTypeMain:    true,
	ChannelTypeDCA:     true,
	ChannelTypeAuxIn:   true,
	ChannelTypeMatrix:  true,
}

// ParamType identifies which parameter of a strip an event changes.
//
// The set is deliberately open: an event carrying a param type this build
// does not know is preserved through load/save and skipped at dispatch
// time, so sequences recorded against newer firmware remain loadable.
type ParamType string

const (
	ParamTypeFader ParamType = "fader"
	ParamTypeMute  ParamType = "mute"
	ParamTypePan   ParamType = "pan"
)

// Event is an immutable record of one parameter change.
//
// Timestamp is seconds elapsed since the start of the recording that
// produced the event. Value semantics depend on ParamType: dB-like scale
// for faders, 0/1 for mutes, -1..1 for pans.
type Event struct {
	Timestamp   float64     `json:"timestamp"`
	ChannelType ChannelType `json:"channel_type"`
	ChannelNum  int         `json:"channel_num"`
	ParamType   ParamType   `json:"param_type"`
	Value       float64     `json:"value"`
}

// Validate checks the structural invariants of a single event.
func (e Event) Validate() error {
	if e.Timestamp < 0 {
		return fmt.Errorf("negative timestamp %v", e.Timestamp)
	}
	if !ValidChannelTypes[e.ChannelType] {
		return fmt.Errorf("unknown channel type %q", e.ChannelType)
	}
	if e.ChannelNum < 1 {
		return fmt.Errorf("channel number %d out of range", e.ChannelNum)
	}
	if e.ParamType == "" {
		return fmt.Errorf("empty param type")
	}
	return nil
}

// InitialState maps encoded state keys (see MakeStateKey) to parameter
// values. It represents the mixer's full relevant state at the instant
// recording began.
type InitialState map[string]float64

// Clone returns a copy of the state map. Clone of nil is an empty map.
func (s InitialState) Clone() InitialState {
	out := make(InitialState, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// MakeStateKey encodes a (channel type, channel number, param type) triple
// into the composite token used by InitialState, e.g. "ch_1_fader".
func MakeStateKey(ct ChannelType, num int, pt ParamType) string {
	return fmt.Sprintf("%s_%d_%s", ct, num, pt)
}

// ParseStateKey decodes a composite state key back into its three
// identifying fields. The reverse of MakeStateKey.
func ParseStateKey(key string) (ChannelType, int, ParamType, error) {
	parts := strings.SplitN(key, "_", 3)
	if len(parts) != 3 {
		return "", 0, "", fmt.Errorf("malformed state key %q", key)
	}
	ct := ChannelType(parts[0])
	if !ValidChannelTypes[ct] {
		return "", 0, "", fmt.Errorf("state key %q: unknown channel type %q", key, parts[0])
	}
	num, err := strconv.Atoi(parts[1])
	if err != nil || num < 1 {
		return "", 0, "", fmt.Errorf("state key %q: bad channel number %q", key, parts[1])
	}
	if parts[2] == "" {
		return "", 0, "", fmt.Errorf("state key %q: empty param type", key)
	}
	return ct, num, ParamType(parts[2]), nil
}

// Sequence is the unit exchanged with storage and playback: an initial
// state snapshot plus an ordered event timeline.
//
// A Sequence is treated as read-only once handed to a Player; the playback
// loop iterates its own reference and nothing mutates it mid-run.
type Sequence struct {
	InitialState InitialState `json:"initial_state"`
	Events       []Event      `json:"events"`
	Duration     float64      `json:"duration"`
}

// Validate checks the structural invariants of a whole sequence:
// decodable state keys, valid events, non-decreasing timestamps, and a
// duration that covers the last event.
func (s *Sequence) Validate() error {
	for key := range s.InitialState {
		if _, _, _, err := ParseStateKey(key); err != nil {
			return fmt.Errorf("initial_state: %w", err)
		}
	}
	prev := 0.0
	for i, e := range s.Events {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("events[%d]: %w", i, err)
		}
		if e.Timestamp < prev {
			return fmt.Errorf("events[%d]: timestamp %v before previous %v", i, e.Timestamp, prev)
		}
		prev = e.Timestamp
	}
	if s.Duration < 0 {
		return fmt.Errorf("negative duration %v", s.Duration)
	}
	if s.Duration < prev {
		return fmt.Errorf("duration %v shorter than last event at %v", s.Duration, prev)
	}
	return nil
}
