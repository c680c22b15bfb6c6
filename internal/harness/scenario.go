// Package harness runs playback conformance scenarios. A scenario is a
// YAML document declaring an automation sequence and a start position;
// the runner replays it against a capturing dispatcher and snapshots
// exactly what was dispatched, for comparison against golden files.
package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/foxhoundv/wingmix/internal/automation"
)

// Scenario defines one playback conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario; the golden file shares it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Sequence is the automation to replay, declared inline.
	Sequence ScenarioSequence `yaml:"sequence"`

	// StartPosition is the timeline offset playback starts from.
	StartPosition float64 `yaml:"start_position"`
}

// ScenarioSequence mirrors the automation document shape in YAML.
type ScenarioSequence struct {
	InitialState map[string]float64 `yaml:"initial_state"`
	Events       []ScenarioEvent    `yaml:"events"`
	Duration     float64            `yaml:"duration"`
}

// ScenarioEvent mirrors one timeline event in YAML.
type ScenarioEvent struct {
	Timestamp   float64 `yaml:"timestamp"`
	ChannelType string  `yaml:"channel_type"`
	ChannelNum  int     `yaml:"channel_num"`
	ParamType   string  `yaml:"param_type"`
	Value       float64 `yaml:"value"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("scenario %s: missing name", path)
	}
	if sc.StartPosition < 0 {
		return nil, fmt.Errorf("scenario %s: negative start_position", path)
	}
	if _, err := sc.Sequence.ToSequence(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &sc, nil
}

// ToSequence converts the YAML shape into a validated automation
// sequence.
func (s ScenarioSequence) ToSequence() (*automation.Sequence, error) {
	seq := &automation.Sequence{
		InitialState: automation.InitialState(s.InitialState),
		Events:       make([]automation.Event, 0, len(s.Events)),
		Duration:     s.Duration,
	}
	if seq.InitialState == nil {
		seq.InitialState = automation.InitialState{}
	}
	for _, e := range s.Events {
		seq.Events = append(seq.Events, automation.Event{
			Timestamp:   e.Timestamp,
			ChannelType: automation.ChannelType(e.ChannelType),
			ChannelNum:  e.ChannelNum,
			ParamType:   automation.ParamType(e.ParamType),
			Value:       e.Value,
		})
	}
	if err := seq.Validate(); err != nil {
		return nil, err
	}
	return seq, nil
}
