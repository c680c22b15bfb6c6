package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/foxhoundv/wingmix/internal/automation"
	"github.com/foxhoundv/wingmix/internal/player"
	"github.com/foxhoundv/wingmix/internal/testutil"
)

// DispatchRecord is one captured dispatch, stripped of wall-clock timing
// so snapshots are byte-stable.
type DispatchRecord struct {
	ChannelType string  `json:"channel_type"`
	ChannelNum  int     `json:"channel_num"`
	ParamType   string  `json:"param_type"`
	Value       float64 `json:"value"`
}

// TraceSnapshot is the full dispatch trace of one scenario run.
//
// Baseline holds the initial-state dispatches, sorted by address since
// the player applies them in unspecified order. Timeline holds the timed
// event dispatches in the order they fired.
type TraceSnapshot struct {
	ScenarioName  string           `json:"scenario_name"`
	StartPosition float64          `json:"start_position"`
	Baseline      []DispatchRecord `json:"baseline"`
	Timeline      []DispatchRecord `json:"timeline"`
}

// Marshal renders the snapshot as deterministic indented JSON.
func (s *TraceSnapshot) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal trace snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// Run replays the scenario to completion against a capturing dispatcher
// and returns the dispatch trace.
func Run(ctx context.Context, sc *Scenario) (*TraceSnapshot, error) {
	seq, err := sc.Sequence.ToSequence()
	if err != nil {
		return nil, err
	}

	d := testutil.NewCaptureDispatcher()
	p := player.New(d)
	p.LoadSequence(seq)

	if err := p.StartPlayback(ctx, sc.StartPosition); err != nil {
		return nil, fmt.Errorf("start playback: %w", err)
	}
	select {
	case <-p.Done():
	case <-ctx.Done():
		p.StopPlayback()
		return nil, ctx.Err()
	}

	return snapshot(sc, seq, d.Calls()), nil
}

func snapshot(sc *Scenario, seq *automation.Sequence, calls []testutil.DispatchCall) *TraceSnapshot {
	// The baseline applies synchronously before any timed event, so it
	// occupies the first len(initial_state) calls when starting at zero.
	baselineCount := 0
	if sc.StartPosition == 0 {
		baselineCount = len(seq.InitialState)
	}

	snap := &TraceSnapshot{
		ScenarioName:  sc.Name,
		StartPosition: sc.StartPosition,
		Baseline:      make([]DispatchRecord, 0, baselineCount),
		Timeline:      make([]DispatchRecord, 0, len(calls)-baselineCount),
	}
	for i, call := range calls {
		rec := DispatchRecord{
			ChannelType: string(call.ChannelType),
			ChannelNum:  call.ChannelNum,
			ParamType:   string(call.ParamType),
			Value:       call.Value,
		}
		if i < baselineCount {
			snap.Baseline = append(snap.Baseline, rec)
		} else {
			snap.Timeline = append(snap.Timeline, rec)
		}
	}

	sort.Slice(snap.Baseline, func(i, j int) bool {
		a, b := snap.Baseline[i], snap.Baseline[j]
		if a.ChannelType != b.ChannelType {
			return a.ChannelType < b.ChannelType
		}
		if a.ChannelNum != b.ChannelNum {
			return a.ChannelNum < b.ChannelNum
		}
		return a.ParamType < b.ParamType
	})
	return snap
}
