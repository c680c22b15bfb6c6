// Package player replays recorded mixer automation with the original
// timing, optionally resuming from an arbitrary timeline position.
package player

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/foxhoundv/wingmix/internal/automation"
	"github.com/foxhoundv/wingmix/internal/document"
)

// Dispatcher delivers a single parameter change to the mixer. The call
// completes when the command has been sent, not necessarily acknowledged.
// Implementations decide the physical addressing; an unknown param kind
// must be skipped, not failed.
type Dispatcher interface {
	Dispatch(ctx context.Context, ct automation.ChannelType, num int, pt automation.ParamType, value float64) error
}

// State is the player's lifecycle state.
type State int

const (
	// StateIdle means no sequence is loaded.
	StateIdle State = iota
	// StateLoaded means a sequence is loaded and playback is not running.
	StateLoaded
	// StatePlaying means the playback loop is active.
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoaded:
		return "loaded"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// Player owns at most one loaded sequence and at most one active playback
// run. The playback loop runs as a goroutine the caller does not block
// on; StopPlayback cancels it and returns only once it has exited, so no
// dispatch can happen after StopPlayback returns.
//
// Thread-safety: all methods are safe for concurrent use.
type Player struct {
	mu         sync.Mutex
	state      State
	seq        *automation.Sequence
	position   float64
	cancel     context.CancelFunc
	done       chan struct{}
	dispatcher Dispatcher
	log        *slog.Logger
}

// Option configures a Player.
type Option func(*Player)

// WithLogger sets the logger used for dispatch failures and skipped
// events. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(p *Player) {
		p.log = log
	}
}

// New creates an idle Player that applies parameter changes through d.
func New(d Dispatcher, opts ...Option) *Player {
	p := &Player{
		dispatcher: d,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LoadAutomation reads, validates, and loads the automation document at
// path, replacing any previously loaded sequence. A run that is already
// playing keeps iterating the sequence it started with; the new one takes
// effect on the next StartPlayback.
func (p *Player) LoadAutomation(path string) error {
	seq, err := document.Load(path)
	if err != nil {
		return err
	}
	p.LoadSequence(seq)
	return nil
}

// LoadSequence loads an in-memory sequence, replacing any previous one.
// The sequence must not be mutated by the caller afterwards.
func (p *Player) LoadSequence(seq *automation.Sequence) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seq = seq
	if p.state == StateIdle {
		p.state = StateLoaded
	}
}

// StartPlayback begins replaying the loaded sequence from the given
// timeline position (seconds). If a run is already playing it is stopped
// first; two loops never run concurrently.
//
// When from is exactly 0 every initial-state entry is applied through the
// dispatcher, in unspecified order, before any timed event. The baseline
// is part of the playback run, so StopPlayback interrupts it too.
// Starting mid-timeline skips the baseline on purpose: the mixer is
// assumed to already be near the right state when resuming.
//
// The playback loop runs as a goroutine; ctx cancels it the same way
// StopPlayback does.
func (p *Player) StartPlayback(ctx context.Context, from float64) error {
	if from < 0 {
		return fmt.Errorf("playback position %v out of range", from)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.seq == nil {
		return &NotLoadedError{}
	}

	// Re-arm: wind down a previous run before starting another. The lock
	// is dropped only while waiting for the old loop and the state is
	// re-checked after reacquiring it, so concurrent starters serialize
	// instead of both launching a loop.
	for p.state == StatePlaying {
		cancel, done := p.cancel, p.done
		p.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		<-done
		p.mu.Lock()
	}

	seq := p.seq
	p.position = from

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.state = StatePlaying
	p.cancel = cancel
	p.done = done

	go p.run(runCtx, seq, from, done)
	return nil
}

// StopPlayback cancels the active playback run and waits for its loop to
// exit. After it returns, no further dispatches occur, including one that
// was about to fire during a suspended wait. Stopping an idle player is a
// no-op.
func (p *Player) StopPlayback() {
	p.mu.Lock()
	if p.state != StatePlaying {
		p.mu.Unlock()
		return
	}
	cancel, done := p.cancel, p.done
	p.state = StateLoaded
	p.cancel = nil
	p.mu.Unlock()

	cancel()
	<-done
}

// State returns the current lifecycle state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Position returns the logical timeline position in seconds: the start
// offset until the first dispatch, then the timestamp of the most
// recently dispatched event.
func (p *Player) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

// Done returns a channel closed when the current playback run's loop has
// exited. If no run was ever started the returned channel is already
// closed.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return p.done
}

// applyInitialState pushes the baseline snapshot to the mixer. A failing
// entry is logged and the rest still apply; cancellation stops the
// baseline mid-way.
func (p *Player) applyInitialState(ctx context.Context, initial automation.InitialState) {
	for key, value := range initial {
		if ctx.Err() != nil {
			return
		}
		ct, num, pt, err := automation.ParseStateKey(key)
		if err != nil {
			p.log.Warn("skipping unparseable state key", "key", key, "error", err)
			continue
		}
		if err := p.dispatcher.Dispatch(ctx, ct, num, pt, value); err != nil {
			p.log.Warn("initial state dispatch failed", "key", key, "error", err)
		}
	}
}

// run is the playback loop. Event timestamps are absolute recording time;
// subtracting the starting offset converts them to time since loop start,
// which is compared against the real elapsed wall clock. Events stamped
// before the starting offset are treated as already passed.
func (p *Player) run(ctx context.Context, seq *automation.Sequence, from float64, done chan struct{}) {
	defer func() {
		p.mu.Lock()
		if p.done == done && p.state == StatePlaying {
			p.state = StateLoaded
			p.cancel = nil
		}
		p.mu.Unlock()
		close(done)
	}()

	if from == 0 {
		p.applyInitialState(ctx, seq.InitialState)
	}
	if ctx.Err() != nil {
		return
	}

	t0 := time.Now()
	for _, e := range seq.Events {
		if ctx.Err() != nil {
			return
		}
		if e.Timestamp < from {
			continue
		}

		target := secondsToDuration(e.Timestamp - from)
		if wait := target - time.Since(t0); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
		// The wait may lose the race with cancellation; a stopped run
		// must not let one more event fire.
		if ctx.Err() != nil {
			return
		}

		if err := p.dispatcher.Dispatch(ctx, e.ChannelType, e.ChannelNum, e.ParamType, e.Value); err != nil {
			p.log.Warn("dispatch failed, continuing playback",
				"channel_type", e.ChannelType,
				"channel_num", e.ChannelNum,
				"param_type", e.ParamType,
				"error", err)
		}

		p.mu.Lock()
		p.position = e.Timestamp
		p.mu.Unlock()
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
