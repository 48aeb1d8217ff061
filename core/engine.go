package core

import (
	"fmt"
	"time"

	"sem_sim/policy"
)

// Engine owns the simulation state and interprets external commands. It is
// single-threaded by design: callers serialize access, commands run to
// completion, and nothing inside ever blocks.
type Engine struct {
	state    *State
	order    policy.Order
	now      func() time.Time
	observer Observer
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithClock replaces the wall clock used for start_time. Stepping never
// consults the clock; only StartSimulation does. The trace exporter reads
// the recorded start time, not this clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithOrder replaces the scheduling scan order. Any deterministic order
// satisfies the replay guarantees; declaration order is the default.
func WithOrder(order policy.Order) Option {
	return func(e *Engine) {
		if order != nil {
			e.order = order
		}
	}
}

// WithObserver attaches an observer notified after each applied command.
func WithObserver(obs Observer) Option {
	return func(e *Engine) {
		e.observer = obs
	}
}

// NewEngine builds an engine with freshly constructed entities for cfg.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	e := &Engine{
		state: &State{},
		order: policy.DeclarationOrder(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state.rebuildEntities(cfg)
	e.state.AnimationSpeed = cfg.AnimationSpeed
	e.state.IsPlaying = false
	return e, nil
}

// State returns the live simulation state. Callers treat it as read-only;
// history snapshots are isolated from any mutation regardless.
func (e *Engine) State() *State {
	if e == nil {
		return nil
	}
	return e.state
}

// Order returns the active scheduling policy.
func (e *Engine) Order() policy.Order {
	if e == nil {
		return nil
	}
	return e.order
}

// Apply interprets one command. Invalid inputs and ineffective toggles are
// silently rejected: the state is returned unchanged and the outcome says
// so. Apply never fails.
func (e *Engine) Apply(cmd Command) Result {
	if e == nil || e.state == nil {
		return Result{Outcome: OutcomeRejected}
	}

	switch cmd.Type {
	case CmdSetConfig:
		return e.applySetConfig(cmd.Config)
	case CmdStart:
		return e.applyStart()
	case CmdPause:
		return e.applyPause()
	case CmdStepForward:
		return e.applyStepForward()
	case CmdStepBackward:
		return e.applyStepBackward()
	case CmdJumpToStep:
		return e.applyJumpToStep(cmd.Target)
	case CmdSetSpeed:
		return e.applySetSpeed(cmd.Speed)
	case CmdReset:
		return e.applyReset()
	}
	return Result{Outcome: OutcomeRejected}
}

func (e *Engine) applySetConfig(cfg *Config) Result {
	if cfg == nil || cfg.Validate() != nil {
		return Result{Outcome: OutcomeRejected}
	}
	st := e.state
	st.rebuildEntities(*cfg)
	st.AnimationSpeed = cfg.AnimationSpeed
	st.IsPlaying = false
	st.StartTime = time.Time{}
	e.emit(Event{Type: EventConfigInstalled})
	return Result{Outcome: OutcomeApplied}
}

func (e *Engine) applyStart() Result {
	st := e.state
	if st.IsPlaying {
		return Result{Outcome: OutcomeRejected}
	}
	st.IsPlaying = true
	if now := e.now(); now.After(st.StartTime) {
		st.StartTime = now
	}
	return Result{Outcome: OutcomeApplied}
}

func (e *Engine) applyPause() Result {
	st := e.state
	if !st.IsPlaying {
		return Result{Outcome: OutcomeRejected}
	}
	st.IsPlaying = false
	return Result{Outcome: OutcomeApplied}
}

func (e *Engine) applyStepForward() Result {
	st := e.state

	idx := st.pickNext(e.order)
	if idx < 0 {
		for _, ev := range st.integrityViolations() {
			e.emit(ev)
		}
		return Result{Outcome: OutcomeQuiescent}
	}

	res := st.microStep(st.Processes[idx].ID)
	if res.progressed {
		st.recomputeStats(res.produced, res.consumed)
		snap := st.snapshot(len(st.History)+1, res.action, res.pid)
		st.History = append(st.History, snap)
		st.CurrentStep = len(st.History)
		e.emit(Event{
			Type:      EventStepApplied,
			Step:      snap.StepNumber,
			Action:    snap.Action,
			ProcessID: snap.ProcessID,
			Snapshot:  &st.History[len(st.History)-1],
		})
	}
	for _, ev := range res.events {
		ev.Step = st.CurrentStep
		e.emit(ev)
	}
	return Result{Outcome: OutcomeApplied, Action: res.action, ProcessID: res.pid}
}

func (e *Engine) applyStepBackward() Result {
	st := e.state
	if st.CurrentStep == 0 {
		return Result{Outcome: OutcomeRejected}
	}
	e.restoreToStep(st.CurrentStep - 1)
	e.emit(Event{Type: EventHistoryRestored, Step: st.CurrentStep})
	return Result{Outcome: OutcomeApplied}
}

func (e *Engine) applyJumpToStep(target int) Result {
	st := e.state
	if target < 0 || target > len(st.History) {
		return Result{Outcome: OutcomeRejected}
	}
	e.restoreToStep(target)
	e.emit(Event{Type: EventHistoryRestored, Step: st.CurrentStep})
	return Result{Outcome: OutcomeApplied}
}

// restoreToStep moves the live state to the given step number, rebuilding
// the initial entities when the target is zero. Animation speed, the
// playing flag, and the configuration survive the restore; the snapshot at
// index target-1 describes the just-completed step.
func (e *Engine) restoreToStep(target int) {
	st := e.state
	if target == 0 {
		speed := st.AnimationSpeed
		playing := st.IsPlaying
		start := st.StartTime
		st.rebuildEntities(st.Config)
		st.AnimationSpeed = speed
		st.IsPlaying = playing
		st.StartTime = start
		return
	}
	st.restore(st.History[target-1])
}

func (e *Engine) applySetSpeed(speed float64) Result {
	if ValidateSpeed(speed) != nil {
		return Result{Outcome: OutcomeRejected}
	}
	e.state.AnimationSpeed = speed
	return Result{Outcome: OutcomeApplied}
}

func (e *Engine) applyReset() Result {
	st := e.state
	speed := st.AnimationSpeed
	st.rebuildEntities(st.Config)
	st.AnimationSpeed = speed
	st.IsPlaying = false
	st.StartTime = time.Time{}
	e.emit(Event{Type: EventSimulationReset})
	return Result{Outcome: OutcomeApplied}
}

func (e *Engine) emit(ev Event) {
	if e.observer != nil {
		e.observer.OnEvent(ev)
	}
}

func producerID(n int) string { return fmt.Sprintf("P%d", n) }
func consumerID(n int) string { return fmt.Sprintf("C%d", n) }
