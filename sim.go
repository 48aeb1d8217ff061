package main

import (
	"context"
	"sync"
	"time"

	"sem_sim/core"
	"sem_sim/hooks"
	"sem_sim/policy"
	"sem_sim/simulator"
	"sem_sim/trace"
	"sem_sim/visual"
)

// Simulator wraps the engine with the glue the outer surfaces need:
// serialized access, the hooks broker, frame publication, and the autoplay
// loop. The engine itself stays single-threaded; every touch goes through
// the mutex here.
type Simulator struct {
	mu       sync.Mutex
	engine   *core.Engine
	broker   *hooks.Broker
	frontend visual.Frontend

	lastAction  string
	lastProcess string
}

// NewSimulator builds a simulator for the given configuration. The broker
// is attached as the engine observer before any command runs.
func NewSimulator(cfg core.Config, order policy.Order, frontend visual.Frontend) (*Simulator, error) {
	if frontend == nil {
		frontend = visual.Discard{}
	}
	s := &Simulator{
		broker:   hooks.NewBroker(),
		frontend: frontend,
	}
	opts := []core.Option{core.WithObserver(s.broker)}
	if order != nil {
		opts = append(opts, core.WithOrder(order))
	}
	engine, err := core.NewEngine(cfg, opts...)
	if err != nil {
		return nil, err
	}
	s.engine = engine
	s.registerDefaultPlugins()
	return s, nil
}

// registerDefaultPlugins wires step logging and the quiescence warning.
func (s *Simulator) registerDefaultPlugins() {
	s.broker.Describe(hooks.PluginDescriptor{
		Name:        "step-log",
		Category:    hooks.PluginCategoryInstrumentation,
		Description: "logs every applied micro-step",
	})
	s.broker.RegisterStep(func(ctx *hooks.StepContext) error {
		GetLogger().Debugf("step %d: %s", ctx.Step, ctx.Action)
		return nil
	})
	s.broker.RegisterBlock(func(ctx *hooks.BlockContext) error {
		GetLogger().Debugf("%s blocked on %s", ctx.Process, ctx.Semaphore)
		return nil
	})
	s.broker.RegisterIntegrity(func(ctx *hooks.BlockContext) error {
		GetLogger().Warnf("integrity: %s blocked on %s although permits are available", ctx.Process, ctx.Semaphore)
		return nil
	})
}

// Broker exposes the hooks broker for plugin registration.
func (s *Simulator) Broker() *hooks.Broker {
	return s.broker
}

// Apply serializes one command into the engine and publishes the resulting
// frame.
func (s *Simulator) Apply(cmd core.Command) core.Result {
	s.mu.Lock()
	res := s.engine.Apply(cmd)
	if res.Action != "" {
		s.lastAction = res.Action
		s.lastProcess = res.ProcessID
	}
	frame := BuildFrame(s.engine.State(), s.lastAction, s.lastProcess)
	s.mu.Unlock()

	if s.frontend != nil && !s.frontend.Headless() {
		s.frontend.ShowFrame(frame)
	}
	return res
}

// Frame returns the current read model.
func (s *Simulator) Frame() *StateFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BuildFrame(s.engine.State(), s.lastAction, s.lastProcess)
}

// HistorySnapshots returns independent copies of the recorded history.
func (s *Simulator) HistorySnapshots() []core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := s.engine.State().History
	res := make([]core.Snapshot, len(history))
	for i := range history {
		res[i] = history[i].Clone()
	}
	return res
}

// ExportJSON renders the trace document as indented JSON.
func (s *Simulator) ExportJSON(exporter *trace.Exporter) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return exporter.JSON(s.engine.State())
}

// ExportText renders the human-readable trace form.
func (s *Simulator) ExportText(exporter *trace.Exporter) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return exporter.Document(s.engine.State()).Text()
}

// IsPlaying reports whether autoplay stepping is active.
func (s *Simulator) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.State().IsPlaying
}

// Speed returns the current animation speed.
func (s *Simulator) Speed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.State().AnimationSpeed
}

// Run drives the simulator until the context is cancelled: external
// commands drain between ticks and autoplay issues step-forward commands
// at the cadence derived from the animation speed.
func (s *Simulator) Run(ctx context.Context) {
	pump := simulator.NewControlPump(s.frontend, func(cmd visual.ControlCommand) bool {
		res := s.Apply(cmd.Command)
		GetLogger().Debugf("command %s from %s: %s", cmd.Command.Type, cmd.Origin, res.Outcome)
		return true
	})

	play := simulator.NewAutoplay(
		func() time.Duration { return simulator.Interval(s.Speed()) },
		s.IsPlaying,
		func() { s.Apply(core.Command{Type: core.CmdStepForward}) },
		pump.Drain,
	)
	play.Run(ctx)
}
