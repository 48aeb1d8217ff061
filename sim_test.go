package main

import (
	"testing"

	"sem_sim/core"
	"sem_sim/hooks"
	"sem_sim/visual"
)

func newHeadlessSim(t *testing.T, cfg core.Config) *Simulator {
	t.Helper()
	sim, err := NewSimulator(cfg, nil, visual.Discard{})
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	return sim
}

func TestSimulatorAppliesCommands(t *testing.T) {
	sim := newHeadlessSim(t, core.Config{BufferSize: 1, ProducerCount: 1, ConsumerCount: 1, AnimationSpeed: 1.0})

	res := sim.Apply(core.Command{Type: core.CmdStepForward})
	if res.Outcome != core.OutcomeApplied {
		t.Fatalf("step failed: %+v", res)
	}
	frame := sim.Frame()
	if frame.CurrentStep != 1 || frame.LastAction != "P1 acquired empty semaphore" {
		t.Fatalf("frame after step: step=%d action=%q", frame.CurrentStep, frame.LastAction)
	}
}

func TestSimulatorFrameIsIsolated(t *testing.T) {
	sim := newHeadlessSim(t, core.Config{BufferSize: 1, ProducerCount: 1, ConsumerCount: 1, AnimationSpeed: 1.0})
	sim.Apply(core.Command{Type: core.CmdStepForward})
	sim.Apply(core.Command{Type: core.CmdStepForward})

	frame := sim.Frame()
	frame.Semaphores[0].Value = 99
	frame.Buffer[0].Item.ID = "tampered"
	frame.Processes[0].ItemsProcessed = 7

	fresh := sim.Frame()
	if fresh.Semaphores[0].Value == 99 || fresh.Buffer[0].Item.ID == "tampered" || fresh.Processes[0].ItemsProcessed == 7 {
		t.Fatalf("frame mutation leaked into live state")
	}
}

func TestSimulatorHookPluginsFire(t *testing.T) {
	sim := newHeadlessSim(t, core.Config{BufferSize: 1, ProducerCount: 2, ConsumerCount: 1, AnimationSpeed: 1.0})

	steps := 0
	blocks := 0
	sim.Broker().Describe(hooks.PluginDescriptor{
		Name:        "test-counter",
		Category:    hooks.PluginCategoryInstrumentation,
		Description: "counts steps and blocks",
	})
	sim.Broker().RegisterStep(func(ctx *hooks.StepContext) error { steps++; return nil })
	sim.Broker().RegisterBlock(func(ctx *hooks.BlockContext) error { blocks++; return nil })

	sim.Apply(core.Command{Type: core.CmdStepForward}) // P1 acquires
	sim.Apply(core.Command{Type: core.CmdStepForward}) // P1 produces
	sim.Apply(core.Command{Type: core.CmdStepForward}) // P1 blocks on empty

	if steps != 2 {
		t.Fatalf("expected 2 step hook calls, got %d", steps)
	}
	if blocks != 1 {
		t.Fatalf("expected 1 block hook call, got %d", blocks)
	}
	if errs := sim.Broker().Errors(); len(errs) != 0 {
		t.Fatalf("unexpected hook errors: %v", errs)
	}
}

func TestSimulatorHistorySnapshotsAreCopies(t *testing.T) {
	sim := newHeadlessSim(t, core.Config{BufferSize: 2, ProducerCount: 1, ConsumerCount: 1, AnimationSpeed: 1.0})
	sim.Apply(core.Command{Type: core.CmdStepForward})
	sim.Apply(core.Command{Type: core.CmdStepForward})

	history := sim.HistorySnapshots()
	if len(history) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(history))
	}
	history[1].Buffer[0].Item.ID = "tampered"

	again := sim.HistorySnapshots()
	if again[1].Buffer[0].Item.ID == "tampered" {
		t.Fatalf("history snapshot copies share storage")
	}
}
