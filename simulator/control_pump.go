package simulator

import (
	"context"

	"sem_sim/visual"
)

// Apply submits one control command to the engine wrapper and reports
// whether the pump should keep running.
type Apply func(visual.ControlCommand) bool

// ControlPump moves control commands from a frontend into the engine
// between autoplay ticks. It owns no goroutine: Drain runs on the
// simulation loop, so commands are applied strictly in arrival order and
// never race a tick.
type ControlPump struct {
	frontend visual.Frontend
	apply    Apply
}

// NewControlPump wires a frontend's command feed to the engine wrapper.
func NewControlPump(frontend visual.Frontend, apply Apply) *ControlPump {
	return &ControlPump{
		frontend: frontend,
		apply:    apply,
	}
}

// Drain applies every queued command until the feed is empty or apply asks
// to stop. Returns false when the pump should shut down.
func (p *ControlPump) Drain() bool {
	if p == nil || p.frontend == nil || p.apply == nil {
		return true
	}
	for {
		cmd, ok := p.frontend.NextCommand()
		if !ok {
			return true
		}
		if !p.apply(cmd) {
			return false
		}
	}
}

// WaitOne blocks for the next command (or context cancellation) and
// applies it. Returns false when the pump should shut down.
func (p *ControlPump) WaitOne(ctx context.Context) bool {
	if p == nil || p.frontend == nil || p.apply == nil {
		return true
	}
	cmd, ok := p.frontend.WaitCommand(ctx)
	if !ok {
		return true
	}
	return p.apply(cmd)
}
