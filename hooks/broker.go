package hooks

import (
	"sync"

	"sem_sim/core"
)

// PluginCategory represents the high-level role of a plugin.
type PluginCategory string

const (
	// PluginCategoryVisualization covers UI, frame, or monitoring plugins.
	PluginCategoryVisualization PluginCategory = "visualization"
	// PluginCategoryInstrumentation covers logging, metrics, and diagnostics.
	PluginCategoryInstrumentation PluginCategory = "instrumentation"
	// PluginCategoryExport covers trace and document exporters.
	PluginCategoryExport PluginCategory = "export"
)

// PluginDescriptor describes a plugin registered with the broker.
type PluginDescriptor struct {
	Name        string
	Category    PluginCategory
	Description string
}

// StepContext carries information for step hooks. The snapshot points into
// the engine's history and must be treated as read-only.
type StepContext struct {
	Step     int
	Action   string
	Process  string
	Snapshot *core.Snapshot
}

// StepHook runs after each successful micro-step.
type StepHook func(ctx *StepContext) error

// BlockContext carries information for block and wake hooks.
type BlockContext struct {
	Step      int
	Process   string
	Semaphore core.SemaphoreName
}

// BlockHook runs when a process blocks on a semaphore.
type BlockHook func(ctx *BlockContext) error

// WakeHook runs when a signal hand-off wakes a queued process.
type WakeHook func(ctx *BlockContext) error

// LifecycleContext carries information for config/reset/restore hooks.
type LifecycleContext struct {
	Event core.EventType
	Step  int
}

// LifecycleHook runs on configuration installs, resets, and history
// restores.
type LifecycleHook func(ctx *LifecycleContext) error

// IntegrityHook runs when the scheduler detects a blocked process awaiting
// a semaphore with available permits.
type IntegrityHook func(ctx *BlockContext) error

// Broker coordinates hook registration and dispatch. It implements
// core.Observer so it can be attached to an engine directly.
type Broker struct {
	mu sync.RWMutex

	stepHooks      []StepHook
	blockHooks     []BlockHook
	wakeHooks      []WakeHook
	lifecycleHooks []LifecycleHook
	integrityHooks []IntegrityHook

	catalog map[PluginCategory][]PluginDescriptor
	index   map[string]PluginDescriptor

	errs []error
}

// NewBroker creates an empty broker instance.
func NewBroker() *Broker {
	return &Broker{
		catalog: make(map[PluginCategory][]PluginDescriptor),
		index:   make(map[string]PluginDescriptor),
	}
}

// Describe registers a plugin descriptor for listing purposes. Re-using a
// name overwrites the previous descriptor.
func (b *Broker) Describe(desc PluginDescriptor) {
	if b == nil || desc.Name == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if prev, ok := b.index[desc.Name]; ok {
		entries := b.catalog[prev.Category]
		for i := range entries {
			if entries[i].Name == desc.Name {
				b.catalog[prev.Category] = append(entries[:i], entries[i+1:]...)
				break
			}
		}
	}
	b.index[desc.Name] = desc
	b.catalog[desc.Category] = append(b.catalog[desc.Category], desc)
}

// Plugins returns descriptors for a category in registration order.
func (b *Broker) Plugins(category PluginCategory) []PluginDescriptor {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	entries := b.catalog[category]
	res := make([]PluginDescriptor, len(entries))
	copy(res, entries)
	return res
}

// RegisterStep adds a hook executed after each successful micro-step.
func (b *Broker) RegisterStep(h StepHook) {
	if b == nil || h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stepHooks = append(b.stepHooks, h)
}

// RegisterBlock adds a hook executed when a process blocks.
func (b *Broker) RegisterBlock(h BlockHook) {
	if b == nil || h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blockHooks = append(b.blockHooks, h)
}

// RegisterWake adds a hook executed when a hand-off wakes a process.
func (b *Broker) RegisterWake(h WakeHook) {
	if b == nil || h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.wakeHooks = append(b.wakeHooks, h)
}

// RegisterLifecycle adds a hook executed on config/reset/restore events.
func (b *Broker) RegisterLifecycle(h LifecycleHook) {
	if b == nil || h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lifecycleHooks = append(b.lifecycleHooks, h)
}

// RegisterIntegrity adds a hook executed on integrity violations.
func (b *Broker) RegisterIntegrity(h IntegrityHook) {
	if b == nil || h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.integrityHooks = append(b.integrityHooks, h)
}

// OnEvent dispatches an engine event to the matching hook list. Hook errors
// are collected, not propagated; the engine never observes them.
func (b *Broker) OnEvent(ev core.Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	steps := b.stepHooks
	blocks := b.blockHooks
	wakes := b.wakeHooks
	lifecycle := b.lifecycleHooks
	integrity := b.integrityHooks
	b.mu.RUnlock()

	switch ev.Type {
	case core.EventStepApplied:
		ctx := &StepContext{Step: ev.Step, Action: ev.Action, Process: ev.ProcessID, Snapshot: ev.Snapshot}
		for _, h := range steps {
			b.collect(h(ctx))
		}
	case core.EventProcessBlocked:
		ctx := &BlockContext{Step: ev.Step, Process: ev.ProcessID, Semaphore: ev.Semaphore}
		for _, h := range blocks {
			b.collect(h(ctx))
		}
	case core.EventProcessWoken:
		ctx := &BlockContext{Step: ev.Step, Process: ev.ProcessID, Semaphore: ev.Semaphore}
		for _, h := range wakes {
			b.collect(h(ctx))
		}
	case core.EventConfigInstalled, core.EventSimulationReset, core.EventHistoryRestored:
		ctx := &LifecycleContext{Event: ev.Type, Step: ev.Step}
		for _, h := range lifecycle {
			b.collect(h(ctx))
		}
	case core.EventIntegrityViolation:
		ctx := &BlockContext{Step: ev.Step, Process: ev.ProcessID, Semaphore: ev.Semaphore}
		for _, h := range integrity {
			b.collect(h(ctx))
		}
	}
}

func (b *Broker) collect(err error) {
	if err == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.errs = append(b.errs, err)
}

// Errors drains and returns hook errors collected since the last call.
func (b *Broker) Errors() []error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	errs := b.errs
	b.errs = nil
	return errs
}
