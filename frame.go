package main

import "sem_sim/core"

// StateFrame is the read model published to visualizers after every applied
// command. It is an independent copy of the observable state; consumers may
// hold it across steps.
type StateFrame struct {
	CurrentStep    int               `json:"currentStep"`
	IsPlaying      bool              `json:"isPlaying"`
	AnimationSpeed float64           `json:"animationSpeed"`
	Config         core.Config       `json:"config"`
	Semaphores     []SemaphoreView   `json:"semaphores"`
	Processes      []core.Process    `json:"processes"`
	Buffer         []core.BufferSlot `json:"buffer"`
	Stats          core.Statistics   `json:"statistics"`
	HistoryLength  int               `json:"historyLength"`
	LastAction     string            `json:"lastAction,omitempty"`
	LastProcessID  string            `json:"lastProcessId,omitempty"`
}

// SemaphoreView flattens a semaphore for transport.
type SemaphoreView struct {
	Name      string   `json:"name"`
	Value     int      `json:"value"`
	WaitQueue []string `json:"waitQueue"`
}

// BuildFrame snapshots the observable state into a frame.
func BuildFrame(st *core.State, lastAction, lastProcessID string) *StateFrame {
	frame := &StateFrame{
		CurrentStep:    st.CurrentStep,
		IsPlaying:      st.IsPlaying,
		AnimationSpeed: st.AnimationSpeed,
		Config:         st.Config,
		Semaphores:     make([]SemaphoreView, 0, len(st.Semaphores)),
		Processes:      make([]core.Process, len(st.Processes)),
		Buffer:         make([]core.BufferSlot, 0, len(st.Buffer)),
		Stats:          st.Stats,
		HistoryLength:  len(st.History),
		LastAction:     lastAction,
		LastProcessID:  lastProcessID,
	}
	for i := range st.Semaphores {
		sem := &st.Semaphores[i]
		queue := sem.WaitQueue.Items()
		if queue == nil {
			queue = []string{}
		}
		frame.Semaphores = append(frame.Semaphores, SemaphoreView{
			Name:      string(sem.Name),
			Value:     sem.Value,
			WaitQueue: queue,
		})
	}
	copy(frame.Processes, st.Processes)
	for i := range st.Buffer {
		slot := st.Buffer[i]
		if slot.Item != nil {
			item := *slot.Item
			slot.Item = &item
		}
		frame.Buffer = append(frame.Buffer, slot)
	}
	return frame
}
