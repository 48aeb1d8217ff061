package core

// cloneSemaphores deep-copies the semaphore records including wait queues.
func cloneSemaphores(sems []Semaphore) []Semaphore {
	res := make([]Semaphore, len(sems))
	for i := range sems {
		res[i] = sems[i]
		res[i].WaitQueue = sems[i].WaitQueue.Clone()
	}
	return res
}

// cloneProcesses copies the process records. Process holds no references,
// so a slice copy is a deep copy.
func cloneProcesses(procs []Process) []Process {
	res := make([]Process, len(procs))
	copy(res, procs)
	return res
}

// cloneBuffer deep-copies the buffer slots and their items.
func cloneBuffer(slots []BufferSlot) []BufferSlot {
	res := make([]BufferSlot, len(slots))
	for i := range slots {
		res[i] = slots[i]
		if slots[i].Item != nil {
			item := *slots[i].Item
			res[i].Item = &item
		}
	}
	return res
}

// snapshot captures a deep, independent copy of the dynamic state. Later
// mutation of the live state cannot affect it.
func (s *State) snapshot(stepNumber int, action, pid string) Snapshot {
	return Snapshot{
		StepNumber: stepNumber,
		Action:     action,
		ProcessID:  pid,
		StartTime:  s.StartTime,
		Semaphores: cloneSemaphores(s.Semaphores),
		Processes:  cloneProcesses(s.Processes),
		Buffer:     cloneBuffer(s.Buffer),
		Stats:      s.Stats,
	}
}

// Clone returns an independent deep copy of a snapshot.
func (snap Snapshot) Clone() Snapshot {
	res := snap
	res.Semaphores = cloneSemaphores(snap.Semaphores)
	res.Processes = cloneProcesses(snap.Processes)
	res.Buffer = cloneBuffer(snap.Buffer)
	return res
}

// restore deep-copies a snapshot back into the live state and truncates
// history to that snapshot's step. Config, animation speed, and the playing
// flag are left untouched.
func (s *State) restore(snap Snapshot) {
	s.Semaphores = cloneSemaphores(snap.Semaphores)
	s.Processes = cloneProcesses(snap.Processes)
	s.Buffer = cloneBuffer(snap.Buffer)
	s.Stats = snap.Stats
	s.StartTime = snap.StartTime
	s.CurrentStep = snap.StepNumber
	s.History = s.History[:snap.StepNumber]
	s.reindex()
}

// rebuildEntities constructs fresh semaphores, processes, and buffer slots
// from the given configuration, clearing history and statistics.
func (s *State) rebuildEntities(cfg Config) {
	s.Config = cfg

	s.Semaphores = []Semaphore{
		{Name: SemEmpty, Value: cfg.BufferSize},
		{Name: SemFull, Value: 0},
		{Name: SemMutex, Value: 1},
	}

	s.Processes = make([]Process, 0, cfg.ProducerCount+cfg.ConsumerCount)
	for i := 1; i <= cfg.ProducerCount; i++ {
		s.Processes = append(s.Processes, Process{
			ID:        producerID(i),
			Kind:      KindProducer,
			State:     StateReady,
			Operation: OpNone,
			WaitingOn: SemNone,
		})
	}
	for i := 1; i <= cfg.ConsumerCount; i++ {
		s.Processes = append(s.Processes, Process{
			ID:        consumerID(i),
			Kind:      KindConsumer,
			State:     StateReady,
			Operation: OpNone,
			WaitingOn: SemNone,
		})
	}

	s.Buffer = make([]BufferSlot, cfg.BufferSize)
	for i := range s.Buffer {
		s.Buffer[i] = BufferSlot{ID: i}
	}

	s.CurrentStep = 0
	s.History = nil
	s.Stats = Statistics{}
	s.reindex()
}
