package core

import "fmt"

// stepResult describes the effect of one micro-step attempt.
type stepResult struct {
	progressed bool // true when the attempt completes a micro-step (history is appended)
	action     string
	pid        string
	produced   bool
	consumed   bool
	events     []Event
}

// microStep executes one phase of the canonical algorithm for the given
// process. A blocked attempt mutates wait queues and the process record but
// reports progressed=false so no history entry is created for it.
func (s *State) microStep(pid string) stepResult {
	p := s.process(pid)
	if p == nil {
		return stepResult{}
	}
	switch p.Kind {
	case KindProducer:
		return s.producerStep(p)
	case KindConsumer:
		return s.consumerStep(p)
	}
	return stepResult{}
}

// producerStep runs one phase of: wait(empty); wait(mutex); place item;
// signal(mutex); signal(full). The two wait calls are separate micro-steps;
// everything from the mutex acquisition to the final signal is a single
// indivisible transition.
func (s *State) producerStep(p *Process) stepResult {
	res := stepResult{pid: p.ID}

	switch {
	case p.Operation == OpWaiting && p.State == StateReady:
		// Woken by a hand-off on empty: the permit is already held, so the
		// wait is not re-run.
		p.Operation = OpProducing
		p.State = StateRunning
		res.progressed = true
		res.action = fmt.Sprintf("%s acquired empty semaphore", p.ID)

	case p.Operation == OpNone:
		if s.wait(SemEmpty, p.ID) {
			p.Operation = OpProducing
			res.progressed = true
			res.action = fmt.Sprintf("%s acquired empty semaphore", p.ID)
		} else {
			p.Operation = OpWaiting
			res.action = fmt.Sprintf("%s waiting for empty slot", p.ID)
			res.events = append(res.events, Event{Type: EventProcessBlocked, ProcessID: p.ID, Semaphore: SemEmpty})
		}

	case p.Operation == OpProducing:
		// A ready process in this phase was woken by a mutex hand-off and
		// already holds the lock; a running one still has to take it.
		if p.State == StateRunning {
			if !s.wait(SemMutex, p.ID) {
				res.action = fmt.Sprintf("%s waiting for mutex", p.ID)
				res.events = append(res.events, Event{Type: EventProcessBlocked, ProcessID: p.ID, Semaphore: SemMutex})
				return res
			}
		} else {
			p.State = StateRunning
		}
		slot := s.firstFreeSlot()
		if slot != nil {
			step := len(s.History) + 1
			slot.Occupied = true
			slot.Item = &Item{
				ID:         fmt.Sprintf("item-%d-%s", step, p.ID),
				ProducedBy: p.ID,
				Timestamp:  step,
			}
		}
		p.ItemsProcessed++
		p.Operation = OpNone
		p.State = StateReady
		if woken := s.signal(SemMutex); woken != "" {
			res.events = append(res.events, Event{Type: EventProcessWoken, ProcessID: woken, Semaphore: SemMutex})
		}
		if woken := s.signal(SemFull); woken != "" {
			res.events = append(res.events, Event{Type: EventProcessWoken, ProcessID: woken, Semaphore: SemFull})
		}
		res.progressed = true
		res.produced = true
		res.action = fmt.Sprintf("%s produced an item", p.ID)
	}

	return res
}

// consumerStep mirrors producerStep with full -> mutex -> empty.
func (s *State) consumerStep(p *Process) stepResult {
	res := stepResult{pid: p.ID}

	switch {
	case p.Operation == OpWaiting && p.State == StateReady:
		p.Operation = OpConsuming
		p.State = StateRunning
		res.progressed = true
		res.action = fmt.Sprintf("%s acquired full semaphore", p.ID)

	case p.Operation == OpNone:
		if s.wait(SemFull, p.ID) {
			p.Operation = OpConsuming
			res.progressed = true
			res.action = fmt.Sprintf("%s acquired full semaphore", p.ID)
		} else {
			p.Operation = OpWaiting
			res.action = fmt.Sprintf("%s waiting for full slot", p.ID)
			res.events = append(res.events, Event{Type: EventProcessBlocked, ProcessID: p.ID, Semaphore: SemFull})
		}

	case p.Operation == OpConsuming:
		if p.State == StateRunning {
			if !s.wait(SemMutex, p.ID) {
				res.action = fmt.Sprintf("%s waiting for mutex", p.ID)
				res.events = append(res.events, Event{Type: EventProcessBlocked, ProcessID: p.ID, Semaphore: SemMutex})
				return res
			}
		} else {
			p.State = StateRunning
		}
		if slot := s.firstOccupiedSlot(); slot != nil {
			slot.Occupied = false
			slot.Item = nil
		}
		p.ItemsProcessed++
		p.Operation = OpNone
		p.State = StateReady
		if woken := s.signal(SemMutex); woken != "" {
			res.events = append(res.events, Event{Type: EventProcessWoken, ProcessID: woken, Semaphore: SemMutex})
		}
		if woken := s.signal(SemEmpty); woken != "" {
			res.events = append(res.events, Event{Type: EventProcessWoken, ProcessID: woken, Semaphore: SemEmpty})
		}
		res.progressed = true
		res.consumed = true
		res.action = fmt.Sprintf("%s consumed an item", p.ID)
	}

	return res
}

// firstFreeSlot returns the lowest-index unoccupied slot, scanning in
// ascending order for deterministic replay.
func (s *State) firstFreeSlot() *BufferSlot {
	for i := range s.Buffer {
		if !s.Buffer[i].Occupied {
			return &s.Buffer[i]
		}
	}
	return nil
}

// firstOccupiedSlot returns the lowest-index occupied slot.
func (s *State) firstOccupiedSlot() *BufferSlot {
	for i := range s.Buffer {
		if s.Buffer[i].Occupied {
			return &s.Buffer[i]
		}
	}
	return nil
}
