package core

import "sem_sim/policy"

// pickNext selects the next eligible process index by scanning in the
// order given by the scheduling policy and taking the first process whose
// state is ready or running. Returns -1 when no process is eligible.
func (s *State) pickNext(order policy.Order) int {
	seq := order.Sequence(s.Config.ProducerCount, s.Config.ConsumerCount)
	for _, idx := range seq {
		if idx < 0 || idx >= len(s.Processes) {
			continue
		}
		switch s.Processes[idx].State {
		case StateReady, StateRunning:
			return idx
		}
	}
	return -1
}

// integrityViolations reports blocked processes that await a semaphore
// whose value is positive. Under hand-off signaling this set is always
// empty; a non-empty result means external interference with the state.
func (s *State) integrityViolations() []Event {
	var evs []Event
	for i := range s.Processes {
		p := &s.Processes[i]
		if p.State != StateBlocked || p.WaitingOn == SemNone {
			continue
		}
		sem := s.semaphore(p.WaitingOn)
		if sem != nil && sem.Value > 0 {
			evs = append(evs, Event{Type: EventIntegrityViolation, ProcessID: p.ID, Semaphore: p.WaitingOn})
		}
	}
	return evs
}
