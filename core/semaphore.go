package core

// wait attempts to acquire one permit of the named semaphore for process
// pid. On success the process becomes running and its waiting marker is
// cleared. Otherwise the process is appended to the semaphore's FIFO wait
// queue (at most once) and blocked.
func (s *State) wait(name SemaphoreName, pid string) bool {
	sem := s.semaphore(name)
	p := s.process(pid)
	if sem == nil || p == nil {
		return false
	}
	if sem.Value > 0 {
		sem.Value--
		p.State = StateRunning
		p.WaitingOn = SemNone
		return true
	}
	sem.WaitQueue.EnqueueUnique(pid)
	p.State = StateBlocked
	p.WaitingOn = name
	return false
}

// signal releases one permit of the named semaphore. If a process is
// queued, the permit is handed off directly to the head waiter: the value
// is decremented again and the waiter becomes ready with its waiting marker
// cleared. The hand-off keeps a late-arriving wait from overtaking the
// queue head. Returns the woken process id, or "".
func (s *State) signal(name SemaphoreName) string {
	sem := s.semaphore(name)
	if sem == nil {
		return ""
	}
	sem.Value++
	pid, ok := sem.WaitQueue.Dequeue()
	if !ok {
		return ""
	}
	sem.Value--
	if p := s.process(pid); p != nil {
		p.State = StateReady
		p.WaitingOn = SemNone
	}
	return pid
}
