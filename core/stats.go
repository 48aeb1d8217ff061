package core

// recomputeStats updates the derived statistics after a successful step.
// The produced/consumed counters are cumulative; utilization and average
// wait time are recomputed from the post-step state.
func (s *State) recomputeStats(produced, consumed bool) {
	if produced {
		s.Stats.ItemsProduced++
	}
	if consumed {
		s.Stats.ItemsConsumed++
	}
	if len(s.Buffer) > 0 {
		s.Stats.BufferUtilization = float64(s.OccupiedSlots()) / float64(len(s.Buffer)) * 100.0
	} else {
		s.Stats.BufferUtilization = 0
	}
	if len(s.Processes) > 0 {
		total := 0
		for i := range s.Processes {
			total += s.Processes[i].TotalWaitTime
		}
		s.Stats.AverageWaitTime = float64(total) / float64(len(s.Processes))
	} else {
		s.Stats.AverageWaitTime = 0
	}
}
