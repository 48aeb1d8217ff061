package trace

import (
	"fmt"
	"strings"
)

// Text renders the document in the human-readable form: the same fields as
// the JSON contract, indented per step.
func (d *Document) Text() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Simulation Trace %s\n", d.Metadata.ExportID)
	fmt.Fprintf(&b, "Exported: %s\n", d.Metadata.ExportTimestamp)
	cfg := d.Metadata.SimulationConfig
	fmt.Fprintf(&b, "Config: buffer_size=%d producer_count=%d consumer_count=%d animation_speed=%.2f\n",
		cfg.BufferSize, cfg.ProducerCount, cfg.ConsumerCount, cfg.AnimationSpeed)
	fmt.Fprintf(&b, "Total steps: %d (%.1f ms)\n", d.Metadata.TotalSteps, d.Metadata.TotalDurationMS)

	for i := range d.Steps {
		step := &d.Steps[i]
		fmt.Fprintf(&b, "\nStep %d [%s] %s (%s)\n", step.StepNumber, step.Timestamp, step.Action, step.ProcessID)

		b.WriteString("  Semaphores:\n")
		for _, sem := range step.Semaphores {
			fmt.Fprintf(&b, "    %-5s value=%d queue=[%s]\n", sem.Name, sem.Value, strings.Join(sem.WaitQueue, ", "))
		}

		b.WriteString("  Processes:\n")
		for _, p := range step.Processes {
			fmt.Fprintf(&b, "    %-3s %-8s state=%-8s op=%-17s waiting_on=%-5s items=%d wait_time=%d\n",
				p.ID, p.Kind, p.State, p.CurrentOperation, p.WaitingOn, p.ItemsProcessed, p.TotalWaitTime)
		}

		b.WriteString("  Buffer:\n")
		for _, slot := range step.Buffer {
			if slot.Item != nil {
				fmt.Fprintf(&b, "    slot %d: %s (by %s, t=%d)\n", slot.ID, slot.Item.ID, slot.Item.ProducedBy, slot.Item.Timestamp)
			} else {
				fmt.Fprintf(&b, "    slot %d: empty\n", slot.ID)
			}
		}

		st := step.Statistics
		fmt.Fprintf(&b, "  Statistics: produced=%d consumed=%d utilization=%.1f%% avg_wait=%.2f\n",
			st.ItemsProduced, st.ItemsConsumed, st.BufferUtilization, st.AverageWaitTime)
	}

	return b.String()
}
