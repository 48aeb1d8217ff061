// Package tui renders simulation state for the terminal.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sem_sim/core"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("8"))
	occupiedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	blockedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	runningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	actionStyle   = lipgloss.NewStyle().Italic(true)
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Render draws the full simulation state: buffer row, semaphore table,
// process table, and the statistics line.
func Render(st *core.State, lastAction string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Bounded Buffer — step %d", st.CurrentStep)))
	b.WriteString("\n")
	if lastAction != "" {
		b.WriteString(actionStyle.Render(lastAction))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(boxStyle.Render(renderBuffer(st)))
	b.WriteString("\n\n")
	b.WriteString(renderSemaphores(st))
	b.WriteString("\n")
	b.WriteString(renderProcesses(st))
	b.WriteString("\n")
	b.WriteString(renderStats(st))
	b.WriteString("\n")

	return b.String()
}

func renderBuffer(st *core.State) string {
	cells := make([]string, 0, len(st.Buffer))
	for i := range st.Buffer {
		slot := &st.Buffer[i]
		if slot.Occupied && slot.Item != nil {
			cells = append(cells, occupiedStyle.Render(fmt.Sprintf("[%s]", slot.Item.ProducedBy)))
		} else {
			cells = append(cells, emptyStyle.Render("[ ]"))
		}
	}
	return strings.Join(cells, " ")
}

func renderSemaphores(st *core.State) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("SEMAPHORE  VALUE  QUEUE"))
	b.WriteString("\n")
	for i := range st.Semaphores {
		sem := &st.Semaphores[i]
		b.WriteString(fmt.Sprintf("%-10s %5d  %s\n", sem.Name, sem.Value, strings.Join(sem.WaitQueue.Items(), ", ")))
	}
	return b.String()
}

func renderProcesses(st *core.State) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("PROCESS  KIND      STATE    OPERATION          ITEMS"))
	b.WriteString("\n")
	for i := range st.Processes {
		p := &st.Processes[i]
		state := string(p.State)
		switch p.State {
		case core.StateBlocked:
			state = blockedStyle.Render(state)
		case core.StateRunning:
			state = runningStyle.Render(state)
		}
		b.WriteString(fmt.Sprintf("%-8s %-9s %-8s %-18s %5d\n",
			p.ID, p.Kind, state, p.Operation, p.ItemsProcessed))
	}
	return b.String()
}

func renderStats(st *core.State) string {
	return fmt.Sprintf("produced=%d consumed=%d utilization=%.1f%% avg_wait=%.2f",
		st.Stats.ItemsProduced, st.Stats.ItemsConsumed,
		st.Stats.BufferUtilization, st.Stats.AverageWaitTime)
}
