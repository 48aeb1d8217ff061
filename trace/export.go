// Package trace renders simulation histories into the stable export
// contract: a JSON document plus a human-readable text form.
package trace

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"sem_sim/core"
)

// iso8601 is the timestamp layout used throughout the export contract.
const iso8601 = "2006-01-02T15:04:05.000Z07:00"

// Document is the structured trace export.
type Document struct {
	Metadata Metadata `json:"metadata"`
	Steps    []Step   `json:"steps"`
}

// Metadata describes the exported simulation run.
type Metadata struct {
	ExportID         string      `json:"export_id"`
	ExportTimestamp  string      `json:"export_timestamp"`
	SimulationConfig ConfigInfo  `json:"simulation_config"`
	TotalSteps       int         `json:"total_steps"`
	TotalDurationMS  float64     `json:"total_duration_ms"`
}

// ConfigInfo mirrors the four configuration fields.
type ConfigInfo struct {
	BufferSize     int     `json:"buffer_size"`
	ProducerCount  int     `json:"producer_count"`
	ConsumerCount  int     `json:"consumer_count"`
	AnimationSpeed float64 `json:"animation_speed"`
}

// Step is one history entry in export form.
type Step struct {
	StepNumber int             `json:"step_number"`
	Timestamp  string          `json:"timestamp"`
	Action     string          `json:"action"`
	ProcessID  string          `json:"process_id"`
	Semaphores []SemaphoreInfo `json:"semaphores"`
	Processes  []ProcessInfo   `json:"processes"`
	Buffer     []SlotInfo      `json:"buffer"`
	Statistics StatsInfo       `json:"statistics"`
}

// SemaphoreInfo is the export form of a semaphore.
type SemaphoreInfo struct {
	Name      string   `json:"name"`
	Value     int      `json:"value"`
	WaitQueue []string `json:"wait_queue"`
}

// ProcessInfo is the export form of a process record.
type ProcessInfo struct {
	ID               string `json:"id"`
	Kind             string `json:"kind"`
	State            string `json:"state"`
	CurrentOperation string `json:"current_operation"`
	WaitingOn        string `json:"waiting_on"`
	ItemsProcessed   int    `json:"items_processed"`
	TotalWaitTime    int    `json:"total_wait_time"`
}

// SlotInfo is the export form of a buffer slot.
type SlotInfo struct {
	ID       int       `json:"id"`
	Occupied bool      `json:"occupied"`
	Item     *ItemInfo `json:"item,omitempty"`
}

// ItemInfo is the export form of a buffered item.
type ItemInfo struct {
	ID         string `json:"id"`
	ProducedBy string `json:"produced_by"`
	Timestamp  int    `json:"timestamp"`
}

// StatsInfo is the export form of the derived statistics.
type StatsInfo struct {
	ItemsProduced     int     `json:"items_produced"`
	ItemsConsumed     int     `json:"items_consumed"`
	BufferUtilization float64 `json:"buffer_utilization"`
	AverageWaitTime   float64 `json:"average_wait_time"`
}

// Exporter builds trace documents from simulation state.
type Exporter struct {
	now   func() time.Time
	newID func() string
}

// NewExporter creates an exporter using the wall clock for the export
// timestamp and random UUIDs for export ids.
func NewExporter() *Exporter {
	return &Exporter{
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// WithClock replaces the export-timestamp clock (primarily for tests).
func (e *Exporter) WithClock(now func() time.Time) *Exporter {
	if now != nil {
		e.now = now
	}
	return e
}

// WithIDSource replaces the export id generator (primarily for tests).
func (e *Exporter) WithIDSource(newID func() string) *Exporter {
	if newID != nil {
		e.newID = newID
	}
	return e
}

// Document renders the full history of a simulation state.
func (e *Exporter) Document(st *core.State) *Document {
	doc := &Document{
		Metadata: Metadata{
			ExportID:        e.newID(),
			ExportTimestamp: e.now().Format(iso8601),
			SimulationConfig: ConfigInfo{
				BufferSize:     st.Config.BufferSize,
				ProducerCount:  st.Config.ProducerCount,
				ConsumerCount:  st.Config.ConsumerCount,
				AnimationSpeed: st.Config.AnimationSpeed,
			},
			TotalSteps:      len(st.History),
			TotalDurationMS: stepOffsetMS(len(st.History), st.AnimationSpeed),
		},
		Steps: make([]Step, 0, len(st.History)),
	}
	for i := range st.History {
		doc.Steps = append(doc.Steps, exportStep(&st.History[i], st.AnimationSpeed))
	}
	return doc
}

// JSON renders the document with indentation for on-disk export.
func (e *Exporter) JSON(st *core.State) ([]byte, error) {
	return json.MarshalIndent(e.Document(st), "", "  ")
}

// stepOffsetMS implements the per-step timestamp approximation:
// step × 1000 / animation_speed milliseconds after the start time.
func stepOffsetMS(step int, speed float64) float64 {
	if speed <= 0 {
		speed = 1
	}
	return float64(step) * 1000.0 / speed
}

// StepTimestamp labels a step relative to the recorded start time.
func StepTimestamp(start time.Time, step int, speed float64) time.Time {
	offset := time.Duration(stepOffsetMS(step, speed) * float64(time.Millisecond))
	return start.Add(offset)
}

func exportStep(snap *core.Snapshot, speed float64) Step {
	step := Step{
		StepNumber: snap.StepNumber,
		Timestamp:  StepTimestamp(snap.StartTime, snap.StepNumber, speed).Format(iso8601),
		Action:     snap.Action,
		ProcessID:  snap.ProcessID,
		Semaphores: make([]SemaphoreInfo, 0, len(snap.Semaphores)),
		Processes:  make([]ProcessInfo, 0, len(snap.Processes)),
		Buffer:     make([]SlotInfo, 0, len(snap.Buffer)),
		Statistics: StatsInfo{
			ItemsProduced:     snap.Stats.ItemsProduced,
			ItemsConsumed:     snap.Stats.ItemsConsumed,
			BufferUtilization: snap.Stats.BufferUtilization,
			AverageWaitTime:   snap.Stats.AverageWaitTime,
		},
	}
	for i := range snap.Semaphores {
		sem := &snap.Semaphores[i]
		queue := sem.WaitQueue.Items()
		if queue == nil {
			queue = []string{}
		}
		step.Semaphores = append(step.Semaphores, SemaphoreInfo{
			Name:      string(sem.Name),
			Value:     sem.Value,
			WaitQueue: queue,
		})
	}
	for i := range snap.Processes {
		p := &snap.Processes[i]
		step.Processes = append(step.Processes, ProcessInfo{
			ID:               p.ID,
			Kind:             string(p.Kind),
			State:            string(p.State),
			CurrentOperation: string(p.Operation),
			WaitingOn:        string(p.WaitingOn),
			ItemsProcessed:   p.ItemsProcessed,
			TotalWaitTime:    p.TotalWaitTime,
		})
	}
	for i := range snap.Buffer {
		slot := &snap.Buffer[i]
		info := SlotInfo{ID: slot.ID, Occupied: slot.Occupied}
		if slot.Item != nil {
			info.Item = &ItemInfo{
				ID:         slot.Item.ID,
				ProducedBy: slot.Item.ProducedBy,
				Timestamp:  slot.Item.Timestamp,
			}
		}
		step.Buffer = append(step.Buffer, info)
	}
	return step
}
