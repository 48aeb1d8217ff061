package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"sem_sim/core"
	"sem_sim/visual"
)

// WebServer provides HTTP endpoints for visualization and control.
type WebServer struct {
	mu          sync.RWMutex
	latestFrame *StateFrame
	commands    chan visual.ControlCommand
	server      *http.Server
	hub         *wsHub
	sim         *Simulator
}

// NewWebServer creates a web server bound to a simulator instance.
func NewWebServer(addr string, sim *Simulator) *WebServer {
	ws := &WebServer{
		commands: make(chan visual.ControlCommand, 16),
		hub:      newHub(),
		sim:      sim,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/state", ws.handleState)
	mux.HandleFunc("/api/config", ws.handleConfig)
	mux.HandleFunc("/api/history", ws.handleHistory)
	mux.HandleFunc("/api/scenarios", ws.handleScenarios)
	mux.HandleFunc("/api/control", ws.handleControl)
	mux.HandleFunc("/api/export/json", ws.handleExportJSON)
	mux.HandleFunc("/api/export/text", ws.handleExportText)
	mux.HandleFunc("/ws", ws.hub.handleUpgrade)
	mux.Handle("/", http.FileServer(http.Dir("web/static")))

	ws.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	return ws
}

// Handler exposes the mux for tests.
func (ws *WebServer) Handler() http.Handler {
	return ws.server.Handler
}

// Start starts the HTTP server in a goroutine.
func (ws *WebServer) Start() error {
	go func() {
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			GetLogger().Errorf("web server: %v", err)
		}
	}()
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (ws *WebServer) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return ws.server.Shutdown(shutdownCtx)
}

// UpdateFrame stores the latest frame and broadcasts it to websocket
// clients.
func (ws *WebServer) UpdateFrame(frame *StateFrame) {
	ws.mu.Lock()
	ws.latestFrame = frame
	ws.mu.Unlock()

	if data, err := json.Marshal(frame); err == nil {
		ws.hub.Broadcast(data)
	}
}

// NextCommand returns the next control command if available, non-blocking.
func (ws *WebServer) NextCommand() (visual.ControlCommand, bool) {
	select {
	case cmd := <-ws.commands:
		return cmd, true
	default:
		return visual.ControlCommand{}, false
	}
}

// WaitCommand blocks until a control command arrives or the context is
// cancelled.
func (ws *WebServer) WaitCommand(ctx context.Context) (visual.ControlCommand, bool) {
	select {
	case <-ctx.Done():
		return visual.ControlCommand{}, false
	case cmd := <-ws.commands:
		return cmd, true
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (ws *WebServer) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ws.mu.RLock()
	frame := ws.latestFrame
	ws.mu.RUnlock()
	if frame == nil && ws.sim != nil {
		frame = ws.sim.Frame()
	}
	if frame == nil {
		http.Error(w, "Simulator not available", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, frame)
}

// ConfigResponse pairs the active configuration with the closed ranges the
// input widgets need for validation.
type ConfigResponse struct {
	Config core.Config  `json:"config"`
	Limits ConfigLimits `json:"limits"`
}

// ConfigLimits mirrors the closed configuration ranges.
type ConfigLimits struct {
	BufferSize     [2]int     `json:"bufferSize"`
	ProducerCount  [2]int     `json:"producerCount"`
	ConsumerCount  [2]int     `json:"consumerCount"`
	AnimationSpeed [2]float64 `json:"animationSpeed"`
}

func (ws *WebServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if ws.sim == nil {
		http.Error(w, "Simulator not available", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, ConfigResponse{
		Config: ws.sim.Frame().Config,
		Limits: ConfigLimits{
			BufferSize:     [2]int{core.MinBufferSize, core.MaxBufferSize},
			ProducerCount:  [2]int{core.MinProcessCount, core.MaxProcessCount},
			ConsumerCount:  [2]int{core.MinProcessCount, core.MaxProcessCount},
			AnimationSpeed: [2]float64{core.MinAnimationSpeed, core.MaxAnimationSpeed},
		},
	})
}

func (ws *WebServer) handleScenarios(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	type entry struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Config      any    `json:"config"`
	}
	res := make([]entry, 0)
	for _, nc := range GetPredefinedConfigs() {
		res = append(res, entry{Name: nc.Name, Description: nc.Description, Config: nc.Config})
	}
	writeJSON(w, res)
}
