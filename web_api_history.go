package main

import (
	"net/http"
	"strconv"

	"sem_sim/trace"
)

func (ws *WebServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if ws.sim == nil {
		http.Error(w, "Simulator not available", http.StatusServiceUnavailable)
		return
	}

	history := ws.sim.HistorySnapshots()

	// Optional ?from=/&to= window over step numbers.
	from, to := 0, len(history)
	if v := r.URL.Query().Get("from"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= len(history) {
			from = n - 1
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= len(history) {
			to = n
		}
	}
	if from > to {
		from = to
	}
	writeJSON(w, history[from:to])
}

func (ws *WebServer) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if ws.sim == nil {
		http.Error(w, "Simulator not available", http.StatusServiceUnavailable)
		return
	}
	data, err := ws.sim.ExportJSON(trace.NewExporter())
	if err != nil {
		http.Error(w, "Failed to export trace", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="simulation-trace.json"`)
	w.Write(data)
}

func (ws *WebServer) handleExportText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if ws.sim == nil {
		http.Error(w, "Simulator not available", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="simulation-trace.txt"`)
	w.Write([]byte(ws.sim.ExportText(trace.NewExporter())))
}
