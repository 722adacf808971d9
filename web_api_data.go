package main

import (
	"encoding/json"
	"net/http"
)

func (ws *WebServer) handleFrame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	view := r.URL.Query().Get("view")
	if !isKnownView(view) {
		http.Error(w, "Unknown view", http.StatusBadRequest)
		return
	}

	ws.mu.RLock()
	frame, ok := ws.frames[view]
	ws.mu.RUnlock()

	if !ok {
		http.Error(w, "No frame available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(frame); err != nil {
		http.Error(w, "Failed to encode frame", http.StatusInternalServerError)
	}
}

func (ws *WebServer) handleProcesses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sample, ok := ws.dashboard.Latest()
	if !ok {
		http.Error(w, "No sample available", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(sample); err != nil {
		http.Error(w, "Failed to encode sample", http.StatusInternalServerError)
	}
}

func (ws *WebServer) handlePrediction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report := ws.dashboard.Prediction()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		http.Error(w, "Failed to encode prediction", http.StatusInternalServerError)
	}
}

type configResponse struct {
	Addr         string `json:"addr"`
	ProcessCount int    `json:"processCount"`
	Quantum      int    `json:"quantum"`
	StepDelayMS  int64  `json:"stepDelayMs"`
	TickDelayMS  int64  `json:"tickDelayMs"`
	HistoryLimit int    `json:"historyLimit"`
	ConfigHash   string `json:"configHash"`
	Views        string `json:"views"`
}

func (ws *WebServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	views := ""
	for i, v := range KnownViews {
		if i > 0 {
			views += ","
		}
		views += v
	}
	resp := configResponse{
		Addr:         ws.cfg.Addr,
		ProcessCount: ws.cfg.ProcessCount,
		Quantum:      ws.cfg.Quantum,
		StepDelayMS:  ws.cfg.StepDelay.Milliseconds(),
		TickDelayMS:  ws.cfg.TickDelay.Milliseconds(),
		HistoryLimit: ws.cfg.HistoryLimit,
		ConfigHash:   computeConfigHash(ws.cfg),
		Views:        views,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "Failed to encode config", http.StatusInternalServerError)
	}
}
