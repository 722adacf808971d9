package main

import (
	"encoding/json"
	"io"
	"net/http"
)

func (ws *WebServer) handleControl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		GetLogger().Debugf("Error reading request body: %v", err)
		http.Error(w, "Error reading request body", http.StatusBadRequest)
		return
	}

	var req controlRequest
	if err := json.Unmarshal(bodyBytes, &req); err != nil {
		GetLogger().Debugf("Error decoding JSON: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cmd, err := ws.processControlRequest(&req)
	if err != nil {
		GetLogger().Debugf("Rejected control request: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !ws.queueCommand(*cmd) {
		GetLogger().Debugf("Command queue full, cannot accept command")
		http.Error(w, "Command queue full", http.StatusServiceUnavailable)
		return
	}

	GetLogger().Debugf("Command queued: view=%s type=%s", cmd.View, cmd.Type)
	w.WriteHeader(http.StatusAccepted)
	w.Write([]byte("Command accepted"))
}
