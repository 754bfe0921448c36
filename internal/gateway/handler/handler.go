// Package handler exposes the generation pipeline over HTTP: a
// persistent websocket stream, a one-shot generate endpoint, and a
// session inspection endpoint.
package handler

import (
	"encoding/json"
	"net/http"

	"genui/internal/archive"
	"genui/internal/generate"
	"genui/internal/protocol"
)

// Handler holds the shared pipeline pieces. Archive may be nil; turn
// snapshots are then skipped.
type Handler struct {
	Orch    *generate.Orchestrator
	Broker  *protocol.Broker
	Archive *archive.Store

	// pub serves the one-shot generate endpoint, where delivery state
	// must survive across requests.
	pub *protocol.Publisher
}

func New(orch *generate.Orchestrator, broker *protocol.Broker, arch *archive.Store) *Handler {
	return &Handler{
		Orch:    orch,
		Broker:  broker,
		Archive: arch,
		pub:     protocol.NewPublisher(),
	}
}

func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
