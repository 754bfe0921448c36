package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"genui/internal/generate"
	"genui/internal/patch"
)

type generateResponse struct {
	SessionID   string            `json:"sessionId"`
	Intent      string            `json:"intent"`
	Message     string            `json:"message,omitempty"`
	RawText     string            `json:"rawText,omitempty"`
	Patch       []patch.Operation `json:"patch,omitempty"`
	DataContext map[string]any    `json:"dataContext,omitempty"`
	Degraded    bool              `json:"degraded,omitempty"`
}

// HandleGenerate runs one turn without a stream and returns the patch
// in the response body. Delivery state is shared across requests, so a
// client polling this endpoint still receives minimal patches.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req generate.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Utterance) == "" {
		writeError(w, http.StatusBadRequest, "utterance is required")
		return
	}

	res := h.Orch.RunTurn(r.Context(), req)

	resp := generateResponse{
		SessionID:   res.SessionID,
		Intent:      string(res.Intent.Intent),
		Message:     res.Message,
		RawText:     res.RawText,
		DataContext: res.DataContext,
		Degraded:    res.Degraded,
	}
	if res.Tree != nil {
		resp.Patch = h.pub.PatchFor(res.SessionID, res.Tree)
	}
	writeJSON(w, http.StatusOK, resp)
}
