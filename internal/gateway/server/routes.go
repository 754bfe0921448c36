package server

import (
	"net/http"

	"genui/internal/gateway/handler"
	"genui/internal/gateway/middleware"
)

func NewMux(h *handler.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/stream", h.HandleStreamWS)
	mux.HandleFunc("/v1/generate", h.HandleGenerate)
	mux.HandleFunc("/v1/sessions/", h.HandleSession)
	mux.HandleFunc("/healthz", h.HandleHealth)

	return middleware.CORS(mux)
}
