// Package app assembles the gateway: config, the completion client,
// the turn pipeline, and the HTTP server.
package app

import (
	"context"
	"fmt"

	"genui/internal/fetch"
	"genui/internal/gateway/config"
	"genui/internal/gateway/handler"
	"genui/internal/gateway/server"
	"genui/internal/generate"
	"genui/internal/intent"
	"genui/internal/llmclient"
	"genui/internal/protocol"
	"genui/internal/session"
)

type App struct {
	server   *server.Server
	sessions *session.Store
	client   llmclient.Client
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	client := newLLMClient(context.Background(), cfg.LLM)
	sessions := session.NewFromEnv()
	orch := generate.NewOrchestrator(
		intent.NewResolver(client),
		fetch.NewDefaultRegistry(),
		sessions,
		client,
	)

	arch := newArchiveStore(cfg.Archive)
	h := handler.New(orch, protocol.NewBroker(), arch)

	mux := server.NewMux(h)
	srv := server.New(cfg.Port, mux)

	return &App{
		server:   srv,
		sessions: sessions,
		client:   client,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	if a.client != nil {
		_ = a.client.Close()
	}
	if a.sessions != nil {
		_ = a.sessions.Close()
	}
	return err
}
