package app

import (
	"context"
	"log"

	"genui/internal/archive"
	"genui/internal/gateway/config"
	"genui/internal/llmclient"
)

// newLLMClient picks the completion backend. A nil return is valid;
// the pipeline then runs entirely on the offline generator.
func newLLMClient(ctx context.Context, cfg config.LLMConfig) llmclient.Client {
	provider := cfg.Provider
	if provider == "" {
		switch {
		case cfg.GeminiAPIKey != "":
			provider = "gemini"
		case cfg.OpenAIAPIKey != "":
			provider = "openai"
		default:
			provider = "fake"
		}
	}

	switch provider {
	case "gemini":
		client, err := llmclient.NewGeminiClient(ctx, cfg.GeminiModel)
		if err != nil {
			log.Printf("llm: gemini init failed: %v, running offline", err)
			return nil
		}
		log.Printf("llm: using %s", client.Name())
		return client
	case "openai":
		client, err := llmclient.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
		if err != nil {
			log.Printf("llm: openai init failed: %v, running offline", err)
			return nil
		}
		log.Printf("llm: using %s", client.Name())
		return client
	case "fake":
		log.Printf("llm: using offline generator")
		return llmclient.NewFakeClient()
	default:
		log.Printf("llm: unknown provider %q, running offline", provider)
		return nil
	}
}

// newArchiveStore builds the optional snapshot archive. A nil return
// disables archiving.
func newArchiveStore(cfg config.ArchiveConfig) *archive.Store {
	if !cfg.Enabled {
		return nil
	}
	store, err := archive.NewStore(archive.Config{
		Endpoint:  cfg.Endpoint,
		Region:    cfg.Region,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
	})
	if err != nil {
		log.Printf("archive: init failed: %v, snapshots disabled", err)
		return nil
	}
	log.Printf("archive: bucket=%s endpoint=%s", cfg.Bucket, cfg.Endpoint)
	return store
}
