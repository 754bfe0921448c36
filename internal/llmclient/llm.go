// Package llmclient wraps text-completion providers behind a minimal
// JSON-generation interface. Clients only make the API call; timeouts,
// fallbacks and output validation belong to the caller.
package llmclient

import (
	"context"
	"encoding/json"
	"errors"
)

var ErrInvalidJSON = errors.New("invalid json from LLM")

// Client generates a JSON document from a prompt plus structured input.
type Client interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
	Close() error
}
