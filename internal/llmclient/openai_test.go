package llmclient

import "testing"

func TestOpenAIClientDefaultModel(t *testing.T) {
	c, err := NewOpenAIClient("test-key", "", "")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if got := c.Name(); got != "OpenAI:gpt-4o-mini" {
		t.Fatalf("unexpected default model: %q", got)
	}

	c, err = NewOpenAIClient("test-key", "http://localhost:11434/v1", "llama3")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if got := c.Name(); got != "OpenAI:llama3" {
		t.Fatalf("unexpected model: %q", got)
	}
}
