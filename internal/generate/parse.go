package generate

import (
	"fmt"
	"strings"

	"genui/internal/component"
)

// ExtractTree pulls a component tree out of raw completion output.
// Models occasionally wrap JSON in code fences or prose; the first
// balanced object in the text is taken as the tree.
func ExtractTree(raw string) (*component.Node, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, fmt.Errorf("generate: empty output")
	}
	text = stripFences(text)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("generate: no JSON object in output")
	}
	node, err := component.Decode([]byte(text[start : end+1]))
	if err != nil {
		return nil, err
	}
	return node, nil
}

func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
