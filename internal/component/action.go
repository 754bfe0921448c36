package component

import "strings"

// Property names that carry an action descriptor.
const (
	PropOnClick       = "on_click"
	PropOnValueChange = "on_value_change"
)

// Action is the descriptor a generated node attaches to a user-triggered
// interaction. The interpreter never executes it; it hands the descriptor
// to the caller's handler exactly once per activation, unmodified.
type Action struct {
	Type    string         `json:"action_type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// ActionFromValue reads an action descriptor out of a property value.
func ActionFromValue(v any) (Action, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return Action{}, false
	}
	t, _ := m["action_type"].(string)
	t = strings.TrimSpace(t)
	if t == "" {
		return Action{}, false
	}
	payload, _ := m["payload"].(map[string]any)
	return Action{Type: t, Payload: payload}, true
}
