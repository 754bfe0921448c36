// Package session holds per-conversation continuity: the accumulated
// data context, the last rendered component tree, the last resolved
// intent, and a bounded turn history.
package session

import (
	"time"

	"genui/internal/component"
	"genui/internal/intent"
)

// HistoryCap bounds the per-session turn history; the oldest turn is
// evicted first.
const HistoryCap = 10

// Turn is one completed request/response cycle.
type Turn struct {
	Query     string        `json:"query"`
	Response  string        `json:"response"`
	Intent    intent.Intent `json:"intent,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// Session is the continuity unit, keyed by an opaque identifier.
type Session struct {
	ID            string          `json:"id"`
	DataContext   map[string]any  `json:"data_context"`
	ComponentTree *component.Node `json:"component_tree,omitempty"`
	LastIntent    intent.Intent   `json:"last_intent,omitempty"`
	History       []Turn          `json:"history"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func newSession(id string) *Session {
	return &Session{
		ID:          id,
		DataContext: make(map[string]any),
		UpdatedAt:   time.Now(),
	}
}

// MergeDataContext shallow-merges partial into the session context:
// existing keys are overwritten, new keys added, everything else kept.
func (s *Session) MergeDataContext(partial map[string]any) {
	if s.DataContext == nil {
		s.DataContext = make(map[string]any, len(partial))
	}
	for k, v := range partial {
		s.DataContext[k] = v
	}
}

// AppendTurn appends with ring-buffer semantics at HistoryCap.
func (s *Session) AppendTurn(turn Turn) {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}
	s.History = append(s.History, turn)
	if len(s.History) > HistoryCap {
		s.History = append(s.History[:0], s.History[len(s.History)-HistoryCap:]...)
	}
}

// HistoryForClassifier adapts the stored history for intent resolution.
func (s *Session) HistoryForClassifier() []intent.Turn {
	out := make([]intent.Turn, 0, len(s.History))
	for _, t := range s.History {
		out = append(out, intent.Turn{Query: t.Query, Response: t.Response, Intent: t.Intent})
	}
	return out
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	cp.DataContext = make(map[string]any, len(s.DataContext))
	for k, v := range s.DataContext {
		cp.DataContext[k] = v
	}
	cp.History = append([]Turn(nil), s.History...)
	return &cp
}
