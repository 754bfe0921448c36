package protocol

import (
	"strings"
	"sync"

	"genui/internal/component"
	"genui/internal/patch"
)

// RootKey is the single top-level key the serialized component tree
// lives under in the patched document.
const RootKey = "root"

// Publisher tracks the last emitted tree per session and turns each
// candidate tree into the minimal patch against it. The first tree of a
// session diffs against nothing and arrives as a single root add.
type Publisher struct {
	mu          sync.Mutex
	lastEmitted map[string]any
}

func NewPublisher() *Publisher {
	return &Publisher{lastEmitted: make(map[string]any)}
}

// PatchFor computes the patch from the session's last emitted tree to
// candidate. A non-empty patch advances the last-emitted state; an
// empty one (structurally identical tree) leaves it untouched so the
// caller can suppress the event.
func (p *Publisher) PatchFor(sessionID string, candidate *component.Node) []patch.Operation {
	sessionID = strings.TrimSpace(sessionID)
	if p == nil || sessionID == "" || candidate == nil {
		return nil
	}
	next := map[string]any{RootKey: candidate.ToValue()}

	p.mu.Lock()
	defer p.mu.Unlock()
	prev, ok := p.lastEmitted[sessionID]
	if !ok {
		// No prior state: the diff against an empty document is exactly
		// one add at /root.
		prev = map[string]any{}
	}
	ops := patch.Diff(prev, next)
	if len(ops) == 0 {
		return nil
	}
	p.lastEmitted[sessionID] = next
	return ops
}

// Reset forgets a session's delivery state, forcing the next tree out
// as a fresh root add.
func (p *Publisher) Reset(sessionID string) {
	if p == nil {
		return
	}
	p.mu.Lock()
	delete(p.lastEmitted, strings.TrimSpace(sessionID))
	p.mu.Unlock()
}
