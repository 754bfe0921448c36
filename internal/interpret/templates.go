package interpret

import (
	"strings"
	"sync"

	"genui/internal/component"
)

// Registry holds named component templates referenced by "component"
// nodes. Registration is safe for concurrent use with interpretation.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]*component.Node
}

func NewRegistry() *Registry {
	return &Registry{templates: make(map[string]*component.Node)}
}

// NewBuiltinRegistry returns a registry preloaded with the templates
// the offline generator refers to.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	r.Register("poi_row", &component.Node{
		Kind: component.KindRow,
		Children: []*component.Node{
			{
				Kind:       component.KindText,
				Properties: map[string]any{"content": "{{item.name}}"},
			},
			{
				Kind:       component.KindText,
				Properties: map[string]any{"content": "{{item.distance}} · {{item.rating}}"},
			},
		},
	})
	return r
}

// Register stores a template under id, replacing any previous one.
func (r *Registry) Register(id string, tmpl *component.Node) {
	id = strings.TrimSpace(id)
	if r == nil || id == "" || tmpl == nil {
		return
	}
	r.mu.Lock()
	r.templates[id] = tmpl
	r.mu.Unlock()
}

// Get returns the template registered under id.
func (r *Registry) Get(id string) (*component.Node, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	tmpl, ok := r.templates[strings.TrimSpace(id)]
	r.mu.RUnlock()
	return tmpl, ok
}

// IDs lists registered template ids.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.templates))
	for id := range r.templates {
		out = append(out, id)
	}
	return out
}
