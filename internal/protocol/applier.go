package protocol

import (
	"log"

	"genui/internal/component"
	"genui/internal/patch"
)

// Applier is the receiving end of the delivery protocol: it folds
// state-delta patches into a local document and exposes the current
// component tree. Application is strict first; a patch that does not
// fit the local state is retried permissively so a desynced client
// converges instead of wedging.
type Applier struct {
	state map[string]any
}

func NewApplier() *Applier {
	return &Applier{state: map[string]any{}}
}

// ApplyPatch folds one patch into the local state.
func (a *Applier) ApplyPatch(ops []patch.Operation) error {
	next, err := patch.Apply(a.state, ops)
	if err != nil {
		log.Printf("protocol: strict apply failed (%v), retrying permissively", err)
		next, err = patch.ApplyPermissive(a.state, ops)
		if err != nil {
			return err
		}
	}
	if doc, ok := next.(map[string]any); ok {
		a.state = doc
	} else {
		a.state = map[string]any{}
	}
	return nil
}

// Tree returns the current component tree, if the state holds one.
func (a *Applier) Tree() (*component.Node, bool) {
	root, ok := a.state[RootKey]
	if !ok || root == nil {
		return nil, false
	}
	node, err := component.FromValue(root)
	if err != nil {
		return nil, false
	}
	return node, true
}

// State returns the raw patched document.
func (a *Applier) State() map[string]any {
	return a.state
}
