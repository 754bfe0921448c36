package interpret

import "genui/internal/component"

// NeutralContainer is the element kind produced for component types the
// interpreter does not recognize. Children still render inside it.
const NeutralContainer = component.Kind("container")

// ActionHandler receives the action descriptor of an activated element.
type ActionHandler func(component.Action)

// Element is one node of the live UI tree built from a component tree.
// Props hold fully resolved values; action descriptors are split out into
// Actions and never appear in Props.
type Element struct {
	Kind     component.Kind
	Props    map[string]any
	Children []*Element
	Actions  map[string]component.Action

	onAction ActionHandler
}

// Activate simulates the user triggering the named interaction
// (on_click, on_value_change). The bound handler is invoked exactly once
// with the unmodified descriptor. Returns false when the element carries
// no such action or no handler was supplied at interpretation time.
func (e *Element) Activate(trigger string) bool {
	if e == nil || e.onAction == nil {
		return false
	}
	action, ok := e.Actions[trigger]
	if !ok {
		return false
	}
	e.onAction(action)
	return true
}

// Text returns the resolved "content" property of a text element.
func (e *Element) Text() string {
	if e == nil {
		return ""
	}
	s, _ := e.Props["content"].(string)
	return s
}

// Walk visits the element and its descendants depth-first.
func (e *Element) Walk(visit func(*Element)) {
	if e == nil {
		return
	}
	visit(e)
	for _, child := range e.Children {
		child.Walk(visit)
	}
}
