// Package interpret turns an immutable component tree into a live UI
// element tree. Interpretation is a pure depth-first transform: bindings
// resolve through the data context, loop nodes expand over arrays,
// component nodes include named templates, and anything malformed
// degrades to blanks or empty results instead of failing.
package interpret

import (
	"strings"

	"genui/internal/binding"
	"genui/internal/component"
)

// Loop and component-reference node properties.
const (
	propSource        = "source"
	propAlias         = "alias"
	propSeparatorSize = "separator_size"
	propTemplateID    = "template_id"
	propData          = "data"
)

const defaultAlias = "item"

// Interpreter resolves component trees against data contexts.
type Interpreter struct {
	Templates *Registry
}

func New(templates *Registry) *Interpreter {
	if templates == nil {
		templates = NewBuiltinRegistry()
	}
	return &Interpreter{Templates: templates}
}

// Interpret builds the live element tree for node. onAction may be nil;
// it is threaded through to every element so user-triggered actions reach
// the caller without any global state.
func (it *Interpreter) Interpret(node *component.Node, ctx binding.Context, onAction ActionHandler) *Element {
	if node == nil {
		return nil
	}
	switch node.Kind {
	case component.KindLoop:
		return it.interpretLoop(node, ctx, onAction)
	case component.KindRef:
		return it.interpretRef(node, ctx, onAction)
	default:
		return it.interpretPlain(node, ctx, onAction)
	}
}

func (it *Interpreter) interpretPlain(node *component.Node, ctx binding.Context, onAction ActionHandler) *Element {
	kind := node.Kind
	if !kind.Known() {
		kind = NeutralContainer
	}
	el := &Element{Kind: kind, onAction: onAction}
	for name, value := range node.Properties {
		if name == component.PropOnClick || name == component.PropOnValueChange {
			if action, ok := component.ActionFromValue(value); ok {
				if el.Actions == nil {
					el.Actions = make(map[string]component.Action)
				}
				el.Actions[name] = action
			}
			continue
		}
		if el.Props == nil {
			el.Props = make(map[string]any)
		}
		el.Props[name] = binding.ResolveValue(value, ctx)
	}
	for _, child := range node.Children {
		if rendered := it.Interpret(child, ctx, onAction); rendered != nil {
			el.Children = append(el.Children, rendered)
		}
	}
	return el
}

// interpretLoop expands the loop's static child templates once per source
// element. Each iteration sees a scoped context: the alias names the
// element, and map elements additionally shadow same-named outer keys.
// A missing or non-array source renders to an empty container.
func (it *Interpreter) interpretLoop(node *component.Node, ctx binding.Context, onAction ActionHandler) *Element {
	el := &Element{Kind: component.KindColumn, onAction: onAction}
	items, ok := loopSource(node, ctx)
	if !ok {
		return el
	}
	alias := strings.TrimSpace(node.StringProperty(propAlias))
	if alias == "" {
		alias = defaultAlias
	}
	sepSize, _ := asNumber(node.Properties[propSeparatorSize])
	for i, item := range items {
		scope := scopedContext(ctx, alias, item)
		if i > 0 && sepSize > 0 {
			el.Children = append(el.Children, &Element{
				Kind:  component.KindSpacer,
				Props: map[string]any{"size": sepSize},
			})
		}
		for _, child := range node.Children {
			if rendered := it.Interpret(child, scope, onAction); rendered != nil {
				el.Children = append(el.Children, rendered)
			}
		}
	}
	return el
}

// interpretRef includes a named template, optionally scoped to the node's
// data binding (a context path or a directly embedded object). Unknown
// template ids render to nothing.
func (it *Interpreter) interpretRef(node *component.Node, ctx binding.Context, onAction ActionHandler) *Element {
	tmpl, ok := it.Templates.Get(node.StringProperty(propTemplateID))
	if !ok {
		return nil
	}
	scope := ctx
	if data, ok := node.Property(propData); ok {
		switch d := data.(type) {
		case string:
			if v, ok := binding.Lookup(ctx, bindingPath(d)); ok {
				scope = scopedContext(ctx, defaultAlias, v)
			}
		case map[string]any:
			scope = scopedContext(ctx, defaultAlias, d)
		}
	}
	return it.Interpret(tmpl, scope, onAction)
}

func loopSource(node *component.Node, ctx binding.Context) ([]any, bool) {
	raw := strings.TrimSpace(node.StringProperty(propSource))
	if raw == "" {
		return nil, false
	}
	v, ok := binding.Lookup(ctx, bindingPath(raw))
	if !ok {
		return nil, false
	}
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return nil, false
	}
	return items, true
}

// bindingPath accepts both a bare dot-path and a {{path}} expression.
func bindingPath(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "{{")
	s = strings.TrimSuffix(s, "}}")
	return strings.TrimSpace(s)
}

func scopedContext(ctx binding.Context, alias string, item any) binding.Context {
	scope := make(binding.Context, len(ctx)+2)
	for k, v := range ctx {
		scope[k] = v
	}
	if m, ok := item.(map[string]any); ok {
		for k, v := range m {
			scope[k] = v
		}
	}
	scope[alias] = item
	return scope
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	}
	return 0, false
}
