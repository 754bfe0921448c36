// Package binding resolves {{path}} placeholder expressions against a
// nested data context. Resolution is total: a path that does not resolve
// yields an empty string, never an error, so partially populated contexts
// render as blanks instead of crashing the interpreter.
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// Context is an untyped nested mapping resolved by dot-path traversal.
type Context map[string]any

// Lookup walks a dot-delimited path through nested maps and arrays.
// Numeric segments index into arrays.
func Lookup(ctx Context, path string) (any, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, false
	}
	var cur any = map[string]any(ctx)
	for _, seg := range strings.Split(path, ".") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			return nil, false
		}
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case Context:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

// HasPlaceholder reports whether s contains at least one {{path}} expression.
func HasPlaceholder(s string) bool {
	return placeholderRe.MatchString(s)
}

// ResolveString replaces every placeholder in s with its value from ctx,
// applying the optional format directive ({{path|pad:2}}). Unresolved
// placeholders become empty strings.
func ResolveString(s string, ctx Context) string {
	return placeholderRe.ReplaceAllStringFunc(s, func(match string) string {
		expr := placeholderRe.FindStringSubmatch(match)[1]
		v, ok := resolveExpr(expr, ctx)
		if !ok || v == nil {
			return ""
		}
		return stringify(v)
	})
}

// ResolveValue resolves a property value. A string made of exactly one
// placeholder resolves to the underlying value with its type intact;
// any other string interpolates; non-strings pass through unchanged.
func ResolveValue(v any, ctx Context) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if m := placeholderRe.FindStringSubmatch(s); m != nil && strings.TrimSpace(s) == m[0] {
		resolved, ok := resolveExpr(m[1], ctx)
		if !ok || resolved == nil {
			return ""
		}
		return resolved
	}
	if !HasPlaceholder(s) {
		return s
	}
	return ResolveString(s, ctx)
}

func resolveExpr(expr string, ctx Context) (any, bool) {
	path := expr
	directive := ""
	if i := strings.Index(expr, "|"); i >= 0 {
		path = expr[:i]
		directive = strings.TrimSpace(expr[i+1:])
	}
	v, ok := Lookup(ctx, path)
	if !ok {
		return nil, false
	}
	if directive == "" {
		return v, true
	}
	return applyDirective(v, directive), true
}

func applyDirective(v any, directive string) any {
	name := directive
	arg := ""
	if i := strings.Index(directive, ":"); i >= 0 {
		name = directive[:i]
		arg = strings.TrimSpace(directive[i+1:])
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pad":
		width, err := strconv.Atoi(arg)
		if err != nil || width <= 0 {
			return v
		}
		s := stringify(v)
		for len(s) < width {
			s = "0" + s
		}
		return s
	case "fixed":
		digits, err := strconv.Atoi(arg)
		if err != nil || digits < 0 {
			return v
		}
		if f, ok := asFloat(v); ok {
			return strconv.FormatFloat(f, 'f', digits, 64)
		}
		return v
	case "upper":
		return strings.ToUpper(stringify(v))
	case "lower":
		return strings.ToLower(stringify(v))
	default:
		return v
	}
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
