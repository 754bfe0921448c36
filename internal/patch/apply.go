package patch

import (
	"fmt"
	"strconv"
)

// Apply applies ops to doc in order with strict preconditions: parents
// must exist, replace and remove targets must exist, array adds must not
// leave gaps. The input doc is not modified.
func Apply(doc any, ops []Operation) (any, error) {
	return applyOps(doc, ops, false)
}

// ApplyPermissive is the relaxed variant: missing intermediate segments
// are created, arrays are padded, and removing an absent target is a
// no-op. Used as the client-side fallback when strict application fails.
func ApplyPermissive(doc any, ops []Operation) (any, error) {
	return applyOps(doc, ops, true)
}

func applyOps(doc any, ops []Operation, permissive bool) (any, error) {
	cur := deepCopy(normalize(doc))
	for _, op := range ops {
		next, err := applyOne(cur, op, permissive)
		if err != nil {
			return nil, fmt.Errorf("patch: %s %s: %w", op.Op, op.Path, err)
		}
		cur = next
	}
	return cur, nil
}

func applyOne(doc any, op Operation, permissive bool) (any, error) {
	segments := splitPath(op.Path)
	switch op.Op {
	case OpAdd, OpReplace:
		if len(segments) == 0 {
			return normalize(op.Value), nil
		}
		return doc, setAt(doc, segments, normalize(op.Value), op.Op, permissive)
	case OpRemove:
		if len(segments) == 0 {
			return nil, nil
		}
		return doc, removeAt(doc, segments, permissive)
	default:
		return nil, fmt.Errorf("unknown op %q", op.Op)
	}
}

func setAt(doc any, segments []string, value any, op string, permissive bool) error {
	parent, last, err := walkToParent(doc, segments, permissive)
	if err != nil {
		return err
	}
	switch node := parent.(type) {
	case map[string]any:
		if op == OpReplace && !permissive {
			if _, exists := node[last]; !exists {
				return fmt.Errorf("replace target missing")
			}
		}
		node[last] = value
		return nil
	case []any:
		idx, err := strconv.Atoi(last)
		if err != nil || idx < 0 {
			return fmt.Errorf("invalid array index %q", last)
		}
		if idx < len(node) {
			if op == OpAdd && !permissive {
				// JSON-pointer add would insert here; trees are diffed
				// index-aligned, so in-place set keeps the law exact.
				node[idx] = value
				return nil
			}
			node[idx] = value
			return nil
		}
		if idx == len(node) || permissive {
			return appendInParent(doc, segments, idx, value)
		}
		return fmt.Errorf("array index %d out of range", idx)
	default:
		return fmt.Errorf("parent is not a container")
	}
}

func removeAt(doc any, segments []string, permissive bool) error {
	parent, last, err := walkToParent(doc, segments, permissive)
	if err != nil {
		if permissive {
			return nil
		}
		return err
	}
	switch node := parent.(type) {
	case map[string]any:
		if _, exists := node[last]; !exists {
			if permissive {
				return nil
			}
			return fmt.Errorf("remove target missing")
		}
		delete(node, last)
		return nil
	case []any:
		idx, err := strconv.Atoi(last)
		if err != nil || idx < 0 || idx >= len(node) {
			if permissive {
				return nil
			}
			return fmt.Errorf("remove index %q out of range", last)
		}
		return spliceInParent(doc, segments, idx)
	default:
		if permissive {
			return nil
		}
		return fmt.Errorf("parent is not a container")
	}
}

// walkToParent returns the container holding the final path segment.
// In permissive mode missing map segments are created along the way.
func walkToParent(doc any, segments []string, permissive bool) (any, string, error) {
	cur := doc
	for i := 0; i < len(segments)-1; i++ {
		seg := segments[i]
		switch node := cur.(type) {
		case map[string]any:
			next, exists := node[seg]
			if !exists || next == nil {
				if !permissive {
					return nil, "", fmt.Errorf("missing segment %q", seg)
				}
				created := map[string]any{}
				node[seg] = created
				cur = created
				continue
			}
			if permissive {
				switch next.(type) {
				case map[string]any, []any:
				default:
					created := map[string]any{}
					node[seg] = created
					cur = created
					continue
				}
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, "", fmt.Errorf("invalid array segment %q", seg)
			}
			if node[idx] == nil && permissive {
				node[idx] = map[string]any{}
			}
			cur = node[idx]
		default:
			return nil, "", fmt.Errorf("segment %q is not a container", seg)
		}
	}
	return cur, segments[len(segments)-1], nil
}

// Array growth has to be written back through the parent container since
// append may reallocate the slice.
func appendInParent(doc any, segments []string, idx int, value any) error {
	if len(segments) < 2 {
		return fmt.Errorf("cannot grow root array in place")
	}
	holder, key, err := walkToParent(doc, segments[:len(segments)-1], true)
	if err != nil {
		return err
	}
	return withArray(holder, key, func(arr []any) []any {
		for len(arr) < idx {
			arr = append(arr, nil)
		}
		return append(arr, value)
	})
}

func spliceInParent(doc any, segments []string, idx int) error {
	if len(segments) < 2 {
		return fmt.Errorf("cannot splice root array in place")
	}
	holder, key, err := walkToParent(doc, segments[:len(segments)-1], false)
	if err != nil {
		return err
	}
	return withArray(holder, key, func(arr []any) []any {
		return append(arr[:idx], arr[idx+1:]...)
	})
}

func withArray(holder any, key string, fn func([]any) []any) error {
	switch node := holder.(type) {
	case map[string]any:
		arr, ok := node[key].([]any)
		if !ok && node[key] != nil {
			return fmt.Errorf("segment %q is not an array", key)
		}
		node[key] = fn(arr)
		return nil
	case []any:
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(node) {
			return fmt.Errorf("invalid array segment %q", key)
		}
		arr, ok := node[idx].([]any)
		if !ok && node[idx] != nil {
			return fmt.Errorf("segment %q is not an array", key)
		}
		node[idx] = fn(arr)
		return nil
	default:
		return fmt.Errorf("holder is not a container")
	}
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}
