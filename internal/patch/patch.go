// Package patch computes and applies structural edits between two
// JSON-compatible documents. Diff and Apply obey the round-trip law:
// applying Diff(a, b) to a yields exactly b.
package patch

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
)

// Op kinds.
const (
	OpAdd     = "add"
	OpReplace = "replace"
	OpRemove  = "remove"
)

// Operation is a single structural edit with a slash-delimited path into
// the document.
type Operation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// Diff computes the operations transforming before into after. Both are
// generic JSON values (maps, slices, scalars). A nil before with a
// non-nil after yields a single add at path.
func Diff(before, after any) []Operation {
	return diffAt("", normalize(before), normalize(after))
}

func diffAt(path string, before, after any) []Operation {
	if reflect.DeepEqual(before, after) {
		return nil
	}
	if before == nil {
		return []Operation{{Op: OpAdd, Path: rootedPath(path), Value: after}}
	}
	if after == nil {
		return []Operation{{Op: OpRemove, Path: rootedPath(path)}}
	}
	switch b := before.(type) {
	case map[string]any:
		if a, ok := after.(map[string]any); ok {
			return diffMaps(path, b, a)
		}
	case []any:
		if a, ok := after.([]any); ok {
			return diffArrays(path, b, a)
		}
	}
	return []Operation{{Op: OpReplace, Path: rootedPath(path), Value: after}}
}

func diffMaps(path string, before, after map[string]any) []Operation {
	var ops []Operation
	keys := make([]string, 0, len(before))
	for k := range before {
		keys = append(keys, k)
	}
	sortStrings(keys)
	for _, k := range keys {
		av, exists := after[k]
		child := path + "/" + k
		if !exists {
			ops = append(ops, Operation{Op: OpRemove, Path: child})
			continue
		}
		bv := before[k]
		// An explicit null keeps the key: changes to or from null are
		// replaces, a remove means true absence.
		if bv == nil || av == nil {
			if !reflect.DeepEqual(bv, av) {
				ops = append(ops, Operation{Op: OpReplace, Path: child, Value: av})
			}
			continue
		}
		ops = append(ops, diffAt(child, bv, av)...)
	}
	added := make([]string, 0)
	for k := range after {
		if _, exists := before[k]; !exists {
			added = append(added, k)
		}
	}
	sortStrings(added)
	for _, k := range added {
		ops = append(ops, Operation{Op: OpAdd, Path: path + "/" + k, Value: after[k]})
	}
	return ops
}

// diffArrays recurses over the common prefix, appends extras, and removes
// trailing elements back to front so earlier removals never shift the
// indices of later ones.
func diffArrays(path string, before, after []any) []Operation {
	var ops []Operation
	common := len(before)
	if len(after) < common {
		common = len(after)
	}
	for i := 0; i < common; i++ {
		child := path + "/" + strconv.Itoa(i)
		bv, av := before[i], after[i]
		// Same null rule as maps: the slot stays, its value becomes null.
		if bv == nil || av == nil {
			if !reflect.DeepEqual(bv, av) {
				ops = append(ops, Operation{Op: OpReplace, Path: child, Value: av})
			}
			continue
		}
		ops = append(ops, diffAt(child, bv, av)...)
	}
	for i := common; i < len(after); i++ {
		ops = append(ops, Operation{Op: OpAdd, Path: path + "/" + strconv.Itoa(i), Value: after[i]})
	}
	for i := len(before) - 1; i >= len(after); i-- {
		ops = append(ops, Operation{Op: OpRemove, Path: path + "/" + strconv.Itoa(i)})
	}
	return ops
}

func rootedPath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

func splitPath(path string) []string {
	path = strings.TrimSpace(path)
	if path == "" || path == "/" {
		return nil
	}
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalize passes values through JSON so structs and json.RawMessage
// compare and patch like their wire form.
func normalize(v any) any {
	switch v.(type) {
	case nil:
		return nil
	case map[string]any, []any, string, float64, bool:
		return v
	}
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
