package component

import (
	"encoding/json"
	"testing"
)

func TestDecodeRoundTrip(t *testing.T) {
	src := `{"component_type":"card","properties":{"title":"Weather"},"children":[{"component_type":"text","properties":{"content":"{{weather.temp}}"}}]}`
	node, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if node.Kind != KindCard {
		t.Fatalf("unexpected kind: %q", node.Kind)
	}
	if len(node.Children) != 1 || node.Children[0].Kind != KindText {
		t.Fatalf("unexpected children: %+v", node.Children)
	}
	b, err := json.Marshal(node)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	again, err := Decode(b)
	if err != nil {
		t.Fatalf("re-decode: %v", err)
	}
	if !Equal(node, again) {
		t.Fatalf("round trip not lossless:\n%s\n%s", src, b)
	}
}

func TestDecodeUnknownKindPreserved(t *testing.T) {
	src := `{"component_type":"hologram","properties":{"depth":3}}`
	node, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if node.Kind.Known() {
		t.Fatalf("expected unknown kind, got %q", node.Kind)
	}
	if !node.Kind.Container() {
		t.Fatalf("unknown kinds must degrade to containers")
	}
	b, _ := json.Marshal(node)
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw["component_type"] != "hologram" {
		t.Fatalf("unknown kind not preserved on the wire: %v", raw["component_type"])
	}
}

func TestDecodeRejectsNonTree(t *testing.T) {
	if _, err := Decode([]byte(`"just text"`)); err == nil {
		t.Fatal("expected error for non-object input")
	}
	if _, err := Decode([]byte(`{}`)); err == nil {
		t.Fatal("expected error for empty node")
	}
}

func TestActionFromValue(t *testing.T) {
	action, ok := ActionFromValue(map[string]any{
		"action_type": "navigate",
		"payload":     map[string]any{"target": "poi_detail"},
	})
	if !ok {
		t.Fatal("expected action")
	}
	if action.Type != "navigate" || action.Payload["target"] != "poi_detail" {
		t.Fatalf("unexpected action: %+v", action)
	}
	if _, ok := ActionFromValue(map[string]any{"payload": map[string]any{}}); ok {
		t.Fatal("action without type must be rejected")
	}
	if _, ok := ActionFromValue("navigate"); ok {
		t.Fatal("non-map value must be rejected")
	}
}

func TestKindTables(t *testing.T) {
	if KindText.Container() {
		t.Fatal("text is a leaf")
	}
	if !KindLoop.Container() {
		t.Fatal("loop carries children")
	}
	if ParseKind("  Card ") != KindCard {
		t.Fatal("known kinds must match case-insensitively")
	}
}

func TestParseKindKeepsUnknownCasing(t *testing.T) {
	if got := ParseKind("Hologram"); got != Kind("Hologram") {
		t.Fatalf("unknown kind must be kept as received, got %q", got)
	}
	node, err := Decode([]byte(`{"component_type":"Hologram","properties":{"depth":3}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b, _ := json.Marshal(node)
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw["component_type"] != "Hologram" {
		t.Fatalf("casing lost on the wire: %v", raw["component_type"])
	}
}
