package binding

import "testing"

func sampleCtx() Context {
	return Context{
		"weather": map[string]any{
			"city": "Shanghai",
			"temp": float64(23),
			"hourly": []any{
				map[string]any{"hour": float64(9), "temp": float64(21)},
				map[string]any{"hour": float64(10), "temp": float64(22)},
			},
		},
		"title": "Today",
	}
}

func TestLookup(t *testing.T) {
	ctx := sampleCtx()
	v, ok := Lookup(ctx, "weather.city")
	if !ok || v != "Shanghai" {
		t.Fatalf("weather.city = %v, %v", v, ok)
	}
	v, ok = Lookup(ctx, "weather.hourly.1.temp")
	if !ok || v != float64(22) {
		t.Fatalf("indexed lookup = %v, %v", v, ok)
	}
	if _, ok := Lookup(ctx, "weather.missing.deep"); ok {
		t.Fatal("missing path must not resolve")
	}
	if _, ok := Lookup(ctx, ""); ok {
		t.Fatal("empty path must not resolve")
	}
}

func TestResolveStringInterpolation(t *testing.T) {
	got := ResolveString("{{title}}: {{weather.city}} {{weather.temp}}°", sampleCtx())
	if got != "Today: Shanghai 23°" {
		t.Fatalf("unexpected interpolation: %q", got)
	}
}

func TestResolveStringUnresolvedIsEmpty(t *testing.T) {
	got := ResolveString("value={{missing.path}}!", Context{})
	if got != "value=!" {
		t.Fatalf("unresolved placeholder must become empty: %q", got)
	}
}

func TestResolveValueKeepsType(t *testing.T) {
	v := ResolveValue("{{weather.temp}}", sampleCtx())
	if v != float64(23) {
		t.Fatalf("single placeholder should keep value type: %v (%T)", v, v)
	}
	v = ResolveValue("temp is {{weather.temp}}", sampleCtx())
	if v != "temp is 23" {
		t.Fatalf("mixed string should interpolate: %v", v)
	}
	v = ResolveValue(float64(7), sampleCtx())
	if v != float64(7) {
		t.Fatalf("non-string must pass through: %v", v)
	}
	v = ResolveValue("{{missing}}", sampleCtx())
	if v != "" {
		t.Fatalf("missing single placeholder resolves to empty string: %v", v)
	}
}

func TestDirectives(t *testing.T) {
	ctx := Context{"n": float64(7), "pi": 3.14159, "name": "poi"}
	if got := ResolveString("{{n|pad:3}}", ctx); got != "007" {
		t.Fatalf("pad: %q", got)
	}
	if got := ResolveString("{{pi|fixed:2}}", ctx); got != "3.14" {
		t.Fatalf("fixed: %q", got)
	}
	if got := ResolveString("{{name|upper}}", ctx); got != "POI" {
		t.Fatalf("upper: %q", got)
	}
	if got := ResolveString("{{name|bogus}}", ctx); got != "poi" {
		t.Fatalf("unknown directive passes value through: %q", got)
	}
}
