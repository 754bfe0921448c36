package intent

import "testing"

func TestStickyOverridesLowConfidenceChat(t *testing.T) {
	// Turn 1 resolved to weather ("上海天气"); turn 2 is a pure style edit.
	fresh := Result{Intent: Chat, Confidence: 0.4, Reasoning: "looks conversational"}
	got := ApplySticky(Weather, "把颜色改成绿色", fresh)
	if got.Intent != Weather {
		t.Fatalf("expected weather, got %s", got.Intent)
	}
	if !IsSticky(got) {
		t.Fatalf("reasoning must be tagged sticky: %q", got.Reasoning)
	}
}

func TestStickyOverridesImage(t *testing.T) {
	fresh := Result{Intent: Image, Confidence: 0.95}
	got := ApplySticky(POI, "change the title text", fresh)
	if got.Intent != POI || !IsSticky(got) {
		t.Fatalf("image reclassification must yield to prior domain: %+v", got)
	}
}

func TestNoStickyAcrossChat(t *testing.T) {
	fresh := Result{Intent: Chat, Confidence: 0.4}
	got := ApplySticky(Chat, "把卡片颜色改成绿色", fresh)
	if got.Intent != Chat || IsSticky(got) {
		t.Fatalf("continuity must not apply over chat: %+v", got)
	}
}

func TestNoStickyAcrossUnknown(t *testing.T) {
	fresh := Result{Intent: Chat, Confidence: 0.3}
	got := ApplySticky(Unknown, "make it bigger", fresh)
	if got.Intent != Chat || IsSticky(got) {
		t.Fatalf("continuity must not apply over unknown: %+v", got)
	}
}

func TestNoStickyWithoutModificationLanguage(t *testing.T) {
	fresh := Result{Intent: Chat, Confidence: 0.4}
	got := ApplySticky(Weather, "tell me a joke", fresh)
	if got.Intent != Chat {
		t.Fatalf("no modification vocabulary, no override: %+v", got)
	}
}

func TestNoStickyOverConfidentDomainSwitch(t *testing.T) {
	fresh := Result{Intent: Music, Confidence: 0.97}
	got := ApplySticky(Weather, "换成周杰伦的歌，声音大一点", fresh)
	if got.Intent != Music {
		t.Fatalf("confident concrete reclassification must stand: %+v", got)
	}
}

func TestStickyKeepsSameDomainUntouched(t *testing.T) {
	fresh := Result{Intent: Weather, Confidence: 0.5, Reasoning: "still weather"}
	got := ApplySticky(Weather, "change the color", fresh)
	if IsSticky(got) || got.Reasoning != "still weather" {
		t.Fatalf("same-domain result should pass through: %+v", got)
	}
}
