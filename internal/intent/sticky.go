package intent

import "fmt"

// A fresh classification below this confidence is not trusted over an
// established domain when the utterance looks like a follow-up edit.
const stickyConfidenceThreshold = 0.9

// ApplySticky is the second-pass continuity policy over the raw
// classification. Pure and deterministic: if the previous turn resolved
// to a concrete domain, the utterance carries modification language, and
// the fresh result is chat, image, or low confidence, the previous
// domain wins. Continuity never applies across chat or unknown turns.
func ApplySticky(last Intent, utterance string, fresh Result) Result {
	if !last.Concrete() {
		return fresh
	}
	if !HasModificationLanguage(utterance) {
		return fresh
	}
	if fresh.Intent == last {
		return fresh
	}
	override := fresh.Intent == Chat ||
		fresh.Intent == Image ||
		fresh.Confidence < stickyConfidenceThreshold
	if !override {
		return fresh
	}
	return Result{
		Intent:     last,
		Confidence: fresh.Confidence,
		Entities:   fresh.Entities,
		Reasoning:  fmt.Sprintf("sticky-intent: modification follow-up keeps %s (classifier said %s at %.2f)", last, fresh.Intent, fresh.Confidence),
	}
}

// IsSticky reports whether a result was produced by the sticky override.
func IsSticky(res Result) bool {
	return len(res.Reasoning) >= len("sticky-intent") && res.Reasoning[:len("sticky-intent")] == "sticky-intent"
}
