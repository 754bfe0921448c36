package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"genui/internal/llmclient"
)

const classifierPrompt = `You classify one in-car assistant utterance into exactly one intent.

Intents: weather, music, poi, route_planning, image, vehicle_control, chat, unknown.
For vehicle_control also return a subtype (e.g. "ac", "window", "seat_heater").

Rules:
- Judge primarily from the current utterance; it always outweighs history.
- History entries are listed oldest first with their weight; newer entries weigh more.
- If there is no history, classify the utterance on its own. Never assume it continues anything.
- If the previous intent was chat or unknown and the utterance is an ambiguous follow-up
  (pronouns, "change X", no explicit action verb), answer chat.
- If the previous intent was a concrete domain and the utterance only asks for a stylistic
  or content tweak with no competing domain verb, keep that domain.

Return strict JSON only:
{"intent":"...","subtype":"...","confidence":0.0,"entities":{},"reasoning":"..."}`

// Resolver classifies utterances. With a nil client it degrades to the
// keyword tables, which keeps the pipeline usable offline.
type Resolver struct {
	client llmclient.Client
}

func NewResolver(client llmclient.Client) *Resolver {
	return &Resolver{client: client}
}

type classifierInput struct {
	Utterance string           `json:"utterance"`
	Weight    float64          `json:"utterance_weight"`
	History   []classifierTurn `json:"history,omitempty"`
}

type classifierTurn struct {
	Query    string  `json:"query"`
	Response string  `json:"response,omitempty"`
	Intent   string  `json:"intent,omitempty"`
	Weight   float64 `json:"weight"`
}

// Resolve classifies utterance against the recent history. Classifier
// failures degrade to unknown at low confidence; they never surface to
// the caller.
func (r *Resolver) Resolve(ctx context.Context, utterance string, history []Turn) Result {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return Result{Intent: Unknown, Confidence: 0, Reasoning: "empty utterance"}
	}

	var res Result
	if r == nil || r.client == nil {
		res = classifyHeuristic(utterance)
	} else {
		res = r.classifyLLM(ctx, utterance, history)
	}
	return applyHistoryRules(res, utterance, history)
}

func (r *Resolver) classifyLLM(ctx context.Context, utterance string, history []Turn) Result {
	in := classifierInput{Utterance: utterance, Weight: 1.0}
	for i, turn := range history {
		// Monotonically increasing weight, newest highest, always below
		// the current utterance.
		weight := 0.4 + 0.5*float64(i+1)/float64(len(history))
		in.History = append(in.History, classifierTurn{
			Query:    turn.Query,
			Response: turn.Response,
			Intent:   string(turn.Intent),
			Weight:   weight,
		})
	}

	raw, err := r.client.GenerateJSON(ctx, classifierPrompt, in)
	if err != nil {
		log.Printf("intent: classifier call failed: %v", err)
		return Result{Intent: Unknown, Confidence: 0.1, Reasoning: fmt.Sprintf("classifier unavailable: %v", err)}
	}
	var parsed struct {
		Intent     string         `json:"intent"`
		Subtype    string         `json:"subtype"`
		Confidence float64        `json:"confidence"`
		Entities   map[string]any `json:"entities"`
		Reasoning  string         `json:"reasoning"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		log.Printf("intent: classifier returned malformed JSON: %v", err)
		return Result{Intent: Unknown, Confidence: 0.1, Reasoning: "classifier returned malformed response"}
	}
	conf := parsed.Confidence
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}
	return Result{
		Intent:     Parse(parsed.Intent),
		Subtype:    strings.TrimSpace(parsed.Subtype),
		Confidence: conf,
		Entities:   parsed.Entities,
		Reasoning:  strings.TrimSpace(parsed.Reasoning),
	}
}

func classifyHeuristic(utterance string) Result {
	if domain, ok := MatchDomain(utterance); ok {
		return Result{Intent: domain, Confidence: 0.95, Reasoning: "keyword match"}
	}
	return Result{Intent: Chat, Confidence: 0.6, Reasoning: "no domain keywords"}
}

// applyHistoryRules enforces the deterministic continuity rules that do
// not depend on classifier internals.
func applyHistoryRules(res Result, utterance string, history []Turn) Result {
	if len(history) == 0 {
		return res
	}
	prior := history[len(history)-1].Intent
	if !prior.Concrete() && IsAmbiguousFollowup(utterance) && res.Intent != Chat {
		res.Intent = Chat
		res.Subtype = ""
		res.Reasoning = appendReason(res.Reasoning, "ambiguous follow-up after non-domain turn resolves to chat")
	}
	return res
}

func appendReason(base, extra string) string {
	if strings.TrimSpace(base) == "" {
		return extra
	}
	return base + "; " + extra
}
