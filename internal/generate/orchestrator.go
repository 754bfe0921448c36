// Package generate runs one conversation turn end to end: intent
// resolution with cross-turn continuity, domain data fetching, prompt
// selection, the completion call under a hard timeout, and parsing the
// resulting component tree into the session.
package generate

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"genui/internal/component"
	"genui/internal/fetch"
	"genui/internal/intent"
	"genui/internal/llmclient"
	"genui/internal/session"
)

const defaultGenerationTimeout = 60 * time.Second

// Orchestrator wires the turn pipeline. All fields must be set except
// Client, which may be nil to run fully offline on the fallback.
type Orchestrator struct {
	Resolver *intent.Resolver
	Fetchers *fetch.Registry
	Sessions *session.Store
	Client   llmclient.Client
	Fallback llmclient.Client
	Timeout  time.Duration
}

func NewOrchestrator(resolver *intent.Resolver, fetchers *fetch.Registry, sessions *session.Store, client llmclient.Client) *Orchestrator {
	return &Orchestrator{
		Resolver: resolver,
		Fetchers: fetchers,
		Sessions: sessions,
		Client:   client,
		Fallback: llmclient.NewFakeClient(),
		Timeout:  defaultGenerationTimeout,
	}
}

// TurnRequest is the transport-agnostic generation request.
type TurnRequest struct {
	SessionID   string         `json:"sessionId,omitempty"`
	Utterance   string         `json:"utterance"`
	DataContext map[string]any `json:"dataContext,omitempty"`
}

// TurnResult is what one turn produced. Tree is nil when the completion
// output was not a valid component tree; RawText then carries the output
// so the caller can surface it as a plain message.
type TurnResult struct {
	SessionID   string
	Intent      intent.Result
	Tree        *component.Node
	RawText     string
	Message     string
	DataContext map[string]any
	Degraded    bool
}

type generationInput struct {
	Utterance    string         `json:"utterance"`
	Intent       string         `json:"intent"`
	Subtype      string         `json:"subtype,omitempty"`
	DataContext  map[string]any `json:"data_context"`
	PreviousTree any            `json:"previous_tree,omitempty"`
}

// RunTurn processes one turn. The whole turn runs under the session
// lock, so turns for the same session are fully ordered; the last
// writer wins if callers race.
func (o *Orchestrator) RunTurn(ctx context.Context, req TurnRequest) TurnResult {
	utterance := strings.TrimSpace(req.Utterance)
	result := TurnResult{SessionID: strings.TrimSpace(req.SessionID)}
	if result.SessionID == "" {
		result.SessionID = NewSessionID()
	}

	o.Sessions.WithSession(result.SessionID, func(sess *session.Session) {
		if len(req.DataContext) > 0 {
			sess.MergeDataContext(req.DataContext)
		}

		res := o.Resolver.Resolve(ctx, utterance, sess.HistoryForClassifier())
		res = intent.ApplySticky(sess.LastIntent, utterance, res)
		result.Intent = res

		if data := o.Fetchers.FetchFor(ctx, res, utterance); data != nil {
			sess.MergeDataContext(data)
		}

		input := generationInput{
			Utterance:   utterance,
			Intent:      string(res.Intent),
			Subtype:     res.Subtype,
			DataContext: sess.DataContext,
		}
		if sess.ComponentTree != nil {
			input.PreviousTree = sess.ComponentTree.ToValue()
		}
		prompt := SelectPrompt(res.Intent, sess.ComponentTree != nil)

		raw, degraded := o.generate(ctx, prompt, input)
		result.Degraded = degraded

		tree, err := ExtractTree(raw)
		if err != nil {
			// Not a tree: the turn still completes; the raw text goes out
			// on the message channel instead of a UI update.
			log.Printf("generate: output for session %s is not a component tree: %v", sess.ID, err)
			result.RawText = raw
			result.Message = raw
		} else {
			result.Tree = tree
			result.Message = describeTurn(res)
			sess.ComponentTree = tree
		}

		sess.LastIntent = res.Intent
		sess.AppendTurn(session.Turn{
			Query:     utterance,
			Response:  result.Message,
			Intent:    res.Intent,
			Timestamp: time.Now(),
		})
		result.DataContext = copyContext(sess.DataContext)
	})
	return result
}

// generate invokes the primary client under the hard timeout, falling
// back to the offline generator on failure or timeout so the stream
// never hangs on a stuck completion call.
func (o *Orchestrator) generate(ctx context.Context, prompt string, input generationInput) (string, bool) {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = defaultGenerationTimeout
	}
	if o.Client != nil {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		raw, err := o.Client.GenerateJSON(callCtx, prompt, input)
		cancel()
		if err == nil {
			return string(raw), false
		}
		if errors.Is(err, context.DeadlineExceeded) {
			log.Printf("generate: %s timed out after %s, using fallback", o.Client.Name(), timeout)
		} else {
			log.Printf("generate: %s failed: %v, using fallback", o.Client.Name(), err)
		}
	}
	raw, err := o.Fallback.GenerateJSON(ctx, prompt, input)
	if err != nil {
		return "", true
	}
	return string(raw), true
}

func describeTurn(res intent.Result) string {
	switch res.Intent {
	case intent.Weather:
		return "好的，天气卡片已更新。"
	case intent.POI:
		return "为你找到了附近的结果。"
	case intent.RoutePlanning:
		return "路线已规划好。"
	case intent.Music:
		return "音乐卡片已就绪。"
	case intent.VehicleControl:
		return "车辆控制面板已更新。"
	case intent.Image:
		return "图片已生成。"
	default:
		return "好的。"
	}
}

func copyContext(ctx map[string]any) map[string]any {
	out := make(map[string]any, len(ctx))
	for k, v := range ctx {
		out[k] = v
	}
	return out
}
