package protocol

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genui/internal/component"
	"genui/internal/fetch"
	"genui/internal/generate"
	"genui/internal/intent"
	"genui/internal/patch"
	"genui/internal/session"
)

func mustNode(t *testing.T, raw string) *component.Node {
	t.Helper()
	node, err := component.Decode([]byte(raw))
	require.NoError(t, err)
	return node
}

func TestPublisherFirstTreeIsSingleRootAdd(t *testing.T) {
	pub := NewPublisher()
	ops := pub.PatchFor("s1", mustNode(t, `{"component_type":"card","properties":{"title":"hi"}}`))
	require.Len(t, ops, 1)
	assert.Equal(t, patch.OpAdd, ops[0].Op)
	assert.Equal(t, "/root", ops[0].Path)
}

func TestPublisherSuppressesNoOpAndThenDiffs(t *testing.T) {
	pub := NewPublisher()
	tree := `{"component_type":"card","properties":{"title":"hi"}}`
	require.NotEmpty(t, pub.PatchFor("s1", mustNode(t, tree)))

	// Structurally identical tree: no patch, state unchanged.
	assert.Nil(t, pub.PatchFor("s1", mustNode(t, tree)))

	// A real change diffs against the last emitted state, not scratch.
	ops := pub.PatchFor("s1", mustNode(t, `{"component_type":"card","properties":{"title":"bye"}}`))
	require.Len(t, ops, 1)
	assert.Equal(t, patch.OpReplace, ops[0].Op)
	assert.Equal(t, "/root/properties/title", ops[0].Path)
}

func TestPublisherTracksSessionsIndependently(t *testing.T) {
	pub := NewPublisher()
	tree := mustNode(t, `{"component_type":"card"}`)
	require.NotEmpty(t, pub.PatchFor("a", tree))
	// A different session still gets a fresh root add.
	ops := pub.PatchFor("b", tree)
	require.Len(t, ops, 1)
	assert.Equal(t, "/root", ops[0].Path)
}

func TestPublisherResetForcesFreshRootAdd(t *testing.T) {
	pub := NewPublisher()
	tree := mustNode(t, `{"component_type":"card"}`)
	require.NotEmpty(t, pub.PatchFor("s1", tree))
	pub.Reset("s1")
	ops := pub.PatchFor("s1", tree)
	require.Len(t, ops, 1)
	assert.Equal(t, "/root", ops[0].Path)
}

func TestApplierConvergesWithPublisher(t *testing.T) {
	pub := NewPublisher()
	app := NewApplier()

	first := mustNode(t, `{"component_type":"card","properties":{"title":"one"},"children":[{"component_type":"text","properties":{"content":"a"}}]}`)
	require.NoError(t, app.ApplyPatch(pub.PatchFor("s1", first)))
	got, ok := app.Tree()
	require.True(t, ok)
	assert.True(t, component.Equal(got, first))

	second := mustNode(t, `{"component_type":"card","properties":{"title":"two"},"children":[{"component_type":"text","properties":{"content":"a"}},{"component_type":"text","properties":{"content":"b"}}]}`)
	require.NoError(t, app.ApplyPatch(pub.PatchFor("s1", second)))
	got, ok = app.Tree()
	require.True(t, ok)
	assert.True(t, component.Equal(got, second))
}

func TestApplierPermissiveFallbackOnDesync(t *testing.T) {
	app := NewApplier()
	// A replace deep under a parent the applier never saw: strict apply
	// rejects it, the permissive retry materializes the path.
	ops := []patch.Operation{{Op: patch.OpReplace, Path: "/root/properties/title", Value: "hi"}}
	require.NoError(t, app.ApplyPatch(ops))
	state := app.State()
	root, ok := state["root"].(map[string]any)
	require.True(t, ok)
	props, ok := root["properties"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "hi", props["title"])
}

func newOfflineStreamer() *Streamer {
	orch := generate.NewOrchestrator(intent.NewResolver(nil), fetch.NewDefaultRegistry(), session.New(), nil)
	s := NewStreamer(orch)
	s.Heartbeat = 50 * time.Millisecond
	return s
}

func collectEvents(t *testing.T, s *Streamer, req generate.TurnRequest) []Event {
	t.Helper()
	var events []Event
	s.Run(context.Background(), req, func(ev Event) { events = append(events, ev) })
	return events
}

func eventTypes(events []Event) []EventType {
	out := make([]EventType, 0, len(events))
	for _, ev := range events {
		if ev.Type == EventHeartbeat {
			continue
		}
		out = append(out, ev.Type)
	}
	return out
}

func TestStreamerEmitsLifecycleInOrder(t *testing.T) {
	s := newOfflineStreamer()
	events := collectEvents(t, s, generate.TurnRequest{SessionID: "s1", Utterance: "上海天气"})

	assert.Equal(t, []EventType{
		EventRunStarted,
		EventMessageStarted,
		EventMessageContent,
		EventStateDelta,
		EventMessageEnded,
		EventRunFinished,
	}, eventTypes(events))

	var delta *Event
	for i := range events {
		if events[i].Type == EventStateDelta {
			delta = &events[i]
		}
	}
	require.NotNil(t, delta)
	require.Len(t, delta.Patch, 1)
	assert.Equal(t, "/root", delta.Patch[0].Path)

	// All events of the run share ids and carry timestamps.
	runID := events[0].RunID
	require.NotEmpty(t, runID)
	for _, ev := range events {
		assert.Equal(t, runID, ev.RunID)
		assert.NotZero(t, ev.Timestamp)
	}
}

func TestStreamerSecondIdenticalTurnOmitsStateDelta(t *testing.T) {
	s := newOfflineStreamer()
	req := generate.TurnRequest{SessionID: "s2", Utterance: "上海天气"}
	collectEvents(t, s, req)
	events := collectEvents(t, s, req)

	// Same intent, same offline tree: the delivery layer suppresses the
	// redundant state-delta but the message lifecycle still completes.
	assert.Equal(t, []EventType{
		EventRunStarted,
		EventMessageStarted,
		EventMessageContent,
		EventMessageEnded,
		EventRunFinished,
	}, eventTypes(events))
}

func TestStreamerMintsSessionIDBeforeRunStarted(t *testing.T) {
	s := newOfflineStreamer()
	events := collectEvents(t, s, generate.TurnRequest{Utterance: "上海天气"})
	require.NotEmpty(t, events)

	threadID := events[0].ThreadID
	require.NotEmpty(t, threadID, "run-started must already carry the session id")
	for _, ev := range events {
		assert.Equal(t, threadID, ev.ThreadID)
	}

	// The id the events carry is the one the turn actually ran under.
	_, ok := s.Orch.Sessions.Snapshot(threadID)
	assert.True(t, ok)
}

func TestStreamerCancelledContextEmitsRunError(t *testing.T) {
	s := newOfflineStreamer()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var events []Event
	s.Run(ctx, generate.TurnRequest{SessionID: "s3", Utterance: "hi"}, func(ev Event) {
		events = append(events, ev)
	})
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, EventRunError, last.Type)
	assert.Equal(t, CodeStreamClosed, last.Code)
}

func TestBrokerAllocateGetAndCleanup(t *testing.T) {
	b := NewBroker()
	ch := b.Allocate("run-1", 4)
	got, ok := b.Get("run-1")
	require.True(t, ok)
	assert.Equal(t, ch, got)

	_, ok = b.Get("run-2")
	assert.False(t, ok)
}
