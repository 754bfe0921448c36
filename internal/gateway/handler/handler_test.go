package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genui/internal/fetch"
	"genui/internal/generate"
	"genui/internal/intent"
	"genui/internal/protocol"
	"genui/internal/session"
)

func newOfflineHandler() *Handler {
	orch := generate.NewOrchestrator(intent.NewResolver(nil), fetch.NewDefaultRegistry(), session.New(), nil)
	return New(orch, protocol.NewBroker(), nil)
}

func postGenerate(t *testing.T, h *Handler, body string) generateResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/generate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleGenerate(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp generateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestGenerateReturnsPatchAndSession(t *testing.T) {
	h := newOfflineHandler()
	resp := postGenerate(t, h, `{"sessionId":"s1","utterance":"上海天气"}`)

	assert.Equal(t, "s1", resp.SessionID)
	assert.Equal(t, "weather", resp.Intent)
	require.Len(t, resp.Patch, 1)
	assert.Equal(t, "/root", resp.Patch[0].Path)
	assert.Contains(t, resp.DataContext, "weather")
}

func TestGenerateSuppressesRedundantPatch(t *testing.T) {
	h := newOfflineHandler()
	postGenerate(t, h, `{"sessionId":"s2","utterance":"上海天气"}`)
	resp := postGenerate(t, h, `{"sessionId":"s2","utterance":"上海天气"}`)
	assert.Empty(t, resp.Patch, "identical tree must not produce a patch")
}

func TestGenerateRejectsBadRequests(t *testing.T) {
	h := newOfflineHandler()

	rec := httptest.NewRecorder()
	h.HandleGenerate(rec, httptest.NewRequest(http.MethodGet, "/v1/generate", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleGenerate(rec, httptest.NewRequest(http.MethodPost, "/v1/generate", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleGenerate(rec, httptest.NewRequest(http.MethodPost, "/v1/generate", strings.NewReader(`{"utterance":"  "}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionEndpoint(t *testing.T) {
	h := newOfflineHandler()
	postGenerate(t, h, `{"sessionId":"s3","utterance":"附近的咖啡店"}`)

	rec := httptest.NewRecorder()
	h.HandleSession(rec, httptest.NewRequest(http.MethodGet, "/v1/sessions/s3", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var sess session.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	assert.Equal(t, "s3", sess.ID)
	assert.Len(t, sess.History, 1)

	rec = httptest.NewRecorder()
	h.HandleSession(rec, httptest.NewRequest(http.MethodGet, "/v1/sessions/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	h := newOfflineHandler()
	rec := httptest.NewRecorder()
	h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPushStreamEventBlocksForStateDelta(t *testing.T) {
	writeCh := make(chan protocol.Event, 1)
	writeCh <- protocol.Event{Type: protocol.EventHeartbeat}

	delivered := make(chan struct{})
	go func() {
		pushStreamEvent(context.Background(), writeCh, protocol.Event{Type: protocol.EventStateDelta})
		close(delivered)
	}()

	// The push must wait for the writer, not drop the delta.
	select {
	case <-delivered:
		t.Fatal("state-delta must not be pushed past a full writer")
	case <-time.After(50 * time.Millisecond):
	}

	first := <-writeCh
	assert.Equal(t, protocol.EventHeartbeat, first.Type)
	select {
	case <-delivered:
	case <-time.After(time.Second):
		t.Fatal("push did not complete after the writer drained")
	}
	second := <-writeCh
	assert.Equal(t, protocol.EventStateDelta, second.Type)
}

func TestPushStreamEventDropsOnlyHeartbeats(t *testing.T) {
	writeCh := make(chan protocol.Event, 1)
	writeCh <- protocol.Event{Type: protocol.EventStateDelta}

	// A heartbeat against a full writer is expendable.
	pushStreamEvent(context.Background(), writeCh, protocol.Event{Type: protocol.EventHeartbeat})
	require.Len(t, writeCh, 1)
	kept := <-writeCh
	assert.Equal(t, protocol.EventStateDelta, kept.Type)

	// A blocked push aborts when the stream ends.
	writeCh <- protocol.Event{Type: protocol.EventStateDelta}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := make(chan struct{})
	go func() {
		pushStreamEvent(ctx, writeCh, protocol.Event{Type: protocol.EventMessageEnded})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("push must unblock when the stream context ends")
	}
}

func TestTurnSlotReplacesOutstandingTurn(t *testing.T) {
	slot := &turnSlot{}
	first := slot.begin(context.Background())
	require.NoError(t, first.Err())

	second := slot.begin(context.Background())
	assert.Error(t, first.Err(), "starting a new turn must cancel the outstanding one")
	assert.NoError(t, second.Err())

	third := slot.begin(context.Background())
	assert.Error(t, second.Err())
	assert.NoError(t, third.Err())
}
