// Package protocol is the incremental delivery layer: lifecycle events
// for one generation turn, the per-session patch publisher, and the
// client-side state applier.
package protocol

import (
	"time"

	"genui/internal/patch"
)

type EventType string

// Turn lifecycle, in emission order. Heartbeats may appear anywhere
// between run-started and run-finished/run-error.
const (
	EventRunStarted     EventType = "run-started"
	EventMessageStarted EventType = "message-started"
	EventMessageContent EventType = "message-content"
	EventStateDelta     EventType = "state-delta"
	EventMessageEnded   EventType = "message-ended"
	EventRunFinished    EventType = "run-finished"
	EventRunError       EventType = "run-error"
	EventHeartbeat      EventType = "heartbeat"
)

// Error taxonomy codes carried by run-error events. Everything else in
// the pipeline degrades silently by design; only transport-level
// failures reach the client as errors.
const (
	CodeStreamClosed    = "stream_closed"
	CodeInternal        = "internal"
	CodeInvalidArgument = "invalid_argument"
)

// Event is one message on the persistent stream.
type Event struct {
	Type      EventType         `json:"type"`
	ThreadID  string            `json:"threadId"`
	RunID     string            `json:"runId"`
	Timestamp int64             `json:"timestamp"`
	MessageID string            `json:"messageId,omitempty"`
	Delta     string            `json:"delta,omitempty"`
	Patch     []patch.Operation `json:"patch,omitempty"`
	Status    string            `json:"status,omitempty"`
	Intent    string            `json:"intent,omitempty"`
	Code      string            `json:"code,omitempty"`
	Message   string            `json:"message,omitempty"`
}

func newEvent(t EventType, threadID, runID string) Event {
	return Event{
		Type:      t,
		ThreadID:  threadID,
		RunID:     runID,
		Timestamp: time.Now().UnixMilli(),
	}
}
