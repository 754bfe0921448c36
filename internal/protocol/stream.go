package protocol

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"genui/internal/generate"
)

const defaultHeartbeatInterval = 10 * time.Second

// Streamer runs generation turns and emits the event lifecycle for each
// one. One Streamer serves one client connection; the Publisher it holds
// carries the per-session delivery state across turns.
type Streamer struct {
	Orch      *generate.Orchestrator
	Pub       *Publisher
	Heartbeat time.Duration
}

func NewStreamer(orch *generate.Orchestrator) *Streamer {
	return &Streamer{
		Orch:      orch,
		Pub:       NewPublisher(),
		Heartbeat: defaultHeartbeatInterval,
	}
}

// Run executes one turn and emits its lifecycle events in order through
// emit. Heartbeats are interleaved while the turn is outstanding. The
// call blocks until the turn's terminal event has been emitted.
func (s *Streamer) Run(ctx context.Context, req generate.TurnRequest, emit func(Event)) {
	threadID := strings.TrimSpace(req.SessionID)
	if threadID == "" {
		// Mint the session id here so run-started and every event after
		// it carry the same threadId.
		threadID = generate.NewSessionID()
		req.SessionID = threadID
	}
	runID := "run-" + uuid.NewString()
	messageID := "msg-" + uuid.NewString()

	emit(newEvent(EventRunStarted, threadID, runID))

	started := newEvent(EventMessageStarted, threadID, runID)
	started.MessageID = messageID
	emit(started)

	if err := ctx.Err(); err != nil {
		ev := newEvent(EventRunError, threadID, runID)
		ev.Code = CodeStreamClosed
		ev.Message = err.Error()
		emit(ev)
		return
	}

	type turnOutcome struct {
		res generate.TurnResult
	}
	done := make(chan turnOutcome, 1)
	go func() {
		done <- turnOutcome{res: s.Orch.RunTurn(ctx, req)}
	}()

	interval := s.Heartbeat
	if interval <= 0 {
		interval = defaultHeartbeatInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ev := newEvent(EventRunError, threadID, runID)
			ev.Code = CodeStreamClosed
			ev.Message = ctx.Err().Error()
			emit(ev)
			return
		case <-ticker.C:
			emit(newEvent(EventHeartbeat, threadID, runID))
		case out := <-done:
			s.finish(threadID, runID, messageID, out.res, emit)
			return
		}
	}
}

func (s *Streamer) finish(threadID, runID, messageID string, res generate.TurnResult, emit func(Event)) {
	if res.Message != "" {
		ev := newEvent(EventMessageContent, threadID, runID)
		ev.MessageID = messageID
		ev.Delta = res.Message
		emit(ev)
	}

	if res.Tree != nil {
		if ops := s.Pub.PatchFor(res.SessionID, res.Tree); len(ops) > 0 {
			ev := newEvent(EventStateDelta, threadID, runID)
			ev.Patch = ops
			emit(ev)
		}
	}

	ended := newEvent(EventMessageEnded, threadID, runID)
	ended.MessageID = messageID
	emit(ended)

	finished := newEvent(EventRunFinished, threadID, runID)
	finished.Intent = string(res.Intent.Intent)
	if res.Degraded {
		finished.Status = "degraded"
	} else {
		finished.Status = "ok"
	}
	emit(finished)
}
