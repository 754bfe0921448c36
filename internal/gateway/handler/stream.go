package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"genui/internal/archive"
	"genui/internal/generate"
	"genui/internal/protocol"
)

const (
	streamWSWriteWait = 10 * time.Second
	streamWSPongWait  = 60 * time.Second
	streamWSPingEvery = (streamWSPongWait * 9) / 10
)

var streamWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type streamInbound struct {
	Type        string         `json:"type"`
	SessionID   string         `json:"sessionId,omitempty"`
	Utterance   string         `json:"utterance,omitempty"`
	DataContext map[string]any `json:"dataContext,omitempty"`
}

// HandleStreamWS serves the persistent event stream. Each inbound
// "message" starts one generation turn; its lifecycle events flow back
// on the same connection. One connection holds one delivery state, so
// reconnecting restarts from a full root add.
func (h *Handler) HandleStreamWS(w http.ResponseWriter, r *http.Request) {
	conn, err := streamWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(streamWSPongWait)); err != nil {
		log.Printf("stream ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamWSPongWait))
	})

	writeCh := make(chan protocol.Event, 64)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(streamWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(streamWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(ev); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(streamWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	streamer := protocol.NewStreamer(h.Orch)
	turns := &turnSlot{}

	for {
		var in streamInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		msgType := strings.ToLower(strings.TrimSpace(in.Type))

		switch msgType {
		case "ping":
			pushStreamEvent(ctx, writeCh, protocol.Event{
				Type:      protocol.EventHeartbeat,
				Timestamp: time.Now().UnixMilli(),
			})
		case "message":
			if strings.TrimSpace(in.Utterance) == "" {
				pushStreamEvent(ctx, writeCh, protocol.Event{
					Type:      protocol.EventRunError,
					Timestamp: time.Now().UnixMilli(),
					Code:      protocol.CodeInvalidArgument,
					Message:   "utterance is required",
				})
				continue
			}
			// A new message supersedes the outstanding turn: one writer
			// per stream, always the newest request.
			h.startTurn(turns.begin(ctx), streamer, generate.TurnRequest{
				SessionID:   strings.TrimSpace(in.SessionID),
				Utterance:   in.Utterance,
				DataContext: in.DataContext,
			}, writeCh)
		default:
			pushStreamEvent(ctx, writeCh, protocol.Event{
				Type:      protocol.EventRunError,
				Timestamp: time.Now().UnixMilli(),
				Code:      protocol.CodeInvalidArgument,
				Message:   "unsupported type: " + msgType,
			})
		}
	}
}

// turnSlot holds the cancel handle of the stream's outstanding turn so
// a newer message can replace it.
type turnSlot struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

// begin cancels the outstanding turn, if any, and returns the context
// for the next one.
func (s *turnSlot) begin(parent context.Context) context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	return ctx
}

// startTurn runs one turn off the read loop. Events are buffered in a
// broker channel and forwarded to the connection writer; the broker
// keeps the channel addressable until the retention window passes.
func (h *Handler) startTurn(ctx context.Context, streamer *protocol.Streamer, req generate.TurnRequest, writeCh chan protocol.Event) {
	turnID := "turn-" + uuid.NewString()
	events := h.Broker.Allocate(turnID, 64)

	go func() {
		streamer.Run(ctx, req, func(ev protocol.Event) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		})
		h.Broker.ScheduleCleanup(turnID)
	}()

	go h.forwardTurn(ctx, events, writeCh)
}

// forwardTurn drains one turn's events into the connection writer,
// archiving the turn when it reaches a terminal event.
func (h *Handler) forwardTurn(ctx context.Context, events <-chan protocol.Event, writeCh chan protocol.Event) {
	snap := archive.TurnSnapshot{}
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			pushStreamEvent(ctx, writeCh, ev)
			switch ev.Type {
			case protocol.EventStateDelta:
				snap.Patch = ev.Patch
			case protocol.EventRunFinished, protocol.EventRunError:
				snap.SessionID = ev.ThreadID
				snap.RunID = ev.RunID
				h.archiveTurn(snap, ev)
				return
			}
		}
	}
}

func (h *Handler) archiveTurn(snap archive.TurnSnapshot, terminal protocol.Event) {
	if h.Archive == nil || terminal.Type != protocol.EventRunFinished {
		return
	}
	if sess, ok := h.Orch.Sessions.Snapshot(snap.SessionID); ok {
		snap.Intent = sess.LastIntent
		if len(sess.History) > 0 {
			snap.Utterance = sess.History[len(sess.History)-1].Query
		}
		if sess.ComponentTree != nil {
			snap.Tree = sess.ComponentTree.ToValue()
		}
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.Archive.Save(ctx, snap); err != nil {
			log.Printf("archive: save turn %s failed: %v", snap.RunID, err)
		}
	}()
}

// pushStreamEvent hands an event to the connection writer. Heartbeats
// are expendable under backpressure; everything else must reach the
// client in order or the applied state drifts from the published one,
// so non-heartbeat events block until the writer drains or the stream
// ends.
func pushStreamEvent(ctx context.Context, writeCh chan protocol.Event, ev protocol.Event) {
	if writeCh == nil {
		return
	}
	if ev.Type == protocol.EventHeartbeat {
		select {
		case writeCh <- ev:
		default:
		}
		return
	}
	select {
	case writeCh <- ev:
	case <-ctx.Done():
	}
}
