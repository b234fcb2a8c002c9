package observer

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"epigrid/internal/domain/epidemic"
)

const (
	TypeFrame  = "FRAME"
	TypeClosed = "CLOSED"

	subscriberBuffer = 16
	writeTimeout     = 5 * time.Second
	readTimeout      = 60 * time.Second
)

// Message is what observers receive after each step.
type Message struct {
	Type   string               `json:"type"`
	RunID  string               `json:"run_id"`
	Tick   int64                `json:"tick"`
	Report *epidemic.TickReport `json:"report,omitempty"`
	Frame  epidemic.Frame       `json:"frame"`
}

// Hub streams frames of a run to websocket observers. Slow observers drop
// frames instead of blocking the step.
type Hub struct {
	// Snapshot, when set, supplies the frame sent right after subscribing.
	Snapshot func(ctx context.Context, runID string) (epidemic.Frame, error)

	log      *log.Logger
	upgrader websocket.Upgrader
	nextID   atomic.Uint64

	mu   sync.RWMutex
	subs map[string]map[uint64]chan []byte
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		subs: map[string]map[uint64]chan []byte{},
	}
}

func (h *Hub) PublishTicks(_ context.Context, runID string, reports []epidemic.TickReport, frame epidemic.Frame) error {
	if h.Subscribers(runID) == 0 {
		return nil
	}
	msg := Message{Type: TypeFrame, RunID: runID, Tick: frame.Tick, Frame: frame}
	if n := len(reports); n > 0 {
		last := reports[n-1]
		msg.Report = &last
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs[runID] {
		select {
		case ch <- b:
		default:
		}
	}
	return nil
}

// CloseRun sends a final CLOSED message to the run's observers and drops them.
// Their connections end with a normal close.
func (h *Hub) CloseRun(runID string) error {
	b, err := json.Marshal(Message{Type: TypeClosed, RunID: runID})
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subs[runID] {
		select {
		case ch <- b:
		default:
		}
		close(ch)
		delete(h.subs[runID], id)
	}
	delete(h.subs, runID)
	return nil
}

func (h *Hub) Subscribers(runID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[runID])
}

func (h *Hub) subscribe(runID string) (uint64, chan []byte) {
	id := h.nextID.Add(1)
	ch := make(chan []byte, subscriberBuffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[runID] == nil {
		h.subs[runID] = map[uint64]chan []byte{}
	}
	h.subs[runID][id] = ch
	return id, ch
}

func (h *Hub) unsubscribe(runID string, id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[runID], id)
	if len(h.subs[runID]) == 0 {
		delete(h.subs, runID)
	}
}

// WSHandler serves GET /observe/ws?run_id=.
func (h *Hub) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		runID := r.URL.Query().Get("run_id")
		if runID == "" {
			http.Error(rw, "run_id is required", http.StatusBadRequest)
			return
		}
		var initial *epidemic.Frame
		if h.Snapshot != nil {
			f, err := h.Snapshot(r.Context(), runID)
			if err != nil {
				http.Error(rw, "run not found", http.StatusNotFound)
				return
			}
			initial = &f
		}

		conn, err := h.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		id, out := h.subscribe(runID)
		defer h.unsubscribe(runID, id)

		// The writer goroutine is not running yet, so this write is exclusive.
		if initial != nil {
			b, err := json.Marshal(Message{Type: TypeFrame, RunID: runID, Tick: initial.Tick, Frame: *initial})
			if err == nil {
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					return
				}
			}
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		writeErr := make(chan error, 1)
		go func() {
			for {
				select {
				case <-ctx.Done():
					writeErr <- ctx.Err()
					return
				case b, ok := <-out:
					if !ok {
						_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "run closed"), time.Now().Add(time.Second))
						writeErr <- nil
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						writeErr <- err
						return
					}
				}
			}
		}()

		// Observers never send anything meaningful; reading detects closes.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		cancel()
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))
		select {
		case <-writeErr:
		case <-time.After(500 * time.Millisecond):
		}
	}
}
