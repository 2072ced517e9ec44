// Package notify pushes session events to websocket clients and forwards their clicks back.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-mol/common"
	"github.com/Carmen-Shannon/oxy-mol/engine/viewer"
	"github.com/gorilla/websocket"
)

const (
	// EventSelectionChanged carries the new selection after a click.
	EventSelectionChanged = "selection_changed"
	// EventSceneReady is sent after a new model is loaded.
	EventSceneReady = "scene_ready"
	// CommandClick is the inbound message clicking an atom by serial.
	CommandClick = "click"

	writeTimeout = 10 * time.Second
	queueTimeout = time.Second
)

// Event is an outbound message.
type Event struct {
	Type     string    `json:"type"`
	Selected []int     `json:"selected,omitempty"`
	Atoms    int       `json:"atoms,omitempty"`
	Time     time.Time `json:"time"`
}

// Command is an inbound message.
type Command struct {
	Type   string `json:"type"`
	Serial int    `json:"serial"`
}

// Hub fans events out to every connected websocket client.
type Hub interface {
	http.Handler

	// Publish queues an event for broadcast.
	//
	// Parameters:
	//   - ctx: bounds the wait for queue space
	//   - event: the event
	//
	// Returns:
	//   - error: error if the queue stayed full, ctx ended or the hub is closed
	Publish(ctx context.Context, event Event) error

	// SelectionChanged publishes a selection change. Its signature matches the session's selection
	// changed handler.
	//
	// Parameters:
	//   - ids: the new selection
	SelectionChanged(ids []int)

	// SceneReady publishes a scene ready event with the loaded atom count. Its signature matches the
	// session's scene ready handler.
	//
	// Parameters:
	//   - v: the viewer that loaded the model
	SceneReady(v viewer.Viewer)

	// ClientCount returns the number of connected clients.
	//
	// Returns:
	//   - int: the count
	ClientCount() int

	// Close disconnects every client and stops the broadcaster.
	Close()
}

type hub struct {
	mu *sync.RWMutex

	logger   common.Logger
	upgrader websocket.Upgrader
	onClick  func(serial int)

	clients   map[*websocket.Conn]bool
	broadcast chan Event
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

var _ Hub = &hub{}

// NewHub creates a Hub and starts its broadcaster.
//
// Parameters:
//   - options: functional options applied in order
//
// Returns:
//   - Hub: the hub
func NewHub(options ...HubBuilderOption) Hub {
	h := &hub{
		mu:        &sync.RWMutex{},
		logger:    common.NoOpLogger{},
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Event, 256),
		done:      make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range options {
		opt(h)
	}

	h.wg.Add(1)
	go h.run()
	return h
}

func (h *hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnf("[Notify] upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	select {
	case <-h.done:
		h.mu.Unlock()
		conn.Close()
		return
	default:
	}
	h.clients[conn] = true
	// Registered under the lock so Close cannot start waiting before this reader is counted.
	h.wg.Add(1)
	h.mu.Unlock()
	h.logger.Debugf("[Notify] client connected from %s", r.RemoteAddr)

	go h.readLoop(conn)
}

// readLoop handles inbound commands until the client disconnects.
func (h *hub) readLoop(conn *websocket.Conn) {
	defer h.wg.Done()
	defer h.drop(conn)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			h.logger.Debugf("[Notify] ignoring malformed command: %v", err)
			continue
		}
		switch cmd.Type {
		case CommandClick:
			if h.onClick != nil {
				h.onClick(cmd.Serial)
			}
		default:
			h.logger.Debugf("[Notify] ignoring command %q", cmd.Type)
		}
	}
}

func (h *hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

func (h *hub) Publish(ctx context.Context, event Event) error {
	if event.Time.IsZero() {
		event.Time = time.Now()
	}
	select {
	case <-h.done:
		return fmt.Errorf("hub is closed")
	default:
	}
	select {
	case h.broadcast <- event:
		return nil
	case <-h.done:
		return fmt.Errorf("hub is closed")
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(queueTimeout):
		return fmt.Errorf("notification queue full")
	}
}

func (h *hub) SelectionChanged(ids []int) {
	if ids == nil {
		ids = []int{}
	}
	if err := h.Publish(context.Background(), Event{Type: EventSelectionChanged, Selected: ids}); err != nil {
		h.logger.Warnf("[Notify] failed to publish selection: %v", err)
	}
}

func (h *hub) SceneReady(v viewer.Viewer) {
	if err := h.Publish(context.Background(), Event{Type: EventSceneReady, Atoms: len(v.LoadedAtoms())}); err != nil {
		h.logger.Warnf("[Notify] failed to publish scene ready: %v", err)
	}
}

// run writes each queued event to every client, dropping clients whose write fails.
func (h *hub) run() {
	defer h.wg.Done()
	for {
		select {
		case <-h.done:
			return
		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Errorf("[Notify] failed to encode event: %v", err)
				continue
			}

			// Collect connections so the lock is not held during writes.
			h.mu.RLock()
			conns := make([]*websocket.Conn, 0, len(h.clients))
			for conn := range h.clients {
				conns = append(conns, conn)
			}
			h.mu.RUnlock()

			for _, conn := range conns {
				conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					h.logger.Debugf("[Notify] dropping client: %v", err)
					h.drop(conn)
				}
			}
		}
	}
}

func (h *hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *hub) Close() {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		close(h.done)
		for conn := range h.clients {
			conn.Close()
			delete(h.clients, conn)
		}
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// HubBuilderOption is a functional option for configuring a Hub.
type HubBuilderOption func(*hub)

// WithLogger sets the logger.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - HubBuilderOption: option function to apply
func WithLogger(l common.Logger) HubBuilderOption {
	return func(h *hub) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithClickHandler sets the callback receiving inbound click commands, typically session.Click.
//
// Parameters:
//   - cb: receives the clicked serial
//
// Returns:
//   - HubBuilderOption: option function to apply
func WithClickHandler(cb func(serial int)) HubBuilderOption {
	return func(h *hub) {
		h.onClick = cb
	}
}

// WithCheckOrigin sets the upgrader's origin check. By default only same-origin requests are accepted.
//
// Parameters:
//   - check: the origin check
//
// Returns:
//   - HubBuilderOption: option function to apply
func WithCheckOrigin(check func(r *http.Request) bool) HubBuilderOption {
	return func(h *hub) {
		h.upgrader.CheckOrigin = check
	}
}
