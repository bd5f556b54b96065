package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/uploadbox/pkg/render"
	"github.com/vango-dev/uploadbox/pkg/uploadbox"
)

// maxActionSize bounds a single client message.
const maxActionSize = 64 << 10

// ErrUnknownAction is returned by Dispatch for an action it cannot map.
var ErrUnknownAction = errors.New("live: unknown action")

// ErrNotBound is returned by Dispatch before Bind was called.
var ErrNotBound = errors.New("live: no box bound")

// Hub manages WebSocket connections for one upload box.
type Hub struct {
	logger   *slog.Logger
	renderer *render.Renderer
	upgrader websocket.Upgrader

	mu          sync.RWMutex
	box         *uploadbox.Box
	unsubscribe func()
	clients     map[string]*client
}

type client struct {
	id   string
	conn *websocket.Conn

	// gorilla/websocket allows one concurrent writer per connection.
	writeMu sync.Mutex
}

func (c *client) send(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Option configures a Hub.
type Option func(*Hub)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithCheckOrigin overrides the origin check. Default: SameOriginCheck.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(h *Hub) {
		h.upgrader.CheckOrigin = fn
	}
}

// WithRenderer sets the HTML renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(h *Hub) {
		if r != nil {
			h.renderer = r
		}
	}
}

// NewHub creates a hub. Call Bind before serving connections.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		logger:   slog.Default(),
		renderer: render.NewRenderer(render.RendererConfig{}),
		clients:  make(map[string]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     SameOriginCheck,
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SameOriginCheck accepts requests without an Origin header and those
// whose Origin host matches the request host.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || r.Host == "" {
		return false
	}
	return u.Host == r.Host
}

// Bind attaches the hub to box. Every state change is pushed to all
// clients. Binding again replaces the previous box.
func (h *Hub) Bind(box *uploadbox.Box) {
	unsubscribe := box.Subscribe(func(uploadbox.Snapshot) {
		h.Broadcast()
	})

	h.mu.Lock()
	prev := h.unsubscribe
	h.box = box
	h.unsubscribe = unsubscribe
	h.mu.Unlock()

	if prev != nil {
		prev()
	}
}

func (h *Hub) boundBox() *uploadbox.Box {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.box
}

// ServeHTTP upgrades the request and serves the client until it
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(maxActionSize)

	c := &client{id: uuid.NewString(), conn: conn}
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	h.logger.Debug("live client connected", "client", c.id)

	defer func() {
		h.mu.Lock()
		delete(h.clients, c.id)
		h.mu.Unlock()
		conn.Close()
		h.logger.Debug("live client disconnected", "client", c.id)
	}()

	if data, err := h.renderMessage(); err == nil {
		if err := c.send(data); err != nil {
			return
		}
	} else {
		h.logger.Error("render failed", "error", err)
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var a Action
		if err := json.Unmarshal(raw, &a); err != nil {
			h.reject(c, fmt.Errorf("live: malformed action: %w", err))
			continue
		}
		if err := h.Dispatch(r.Context(), a); err != nil {
			h.reject(c, err)
		}
	}
}

func (h *Hub) reject(c *client, err error) {
	h.logger.Warn("live action rejected", "client", c.id, "error", err)
	data, mErr := json.Marshal(Message{Type: TypeError, Error: err.Error()})
	if mErr != nil {
		return
	}
	c.send(data)
}

// Dispatch maps a client action onto the bound box.
func (h *Hub) Dispatch(ctx context.Context, a Action) error {
	box := h.boundBox()
	if box == nil {
		return ErrNotBound
	}

	switch a.Action {
	case uploadbox.ActionPick:
		// The file picker opens in the browser; files arrive over HTTP.
		return nil
	case uploadbox.ActionOpen:
		if !box.OpenSeq(ctx, a.ID) {
			return fmt.Errorf("live: open %s failed", a.ID)
		}
		return nil
	case uploadbox.ActionRemoveFile:
		return box.RemoveServerFile(a.ID)
	case uploadbox.ActionRemoveAttachment:
		if a.Key != "" {
			return box.RemoveAttachmentKey(a.Key)
		}
		if a.Index == nil {
			return fmt.Errorf("live: %s needs a key or an index", a.Action)
		}
		return box.RemoveAttachment(*a.Index)
	case uploadbox.ActionCloseViewer:
		box.CloseViewer()
		return nil
	case uploadbox.ActionDragOver:
		box.DragOver()
		return nil
	case uploadbox.ActionDragLeave:
		box.DragLeave()
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownAction, a.Action)
}

// Broadcast renders the bound box and sends it to every client.
func (h *Hub) Broadcast() {
	data, err := h.renderMessage()
	if err != nil {
		h.logger.Error("render failed", "error", err)
		return
	}
	h.broadcast(data)
}

// Emit implements toast.Emitter by forwarding the event to every client.
func (h *Hub) Emit(name string, data any) {
	msg, err := json.Marshal(Message{Type: TypeEvent, Event: name, Data: data})
	if err != nil {
		h.logger.Error("encode event failed", "event", name, "error", err)
		return
	}
	h.broadcast(msg)
}

func (h *Hub) renderMessage() ([]byte, error) {
	box := h.boundBox()
	if box == nil {
		return nil, ErrNotBound
	}
	html, err := h.renderer.RenderToString(box.Render())
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: TypeRender, HTML: html})
}

// broadcast sends a message to all connected clients.
func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.send(data); err != nil {
			h.mu.Lock()
			delete(h.clients, c.id)
			h.mu.Unlock()
			c.conn.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close unbinds the box and closes all client connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.unsubscribe != nil {
		h.unsubscribe()
		h.unsubscribe = nil
	}
	for id, c := range h.clients {
		c.conn.Close()
		delete(h.clients, id)
	}
}
