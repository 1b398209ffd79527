package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/eskrenkovic/game-night/internal/modules/core"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var ErrHubClosed = errors.New("realtime hub is closed")

type channelKind string

const (
	userChannel    channelKind = "user"
	sessionChannel channelKind = "session"
)

type channelKey struct {
	kind channelKind
	id   uuid.UUID
}

// Envelope is the frame written to every subscriber.
type Envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Hub fans events out to websocket subscribers of a user's private
// channel or a session's chat channel. Delivery is best effort: a
// subscriber whose buffer is full is disconnected.
type Hub struct {
	mu       sync.RWMutex
	channels map[channelKey]map[*client]struct{}
	closed   bool

	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewHub(logger *zap.Logger, allowedOrigins []string) *Hub {
	h := &Hub{
		channels: make(map[channelKey]map[*client]struct{}),
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	if len(allowedOrigins) > 0 {
		allowed := make(map[string]struct{}, len(allowedOrigins))
		for _, origin := range allowedOrigins {
			allowed[origin] = struct{}{}
		}

		h.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			_, ok := allowed[origin]
			return ok
		}
	}

	return h
}

func (h *Hub) PublishToUser(ctx context.Context, userID uuid.UUID, event string, payload any) error {
	return h.publish(ctx, channelKey{kind: userChannel, id: userID}, event, payload)
}

func (h *Hub) PublishToSession(ctx context.Context, sessionID uuid.UUID, event string, payload any) error {
	return h.publish(ctx, channelKey{kind: sessionChannel, id: sessionID}, event, payload)
}

func (h *Hub) publish(ctx context.Context, key channelKey, event string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(Envelope{Event: event, Payload: payload})
	if err != nil {
		return err
	}

	var slow []*client

	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return ErrHubClosed
	}

	for c := range h.channels[key] {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow realtime subscriber", zap.String("channel", string(key.kind)), zap.Stringer("id", key.id))
		h.unregister(c)
	}

	return nil
}

// Subscribers reports how many connections listen on a user's channel.
func (h *Hub) Subscribers(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channelKey{kind: userChannel, id: userID}])
}

// SessionSubscribers reports how many connections listen on a session's
// channel.
func (h *Hub) SessionSubscribers(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channelKey{kind: sessionChannel, id: sessionID}])
}

func (h *Hub) register(c *client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHubClosed
	}

	subscribers, found := h.channels[c.key]
	if !found {
		subscribers = make(map[*client]struct{})
		h.channels[c.key] = subscribers
	}
	subscribers[c] = struct{}{}

	return nil
}

// unregister closes the client's send buffer exactly once. Sends only
// happen under the read lock so none can race the close.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subscribers, found := h.channels[c.key]
	if !found {
		return
	}

	if _, member := subscribers[c]; !member {
		return
	}

	delete(subscribers, c)
	if len(subscribers) == 0 {
		delete(h.channels, c.key)
	}
	close(c.send)
}

// DisconnectSession drops every subscriber of a session's channel.
func (h *Hub) DisconnectSession(sessionID uuid.UUID) {
	h.disconnect(channelKey{kind: sessionChannel, id: sessionID}, func(*client) bool { return true })
}

// DisconnectSessionUser drops one user's connections to a session's
// channel. Their private channel is left alone.
func (h *Hub) DisconnectSessionUser(sessionID uuid.UUID, userID uuid.UUID) {
	h.disconnect(channelKey{kind: sessionChannel, id: sessionID}, func(c *client) bool { return c.userID == userID })
}

// disconnect closes the send buffer of every matching subscriber. The
// write pump then sends a close frame and the read pump's unregister
// becomes a no-op.
func (h *Hub) disconnect(key channelKey, match func(*client) bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subscribers, found := h.channels[key]
	if !found {
		return
	}

	for c := range subscribers {
		if !match(c) {
			continue
		}
		delete(subscribers, c)
		close(c.send)
	}

	if len(subscribers) == 0 {
		delete(h.channels, key)
	}
}

// Close disconnects every subscriber. Later publishes fail with
// ErrHubClosed.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for key, subscribers := range h.channels {
		for c := range subscribers {
			close(c.send)
		}
		delete(h.channels, key)
	}
}

// HandleUserChannel subscribes the authenticated caller to their private
// notification channel.
func (h *Hub) HandleUserChannel(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, channelKey{kind: userChannel, id: core.Session(r.Context()).UserID})
}

// ServeSession subscribes the request to a session's chat channel. Access
// has to be checked by the caller.
func (h *Hub) ServeSession(w http.ResponseWriter, r *http.Request, sessionID uuid.UUID) {
	h.serve(w, r, channelKey{kind: sessionChannel, id: sessionID})
}

func (h *Hub) serve(w http.ResponseWriter, r *http.Request, key channelKey) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already answered the request.
		core.Logger(r.Context()).Info("websocket upgrade failed", zap.Error(err))
		return
	}

	c := newClient(h, conn, key, core.Session(r.Context()).UserID)
	if err := h.register(c); err != nil {
		_ = conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
		)
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}
