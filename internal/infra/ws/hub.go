package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"nhooyr.io/websocket"
)

// Hub fans new-lead events out to live dashboard connections, keyed by user
// id. Fire and forget: a slow or dead subscriber is dropped, never waited
// on. Subscription lifecycle belongs here, not in the ingestion core.
type Hub struct {
	mu    sync.Mutex
	conns map[string]map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{conns: make(map[string]map[*websocket.Conn]struct{})}
}

// ServeHTTP upgrades GET /ws?userId=... and parks the connection until the
// client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId required", http.StatusBadRequest)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		log.Error().Err(err).Msg("ws: accept failed")
		return
	}

	h.add(userID, c)
	log.Info().Str("user_id", userID).Msg("ws: connected")

	defer func() {
		h.remove(userID, c)
		log.Info().Str("user_id", userID).Msg("ws: disconnected")
	}()

	// Clients only listen; reads just detect the close.
	for {
		if _, _, err := c.Read(r.Context()); err != nil {
			return
		}
	}
}

// Publish sends {event, data} to every connection of the user. No delivery
// guarantee: write failures evict the connection and nothing is retried.
func (h *Hub) Publish(userID, event string, payload any) {
	msg, err := json.Marshal(map[string]any{"event": event, "data": payload})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("ws: marshal failed")
		return
	}

	for _, c := range h.snapshot(userID) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := c.Write(ctx, websocket.MessageText, msg); err != nil {
			h.remove(userID, c)
			c.Close(websocket.StatusAbnormalClosure, "write failed")
		}
		cancel()
	}
}

func (h *Hub) add(userID string, c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*websocket.Conn]struct{})
	}
	h.conns[userID][c] = struct{}{}
}

func (h *Hub) remove(userID string, c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[userID], c)
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
}

func (h *Hub) snapshot(userID string) []*websocket.Conn {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := make([]*websocket.Conn, 0, len(h.conns[userID]))
	for c := range h.conns[userID] {
		conns = append(conns, c)
	}
	return conns
}
