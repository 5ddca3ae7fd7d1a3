package ws

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kaushang/Groovia/internal/presence"
)

// writeWait bounds a single socket write so one stalled peer cannot hold up
// a room's fan-out once its OS buffers fill.
const writeWait = 10 * time.Second

// Client is one live socket. Writes are serialized through writeMu because
// gorilla/websocket permits only one concurrent writer per connection.
type Client struct {
	ID       string
	UserID   string
	Username string

	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *Client) Send(message interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(message)
}

func (c *Client) Close() {
	c.conn.Close()
}

// Hub holds the live clients and fans messages out to rooms. Room membership
// itself lives in the presence tracker; the hub only maps connection ids to
// sockets.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	tracker *presence.Tracker
}

func NewHub(tracker *presence.Tracker) *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		tracker: tracker,
	}
}

func (h *Hub) Add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
}

func (h *Hub) Remove(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, connID)
}

func (h *Hub) Get(connID string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[connID]
	return c, ok
}

// ClientsForUser returns every live socket belonging to a user.
func (h *Hub) ClientsForUser(userID string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []*Client
	for _, c := range h.clients {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out
}

// ToRoom sends a message to every live socket in the room. Delivery is
// best-effort; a dead socket is skipped and reaped by its own read loop.
func (h *Hub) ToRoom(roomID string, message interface{}) {
	h.send(h.roomTargets(roomID, ""), message)
}

// ToRoomExcept sends to every live socket in the room but one. Used for
// events the originating socket must not receive back, like its own join
// notification or the host's echo of its own clock.
func (h *Hub) ToRoomExcept(roomID, exceptConnID string, message interface{}) {
	h.send(h.roomTargets(roomID, exceptConnID), message)
}

func (h *Hub) send(targets []*Client, message interface{}) {
	for _, client := range targets {
		if err := client.Send(message); err != nil {
			log.Printf("Failed to send to client %s: %v", client.ID, err)
		}
	}
}

func (h *Hub) roomTargets(roomID, exceptConnID string) []*Client {
	connIDs := h.tracker.Connections(roomID)

	h.mu.RLock()
	defer h.mu.RUnlock()
	targets := make([]*Client, 0, len(connIDs))
	for _, connID := range connIDs {
		if connID == exceptConnID {
			continue
		}
		if client, ok := h.clients[connID]; ok {
			targets = append(targets, client)
		}
	}
	return targets
}

// ListenerCount reports the room's live socket count.
func (h *Hub) ListenerCount(roomID string) int {
	return h.tracker.ListenerCount(roomID)
}
