// Package presence tracks which live connections are in which rooms. It is
// the only owner of the connection/room maps; nothing here is persisted.
// Listener counts come from live sockets, not from stored room membership.
package presence

import "sync"

type connection struct {
	id       string
	userID   string
	username string
	rooms    map[string]struct{}
}

// Tracker is a mutex-guarded registry of connection <-> room associations.
// Every operation is an idempotent no-op on unknown ids: presence is
// best-effort and a stale reference must never take down the relay.
type Tracker struct {
	mu    sync.RWMutex
	conns map[string]*connection
	rooms map[string]map[string]struct{} // roomID -> set of connection ids
}

func NewTracker() *Tracker {
	return &Tracker{
		conns: make(map[string]*connection),
		rooms: make(map[string]map[string]struct{}),
	}
}

// Register creates or reuses the presence record for a connection.
func (t *Tracker) Register(connID, userID, username string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if c, ok := t.conns[connID]; ok {
		c.userID = userID
		c.username = username
		return
	}
	t.conns[connID] = &connection{
		id:       connID,
		userID:   userID,
		username: username,
		rooms:    make(map[string]struct{}),
	}
}

// JoinRoom associates the connection with a room and returns the room's
// listener count after the join.
func (t *Tracker) JoinRoom(connID, roomID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.conns[connID]
	if !ok {
		return len(t.rooms[roomID])
	}
	c.rooms[roomID] = struct{}{}

	if _, ok := t.rooms[roomID]; !ok {
		t.rooms[roomID] = make(map[string]struct{})
	}
	t.rooms[roomID][connID] = struct{}{}
	return len(t.rooms[roomID])
}

// LeaveRoom removes the association and returns the updated listener count.
func (t *Tracker) LeaveRoom(connID, roomID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.leaveRoomLocked(connID, roomID)
}

func (t *Tracker) leaveRoomLocked(connID, roomID string) int {
	if c, ok := t.conns[connID]; ok {
		delete(c.rooms, roomID)
	}
	sockets, ok := t.rooms[roomID]
	if !ok {
		return 0
	}
	delete(sockets, connID)
	if len(sockets) == 0 {
		delete(t.rooms, roomID)
		return 0
	}
	return len(sockets)
}

// Connections returns the ids of the live connections in a room.
func (t *Tracker) Connections(roomID string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]string, 0, len(t.rooms[roomID]))
	for connID := range t.rooms[roomID] {
		ids = append(ids, connID)
	}
	return ids
}

// ListenerCount returns the number of live connections in a room.
func (t *Tracker) ListenerCount(roomID string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rooms[roomID])
}

// UserInRoom reports whether any live connection for userID is currently in
// the room. Used to suppress join notifications on reloads and duplicate tabs.
func (t *Tracker) UserInRoom(roomID, userID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for connID := range t.rooms[roomID] {
		if c, ok := t.conns[connID]; ok && c.userID == userID {
			return true
		}
	}
	return false
}

// Eviction describes a connection forcibly deregistered by a duplicate login.
type Eviction struct {
	ConnID string
	Rooms  []string
}

// EvictDuplicateSessions deregisters every other live connection belonging to
// the same user, removing each from all of its rooms. A reload or duplicate
// tab must not inflate listener counts or claim host identity twice.
func (t *Tracker) EvictDuplicateSessions(userID, exceptConnID string) []Eviction {
	t.mu.Lock()
	defer t.mu.Unlock()

	var evicted []Eviction
	for connID, c := range t.conns {
		if c.userID != userID || connID == exceptConnID {
			continue
		}
		ev := Eviction{ConnID: connID}
		for roomID := range c.rooms {
			t.leaveRoomLocked(connID, roomID)
			ev.Rooms = append(ev.Rooms, roomID)
		}
		delete(t.conns, connID)
		evicted = append(evicted, ev)
	}
	return evicted
}

// Disconnect tears down all room associations for a connection. Called on
// transport close. Returns the rooms the connection was in.
func (t *Tracker) Disconnect(connID string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.conns[connID]
	if !ok {
		return nil
	}
	var left []string
	for roomID := range c.rooms {
		t.leaveRoomLocked(connID, roomID)
		left = append(left, roomID)
	}
	delete(t.conns, connID)
	return left
}

// Username returns the registered username for a connection.
func (t *Tracker) Username(connID string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if c, ok := t.conns[connID]; ok {
		return c.username
	}
	return ""
}

// RoomStats summarizes one room's live connections.
type RoomStats struct {
	ListenerCount int      `json:"listener_count"`
	Usernames     []string `json:"usernames"`
}

// Stats returns per-room connection details for the stats endpoint.
func (t *Tracker) Stats() (totalConns int, rooms map[string]RoomStats) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rooms = make(map[string]RoomStats, len(t.rooms))
	for roomID, sockets := range t.rooms {
		stats := RoomStats{ListenerCount: len(sockets)}
		for connID := range sockets {
			if c, ok := t.conns[connID]; ok {
				stats.Usernames = append(stats.Usernames, c.username)
			}
		}
		rooms[roomID] = stats
	}
	return len(t.conns), rooms
}
