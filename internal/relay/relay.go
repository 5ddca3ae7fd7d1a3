// Package relay implements the host-driven playback clock: the narrow,
// high-frequency channel that carries the host's current time to everyone
// else in the room, plus the loop configuration that rides alongside it.
package relay

import (
	"sync"
	"time"
)

// broadcastInterval caps clock fan-out at one broadcast per second per room.
// The host itself polls far more often for its own UI and A-B boundary
// checks; only this throttled subset reaches the room.
const broadcastInterval = time.Second

type TimeUpdate struct {
	CurrentTime float64 `json:"current_time"`
	Duration    float64 `json:"duration"`
}

// LoopState is the server-confirmed echo of the host's loop configuration.
type LoopState struct {
	IsLooping      bool     `json:"is_looping"`
	LoopStart      *float64 `json:"loop_start"`
	LoopEnd        *float64 `json:"loop_end"`
	IsLoopingRange bool     `json:"is_looping_range"`
}

type roomState struct {
	hostID        string
	lastBroadcast time.Time
	current       TimeUpdate
	loop          LoopState
	loopSeeded    bool
}

// Relay keeps per-room playback state and enforces the two write rules:
// only the recognized host may write, and continuous time updates are
// rate-limited while discrete loop changes are not.
type Relay struct {
	mu       sync.Mutex
	rooms    map[string]*roomState
	interval time.Duration
	now      func() time.Time // injectable for tests
}

func New() *Relay {
	return &Relay{
		rooms:    make(map[string]*roomState),
		interval: broadcastInterval,
		now:      time.Now,
	}
}

func (r *Relay) room(roomID string) *roomState {
	state, ok := r.rooms[roomID]
	if !ok {
		state = &roomState{}
		r.rooms[roomID] = state
	}
	return state
}

// SetHost records which user's clock is authoritative for the room.
func (r *Relay) SetHost(roomID, hostID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.room(roomID).hostID = hostID
}

// SeedLoop installs the stored loop configuration the first time a room's
// relay state is touched, so the in-memory view starts from what was
// persisted. Host writes always win over the seed.
func (r *Relay) SeedLoop(roomID string, loop LoopState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state := r.room(roomID)
	if state.loopSeeded {
		return
	}
	state.loop = loop
	state.loopSeeded = true
}

// host returns the recognized host for the room, if any.
func (r *Relay) host(roomID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if state, ok := r.rooms[roomID]; ok {
		return state.hostID
	}
	return ""
}

// RecordTime accepts a clock tick from userID and reports whether it should
// be broadcast. Ticks from anyone but the host are dropped, and at most one
// tick per interval of wall-clock time passes through.
func (r *Relay) RecordTime(roomID, userID string, update TimeUpdate) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[roomID]
	if !ok || state.hostID == "" || state.hostID != userID {
		return false
	}

	state.current = update
	now := r.now()
	if !state.lastBroadcast.IsZero() && now.Sub(state.lastBroadcast) < r.interval {
		return false
	}
	state.lastBroadcast = now
	return true
}

// SetLooping toggles the simple restart-on-end loop. Host only; never
// rate-limited. Returns the resulting loop state and whether it applied.
func (r *Relay) SetLooping(roomID, userID string, isLooping bool) (LoopState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[roomID]
	if !ok || state.hostID == "" || state.hostID != userID {
		return LoopState{}, false
	}
	state.loop.IsLooping = isLooping
	state.loopSeeded = true
	return state.loop, true
}

// SetLoopRange sets or clears the A-B range. The boundary seek itself is a
// host-local decision; the relay only propagates the configuration so every
// client displays the same markers.
func (r *Relay) SetLoopRange(roomID, userID string, start, end *float64, active bool) (LoopState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.rooms[roomID]
	if !ok || state.hostID == "" || state.hostID != userID {
		return LoopState{}, false
	}
	state.loop.LoopStart = start
	state.loop.LoopEnd = end
	state.loop.IsLoopingRange = active
	state.loopSeeded = true
	return state.loop, true
}

// Loop returns the room's current loop configuration.
func (r *Relay) Loop(roomID string) LoopState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if state, ok := r.rooms[roomID]; ok {
		return state.loop
	}
	return LoopState{}
}

// Forget drops all relay state for a room. Called when the room is deleted.
func (r *Relay) Forget(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, roomID)
}
