package ws

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/kaushang/Groovia/internal/presence"
	"github.com/kaushang/Groovia/internal/relay"
	"github.com/kaushang/Groovia/internal/room"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin policy is enforced by the CORS layer
	},
}

type Handler struct {
	hub     *Hub
	tracker *presence.Tracker
	relay   *relay.Relay
	service *room.Service
}

func NewHandler(hub *Hub, tracker *presence.Tracker, r *relay.Relay, service *room.Service) *Handler {
	return &Handler{
		hub:     hub,
		tracker: tracker,
		relay:   r,
		service: service,
	}
}

// HandleWebSocket upgrades the request and runs the connection's read loop.
// The session token has already been validated by the auth middleware.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	userID := c.GetString("user_id")
	username := c.GetString("username")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		ID:       uuid.New().String(),
		UserID:   userID,
		Username: username,
		conn:     conn,
	}
	h.hub.Add(client)
	h.tracker.Register(client.ID, userID, username)
	log.Printf("WebSocket connected: %s (%s)", username, client.ID)

	defer h.disconnect(client)

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error for %s: %v", client.ID, err)
			}
			return
		}
		h.dispatch(c.Request.Context(), client, msg)
	}
}

func (h *Handler) dispatch(ctx context.Context, client *Client, msg ClientMessage) {
	switch msg.Type {
	case MessageJoinRoom:
		h.handleJoin(ctx, client, msg)
	case MessageLeaveRoom:
		h.handleLeave(client, msg)
	case MessageSongEnded:
		h.handleSongEnded(ctx, client, msg)
	case MessageUpdateTime:
		h.handleTimeUpdate(client, msg)
	case MessageToggleLoop:
		h.handleToggleLoop(ctx, client, msg)
	case MessageUpdateLoopRange:
		h.handleLoopRange(ctx, client, msg)
	case MessageMakeHost:
		h.handleMakeHost(ctx, client, msg)
	case MessageKickUser:
		h.handleKick(ctx, client, msg)
	default:
		client.Send(errorMessage("Unknown message type: " + msg.Type))
	}
}

// handleJoin attaches the socket to a room. Older sockets of the same user
// are evicted first so reloads and duplicate tabs never inflate the listener
// count, and the join notification is suppressed when the user was already
// present on another socket.
func (h *Handler) handleJoin(ctx context.Context, client *Client, msg ClientMessage) {
	roomID, err := uuid.Parse(msg.RoomID)
	if err != nil {
		client.Send(errorMessage("Invalid room id"))
		return
	}
	userID, err := uuid.Parse(client.UserID)
	if err != nil {
		client.Send(errorMessage("Invalid session"))
		return
	}

	roomRow, err := h.service.GetRoom(ctx, roomID)
	if err != nil {
		client.Send(errorMessage("Room not found"))
		return
	}

	alreadyInRoom := h.tracker.UserInRoom(msg.RoomID, client.UserID)

	for _, ev := range h.tracker.EvictDuplicateSessions(client.UserID, client.ID) {
		if old, ok := h.hub.Get(ev.ConnID); ok {
			old.Send(errorMessage("Session replaced by a newer connection"))
			old.Close()
			h.hub.Remove(ev.ConnID)
		}
	}

	if err := h.service.EnsureMember(ctx, roomID, userID); err != nil {
		client.Send(errorMessage("Failed to join room"))
		return
	}

	count := h.tracker.JoinRoom(client.ID, msg.RoomID)
	h.relay.SetHost(msg.RoomID, roomRow.CreatedBy.String())
	h.relay.SeedLoop(msg.RoomID, relay.LoopState{
		IsLooping:      roomRow.IsLooping,
		LoopStart:      roomRow.LoopStart,
		LoopEnd:        roomRow.LoopEnd,
		IsLoopingRange: roomRow.IsLoopingRange,
	})

	snapshot, err := h.service.Snapshot(ctx, roomID)
	if err != nil {
		client.Send(errorMessage("Failed to load room state"))
		return
	}
	// the relay is live state and may be ahead of the stored row
	loop := h.relay.Loop(msg.RoomID)
	snapshot.IsLooping = loop.IsLooping
	snapshot.LoopStart = loop.LoopStart
	snapshot.LoopEnd = loop.LoopEnd
	snapshot.IsLoopingRange = loop.IsLoopingRange
	client.Send(JoinedRoomMessage{Type: "joinedRoom", Room: snapshot})

	if !alreadyInRoom {
		h.hub.ToRoomExcept(msg.RoomID, client.ID, UserJoinedMessage{
			Type:          "userJoined",
			RoomID:        msg.RoomID,
			UserID:        client.UserID,
			Username:      client.Username,
			ListenerCount: count,
		})
	}
	h.hub.ToRoom(msg.RoomID, &room.RoomUpdatedMessage{Type: "roomUpdated", RoomSnapshot: snapshot})
}

// handleLeave detaches the socket from the room. Membership in the stored
// room is released through the HTTP leave endpoint; this only affects
// presence.
func (h *Handler) handleLeave(client *Client, msg ClientMessage) {
	count := h.tracker.LeaveRoom(client.ID, msg.RoomID)
	h.notifyLeft(client, msg.RoomID, count)
}

func (h *Handler) notifyLeft(client *Client, roomID string, count int) {
	if h.tracker.UserInRoom(roomID, client.UserID) {
		return // another socket of the same user is still listening
	}
	h.hub.ToRoom(roomID, UserLeftMessage{
		Type:          "userLeft",
		RoomID:        roomID,
		UserID:        client.UserID,
		Username:      client.Username,
		ListenerCount: count,
	})
}

func (h *Handler) handleSongEnded(ctx context.Context, client *Client, msg ClientMessage) {
	roomID, err := uuid.Parse(msg.RoomID)
	if err != nil {
		client.Send(errorMessage("Invalid room id"))
		return
	}
	endedID, err := uuid.Parse(msg.SongID)
	if err != nil {
		client.Send(errorMessage("Invalid song id"))
		return
	}
	if _, err := h.service.AdvanceQueue(ctx, roomID, endedID); err != nil {
		client.Send(errorMessage("Failed to advance queue"))
	}
}

func (h *Handler) handleTimeUpdate(client *Client, msg ClientMessage) {
	update := relay.TimeUpdate{CurrentTime: msg.CurrentTime, Duration: msg.Duration}
	if !h.relay.RecordTime(msg.RoomID, client.UserID, update) {
		return // non-host or throttled; silently dropped
	}
	// the host tracks its own clock locally; only the listeners need it
	h.hub.ToRoomExcept(msg.RoomID, client.ID, TimeUpdatedMessage{
		Type:        "timeUpdated",
		RoomID:      msg.RoomID,
		CurrentTime: msg.CurrentTime,
		Duration:    msg.Duration,
	})
}

func (h *Handler) handleToggleLoop(ctx context.Context, client *Client, msg ClientMessage) {
	state, ok := h.relay.SetLooping(msg.RoomID, client.UserID, msg.IsLooping)
	if !ok {
		client.Send(errorMessage("Only the host can toggle looping"))
		return
	}
	h.persistLoop(ctx, msg.RoomID, state)
	h.hub.ToRoom(msg.RoomID, LoopToggledMessage{
		Type:      "loopToggled",
		RoomID:    msg.RoomID,
		IsLooping: state.IsLooping,
	})
}

func (h *Handler) handleLoopRange(ctx context.Context, client *Client, msg ClientMessage) {
	state, ok := h.relay.SetLoopRange(msg.RoomID, client.UserID, msg.LoopStart, msg.LoopEnd, msg.IsLoopingRange)
	if !ok {
		client.Send(errorMessage("Only the host can set the loop range"))
		return
	}
	h.persistLoop(ctx, msg.RoomID, state)
	h.hub.ToRoom(msg.RoomID, LoopRangeUpdatedMessage{
		Type:           "loopRangeUpdated",
		RoomID:         msg.RoomID,
		LoopStart:      state.LoopStart,
		LoopEnd:        state.LoopEnd,
		IsLoopingRange: state.IsLoopingRange,
	})
}

func (h *Handler) persistLoop(ctx context.Context, rawRoomID string, state relay.LoopState) {
	roomID, err := uuid.Parse(rawRoomID)
	if err != nil {
		return
	}
	if err := h.service.UpdateLoopState(ctx, roomID, state.IsLooping, state.LoopStart, state.LoopEnd, state.IsLoopingRange); err != nil {
		log.Printf("Failed to persist loop state for room %s: %v", rawRoomID, err)
	}
}

func (h *Handler) handleMakeHost(ctx context.Context, client *Client, msg ClientMessage) {
	roomID, err := uuid.Parse(msg.RoomID)
	if err != nil {
		client.Send(errorMessage("Invalid room id"))
		return
	}
	hostID, err := uuid.Parse(client.UserID)
	if err != nil {
		client.Send(errorMessage("Invalid session"))
		return
	}
	newHostID, err := uuid.Parse(msg.NewHostID)
	if err != nil {
		client.Send(errorMessage("Invalid new host id"))
		return
	}

	if _, err := h.service.TransferHost(ctx, roomID, hostID, newHostID); err != nil {
		client.Send(errorMessage("Failed to transfer host"))
		return
	}
	h.relay.SetHost(msg.RoomID, msg.NewHostID)
}

func (h *Handler) handleKick(ctx context.Context, client *Client, msg ClientMessage) {
	roomID, err := uuid.Parse(msg.RoomID)
	if err != nil {
		client.Send(errorMessage("Invalid room id"))
		return
	}
	hostID, err := uuid.Parse(client.UserID)
	if err != nil {
		client.Send(errorMessage("Invalid session"))
		return
	}
	targetID, err := uuid.Parse(msg.TargetUserID)
	if err != nil {
		client.Send(errorMessage("Invalid user id"))
		return
	}

	if _, err := h.service.KickMember(ctx, roomID, hostID, targetID); err != nil {
		client.Send(errorMessage("Failed to kick user"))
		return
	}

	for _, target := range h.hub.ClientsForUser(msg.TargetUserID) {
		target.Send(KickedMessage{Type: "kicked", RoomID: msg.RoomID})
		count := h.tracker.LeaveRoom(target.ID, msg.RoomID)
		h.notifyLeft(target, msg.RoomID, count)
	}
}

// disconnect reaps the connection's presence. Transport loss is an implicit
// leave for listener counting; stored room membership is untouched so a
// reconnect resumes cleanly.
func (h *Handler) disconnect(client *Client) {
	rooms := h.tracker.Disconnect(client.ID)
	h.hub.Remove(client.ID)
	client.Close()

	for _, roomID := range rooms {
		h.notifyLeft(client, roomID, h.tracker.ListenerCount(roomID))
	}
	log.Printf("WebSocket disconnected: %s (%s)", client.Username, client.ID)
}

// HandleStats exposes live connection counts for operational checks.
func (h *Handler) HandleStats(c *gin.Context) {
	total, rooms := h.tracker.Stats()
	c.JSON(http.StatusOK, gin.H{
		"total_connections": total,
		"rooms":             rooms,
	})
}
