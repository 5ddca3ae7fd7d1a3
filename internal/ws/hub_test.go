package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaushang/Groovia/internal/presence"
)

func newTestHub() (*Hub, *presence.Tracker) {
	tracker := presence.NewTracker()
	return NewHub(tracker), tracker
}

func TestRoomTargetsExcludeOriginatingSocket(t *testing.T) {
	hub, tracker := newTestHub()
	hub.Add(&Client{ID: "conn-a", UserID: "user-1"})
	hub.Add(&Client{ID: "conn-b", UserID: "user-2"})
	tracker.Register("conn-a", "user-1", "alice")
	tracker.Register("conn-b", "user-2", "bob")
	tracker.JoinRoom("conn-a", "room-1")
	tracker.JoinRoom("conn-b", "room-1")

	targets := hub.roomTargets("room-1", "conn-a")
	require.Len(t, targets, 1)
	assert.Equal(t, "conn-b", targets[0].ID, "the sender must not hear its own event")

	assert.Len(t, hub.roomTargets("room-1", ""), 2)
	assert.Empty(t, hub.roomTargets("room-2", ""))
}

func TestRoomTargetsSkipUnregisteredConnections(t *testing.T) {
	hub, tracker := newTestHub()
	hub.Add(&Client{ID: "conn-a", UserID: "user-1"})
	tracker.Register("conn-a", "user-1", "alice")
	tracker.Register("conn-gone", "user-2", "bob")
	tracker.JoinRoom("conn-a", "room-1")
	tracker.JoinRoom("conn-gone", "room-1")

	// conn-gone is tracked but its socket was already removed from the hub
	targets := hub.roomTargets("room-1", "")
	require.Len(t, targets, 1)
	assert.Equal(t, "conn-a", targets[0].ID)
}

func TestClientSendDeliversJSON(t *testing.T) {
	upgraded := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		upgraded <- conn
	}))
	defer srv.Close()

	peer, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer peer.Close()

	client := &Client{ID: "conn-a", conn: <-upgraded}
	defer client.Close()
	require.NoError(t, client.Send(errorMessage("room not found")))

	var got ErrorMessage
	require.NoError(t, peer.ReadJSON(&got))
	assert.Equal(t, "error", got.Type)
	assert.Equal(t, "room not found", got.Message)
}
