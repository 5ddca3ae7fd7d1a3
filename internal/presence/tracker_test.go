package presence

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListenerCountTracksLiveSockets(t *testing.T) {
	tr := NewTracker()
	const n = 8

	for i := 0; i < n; i++ {
		connID := fmt.Sprintf("conn-%d", i)
		tr.Register(connID, fmt.Sprintf("user-%d", i), fmt.Sprintf("name-%d", i))
		count := tr.JoinRoom(connID, "room-1")
		assert.Equal(t, i+1, count)
	}
	assert.Equal(t, n, tr.ListenerCount("room-1"))

	tr.Disconnect("conn-3")
	assert.Equal(t, n-1, tr.ListenerCount("room-1"))
}

func TestLeaveRoomReturnsUpdatedCount(t *testing.T) {
	tr := NewTracker()
	tr.Register("a", "user-a", "alice")
	tr.Register("b", "user-b", "bob")
	tr.JoinRoom("a", "room-1")
	tr.JoinRoom("b", "room-1")

	assert.Equal(t, 1, tr.LeaveRoom("a", "room-1"))
	assert.Equal(t, 0, tr.LeaveRoom("b", "room-1"))
	assert.Equal(t, 0, tr.ListenerCount("room-1"))
}

func TestDuplicateSessionEviction(t *testing.T) {
	tr := NewTracker()
	tr.Register("conn-a", "user-1", "alice")
	tr.JoinRoom("conn-a", "room-1")

	// same user opens a second connection
	tr.Register("conn-b", "user-1", "alice")
	evicted := tr.EvictDuplicateSessions("user-1", "conn-b")
	tr.JoinRoom("conn-b", "room-1")

	assert.Len(t, evicted, 1)
	assert.Equal(t, "conn-a", evicted[0].ConnID)
	assert.Equal(t, []string{"room-1"}, evicted[0].Rooms)
	assert.Equal(t, 1, tr.ListenerCount("room-1"), "only the new connection counts")
}

func TestUserInRoomSuppressesReloadNotifications(t *testing.T) {
	tr := NewTracker()
	tr.Register("conn-a", "user-1", "alice")
	tr.JoinRoom("conn-a", "room-1")

	assert.True(t, tr.UserInRoom("room-1", "user-1"))
	assert.False(t, tr.UserInRoom("room-1", "user-2"))
	assert.False(t, tr.UserInRoom("room-2", "user-1"))
}

func TestDisconnectReturnsRoomsLeft(t *testing.T) {
	tr := NewTracker()
	tr.Register("conn-a", "user-1", "alice")
	tr.JoinRoom("conn-a", "room-1")
	tr.JoinRoom("conn-a", "room-2")

	left := tr.Disconnect("conn-a")
	assert.ElementsMatch(t, []string{"room-1", "room-2"}, left)
	assert.Equal(t, 0, tr.ListenerCount("room-1"))
	assert.Equal(t, 0, tr.ListenerCount("room-2"))
}

func TestConnectionsListsRoomSockets(t *testing.T) {
	tr := NewTracker()
	tr.Register("conn-a", "user-1", "alice")
	tr.Register("conn-b", "user-2", "bob")
	tr.JoinRoom("conn-a", "room-1")
	tr.JoinRoom("conn-b", "room-1")

	assert.ElementsMatch(t, []string{"conn-a", "conn-b"}, tr.Connections("room-1"))
	assert.Empty(t, tr.Connections("room-2"))
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	tr := NewTracker()

	assert.NotPanics(t, func() {
		assert.Equal(t, 0, tr.JoinRoom("ghost", "room-1"))
		assert.Equal(t, 0, tr.LeaveRoom("ghost", "room-1"))
		assert.Nil(t, tr.Disconnect("ghost"))
		assert.Empty(t, tr.EvictDuplicateSessions("nobody", "ghost"))
		assert.Equal(t, "", tr.Username("ghost"))
	})
}

func TestStats(t *testing.T) {
	tr := NewTracker()
	tr.Register("conn-a", "user-1", "alice")
	tr.Register("conn-b", "user-2", "bob")
	tr.JoinRoom("conn-a", "room-1")
	tr.JoinRoom("conn-b", "room-1")

	total, rooms := tr.Stats()
	assert.Equal(t, 2, total)
	assert.Equal(t, 2, rooms["room-1"].ListenerCount)
	assert.ElementsMatch(t, []string{"alice", "bob"}, rooms["room-1"].Usernames)
}
