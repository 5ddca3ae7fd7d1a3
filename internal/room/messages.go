package room

import (
	"github.com/google/uuid"

	"github.com/kaushang/Groovia/pkg/models"
)

// Broadcaster fans a message out to every live socket in a room. Delivery is
// best-effort; a failed socket never blocks the others.
type Broadcaster interface {
	ToRoom(roomID string, message interface{})
}

// ListenerCounter reports how many live connections a room has.
type ListenerCounter interface {
	ListenerCount(roomID string) int
}

// Messages pushed by the service after state mutations. Clients treat
// roomUpdated as the authoritative snapshot and merge it over local state.

type RoomUpdatedMessage struct {
	Type string `json:"type"`
	*models.RoomSnapshot
}

type SongAddedMessage struct {
	Type          string             `json:"type"`
	RoomID        uuid.UUID          `json:"room_id"`
	QueueItems    []models.QueueItem `json:"queue_items"`
	NewSong       *models.QueueItem  `json:"new_song"`
	ListenerCount int                `json:"listener_count"`
}

type VoteUpdatedMessage struct {
	Type             string             `json:"type"`
	RoomID           uuid.UUID          `json:"room_id"`
	QueueItems       []models.QueueItem `json:"queue_items"`
	UpdatedQueueItem *models.QueueItem  `json:"updated_queue_item"`
	VotedBy          VotedBy            `json:"voted_by"`
	VoteType         models.VoteType    `json:"vote_type,omitempty"`
}

type VotedBy struct {
	UserID uuid.UUID `json:"user_id"`
}

type RoomDeletedMessage struct {
	Type   string    `json:"type"`
	RoomID uuid.UUID `json:"room_id"`
}

type HostChangedMessage struct {
	Type      string    `json:"type"`
	RoomID    uuid.UUID `json:"room_id"`
	NewHostID uuid.UUID `json:"new_host_id"`
}
