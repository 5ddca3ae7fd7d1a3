package models

import (
	"time"

	"github.com/google/uuid"
)

// MemberView is a member entry with its username resolved, as clients see it.
type MemberView struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joined_at"`
}

// RoomSnapshot is the authoritative room state pushed to clients after every
// state-mutating operation. Clients overwrite local optimistic state with it.
type RoomSnapshot struct {
	ID             uuid.UUID      `json:"id"`
	Code           string         `json:"code"`
	Name           string         `json:"name"`
	CreatedBy      uuid.UUID      `json:"created_by"`
	Active         bool           `json:"active"`
	IsLooping      bool           `json:"is_looping"`
	LoopStart      *float64       `json:"loop_start"`
	LoopEnd        *float64       `json:"loop_end"`
	IsLoopingRange bool           `json:"is_looping_range"`
	CreatedAt      time.Time      `json:"created_at"`
	Members        []MemberView   `json:"members"`
	QueueItems     []QueueItem    `json:"queue_items"`
	History        []HistoryEntry `json:"history"`
	ListenerCount  int            `json:"listener_count"`
}
