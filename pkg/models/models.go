package models

import (
	"time"

	"github.com/google/uuid"
)

type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

// Valid reports whether vt is one of the two accepted vote types.
func (vt VoteType) Valid() bool {
	return vt == VoteUp || vt == VoteDown
}

// User is a guest identity created when someone joins a room and deleted
// when they leave. There are no persistent accounts.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type Room struct {
	ID             uuid.UUID `json:"id" gorm:"primaryKey"`
	Code           string    `json:"code" gorm:"uniqueIndex;size:6"`
	Name           string    `json:"name"`
	CreatedBy      uuid.UUID `json:"created_by"`
	Active         bool      `json:"active"`
	IsLooping      bool      `json:"is_looping"`
	LoopStart      *float64  `json:"loop_start"`
	LoopEnd        *float64  `json:"loop_end"`
	IsLoopingRange bool      `json:"is_looping_range"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Member struct {
	ID       uuid.UUID `json:"id" gorm:"primaryKey"`
	RoomID   uuid.UUID `json:"room_id" gorm:"index:idx_room_user,unique"`
	UserID   uuid.UUID `json:"user_id" gorm:"index:idx_room_user,unique"`
	JoinedAt time.Time `json:"joined_at"`
}

type Song struct {
	ID       uuid.UUID `json:"id" gorm:"primaryKey"`
	Title    string    `json:"title"`
	Artist   string    `json:"artist"`
	Duration int       `json:"duration"` // milliseconds
	Cover    string    `json:"cover"`
	URL      string    `json:"url"`
	// SpotifyID is set for catalog-sourced songs and is unique among them.
	SpotifyID *string `json:"spotify_id,omitempty" gorm:"uniqueIndex"`
	// VideoID is resolved lazily on first lookup and memoized.
	VideoID   *string   `json:"video_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type QueueItem struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey"`
	RoomID    uuid.UUID `json:"room_id" gorm:"index"`
	SongID    uuid.UUID `json:"song_id"`
	Song      Song      `json:"song" gorm:"foreignKey:SongID"`
	Username  string    `json:"username"` // denormalized submitter name
	AddedBy   uuid.UUID `json:"added_by"`
	Upvotes   int       `json:"upvotes"`
	Downvotes int       `json:"downvotes"`
	Voters    []Voter   `json:"voters" gorm:"foreignKey:QueueItemID"`
	IsPlaying bool      `json:"is_playing"`
	AddedAt   time.Time `json:"added_at"`
	// LastVoteAt feeds the pick-next tie-break: first engaged, first served.
	LastVoteAt *time.Time `json:"last_vote_at,omitempty"`
}

type Voter struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey"`
	QueueItemID uuid.UUID `json:"queue_item_id" gorm:"index:idx_item_user,unique"`
	UserID      uuid.UUID `json:"user_id" gorm:"index:idx_item_user,unique"`
	VoteType    VoteType  `json:"vote_type" gorm:"size:4"`
	CreatedAt   time.Time `json:"created_at"`
}

type HistoryEntry struct {
	ID       uuid.UUID `json:"id" gorm:"primaryKey"`
	RoomID   uuid.UUID `json:"room_id" gorm:"index"`
	SongID   uuid.UUID `json:"song_id"`
	Song     Song      `json:"song" gorm:"foreignKey:SongID"`
	AddedBy  uuid.UUID `json:"added_by"`
	PlayedAt time.Time `json:"played_at"`
}

// HistoryLimit bounds the per-room played-items log.
const HistoryLimit = 50
