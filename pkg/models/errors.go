package models

import "errors"

// Sentinel errors shared by the store, services and transport handlers.
// Handlers map these onto HTTP status codes and websocket error events.
var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrSongNotFound      = errors.New("song not found")
	ErrQueueItemNotFound = errors.New("queue item not found")
	ErrNotHost           = errors.New("only the host may perform this action")
	ErrNotOwner          = errors.New("you can only delete your own songs")
	ErrNotMember         = errors.New("user is not a member of this room")
	ErrVideoNotResolved  = errors.New("no video resolved for song")
	ErrInvalidVoteType   = errors.New("vote type must be \"up\" or \"down\"")
)
