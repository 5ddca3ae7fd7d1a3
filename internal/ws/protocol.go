package ws

// ClientMessage is the single envelope for everything a socket sends us.
// Type selects the operation; the remaining fields are read per type and
// ignored otherwise.
type ClientMessage struct {
	Type           string   `json:"type"`
	RoomID         string   `json:"room_id"`
	SongID         string   `json:"song_id,omitempty"`
	CurrentTime    float64  `json:"current_time,omitempty"`
	Duration       float64  `json:"duration,omitempty"`
	IsLooping      bool     `json:"is_looping,omitempty"`
	LoopStart      *float64 `json:"loop_start,omitempty"`
	LoopEnd        *float64 `json:"loop_end,omitempty"`
	IsLoopingRange bool     `json:"is_looping_range,omitempty"`
	NewHostID      string   `json:"new_host_id,omitempty"`
	TargetUserID   string   `json:"user_id_to_kick,omitempty"`
}

// Client message types.
const (
	MessageJoinRoom        = "joinRoom"
	MessageLeaveRoom       = "leaveRoom"
	MessageSongEnded       = "songEnded"
	MessageUpdateTime      = "updateTime"
	MessageToggleLoop      = "toggleLoop"
	MessageUpdateLoopRange = "updateLoopRange"
	MessageMakeHost        = "makeHost"
	MessageKickUser        = "kickUser"
)

type JoinedRoomMessage struct {
	Type string      `json:"type"`
	Room interface{} `json:"room"`
}

type UserJoinedMessage struct {
	Type          string `json:"type"`
	RoomID        string `json:"room_id"`
	UserID        string `json:"user_id"`
	Username      string `json:"username"`
	ListenerCount int    `json:"listener_count"`
}

type UserLeftMessage struct {
	Type          string `json:"type"`
	RoomID        string `json:"room_id"`
	UserID        string `json:"user_id"`
	Username      string `json:"username"`
	ListenerCount int    `json:"listener_count"`
}

type TimeUpdatedMessage struct {
	Type        string  `json:"type"`
	RoomID      string  `json:"room_id"`
	CurrentTime float64 `json:"current_time"`
	Duration    float64 `json:"duration"`
}

type LoopToggledMessage struct {
	Type      string `json:"type"`
	RoomID    string `json:"room_id"`
	IsLooping bool   `json:"is_looping"`
}

type LoopRangeUpdatedMessage struct {
	Type           string   `json:"type"`
	RoomID         string   `json:"room_id"`
	LoopStart      *float64 `json:"loop_start"`
	LoopEnd        *float64 `json:"loop_end"`
	IsLoopingRange bool     `json:"is_looping_range"`
}

type KickedMessage struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func errorMessage(message string) ErrorMessage {
	return ErrorMessage{Type: "error", Message: message}
}
