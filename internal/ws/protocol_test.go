package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientMessageDecoding(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		check func(t *testing.T, msg ClientMessage)
	}{
		{
			name: "join room",
			raw:  `{"type":"joinRoom","room_id":"room-1"}`,
			check: func(t *testing.T, msg ClientMessage) {
				assert.Equal(t, MessageJoinRoom, msg.Type)
				assert.Equal(t, "room-1", msg.RoomID)
			},
		},
		{
			name: "leave room",
			raw:  `{"type":"leaveRoom","room_id":"room-1"}`,
			check: func(t *testing.T, msg ClientMessage) {
				assert.Equal(t, MessageLeaveRoom, msg.Type)
			},
		},
		{
			name: "song ended carries the ended id",
			raw:  `{"type":"songEnded","room_id":"room-1","song_id":"a1b2"}`,
			check: func(t *testing.T, msg ClientMessage) {
				assert.Equal(t, MessageSongEnded, msg.Type)
				assert.Equal(t, "a1b2", msg.SongID)
			},
		},
		{
			name: "time update carries the clock",
			raw:  `{"type":"updateTime","room_id":"room-1","current_time":42.5,"duration":180}`,
			check: func(t *testing.T, msg ClientMessage) {
				assert.Equal(t, MessageUpdateTime, msg.Type)
				assert.Equal(t, 42.5, msg.CurrentTime)
				assert.Equal(t, 180.0, msg.Duration)
			},
		},
		{
			name: "toggle loop",
			raw:  `{"type":"toggleLoop","room_id":"room-1","is_looping":true}`,
			check: func(t *testing.T, msg ClientMessage) {
				assert.Equal(t, MessageToggleLoop, msg.Type)
				assert.True(t, msg.IsLooping)
			},
		},
		{
			name: "loop range with boundaries",
			raw:  `{"type":"updateLoopRange","room_id":"room-1","loop_start":12.5,"loop_end":48,"is_looping_range":true}`,
			check: func(t *testing.T, msg ClientMessage) {
				assert.Equal(t, MessageUpdateLoopRange, msg.Type)
				require.NotNil(t, msg.LoopStart)
				require.NotNil(t, msg.LoopEnd)
				assert.Equal(t, 12.5, *msg.LoopStart)
				assert.Equal(t, 48.0, *msg.LoopEnd)
				assert.True(t, msg.IsLoopingRange)
			},
		},
		{
			name: "loop range cleared keeps nil boundaries",
			raw:  `{"type":"updateLoopRange","room_id":"room-1","loop_start":null,"loop_end":null,"is_looping_range":false}`,
			check: func(t *testing.T, msg ClientMessage) {
				assert.Nil(t, msg.LoopStart)
				assert.Nil(t, msg.LoopEnd)
				assert.False(t, msg.IsLoopingRange)
			},
		},
		{
			name: "make host",
			raw:  `{"type":"makeHost","room_id":"room-1","new_host_id":"user-2"}`,
			check: func(t *testing.T, msg ClientMessage) {
				assert.Equal(t, MessageMakeHost, msg.Type)
				assert.Equal(t, "user-2", msg.NewHostID)
			},
		},
		{
			name: "kick user",
			raw:  `{"type":"kickUser","room_id":"room-1","user_id_to_kick":"user-3"}`,
			check: func(t *testing.T, msg ClientMessage) {
				assert.Equal(t, MessageKickUser, msg.Type)
				assert.Equal(t, "user-3", msg.TargetUserID)
			},
		},
		{
			name: "unknown fields are ignored",
			raw:  `{"type":"joinRoom","room_id":"room-1","extra":"noise"}`,
			check: func(t *testing.T, msg ClientMessage) {
				assert.Equal(t, MessageJoinRoom, msg.Type)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msg ClientMessage
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &msg))
			tt.check(t, msg)
		})
	}
}
