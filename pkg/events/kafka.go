package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type EventType string

const (
	EventTypeRoomCreated EventType = "room_created"
	EventTypeRoomDeleted EventType = "room_deleted"
	EventTypeSongAdded   EventType = "song_added"
	EventTypeSongVoted   EventType = "song_voted"
	EventTypeSongEnded   EventType = "song_ended"
	EventTypeUserJoined  EventType = "user_joined"
	EventTypeUserLeft    EventType = "user_left"
	EventTypeHostChanged EventType = "host_changed"
)

// Event is the envelope written to the room-events topic. It is an audit
// stream for out-of-process consumers; live clients are fed over websockets.
type Event struct {
	Type      EventType       `json:"type"`
	RoomID    string          `json:"room_id"`
	UserID    string          `json:"user_id"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

type KafkaClient struct {
	writer *kafka.Writer
	reader *kafka.Reader
}

func NewKafkaClient(brokers []string, topic string, groupID string) *KafkaClient {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		StartOffset: kafka.LastOffset,
	})

	return &KafkaClient{
		writer: writer,
		reader: reader,
	}
}

// PublishEvent writes one event, keyed by room so a room's events stay ordered
// within a partition.
func (k *KafkaClient) PublishEvent(ctx context.Context, eventType EventType, roomID, userID string, payload interface{}) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	event := Event{
		Type:      eventType,
		RoomID:    roomID,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payloadJSON,
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	key := roomID
	if key == "" {
		key = uuid.New().String()
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: eventJSON,
	}

	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// ConsumeEvents reads events until ctx is cancelled, invoking handler per event.
func (k *KafkaClient) ConsumeEvents(ctx context.Context, handler func(Event) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			msg, err := k.reader.ReadMessage(ctx)
			if err != nil {
				return fmt.Errorf("failed to read message: %w", err)
			}

			var event Event
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal event: %w", err)
			}

			if err := handler(event); err != nil {
				return fmt.Errorf("failed to handle event: %w", err)
			}
		}
	}
}

func (k *KafkaClient) Close() error {
	if err := k.writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}
	if err := k.reader.Close(); err != nil {
		return fmt.Errorf("failed to close reader: %w", err)
	}
	return nil
}

// Event payload types

type SongAddedPayload struct {
	QueueItemID string `json:"queue_item_id"`
	SongID      string `json:"song_id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	AddedBy     string `json:"added_by"`
}

type SongVotedPayload struct {
	QueueItemID string `json:"queue_item_id"`
	VoteType    string `json:"vote_type"`
	Upvotes     int    `json:"upvotes"`
	Downvotes   int    `json:"downvotes"`
}

type SongEndedPayload struct {
	SongID     string `json:"song_id"`
	NextSongID string `json:"next_song_id,omitempty"`
}

type PresencePayload struct {
	Username      string `json:"username"`
	ListenerCount int    `json:"listener_count"`
}

type HostChangedPayload struct {
	NewHostID string `json:"new_host_id"`
}
