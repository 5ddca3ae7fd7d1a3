package room

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/google/uuid"

	"github.com/kaushang/Groovia/internal/queue"
	"github.com/kaushang/Groovia/pkg/database"
	"github.com/kaushang/Groovia/pkg/events"
	"github.com/kaushang/Groovia/pkg/models"
	"github.com/kaushang/Groovia/pkg/redis"
)

const codeLength = 6

// Service owns every room state mutation. Mutations to one room are
// serialized through a per-room mutex and the resulting broadcast happens
// inside the critical section, so clients observe a room's updates in the
// order they were applied; different rooms proceed fully in parallel.
type Service struct {
	db        *database.MySQLDB
	cache     *redis.Cache
	events    *events.KafkaClient
	pool      *workerpool.WorkerPool
	broadcast Broadcaster
	listeners ListenerCounter

	locks sync.Map // room id -> *sync.Mutex

	onRoomDeleted func(roomID string)
}

func NewService(db *database.MySQLDB, cache *redis.Cache, events *events.KafkaClient, pool *workerpool.WorkerPool, listeners ListenerCounter) *Service {
	return &Service{
		db:        db,
		cache:     cache,
		events:    events,
		pool:      pool,
		listeners: listeners,
	}
}

// SetBroadcaster wires the websocket hub in after construction.
func (s *Service) SetBroadcaster(b Broadcaster) {
	s.broadcast = b
}

// SetRoomDeletedHook registers cleanup run when a room is torn down.
func (s *Service) SetRoomDeletedHook(fn func(roomID string)) {
	s.onRoomDeleted = fn
}

func (s *Service) lockRoom(roomID uuid.UUID) func() {
	v, _ := s.locks.LoadOrStore(roomID.String(), &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *Service) toRoom(roomID uuid.UUID, message interface{}) {
	if s.broadcast != nil {
		s.broadcast.ToRoom(roomID.String(), message)
	}
}

func (s *Service) listenerCount(roomID uuid.UUID) int {
	if s.listeners == nil {
		return 0
	}
	return s.listeners.ListenerCount(roomID.String())
}

// publishEvent writes to Kafka off the mutation path; failures are logged,
// never surfaced, since the stream is an audit channel.
func (s *Service) publishEvent(eventType events.EventType, roomID, userID uuid.UUID, payload interface{}) {
	if s.events == nil || s.pool == nil {
		return
	}
	s.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.events.PublishEvent(ctx, eventType, roomID.String(), userID.String(), payload); err != nil {
			log.Printf("Failed to publish %s event: %v", eventType, err)
		}
	})
}

// CreateRoom creates the guest user and their room, with the creator as
// host and first member.
func (s *Service) CreateRoom(ctx context.Context, name, username string) (*models.Room, *models.User, error) {
	user := &models.User{
		ID:        uuid.New(),
		Username:  username,
		CreatedAt: time.Now(),
	}
	if err := s.db.CreateUser(user); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	code, err := uniqueRoomCode(s.db.RoomCodeExists)
	if err != nil {
		return nil, nil, err
	}

	room := &models.Room{
		ID:        uuid.New(),
		Code:      code,
		Name:      name,
		CreatedBy: user.ID,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if err := s.db.CreateRoom(room); err != nil {
		return nil, nil, fmt.Errorf("failed to create room: %w", err)
	}
	if err := s.db.AppendMember(room.ID, user.ID); err != nil {
		return nil, nil, fmt.Errorf("failed to add creator to room: %w", err)
	}

	s.publishEvent(events.EventTypeRoomCreated, room.ID, user.ID, map[string]string{
		"name": room.Name,
		"code": room.Code,
	})
	log.Printf("Room created: %s (%s) by %s", room.Name, room.Code, user.Username)
	return room, user, nil
}

// uniqueRoomCode generates a 6-character code, regenerating on collision.
func uniqueRoomCode(exists func(string) (bool, error)) (string, error) {
	for i := 0; i < 10; i++ {
		code := generateRoomCode()
		taken, err := exists(code)
		if err != nil {
			return "", fmt.Errorf("failed to check room code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("unable to generate a unique room code")
}

func generateRoomCode() string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	code := make([]byte, codeLength)
	for i := range code {
		code[i] = charset[rand.Intn(len(charset))]
	}
	return string(code)
}

// JoinByCode creates a guest identity and adds it to the room addressed by
// its 6-character code, broadcasting the membership change.
func (s *Service) JoinByCode(ctx context.Context, code, username string) (*models.RoomSnapshot, *models.User, error) {
	room, err := s.db.GetRoomByCode(code)
	if err != nil {
		return nil, nil, err
	}

	unlock := s.lockRoom(room.ID)
	defer unlock()

	user := &models.User{
		ID:        uuid.New(),
		Username:  username,
		CreatedAt: time.Now(),
	}
	if err := s.db.CreateUser(user); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}
	if err := s.db.AppendMember(room.ID, user.ID); err != nil {
		return nil, nil, fmt.Errorf("failed to add member: %w", err)
	}

	snapshot, err := s.snapshotLocked(room.ID)
	if err != nil {
		return nil, nil, err
	}
	s.toRoom(room.ID, &RoomUpdatedMessage{Type: "roomUpdated", RoomSnapshot: snapshot})

	s.publishEvent(events.EventTypeUserJoined, room.ID, user.ID, events.PresencePayload{
		Username:      user.Username,
		ListenerCount: snapshot.ListenerCount,
	})
	return snapshot, user, nil
}

// EnsureMember idempotently adds an existing user to a room.
func (s *Service) EnsureMember(ctx context.Context, roomID, userID uuid.UUID) error {
	if _, err := s.db.GetRoomByID(roomID); err != nil {
		return err
	}
	unlock := s.lockRoom(roomID)
	defer unlock()
	return s.db.AppendMember(roomID, userID)
}

// Snapshot assembles the authoritative room state.
func (s *Service) Snapshot(ctx context.Context, roomID uuid.UUID) (*models.RoomSnapshot, error) {
	unlock := s.lockRoom(roomID)
	defer unlock()
	return s.snapshotLocked(roomID)
}

func (s *Service) snapshotLocked(roomID uuid.UUID) (*models.RoomSnapshot, error) {
	room, err := s.db.GetRoomByID(roomID)
	if err != nil {
		return nil, err
	}

	members, err := s.db.GetMemberViews(roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	items, err := s.db.GetQueueItems(roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load queue: %w", err)
	}
	history, err := s.db.GetHistory(roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	queue.SortForPlayback(items)
	queueItems := make([]models.QueueItem, 0, len(items))
	for _, item := range items {
		queueItems = append(queueItems, *item)
	}

	return &models.RoomSnapshot{
		ID:             room.ID,
		Code:           room.Code,
		Name:           room.Name,
		CreatedBy:      room.CreatedBy,
		Active:         room.Active,
		IsLooping:      room.IsLooping,
		LoopStart:      room.LoopStart,
		LoopEnd:        room.LoopEnd,
		IsLoopingRange: room.IsLoopingRange,
		CreatedAt:      room.CreatedAt,
		Members:        members,
		QueueItems:     queueItems,
		History:        history,
		ListenerCount:  s.listenerCount(roomID),
	}, nil
}

// AddSongInput carries either a library song id or external catalog metadata.
type AddSongInput struct {
	SongID    *uuid.UUID
	SpotifyID string
	Title     string
	Artist    string
	Cover     string
	Duration  int
	URL       string
}

// AddToQueue appends a song to the room queue. The new item starts playing
// only when nothing else is; otherwise it queues at score zero.
func (s *Service) AddToQueue(ctx context.Context, roomID, userID uuid.UUID, input AddSongInput) (*models.RoomSnapshot, *models.QueueItem, error) {
	user, err := s.db.GetUserByID(userID)
	if err != nil {
		return nil, nil, err
	}

	unlock := s.lockRoom(roomID)
	defer unlock()

	if _, err := s.db.GetRoomByID(roomID); err != nil {
		return nil, nil, err
	}

	song, err := s.resolveSong(input)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.db.GetQueueItems(roomID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load queue: %w", err)
	}
	hasPlaying := false
	for _, item := range items {
		if item.IsPlaying {
			hasPlaying = true
			break
		}
	}

	item := &models.QueueItem{
		ID:        uuid.New(),
		RoomID:    roomID,
		SongID:    song.ID,
		Username:  user.Username,
		AddedBy:   user.ID,
		IsPlaying: !hasPlaying,
		AddedAt:   time.Now(),
	}
	if err := s.db.AddQueueItem(item); err != nil {
		return nil, nil, fmt.Errorf("failed to add to queue: %w", err)
	}
	item.Song = *song

	snapshot, err := s.snapshotLocked(roomID)
	if err != nil {
		return nil, nil, err
	}

	s.toRoom(roomID, &SongAddedMessage{
		Type:          "songAdded",
		RoomID:        roomID,
		QueueItems:    snapshot.QueueItems,
		NewSong:       item,
		ListenerCount: snapshot.ListenerCount,
	})
	s.toRoom(roomID, &RoomUpdatedMessage{Type: "roomUpdated", RoomSnapshot: snapshot})

	s.publishEvent(events.EventTypeSongAdded, roomID, userID, events.SongAddedPayload{
		QueueItemID: item.ID.String(),
		SongID:      song.ID.String(),
		Title:       song.Title,
		Artist:      song.Artist,
		AddedBy:     user.Username,
	})
	return snapshot, item, nil
}

// resolveSong finds or creates the Song row: catalog-sourced songs are keyed
// by their external id, library songs by their own id.
func (s *Service) resolveSong(input AddSongInput) (*models.Song, error) {
	if input.SpotifyID != "" {
		song, err := s.db.GetSongBySpotifyID(input.SpotifyID)
		if err == nil {
			return song, nil
		}
		if !errors.Is(err, models.ErrSongNotFound) {
			return nil, err
		}
		if input.Title == "" || input.Artist == "" {
			return nil, fmt.Errorf("%w: missing song metadata for creation", models.ErrSongNotFound)
		}
		spotifyID := input.SpotifyID
		song = &models.Song{
			ID:        uuid.New(),
			Title:     input.Title,
			Artist:    input.Artist,
			Cover:     input.Cover,
			Duration:  input.Duration,
			URL:       input.URL,
			SpotifyID: &spotifyID,
			CreatedAt: time.Now(),
		}
		if err := s.db.CreateSong(song); err != nil {
			return nil, fmt.Errorf("failed to create song: %w", err)
		}
		return song, nil
	}

	if input.SongID != nil {
		return s.db.GetSongByID(*input.SongID)
	}
	return nil, models.ErrSongNotFound
}

// RemoveFromQueue deletes a queue item; only its submitter may do so. If the
// playing item is removed, the next best item is promoted before persisting.
func (s *Service) RemoveFromQueue(ctx context.Context, queueItemID, userID uuid.UUID) (*models.RoomSnapshot, error) {
	item, err := s.db.GetQueueItemByID(queueItemID)
	if err != nil {
		return nil, err
	}
	roomID := item.RoomID

	unlock := s.lockRoom(roomID)
	defer unlock()

	// re-read under the lock; it may have been removed concurrently
	item, err = s.db.GetQueueItemByID(queueItemID)
	if err != nil {
		return nil, err
	}
	if item.AddedBy != userID {
		return nil, models.ErrNotOwner
	}

	wasPlaying := item.IsPlaying
	if err := s.db.DeleteQueueItem(queueItemID); err != nil {
		return nil, fmt.Errorf("failed to delete queue item: %w", err)
	}

	if wasPlaying {
		if err := s.promoteNextLocked(roomID); err != nil {
			return nil, err
		}
	}

	snapshot, err := s.snapshotLocked(roomID)
	if err != nil {
		return nil, err
	}
	s.toRoom(roomID, &RoomUpdatedMessage{Type: "roomUpdated", RoomSnapshot: snapshot})
	return snapshot, nil
}

func (s *Service) promoteNextLocked(roomID uuid.UUID) error {
	items, err := s.db.GetQueueItems(roomID)
	if err != nil {
		return fmt.Errorf("failed to load queue: %w", err)
	}
	queue.PromoteNext(items)
	if err := s.db.SaveQueueItemFlags(items); err != nil {
		return fmt.Errorf("failed to persist queue flags: %w", err)
	}
	return nil
}

// Vote applies an up or down vote from a user to a queue item.
func (s *Service) Vote(ctx context.Context, roomID, queueItemID, userID uuid.UUID, voteType models.VoteType) (*models.RoomSnapshot, error) {
	if !voteType.Valid() {
		return nil, models.ErrInvalidVoteType
	}

	unlock := s.lockRoom(roomID)
	defer unlock()

	if _, err := s.db.GetRoomByID(roomID); err != nil {
		return nil, err
	}
	item, err := s.db.GetQueueItemByID(queueItemID)
	if err != nil {
		return nil, err
	}
	if item.RoomID != roomID {
		return nil, models.ErrQueueItemNotFound
	}

	if queue.CastVote(item, userID, voteType, time.Now()) {
		if err := s.db.SaveQueueItemVotes(item); err != nil {
			return nil, fmt.Errorf("failed to persist vote: %w", err)
		}
	}

	snapshot, err := s.snapshotLocked(roomID)
	if err != nil {
		return nil, err
	}
	s.toRoom(roomID, &VoteUpdatedMessage{
		Type:             "voteUpdated",
		RoomID:           roomID,
		QueueItems:       snapshot.QueueItems,
		UpdatedQueueItem: item,
		VotedBy:          VotedBy{UserID: userID},
		VoteType:         voteType,
	})

	s.publishEvent(events.EventTypeSongVoted, roomID, userID, events.SongVotedPayload{
		QueueItemID: item.ID.String(),
		VoteType:    string(voteType),
		Upvotes:     item.Upvotes,
		Downvotes:   item.Downvotes,
	})
	return snapshot, nil
}

// RemoveVote drops a user's vote from a queue item entirely.
func (s *Service) RemoveVote(ctx context.Context, roomID, queueItemID, userID uuid.UUID) (*models.RoomSnapshot, error) {
	unlock := s.lockRoom(roomID)
	defer unlock()

	if _, err := s.db.GetRoomByID(roomID); err != nil {
		return nil, err
	}
	item, err := s.db.GetQueueItemByID(queueItemID)
	if err != nil {
		return nil, err
	}
	if item.RoomID != roomID {
		return nil, models.ErrQueueItemNotFound
	}

	if queue.RemoveVote(item, userID) {
		if err := s.db.SaveQueueItemVotes(item); err != nil {
			return nil, fmt.Errorf("failed to persist vote removal: %w", err)
		}
	}

	snapshot, err := s.snapshotLocked(roomID)
	if err != nil {
		return nil, err
	}
	s.toRoom(roomID, &VoteUpdatedMessage{
		Type:             "voteUpdated",
		RoomID:           roomID,
		QueueItems:       snapshot.QueueItems,
		UpdatedQueueItem: item,
		VotedBy:          VotedBy{UserID: userID},
	})
	return snapshot, nil
}

// AdvanceQueue moves a finished item into the bounded history and promotes
// the next best item. endedID may be the queue item id or its song id, as
// hosts historically reported either.
func (s *Service) AdvanceQueue(ctx context.Context, roomID, endedID uuid.UUID) (*models.RoomSnapshot, error) {
	unlock := s.lockRoom(roomID)
	defer unlock()

	if _, err := s.db.GetRoomByID(roomID); err != nil {
		return nil, err
	}

	items, err := s.db.GetQueueItems(roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load queue: %w", err)
	}

	var ended *models.QueueItem
	for _, item := range items {
		if item.ID == endedID || item.SongID == endedID {
			ended = item
			break
		}
	}
	if ended == nil {
		return nil, models.ErrQueueItemNotFound
	}

	history, err := s.db.GetHistory(roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	entry := models.HistoryEntry{
		ID:       uuid.New(),
		RoomID:   roomID,
		SongID:   ended.SongID,
		AddedBy:  ended.AddedBy,
		PlayedAt: time.Now(),
	}
	_, evicted := queue.TrimHistory(history, entry, models.HistoryLimit)
	if err := s.db.AppendHistory(&entry, evicted); err != nil {
		return nil, fmt.Errorf("failed to append history: %w", err)
	}

	if err := s.db.DeleteQueueItem(ended.ID); err != nil {
		return nil, fmt.Errorf("failed to remove ended item: %w", err)
	}

	var promoted *models.QueueItem
	remaining, err := s.db.GetQueueItems(roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to load queue: %w", err)
	}
	promoted = queue.PromoteNext(remaining)
	if err := s.db.SaveQueueItemFlags(remaining); err != nil {
		return nil, fmt.Errorf("failed to persist queue flags: %w", err)
	}

	snapshot, err := s.snapshotLocked(roomID)
	if err != nil {
		return nil, err
	}
	s.toRoom(roomID, &RoomUpdatedMessage{Type: "roomUpdated", RoomSnapshot: snapshot})

	payload := events.SongEndedPayload{SongID: ended.SongID.String()}
	if promoted != nil {
		payload.NextSongID = promoted.SongID.String()
	}
	s.publishEvent(events.EventTypeSongEnded, roomID, ended.AddedBy, payload)
	return snapshot, nil
}

// LeaveRoom removes a member and their guest identity. The last member out
// deletes the room; lingering sockets get a roomDeleted notice to redirect.
func (s *Service) LeaveRoom(ctx context.Context, roomID, userID uuid.UUID) (deleted bool, err error) {
	unlock := s.lockRoom(roomID)
	defer unlock()

	room, err := s.db.GetRoomByID(roomID)
	if err != nil {
		return false, err
	}
	isMember, err := s.db.IsMember(roomID, userID)
	if err != nil {
		return false, err
	}
	if !isMember {
		return false, models.ErrNotMember
	}

	username := ""
	if user, err := s.db.GetUserByID(userID); err == nil {
		username = user.Username
	}

	remaining, err := s.db.RemoveMember(roomID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove member: %w", err)
	}

	if remaining == 0 {
		if err := s.db.DeleteRoomCascade(roomID); err != nil {
			return false, fmt.Errorf("failed to delete room: %w", err)
		}
		s.toRoom(roomID, &RoomDeletedMessage{Type: "roomDeleted", RoomID: roomID})
		if s.onRoomDeleted != nil {
			s.onRoomDeleted(roomID.String())
		}
		s.publishEvent(events.EventTypeRoomDeleted, roomID, userID, map[string]string{
			"code": room.Code,
		})
		deleted = true
	} else {
		snapshot, err := s.snapshotLocked(roomID)
		if err != nil {
			return false, err
		}
		s.toRoom(roomID, &RoomUpdatedMessage{Type: "roomUpdated", RoomSnapshot: snapshot})
	}

	// guest identities do not outlive their membership
	if err := s.db.DeleteUser(userID); err != nil {
		log.Printf("Warning: failed to delete user %s: %v", userID, err)
	}

	s.publishEvent(events.EventTypeUserLeft, roomID, userID, events.PresencePayload{
		Username:      username,
		ListenerCount: s.listenerCount(roomID),
	})
	return deleted, nil
}

// TransferHost hands the authoritative playback clock to another member.
func (s *Service) TransferHost(ctx context.Context, roomID, hostID, newHostID uuid.UUID) (*models.RoomSnapshot, error) {
	unlock := s.lockRoom(roomID)
	defer unlock()

	room, err := s.db.GetRoomByID(roomID)
	if err != nil {
		return nil, err
	}
	if room.CreatedBy != hostID {
		return nil, models.ErrNotHost
	}
	isMember, err := s.db.IsMember(roomID, newHostID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, models.ErrNotMember
	}

	room.CreatedBy = newHostID
	if err := s.db.UpdateRoom(room); err != nil {
		return nil, fmt.Errorf("failed to update room host: %w", err)
	}

	snapshot, err := s.snapshotLocked(roomID)
	if err != nil {
		return nil, err
	}
	s.toRoom(roomID, &HostChangedMessage{Type: "hostChanged", RoomID: roomID, NewHostID: newHostID})
	s.toRoom(roomID, &RoomUpdatedMessage{Type: "roomUpdated", RoomSnapshot: snapshot})

	s.publishEvent(events.EventTypeHostChanged, roomID, hostID, events.HostChangedPayload{
		NewHostID: newHostID.String(),
	})
	return snapshot, nil
}

// KickMember lets the host remove another member. The kicked guest identity
// is deleted like a normal leave; transport-level eviction is the caller's job.
func (s *Service) KickMember(ctx context.Context, roomID, hostID, targetID uuid.UUID) (*models.RoomSnapshot, error) {
	unlock := s.lockRoom(roomID)
	defer unlock()

	room, err := s.db.GetRoomByID(roomID)
	if err != nil {
		return nil, err
	}
	if room.CreatedBy != hostID {
		return nil, models.ErrNotHost
	}
	if hostID == targetID {
		return nil, models.ErrNotMember
	}
	isMember, err := s.db.IsMember(roomID, targetID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, models.ErrNotMember
	}

	if _, err := s.db.RemoveMember(roomID, targetID); err != nil {
		return nil, fmt.Errorf("failed to remove member: %w", err)
	}
	if err := s.db.DeleteUser(targetID); err != nil {
		log.Printf("Warning: failed to delete user %s: %v", targetID, err)
	}

	snapshot, err := s.snapshotLocked(roomID)
	if err != nil {
		return nil, err
	}
	s.toRoom(roomID, &RoomUpdatedMessage{Type: "roomUpdated", RoomSnapshot: snapshot})
	return snapshot, nil
}

// UpdateLoopState persists the relay-confirmed loop configuration so new
// joiners see the room's current loop markers in their first snapshot.
func (s *Service) UpdateLoopState(ctx context.Context, roomID uuid.UUID, isLooping bool, loopStart, loopEnd *float64, isLoopingRange bool) error {
	unlock := s.lockRoom(roomID)
	defer unlock()

	room, err := s.db.GetRoomByID(roomID)
	if err != nil {
		return err
	}
	room.IsLooping = isLooping
	room.LoopStart = loopStart
	room.LoopEnd = loopEnd
	room.IsLoopingRange = isLoopingRange
	if err := s.db.UpdateRoom(room); err != nil {
		return fmt.Errorf("failed to persist loop state: %w", err)
	}
	return nil
}

// VideoID returns the playback video id resolved for a song, consulting the
// cache before the stored row.
func (s *Service) VideoID(ctx context.Context, songID uuid.UUID) (string, error) {
	if s.cache != nil {
		if id, err := s.cache.GetVideoID(ctx, songID.String()); err == nil && id != "" {
			return id, nil
		}
	}

	song, err := s.db.GetSongByID(songID)
	if err != nil {
		return "", err
	}
	if song.VideoID == nil || *song.VideoID == "" {
		return "", models.ErrVideoNotResolved
	}
	if s.cache != nil {
		if err := s.cache.StoreVideoID(ctx, songID.String(), *song.VideoID); err != nil {
			log.Printf("Warning: failed to cache video id for song %s: %v", songID, err)
		}
	}
	return *song.VideoID, nil
}

// SetVideoID persists a resolved video id for a song and memoizes it.
func (s *Service) SetVideoID(ctx context.Context, songID uuid.UUID, videoID string) error {
	if _, err := s.db.GetSongByID(songID); err != nil {
		return err
	}
	if err := s.db.UpdateSongVideoID(songID, videoID); err != nil {
		return fmt.Errorf("failed to store video id: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.StoreVideoID(ctx, songID.String(), videoID); err != nil {
			log.Printf("Warning: failed to cache video id for song %s: %v", songID, err)
		}
	}
	return nil
}

// SearchSongs queries the local song library.
func (s *Service) SearchSongs(ctx context.Context, query string) ([]models.Song, error) {
	return s.db.SearchSongs(query, 10)
}

// GetRoom returns the stored room row without assembling a snapshot.
func (s *Service) GetRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error) {
	return s.db.GetRoomByID(roomID)
}
