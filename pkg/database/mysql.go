package database

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kaushang/Groovia/pkg/models"
)

type MySQLDB struct {
	*gorm.DB
}

func NewMySQLDB(host, port, user, password, dbname string) (*MySQLDB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, port, dbname)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &MySQLDB{DB: db}, nil
}

func autoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	return db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Member{},
		&models.Song{},
		&models.QueueItem{},
		&models.Voter{},
		&models.HistoryEntry{},
	)
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// User operations

func (db *MySQLDB) CreateUser(user *models.User) error {
	return db.Create(user).Error
}

func (db *MySQLDB) GetUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, models.ErrUserNotFound)
	}
	return &user, nil
}

func (db *MySQLDB) DeleteUser(id uuid.UUID) error {
	return db.Delete(&models.User{}, "id = ?", id).Error
}

// Room operations

func (db *MySQLDB) CreateRoom(room *models.Room) error {
	return db.Create(room).Error
}

func (db *MySQLDB) GetRoomByID(id uuid.UUID) (*models.Room, error) {
	var room models.Room
	if err := db.First(&room, "id = ?", id).Error; err != nil {
		return nil, notFound(err, models.ErrRoomNotFound)
	}
	return &room, nil
}

func (db *MySQLDB) GetRoomByCode(code string) (*models.Room, error) {
	var room models.Room
	if err := db.First(&room, "code = ?", code).Error; err != nil {
		return nil, notFound(err, models.ErrRoomNotFound)
	}
	return &room, nil
}

func (db *MySQLDB) RoomCodeExists(code string) (bool, error) {
	var count int64
	if err := db.Model(&models.Room{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (db *MySQLDB) UpdateRoom(room *models.Room) error {
	return db.Save(room).Error
}

// DeleteRoomCascade removes the room and everything hanging off it.
func (db *MySQLDB) DeleteRoomCascade(roomID uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var itemIDs []uuid.UUID
		if err := tx.Model(&models.QueueItem{}).Where("room_id = ?", roomID).
			Pluck("id", &itemIDs).Error; err != nil {
			return err
		}
		if len(itemIDs) > 0 {
			if err := tx.Where("queue_item_id IN ?", itemIDs).Delete(&models.Voter{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&models.QueueItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&models.HistoryEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&models.Member{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Room{}, "id = ?", roomID).Error
	})
}

// Member operations

// AppendMember adds a user to a room's member list, idempotently.
func (db *MySQLDB) AppendMember(roomID, userID uuid.UUID) error {
	member := models.Member{
		ID:       uuid.New(),
		RoomID:   roomID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}
	return db.Where("room_id = ? AND user_id = ?", roomID, userID).
		FirstOrCreate(&member).Error
}

// RemoveMember removes a user from a room and returns how many members remain.
func (db *MySQLDB) RemoveMember(roomID, userID uuid.UUID) (int64, error) {
	if err := db.Where("room_id = ? AND user_id = ?", roomID, userID).
		Delete(&models.Member{}).Error; err != nil {
		return 0, err
	}
	var remaining int64
	if err := db.Model(&models.Member{}).Where("room_id = ?", roomID).
		Count(&remaining).Error; err != nil {
		return 0, err
	}
	return remaining, nil
}

func (db *MySQLDB) IsMember(roomID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := db.Model(&models.Member{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetMemberViews resolves the room's members with their usernames.
func (db *MySQLDB) GetMemberViews(roomID uuid.UUID) ([]models.MemberView, error) {
	views := []models.MemberView{}
	err := db.Model(&models.Member{}).
		Select("members.user_id, users.username, members.joined_at").
		Joins("JOIN users ON users.id = members.user_id").
		Where("members.room_id = ?", roomID).
		Order("members.joined_at ASC").
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}

// Queue operations

func (db *MySQLDB) AddQueueItem(item *models.QueueItem) error {
	return db.Create(item).Error
}

// GetQueueItems loads a room's queue with songs and voters populated.
func (db *MySQLDB) GetQueueItems(roomID uuid.UUID) ([]*models.QueueItem, error) {
	var items []*models.QueueItem
	if err := db.Preload("Song").Preload("Voters").
		Where("room_id = ?", roomID).
		Order("added_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (db *MySQLDB) GetQueueItemByID(id uuid.UUID) (*models.QueueItem, error) {
	var item models.QueueItem
	if err := db.Preload("Song").Preload("Voters").
		First(&item, "id = ?", id).Error; err != nil {
		return nil, notFound(err, models.ErrQueueItemNotFound)
	}
	return &item, nil
}

func (db *MySQLDB) DeleteQueueItem(id uuid.UUID) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("queue_item_id = ?", id).Delete(&models.Voter{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.QueueItem{}, "id = ?", id).Error
	})
}

// SaveQueueItemFlags persists playing-state changes made by the queue engine.
func (db *MySQLDB) SaveQueueItemFlags(items []*models.QueueItem) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			if err := tx.Model(&models.QueueItem{}).Where("id = ?", item.ID).
				Update("is_playing", item.IsPlaying).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveQueueItemVotes persists an item's tallies and its voter set, replacing
// the stored voters wholesale so the counters and records cannot diverge.
func (db *MySQLDB) SaveQueueItemVotes(item *models.QueueItem) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.QueueItem{}).Where("id = ?", item.ID).
			Updates(map[string]interface{}{
				"upvotes":      item.Upvotes,
				"downvotes":    item.Downvotes,
				"last_vote_at": item.LastVoteAt,
			}).Error; err != nil {
			return err
		}
		if err := tx.Where("queue_item_id = ?", item.ID).Delete(&models.Voter{}).Error; err != nil {
			return err
		}
		if len(item.Voters) > 0 {
			if err := tx.Create(&item.Voters).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// History operations

func (db *MySQLDB) GetHistory(roomID uuid.UUID) ([]models.HistoryEntry, error) {
	entries := []models.HistoryEntry{}
	if err := db.Preload("Song").
		Where("room_id = ?", roomID).
		Order("played_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// AppendHistory writes a new history entry and deletes the evicted ones.
func (db *MySQLDB) AppendHistory(entry *models.HistoryEntry, evicted []models.HistoryEntry) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		for _, old := range evicted {
			if err := tx.Delete(&models.HistoryEntry{}, "id = ?", old.ID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Song operations

func (db *MySQLDB) CreateSong(song *models.Song) error {
	return db.Create(song).Error
}

func (db *MySQLDB) GetSongByID(id uuid.UUID) (*models.Song, error) {
	var song models.Song
	if err := db.First(&song, "id = ?", id).Error; err != nil {
		return nil, notFound(err, models.ErrSongNotFound)
	}
	return &song, nil
}

func (db *MySQLDB) GetSongBySpotifyID(spotifyID string) (*models.Song, error) {
	var song models.Song
	if err := db.First(&song, "spotify_id = ?", spotifyID).Error; err != nil {
		return nil, notFound(err, models.ErrSongNotFound)
	}
	return &song, nil
}

// SearchSongs matches the local library case-insensitively on title or artist.
func (db *MySQLDB) SearchSongs(query string, limit int) ([]models.Song, error) {
	songs := []models.Song{}
	pattern := "%" + query + "%"
	if err := db.Where("title LIKE ? OR artist LIKE ?", pattern, pattern).
		Limit(limit).
		Find(&songs).Error; err != nil {
		return nil, err
	}
	return songs, nil
}

func (db *MySQLDB) UpdateSongVideoID(songID uuid.UUID, videoID string) error {
	return db.Model(&models.Song{}).Where("id = ?", songID).
		Update("video_id", videoID).Error
}
