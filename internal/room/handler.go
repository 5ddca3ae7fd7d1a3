package room

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kaushang/Groovia/internal/catalog"
	"github.com/kaushang/Groovia/pkg/models"
	"github.com/kaushang/Groovia/pkg/token"
)

type Handler struct {
	service *Service
	catalog *catalog.Client
	issuer  *token.Issuer
}

func NewHandler(service *Service, catalogClient *catalog.Client, issuer *token.Issuer) *Handler {
	return &Handler{
		service: service,
		catalog: catalogClient,
		issuer:  issuer,
	}
}

// RegisterPublicRoutes mounts the routes that need no session token.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	rooms := r.Group("/rooms")
	{
		rooms.POST("/", h.createRoom)
		rooms.POST("/code/:code/join", h.joinByCode)
		rooms.GET("/:id", h.getRoom)
	}
	r.GET("/songs/search", h.searchSongs)
	r.GET("/songs/:id/video", h.getVideoID)
	r.GET("/catalog/search", h.searchCatalog)
}

// RegisterProtectedRoutes mounts the state-mutating routes.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.POST("/rooms/:id/queue", h.addToQueue)
	r.POST("/rooms/:id/leave", h.leaveRoom)
	r.DELETE("/queue/:queueItemId", h.removeFromQueue)
	r.POST("/queue/:queueItemId/vote", h.vote)
	r.DELETE("/queue/:queueItemId/vote", h.removeVote)
	r.PUT("/songs/:id/video", h.setVideoID)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrRoomNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrSongNotFound),
		errors.Is(err, models.ErrQueueItemNotFound),
		errors.Is(err, models.ErrVideoNotResolved):
		return http.StatusNotFound
	case errors.Is(err, models.ErrNotHost), errors.Is(err, models.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotMember), errors.Is(err, models.ErrInvalidVoteType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return uuid.Nil, false
	}
	return id, true
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

type CreateRoomRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
}

func (h *Handler) createRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, user, err := h.service.CreateRoom(c.Request.Context(), req.Name, req.Username)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	sessionToken, err := h.issuer.Generate(user.ID.String(), user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"room":    room,
		"user_id": user.ID,
		"token":   sessionToken,
	})
}

type JoinRoomRequest struct {
	Username string `json:"username" binding:"required"`
}

func (h *Handler) joinByCode(c *gin.Context) {
	code := c.Param("code")
	if len(code) != 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Room code must be 6 characters"})
		return
	}

	var req JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, user, err := h.service.JoinByCode(c.Request.Context(), code, req.Username)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	sessionToken, err := h.issuer.Generate(user.ID.String(), user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room":    snapshot,
		"user_id": user.ID,
		"token":   sessionToken,
	})
}

func (h *Handler) getRoom(c *gin.Context) {
	roomID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	snapshot, err := h.service.Snapshot(c.Request.Context(), roomID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

type AddToQueueRequest struct {
	SongID    string `json:"song_id"`
	SpotifyID string `json:"spotify_id"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Cover     string `json:"cover"`
	Duration  int    `json:"duration"`
	URL       string `json:"url"`
}

func (h *Handler) addToQueue(c *gin.Context) {
	roomID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req AddToQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SongID == "" && req.SpotifyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "song_id or spotify_id is required"})
		return
	}

	input := AddSongInput{
		SpotifyID: req.SpotifyID,
		Title:     req.Title,
		Artist:    req.Artist,
		Cover:     req.Cover,
		Duration:  req.Duration,
		URL:       req.URL,
	}
	if req.SongID != "" {
		songID, err := uuid.Parse(req.SongID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid song_id"})
			return
		}
		input.SongID = &songID
	}

	snapshot, item, err := h.service.AddToQueue(c.Request.Context(), roomID, userID, input)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Song added to queue successfully",
		"queue_items": snapshot.QueueItems,
		"new_song":    item,
	})
}

func (h *Handler) removeFromQueue(c *gin.Context) {
	queueItemID, ok := pathUUID(c, "queueItemId")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if _, err := h.service.RemoveFromQueue(c.Request.Context(), queueItemID, userID); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type VoteRequest struct {
	RoomID   string `json:"room_id" binding:"required"`
	VoteType string `json:"vote_type" binding:"required,oneof=up down"`
}

func (h *Handler) vote(c *gin.Context) {
	queueItemID, ok := pathUUID(c, "queueItemId")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room_id"})
		return
	}

	if _, err := h.service.Vote(c.Request.Context(), roomID, queueItemID, userID, models.VoteType(req.VoteType)); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type RemoveVoteRequest struct {
	RoomID string `json:"room_id" binding:"required"`
}

func (h *Handler) removeVote(c *gin.Context) {
	queueItemID, ok := pathUUID(c, "queueItemId")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req RemoveVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room_id"})
		return
	}

	if _, err := h.service.RemoveVote(c.Request.Context(), roomID, queueItemID, userID); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) leaveRoom(c *gin.Context) {
	roomID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	deleted, err := h.service.LeaveRoom(c.Request.Context(), roomID, userID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"room_deleted": deleted,
	})
}

func (h *Handler) searchSongs(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query required"})
		return
	}

	songs, err := h.service.SearchSongs(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}
	c.JSON(http.StatusOK, songs)
}

func (h *Handler) getVideoID(c *gin.Context) {
	songID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	videoID, err := h.service.VideoID(c.Request.Context(), songID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"video_id": videoID})
}

type SetVideoIDRequest struct {
	VideoID string `json:"video_id" binding:"required"`
}

func (h *Handler) setVideoID(c *gin.Context) {
	songID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req SetVideoIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.SetVideoID(c.Request.Context(), songID, req.VideoID); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// searchCatalog proxies the external catalog. Upstream failures degrade to an
// empty result set; one broken lookup must not disturb room activity.
func (h *Handler) searchCatalog(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"tracks": []catalog.Track{}})
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	tracks, err := h.catalog.SearchTracks(c.Request.Context(), query, offset)
	if err != nil {
		log.Printf("Catalog search failed: %v", err)
		c.JSON(http.StatusOK, gin.H{"tracks": []catalog.Track{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tracks": tracks})
}
