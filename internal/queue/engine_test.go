package queue

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/kaushang/Groovia/pkg/models"
)

func newItem(addedAt time.Time) *models.QueueItem {
	return &models.QueueItem{
		ID:      uuid.New(),
		RoomID:  uuid.New(),
		SongID:  uuid.New(),
		AddedAt: addedAt,
	}
}

func TestCastVoteIdempotent(t *testing.T) {
	item := newItem(time.Now())
	user := uuid.New()
	now := time.Now()

	assert.True(t, CastVote(item, user, models.VoteUp, now))
	for i := 0; i < 5; i++ {
		assert.False(t, CastVote(item, user, models.VoteUp, now.Add(time.Duration(i)*time.Second)))
	}

	assert.Equal(t, 1, item.Upvotes)
	assert.Equal(t, 0, item.Downvotes)
	assert.Len(t, item.Voters, 1)
}

func TestCastVoteSwitchConservation(t *testing.T) {
	item := newItem(time.Now())
	user := uuid.New()
	now := time.Now()

	sequence := []models.VoteType{
		models.VoteUp, models.VoteDown, models.VoteDown,
		models.VoteUp, models.VoteDown, models.VoteUp,
	}
	for i, vt := range sequence {
		CastVote(item, user, vt, now.Add(time.Duration(i)*time.Second))
		assert.Equal(t, 1, item.Upvotes+item.Downvotes,
			"one user must never count more than once")
		assert.Len(t, item.Voters, 1)
	}
	assert.Equal(t, 1, item.Upvotes)
	assert.Equal(t, 0, item.Downvotes)
}

func TestCastVoteManyUsers(t *testing.T) {
	item := newItem(time.Now())
	now := time.Now()

	for i := 0; i < 10; i++ {
		vt := models.VoteUp
		if i%2 == 1 {
			vt = models.VoteDown
		}
		CastVote(item, uuid.New(), vt, now)
	}

	assert.Equal(t, 10, item.Upvotes+item.Downvotes)
	assert.Equal(t, 5, item.Upvotes)
	assert.Equal(t, 5, item.Downvotes)
	assert.Len(t, item.Voters, 10)
}

func TestRemoveVote(t *testing.T) {
	item := newItem(time.Now())
	user := uuid.New()
	now := time.Now()

	CastVote(item, user, models.VoteDown, now)
	assert.Equal(t, 1, item.Downvotes)

	assert.True(t, RemoveVote(item, user))
	assert.Equal(t, 0, item.Downvotes)
	assert.Empty(t, item.Voters)

	// removing again is a no-op
	assert.False(t, RemoveVote(item, user))
	assert.Equal(t, 0, item.Upvotes)
	assert.Equal(t, 0, item.Downvotes)
}

func TestPromoteNextSinglePlaying(t *testing.T) {
	base := time.Now()
	items := []*models.QueueItem{newItem(base), newItem(base.Add(time.Second)), newItem(base.Add(2 * time.Second))}

	promoted := PromoteNext(items)
	assert.NotNil(t, promoted)

	playing := 0
	for _, item := range items {
		if item.IsPlaying {
			playing++
		}
	}
	assert.Equal(t, 1, playing)

	// stray duplicate playing flags are cleared, keeping exactly one
	items[1].IsPlaying = true
	items[2].IsPlaying = true
	PromoteNext(items)
	playing = 0
	for _, item := range items {
		if item.IsPlaying {
			playing++
		}
	}
	assert.Equal(t, 1, playing)
}

func TestPromoteNextEmptyQueue(t *testing.T) {
	assert.Nil(t, PromoteNext(nil))
	assert.Nil(t, PromoteNext([]*models.QueueItem{}))
}

func TestPlayingItemPinnedDespiteVotes(t *testing.T) {
	base := time.Now()
	playing := newItem(base)
	playing.IsPlaying = true
	challenger := newItem(base.Add(time.Second))

	items := []*models.QueueItem{challenger, playing}
	for i := 0; i < 5; i++ {
		CastVote(challenger, uuid.New(), models.VoteUp, base.Add(time.Duration(i)*time.Second))
	}

	SortForPlayback(items)
	assert.Equal(t, playing.ID, items[0].ID,
		"playing item must stay at rank 0 regardless of score")
	assert.Equal(t, challenger.ID, items[1].ID)
}

func TestSortTieBreakFirstEngaged(t *testing.T) {
	base := time.Now()
	first := newItem(base)
	second := newItem(base.Add(time.Second))
	third := newItem(base.Add(2 * time.Second))

	// all at score zero: insertion order decides
	items := []*models.QueueItem{third, first, second}
	SortForPlayback(items)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID, third.ID},
		[]uuid.UUID{items[0].ID, items[1].ID, items[2].ID})

	// an up+down pair keeps third at score zero but marks it engaged
	// before the untouched items' insertion times are reached again
	CastVote(third, uuid.New(), models.VoteUp, base.Add(3*time.Second))
	CastVote(third, uuid.New(), models.VoteDown, base.Add(4*time.Second))
	SortForPlayback(items)
	assert.Equal(t, first.ID, items[0].ID,
		"earlier insertion still wins against a later engagement")
}

func TestSortScoreDescending(t *testing.T) {
	base := time.Now()
	low := newItem(base)
	high := newItem(base.Add(time.Second))
	mid := newItem(base.Add(2 * time.Second))

	for i := 0; i < 3; i++ {
		CastVote(high, uuid.New(), models.VoteUp, base)
	}
	CastVote(mid, uuid.New(), models.VoteUp, base)
	CastVote(low, uuid.New(), models.VoteDown, base)

	items := []*models.QueueItem{low, mid, high}
	SortForPlayback(items)
	assert.Equal(t, high.ID, items[0].ID)
	assert.Equal(t, mid.ID, items[1].ID)
	assert.Equal(t, low.ID, items[2].ID)
}

func TestTrimHistoryBound(t *testing.T) {
	var entries []models.HistoryEntry
	var evictedTotal int
	base := time.Now()

	songs := make([]uuid.UUID, 60)
	for i := range songs {
		songs[i] = uuid.New()
		entry := models.HistoryEntry{
			ID:       uuid.New(),
			SongID:   songs[i],
			PlayedAt: base.Add(time.Duration(i) * time.Minute),
		}
		var evicted []models.HistoryEntry
		entries, evicted = TrimHistory(entries, entry, models.HistoryLimit)
		evictedTotal += len(evicted)
	}

	assert.Len(t, entries, models.HistoryLimit)
	assert.Equal(t, 10, evictedTotal)
	// the kept window is the 50 most recent completions in order
	assert.Equal(t, songs[10], entries[0].SongID)
	assert.Equal(t, songs[59], entries[len(entries)-1].SongID)
}

// Scenario: two users, two songs; the first song auto-plays, the second
// gathers votes but stays queued until the first finishes.
func TestQueueLifecycleScenario(t *testing.T) {
	base := time.Now()
	userY := uuid.New()

	s1 := newItem(base)
	items := []*models.QueueItem{s1}
	assert.Equal(t, s1, PromoteNext(items), "first song auto-plays in an empty room")

	s2 := newItem(base.Add(time.Minute))
	items = append(items, s2)
	assert.Nil(t, PromoteNext(items), "nothing is promoted while a song plays")

	CastVote(s2, userY, models.VoteUp, base.Add(2*time.Minute))
	assert.Equal(t, 1, Score(s2))

	SortForPlayback(items)
	assert.Equal(t, s1.ID, items[0].ID, "score does not displace the playing song")

	// s1 ends: it leaves the queue and s2 takes over
	s1.IsPlaying = false
	items = items[1:]
	assert.Equal(t, s2, PromoteNext(items))
	assert.True(t, s2.IsPlaying)
}
