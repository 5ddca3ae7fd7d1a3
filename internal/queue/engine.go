// Package queue implements the room queue engine: vote tallying, the
// pick-next ordering and the bounded play history. It is pure state
// manipulation with no I/O, so transport handlers stay thin adapters.
package queue

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kaushang/Groovia/pkg/models"
)

// Score is the ranking score of a queue item.
func Score(item *models.QueueItem) int {
	return item.Upvotes - item.Downvotes
}

// CastVote applies a user's vote to a queue item and returns whether the
// tallies changed. A repeated identical vote is a no-op; a vote of the other
// type switches the stored vote in place, moving one count across. A user
// holds at most one vote per item.
func CastVote(item *models.QueueItem, userID uuid.UUID, voteType models.VoteType, now time.Time) bool {
	for i := range item.Voters {
		existing := &item.Voters[i]
		if existing.UserID != userID {
			continue
		}
		if existing.VoteType == voteType {
			return false
		}
		if existing.VoteType == models.VoteUp {
			item.Upvotes--
		} else {
			item.Downvotes--
		}
		existing.VoteType = voteType
		if voteType == models.VoteUp {
			item.Upvotes++
		} else {
			item.Downvotes++
		}
		item.LastVoteAt = &now
		return true
	}

	item.Voters = append(item.Voters, models.Voter{
		ID:          uuid.New(),
		QueueItemID: item.ID,
		UserID:      userID,
		VoteType:    voteType,
		CreatedAt:   now,
	})
	if voteType == models.VoteUp {
		item.Upvotes++
	} else {
		item.Downvotes++
	}
	item.LastVoteAt = &now
	return true
}

// RemoveVote drops a user's vote from an item entirely, decrementing the
// matching counter. Returns false if the user had no vote on the item.
func RemoveVote(item *models.QueueItem, userID uuid.UUID) bool {
	for i := range item.Voters {
		if item.Voters[i].UserID != userID {
			continue
		}
		if item.Voters[i].VoteType == models.VoteUp {
			item.Upvotes--
		} else {
			item.Downvotes--
		}
		item.Voters = append(item.Voters[:i], item.Voters[i+1:]...)
		return true
	}
	return false
}

// engagedAt is the tie-break timestamp: the last vote if the item has ever
// been voted on, otherwise the insertion time. Earlier wins, so untouched
// items lose ties to items added before them.
func engagedAt(item *models.QueueItem) time.Time {
	if item.LastVoteAt != nil {
		return *item.LastVoteAt
	}
	return item.AddedAt
}

// SortForPlayback orders items for playback: the currently playing item is
// pinned at rank 0 regardless of score, the rest rank descending by score
// with ties broken first-engaged-first-served.
func SortForPlayback(items []*models.QueueItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.IsPlaying != b.IsPlaying {
			return a.IsPlaying
		}
		if sa, sb := Score(a), Score(b); sa != sb {
			return sa > sb
		}
		return engagedAt(a).Before(engagedAt(b))
	})
}

// PromoteNext re-evaluates the queue after the playing item was removed or
// finished. It enforces the single-playing invariant and, if nothing is
// playing and the queue is non-empty, marks the best-ranked item as playing.
// Returns the newly promoted item, or nil if nothing changed hands.
func PromoteNext(items []*models.QueueItem) *models.QueueItem {
	SortForPlayback(items)

	playing := false
	for _, item := range items {
		if item.IsPlaying {
			if playing {
				item.IsPlaying = false
			}
			playing = true
		}
	}
	if playing || len(items) == 0 {
		return nil
	}

	items[0].IsPlaying = true
	return items[0]
}

// TrimHistory appends entry to the play history and evicts the oldest
// entries beyond limit. Returns the kept window and the evicted entries
// so the caller can delete them from storage.
func TrimHistory(entries []models.HistoryEntry, entry models.HistoryEntry, limit int) (kept, evicted []models.HistoryEntry) {
	entries = append(entries, entry)
	if len(entries) <= limit {
		return entries, nil
	}
	cut := len(entries) - limit
	return entries[cut:], entries[:cut]
}
