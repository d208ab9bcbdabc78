package feed

import (
	"slices"
	"sync"

	"sitefeed/internal/domain/reviews"
	"sitefeed/internal/domain/updates"
)

// Reconciler owns the in-memory list of updates shown for one section and
// applies server-confirmed deltas to it. Targeted patches whose update or review
// is no longer present are no-ops: the state may have been replaced by a
// refresh that raced the mutation. Deltas are last-confirmed-wins.
type Reconciler struct {
	mu   sync.RWMutex
	feed Feed
}

func NewReconciler() *Reconciler {
	return &Reconciler{feed: Feed{Updates: []updates.Entry{}}}
}

// Replace discards the current state and installs doc. A nil doc means the
// section has no document and the feed is empty.
func (r *Reconciler) Replace(doc *updates.Document) {
	next := Feed{Updates: []updates.Entry{}}
	if doc != nil {
		next.DocumentID = doc.ID
		next.Name = doc.Name
		next.Updates = cloneEntries(doc.Updates)
	}

	r.mu.Lock()
	r.feed = next
	r.mu.Unlock()
}

// AppendReview adds a confirmed review to the end of its update's thread. If a
// review with the same id is already there (a refresh picked it up first) it is
// replaced in place so it appears exactly once.
func (r *Reconciler) AppendReview(updateID string, rv reviews.Review) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(updateID)
	if i < 0 {
		return false
	}
	entry := &r.feed.Updates[i]
	if j := reviewIndex(entry.Reviews, rv.ID); j >= 0 {
		entry.Reviews[j] = rv
		return true
	}
	entry.Reviews = append(entry.Reviews, rv)
	return true
}

// ReplaceReview overwrites a review matched by (updateID, rv.ID).
func (r *Reconciler) ReplaceReview(updateID string, rv reviews.Review) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(updateID)
	if i < 0 {
		return false
	}
	entry := &r.feed.Updates[i]
	j := reviewIndex(entry.Reviews, rv.ID)
	if j < 0 {
		return false
	}
	entry.Reviews[j] = rv
	return true
}

// RemoveReview filters the review out; the remaining reviews keep their order.
func (r *Reconciler) RemoveReview(updateID, reviewID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(updateID)
	if i < 0 {
		return false
	}
	entry := &r.feed.Updates[i]
	j := reviewIndex(entry.Reviews, reviewID)
	if j < 0 {
		return false
	}
	entry.Reviews = slices.Delete(slices.Clone(entry.Reviews), j, j+1)
	return true
}

// Snapshot returns a deep copy of the current state.
func (r *Reconciler) Snapshot() Feed {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Feed{
		DocumentID: r.feed.DocumentID,
		Name:       r.feed.Name,
		Updates:    cloneEntries(r.feed.Updates),
	}
}

func (r *Reconciler) DocumentID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.feed.DocumentID
}

func (r *Reconciler) Review(updateID, reviewID string) (reviews.Review, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(updateID)
	if i < 0 {
		return reviews.Review{}, false
	}
	j := reviewIndex(r.feed.Updates[i].Reviews, reviewID)
	if j < 0 {
		return reviews.Review{}, false
	}
	return r.feed.Updates[i].Reviews[j], true
}

// KnownReviews returns the reviews currently held for updateID and whether they
// were ever loaded.
func (r *Reconciler) KnownReviews(updateID string) ([]reviews.Review, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(updateID)
	if i < 0 || r.feed.Updates[i].Reviews == nil {
		return nil, false
	}
	return slices.Clone(r.feed.Updates[i].Reviews), true
}

// indexOf must be called with mu held.
func (r *Reconciler) indexOf(updateID string) int {
	return slices.IndexFunc(r.feed.Updates, func(e updates.Entry) bool { return e.ID == updateID })
}

func reviewIndex(list []reviews.Review, reviewID string) int {
	return slices.IndexFunc(list, func(rv reviews.Review) bool { return rv.ID == reviewID })
}

// cloneEntries copies entries including their image and review slices. A nil
// Reviews slice stays nil so "not loaded" survives the copy.
func cloneEntries(in []updates.Entry) []updates.Entry {
	out := make([]updates.Entry, len(in))
	for i, e := range in {
		e.Images = slices.Clone(e.Images)
		e.Reviews = slices.Clone(e.Reviews)
		out[i] = e
	}
	return out
}
