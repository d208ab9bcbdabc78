package feed

import (
	"context"
	"net/http"
	"net/url"

	"sitefeed/internal/domain/reviews"
	"sitefeed/internal/domain/updates"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	updatePath = "/api/review-and-update/update"
	reviewPath = "/api/review-and-update/review"

	defaultFanOut = 8
)

// Doer is the transport the repository and ledger issue requests through.
// *apiclient.Client implements it.
type Doer interface {
	Do(ctx context.Context, method, path string, query url.Values, body, out any) error
}

// ReviewLister loads the review thread of one update.
type ReviewLister interface {
	List(ctx context.Context, documentID, updateID string) ([]reviews.Review, error)
}

// UpdateRepository fetches a section's document with its reviews and posts new
// updates.
type UpdateRepository struct {
	api     Doer
	reviews ReviewLister
	logger  *zap.SugaredLogger
	fanOut  int
}

func NewUpdateRepository(api Doer, reviews ReviewLister, logger *zap.SugaredLogger) *UpdateRepository {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &UpdateRepository{api: api, reviews: reviews, logger: logger, fanOut: defaultFanOut}
}

// SetFanOut bounds how many review fetches run at once.
func (r *UpdateRepository) SetFanOut(n int) {
	if n > 0 {
		r.fanOut = n
	}
}

// FetchUpdates returns the document for sectionID, or nil when there is none.
// Reviews are loaded per entry concurrently; an entry whose fetch fails keeps a
// nil Reviews slice and the call still succeeds.
func (r *UpdateRepository) FetchUpdates(ctx context.Context, sectionID string) (*updates.Document, error) {
	var docs []updates.Document
	if err := r.api.Do(ctx, http.MethodGet, updatePath, nil, nil, &docs); err != nil {
		r.logger.Errorw("fetch updates failed", "section_id", sectionID, "error", err)
		return nil, rejected("fetch updates", err)
	}

	var doc *updates.Document
	for i := range docs {
		if docs[i].SectionID == sectionID {
			doc = &docs[i]
			break
		}
	}
	if doc == nil {
		return nil, nil
	}

	var g errgroup.Group
	g.SetLimit(r.fanOut)
	for i := range doc.Updates {
		entry := &doc.Updates[i]
		entry.Reviews = nil
		g.Go(func() error {
			list, err := r.reviews.List(ctx, doc.ID, entry.ID)
			if err != nil {
				r.logger.Warnw("fetch reviews failed",
					"document_id", doc.ID,
					"update_id", entry.ID,
					"error", err,
				)
				return nil
			}
			entry.Reviews = list
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return doc, nil
}

// PostUpdate sends a new update for a section. The server creates the section's
// document on first post. Input is not validated here; Session does that before
// calling. Callers must refetch on success: no entry id is returned.
func (r *UpdateRepository) PostUpdate(ctx context.Context, post updates.Post) error {
	if err := r.api.Do(ctx, http.MethodPost, updatePath, nil, post, nil); err != nil {
		r.logger.Errorw("post update failed", "section_id", post.SectionID, "error", err)
		return rejected("post update", err)
	}
	return nil
}

func reviewQuery(documentID, updateID, reviewID string) url.Values {
	q := url.Values{}
	q.Set("documentId", documentID)
	q.Set("updateId", updateID)
	if reviewID != "" {
		q.Set("reviewId", reviewID)
	}
	return q
}
