package feed

import (
	"context"
	"errors"
	"net/http"

	"sitefeed/internal/domain/reviews"

	"go.uber.org/zap"
)

// ReviewLedger creates, edits and deletes reviews on the server. It never
// touches feed state; callers apply the confirmed result.
type ReviewLedger struct {
	api    Doer
	logger *zap.SugaredLogger
}

func NewReviewLedger(api Doer, logger *zap.SugaredLogger) *ReviewLedger {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ReviewLedger{api: api, logger: logger}
}

// List returns the reviews of one update. A successful call never returns nil.
func (l *ReviewLedger) List(ctx context.Context, documentID, updateID string) ([]reviews.Review, error) {
	var list []reviews.Review
	if err := l.api.Do(ctx, http.MethodGet, reviewPath, reviewQuery(documentID, updateID, ""), nil, &list); err != nil {
		return nil, rejected("list reviews", err)
	}
	if list == nil {
		list = []reviews.Review{}
	}
	return list, nil
}

// Submit posts a new review and returns it with its server-assigned id.
func (l *ReviewLedger) Submit(ctx context.Context, documentID, updateID string, author Author, text string) (*reviews.Review, error) {
	if !author.Authenticated() {
		return nil, ErrUnauthenticated
	}
	if err := validateText(text); err != nil {
		return nil, err
	}

	body := reviews.Body{
		UserID:    author.ID,
		FirstName: author.FirstName,
		LastName:  author.LastName,
		Review:    text,
	}
	var created reviews.Review
	if err := l.api.Do(ctx, http.MethodPost, reviewPath, reviewQuery(documentID, updateID, ""), body, &created); err != nil {
		l.logger.Errorw("submit review failed", "document_id", documentID, "update_id", updateID, "error", err)
		return nil, rejected("submit review", err)
	}
	if created.ID == "" {
		return nil, rejected("submit review", errors.New("server returned a review without id"))
	}
	return &created, nil
}

// Edit replaces the text of current. Only the author of current may edit it;
// any other author gets ErrNotOwner and no request is sent. The returned review
// keeps current's id and author snapshot.
func (l *ReviewLedger) Edit(ctx context.Context, documentID, updateID string, current reviews.Review, author Author, newText string) (*reviews.Review, error) {
	if !author.Owns(current) {
		return nil, ErrNotOwner
	}
	if err := validateText(newText); err != nil {
		return nil, err
	}

	body := reviews.Body{
		UserID:    current.UserID,
		FirstName: current.FirstName,
		LastName:  current.LastName,
		Review:    newText,
	}
	var confirmed reviews.Review
	if err := l.api.Do(ctx, http.MethodPut, reviewPath, reviewQuery(documentID, updateID, current.ID), body, &confirmed); err != nil {
		l.logger.Errorw("edit review failed", "review_id", current.ID, "error", err)
		return nil, rejected("edit review", err)
	}

	edited := current
	edited.Review = newText
	if !confirmed.UpdatedAt.IsZero() {
		edited.UpdatedAt = confirmed.UpdatedAt
	}
	return &edited, nil
}

// Remove deletes current. The same ownership gate as Edit applies.
func (l *ReviewLedger) Remove(ctx context.Context, documentID, updateID string, current reviews.Review, author Author) error {
	if !author.Owns(current) {
		return ErrNotOwner
	}
	if err := l.api.Do(ctx, http.MethodDelete, reviewPath, reviewQuery(documentID, updateID, current.ID), nil, nil); err != nil {
		l.logger.Errorw("remove review failed", "review_id", current.ID, "error", err)
		return rejected("remove review", err)
	}
	return nil
}
