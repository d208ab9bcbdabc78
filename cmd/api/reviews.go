package main

import (
	"errors"
	"net/http"

	"sitefeed/internal/auth"
	"sitefeed/internal/domain/reviews"
)

type reviewTarget struct {
	documentID string
	updateID   string
	reviewID   string
}

// reviewTargetFromQuery reads documentId and updateId, plus reviewId when
// needReview is set, and checks that the update entry exists.
func (app *application) reviewTargetFromQuery(w http.ResponseWriter, r *http.Request, needReview bool) (*reviewTarget, bool) {
	q := r.URL.Query()
	t := &reviewTarget{
		documentID: q.Get("documentId"),
		updateID:   q.Get("updateId"),
		reviewID:   q.Get("reviewId"),
	}
	if t.documentID == "" || t.updateID == "" {
		app.badRequestResponse(w, r, errors.New("documentId and updateId are required"))
		return nil, false
	}
	if needReview && t.reviewID == "" {
		app.badRequestResponse(w, r, errors.New("reviewId is required"))
		return nil, false
	}

	exists, err := app.store.Updates.EntryExists(r.Context(), t.documentID, t.updateID)
	if err != nil {
		app.internalServerError(w, r, err)
		return nil, false
	}
	if !exists {
		app.notFoundResponse(w, r, errors.New("update entry not found"))
		return nil, false
	}
	return t, true
}

// readReviewBody decodes and validates the body, and checks that it speaks for
// the caller.
func (app *application) readReviewBody(w http.ResponseWriter, r *http.Request, identity *auth.Identity) (*reviews.Body, bool) {
	var payload reviews.Body
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return nil, false
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return nil, false
	}
	if payload.UserID != identity.UserID {
		app.forbiddenResponse(w, r)
		return nil, false
	}
	return &payload, true
}

// listReviewsHandler godoc
//
//	@Summary		List reviews of an update
//	@Tags			Reviews
//	@Produce		json
//	@Param			documentId	query		string	true	"Document ID"
//	@Param			updateId	query		string	true	"Update entry ID"
//	@Success		200			{array}		reviews.Review
//	@Failure		400			{object}	error	"Bad Request"
//	@Failure		404			{object}	error	"Not Found"
//	@Failure		500			{object}	error	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/api/review-and-update/review [get]
func (app *application) listReviewsHandler(w http.ResponseWriter, r *http.Request) {
	t, ok := app.reviewTargetFromQuery(w, r, false)
	if !ok {
		return
	}

	list, err := app.store.Reviews.ListByUpdate(r.Context(), t.documentID, t.updateID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createReviewHandler godoc
//
//	@Summary		Add a review to an update
//	@Tags			Reviews
//	@Accept			json
//	@Produce		json
//	@Param			documentId	query		string			true	"Document ID"
//	@Param			updateId	query		string			true	"Update entry ID"
//	@Param			payload		body		reviews.Body	true	"Review"
//	@Success		201			{object}	reviews.Review
//	@Failure		400			{object}	error	"Bad Request"
//	@Failure		403			{object}	error	"Forbidden"
//	@Failure		404			{object}	error	"Not Found"
//	@Failure		500			{object}	error	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/api/review-and-update/review [post]
func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	identity := getIdentityFromContext(r)
	if identity == nil {
		app.unauthorizedErrorResponse(w, r, errors.New("unauthorized request"))
		return
	}

	t, ok := app.reviewTargetFromQuery(w, r, false)
	if !ok {
		return
	}

	payload, ok := app.readReviewBody(w, r, identity)
	if !ok {
		return
	}

	review := &reviews.Review{
		DocumentID: t.documentID,
		UpdateID:   t.updateID,
		UserID:     identity.UserID,
		FirstName:  payload.FirstName,
		LastName:   payload.LastName,
		Review:     payload.Review,
	}
	if err := app.store.Reviews.Create(r.Context(), review); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, review); err != nil {
		app.internalServerError(w, r, err)
	}
}

// editReviewHandler godoc
//
//	@Summary		Edit own review
//	@Description	Replaces the text of a review. Only its author may edit it.
//	@Tags			Reviews
//	@Accept			json
//	@Produce		json
//	@Param			documentId	query		string			true	"Document ID"
//	@Param			updateId	query		string			true	"Update entry ID"
//	@Param			reviewId	query		string			true	"Review ID"
//	@Param			payload		body		reviews.Body	true	"Review"
//	@Success		200			{object}	reviews.Review
//	@Failure		400			{object}	error	"Bad Request"
//	@Failure		403			{object}	error	"Forbidden"
//	@Failure		404			{object}	error	"Not Found"
//	@Failure		500			{object}	error	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/api/review-and-update/review [put]
func (app *application) editReviewHandler(w http.ResponseWriter, r *http.Request) {
	identity := getIdentityFromContext(r)
	if identity == nil {
		app.unauthorizedErrorResponse(w, r, errors.New("unauthorized request"))
		return
	}

	t, ok := app.reviewTargetFromQuery(w, r, true)
	if !ok {
		return
	}

	payload, ok := app.readReviewBody(w, r, identity)
	if !ok {
		return
	}

	current, ok := app.ownedReview(w, r, t, identity)
	if !ok {
		return
	}

	current.Review = payload.Review
	if err := app.store.Reviews.UpdateText(r.Context(), current); err != nil {
		if errors.Is(err, reviews.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, current); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteReviewHandler godoc
//
//	@Summary		Delete own review
//	@Tags			Reviews
//	@Produce		json
//	@Param			documentId	query		string	true	"Document ID"
//	@Param			updateId	query		string	true	"Update entry ID"
//	@Param			reviewId	query		string	true	"Review ID"
//	@Success		200			{object}	map[string]string	"review deleted"
//	@Failure		400			{object}	error				"Bad Request"
//	@Failure		403			{object}	error				"Forbidden"
//	@Failure		404			{object}	error				"Not Found"
//	@Failure		500			{object}	error				"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/api/review-and-update/review [delete]
func (app *application) deleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	identity := getIdentityFromContext(r)
	if identity == nil {
		app.unauthorizedErrorResponse(w, r, errors.New("unauthorized request"))
		return
	}

	t, ok := app.reviewTargetFromQuery(w, r, true)
	if !ok {
		return
	}

	if _, ok := app.ownedReview(w, r, t, identity); !ok {
		return
	}

	if err := app.store.Reviews.Delete(r.Context(), t.documentID, t.updateID, t.reviewID, identity.UserID); err != nil {
		if errors.Is(err, reviews.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"message": "review deleted"}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// ownedReview loads the target review and answers 404 or 403 when the caller
// cannot modify it.
func (app *application) ownedReview(w http.ResponseWriter, r *http.Request, t *reviewTarget, identity *auth.Identity) (*reviews.Review, bool) {
	current, err := app.store.Reviews.GetByID(r.Context(), t.documentID, t.updateID, t.reviewID)
	if err != nil {
		if errors.Is(err, reviews.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return nil, false
		}
		app.internalServerError(w, r, err)
		return nil, false
	}
	if current.UserID != identity.UserID {
		app.forbiddenResponse(w, r)
		return nil, false
	}
	return current, true
}
