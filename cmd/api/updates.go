package main

import (
	"context"
	"errors"
	"net/http"

	"sitefeed/internal/domain/storage"
	"sitefeed/internal/domain/updates"
	"sitefeed/internal/notifications"
)

// listUpdatesHandler godoc
//
//	@Summary		List update documents
//	@Description	Returns every section's update document with its entries, oldest first. Reviews are fetched per entry.
//	@Tags			Updates
//	@Produce		json
//	@Success		200	{array}		updates.Document
//	@Failure		401	{object}	error	"Unauthorized"
//	@Failure		500	{object}	error	"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/api/review-and-update/update [get]
func (app *application) listUpdatesHandler(w http.ResponseWriter, r *http.Request) {
	docs, err := app.store.Updates.ListDocuments(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, docs); err != nil {
		app.internalServerError(w, r, err)
	}
}

// postUpdateHandler godoc
//
//	@Summary		Post construction updates
//	@Description	Appends updates to the section's document, creating it on first post. No entry ids are returned.
//	@Tags			Updates
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		updates.Post		true	"Updates to post"
//	@Success		201		{object}	map[string]string	"update posted"
//	@Failure		400		{object}	error				"Bad Request"
//	@Failure		401		{object}	error				"Unauthorized"
//	@Failure		500		{object}	error				"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/api/review-and-update/update [post]
func (app *application) postUpdateHandler(w http.ResponseWriter, r *http.Request) {
	identity := getIdentityFromContext(r)
	if identity == nil {
		app.unauthorizedErrorResponse(w, r, errors.New("unauthorized request"))
		return
	}

	var payload updates.Post
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var documentID string
	err := app.store.WithFeedTx(r.Context(), func(tx *storage.FeedTx) error {
		id, err := tx.Updates.Append(r.Context(), &payload)
		documentID = id
		return err
	})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.logger.Infow("updates posted",
		"document_id", documentID,
		"section_id", payload.SectionID,
		"count", len(payload.Updates),
		"user_id", identity.UserID,
	)

	if err := app.jsonResponse(w, http.StatusCreated, map[string]string{"message": "update posted"}); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if app.push == nil {
		return
	}
	title := payload.Updates[len(payload.Updates)-1].Title
	notifications.CallAsync(app.logger, func(ctx context.Context) error {
		return notifications.SendUpdatePosted(ctx, app.push, app.store, identity.UserID, payload.SectionID, payload.Name, title)
	})
}
