package reviews

import (
	"context"
	"errors"
	"fmt"

	"sitefeed/internal/infra/dbx"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Store interface {
	Create(ctx context.Context, review *Review) error
	ListByUpdate(ctx context.Context, documentID, updateID string) ([]Review, error)
	GetByID(ctx context.Context, documentID, updateID, reviewID string) (*Review, error)
	UpdateText(ctx context.Context, review *Review) error
	Delete(ctx context.Context, documentID, updateID, reviewID, userID string) error
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(db dbx.Querier) *Repository {
	return &Repository{db: db}
}

// Create inserts the review and fills in the server-assigned id and timestamps.
func (r *Repository) Create(ctx context.Context, review *Review) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	review.ID = uuid.NewString()
	query := `
        INSERT INTO update_reviews (id, document_id, update_id, user_id, first_name, last_name, review)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		review.ID,
		review.DocumentID,
		review.UpdateID,
		review.UserID,
		review.FirstName,
		review.LastName,
		review.Review,
	).Scan(&review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}
	return nil
}

// ListByUpdate returns the reviews of one update in the order they were written.
func (r *Repository) ListByUpdate(ctx context.Context, documentID, updateID string) ([]Review, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
        SELECT id, document_id, update_id, user_id, first_name, last_name, review,
               created_at, updated_at
        FROM update_reviews
        WHERE document_id = $1 AND update_id = $2
        ORDER BY seq ASC
    `
	rows, err := r.db.Query(ctx, query, documentID, updateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	list := []Review{}
	for rows.Next() {
		var rv Review
		if err := rows.Scan(
			&rv.ID,
			&rv.DocumentID,
			&rv.UpdateID,
			&rv.UserID,
			&rv.FirstName,
			&rv.LastName,
			&rv.Review,
			&rv.CreatedAt,
			&rv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		list = append(list, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) GetByID(ctx context.Context, documentID, updateID, reviewID string) (*Review, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
        SELECT id, document_id, update_id, user_id, first_name, last_name, review,
               created_at, updated_at
        FROM update_reviews
        WHERE id = $1 AND document_id = $2 AND update_id = $3
    `
	var rv Review
	err := r.db.QueryRow(ctx, query, reviewID, documentID, updateID).Scan(
		&rv.ID,
		&rv.DocumentID,
		&rv.UpdateID,
		&rv.UserID,
		&rv.FirstName,
		&rv.LastName,
		&rv.Review,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rv, nil
}

// UpdateText replaces the body of a review owned by review.UserID. The author
// snapshot is left as it was at creation time.
func (r *Repository) UpdateText(ctx context.Context, review *Review) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
        UPDATE update_reviews
        SET review = $1, updated_at = NOW()
        WHERE id = $2 AND document_id = $3 AND update_id = $4 AND user_id = $5
        RETURNING first_name, last_name, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		review.Review,
		review.ID,
		review.DocumentID,
		review.UpdateID,
		review.UserID,
	).Scan(&review.FirstName, &review.LastName, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, documentID, updateID, reviewID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
        DELETE FROM update_reviews
        WHERE id = $1 AND document_id = $2 AND update_id = $3 AND user_id = $4
    `
	result, err := r.db.Exec(ctx, query, reviewID, documentID, updateID, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
