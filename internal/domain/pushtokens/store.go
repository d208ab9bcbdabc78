package pushtokens

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sitefeed/internal/infra/dbx"
)

var QueryTimeoutDuration = time.Second * 5

type Store interface {
	AddOrUpdatePushToken(ctx context.Context, userID string, token string, deviceInfo json.RawMessage) error
	RemovePushToken(ctx context.Context, userID string, token string) error
	RemoveTokensByTokenList(ctx context.Context, tokens []string) error
	ListTokensExcept(ctx context.Context, userID string) ([]string, error)
	PruneStaleTokens(ctx context.Context, olderThan time.Duration) error
}

type Repository struct {
	db dbx.Querier
}

func NewRepository(db dbx.Querier) *Repository {
	return &Repository{db: db}
}

// AddOrUpdatePushToken upserts token + device info, updates last_updated
func (r *Repository) AddOrUpdatePushToken(ctx context.Context, userID string, token string, deviceInfo json.RawMessage) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `
	INSERT INTO user_push_tokens (user_id, expo_push_token, device_info, last_updated)
	VALUES ($1, $2, $3, NOW())
	ON CONFLICT (user_id, expo_push_token)
	DO UPDATE SET device_info = EXCLUDED.device_info, last_updated = NOW();
	`

	_, err := r.db.Exec(ctx, q, userID, token, deviceInfo)
	return err
}

// RemovePushToken deletes a token for a user
func (r *Repository) RemovePushToken(ctx context.Context, userID string, token string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `DELETE FROM user_push_tokens WHERE user_id = $1 AND expo_push_token = $2`
	_, err := r.db.Exec(ctx, q, userID, token)
	return err
}

// RemoveTokensByTokenList deletes tokens Expo reported as unregistered.
func (r *Repository) RemoveTokensByTokenList(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `DELETE FROM user_push_tokens WHERE expo_push_token = ANY($1)`
	_, err := r.db.Exec(ctx, q, tokens)
	return err
}

// ListTokensExcept returns the distinct tokens of every user but userID, so the
// poster of an update is not notified about their own post.
func (r *Repository) ListTokensExcept(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	q := `SELECT DISTINCT expo_push_token FROM user_push_tokens WHERE user_id <> $1`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

// PruneStaleTokens deletes tokens not updated in olderThan duration
func (r *Repository) PruneStaleTokens(ctx context.Context, olderThan time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	interval := fmt.Sprintf("%d seconds", int64(olderThan.Seconds()))
	q := `DELETE FROM user_push_tokens WHERE last_updated < NOW() - $1::interval`
	_, err := r.db.Exec(ctx, q, interval)
	return err
}
