package storage

import (
	"context"
	"fmt"

	"sitefeed/internal/domain/pushtokens"
	"sitefeed/internal/domain/reviews"
	"sitefeed/internal/domain/updates"
	"sitefeed/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Container struct {
	pool       dbx.TxBeginner
	Updates    updates.Store
	Reviews    reviews.Store
	PushTokens pushtokens.Store
}

func NewContainer(db dbx.Pool) *Container {
	return &Container{
		pool:       db,
		Updates:    updates.NewRepository(db),
		Reviews:    reviews.NewRepository(db),
		PushTokens: pushtokens.NewRepository(db),
	}
}

// FeedTx is a temporary, tx-scoped set of repos for atomic units of work.
type FeedTx struct {
	Updates updates.Store
	Reviews reviews.Store
}

// WithFeedTx runs fn atomically; posting several entries either lands whole or
// not at all.
func (c *Container) WithFeedTx(ctx context.Context, fn func(s *FeedTx) error) error {
	if c.pool == nil {
		return fmt.Errorf("storage container pool is nil (did you forget to set pool in NewContainer?)")
	}

	tx, err := c.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback(ctx) // safe even if already committed
	}()

	s := &FeedTx{
		Updates: updates.NewRepository(tx),
		Reviews: reviews.NewRepository(tx),
	}

	if err := fn(s); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
