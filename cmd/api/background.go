package main

import (
	"context"
	"time"
)

const staleTokenAge = 70 * 24 * time.Hour

// pruneStaleTokensDaily drops push tokens whose devices have not checked in
// for staleTokenAge. It stops when ctx is done.
func (app *application) pruneStaleTokensDaily(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		// Run once immediately
		app.pruneStaleTokens(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				app.pruneStaleTokens(ctx)
			}
		}
	}()
}

func (app *application) pruneStaleTokens(ctx context.Context) {
	if err := app.store.PushTokens.PruneStaleTokens(ctx, staleTokenAge); err != nil {
		app.logger.Errorf("Error pruning stale push tokens: %v", err)
		return
	}
	app.logger.Infof("Pruned stale push tokens at %s", time.Now().Format(time.RFC1123))
}
