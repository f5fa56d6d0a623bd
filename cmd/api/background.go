package main

import (
	"context"
	"fmt"
	"time"
)

// background runs fn in its own goroutine and logs a panic instead of
// crashing the server.
func (app *application) background(fn func()) {
	go func() {
		defer func() {
			if err := recover(); err != nil {
				app.logger.Errorw("background task panicked", "error", fmt.Sprint(err))
			}
		}()
		fn()
	}()
}

// sweepAbandonedCheckouts deletes unpaid orders older than maxAge every
// interval until ctx is done.
func (app *application) sweepAbandonedCheckouts(ctx context.Context, interval, maxAge time.Duration) {
	sweep := func() {
		sctx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()

		n, err := app.store.Orders.DeleteAbandoned(sctx, time.Now().Add(-maxAge))
		if err != nil {
			app.logger.Errorw("sweep abandoned checkouts", "error", err)
			return
		}
		if n > 0 {
			app.logger.Infow("abandoned checkouts removed", "count", n)
		}
	}

	app.background(func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		// Run once immediately
		sweep()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sweep()
			}
		}
	})
}
