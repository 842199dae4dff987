package app

import (
	"context"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/five82/roster/internal/state"
)

// maxBackoff caps the wait between refreshes after repeated failures.
const maxBackoff = 30 * time.Second

// StartRefresher launches a background goroutine that refetches the user
// list every interval. Failed fetches stretch the wait with calculateBackoff.
// It returns immediately; the goroutine stops when ctx is done.
func StartRefresher(ctx context.Context, store *state.Store, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	logger = logger.With("component", "refresher")

	go func() {
		failures := 0
		for {
			wait := calculateBackoff(failures, interval)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			if refresh(ctx, store) {
				failures = 0
				continue
			}
			failures++
			logger.Debug("refresh failed", "failures", failures, "next_wait", calculateBackoff(failures, interval))
		}
	}()
}

// refresh refetches all users and reports whether the fetch succeeded.
func refresh(ctx context.Context, store *state.Store) bool {
	store.FetchAllUsers(ctx)
	return store.Err() != state.MsgFetchFailed
}

// calculateBackoff doubles base for each consecutive failure, capped at
// maxBackoff (or base itself when base is larger).
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	limit := maxBackoff
	if base > limit {
		limit = base
	}
	wait := base
	for i := 0; i < failures; i++ {
		wait *= 2
		if wait >= limit {
			return limit
		}
	}
	return wait
}
