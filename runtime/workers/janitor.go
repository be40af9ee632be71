package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// JanitorWorker periodically runs Badger's value-log garbage collection so the
// history store does not grow unbounded on long-lived relays.
type JanitorWorker struct {
	db       *badger.DB
	interval time.Duration
	log      *slog.Logger
}

func NewJanitorWorker(db *badger.DB, interval time.Duration, log *slog.Logger) *JanitorWorker {
	return &JanitorWorker{db: db, interval: interval, log: log}
}

func (w *JanitorWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping janitor")
			return ctx.Err()
		case <-ticker.C:
			// ErrNoRewrite just means there was nothing to reclaim.
			if err := w.db.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				w.log.Warn("Value log GC failed", "error", err)
			}
		}
	}
}
