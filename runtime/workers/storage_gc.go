package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// StorageGC periodically runs badger's value log garbage collection so the
// action log's expired and tombstoned entries give their disk space back.
type StorageGC struct {
	db       *badger.DB
	log      *slog.Logger
	interval time.Duration
}

func NewStorageGC(db *badger.DB, log *slog.Logger, interval time.Duration) *StorageGC {
	return &StorageGC{db: db, log: log, interval: interval}
}

func (w *StorageGC) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			// badger asks to be called again while there is more to reclaim.
			for {
				err := w.db.RunValueLogGC(0.5)
				if err == badger.ErrNoRewrite {
					break
				}
				if err != nil {
					w.log.Warn(fmt.Sprintf("value log GC failed: %v", err))
					break
				}
			}
		}
	}
}
