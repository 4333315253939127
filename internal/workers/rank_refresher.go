package workers

import (
	"context"
	"time"

	"tacticalops/clanhub/internal/logging"
)

// Refresher reloads a cached table.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RankRefresher reloads the rank table on a fixed interval so requests never
// pay for the load.
type RankRefresher struct {
	ranks Refresher
}

func NewRankRefresher(ranks Refresher) *RankRefresher {
	return &RankRefresher{ranks: ranks}
}

// Start blocks until ctx is cancelled.
func (w *RankRefresher) Start(ctx context.Context, interval time.Duration) {
	logging.Info("Starting rank table refresher", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately on start
	w.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			logging.Info("Rank table refresher shutting down")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *RankRefresher) refresh(ctx context.Context) {
	if err := w.ranks.Refresh(ctx); err != nil {
		logging.Warn("Rank table refresh failed, keeping previous table", "error", err.Error())
		return
	}
	logging.Debug("Rank table refreshed")
}
