package workers

import (
	"context"
	"sync"
	"time"

	"tacticalops/clanhub/internal/common"
	"tacticalops/clanhub/internal/services"
)

type WorkersContainer struct {
	RankRefresher *RankRefresher

	wg sync.WaitGroup
}

// InitWorkers starts the background workers. bus may be nil when Redis is not
// configured; remote invalidations are then not needed.
func InitWorkers(
	ctx context.Context,
	ranks *services.RankService,
	store *services.ClanStore,
	bus *common.InvalidationBus,
	rankInterval time.Duration,
) *WorkersContainer {
	wc := &WorkersContainer{
		RankRefresher: NewRankRefresher(ranks),
	}

	wc.wg.Add(1)
	go func() {
		defer wc.wg.Done()
		wc.RankRefresher.Start(ctx, rankInterval)
	}()

	if bus != nil {
		wc.wg.Add(1)
		go func() {
			defer wc.wg.Done()
			bus.Listen(ctx, store.FlushLocal)
		}()
	}

	return wc
}

// Wait blocks until every worker has returned after ctx cancellation.
func (wc *WorkersContainer) Wait() {
	wc.wg.Wait()
}
