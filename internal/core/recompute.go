package core

import (
	"context"
	"sync"
	"time"

	"github.com/agenthands/kinship/internal/core/model"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type cachedReport struct {
	report     model.Report
	computedAt time.Time
}

// Recomputer caches one report per owner. A cached report is served until it
// is older than Interval or the owner is invalidated; concurrent misses for
// the same owner share a single computation.
type Recomputer struct {
	Network  *Network
	Interval time.Duration

	group singleflight.Group

	mu    sync.Mutex
	cache map[string]cachedReport
	// generation is bumped on Invalidate so in-flight results computed from
	// stale data are not cached.
	generation map[string]uint64

	clock  func() time.Time
	logger *zap.Logger
}

func NewRecomputer(n *Network, interval time.Duration, logger *zap.Logger) *Recomputer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recomputer{
		Network:    n,
		Interval:   interval,
		cache:      make(map[string]cachedReport),
		generation: make(map[string]uint64),
		clock:      time.Now,
		logger:     logger,
	}
}

// Report returns the owner's report, recomputing it when the cache is cold.
func (r *Recomputer) Report(ctx context.Context, ownerID string) (model.Report, error) {
	r.mu.Lock()
	cached, ok := r.cache[ownerID]
	gen := r.generation[ownerID]
	r.mu.Unlock()

	if ok && r.clock().Sub(cached.computedAt) < r.Interval {
		return cached.report, nil
	}

	v, err, shared := r.group.Do(ownerID, func() (interface{}, error) {
		report, err := r.Network.Report(ctx, ownerID)
		if err != nil {
			return model.Report{}, err
		}

		r.mu.Lock()
		if r.generation[ownerID] == gen {
			r.cache[ownerID] = cachedReport{report: report, computedAt: r.clock()}
		}
		r.mu.Unlock()
		return report, nil
	})
	if err != nil {
		return model.Report{}, err
	}
	if shared {
		r.logger.Debug("report computation shared", zap.String("owner_id", ownerID))
	}
	return v.(model.Report), nil
}

// Invalidate drops the owner's cached report. Call it after every import.
func (r *Recomputer) Invalidate(ownerID string) {
	r.mu.Lock()
	delete(r.cache, ownerID)
	r.generation[ownerID]++
	r.mu.Unlock()
	r.group.Forget(ownerID)
}
