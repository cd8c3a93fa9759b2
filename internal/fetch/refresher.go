package fetch

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/seongho-jang/munhakdex/internal/catalog"
)

// DefaultInterval is how often the feed is re-fetched.
const DefaultInterval = 30 * time.Second

// Refresher owns the published snapshot. It fetches once immediately on
// Run, then on every tick until the context is cancelled.
//
// Snapshots are replaced wholesale through an atomic pointer: readers always
// see either the previous complete snapshot or the next one, never a
// half-updated dataset. Fetch cycles carry a monotonic sequence number; when
// a slow fetch finishes after a faster later one, its result is discarded so
// snapshots never move backwards.
type Refresher struct {
	fetcher  *Fetcher
	interval time.Duration

	snap atomic.Pointer[catalog.Snapshot]
	seq  atomic.Uint64
}

// NewRefresher wraps a fetcher with interval-based refreshing. A
// non-positive interval falls back to DefaultInterval. The initial snapshot
// is the loading state.
func NewRefresher(f *Fetcher, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	r := &Refresher{fetcher: f, interval: interval}
	r.snap.Store(&catalog.Snapshot{Loading: true})
	return r
}

// Snapshot returns the current published state. The returned value is a
// copy; its Dataset must be treated as read-only.
func (r *Refresher) Snapshot() catalog.Snapshot {
	return *r.snap.Load()
}

// Run blocks, refreshing the dataset until ctx is cancelled. The first
// fetch starts immediately; later cycles start on each tick even when an
// earlier cycle is still in flight, so one slow response cannot stall the
// schedule.
func (r *Refresher) Run(ctx context.Context) {
	slog.Info("feed refresher started", "interval", r.interval)

	go r.RefreshNow(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("feed refresher stopped")
			return
		case <-ticker.C:
			go r.RefreshNow(ctx)
		}
	}
}

// RefreshNow performs one full fetch cycle synchronously and publishes the
// outcome. Safe to call from any goroutine.
func (r *Refresher) RefreshNow(ctx context.Context) {
	seq := r.seq.Add(1)
	start := time.Now()

	ds, err := r.fetcher.Fetch(ctx)

	// A cycle racing teardown publishes nothing: the consumer is gone.
	if ctx.Err() != nil {
		return
	}

	if err != nil {
		slog.Warn("feed refresh failed",
			"seq", seq,
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		r.publish(seq, func(prev *catalog.Snapshot) catalog.Snapshot {
			next := catalog.Snapshot{
				Dataset:     prev.Dataset,
				Err:         userMessage(err),
				LastUpdated: time.Now(),
				Seq:         seq,
			}
			// An empty sheet on the very first load publishes an explicit
			// empty dataset; later refreshes keep the previous data under
			// the error banner.
			if prev.Loading {
				next.Dataset = catalog.Dataset{}
			}
			return next
		})
		return
	}

	slog.Info("feed refreshed",
		"seq", seq,
		"rows", len(ds),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	r.publish(seq, func(prev *catalog.Snapshot) catalog.Snapshot {
		return catalog.Snapshot{
			Dataset:     ds,
			LastUpdated: time.Now(),
			Seq:         seq,
		}
	})
}

// publish swaps in the snapshot produced by build, unless a newer cycle
// already published. build runs against the currently-visible snapshot so
// "retain previous data" composes correctly under concurrent cycles.
func (r *Refresher) publish(seq uint64, build func(prev *catalog.Snapshot) catalog.Snapshot) {
	for {
		prev := r.snap.Load()
		if prev.Seq > seq {
			slog.Debug("stale fetch result discarded", "seq", seq, "current_seq", prev.Seq)
			return
		}
		next := build(prev)
		if r.snap.CompareAndSwap(prev, &next) {
			return
		}
	}
}
