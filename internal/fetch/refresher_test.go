package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/seongho-jang/munhakdex/internal/catalog"
)

// switchableServer serves feedBody until fail is set, then returns 500s.
func switchableServer(t *testing.T) (*httptest.Server, *atomic.Bool, *atomic.Int64) {
	t.Helper()
	var fail atomic.Bool
	var hits atomic.Int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if fail.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(feedBody))
	}))
	t.Cleanup(srv.Close)
	return srv, &fail, &hits
}

func TestRefresher_InitialLoadingState(t *testing.T) {
	r := NewRefresher(NewFetcher("http://127.0.0.1:0", time.Second), time.Hour)

	snap := r.Snapshot()
	if !snap.Loading {
		t.Error("initial snapshot not loading")
	}
	if len(snap.Dataset) != 0 || snap.Err != "" {
		t.Errorf("initial snapshot = %+v", snap)
	}
}

func TestRefreshNow_Success(t *testing.T) {
	srv, _, _ := switchableServer(t)
	r := NewRefresher(NewFetcher(srv.URL, 5*time.Second), time.Hour)

	r.RefreshNow(context.Background())

	snap := r.Snapshot()
	if snap.Loading {
		t.Error("still loading after first result")
	}
	if snap.Err != "" {
		t.Errorf("Err = %q, want empty", snap.Err)
	}
	if len(snap.Dataset) != 2 {
		t.Errorf("dataset has %d rows, want 2", len(snap.Dataset))
	}
	if snap.LastUpdated.IsZero() {
		t.Error("LastUpdated not set")
	}
}

func TestRefreshNow_FirstLoadTransportError(t *testing.T) {
	srv, fail, _ := switchableServer(t)
	fail.Store(true)
	r := NewRefresher(NewFetcher(srv.URL, 5*time.Second), time.Hour)

	r.RefreshNow(context.Background())

	snap := r.Snapshot()
	if snap.Loading {
		t.Error("loading state survived a failed first fetch")
	}
	if snap.Err == "" {
		t.Error("no error message published")
	}
	if len(snap.Dataset) != 0 {
		t.Errorf("dataset has %d rows, want 0", len(snap.Dataset))
	}
}

func TestRefreshNow_FailureRetainsPriorData(t *testing.T) {
	srv, fail, _ := switchableServer(t)
	r := NewRefresher(NewFetcher(srv.URL, 5*time.Second), time.Hour)

	r.RefreshNow(context.Background())
	if len(r.Snapshot().Dataset) != 2 {
		t.Fatal("setup fetch failed")
	}

	fail.Store(true)
	r.RefreshNow(context.Background())

	snap := r.Snapshot()
	if snap.Err == "" {
		t.Error("failed refresh published no error message")
	}
	if len(snap.Dataset) != 2 {
		t.Errorf("failed refresh dropped prior data: %d rows", len(snap.Dataset))
	}

	// Recovery clears the banner.
	fail.Store(false)
	r.RefreshNow(context.Background())
	if snap := r.Snapshot(); snap.Err != "" {
		t.Errorf("Err = %q after recovery, want empty", snap.Err)
	}
}

func TestRefreshNow_EmptySheetFirstLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("작품명,작가\n"))
	}))
	defer srv.Close()

	r := NewRefresher(NewFetcher(srv.URL, 5*time.Second), time.Hour)
	r.RefreshNow(context.Background())

	snap := r.Snapshot()
	if snap.Loading {
		t.Error("still loading")
	}
	if snap.Err == "" {
		t.Error("empty sheet published no message")
	}
	if snap.Dataset == nil || len(snap.Dataset) != 0 {
		t.Errorf("dataset = %#v, want explicit empty dataset", snap.Dataset)
	}
}

func TestPublish_DiscardsStaleSequence(t *testing.T) {
	r := NewRefresher(NewFetcher("http://127.0.0.1:0", time.Second), time.Hour)

	current := catalog.Snapshot{
		Dataset: catalog.Dataset{{"작품명": "신간"}},
		Seq:     5,
	}
	r.snap.Store(&current)

	// A cycle that started earlier (lower seq) finishing late must not
	// overwrite the newer snapshot.
	r.publish(3, func(prev *catalog.Snapshot) catalog.Snapshot {
		return catalog.Snapshot{Dataset: catalog.Dataset{}, Seq: 3}
	})

	snap := r.Snapshot()
	if snap.Seq != 5 || len(snap.Dataset) != 1 {
		t.Errorf("stale publish replaced snapshot: %+v", snap)
	}

	// A newer cycle still publishes.
	r.publish(6, func(prev *catalog.Snapshot) catalog.Snapshot {
		return catalog.Snapshot{Dataset: prev.Dataset, Seq: 6}
	})
	if snap := r.Snapshot(); snap.Seq != 6 {
		t.Errorf("Seq = %d, want 6", snap.Seq)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	srv, _, hits := switchableServer(t)
	r := NewRefresher(NewFetcher(srv.URL, 5*time.Second), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	// Let a few cycles fire, then tear down.
	deadline := time.After(2 * time.Second)
	for hits.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("refresher never fetched")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	// No further fetches after teardown settles.
	time.Sleep(30 * time.Millisecond)
	settled := hits.Load()
	time.Sleep(50 * time.Millisecond)
	if hits.Load() != settled {
		t.Errorf("fetches continued after teardown: %d -> %d", settled, hits.Load())
	}
}

func TestRefreshNow_NoPublishAfterTeardown(t *testing.T) {
	srv, _, _ := switchableServer(t)
	r := NewRefresher(NewFetcher(srv.URL, 5*time.Second), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r.RefreshNow(ctx)

	if snap := r.Snapshot(); !snap.Loading {
		t.Errorf("cancelled cycle published a snapshot: %+v", snap)
	}
}
