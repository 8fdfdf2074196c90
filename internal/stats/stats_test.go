package stats

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func TestCollectorTrackNeverBlocks(t *testing.T) {
	// Unstarted collector with a tiny buffer: the extra events must be
	// dropped, not block the caller.
	c := NewCollector(nil, 1, 10, time.Second)
	c.eventCh = make(chan any, 2)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			c.Track(QueryEvent{Type: EventTitleLookup, Key: "x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Track blocked on a full buffer")
	}
	if got := len(c.eventCh); got != 2 {
		t.Errorf("buffered events = %d, want 2", got)
	}
}

func TestCollectorCloseDuringTrack(t *testing.T) {
	c := NewCollector(nil, 64, 8, 10*time.Millisecond)
	c.Start(context.Background())

	// Trackers race the shutdown; none may panic on a closed channel.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				c.Track(QueryEvent{Type: EventTitleLookup, Key: "x"})
			}
		}()
	}

	c.Close()
	wg.Wait()

	// After Close, Track is a no-op and a second Close returns immediately.
	before := len(c.eventCh)
	c.Track(QueryEvent{Type: EventTitleLookup, Key: "x"})
	if got := len(c.eventCh); got != before {
		t.Errorf("Track after Close buffered an event (%d -> %d)", before, got)
	}
	c.Close()
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestAggregatorHandlesQueryEvents(t *testing.T) {
	agg := NewAggregator()
	handle := HandleEvent(agg)
	ctx := context.Background()

	events := []QueryEvent{
		{Type: EventKeywordSearch, Key: "redes", Hits: 3, CacheHit: true, LatencyMs: 2},
		{Type: EventKeywordSearch, Key: "redes", Hits: 3, CacheHit: false, LatencyMs: 8},
		{Type: EventAuthorSearch, Key: "garcia", Hits: 0, CacheHit: false, LatencyMs: 5},
	}
	for _, e := range events {
		if err := handle(ctx, nil, mustJSON(t, e)); err != nil {
			t.Fatalf("handle() error: %v", err)
		}
	}

	stats := agg.Stats()
	if stats.TotalQueries != 3 {
		t.Errorf("TotalQueries = %d, want 3", stats.TotalQueries)
	}
	if stats.CacheHits != 1 || stats.CacheMisses != 2 {
		t.Errorf("cache hits/misses = %d/%d, want 1/2", stats.CacheHits, stats.CacheMisses)
	}
	if stats.ZeroResultCount != 1 {
		t.Errorf("ZeroResultCount = %d, want 1", stats.ZeroResultCount)
	}
	if stats.QueriesByType[string(EventKeywordSearch)] != 2 {
		t.Errorf("QueriesByType[keyword_search] = %d, want 2", stats.QueriesByType[string(EventKeywordSearch)])
	}
	if len(stats.TopKeys) == 0 || stats.TopKeys[0].Key != "redes" {
		t.Errorf("TopKeys = %v, want redes first", stats.TopKeys)
	}
	if len(stats.ZeroResultKeys) != 1 || stats.ZeroResultKeys[0].Key != "garcia" {
		t.Errorf("ZeroResultKeys = %v, want [garcia]", stats.ZeroResultKeys)
	}
}

func TestAggregatorHandlesMutationEvents(t *testing.T) {
	agg := NewAggregator()
	handle := HandleEvent(agg)
	ctx := context.Background()

	if err := handle(ctx, nil, mustJSON(t, MutationEvent{Type: EventSummaryAdded, Title: "t"})); err != nil {
		t.Fatal(err)
	}
	if err := handle(ctx, nil, mustJSON(t, MutationEvent{Type: EventBatchLoad, Loaded: 7, Skipped: 2})); err != nil {
		t.Fatal(err)
	}

	stats := agg.Stats()
	if stats.SummariesAdded != 1 {
		t.Errorf("SummariesAdded = %d, want 1", stats.SummariesAdded)
	}
	if stats.BatchLoads != 1 || stats.SummariesLoaded != 7 || stats.FilesSkipped != 2 {
		t.Errorf("batch stats = %d/%d/%d, want 1/7/2",
			stats.BatchLoads, stats.SummariesLoaded, stats.FilesSkipped)
	}
}

func TestAggregatorIgnoresGarbage(t *testing.T) {
	agg := NewAggregator()
	handle := HandleEvent(agg)

	// Handler must not propagate decode failures, or the consumer would
	// re-deliver the same poison message forever.
	if err := handle(context.Background(), nil, []byte("not json")); err != nil {
		t.Errorf("handle(garbage) = %v, want nil", err)
	}
	if got := agg.Stats().TotalQueries; got != 0 {
		t.Errorf("TotalQueries = %d after garbage, want 0", got)
	}
}
