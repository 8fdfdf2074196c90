package stats

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rcastillo-dev/paper-archive-platform/pkg/kafka"
)

// AggregatedStats is the archive's rolled-up telemetry.
type AggregatedStats struct {
	TotalQueries     int64            `json:"total_queries"`
	SummariesAdded   int64            `json:"summaries_added"`
	BatchLoads       int64            `json:"batch_loads"`
	SummariesLoaded  int64            `json:"summaries_loaded"`
	FilesSkipped     int64            `json:"files_skipped"`
	CacheHits        int64            `json:"cache_hits"`
	CacheMisses      int64            `json:"cache_misses"`
	ZeroResultCount  int64            `json:"zero_result_count"`
	AvgLatencyMs     float64          `json:"avg_latency_ms"`
	P50LatencyMs     int64            `json:"p50_latency_ms"`
	P95LatencyMs     int64            `json:"p95_latency_ms"`
	P99LatencyMs     int64            `json:"p99_latency_ms"`
	QueriesByType    map[string]int64 `json:"queries_by_type"`
	TopKeys          []KeyCount       `json:"top_keys"`
	ZeroResultKeys   []KeyCount       `json:"zero_result_keys"`
	QueriesPerMinute float64          `json:"queries_per_minute"`
}

// KeyCount pairs a lookup key with how often it was queried.
type KeyCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// Aggregator consumes archive events from Kafka and keeps running counters.
type Aggregator struct {
	mu             sync.RWMutex
	totalQueries   atomic.Int64
	summariesAdded atomic.Int64
	batchLoads     atomic.Int64
	loaded         atomic.Int64
	skipped        atomic.Int64
	cacheHits      atomic.Int64
	cacheMisses    atomic.Int64
	zeroResults    atomic.Int64
	latencies      []int64
	keyCounts      map[string]int64
	zeroResultKeys map[string]int64
	byType         map[string]int64
	startTime      time.Time

	consumer *kafka.Consumer
	logger   *slog.Logger
}

// NewAggregator creates an empty Aggregator. Wire a consumer with Consume
// before calling Start; the consumer's handler comes from HandleEvent, which
// needs the aggregator first.
func NewAggregator() *Aggregator {
	return &Aggregator{
		latencies:      make([]int64, 0, 10000),
		keyCounts:      make(map[string]int64),
		zeroResultKeys: make(map[string]int64),
		byType:         make(map[string]int64),
		startTime:      time.Now(),
		logger:         slog.Default().With("component", "stats-aggregator"),
	}
}

// Consume sets the Kafka consumer that Start will run.
func (a *Aggregator) Consume(consumer *kafka.Consumer) {
	a.consumer = consumer
}

// Start enters the consume loop until ctx is cancelled.
func (a *Aggregator) Start(ctx context.Context) error {
	if a.consumer == nil {
		return fmt.Errorf("aggregator has no consumer")
	}
	a.logger.Info("stats aggregator starting")
	return a.consumer.Start(ctx)
}

// HandleEvent returns the Kafka handler that feeds agg. Batched events
// arrive one message per event; undecodable messages are logged and
// committed so they are never re-delivered.
func HandleEvent(agg *Aggregator) kafka.MessageHandler {
	return func(ctx context.Context, key []byte, value []byte) error {
		query, err := kafka.DecodeJSON[QueryEvent](value)
		if err == nil && isQueryType(query.Type) {
			agg.recordQuery(query)
			return nil
		}
		mutation, err := kafka.DecodeJSON[MutationEvent](value)
		if err != nil {
			agg.logger.Error("failed to decode archive event", "error", err)
			return nil
		}
		if !isMutationType(mutation.Type) {
			agg.logger.Warn("unknown archive event type", "type", mutation.Type)
			return nil
		}
		agg.recordMutation(mutation)
		return nil
	}
}

func isQueryType(t EventType) bool {
	switch t {
	case EventTitleLookup, EventAuthorSearch, EventKeywordSearch, EventAnalyze:
		return true
	}
	return false
}

func isMutationType(t EventType) bool {
	return t == EventSummaryAdded || t == EventBatchLoad
}

func (a *Aggregator) recordQuery(event QueryEvent) {
	a.totalQueries.Add(1)

	if event.CacheHit {
		a.cacheHits.Add(1)
	} else {
		a.cacheMisses.Add(1)
	}
	if event.Hits == 0 {
		a.zeroResults.Add(1)
	}

	a.mu.Lock()
	a.latencies = append(a.latencies, event.LatencyMs)
	a.keyCounts[event.Key]++
	a.byType[string(event.Type)]++
	if event.Hits == 0 {
		a.zeroResultKeys[event.Key]++
	}
	a.mu.Unlock()
}

func (a *Aggregator) recordMutation(event MutationEvent) {
	switch event.Type {
	case EventSummaryAdded:
		a.summariesAdded.Add(1)
	case EventBatchLoad:
		a.batchLoads.Add(1)
		a.loaded.Add(int64(event.Loaded))
		a.skipped.Add(int64(event.Skipped))
	}
}

// Stats computes the current aggregate.
func (a *Aggregator) Stats() AggregatedStats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := AggregatedStats{
		TotalQueries:    a.totalQueries.Load(),
		SummariesAdded:  a.summariesAdded.Load(),
		BatchLoads:      a.batchLoads.Load(),
		SummariesLoaded: a.loaded.Load(),
		FilesSkipped:    a.skipped.Load(),
		CacheHits:       a.cacheHits.Load(),
		CacheMisses:     a.cacheMisses.Load(),
		ZeroResultCount: a.zeroResults.Load(),
		QueriesByType:   make(map[string]int64, len(a.byType)),
	}
	for t, n := range a.byType {
		stats.QueriesByType[t] = n
	}

	if len(a.latencies) > 0 {
		sorted := make([]int64, len(a.latencies))
		copy(sorted, a.latencies)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		var sum int64
		for _, l := range sorted {
			sum += l
		}
		stats.AvgLatencyMs = float64(sum) / float64(len(sorted))
		stats.P50LatencyMs = percentile(sorted, 50)
		stats.P95LatencyMs = percentile(sorted, 95)
		stats.P99LatencyMs = percentile(sorted, 99)
	}

	stats.TopKeys = topN(a.keyCounts, 10)
	stats.ZeroResultKeys = topN(a.zeroResultKeys, 10)

	elapsed := time.Since(a.startTime).Minutes()
	if elapsed > 0 {
		stats.QueriesPerMinute = float64(stats.TotalQueries) / elapsed
	}
	return stats
}

func percentile(sorted []int64, pct int) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (pct * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func topN(counts map[string]int64, n int) []KeyCount {
	result := make([]KeyCount, 0, len(counts))
	for key, count := range counts {
		result = append(result, KeyCount{Key: key, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}
