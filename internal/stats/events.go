// Package stats implements the archive's telemetry pipeline: typed events
// flow through a buffered collector into Kafka, an aggregator consumes them
// into in-memory counters, and a Postgres store snapshots the aggregate
// periodically. The pipeline is optional at runtime; the archive core never
// depends on it.
package stats

import "time"

type EventType string

const (
	EventSummaryAdded  EventType = "summary_added"
	EventBatchLoad     EventType = "batch_load"
	EventTitleLookup   EventType = "title_lookup"
	EventAuthorSearch  EventType = "author_search"
	EventKeywordSearch EventType = "keyword_search"
	EventAnalyze       EventType = "analyze"
)

// QueryEvent records one read operation against the archive.
type QueryEvent struct {
	Type      EventType `json:"type"`
	Key       string    `json:"key"`
	Hits      int       `json:"hits"`
	CacheHit  bool      `json:"cache_hit"`
	LatencyMs int64     `json:"latency_ms"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

// MutationEvent records a summary add or a batch load.
type MutationEvent struct {
	Type      EventType `json:"type"`
	Title     string    `json:"title,omitempty"`
	Loaded    int       `json:"loaded,omitempty"`
	Skipped   int       `json:"skipped,omitempty"`
	LatencyMs int64     `json:"latency_ms"`
	Timestamp time.Time `json:"timestamp"`
}
