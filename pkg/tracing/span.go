// Package tracing implements lightweight in-process spans. Spans nest
// through contexts into a tree per trace and are emitted as structured log
// records; there is no external trace backend.
package tracing

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type spanContextKey struct{}

// Span is one timed operation inside a trace tree.
type Span struct {
	name    string
	traceID string
	started time.Time

	mu       sync.Mutex
	duration time.Duration
	attrs    []slog.Attr
	children []*Span
}

func newSpan(name, traceID string) *Span {
	return &Span{
		name:    name,
		traceID: traceID,
		started: time.Now(),
	}
}

// StartSpan opens a root span and stores it in the returned context.
func StartSpan(ctx context.Context, name string, traceID string) (context.Context, *Span) {
	span := newSpan(name, traceID)
	return context.WithValue(ctx, spanContextKey{}, span), span
}

// StartChildSpan opens a span under the one carried by ctx. Without a
// parent the child becomes its own root.
func StartChildSpan(ctx context.Context, name string) (context.Context, *Span) {
	child := newSpan(name, "")
	if parent := SpanFromContext(ctx); parent != nil {
		child.traceID = parent.traceID
		parent.mu.Lock()
		parent.children = append(parent.children, child)
		parent.mu.Unlock()
	}
	return context.WithValue(ctx, spanContextKey{}, child), child
}

// SpanFromContext returns the span carried by ctx, or nil.
func SpanFromContext(ctx context.Context) *Span {
	span, _ := ctx.Value(spanContextKey{}).(*Span)
	return span
}

// End fixes the span's duration. Ending twice keeps the first duration.
func (s *Span) End() {
	s.mu.Lock()
	if s.duration == 0 {
		s.duration = time.Since(s.started)
	}
	s.mu.Unlock()
}

// SetAttr attaches one attribute to the span.
func (s *Span) SetAttr(key string, value any) {
	s.mu.Lock()
	s.attrs = append(s.attrs, slog.Any(key, value))
	s.mu.Unlock()
}

// Log emits the span and its subtree as structured log records.
func (s *Span) Log() {
	s.emit(0)
}

func (s *Span) emit(depth int) {
	s.mu.Lock()
	record := []any{
		"trace_id", s.traceID,
		"span", s.name,
		"duration_ms", s.duration.Milliseconds(),
		"depth", depth,
	}
	for _, attr := range s.attrs {
		record = append(record, attr.Key, attr.Value.Any())
	}
	children := make([]*Span, len(s.children))
	copy(children, s.children)
	s.mu.Unlock()

	slog.Info("span", record...)
	for _, child := range children {
		child.emit(depth + 1)
	}
}
