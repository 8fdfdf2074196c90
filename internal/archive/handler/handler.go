// Package handler exposes the archive over HTTP. It is the only mutation
// path into the repository at runtime, so it serializes writers behind a
// RWMutex; the repository itself stays lock-free.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/rcastillo-dev/paper-archive-platform/internal/analysis"
	"github.com/rcastillo-dev/paper-archive-platform/internal/archive"
	"github.com/rcastillo-dev/paper-archive-platform/internal/archive/cache"
	"github.com/rcastillo-dev/paper-archive-platform/internal/collections"
	"github.com/rcastillo-dev/paper-archive-platform/internal/paper"
	"github.com/rcastillo-dev/paper-archive-platform/internal/stats"
	"github.com/rcastillo-dev/paper-archive-platform/pkg/errors"
	"github.com/rcastillo-dev/paper-archive-platform/pkg/logger"
	"github.com/rcastillo-dev/paper-archive-platform/pkg/metrics"
	"github.com/rcastillo-dev/paper-archive-platform/pkg/middleware"
)

// Handler serves the archive API. Cache, collector, and metrics are all
// optional; a nil value disables that concern.
type Handler struct {
	mu        sync.RWMutex
	repo      *archive.Repository
	analyzer  *analysis.Analyzer
	cache     *cache.ResponseCache
	collector *stats.Collector
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates a Handler over the repository and its collaborators.
func New(repo *archive.Repository, analyzer *analysis.Analyzer, responseCache *cache.ResponseCache, collector *stats.Collector, m *metrics.Metrics) *Handler {
	return &Handler{
		repo:      repo,
		analyzer:  analyzer,
		cache:     responseCache,
		collector: collector,
		metrics:   m,
		logger:    slog.Default().With("component", "archive-handler"),
	}
}

// Register wires every archive route into mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/summaries", h.ListSummaries)
	mux.HandleFunc("GET /api/v1/summaries/{title}", h.GetSummary)
	mux.HandleFunc("POST /api/v1/summaries", h.AddSummary)
	mux.HandleFunc("POST /api/v1/summaries/reload", h.Reload)
	mux.HandleFunc("GET /api/v1/authors", h.ListAuthors)
	mux.HandleFunc("GET /api/v1/keywords", h.ListKeywords)
	mux.HandleFunc("GET /api/v1/keywords/{keyword}/frequency", h.KeywordFrequency)
	mux.HandleFunc("GET /api/v1/analyze", h.Analyze)
	mux.HandleFunc("GET /api/v1/archive/stats", h.ArchiveStats)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
}

// summaryPayload is the JSON shape of one summary.
type summaryPayload struct {
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	Body     string   `json:"body"`
	Keywords []string `json:"keywords"`
}

func toPayload(s *paper.Summary) summaryPayload {
	return summaryPayload{
		Title:    s.Title(),
		Authors:  listToSlice(s.Authors()),
		Body:     s.Body(),
		Keywords: listToSlice(s.Keywords()),
	}
}

func listToSlice(l *collections.List[string]) []string {
	out := make([]string, 0, l.Len())
	for node := l.Head(); node != nil; node = node.Next() {
		out = append(out, node.Data())
	}
	return out
}

func summariesToPayload(l *collections.List[*paper.Summary]) []summaryPayload {
	out := make([]summaryPayload, 0, l.Len())
	for node := l.Head(); node != nil; node = node.Next() {
		out = append(out, toPayload(node.Data()))
	}
	return out
}

// GetSummary returns the summary whose title matches the path, ignoring
// case and accents.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	title := r.PathValue("title")

	h.mu.RLock()
	summary, err := h.repo.FindByTitle(title)
	h.mu.RUnlock()

	if err != nil {
		h.countLookup("title", "miss")
		h.track(r.Context(), stats.EventTitleLookup, title, 0, false, start)
		h.writeError(w, err)
		return
	}
	h.countLookup("title", "hit")
	h.track(r.Context(), stats.EventTitleLookup, title, 1, false, start)
	h.writeJSON(w, http.StatusOK, toPayload(summary))
}

// ListSummaries returns all titles sorted with the locale comparator, or,
// with ?full=true, every summary in full.
func (h *Handler) ListSummaries(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if r.URL.Query().Get("full") == "true" {
		summaries := h.repo.AllSummaries()
		payload := make([]summaryPayload, 0, len(summaries))
		for _, s := range summaries {
			payload = append(payload, toPayload(s))
		}
		h.writeJSON(w, http.StatusOK, map[string]any{"summaries": payload, "count": len(payload)})
		return
	}

	titles := h.repo.AllTitles()
	h.writeJSON(w, http.StatusOK, map[string]any{"titles": titles, "count": len(titles)})
}

type addRequest struct {
	SourcePath string `json:"source_path"`
}

// AddSummary parses and archives the summary file named in the request
// body, returning 201 with the indexed summary, or 409 when a summary with
// an equivalent title already exists.
func (h *Handler) AddSummary(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SourcePath == "" {
		h.writeError(w, errors.New(errors.ErrInvalidArgument, http.StatusBadRequest, "body must be JSON with a source_path field"))
		return
	}

	h.mu.Lock()
	summary, err := h.repo.Add(r.Context(), req.SourcePath)
	h.mu.Unlock()

	if err != nil {
		log.Warn("add summary failed", "source", req.SourcePath, "error", err)
		h.writeError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.SummariesAddedTotal.Inc()
	}
	h.updateIndexGauges()
	h.invalidateCache(r.Context())
	if h.collector != nil {
		h.collector.Track(stats.MutationEvent{
			Type:      stats.EventSummaryAdded,
			Title:     summary.Title(),
			Timestamp: time.Now().UTC(),
		})
	}

	h.writeJSON(w, http.StatusCreated, toPayload(summary))
}

// Reload re-scans the data directory and indexes every parseable file.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	h.mu.Lock()
	loaded, skipped, err := h.repo.LoadAll(r.Context())
	h.mu.Unlock()

	if err != nil {
		h.writeError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.SummariesLoadedTotal.Add(float64(loaded))
		h.metrics.LoadFailuresTotal.Add(float64(skipped))
	}
	h.updateIndexGauges()
	h.invalidateCache(r.Context())
	if h.collector != nil {
		h.collector.Track(stats.MutationEvent{
			Type:      stats.EventBatchLoad,
			Loaded:    loaded,
			Skipped:   skipped,
			LatencyMs: time.Since(start).Milliseconds(),
			Timestamp: time.Now().UTC(),
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]int{"loaded": loaded, "skipped": skipped})
}

// ListAuthors returns all author display names sorted by normalized key,
// or, with ?q=, the summaries indexed under one author.
func (h *Handler) ListAuthors(w http.ResponseWriter, r *http.Request) {
	h.listIndex(w, r, "author", stats.EventAuthorSearch,
		func() []string { return h.repo.AllAuthors() },
		func(q string) *collections.List[*paper.Summary] { return h.repo.SummariesByAuthor(q) },
	)
}

// ListKeywords returns all keyword display forms sorted by normalized key,
// or, with ?q=, the summaries indexed under one keyword.
func (h *Handler) ListKeywords(w http.ResponseWriter, r *http.Request) {
	h.listIndex(w, r, "keyword", stats.EventKeywordSearch,
		func() []string { return h.repo.AllKeywords() },
		func(q string) *collections.List[*paper.Summary] { return h.repo.SummariesByKeyword(q) },
	)
}

// listIndex serves both the full sorted listing and per-key search for one
// list-valued index, caching per-key responses when the cache is wired.
func (h *Handler) listIndex(
	w http.ResponseWriter,
	r *http.Request,
	kind string,
	event stats.EventType,
	listAll func() []string,
	search func(q string) *collections.List[*paper.Summary],
) {
	start := time.Now()
	q := r.URL.Query().Get("q")

	if q == "" {
		h.mu.RLock()
		names := listAll()
		h.mu.RUnlock()
		h.writeJSON(w, http.StatusOK, map[string]any{kind + "s": names, "count": len(names)})
		return
	}

	compute := func() ([]byte, error) {
		h.mu.RLock()
		defer h.mu.RUnlock()
		results := search(q)
		return json.Marshal(map[string]any{
			"query":     q,
			"summaries": summariesToPayload(results),
			"count":     results.Len(),
		})
	}

	var payload []byte
	var cached bool
	var err error
	if h.cache != nil {
		payload, cached, err = h.cache.GetOrCompute(r.Context(), kind, q, compute)
	} else {
		payload, err = compute()
	}
	if err != nil {
		h.writeError(w, err)
		return
	}

	hits := resultCount(payload)
	if hits == 0 {
		h.countLookup(kind, "miss")
	} else {
		h.countLookup(kind, "hit")
	}
	h.countCache(cached)
	h.track(r.Context(), event, q, hits, cached, start)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

// resultCount extracts the count field from a rendered search payload.
func resultCount(payload []byte) int {
	var probe struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return 0
	}
	return probe.Count
}

// KeywordFrequency returns how many summaries carry the given keyword.
func (h *Handler) KeywordFrequency(w http.ResponseWriter, r *http.Request) {
	keyword := r.PathValue("keyword")

	h.mu.RLock()
	frequency := h.repo.KeywordFrequency(keyword)
	h.mu.RUnlock()

	h.writeJSON(w, http.StatusOK, map[string]any{
		"keyword":   keyword,
		"frequency": frequency,
	})
}

// Analyze counts every indexed keyword's occurrences in one summary's body.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	title := r.URL.Query().Get("title")
	if title == "" {
		h.writeError(w, errors.New(errors.ErrInvalidArgument, http.StatusBadRequest, "query parameter 'title' is required"))
		return
	}

	h.mu.RLock()
	result, err := h.analyzer.AnalyzeByTitle(title)
	h.mu.RUnlock()

	if err != nil {
		h.track(r.Context(), stats.EventAnalyze, title, 0, false, start)
		h.writeError(w, err)
		return
	}
	h.track(r.Context(), stats.EventAnalyze, title, len(result.Frequencies), false, start)
	h.writeJSON(w, http.StatusOK, result)
}

// ArchiveStats reports the size of each index.
func (h *Handler) ArchiveStats(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	h.writeJSON(w, http.StatusOK, map[string]int{
		"summaries": h.repo.SummaryCount(),
		"authors":   h.repo.AuthorCount(),
		"keywords":  h.repo.KeywordCount(),
	})
}

// CacheStats reports cache hit/miss counters, or that caching is disabled.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}
	hits, misses := h.cache.Stats()
	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":   hits,
		"misses": misses,
		"total":  hits + misses,
	})
}

func (h *Handler) invalidateCache(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(ctx); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
	}
}

func (h *Handler) updateIndexGauges() {
	if h.metrics == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.metrics.IndexSize.WithLabelValues("summaries").Set(float64(h.repo.SummaryCount()))
	h.metrics.IndexSize.WithLabelValues("authors").Set(float64(h.repo.AuthorCount()))
	h.metrics.IndexSize.WithLabelValues("keywords").Set(float64(h.repo.KeywordCount()))
}

func (h *Handler) countLookup(index, result string) {
	if h.metrics != nil {
		h.metrics.LookupsTotal.WithLabelValues(index, result).Inc()
	}
}

func (h *Handler) countCache(hit bool) {
	if h.metrics == nil {
		return
	}
	if hit {
		h.metrics.CacheHitsTotal.Inc()
	} else {
		h.metrics.CacheMissesTotal.Inc()
	}
}

func (h *Handler) track(ctx context.Context, event stats.EventType, key string, hits int, cacheHit bool, start time.Time) {
	if h.collector == nil {
		return
	}
	h.collector.Track(stats.QueryEvent{
		Type:      event,
		Key:       key,
		Hits:      hits,
		CacheHit:  cacheHit,
		LatencyMs: time.Since(start).Milliseconds(),
		Timestamp: time.Now().UTC(),
		RequestID: middleware.GetRequestID(ctx),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	h.writeJSON(w, errors.HTTPStatusCode(err), map[string]string{"error": err.Error()})
}
