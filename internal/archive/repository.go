package archive

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rcastillo-dev/paper-archive-platform/internal/collections"
	"github.com/rcastillo-dev/paper-archive-platform/internal/paper"
	"github.com/rcastillo-dev/paper-archive-platform/pkg/collation"
	"github.com/rcastillo-dev/paper-archive-platform/pkg/errors"
	"github.com/rcastillo-dev/paper-archive-platform/pkg/tracing"
)

// Storage lists the archived summary files and copies new ones into the
// data directory. *paper.FileStore is the production implementation.
type Storage interface {
	List() ([]string, error)
	CopyIn(sourcePath string) (string, error)
}

// ParseFunc turns a summary file into a Summary. paper.Parse is the
// production implementation.
type ParseFunc func(path string) (*paper.Summary, error)

// record pairs a summary with the path of its file in the data directory.
type record struct {
	summary *paper.Summary
	path    string
}

// summaryList is the value slot of the author and keyword indexes. Lists are
// stored by pointer and mutated in place: appending a summary to an existing
// key never touches the tree structure.
type summaryList = collections.List[*paper.Summary]

func sameSummary(a, b *paper.Summary) bool { return a == b }

// Repository coordinates three indexes over archived summaries, all keyed by
// Normalize'd strings:
//
//   - titles: hash map, normalized title -> record (O(1) lookup)
//   - authors, keywords: AVL maps, normalized name -> list of summaries
//     (O(log n) lookup, O(n) sorted listing)
//
// Two side hash maps recover the first-seen display spelling of each
// normalized author/keyword key.
//
// The repository is single-writer: LoadAll and Add are the only mutations
// and must not run concurrently with each other or with readers. The HTTP
// layer serializes access; the repository itself holds no locks.
type Repository struct {
	titles   *collections.HashMap[string, *record]
	authors  *collections.TreeMap[string, *summaryList]
	keywords *collections.TreeMap[string, *summaryList]

	authorNames  *collections.HashMap[string, string]
	keywordNames *collections.HashMap[string, string]

	storage      Storage
	parse        ParseFunc
	titleCompare *collation.Comparator
	logger       *slog.Logger
}

// NewRepository creates an empty repository over the given collaborators.
func NewRepository(storage Storage, parse ParseFunc, titleCompare *collation.Comparator) *Repository {
	return &Repository{
		titles:       collections.NewStringMap[*record](),
		authors:      newKeyTree(),
		keywords:     newKeyTree(),
		authorNames:  collections.NewStringMap[string](),
		keywordNames: collections.NewStringMap[string](),
		storage:      storage,
		parse:        parse,
		titleCompare: titleCompare,
		logger:       slog.Default().With("component", "repository"),
	}
}

// newKeyTree orders normalized keys bytewise. Locale rules are already
// folded into the keys by Normalize, so plain string comparison matches the
// display order users expect.
func newKeyTree() *collections.TreeMap[string, *summaryList] {
	return collections.NewTreeMap[string, *summaryList](strings.Compare)
}

// LoadAll rebuilds every index from the data directory. Existing entries
// are dropped first so a reload reflects exactly what is on disk. A file
// that fails to parse is logged and skipped; the batch continues. It
// returns the number of summaries loaded and the number of files skipped.
func (r *Repository) LoadAll(ctx context.Context) (int, int, error) {
	ctx, span := tracing.StartChildSpan(ctx, "repository.load_all")
	defer span.End()

	paths, err := r.storage.List()
	if err != nil {
		return 0, 0, fmt.Errorf("listing summary files: %w", err)
	}

	r.titles.Clear()
	r.authors.Clear()
	r.keywords.Clear()
	r.authorNames.Clear()
	r.keywordNames.Clear()

	loaded, skipped := 0, 0
	for _, path := range paths {
		_, fileSpan := tracing.StartChildSpan(ctx, "repository.parse_file")
		fileSpan.SetAttr("path", path)
		summary, err := r.parse(path)
		fileSpan.End()

		if err != nil {
			r.logger.Warn("skipping summary file", "path", path, "error", err)
			skipped++
			continue
		}
		r.index(summary, path)
		loaded++
	}

	span.SetAttr("files", len(paths))
	span.SetAttr("loaded", loaded)
	r.logger.Info("summaries loaded", "files", len(paths), "loaded", loaded, "skipped", skipped)
	return loaded, skipped, nil
}

// Add parses the summary at sourcePath, refuses titles that normalize to an
// already-indexed key, copies the file into the data directory, and indexes
// the summary. It returns the parsed summary.
func (r *Repository) Add(ctx context.Context, sourcePath string) (*paper.Summary, error) {
	_, span := tracing.StartChildSpan(ctx, "repository.add")
	span.SetAttr("source", sourcePath)
	defer span.End()

	summary, err := r.parse(sourcePath)
	if err != nil {
		return nil, err
	}

	titleKey := Normalize(summary.Title())
	if r.titles.ContainsKey(titleKey) {
		return nil, fmt.Errorf("%w: %q", errors.ErrDuplicateTitle, summary.Title())
	}

	storedPath, err := r.storage.CopyIn(sourcePath)
	if err != nil {
		return nil, err
	}

	r.index(summary, storedPath)
	r.logger.Info("summary added", "title", summary.Title(), "path", storedPath)
	return summary, nil
}

// index inserts one summary into all three indexes. The caller has already
// handled duplicate titles where that matters; LoadAll lets a later file win
// the title slot, matching on-disk state.
func (r *Repository) index(summary *paper.Summary, path string) {
	r.titles.Put(Normalize(summary.Title()), &record{summary: summary, path: path})
	r.indexList(summary.Authors(), summary, r.authors, r.authorNames)
	r.indexList(summary.Keywords(), summary, r.keywords, r.keywordNames)
}

// indexList fans a summary out to one list-valued tree: every display string
// is normalized, its first-seen spelling recorded, and the summary appended
// to the key's list (created on first use).
func (r *Repository) indexList(
	display *collections.List[string],
	summary *paper.Summary,
	tree *collections.TreeMap[string, *summaryList],
	names *collections.HashMap[string, string],
) {
	for node := display.Head(); node != nil; node = node.Next() {
		original := node.Data()
		key := Normalize(original)

		if !names.ContainsKey(key) {
			names.Put(key, original)
		}

		if list, ok := tree.Get(key); ok {
			list.Add(summary)
			continue
		}
		list := collections.NewList(sameSummary)
		list.Add(summary)
		tree.Put(key, list)
	}
}

// FindByTitle returns the summary whose title normalizes to the same key as
// title, or ErrNotFound.
func (r *Repository) FindByTitle(title string) (*paper.Summary, error) {
	rec, ok := r.titles.Get(Normalize(title))
	if !ok {
		return nil, fmt.Errorf("%w: title %q", errors.ErrNotFound, title)
	}
	return rec.summary, nil
}

// ContainsTitle reports whether a summary with the given title is indexed.
func (r *Repository) ContainsTitle(title string) bool {
	return r.titles.ContainsKey(Normalize(title))
}

// StoredPath returns the data-directory path backing the given title.
func (r *Repository) StoredPath(title string) (string, error) {
	rec, ok := r.titles.Get(Normalize(title))
	if !ok {
		return "", fmt.Errorf("%w: title %q", errors.ErrNotFound, title)
	}
	return rec.path, nil
}

// SummariesByAuthor returns the summaries indexed under author. An
// unindexed author yields an empty list, never an error.
func (r *Repository) SummariesByAuthor(author string) *summaryList {
	return r.lookupList(r.authors, author)
}

// SummariesByKeyword returns the summaries indexed under keyword. An
// unindexed keyword yields an empty list, never an error.
func (r *Repository) SummariesByKeyword(keyword string) *summaryList {
	return r.lookupList(r.keywords, keyword)
}

func (r *Repository) lookupList(tree *collections.TreeMap[string, *summaryList], key string) *summaryList {
	if list, ok := tree.Get(Normalize(key)); ok {
		return list
	}
	return collections.NewList(sameSummary)
}

// AllAuthors returns every author's display name in normalized-key order.
func (r *Repository) AllAuthors() []string {
	return displayNames(r.authors, r.authorNames)
}

// AllKeywords returns every keyword's display form in normalized-key order.
func (r *Repository) AllKeywords() []string {
	return displayNames(r.keywords, r.keywordNames)
}

// displayNames maps a tree's sorted normalized keys back through the
// display-name table, so callers never see normalized forms.
func displayNames(tree *collections.TreeMap[string, *summaryList], names *collections.HashMap[string, string]) []string {
	keys := tree.Keys()
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if name, ok := names.Get(key); ok {
			out = append(out, name)
		}
	}
	return out
}

// AllTitles returns every stored title in its original spelling, sorted with
// the locale-aware comparator. The title index is unordered, so this
// collects and sorts.
func (r *Repository) AllTitles() []string {
	titles := make([]string, 0, r.titles.Len())
	for node := r.titles.Keys().Head(); node != nil; node = node.Next() {
		if rec, ok := r.titles.Get(node.Data()); ok {
			titles = append(titles, rec.summary.Title())
		}
	}
	r.titleCompare.SortStrings(titles)
	return titles
}

// AllSummaries returns every summary in unspecified order.
func (r *Repository) AllSummaries() []*paper.Summary {
	out := make([]*paper.Summary, 0, r.titles.Len())
	for node := r.titles.Keys().Head(); node != nil; node = node.Next() {
		if rec, ok := r.titles.Get(node.Data()); ok {
			out = append(out, rec.summary)
		}
	}
	return out
}

// SummaryCount returns the number of indexed summaries.
func (r *Repository) SummaryCount() int { return r.titles.Len() }

// AuthorCount returns the number of distinct normalized authors.
func (r *Repository) AuthorCount() int { return r.authors.Len() }

// KeywordCount returns the number of distinct normalized keywords.
func (r *Repository) KeywordCount() int { return r.keywords.Len() }

// KeywordFrequency returns how many summaries are indexed under keyword.
func (r *Repository) KeywordFrequency(keyword string) int {
	return r.SummariesByKeyword(keyword).Len()
}

// IsEmpty reports whether no summaries are indexed.
func (r *Repository) IsEmpty() bool { return r.titles.IsEmpty() }
