// Package analysis counts how often the archive's indexed keywords occur in
// a summary's abstract. Matching is case- and accent-insensitive: both the
// body and the keywords are normalized before counting.
package analysis

import (
	"fmt"
	"strings"

	"github.com/rcastillo-dev/paper-archive-platform/internal/archive"
	"github.com/rcastillo-dev/paper-archive-platform/internal/paper"
	"github.com/rcastillo-dev/paper-archive-platform/pkg/errors"
)

// KeywordFrequency is one keyword's occurrence count, reported under the
// keyword's display spelling.
type KeywordFrequency struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// Result is the outcome of analyzing one summary.
type Result struct {
	Title       string             `json:"title"`
	Authors     []string           `json:"authors"`
	Frequencies []KeywordFrequency `json:"frequencies"`
}

// Analyzer computes keyword frequencies against the repository's keyword
// index.
type Analyzer struct {
	repo *archive.Repository
}

// New creates an Analyzer over the given repository.
func New(repo *archive.Repository) *Analyzer {
	return &Analyzer{repo: repo}
}

// Analyze counts, for every keyword indexed in the repository, how many
// times it occurs in the summary's normalized body. Keywords in the result
// keep their display spelling and follow the index's sorted order.
func (a *Analyzer) Analyze(summary *paper.Summary) (*Result, error) {
	if summary == nil {
		return nil, fmt.Errorf("%w: summary is nil", errors.ErrInvalidArgument)
	}

	body := archive.Normalize(summary.Body())
	keywords := a.repo.AllKeywords()

	frequencies := make([]KeywordFrequency, 0, len(keywords))
	for _, keyword := range keywords {
		frequencies = append(frequencies, KeywordFrequency{
			Keyword: keyword,
			Count:   strings.Count(body, archive.Normalize(keyword)),
		})
	}

	var authors []string
	for node := summary.Authors().Head(); node != nil; node = node.Next() {
		authors = append(authors, node.Data())
	}

	return &Result{
		Title:       summary.Title(),
		Authors:     authors,
		Frequencies: frequencies,
	}, nil
}

// AnalyzeByTitle resolves title through the repository and analyzes the
// summary found, or returns ErrNotFound.
func (a *Analyzer) AnalyzeByTitle(title string) (*Result, error) {
	summary, err := a.repo.FindByTitle(title)
	if err != nil {
		return nil, err
	}
	return a.Analyze(summary)
}
