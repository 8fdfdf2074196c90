// Package paper defines the summary document model, the plain-text archive
// format parser/serializer, and the file store that manages the data
// directory where summary files live.
package paper

import (
	"fmt"
	"strings"

	"github.com/rcastillo-dev/paper-archive-platform/internal/collections"
	"github.com/rcastillo-dev/paper-archive-platform/pkg/errors"
)

// Summary is one archived paper abstract. It is immutable after
// construction; the repository indexes summaries by pointer and relies on
// them never changing.
type Summary struct {
	title    string
	authors  *collections.List[string]
	body     string
	keywords *collections.List[string]
}

// NewSummary validates and builds a Summary. Title and body must be
// non-blank and both lists non-nil.
func NewSummary(title string, authors *collections.List[string], body string, keywords *collections.List[string]) (*Summary, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is empty", errors.ErrInvalidArgument)
	}
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: body is empty", errors.ErrInvalidArgument)
	}
	if authors == nil {
		return nil, fmt.Errorf("%w: authors list is nil", errors.ErrInvalidArgument)
	}
	if keywords == nil {
		return nil, fmt.Errorf("%w: keywords list is nil", errors.ErrInvalidArgument)
	}
	return &Summary{
		title:    strings.TrimSpace(title),
		authors:  authors,
		body:     body,
		keywords: keywords,
	}, nil
}

// Title returns the summary's title in its original spelling.
func (s *Summary) Title() string { return s.title }

// Authors returns the ordered author list.
func (s *Summary) Authors() *collections.List[string] { return s.authors }

// Body returns the abstract text.
func (s *Summary) Body() string { return s.body }

// Keywords returns the ordered keyword list.
func (s *Summary) Keywords() *collections.List[string] { return s.keywords }

// String renders the summary as a human-readable block.
func (s *Summary) String() string {
	var b strings.Builder
	b.WriteString("Título: " + s.title + "\n")
	b.WriteString("Autores: " + joinList(s.authors) + "\n")
	b.WriteString("Resumen: " + s.body + "\n")
	b.WriteString("Palabras claves: " + joinList(s.keywords))
	return b.String()
}

func joinList(l *collections.List[string]) string {
	var b strings.Builder
	for node := l.Head(); node != nil; node = node.Next() {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(node.Data())
	}
	return b.String()
}
