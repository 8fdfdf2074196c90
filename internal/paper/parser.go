package paper

import (
	"fmt"
	"os"
	"strings"

	"github.com/rcastillo-dev/paper-archive-platform/internal/collections"
	"github.com/rcastillo-dev/paper-archive-platform/pkg/errors"
)

// The archive's plain-text summary format:
//
//	<title>                          first non-blank line
//	Autores                          section header
//	<name>[, <name>...]              one per line or comma-separated
//	Resumen                          section header
//	<abstract text>                  any number of lines, joined by spaces
//	Palabras claves: <kw>, <kw>.     comma list, optional trailing period
const (
	authorsHeader  = "Autores"
	bodyHeader     = "Resumen"
	keywordsPrefix = "Palabras claves:"
)

// Parse reads the summary file at path. Read failures are reported as
// ErrIO; structural problems as ErrMalformedSummary with the reason.
func Parse(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", errors.ErrIO, path, err)
	}
	summary, err := parseLines(strings.Split(string(data), "\n"))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return summary, nil
}

func parseLines(lines []string) (*Summary, error) {
	title := ""
	authors := collections.NewList[string](collections.Equal[string]())
	keywords := collections.NewList[string](collections.Equal[string]())
	var bodyParts []string

	section := ""
	for _, raw := range lines {
		line := strings.TrimSpace(raw)

		switch {
		case line == authorsHeader:
			section = authorsHeader
			continue
		case line == bodyHeader:
			section = bodyHeader
			continue
		case hasKeywordsPrefix(line):
			for _, kw := range splitKeywords(line) {
				keywords.Add(kw)
			}
			section = ""
			continue
		}

		if line == "" {
			continue
		}

		switch section {
		case authorsHeader:
			for _, name := range strings.Split(line, ",") {
				if name = strings.TrimSpace(name); name != "" {
					authors.Add(name)
				}
			}
		case bodyHeader:
			bodyParts = append(bodyParts, line)
		default:
			if title == "" {
				title = line
			}
		}
	}

	if title == "" {
		return nil, fmt.Errorf("%w: no title found", errors.ErrMalformedSummary)
	}
	if len(bodyParts) == 0 {
		return nil, fmt.Errorf("%w: no %s section found", errors.ErrMalformedSummary, bodyHeader)
	}

	summary, err := NewSummary(title, authors, strings.Join(bodyParts, " "), keywords)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrMalformedSummary, err)
	}
	return summary, nil
}

// hasKeywordsPrefix tolerates the capitalised "Palabras Claves:" variant
// found in older corpus files.
func hasKeywordsPrefix(line string) bool {
	return strings.HasPrefix(line, keywordsPrefix) ||
		strings.HasPrefix(line, "Palabras Claves:")
}

func splitKeywords(line string) []string {
	colon := strings.Index(line, ":")
	if colon < 0 || colon == len(line)-1 {
		return nil
	}
	rest := strings.TrimSpace(line[colon+1:])
	rest = strings.TrimSuffix(rest, ".")

	var keywords []string
	for _, kw := range strings.Split(rest, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// Write serialises a summary to path in the archive format, so a written
// file parses back into an equal summary.
func Write(summary *Summary, path string) error {
	var b strings.Builder
	b.WriteString(summary.Title() + "\n")

	b.WriteString(authorsHeader + "\n")
	for node := summary.Authors().Head(); node != nil; node = node.Next() {
		b.WriteString(node.Data() + "\n")
	}

	b.WriteString(bodyHeader + "\n")
	b.WriteString(summary.Body() + "\n")

	b.WriteString(keywordsPrefix + " " + joinList(summary.Keywords()) + "\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", errors.ErrIO, path, err)
	}
	return nil
}
