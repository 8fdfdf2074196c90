package paper

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	pkgerrors "github.com/rcastillo-dev/paper-archive-platform/pkg/errors"
)

const sampleFile = `Optimización de Consultas en Bases de Datos Distribuidas

Autores
José García, María López
Pedro Sánchez

Resumen
Este trabajo presenta un estudio sobre la optimización
de consultas en entornos distribuidos.

Palabras claves: bases de datos, optimización, consultas distribuidas.
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resumen.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func TestParseSampleFile(t *testing.T) {
	summary, err := Parse(writeTemp(t, sampleFile))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if got := summary.Title(); got != "Optimización de Consultas en Bases de Datos Distribuidas" {
		t.Errorf("Title() = %q", got)
	}

	var authors []string
	for node := summary.Authors().Head(); node != nil; node = node.Next() {
		authors = append(authors, node.Data())
	}
	wantAuthors := []string{"José García", "María López", "Pedro Sánchez"}
	if len(authors) != len(wantAuthors) {
		t.Fatalf("authors = %v, want %v", authors, wantAuthors)
	}
	for i := range wantAuthors {
		if authors[i] != wantAuthors[i] {
			t.Errorf("author %d = %q, want %q", i, authors[i], wantAuthors[i])
		}
	}

	wantBody := "Este trabajo presenta un estudio sobre la optimización de consultas en entornos distribuidos."
	if got := summary.Body(); got != wantBody {
		t.Errorf("Body() = %q, want %q", got, wantBody)
	}

	var keywords []string
	for node := summary.Keywords().Head(); node != nil; node = node.Next() {
		keywords = append(keywords, node.Data())
	}
	wantKeywords := []string{"bases de datos", "optimización", "consultas distribuidas"}
	if len(keywords) != len(wantKeywords) {
		t.Fatalf("keywords = %v, want %v", keywords, wantKeywords)
	}
	for i := range wantKeywords {
		if keywords[i] != wantKeywords[i] {
			t.Errorf("keyword %d = %q, want %q", i, keywords[i], wantKeywords[i])
		}
	}
}

func TestParseCapitalisedKeywordsHeader(t *testing.T) {
	content := "Un Título\nAutores\nAna\nResumen\nCuerpo del resumen.\nPalabras Claves: redes, simulación\n"
	summary, err := Parse(writeTemp(t, content))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if summary.Keywords().Len() != 2 {
		t.Errorf("Keywords().Len() = %d, want 2", summary.Keywords().Len())
	}
}

func TestParseMissingTitle(t *testing.T) {
	content := "\nAutores\nAna\nResumen\ncuerpo\n"
	_, err := Parse(writeTemp(t, content))
	if !errors.Is(err, pkgerrors.ErrMalformedSummary) {
		t.Errorf("Parse() error = %v, want ErrMalformedSummary", err)
	}
}

func TestParseMissingBody(t *testing.T) {
	content := "Título\nAutores\nAna\nPalabras claves: x\n"
	_, err := Parse(writeTemp(t, content))
	if !errors.Is(err, pkgerrors.ErrMalformedSummary) {
		t.Errorf("Parse() error = %v, want ErrMalformedSummary", err)
	}
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope.txt"))
	if !errors.Is(err, pkgerrors.ErrIO) {
		t.Errorf("Parse() error = %v, want ErrIO", err)
	}
}

func TestWriteParseRoundTrip(t *testing.T) {
	original, err := NewSummary(
		"Análisis de Algoritmos de Búsqueda",
		stringList("Luis Ñández", "Eva Martín"),
		"Un análisis comparativo de algoritmos de búsqueda en árboles balanceados.",
		stringList("árboles AVL", "búsqueda", "complejidad"),
	)
	if err != nil {
		t.Fatalf("NewSummary() error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.txt")
	if err := Write(original, path); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	parsed, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse() after Write error: %v", err)
	}

	if parsed.Title() != original.Title() {
		t.Errorf("round-trip title = %q, want %q", parsed.Title(), original.Title())
	}
	if parsed.Body() != original.Body() {
		t.Errorf("round-trip body = %q, want %q", parsed.Body(), original.Body())
	}
	if parsed.Authors().Len() != original.Authors().Len() {
		t.Errorf("round-trip authors count = %d, want %d", parsed.Authors().Len(), original.Authors().Len())
	}
	if parsed.Keywords().Len() != original.Keywords().Len() {
		t.Errorf("round-trip keywords count = %d, want %d", parsed.Keywords().Len(), original.Keywords().Len())
	}
	for a, b := parsed.Keywords().Head(), original.Keywords().Head(); a != nil && b != nil; a, b = a.Next(), b.Next() {
		if a.Data() != b.Data() {
			t.Errorf("round-trip keyword %q, want %q", a.Data(), b.Data())
		}
	}
}
