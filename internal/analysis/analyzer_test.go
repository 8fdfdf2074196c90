package analysis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rcastillo-dev/paper-archive-platform/internal/archive"
	"github.com/rcastillo-dev/paper-archive-platform/internal/paper"
	"github.com/rcastillo-dev/paper-archive-platform/pkg/collation"
	pkgerrors "github.com/rcastillo-dev/paper-archive-platform/pkg/errors"
)

func loadedRepo(t *testing.T) *archive.Repository {
	t.Helper()
	dir := t.TempDir()

	content := `Clasificación de Texto
Autores
María López
Resumen
La clasificación de texto usa redes neuronales. Las redes aprenden
representaciones y las redes generalizan.
Palabras claves: redes, clasificación, texto.
`
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	store, err := paper.NewFileStore(dir, ".txt")
	if err != nil {
		t.Fatal(err)
	}
	repo := archive.NewRepository(store, paper.Parse, collation.NewSpanish())
	if _, _, err := repo.LoadAll(context.Background()); err != nil {
		t.Fatal(err)
	}
	return repo
}

func TestAnalyzeByTitleCountsKeywords(t *testing.T) {
	analyzer := New(loadedRepo(t))

	result, err := analyzer.AnalyzeByTitle("clasificacion de texto")
	if err != nil {
		t.Fatalf("AnalyzeByTitle() error: %v", err)
	}

	if result.Title != "Clasificación de Texto" {
		t.Errorf("Title = %q", result.Title)
	}
	if len(result.Authors) != 1 || result.Authors[0] != "María López" {
		t.Errorf("Authors = %v", result.Authors)
	}

	counts := map[string]int{}
	for _, f := range result.Frequencies {
		counts[f.Keyword] = f.Count
	}
	// "redes" appears three times in the body; matching ignores accents, so
	// "clasificación" matches "clasificacion" in the normalized body.
	if counts["redes"] != 3 {
		t.Errorf("count(redes) = %d, want 3", counts["redes"])
	}
	if counts["clasificación"] != 1 {
		t.Errorf("count(clasificación) = %d, want 1", counts["clasificación"])
	}
	if counts["texto"] != 1 {
		t.Errorf("count(texto) = %d, want 1", counts["texto"])
	}
}

func TestAnalyzeByTitleUnknown(t *testing.T) {
	analyzer := New(loadedRepo(t))
	if _, err := analyzer.AnalyzeByTitle("inexistente"); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Errorf("AnalyzeByTitle(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestAnalyzeNilSummary(t *testing.T) {
	analyzer := New(loadedRepo(t))
	if _, err := analyzer.Analyze(nil); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Errorf("Analyze(nil) error = %v, want ErrInvalidArgument", err)
	}
}
