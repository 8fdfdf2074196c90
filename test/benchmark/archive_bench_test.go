package benchmark

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rcastillo-dev/paper-archive-platform/internal/archive"
	"github.com/rcastillo-dev/paper-archive-platform/internal/paper"
	"github.com/rcastillo-dev/paper-archive-platform/pkg/collation"
)

// BenchmarkNormalize measures accent stripping and case folding, the hot
// path in front of every index operation.
func BenchmarkNormalize(b *testing.B) {
	inputs := []string{
		"Optimización de Consultas en Bases de Datos Distribuidas",
		"José García",
		"clasificación automática",
		"plain ascii title with no accents at all",
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = archive.Normalize(inputs[i%len(inputs)])
	}
}

// BenchmarkCollatorCompare measures locale-aware ordering, used when listing
// titles.
func BenchmarkCollatorCompare(b *testing.B) {
	cmp := collation.NewSpanish()
	pairs := [][2]string{
		{"Análisis de Algoritmos", "Optimización de Consultas"},
		{"ñandú", "nube"},
		{"Redes Neuronales", "redes neuronales"},
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := pairs[i%len(pairs)]
		_ = cmp.Compare(p[0], p[1])
	}
}

func seedCorpus(b *testing.B, dir string, n int) {
	b.Helper()
	for i := 0; i < n; i++ {
		content := fmt.Sprintf(
			"Estudio Número %d sobre Sistemas Distribuidos\nAutores\nAutor %d, María López\nResumen\nCuerpo del resumen número %d sobre redes y optimización.\nPalabras claves: redes, optimización, estudio %d\n",
			i, i%10, i, i,
		)
		path := filepath.Join(dir, fmt.Sprintf("resumen_%04d.txt", i))
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			b.Fatalf("seeding corpus: %v", err)
		}
	}
}

func loadedRepository(b *testing.B, n int) *archive.Repository {
	b.Helper()
	dir := b.TempDir()
	store, err := paper.NewFileStore(dir, ".txt")
	if err != nil {
		b.Fatalf("NewFileStore: %v", err)
	}
	seedCorpus(b, dir, n)

	repo := archive.NewRepository(store, paper.Parse, collation.NewSpanish())
	if _, _, err := repo.LoadAll(context.Background()); err != nil {
		b.Fatalf("LoadAll: %v", err)
	}
	return repo
}

// BenchmarkRepositoryLoadAll measures full corpus loads at various sizes.
func BenchmarkRepositoryLoadAll(b *testing.B) {
	sizes := []int{50, 200, 1000}
	for _, n := range sizes {
		b.Run(fmt.Sprintf("files_%d", n), func(b *testing.B) {
			dir := b.TempDir()
			store, err := paper.NewFileStore(dir, ".txt")
			if err != nil {
				b.Fatalf("NewFileStore: %v", err)
			}
			seedCorpus(b, dir, n)
			repo := archive.NewRepository(store, paper.Parse, collation.NewSpanish())

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, _, err := repo.LoadAll(context.Background()); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkRepositoryFindByTitle measures the hash index lookup, including
// key normalization of the query.
func BenchmarkRepositoryFindByTitle(b *testing.B) {
	repo := loadedRepository(b, 1000)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		title := fmt.Sprintf("ESTUDIO NÚMERO %d SOBRE SISTEMAS DISTRIBUIDOS", i%1000)
		if _, err := repo.FindByTitle(title); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRepositorySummariesByKeyword measures the tree index lookup.
func BenchmarkRepositorySummariesByKeyword(b *testing.B) {
	repo := loadedRepository(b, 1000)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		results := repo.SummariesByKeyword("redes")
		if results.IsEmpty() {
			b.Fatal("expected results for 'redes'")
		}
	}
}
