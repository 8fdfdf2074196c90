package collation

import "testing"

func TestCompareIgnoresCaseAndAccents(t *testing.T) {
	cmp := NewSpanish()

	if cmp.Compare("Árbol", "arbol") != 0 {
		t.Error(`Compare("Árbol", "arbol") should be 0`)
	}
	if cmp.Compare("JOSÉ", "jose") != 0 {
		t.Error(`Compare("JOSÉ", "jose") should be 0`)
	}
	if cmp.Compare("algoritmo", "base") >= 0 {
		t.Error(`"algoritmo" should sort before "base"`)
	}
}

func TestSortStrings(t *testing.T) {
	cmp := NewSpanish()
	titles := []string{"Zorros", "Análisis", "búsqueda", "algoritmos"}
	cmp.SortStrings(titles)

	want := []string{"algoritmos", "Análisis", "búsqueda", "Zorros"}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("sorted[%d] = %q, want %q (full: %v)", i, titles[i], want[i], titles)
		}
	}
}
