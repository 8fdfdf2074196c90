package archive

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"José García", "jose garcia"},
		{"JOSE GARCIA", "jose garcia"},
		{"Año", "ano"},
		{"ÁRBOL", "arbol"},
		{"búsqueda heurística", "busqueda heuristica"},
		{"already plain", "already plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeAgreesAcrossSpellings(t *testing.T) {
	if Normalize("José García") != Normalize("JOSE GARCIA") {
		t.Error("accented and plain spellings must normalize identically")
	}
}
