package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rcastillo-dev/paper-archive-platform/internal/analysis"
	"github.com/rcastillo-dev/paper-archive-platform/internal/archive"
	"github.com/rcastillo-dev/paper-archive-platform/internal/paper"
	"github.com/rcastillo-dev/paper-archive-platform/pkg/collation"
)

const sampleSummary = `Optimización de Consultas Distribuidas

Autores
José García, María López

Resumen
Las redes de consultas distribuidas requieren optimización. La optimización
reduce la latencia de las redes.

Palabras claves: redes, optimización, bases de datos.
`

const secondSummary = `Clasificación de Texto con Redes Neuronales

Autores
María López

Resumen
La clasificación automática de texto usa redes neuronales profundas.

Palabras claves: redes neuronales, clasificación.
`

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()

	dataDir := filepath.Join(t.TempDir(), "resumenes")
	store, err := paper.NewFileStore(dataDir, ".txt")
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	for name, content := range map[string]string{"a.txt": sampleSummary, "b.txt": secondSummary} {
		if err := os.WriteFile(filepath.Join(dataDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("seeding data dir: %v", err)
		}
	}

	repo := archive.NewRepository(store, paper.Parse, collation.NewSpanish())
	if _, _, err := repo.LoadAll(t.Context()); err != nil {
		t.Fatalf("LoadAll() error: %v", err)
	}

	h := New(repo, analysis.New(repo), nil, nil, nil)
	mux := http.NewServeMux()
	h.Register(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, dataDir
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decoding response from %s: %v", url, err)
	}
	return resp.StatusCode
}

func TestGetSummaryIgnoresCaseAndAccents(t *testing.T) {
	srv, _ := newTestServer(t)

	var got summaryPayload
	status := getJSON(t, srv.URL+"/api/v1/summaries/OPTIMIZACION%20de%20consultas%20distribuidas", &got)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if got.Title != "Optimización de Consultas Distribuidas" {
		t.Errorf("title = %q", got.Title)
	}
	if len(got.Authors) != 2 || len(got.Keywords) != 3 {
		t.Errorf("authors = %v, keywords = %v", got.Authors, got.Keywords)
	}
}

func TestGetSummaryNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	var body map[string]string
	status := getJSON(t, srv.URL+"/api/v1/summaries/no%20existe", &body)
	if status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
	if body["error"] == "" {
		t.Error("expected an error message in the body")
	}
}

func TestListSummariesSortedTitles(t *testing.T) {
	srv, _ := newTestServer(t)

	var body struct {
		Titles []string `json:"titles"`
		Count  int      `json:"count"`
	}
	if status := getJSON(t, srv.URL+"/api/v1/summaries", &body); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if body.Count != 2 || len(body.Titles) != 2 {
		t.Fatalf("count = %d, titles = %v", body.Count, body.Titles)
	}
	if body.Titles[0] != "Clasificación de Texto con Redes Neuronales" {
		t.Errorf("titles not sorted: %v", body.Titles)
	}
}

func TestSearchByAuthor(t *testing.T) {
	srv, _ := newTestServer(t)

	var body struct {
		Summaries []summaryPayload `json:"summaries"`
		Count     int              `json:"count"`
	}
	getJSON(t, srv.URL+"/api/v1/authors?q=maria+lopez", &body)
	if body.Count != 2 {
		t.Errorf("count = %d, want 2 (author appears in both summaries)", body.Count)
	}

	var empty struct {
		Count int `json:"count"`
	}
	status := getJSON(t, srv.URL+"/api/v1/authors?q=nadie", &empty)
	if status != http.StatusOK || empty.Count != 0 {
		t.Errorf("unknown author: status = %d, count = %d, want 200 and 0", status, empty.Count)
	}
}

func TestKeywordFrequency(t *testing.T) {
	srv, _ := newTestServer(t)

	var body struct {
		Keyword   string `json:"keyword"`
		Frequency int    `json:"frequency"`
	}
	getJSON(t, srv.URL+"/api/v1/keywords/REDES/frequency", &body)
	if body.Frequency != 1 {
		t.Errorf("frequency = %d, want 1", body.Frequency)
	}
}

func TestAddSummaryAndDuplicate(t *testing.T) {
	srv, _ := newTestServer(t)

	source := filepath.Join(t.TempDir(), "nuevo.txt")
	content := "Minería de Datos Educativos\nAutores\nEva Ruiz\nResumen\nUn estudio de minería de datos.\nPalabras claves: minería, educación\n"
	if err := os.WriteFile(source, []byte(content), 0o644); err != nil {
		t.Fatalf("writing source file: %v", err)
	}

	payload, _ := json.Marshal(addRequest{SourcePath: source})
	resp, err := http.Post(srv.URL+"/api/v1/summaries", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/api/v1/summaries", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("second POST error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", resp.StatusCode)
	}

	var stats map[string]int
	getJSON(t, srv.URL+"/api/v1/archive/stats", &stats)
	if stats["summaries"] != 3 {
		t.Errorf("summaries after add = %d, want 3", stats["summaries"])
	}
}

func TestAddSummaryBadRequest(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/summaries", "application/json", bytes.NewReader([]byte("{}")))
	if err != nil {
		t.Fatalf("POST error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	var result analysis.Result
	status := getJSON(t, srv.URL+"/api/v1/analyze?title=optimizacion+de+consultas+distribuidas", &result)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	counts := map[string]int{}
	for _, f := range result.Frequencies {
		counts[f.Keyword] = f.Count
	}
	if counts["redes"] != 2 {
		t.Errorf("count for 'redes' = %d, want 2", counts["redes"])
	}

	status = getJSON(t, srv.URL+"/api/v1/analyze", &struct{}{})
	if status != http.StatusBadRequest {
		t.Errorf("missing title: status = %d, want 400", status)
	}
}

func TestReloadEndpoint(t *testing.T) {
	srv, dataDir := newTestServer(t)

	extra := "Robótica Educativa\nAutores\nIván Soto\nResumen\nAplicaciones de la robótica en el aula.\nPalabras claves: robótica\n"
	if err := os.WriteFile(filepath.Join(dataDir, "c.txt"), []byte(extra), 0o644); err != nil {
		t.Fatalf("writing extra file: %v", err)
	}

	resp, err := http.Post(srv.URL+"/api/v1/summaries/reload", "application/json", nil)
	if err != nil {
		t.Fatalf("POST reload error: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]int
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding reload response: %v", err)
	}
	if body["loaded"] != 3 {
		t.Errorf("loaded = %d, want 3", body["loaded"])
	}
}
