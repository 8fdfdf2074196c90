// Command seedcorpus generates sample summary files for local development
// and load testing. Titles, authors, and keywords are drawn from small pools
// so the resulting corpus exercises shared authors and repeated keywords.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/rcastillo-dev/paper-archive-platform/internal/collections"
	"github.com/rcastillo-dev/paper-archive-platform/internal/paper"
)

var topics = []string{
	"Optimización de Consultas Distribuidas",
	"Clasificación de Texto con Redes Neuronales",
	"Análisis de Sentimientos en Redes Sociales",
	"Compresión de Señales Biomédicas",
	"Detección de Anomalías en Series Temporales",
	"Planificación de Rutas con Algoritmos Genéticos",
	"Reconocimiento de Voz en Español",
	"Minería de Datos Educativos",
	"Simulación de Tráfico Urbano",
	"Visión Artificial para Agricultura de Precisión",
	"Criptografía Ligera para Dispositivos Embebidos",
	"Procesamiento de Lenguaje Natural Clínico",
}

var authors = []string{
	"José García", "María López", "Pedro Sánchez", "Ana Martín",
	"Luis Ñández", "Carmen Ruiz", "Iván Soto", "Lucía Díaz",
	"Andrés Peña", "Elena Muñoz",
}

var keywords = []string{
	"redes neuronales", "optimización", "bases de datos", "clasificación",
	"minería de datos", "algoritmos genéticos", "señales", "simulación",
	"visión artificial", "criptografía", "lenguaje natural", "anomalías",
}

var sentences = []string{
	"Este trabajo presenta un estudio experimental sobre %s.",
	"Se propone un método novedoso aplicado a %s.",
	"Los resultados muestran mejoras significativas en %s.",
	"Se evalúa el rendimiento del enfoque sobre un conjunto de datos real de %s.",
	"La técnica propuesta reduce el costo computacional asociado a %s.",
}

func main() {
	outDir := flag.String("out", "data/resumenes", "directory to write summary files into")
	count := flag.Int("count", 10, "number of summaries to generate")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	if *count > len(topics) {
		fmt.Fprintf(os.Stderr, "count %d exceeds the %d available topics\n", *count, len(topics))
		os.Exit(1)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "creating output directory: %v\n", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(*seed))

	for i := 0; i < *count; i++ {
		summary, err := generate(rng, topics[i])
		if err != nil {
			fmt.Fprintf(os.Stderr, "generating summary %d: %v\n", i, err)
			os.Exit(1)
		}

		path := filepath.Join(*outDir, fmt.Sprintf("resumen_%03d.txt", i+1))
		if err := paper.Write(summary, path); err != nil {
			fmt.Fprintf(os.Stderr, "writing %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s (%s)\n", path, summary.Title())
	}

	fmt.Printf("generated %d summaries in %s\n", *count, *outDir)
}

func generate(rng *rand.Rand, title string) (*paper.Summary, error) {
	kws := pick(rng, keywords, 2+rng.Intn(3))

	var body []string
	for _, s := range pick(rng, sentences, 2+rng.Intn(2)) {
		body = append(body, fmt.Sprintf(s, kws[rng.Intn(len(kws))]))
	}

	return paper.NewSummary(
		title,
		toList(pick(rng, authors, 1+rng.Intn(3))),
		strings.Join(body, " "),
		toList(kws),
	)
}

// pick returns n distinct elements of pool in shuffled order.
func pick(rng *rand.Rand, pool []string, n int) []string {
	idx := rng.Perm(len(pool))
	out := make([]string, 0, n)
	for _, i := range idx[:n] {
		out = append(out, pool[i])
	}
	return out
}

func toList(values []string) *collections.List[string] {
	list := collections.NewList(collections.Equal[string]())
	for _, v := range values {
		list.Add(v)
	}
	return list
}
