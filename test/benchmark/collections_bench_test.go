// Package benchmark contains Go benchmarks for the archive's collections,
// key normalization, and repository lookups, measuring throughput and
// allocation behaviour.
package benchmark

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/rcastillo-dev/paper-archive-platform/internal/collections"
)

// BenchmarkTreeMapPut measures insert throughput into the balanced tree at
// various pre-loaded sizes.
func BenchmarkTreeMapPut(b *testing.B) {
	sizes := []int{100, 1000, 10000}
	for _, preload := range sizes {
		b.Run(fmt.Sprintf("preload_%d", preload), func(b *testing.B) {
			tree := collections.NewTreeMap[string, int](strings.Compare)
			for i := 0; i < preload; i++ {
				tree.Put(fmt.Sprintf("key-%06d", i), i)
			}

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				tree.Put(fmt.Sprintf("bench-%06d", i), i)
			}
		})
	}
}

// BenchmarkTreeMapGet measures lookup latency over 10 000 keys.
func BenchmarkTreeMapGet(b *testing.B) {
	tree := collections.NewTreeMap[string, int](strings.Compare)
	for i := 0; i < 10000; i++ {
		tree.Put(fmt.Sprintf("key-%06d", i), i)
	}

	rng := rand.New(rand.NewSource(1))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := fmt.Sprintf("key-%06d", rng.Intn(10000))
		if _, ok := tree.Get(key); !ok {
			b.Fatalf("missing key %s", key)
		}
	}
}

// BenchmarkTreeMapKeys measures the cost of an in-order listing, the hot
// path behind the sorted author and keyword endpoints.
func BenchmarkTreeMapKeys(b *testing.B) {
	tree := collections.NewTreeMap[string, int](strings.Compare)
	for i := 0; i < 10000; i++ {
		tree.Put(fmt.Sprintf("key-%06d", i), i)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		keys := tree.Keys()
		_ = keys
	}
}

// BenchmarkHashMapPut measures insert throughput including resizes.
func BenchmarkHashMapPut(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		m := collections.NewStringMap[int]()
		for j := 0; j < 1000; j++ {
			m.Put(fmt.Sprintf("key-%06d", j), j)
		}
	}
}

// BenchmarkHashMapGet measures lookup latency over 10 000 keys.
func BenchmarkHashMapGet(b *testing.B) {
	m := collections.NewStringMap[int]()
	for i := 0; i < 10000; i++ {
		m.Put(fmt.Sprintf("key-%06d", i), i)
	}

	rng := rand.New(rand.NewSource(1))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := fmt.Sprintf("key-%06d", rng.Intn(10000))
		if _, ok := m.Get(key); !ok {
			b.Fatalf("missing key %s", key)
		}
	}
}

// BenchmarkStringHash measures the string hashing function alone.
func BenchmarkStringHash(b *testing.B) {
	keys := make([]string, 256)
	for i := range keys {
		keys[i] = fmt.Sprintf("optimizacion de consultas distribuidas %d", i)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = collections.StringHash(keys[i%len(keys)])
	}
}
