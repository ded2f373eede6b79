package benchmark

import (
	"fmt"
	"testing"

	"github.com/hyperjump/kotoba/internal/vocab"
)

func buildTable(b *testing.B, words, dims int) *vocab.Table {
	b.Helper()
	keys := make([]string, words)
	vectors := make([][]float32, words)
	for i := 0; i < words; i++ {
		keys[i] = fmt.Sprintf("word%05d", i)
		vec := make([]float32, dims)
		for d := 0; d < dims; d++ {
			vec[d] = float32((i*31+d*7)%97) / 97
		}
		vectors[i] = vec
	}
	table, err := vocab.New(keys, vectors)
	if err != nil {
		b.Fatal(err)
	}
	return table
}

func BenchmarkMostSimilar(b *testing.B) {
	table := buildTable(b, 10000, 300)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := table.MostSimilar("word00000", 10, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkClosestToVector(b *testing.B) {
	table := buildTable(b, 10000, 300)
	query, err := table.Get("word00042")
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := table.ClosestToVector(query, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAnalogy(b *testing.B) {
	table := buildTable(b, 10000, 300)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := table.Analogy("word00001", "word00002", "word00003"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCosine(b *testing.B) {
	x := make([]float32, 300)
	y := make([]float32, 300)
	for i := range x {
		x[i] = float32(i) / 300
		y[i] = float32(300-i) / 300
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = vocab.Cosine(x, y)
	}
}
