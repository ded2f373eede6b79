package vocab

import (
	"fmt"
	"sort"
)

// Table maps unique string keys to fixed-dimensional float32 vectors and
// serves exact similarity queries over them. A Table is built once by New
// and never mutated afterward; it exposes no mutating operations, so
// concurrent reads are safe without locking. The backing matrix is owned
// exclusively by the table.
type Table struct {
	dims  int
	keys  []string
	index map[string]int
	data  []float32 // row-major [len(keys) x dims]
}

// Neighbor is a single ranked hit: a stored key with its similarity score.
type Neighbor struct {
	Key   string  `json:"key"`
	Score float64 `json:"score"`
}

// Neighbors is a ranking ordered by descending score, ties broken by the
// table's insertion order.
type Neighbors []Neighbor

// New builds a table from parallel key and vector slices. All vectors must
// share the dimensionality of the first one, and keys must be unique.
// The rows are copied; callers keep ownership of their slices. An empty
// table is legal: queries on it report ErrEmptyResult or ErrKeyNotFound.
func New(keys []string, vectors [][]float32) (*Table, error) {
	if len(keys) != len(vectors) {
		return nil, fmt.Errorf("keys and vectors length mismatch: %d vs %d", len(keys), len(vectors))
	}
	t := &Table{
		keys:  make([]string, 0, len(keys)),
		index: make(map[string]int, len(keys)),
	}
	if len(vectors) > 0 {
		t.dims = len(vectors[0])
		t.data = make([]float32, 0, len(vectors)*t.dims)
	}
	for i, key := range keys {
		if _, dup := t.index[key]; dup {
			return nil, fmt.Errorf("duplicate key %q at row %d", key, i)
		}
		if len(vectors[i]) != t.dims {
			return nil, fmt.Errorf("row %d (%q): got %d dimensions, expected %d: %w",
				i, key, len(vectors[i]), t.dims, ErrDimensionMismatch)
		}
		t.index[key] = len(t.keys)
		t.keys = append(t.keys, key)
		t.data = append(t.data, vectors[i]...)
	}
	return t, nil
}

// Size returns the number of stored keys.
func (t *Table) Size() int {
	return len(t.keys)
}

// Dimensions returns the fixed vector dimensionality, 0 for an empty table.
func (t *Table) Dimensions() int {
	return t.dims
}

// Contains reports whether key is stored in the table.
func (t *Table) Contains(key string) bool {
	_, ok := t.index[key]
	return ok
}

// Keys returns the stored keys in insertion order. The slice is a copy.
func (t *Table) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Get returns a copy of the vector stored at key, or ErrKeyNotFound.
func (t *Table) Get(key string) ([]float32, error) {
	i, ok := t.index[key]
	if !ok {
		return nil, fmt.Errorf("get %q: %w", key, ErrKeyNotFound)
	}
	vec := make([]float32, t.dims)
	copy(vec, t.row(i))
	return vec, nil
}

// MostSimilar ranks every stored vector by cosine similarity to the vector
// at key and returns the top k, descending. The key itself is a candidate
// (it scores 1.0) unless listed in excluding. Ties keep insertion order.
// k of 0 returns an empty ranking; a negative k is an error.
func (t *Table) MostSimilar(key string, k int, excluding map[string]bool) (Neighbors, error) {
	i, ok := t.index[key]
	if !ok {
		return nil, fmt.Errorf("most similar to %q: %w", key, ErrKeyNotFound)
	}
	if k < 0 {
		return nil, fmt.Errorf("most similar to %q: negative limit %d", key, k)
	}
	if k == 0 {
		return Neighbors{}, nil
	}
	query := t.row(i)
	ranked := make(Neighbors, 0, len(t.keys))
	for j, candidate := range t.keys {
		if excluding[candidate] {
			continue
		}
		ranked = append(ranked, Neighbor{Key: candidate, Score: Cosine(query, t.row(j))})
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].Score > ranked[b].Score })
	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked, nil
}

// ClosestToVector returns the single stored key most similar to vec,
// skipping keys in excluding. Returns ErrDimensionMismatch when vec does
// not match the table's dimensionality, and ErrEmptyResult when the table
// is empty or every key is excluded. On ties the earliest inserted key wins.
func (t *Table) ClosestToVector(vec []float32, excluding map[string]bool) (Neighbor, error) {
	if len(t.keys) == 0 {
		return Neighbor{}, fmt.Errorf("closest to vector: empty table: %w", ErrEmptyResult)
	}
	if len(vec) != t.dims {
		return Neighbor{}, fmt.Errorf("closest to vector: got %d dimensions, expected %d: %w",
			len(vec), t.dims, ErrDimensionMismatch)
	}
	var best Neighbor
	found := false
	for j, key := range t.keys {
		if excluding[key] {
			continue
		}
		score := Cosine(vec, t.row(j))
		if !found || score > best.Score {
			best = Neighbor{Key: key, Score: score}
			found = true
		}
	}
	if !found {
		return Neighbor{}, fmt.Errorf("closest to vector: all keys excluded: %w", ErrEmptyResult)
	}
	return best, nil
}

// Similarity returns the cosine similarity between the vectors stored at
// two keys.
func (t *Table) Similarity(a, b string) (float64, error) {
	i, ok := t.index[a]
	if !ok {
		return 0, fmt.Errorf("similarity %q: %w", a, ErrKeyNotFound)
	}
	j, ok := t.index[b]
	if !ok {
		return 0, fmt.Errorf("similarity %q: %w", b, ErrKeyNotFound)
	}
	return Cosine(t.row(i), t.row(j)), nil
}

// Combine returns the signed sum of stored vectors: the vectors for the
// add keys summed, minus the vectors for the subtract keys. Accumulation
// is in float64, rounded back to float32 at the end.
func (t *Table) Combine(add, subtract []string) ([]float32, error) {
	if len(add) == 0 && len(subtract) == 0 {
		return nil, fmt.Errorf("combine: no terms")
	}
	acc := make([]float64, t.dims)
	for _, key := range add {
		i, ok := t.index[key]
		if !ok {
			return nil, fmt.Errorf("combine %q: %w", key, ErrKeyNotFound)
		}
		for d, v := range t.row(i) {
			acc[d] += float64(v)
		}
	}
	for _, key := range subtract {
		i, ok := t.index[key]
		if !ok {
			return nil, fmt.Errorf("combine %q: %w", key, ErrKeyNotFound)
		}
		for d, v := range t.row(i) {
			acc[d] -= float64(v)
		}
	}
	out := make([]float32, t.dims)
	for d, v := range acc {
		out[d] = float32(v)
	}
	return out, nil
}

// Analogy answers "a is to b as ? is to c" by the linear-offset method:
// it computes x = vector(a) - vector(b) + vector(c) and returns the stored
// key closest to x. The three input keys are excluded from the result,
// since they are near-guaranteed degenerate matches. Note the operation is
// not symmetric: Analogy(a, b, c) and Analogy(c, b, a) may disagree.
func (t *Table) Analogy(a, b, c string) (Neighbor, error) {
	return t.AnalogyExcluding(a, b, c, map[string]bool{a: true, b: true, c: true})
}

// AnalogyExcluding is Analogy with a caller-supplied exclusion set instead
// of the default {a, b, c}. An empty set permits the inputs themselves to
// be returned.
func (t *Table) AnalogyExcluding(a, b, c string, excluding map[string]bool) (Neighbor, error) {
	offset, err := t.Combine([]string{a, c}, []string{b})
	if err != nil {
		return Neighbor{}, err
	}
	return t.ClosestToVector(offset, excluding)
}

func (t *Table) row(i int) []float32 {
	return t.data[i*t.dims : (i+1)*t.dims]
}
