package suggest

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Suggester finds vocabulary words close to a misspelled query word.
// It is built once over the vocabulary's key list and is read-only
// afterwards.
type Suggester struct {
	words          []string
	runeLens       []int
	known          map[string]bool
	maxDistance    int
	maxSuggestions int
}

// Option configures a Suggester.
type Option func(*Suggester)

// WithMaxDistance sets the maximum edit distance for suggestions.
func WithMaxDistance(d int) Option {
	return func(s *Suggester) {
		if d > 0 {
			s.maxDistance = d
		}
	}
}

// WithMaxSuggestions sets the maximum number of suggestions returned.
func WithMaxSuggestions(n int) Option {
	return func(s *Suggester) {
		if n > 0 {
			s.maxSuggestions = n
		}
	}
}

// New creates a Suggester over the given vocabulary words. The word order
// is kept; on equal distance the earlier word ranks first.
func New(words []string, opts ...Option) *Suggester {
	s := &Suggester{
		words:          words,
		runeLens:       make([]int, len(words)),
		known:          make(map[string]bool, len(words)),
		maxDistance:    2,
		maxSuggestions: 3,
	}
	for i, w := range words {
		s.runeLens[i] = utf8.RuneCountInString(w)
		s.known[strings.ToLower(w)] = true
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Suggest returns up to maxSuggestions vocabulary words within maxDistance
// Damerau-Levenshtein edits of word, nearest first. A word that is already
// in the vocabulary yields no suggestions.
func (s *Suggester) Suggest(word string) []string {
	lower := strings.ToLower(word)
	if s.known[lower] {
		return nil
	}

	type candidate struct {
		word     string
		distance int
	}
	var candidates []candidate
	wordLen := utf8.RuneCountInString(word)
	for i, w := range s.words {
		// A cheap length check skips most of the vocabulary before the
		// quadratic distance computation. Lengths are in runes, like the
		// distance metric.
		if abs(s.runeLens[i]-wordLen) > s.maxDistance {
			continue
		}
		d := DamerauLevenshteinDistance(lower, strings.ToLower(w))
		if d <= s.maxDistance {
			candidates = append(candidates, candidate{word: w, distance: d})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})
	if len(candidates) > s.maxSuggestions {
		candidates = candidates[:s.maxSuggestions]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.word
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
