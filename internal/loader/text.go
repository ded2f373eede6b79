// Package loader materializes word-vector vocabularies from external
// sources into an immutable vocab.Table. The table itself has no file
// format; everything here is the loading collaborator in front of it.
package loader

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/kotoba/internal/vocab"
	"github.com/hyperjump/kotoba/pkg/utils"
)

// Options controls text vocabulary parsing.
type Options struct {
	// Dimensions pins the expected vector width; 0 infers it from the
	// first data row (or the word2vec header when present).
	Dimensions int
	// MaxWords caps the number of words loaded; 0 means unlimited.
	MaxWords int
	// Normalize L2-normalizes every vector on load.
	Normalize bool
	// Logger receives progress and skip diagnostics; nil disables logging.
	Logger *zap.Logger
}

// maxLineSize bounds a single vector line; 3000 dims at ~12 bytes per
// component stays well under this.
const maxLineSize = 4 * 1024 * 1024

// LoadText parses a whitespace-separated vector file (GloVe style: one
// "word f1 ... fD" record per line). A word2vec text header line holding
// exactly two integers ("count dims") is detected and consumed. Files
// ending in .gz are decompressed transparently. A row whose width
// disagrees with the established dimensionality fails fast with its line
// number. Duplicate words keep their first occurrence.
func LoadText(path string, opts Options) (*vocab.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vectors file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip vectors file: %w", err)
		}
		defer gz.Close()
		r = gz
	}
	return ParseText(r, opts)
}

// ParseText parses vector records from r. See LoadText for the format.
func ParseText(r io.Reader, opts Options) (*vocab.Table, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	dims := opts.Dimensions
	var keys []string
	var vectors [][]float32
	seen := make(map[string]bool)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if line == 1 {
			if count, headerDims, ok := word2vecHeader(fields); ok {
				if dims == 0 {
					dims = headerDims
				}
				keys = make([]string, 0, count)
				vectors = make([][]float32, 0, count)
				continue
			}
		}
		word := fields[0]
		values := fields[1:]
		if dims == 0 {
			dims = len(values)
		}
		if len(values) != dims {
			return nil, fmt.Errorf("line %d (%q): got %d dimensions, expected %d: %w",
				line, word, len(values), dims, vocab.ErrDimensionMismatch)
		}
		if seen[word] {
			logger.Debug("skipping duplicate word", zap.String("word", word), zap.Int("line", line))
			continue
		}
		vec := make([]float32, dims)
		for i, s := range values {
			v, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d (%q): component %d: %w", line, word, i, err)
			}
			vec[i] = float32(v)
		}
		if opts.Normalize {
			utils.NormalizeL2(vec)
		}
		seen[word] = true
		keys = append(keys, word)
		vectors = append(vectors, vec)
		if opts.MaxWords > 0 && len(keys) >= opts.MaxWords {
			logger.Debug("reached max words", zap.Int("max_words", opts.MaxWords))
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vectors: %w", err)
	}
	return vocab.New(keys, vectors)
}

// word2vecHeader reports whether fields form a word2vec text header:
// exactly two positive integers, vocabulary count then dimensionality.
func word2vecHeader(fields []string) (count, dims int, ok bool) {
	if len(fields) != 2 {
		return 0, 0, false
	}
	count, err := strconv.Atoi(fields[0])
	if err != nil || count <= 0 {
		return 0, 0, false
	}
	dims, err = strconv.Atoi(fields[1])
	if err != nil || dims <= 0 {
		return 0, 0, false
	}
	return count, dims, true
}
