package loader

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kotoba/internal/vocab"
)

// Format names a vocabulary source format.
type Format string

const (
	// FormatAuto picks the format from the file extension.
	FormatAuto Format = "auto"
	// FormatText is a whitespace-separated vector file (GloVe or word2vec
	// text), optionally gzipped.
	FormatText Format = "text"
	// FormatSQLite is a vocabulary store produced by Store.Save.
	FormatSQLite Format = "sqlite"
)

// Load materializes a vocabulary table from path in the given format.
// FormatAuto treats .db, .sqlite and .sqlite3 files as stores and
// everything else as text.
func Load(path string, format Format, opts Options) (*vocab.Table, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if format == FormatAuto || format == "" {
		format = detectFormat(path)
	}

	start := time.Now()
	var table *vocab.Table
	var err error
	switch format {
	case FormatText:
		table, err = LoadText(path, opts)
	case FormatSQLite:
		var store *Store
		store, err = OpenStore(path)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		table, err = store.Load()
	default:
		return nil, fmt.Errorf("unknown vectors format: %s (supported: auto, text, sqlite)", format)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("vocabulary loaded",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("words", table.Size()),
		zap.Int("dimensions", table.Dimensions()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return table, nil
}

func detectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatText
	}
}
