// Package cli renders query results for humans and machines.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/kotoba/internal/vocab"
)

// OutputFormat is the format for result output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
	// OutputCompact is one "key score" pair per line, for piping.
	OutputCompact OutputFormat = "compact"
)

// ParseFormat maps a format name to an OutputFormat.
func ParseFormat(name string) (OutputFormat, error) {
	switch name {
	case "text", "":
		return OutputText, nil
	case "json":
		return OutputJSON, nil
	case "compact":
		return OutputCompact, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text, compact, or json", name)
	}
}

// NeighborsReport is the result of a nearest-neighbor query.
type NeighborsReport struct {
	Word      string          `json:"word"`
	K         int             `json:"k"`
	Excluded  []string        `json:"excluded,omitempty"`
	QueryTime int64           `json:"query_time_ms"`
	Neighbors vocab.Neighbors `json:"neighbors"`
}

// AnalogyReport is the result of an analogy or arithmetic query.
type AnalogyReport struct {
	Positive  []string       `json:"positive"`
	Negative  []string       `json:"negative"`
	Match     vocab.Neighbor `json:"match"`
	QueryTime int64          `json:"query_time_ms"`
}

// WriteNeighbors writes a neighbors report to w in the given format.
func WriteNeighbors(w io.Writer, report *NeighborsReport, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case OutputCompact:
		for _, n := range report.Neighbors {
			fmt.Fprintf(w, "%s\t%.6f\n", n.Key, n.Score)
		}
		return nil
	default:
		fmt.Fprintf(w, "\nNearest %d to %q (%dms)\n\n", len(report.Neighbors), report.Word, report.QueryTime)
		for i, n := range report.Neighbors {
			fmt.Fprintf(w, "%3d. %-24s %.4f\n", i+1, n.Key, n.Score)
		}
		fmt.Fprintln(w)
		return nil
	}
}

// WriteAnalogy writes an analogy report to w in the given format.
func WriteAnalogy(w io.Writer, report *AnalogyReport, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case OutputCompact:
		fmt.Fprintf(w, "%s\t%.6f\n", report.Match.Key, report.Match.Score)
		return nil
	default:
		fmt.Fprintf(w, "\n%s = %q (score %.4f, %dms)\n\n",
			formatExpression(report.Positive, report.Negative),
			report.Match.Key, report.Match.Score, report.QueryTime)
		return nil
	}
}

// WriteVectors streams (key, vector) pairs from the table as a JSON array,
// the handoff format for downstream 2-D projection and plotting consumers.
// A limit of 0 exports every key.
func WriteVectors(w io.Writer, table *vocab.Table, limit int) error {
	keys := table.Keys()
	if limit > 0 && limit < len(keys) {
		keys = keys[:limit]
	}

	type entry struct {
		Key    string    `json:"key"`
		Vector []float32 `json:"vector"`
	}
	if _, err := io.WriteString(w, "[\n"); err != nil {
		return err
	}
	for i, key := range keys {
		vec, err := table.Get(key)
		if err != nil {
			return err
		}
		if i > 0 {
			if _, err := io.WriteString(w, ",\n"); err != nil {
				return err
			}
		}
		line, err := json.Marshal(entry{Key: key, Vector: vec})
		if err != nil {
			return err
		}
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n]\n")
	return err
}

// formatExpression renders a signed word sum like "king - man + woman".
func formatExpression(positive, negative []string) string {
	var sb strings.Builder
	for i, p := range positive {
		if i == 0 {
			sb.WriteString(p)
			continue
		}
		sb.WriteString(" + ")
		sb.WriteString(p)
	}
	for _, n := range negative {
		sb.WriteString(" - ")
		sb.WriteString(n)
	}
	return sb.String()
}
