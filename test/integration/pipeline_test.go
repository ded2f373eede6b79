// Package integration exercises the full pipeline: parse a text vector
// file, cache it in the SQLite store, reload, and query.
package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/kotoba/internal/loader"
	"github.com/hyperjump/kotoba/internal/suggest"
)

const vectorsFile = `king 1.0 1.0 1.0 -1.0
man 0.0 1.0 0.0 -1.0
woman 0.0 1.0 0.0 1.0
queen 1.0 1.0 1.0 1.0
horse 0.0 0.0 0.0 1.0
`

func TestIntegration_importAndQuery(t *testing.T) {
	dir := t.TempDir()
	textPath := filepath.Join(dir, "vectors.txt")
	if err := os.WriteFile(textPath, []byte(vectorsFile), 0600); err != nil {
		t.Fatal(err)
	}

	// Import: text file into the store.
	parsed, err := loader.LoadText(textPath, loader.Options{})
	if err != nil {
		t.Fatal(err)
	}
	storePath := filepath.Join(dir, "vocab.db")
	store, err := loader.OpenStore(storePath)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(parsed); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	// Reload through the front door with auto-detection.
	table, err := loader.Load(storePath, loader.FormatAuto, loader.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if table.Size() != 5 || table.Dimensions() != 4 {
		t.Fatalf("reloaded table: Size=%d Dimensions=%d", table.Size(), table.Dimensions())
	}

	// Neighbors: the word itself ranks first at similarity 1.
	neighbors, err := table.MostSimilar("king", 3, nil)
	if err != nil {
		t.Fatal(err)
	}
	if neighbors[0].Key != "king" || neighbors[0].Score != 1.0 {
		t.Errorf("top neighbor = %+v, want king at 1.0", neighbors[0])
	}

	// Analogy across the store round trip.
	match, err := table.Analogy("king", "man", "woman")
	if err != nil {
		t.Fatal(err)
	}
	if match.Key != "queen" {
		t.Errorf("king - man + woman = %q, want queen", match.Key)
	}

	// Unknown-word suggestions over the loaded vocabulary.
	sg := suggest.New(table.Keys())
	if near := sg.Suggest("quen"); len(near) == 0 || near[0] != "queen" {
		t.Errorf("Suggest(quen) = %v, want queen first", near)
	}
}
