package loader

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/kotoba/internal/vocab"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "vocab.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_roundTrip(t *testing.T) {
	store := openTestStore(t)

	original, err := vocab.New(
		[]string{"king", "man", "woman"},
		[][]float32{{1, 1, -1}, {0, 1, -1}, {0, 1, 1}},
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(original); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Size() != original.Size() || loaded.Dimensions() != original.Dimensions() {
		t.Fatalf("round trip: Size=%d Dimensions=%d, want %d and %d",
			loaded.Size(), loaded.Dimensions(), original.Size(), original.Dimensions())
	}
	// Insertion order carries the tie-break semantics; it must survive.
	wantKeys := original.Keys()
	gotKeys := loaded.Keys()
	for i := range wantKeys {
		if gotKeys[i] != wantKeys[i] {
			t.Fatalf("key order changed: got %v, want %v", gotKeys, wantKeys)
		}
	}
	for _, key := range wantKeys {
		want, _ := original.Get(key)
		got, err := loaded.Get(key)
		if err != nil {
			t.Fatal(err)
		}
		for d := range want {
			if got[d] != want[d] {
				t.Fatalf("vector for %q changed: got %v, want %v", key, got, want)
			}
		}
	}
}

func TestStore_saveReplaces(t *testing.T) {
	store := openTestStore(t)

	first, _ := vocab.New([]string{"a", "b"}, [][]float32{{1, 0}, {0, 1}})
	if err := store.Save(first); err != nil {
		t.Fatal(err)
	}
	second, _ := vocab.New([]string{"c"}, [][]float32{{1, 1}})
	if err := store.Save(second); err != nil {
		t.Fatal(err)
	}

	n, err := store.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Count = %d after replace, want 1", n)
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Contains("a") || !loaded.Contains("c") {
		t.Errorf("replace left stale words: %v", loaded.Keys())
	}
}

func TestStore_loadEmpty(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Load(); err == nil {
		t.Error("expected error when the store holds no vocabulary")
	}
}

func TestStore_count(t *testing.T) {
	store := openTestStore(t)
	n, err := store.Count()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("Count on fresh store = %d, want 0", n)
	}
}

func TestLoad_autoDetect(t *testing.T) {
	dir := t.TempDir()

	dbPath := filepath.Join(dir, "vocab.db")
	store, err := OpenStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	table, _ := vocab.New([]string{"x"}, [][]float32{{1, 2}})
	if err := store.Save(table); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	loaded, err := Load(dbPath, FormatAuto, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !loaded.Contains("x") {
		t.Errorf("auto-detected sqlite load: got %v", loaded.Keys())
	}
}

func TestLoad_unknownFormat(t *testing.T) {
	_, err := Load("whatever.txt", Format("parquet"), Options{})
	if err == nil || !strings.Contains(err.Error(), "unknown vectors format") {
		t.Errorf("expected unknown format error, got %v", err)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"glove.txt", FormatText},
		{"glove.txt.gz", FormatText},
		{"vocab.db", FormatSQLite},
		{"vocab.SQLITE", FormatSQLite},
		{"vocab.sqlite3", FormatSQLite},
	}
	for _, tt := range tests {
		if got := detectFormat(tt.path); got != tt.want {
			t.Errorf("detectFormat(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}
