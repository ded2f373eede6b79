// Package main is the kotoba CLI entry point: loads a precomputed
// word-vector vocabulary and answers similarity and analogy queries
// against it.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kotoba/internal/cli"
	"github.com/hyperjump/kotoba/internal/config"
	"github.com/hyperjump/kotoba/internal/loader"
	"github.com/hyperjump/kotoba/internal/suggest"
	"github.com/hyperjump/kotoba/internal/vocab"
	"github.com/hyperjump/kotoba/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kotoba/config.yaml"

// loadConfig loads config from path. When path is the default, it first
// looks for config.yaml in the current directory (for development); if that
// exists it is used. Returns the config and the path that was actually
// loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "neighbors":
		runNeighbors()
	case "analogy":
		runAnalogy()
	case "closest":
		runClosest()
	case "similarity":
		runSimilarity()
	case "import":
		runImport()
	case "export":
		runExport()
	case "info":
		runInfo()
	case "version", "--version", "-v":
		fmt.Printf("kotoba version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`kotoba - word-vector exploration

Usage:
  kotoba neighbors <word>          nearest neighbors by cosine similarity
  kotoba analogy <a> <b> <c>       a - b + c, e.g. "kotoba analogy king man woman"
  kotoba closest <expr>            nearest word to a signed sum, e.g. "king - man + woman"
  kotoba similarity <w1> <w2>      cosine similarity of two words
  kotoba import <vectors.txt>      parse a text vector file into the SQLite store
  kotoba export                    dump (key, vector) pairs as JSON for plotting
  kotoba info                      vocabulary size and dimensionality
  kotoba version                   print version
  kotoba help                      this text

Common flags (per command): -config, -output text|compact|json
`)
}

// argsReorder moves any flags (and their values) that appear after the
// positional words to the front of the slice so that flag.Parse() sees
// them. Go's flag package stops at the first non-flag argument, so
// "kotoba neighbors king -k 5" would otherwise leave -k unparsed.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// setup bundles the pieces every query command needs.
type setup struct {
	cfg    *config.Config
	logger *zap.Logger
	table  *vocab.Table
}

func initialize(configPath string, debugFlag bool) (*setup, error) {
	cfg, resolvedPath, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	debug := cfg.Debug || debugFlag
	logger, err := utils.NewLogger(debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	logger.Debug("config loaded", zap.String("config_path", resolvedPath))

	if cfg.Vectors.Path == "" {
		return nil, fmt.Errorf("no vectors path configured; set vectors.path in %s", resolvedPath)
	}
	table, err := loader.Load(cfg.Vectors.Path, loader.Format(cfg.Vectors.Format), loader.Options{
		Dimensions: cfg.Vectors.Dimensions,
		MaxWords:   cfg.Vectors.MaxWords,
		Normalize:  cfg.Vectors.Normalize,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	return &setup{cfg: cfg, logger: logger, table: table}, nil
}

// reportUnknownWord prints the lookup error and, when enabled, "did you
// mean" candidates to stderr.
func (s *setup) reportUnknownWord(err error, words ...string) {
	fmt.Fprintf(os.Stderr, "%v\n", err)
	if !s.cfg.Suggest.EnabledOrDefault() {
		return
	}
	sg := suggest.New(s.table.Keys(),
		suggest.WithMaxDistance(s.cfg.Suggest.MaxDistance),
		suggest.WithMaxSuggestions(s.cfg.Suggest.MaxSuggestions),
	)
	for _, w := range words {
		if s.table.Contains(w) {
			continue
		}
		if near := sg.Suggest(w); len(near) > 0 {
			fmt.Fprintf(os.Stderr, "Did you mean: %s\n", strings.Join(near, ", "))
		}
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func runNeighbors() {
	args := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("neighbors", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	k := fs.Int("k", 0, "number of neighbors (default from config)")
	excludeSelf := fs.Bool("exclude-self", false, "exclude the query word itself")
	exclude := fs.String("exclude", "", "comma-separated words to exclude")
	outputFormat := fs.String("output", "", "output format: text, compact, or json")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Println("Usage: kotoba neighbors <word> [-k N] [-exclude-self] [-exclude a,b] [-output text|compact|json]")
		os.Exit(1)
	}
	word := fs.Arg(0)

	s, err := initialize(*configPath, *debug)
	if err != nil {
		fatal("%v", err)
	}
	defer s.logger.Sync()

	limit := *k
	if limit == 0 {
		limit = s.cfg.Search.DefaultLimit
	}
	if limit > s.cfg.Search.MaxLimit {
		limit = s.cfg.Search.MaxLimit
	}

	excluding := make(map[string]bool)
	var excluded []string
	if *excludeSelf {
		excluding[word] = true
		excluded = append(excluded, word)
	}
	for _, w := range strings.Split(*exclude, ",") {
		if w = strings.TrimSpace(w); w != "" {
			excluding[w] = true
			excluded = append(excluded, w)
		}
	}

	format, err := cli.ParseFormat(pickFormat(*outputFormat, s.cfg))
	if err != nil {
		fatal("%v", err)
	}

	start := time.Now()
	neighbors, err := s.table.MostSimilar(word, limit, excluding)
	if err != nil {
		if errors.Is(err, vocab.ErrKeyNotFound) {
			s.reportUnknownWord(err, word)
			os.Exit(1)
		}
		fatal("%v", err)
	}
	report := &cli.NeighborsReport{
		Word:      word,
		K:         limit,
		Excluded:  excluded,
		QueryTime: time.Since(start).Milliseconds(),
		Neighbors: neighbors,
	}
	if err := cli.WriteNeighbors(os.Stdout, report, format); err != nil {
		fatal("write results: %v", err)
	}
}

func runAnalogy() {
	args := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("analogy", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	keepInputs := fs.Bool("keep-inputs", false, "allow the three input words as the answer")
	outputFormat := fs.String("output", "", "output format: text, compact, or json")
	_ = fs.Parse(args)

	if fs.NArg() != 3 {
		fmt.Println("Usage: kotoba analogy <a> <b> <c>   (computes a - b + c)")
		os.Exit(1)
	}
	a, b, c := fs.Arg(0), fs.Arg(1), fs.Arg(2)

	s, err := initialize(*configPath, *debug)
	if err != nil {
		fatal("%v", err)
	}
	defer s.logger.Sync()

	format, err := cli.ParseFormat(pickFormat(*outputFormat, s.cfg))
	if err != nil {
		fatal("%v", err)
	}

	start := time.Now()
	var match vocab.Neighbor
	if *keepInputs {
		match, err = s.table.AnalogyExcluding(a, b, c, nil)
	} else {
		match, err = s.table.Analogy(a, b, c)
	}
	if err != nil {
		if errors.Is(err, vocab.ErrKeyNotFound) {
			s.reportUnknownWord(err, a, b, c)
			os.Exit(1)
		}
		fatal("%v", err)
	}
	report := &cli.AnalogyReport{
		Positive:  []string{a, c},
		Negative:  []string{b},
		Match:     match,
		QueryTime: time.Since(start).Milliseconds(),
	}
	if err := cli.WriteAnalogy(os.Stdout, report, format); err != nil {
		fatal("write results: %v", err)
	}
}

// parseExpression splits a signed word sum like ["king", "-", "man", "+",
// "woman"] (or the glued form ["king", "-man", "+woman"]) into positive and
// negative term lists. The leading term is positive unless signed.
func parseExpression(tokens []string) (positive, negative []string, err error) {
	sign := +1
	pending := false
	for _, tok := range tokens {
		switch tok {
		case "+":
			if pending {
				return nil, nil, fmt.Errorf("dangling operator before %q", tok)
			}
			sign, pending = +1, true
			continue
		case "-":
			if pending {
				return nil, nil, fmt.Errorf("dangling operator before %q", tok)
			}
			sign, pending = -1, true
			continue
		}
		word := tok
		switch {
		case strings.HasPrefix(tok, "+"), strings.HasPrefix(tok, "-"):
			// A glued sign after a standalone operator, as in "king + -man",
			// is two operators in a row.
			if pending {
				return nil, nil, fmt.Errorf("dangling operator before %q", tok)
			}
			if tok[0] == '+' {
				sign = +1
			} else {
				sign = -1
			}
			word = tok[1:]
		}
		if word == "" {
			return nil, nil, fmt.Errorf("empty term in expression")
		}
		if sign > 0 {
			positive = append(positive, word)
		} else {
			negative = append(negative, word)
		}
		sign, pending = +1, false
	}
	if pending {
		return nil, nil, fmt.Errorf("expression ends with an operator")
	}
	if len(positive) == 0 && len(negative) == 0 {
		return nil, nil, fmt.Errorf("empty expression")
	}
	return positive, negative, nil
}

func runClosest() {
	args := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("closest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	keepInputs := fs.Bool("keep-inputs", false, "allow the expression's own words as the answer")
	outputFormat := fs.String("output", "", "output format: text, compact, or json")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Println(`Usage: kotoba closest <expr>   e.g. kotoba closest king - man + woman`)
		os.Exit(1)
	}
	positive, negative, err := parseExpression(fs.Args())
	if err != nil {
		fatal("parse expression: %v", err)
	}

	s, err := initialize(*configPath, *debug)
	if err != nil {
		fatal("%v", err)
	}
	defer s.logger.Sync()

	format, err := cli.ParseFormat(pickFormat(*outputFormat, s.cfg))
	if err != nil {
		fatal("%v", err)
	}

	start := time.Now()
	vec, err := s.table.Combine(positive, negative)
	if err != nil {
		if errors.Is(err, vocab.ErrKeyNotFound) {
			s.reportUnknownWord(err, append(positive, negative...)...)
			os.Exit(1)
		}
		fatal("%v", err)
	}
	excluding := make(map[string]bool)
	if !*keepInputs {
		for _, w := range positive {
			excluding[w] = true
		}
		for _, w := range negative {
			excluding[w] = true
		}
	}
	match, err := s.table.ClosestToVector(vec, excluding)
	if err != nil {
		fatal("%v", err)
	}
	report := &cli.AnalogyReport{
		Positive:  positive,
		Negative:  negative,
		Match:     match,
		QueryTime: time.Since(start).Milliseconds(),
	}
	if err := cli.WriteAnalogy(os.Stdout, report, format); err != nil {
		fatal("write results: %v", err)
	}
}

func runSimilarity() {
	args := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("similarity", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(args)

	if fs.NArg() != 2 {
		fmt.Println("Usage: kotoba similarity <word1> <word2>")
		os.Exit(1)
	}
	a, b := fs.Arg(0), fs.Arg(1)

	s, err := initialize(*configPath, *debug)
	if err != nil {
		fatal("%v", err)
	}
	defer s.logger.Sync()

	score, err := s.table.Similarity(a, b)
	if err != nil {
		if errors.Is(err, vocab.ErrKeyNotFound) {
			s.reportUnknownWord(err, a, b)
			os.Exit(1)
		}
		fatal("%v", err)
	}
	fmt.Printf("%.6f\n", score)
}

func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	storePath := fs.String("store", "", "store path (default from config)")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() != 1 {
		fmt.Println("Usage: kotoba import <vectors.txt[.gz]> [-store path]")
		os.Exit(1)
	}
	source := fs.Arg(0)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fatal("load config: %v", err)
	}
	logger, err := utils.NewLogger(cfg.Debug || *debug)
	if err != nil {
		fatal("create logger: %v", err)
	}
	defer logger.Sync()

	target := *storePath
	if target == "" {
		target = cfg.Vectors.StorePath
	}

	table, err := loader.LoadText(source, loader.Options{
		Dimensions: cfg.Vectors.Dimensions,
		MaxWords:   cfg.Vectors.MaxWords,
		Normalize:  cfg.Vectors.Normalize,
		Logger:     logger,
	})
	if err != nil {
		fatal("parse vectors: %v", err)
	}

	store, err := loader.OpenStore(target)
	if err != nil {
		fatal("open store: %v", err)
	}
	defer store.Close()
	if err := store.Save(table); err != nil {
		fatal("save store: %v", err)
	}
	logger.Info("vocabulary imported",
		zap.String("source", source),
		zap.String("store", target),
		zap.Int("words", table.Size()),
		zap.Int("dimensions", table.Dimensions()),
	)
	fmt.Printf("Imported %d words (%d dimensions) into %s\n", table.Size(), table.Dimensions(), target)
}

func runExport() {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	limit := fs.Int("limit", 0, "maximum keys to export (0 = all)")
	outPath := fs.String("output", "", "write to file instead of stdout")
	_ = fs.Parse(os.Args[2:])

	s, err := initialize(*configPath, *debug)
	if err != nil {
		fatal("%v", err)
	}
	defer s.logger.Sync()

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fatal("create output file: %v", err)
		}
		defer f.Close()
		out = f
	}
	if err := cli.WriteVectors(out, s.table, *limit); err != nil {
		fatal("export vectors: %v", err)
	}
}

func runInfo() {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	s, err := initialize(*configPath, *debug)
	if err != nil {
		fatal("%v", err)
	}
	defer s.logger.Sync()

	fmt.Printf("Source:     %s\n", s.cfg.Vectors.Path)
	fmt.Printf("Words:      %d\n", s.table.Size())
	fmt.Printf("Dimensions: %d\n", s.table.Dimensions())
}

// pickFormat prefers the per-command flag over the configured default.
func pickFormat(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	return cfg.Output.Format
}
