// Command lingopress translates HTML documents between languages, preserving
// markup and optionally producing side-by-side bilingual output.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/luminareads/lingopress"
	"github.com/luminareads/lingopress/backend"
	"github.com/luminareads/lingopress/cache"
	"github.com/luminareads/lingopress/document"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = lingopress.Version
	commit    = lingopress.GitCommit
	buildDate = lingopress.BuildDate
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("lingopress", flag.ContinueOnError)
	fs.SetOutput(stderr)

	targetLang := fs.String("lang", "", "Target language code (e.g., es_ES, ja_JP)")
	sourceLang := fs.String("source", "", "Source language code (default: detect)")
	bilingual := fs.Bool("bilingual", false, "Also produce side-by-side bilingual documents")
	outputDir := fs.String("output", "", "Output directory (default: stdout, single input only)")
	outputShort := fs.String("o", "", "Output directory (short for --output)")
	apiKey := fs.String("api-key", "", "OpenAI API key (default: OPENAI_API_KEY env)")
	model := fs.String("model", "gpt-4o-mini", "OpenAI model to use")
	mtURL := fs.String("mt-url", "", "LibreTranslate-compatible fallback service URL")
	cacheTTL := fs.Int("cache-ttl", 3600, "In-memory cache TTL in seconds (0 to disable)")
	redisURL := fs.String("redis", "", "Redis cache URL (overrides in-memory cache)")
	showVersion := fs.Bool("version", false, "Show version")
	quiet := fs.Bool("quiet", false, "Suppress progress output")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	dryRun := fs.Bool("dry-run", false, "List translatable segments without calling any service")
	jsonOutput := fs.Bool("json", false, "Output result summary as JSON")
	diffFile := fs.String("diff", "", "Compare a single input with a previous version and show changes")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", lingopress.Name, version)
		if commit != "unknown" && commit != "" {
			fmt.Fprintf(stdout, "  commit:  %s\n", commit)
		}
		if buildDate != "unknown" && buildDate != "" {
			fmt.Fprintf(stdout, "  built:   %s\n", buildDate)
		}
		return nil
	}

	if *outputShort != "" && *outputDir == "" {
		*outputDir = *outputShort
	}

	logLevel := slog.LevelWarn
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel}))

	if *targetLang == "" {
		fs.Usage()
		return fmt.Errorf("--lang is required")
	}

	docs, err := loadDocuments(fs.Args())
	if err != nil {
		return err
	}

	if *diffFile != "" {
		if len(docs) != 1 {
			return fmt.Errorf("--diff works on exactly one input")
		}
		return runDiff(docs[0], *diffFile, stdout, *jsonOutput)
	}

	if *dryRun {
		return runDryRun(docs, *targetLang, stdout, *jsonOutput)
	}

	key := *apiKey
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key == "" {
		return fmt.Errorf("OpenAI API key required (--api-key or OPENAI_API_KEY env)")
	}

	primary := backend.NewOpenAI(backend.OpenAIConfig{
		APIKey: key,
		Model:  *model,
	})
	var fallback lingopress.Backend
	if *mtURL != "" {
		fallback = backend.NewLibre(backend.LibreConfig{BaseURL: *mtURL})
	}

	opts := []lingopress.OrchestratorOption{lingopress.WithLogger(logger)}
	if c, err := buildCache(*redisURL, *cacheTTL); err != nil {
		return err
	} else if c != nil {
		opts = append(opts, lingopress.WithCache(c))
	}
	if *sourceLang == "" {
		opts = append(opts, lingopress.WithDetector(lingopress.NewLinguaDetector()))
	}

	orc := lingopress.NewOrchestrator(lingopress.DefaultOrchestratorConfig(), opts...)
	pipe := lingopress.NewPipeline(orc,
		document.NewSegmenter(), document.NewReconstructor(), document.NewMerger())

	if !*quiet {
		fmt.Fprintf(stderr, "Translating %d document(s) to %s...\n", len(docs), *targetLang)
	}

	job := lingopress.Job{
		Documents:  docs,
		TargetLang: *targetLang,
		SourceLang: *sourceLang,
		Primary:    primary,
		Fallback:   fallback,
		Bilingual:  *bilingual,
	}
	if !*quiet {
		job.Progress = func(done, total int) {
			fmt.Fprintf(stderr, "  batch %d/%d\n", done, total)
		}
	}

	start := time.Now()
	res, err := pipe.Run(context.Background(), job)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}
	elapsed := time.Since(start)

	if err := writeOutput(res, *outputDir, stdout); err != nil {
		return err
	}

	if *jsonOutput {
		return outputJSON(stdout, res, elapsed)
	}

	if !*quiet {
		fmt.Fprintf(stderr, "\nDone in %v\n", elapsed.Round(time.Millisecond))
		fmt.Fprintf(stderr, "  Documents:    %d\n", len(res.Translated))
		fmt.Fprintf(stderr, "  Source lang:  %s\n", res.SourceLang)
		if res.Backend != "" {
			fmt.Fprintf(stderr, "  Backend:      %s\n", res.Backend)
		} else {
			fmt.Fprintf(stderr, "  Backend:      (cache)\n")
		}
		fmt.Fprintf(stderr, "  Est. tokens:  %d\n", res.TokenEstimate)
	}

	return nil
}

// loadDocuments reads input files, or stdin when no files are named.
func loadDocuments(paths []string) ([]lingopress.Document, error) {
	if len(paths) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return []lingopress.Document{{
			ID:      "stdin",
			Href:    "stdin.html",
			Title:   "stdin",
			Content: string(data),
		}}, nil
	}

	docs := make([]lingopress.Document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path) // #nosec G304 - CLI tool reads user-specified files
		if err != nil {
			return nil, fmt.Errorf("reading file: %w", err)
		}
		base := filepath.Base(path)
		docs = append(docs, lingopress.Document{
			ID:      base,
			Href:    base,
			Title:   strings.TrimSuffix(base, filepath.Ext(base)),
			Content: string(data),
		})
	}
	return docs, nil
}

// buildCache returns the configured cache, or nil when caching is disabled.
func buildCache(redisURL string, ttlSeconds int) (lingopress.TranslationCache, error) {
	if redisURL != "" {
		c, err := cache.NewRedis(cache.RedisConfig{
			URL: redisURL,
			TTL: time.Duration(ttlSeconds) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return c, nil
	}
	if ttlSeconds > 0 {
		return cache.NewMemory(time.Duration(ttlSeconds) * time.Second), nil
	}
	return nil, nil
}

// writeOutput writes translated (and bilingual) documents to a directory, or
// a single translated document to stdout.
func writeOutput(res *lingopress.JobResult, outputDir string, stdout io.Writer) error {
	if outputDir == "" {
		if len(res.Translated) != 1 {
			return fmt.Errorf("--output is required for multiple documents")
		}
		if res.Bilingual != nil {
			return fmt.Errorf("--output is required for bilingual output")
		}
		fmt.Fprint(stdout, res.Translated[0].Content)
		return nil
	}

	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, doc := range res.Translated {
		path := filepath.Join(outputDir, doc.Href)
		if err := os.WriteFile(path, []byte(doc.Content), 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", doc.Href, err)
		}
	}
	for _, doc := range res.Bilingual {
		path := filepath.Join(outputDir, "bilingual-"+doc.Href)
		if err := os.WriteFile(path, []byte(doc.Content), 0o600); err != nil {
			return fmt.Errorf("writing bilingual %s: %w", doc.Href, err)
		}
	}
	return nil
}

// runDryRun lists the segments that would be sent for translation.
func runDryRun(docs []lingopress.Document, targetLang string, stdout io.Writer, jsonOut bool) error {
	seg := document.NewSegmenter()
	segments, maps := seg.Segment(docs)

	if jsonOut {
		type dryRunOutput struct {
			TargetLang   string   `json:"target_lang,omitempty"`
			DocCount     int      `json:"doc_count"`
			SegmentCount int      `json:"segment_count"`
			Segments     []string `json:"segments"`
		}

		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(dryRunOutput{
			TargetLang:   targetLang,
			DocCount:     len(docs),
			SegmentCount: len(segments),
			Segments:     segments,
		})
	}

	fmt.Fprintf(stdout, "Dry run: %d document(s), %d translatable segment(s)\n\n", len(docs), len(segments))
	for _, m := range maps {
		fmt.Fprintf(stdout, "%s: %d segment(s)\n", m.DocID, m.SegmentCount)
		for _, text := range m.Slice(segments) {
			if len(text) > 60 {
				text = text[:57] + "..."
			}
			fmt.Fprintf(stdout, "  %q\n", text)
		}
	}
	return nil
}

// runDiff compares a document with a previous version by segment content.
func runDiff(doc lingopress.Document, oldPath string, stdout io.Writer, jsonOut bool) error {
	oldData, err := os.ReadFile(oldPath) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return fmt.Errorf("reading previous version: %w", err)
	}

	seg := document.NewSegmenter()
	oldSegments, _ := seg.Segment([]lingopress.Document{{ID: "old", Content: string(oldData)}})
	newSegments, _ := seg.Segment([]lingopress.Document{doc})

	diff := lingopress.DiffSegments(oldSegments, newSegments)
	added, removed, unchanged := diff.Stats()

	if jsonOut {
		type diffOutput struct {
			InputFile    string   `json:"input_file"`
			PreviousFile string   `json:"previous_file"`
			Added        int      `json:"added"`
			Removed      int      `json:"removed"`
			Unchanged    int      `json:"unchanged"`
			NeedsWork    []string `json:"needs_translation"`
		}

		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(diffOutput{
			InputFile:    doc.ID,
			PreviousFile: filepath.Base(oldPath),
			Added:        added,
			Removed:      removed,
			Unchanged:    unchanged,
			NeedsWork:    diff.Added,
		})
	}

	fmt.Fprintf(stdout, "Diff: %s vs %s\n\n", doc.ID, filepath.Base(oldPath))
	fmt.Fprintf(stdout, "Summary:\n")
	fmt.Fprintf(stdout, "  Unchanged: %d\n", unchanged)
	fmt.Fprintf(stdout, "  Added:     %d\n", added)
	fmt.Fprintf(stdout, "  Removed:   %d\n\n", removed)

	if !diff.HasChanges() {
		fmt.Fprintf(stdout, "No changes detected. All translations are up to date.\n")
		return nil
	}

	if len(diff.Added) > 0 {
		fmt.Fprintf(stdout, "Needs translation:\n")
		for _, text := range diff.Added {
			if len(text) > 50 {
				text = text[:47] + "..."
			}
			fmt.Fprintf(stdout, "  + %q\n", text)
		}
	}
	if len(diff.Removed) > 0 {
		fmt.Fprintf(stdout, "Removed:\n")
		for _, text := range diff.Removed {
			if len(text) > 50 {
				text = text[:47] + "..."
			}
			fmt.Fprintf(stdout, "  - %q\n", text)
		}
	}
	return nil
}

// JSONOutput is the --json result summary.
type JSONOutput struct {
	Documents     int    `json:"documents"`
	Bilingual     int    `json:"bilingual_documents,omitempty"`
	SourceLang    string `json:"source_lang"`
	Backend       string `json:"backend"`
	TokenEstimate int    `json:"token_estimate"`
	ElapsedMs     int64  `json:"elapsed_ms"`
}

func outputJSON(w io.Writer, res *lingopress.JobResult, elapsed time.Duration) error {
	out := JSONOutput{
		Documents:     len(res.Translated),
		Bilingual:     len(res.Bilingual),
		SourceLang:    res.SourceLang,
		Backend:       res.Backend,
		TokenEstimate: res.TokenEstimate,
		ElapsedMs:     elapsed.Milliseconds(),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
