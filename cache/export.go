package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Snapshot is the JSON structure for cache export/import. Snapshots move
// accumulated translations between machines or seed a fresh cache before a
// retranslation run.
type Snapshot struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Entries    []SnapshotEntry   `json:"entries"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// SnapshotEntry is a single cached translation.
type SnapshotEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Export writes a cache's live entries to w as an indented JSON snapshot.
// Only caches that expose their entries can be exported; currently that is
// the in-memory cache.
func Export(c TranslationCache, w io.Writer, metadata map[string]string) error {
	mem, ok := c.(*Memory)
	if !ok {
		return fmt.Errorf("cache type %T does not support export", c)
	}

	data := mem.Entries()
	entries := make([]SnapshotEntry, 0, len(data))
	for key, value := range data {
		entries = append(entries, SnapshotEntry{Key: key, Value: value})
	}

	snapshot := Snapshot{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:    entries,
		Metadata:   metadata,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snapshot); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// ExportToFile exports the cache to a file at a caller-chosen path.
func ExportToFile(c TranslationCache, path string, metadata map[string]string) error {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	return Export(c, f, metadata)
}

// ImportResult summarizes an import operation.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Failed   int
}

// Import loads snapshot entries into any cache. Entries that fail to store
// are counted, not fatal.
func Import(c TranslationCache, r io.Reader) (*ImportResult, error) {
	var snapshot Snapshot
	if err := json.NewDecoder(r).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	result := &ImportResult{
		Version:  snapshot.Version,
		Metadata: snapshot.Metadata,
	}
	for _, e := range snapshot.Entries {
		if err := c.Set(e.Key, e.Value); err != nil {
			result.Failed++
			continue
		}
		result.Imported++
	}
	return result, nil
}

// ImportFromFile imports snapshot entries from a file.
func ImportFromFile(c TranslationCache, path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return Import(c, f)
}
