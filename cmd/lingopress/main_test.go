package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"--version"}, &stdout, &stderr)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout.String(), "lingopress") {
		t.Errorf("expected version output, got: %s", stdout.String())
	}
}

func TestRun_MissingLang(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{}, &stdout, &stderr)

	if err == nil {
		t.Fatal("expected error for missing --lang")
	}
	if !strings.Contains(err.Error(), "--lang is required") {
		t.Errorf("expected '--lang is required' error, got: %v", err)
	}
}

func TestRun_MissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "test.html")
	os.WriteFile(inputFile, []byte("<p>Hello there</p>"), 0644)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--lang", "es_ES", inputFile}, &stdout, &stderr)

	if err == nil {
		t.Fatal("expected error for missing API key")
	}
	if !strings.Contains(err.Error(), "API key required") {
		t.Errorf("expected API key error, got: %v", err)
	}
}

func TestRun_DryRun(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "test.html")
	os.WriteFile(inputFile, []byte("<p>Hello there</p><p>Goodbye now</p>"), 0644)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--lang", "es_ES", "--dry-run", inputFile}, &stdout, &stderr)

	if err != nil {
		t.Fatalf("dry-run failed: %v", err)
	}

	output := stdout.String()
	if !strings.Contains(output, "Hello there") {
		t.Error("dry-run should list 'Hello there'")
	}
	if !strings.Contains(output, "Goodbye now") {
		t.Error("dry-run should list 'Goodbye now'")
	}
	if !strings.Contains(output, "2 translatable segment(s)") {
		t.Errorf("dry-run should show segment count, got: %s", output)
	}
}

func TestRun_DryRunJSON(t *testing.T) {
	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "test.html")
	os.WriteFile(inputFile, []byte("<p>Hello there</p>"), 0644)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--lang", "es_ES", "--dry-run", "--json", inputFile}, &stdout, &stderr)

	if err != nil {
		t.Fatalf("dry-run JSON failed: %v", err)
	}

	var result struct {
		SegmentCount int      `json:"segment_count"`
		Segments     []string `json:"segments"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}

	if result.SegmentCount != 1 {
		t.Errorf("expected 1 segment, got %d", result.SegmentCount)
	}
	if len(result.Segments) != 1 || result.Segments[0] != "Hello there" {
		t.Errorf("expected ['Hello there'], got %v", result.Segments)
	}
}

func TestRun_Diff(t *testing.T) {
	tmpDir := t.TempDir()
	oldFile := filepath.Join(tmpDir, "old.html")
	newFile := filepath.Join(tmpDir, "new.html")
	os.WriteFile(oldFile, []byte("<p>Kept text here</p><p>Dropped text here</p>"), 0644)
	os.WriteFile(newFile, []byte("<p>Kept text here</p><p>Fresh text here</p>"), 0644)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--lang", "es_ES", "--diff", oldFile, newFile}, &stdout, &stderr)

	if err != nil {
		t.Fatalf("diff failed: %v", err)
	}

	output := stdout.String()
	if !strings.Contains(output, "Unchanged: 1") {
		t.Errorf("expected 1 unchanged, got: %s", output)
	}
	if !strings.Contains(output, "Fresh text here") {
		t.Error("added segment should be listed")
	}
	if !strings.Contains(output, "Dropped text here") {
		t.Error("removed segment should be listed")
	}
}

func TestRun_DiffNoChanges(t *testing.T) {
	tmpDir := t.TempDir()
	oldFile := filepath.Join(tmpDir, "old.html")
	newFile := filepath.Join(tmpDir, "new.html")
	content := []byte("<p>Same text here</p>")
	os.WriteFile(oldFile, content, 0644)
	os.WriteFile(newFile, content, 0644)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--lang", "es_ES", "--diff", oldFile, newFile}, &stdout, &stderr)

	if err != nil {
		t.Fatalf("diff failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "No changes detected") {
		t.Errorf("expected no-changes message, got: %s", stdout.String())
	}
}

func TestRun_OutputShortFlag(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	tmpDir := t.TempDir()
	inputFile := filepath.Join(tmpDir, "test.html")
	os.WriteFile(inputFile, []byte("<p>Hello there</p>"), 0644)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--lang", "es_ES", "-o", tmpDir, inputFile}, &stdout, &stderr)

	if err == nil {
		t.Fatal("expected error")
	}
	// Should fail on the API key, not on flag parsing.
	if !strings.Contains(err.Error(), "API key") {
		t.Errorf("expected API key error, got: %v", err)
	}
}
