package lingopress

import "testing"

func TestDiffSegments(t *testing.T) {
	oldSegs := []string{"keep one", "drop this", "keep two"}
	newSegs := []string{"keep one", "keep two", "brand new"}

	diff := DiffSegments(oldSegs, newSegs)

	added, removed, unchanged := diff.Stats()
	if added != 1 || removed != 1 || unchanged != 2 {
		t.Errorf("Expected 1/1/2, got %d/%d/%d", added, removed, unchanged)
	}
	if diff.Added[0] != "brand new" {
		t.Errorf("Expected 'brand new' added, got %v", diff.Added)
	}
	if diff.Removed[0] != "drop this" {
		t.Errorf("Expected 'drop this' removed, got %v", diff.Removed)
	}
	if !diff.HasChanges() {
		t.Error("Diff with additions has changes")
	}
}

func TestDiffSegments_NoChanges(t *testing.T) {
	segs := []string{"same one", "same two"}
	diff := DiffSegments(segs, segs)

	if diff.HasChanges() {
		t.Error("Identical lists have no changes")
	}
	if len(diff.Unchanged) != 2 {
		t.Errorf("Expected 2 unchanged, got %d", len(diff.Unchanged))
	}
}

func TestDiffSegments_Deduplicates(t *testing.T) {
	diff := DiffSegments(nil, []string{"dup", "dup", "dup"})

	if len(diff.Added) != 1 {
		t.Errorf("Duplicates collapse to one entry, got %v", diff.Added)
	}
}

func TestDiffSegments_WhitespaceInsensitive(t *testing.T) {
	diff := DiffSegments([]string{"text"}, []string{"  text  "})

	if diff.HasChanges() {
		t.Error("Hashing trims whitespace, so these match")
	}
}
