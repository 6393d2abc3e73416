package lingopress

// SegmentDiff is the difference between two segmentations of a document set,
// used for incremental retranslation: only added segments need new backend
// calls, unchanged ones can be served from cache.
type SegmentDiff struct {
	Added     []string // segments only in the new version
	Removed   []string // segments only in the old version
	Unchanged []string // segments present in both
}

// Stats returns summary counts for the diff.
func (d *SegmentDiff) Stats() (added, removed, unchanged int) {
	return len(d.Added), len(d.Removed), len(d.Unchanged)
}

// HasChanges reports whether retranslation is needed at all.
func (d *SegmentDiff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0
}

// DiffSegments compares two segment lists by content hash. Order follows the
// new list for Added/Unchanged and the old list for Removed.
func DiffSegments(oldSegments, newSegments []string) *SegmentDiff {
	oldHashes := make(map[string]bool, len(oldSegments))
	for _, seg := range oldSegments {
		oldHashes[HashSegment(seg)] = true
	}
	newHashes := make(map[string]bool, len(newSegments))
	for _, seg := range newSegments {
		newHashes[HashSegment(seg)] = true
	}

	diff := &SegmentDiff{}
	seen := make(map[string]bool)
	for _, seg := range newSegments {
		hash := HashSegment(seg)
		if seen[hash] {
			continue
		}
		seen[hash] = true
		if oldHashes[hash] {
			diff.Unchanged = append(diff.Unchanged, seg)
		} else {
			diff.Added = append(diff.Added, seg)
		}
	}

	seen = make(map[string]bool)
	for _, seg := range oldSegments {
		hash := HashSegment(seg)
		if seen[hash] {
			continue
		}
		seen[hash] = true
		if !newHashes[hash] {
			diff.Removed = append(diff.Removed, seg)
		}
	}
	return diff
}
