// Package lingopress provides a structure-preserving document translation pipeline.
package lingopress

import "context"

// Document is one structural unit of a book or site: a chapter, a page, a
// standalone HTML file. Immutable once read; translation produces new values.
type Document struct {
	ID      string // stable identifier within the job
	Href    string // output filename
	Title   string
	Content string // HTML source
}

// Locator is an opaque position reference to a single text run inside a
// Document's tree. It survives text replacement because reconstruction never
// mutates the tree structure, only text node data.
type Locator struct {
	// Path is a slash-separated sequence of child indices from the parsed
	// root node down to the text node, e.g. "1/1/0/2".
	Path string
}

// ReconstructionMap records how a Document's segments sit inside the flat
// global segment list, and where each one came from in the tree.
type ReconstructionMap struct {
	DocIndex     int
	DocID        string
	DocHref      string
	DocTitle     string
	SegmentStart int
	SegmentCount int
	Locators     []Locator
}

// Slice returns this Document's portion of the flat segment list.
func (m ReconstructionMap) Slice(segments []string) []string {
	return segments[m.SegmentStart : m.SegmentStart+m.SegmentCount]
}

// BilingualPair is one original/translated segment pair rendered together in
// merged output, source first.
type BilingualPair struct {
	Original   string
	Translated string
}

// ProgressFunc is invoked after each completed backend batch.
type ProgressFunc func(completedBatches, totalBatches int)

// TranslateRequest carries a batch of protected segments to a backend.
type TranslateRequest struct {
	Segments   []string
	SourceLang string // may be empty when unknown to the backend
	TargetLang string
	SystemHint string // extra instruction appended to the backend prompt
	Progress   ProgressFunc
}

// Backend is the polymorphic translation service interface. Implementations
// own their batching, pacing and retry policy, and must return exactly one
// translation per input segment, in input order.
type Backend interface {
	Name() string
	Translate(ctx context.Context, req TranslateRequest) ([]string, error)
}

// TranslationCache caches segment translations keyed by content hash and
// target language.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// LanguageDetector guesses the source language of a text sample. The second
// return value is false when no confident guess exists.
type LanguageDetector interface {
	Detect(sample string) (string, bool)
}

// DocumentSegmenter extracts translatable segments from documents.
type DocumentSegmenter interface {
	Segment(docs []Document) ([]string, []ReconstructionMap)
}

// DocumentReconstructor writes translated segments back into copies of the
// original documents.
type DocumentReconstructor interface {
	Reconstruct(translated []string, maps []ReconstructionMap, docs []Document) ([]Document, error)
}

// BilingualAssembler builds side-by-side documents from aligned segment pairs.
type BilingualAssembler interface {
	Merge(original, translated []string, maps []ReconstructionMap, docs []Document, sourceLang, targetLang string) ([]Document, error)
}
