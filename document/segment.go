// Package document parses HTML documents into translatable segments and
// rebuilds them after translation, in monolingual or bilingual form.
package document

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/luminareads/lingopress"
)

// OpaqueTags contains HTML tags whose entire subtree is never translated.
var OpaqueTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
	"svg":      true,
	"math":     true,
}

// structuralKeywords are bare words that name document structure rather than
// content; a text run consisting only of one of these is not translated.
var structuralKeywords = map[string]bool{
	"html": true,
	"head": true,
	"body": true,
	"div":  true,
	"span": true,
}

// minSegmentRunes is the shortest trimmed text run worth translating.
const minSegmentRunes = 3

// Segmenter extracts translatable text runs from HTML documents.
type Segmenter struct {
	opaqueTags map[string]bool
	logger     *slog.Logger
}

// NewSegmenter creates a segmenter with the default opaque tag set.
func NewSegmenter() *Segmenter {
	return &Segmenter{
		opaqueTags: OpaqueTags,
		logger:     slog.Default(),
	}
}

// NewSegmenterWithOpaqueTags creates a segmenter with a custom opaque tag set.
func NewSegmenterWithOpaqueTags(tags []string) *Segmenter {
	opaque := make(map[string]bool)
	for _, tag := range tags {
		opaque[strings.ToLower(tag)] = true
	}
	return &Segmenter{
		opaqueTags: opaque,
		logger:     slog.Default(),
	}
}

// SetLogger replaces the segmenter's logger.
func (s *Segmenter) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Segment parses each document and extracts its translatable text runs into
// one flat list. The returned maps partition the list contiguously in
// document order; a document that fails to parse or contains no eligible
// text contributes an empty slot and survives translation unchanged.
func (s *Segmenter) Segment(docs []lingopress.Document) ([]string, []lingopress.ReconstructionMap) {
	var segments []string
	maps := make([]lingopress.ReconstructionMap, 0, len(docs))

	for i, doc := range docs {
		m := lingopress.ReconstructionMap{
			DocIndex:     i,
			DocID:        doc.ID,
			DocHref:      doc.Href,
			DocTitle:     doc.Title,
			SegmentStart: len(segments),
		}

		parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc.Content))
		if err != nil {
			s.logger.Warn("skipping unparseable document",
				"doc_id", doc.ID, "error", err)
			maps = append(maps, m)
			continue
		}

		texts, locators := s.extract(parsed)
		segments = append(segments, texts...)
		m.SegmentCount = len(texts)
		m.Locators = locators
		maps = append(maps, m)
	}

	return segments, maps
}

// extract walks the parsed tree and collects eligible text nodes together
// with the child-index path that reaches each one.
func (s *Segmenter) extract(doc *goquery.Document) ([]string, []lingopress.Locator) {
	var texts []string
	var locators []lingopress.Locator

	var walk func(n *html.Node, path []int)
	walk = func(n *html.Node, path []int) {
		if n.Type == html.ElementNode {
			if s.opaqueTags[strings.ToLower(n.Data)] {
				return
			}
			for _, attr := range n.Attr {
				if attr.Key == "data-no-translate" {
					return
				}
			}
		}

		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); Translatable(trimmed) {
				texts = append(texts, trimmed)
				locators = append(locators, encodePath(path))
			}
		}

		idx := 0
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			childPath := append(append([]int(nil), path...), idx)
			walk(c, childPath)
			idx++
		}
	}

	for _, n := range doc.Nodes {
		walk(n, nil)
	}

	return texts, locators
}

// Translatable reports whether a trimmed text run carries natural-language
// content worth sending to a backend.
func Translatable(trimmed string) bool {
	if utf8.RuneCountInString(trimmed) < minSegmentRunes {
		return false
	}
	if structuralKeywords[strings.ToLower(trimmed)] {
		return false
	}
	if purelyNumeric(trimmed) {
		return false
	}
	return true
}

// purelyNumeric reports whether the text is numbers and punctuation only,
// e.g. page numbers or "3.14", with no letters at all.
func purelyNumeric(s string) bool {
	hasDigit := false
	for _, r := range s {
		if unicode.IsDigit(r) {
			hasDigit = true
			continue
		}
		if unicode.IsLetter(r) {
			return false
		}
	}
	return hasDigit
}

// Verify Segmenter implements DocumentSegmenter
var _ lingopress.DocumentSegmenter = (*Segmenter)(nil)
