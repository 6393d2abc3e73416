package document

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/luminareads/lingopress"
)

// Reconstructor writes translated segments back into their source documents.
type Reconstructor struct{}

// NewReconstructor creates a reconstructor.
func NewReconstructor() *Reconstructor {
	return &Reconstructor{}
}

// Reconstruct re-parses each document and replaces the text node behind every
// locator with its translation, preserving the node's original leading and
// trailing whitespace. Tree structure, attributes and untranslated nodes are
// untouched. Documents with no segments are passed through verbatim.
func (r *Reconstructor) Reconstruct(translated []string, maps []lingopress.ReconstructionMap, docs []lingopress.Document) ([]lingopress.Document, error) {
	out := make([]lingopress.Document, 0, len(maps))

	for _, m := range maps {
		if m.DocIndex < 0 || m.DocIndex >= len(docs) {
			return nil, &lingopress.DocumentError{
				DocID:   m.DocID,
				Message: fmt.Sprintf("reconstruction map references document %d of %d", m.DocIndex, len(docs)),
			}
		}
		doc := docs[m.DocIndex]

		if m.SegmentCount == 0 {
			out = append(out, doc)
			continue
		}

		content, err := r.rebuild(doc, m.Slice(translated), m.Locators)
		if err != nil {
			return nil, err
		}

		doc.Content = content
		out = append(out, doc)
	}

	return out, nil
}

// rebuild parses one document and applies its translations in locator order.
func (r *Reconstructor) rebuild(doc lingopress.Document, translations []string, locators []lingopress.Locator) (string, error) {
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc.Content))
	if err != nil {
		return "", &lingopress.DocumentError{
			DocID:   doc.ID,
			Message: "failed to parse document for reconstruction",
			Cause:   err,
		}
	}
	if len(parsed.Nodes) == 0 {
		return "", &lingopress.DocumentError{
			DocID:   doc.ID,
			Message: "parsed document has no root node",
		}
	}
	root := parsed.Nodes[0]

	for i, loc := range locators {
		node, err := resolvePath(root, loc)
		if err != nil {
			return "", &lingopress.DocumentError{
				DocID:   doc.ID,
				Message: fmt.Sprintf("segment %d: locator no longer resolves", i),
				Cause:   err,
			}
		}
		if node.Type != html.TextNode {
			return "", &lingopress.DocumentError{
				DocID:   doc.ID,
				Message: fmt.Sprintf("segment %d: locator %q resolves to a non-text node", i, loc.Path),
			}
		}
		node.Data = preserveWhitespace(node.Data, translations[i])
	}

	content, err := parsed.Html()
	if err != nil {
		return "", &lingopress.DocumentError{
			DocID:   doc.ID,
			Message: "failed to serialize reconstructed document",
			Cause:   err,
		}
	}
	return content, nil
}

// preserveWhitespace preserves the original leading/trailing whitespace.
func preserveWhitespace(original, translated string) string {
	leadingLen := len(original) - len(strings.TrimLeft(original, " \t\n\r"))
	leading := original[:leadingLen]

	trailingLen := len(original) - len(strings.TrimRight(original, " \t\n\r"))
	trailing := ""
	if trailingLen > 0 {
		trailing = original[len(original)-trailingLen:]
	}

	return leading + translated + trailing
}

// Verify Reconstructor implements DocumentReconstructor
var _ lingopress.DocumentReconstructor = (*Reconstructor)(nil)
