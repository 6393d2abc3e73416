package document

import (
	stdhtml "html"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/luminareads/lingopress"
)

// Merger assembles side-by-side bilingual documents from aligned segment
// pairs. The original always renders first, the translation second, each in
// its own block carrying lang and dir attributes so mixed-direction pairs
// (e.g. English/Arabic) display correctly.
type Merger struct{}

// NewMerger creates a bilingual merger.
func NewMerger() *Merger {
	return &Merger{}
}

// Merge builds one bilingual document per reconstruction map. Original and
// translated must be aligned index-for-index over the same maps. Documents
// with no segments yield an empty bilingual body rather than being dropped,
// so output count always matches input count.
func (m *Merger) Merge(original, translated []string, maps []lingopress.ReconstructionMap, docs []lingopress.Document, sourceLang, targetLang string) ([]lingopress.Document, error) {
	if len(original) != len(translated) {
		return nil, &lingopress.CountMismatchError{
			Expected: len(original),
			Got:      len(translated),
		}
	}

	srcHTMLLang := lingopress.ToHTMLLang(sourceLang)
	tgtHTMLLang := lingopress.ToHTMLLang(targetLang)
	srcDir := lingopress.GetDirection(sourceLang)
	tgtDir := lingopress.GetDirection(targetLang)

	out := make([]lingopress.Document, 0, len(maps))
	for _, rm := range maps {
		if rm.DocIndex < 0 || rm.DocIndex >= len(docs) {
			return nil, &lingopress.DocumentError{
				DocID:   rm.DocID,
				Message: "reconstruction map references a missing document",
			}
		}
		doc := docs[rm.DocIndex]

		pairs := alignPairs(rm.Slice(original), rm.Slice(translated))
		content, err := m.render(doc, pairs, srcHTMLLang, tgtHTMLLang, srcDir, tgtDir)
		if err != nil {
			return nil, err
		}

		doc.Content = content
		out = append(out, doc)
	}

	return out, nil
}

// alignPairs zips aligned segment slices into ordered pairs.
func alignPairs(original, translated []string) []lingopress.BilingualPair {
	pairs := make([]lingopress.BilingualPair, len(original))
	for i := range original {
		pairs[i] = lingopress.BilingualPair{
			Original:   original[i],
			Translated: translated[i],
		}
	}
	return pairs
}

// render builds a complete bilingual HTML document and round-trips it
// through the parser so the output is guaranteed well-formed.
func (m *Merger) render(doc lingopress.Document, pairs []lingopress.BilingualPair, srcLang, tgtLang, srcDir, tgtDir string) (string, error) {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString(`<html lang="` + srcLang + `" dir="` + srcDir + "\">\n")
	b.WriteString("<head>\n<meta charset=\"utf-8\"/>\n")
	b.WriteString("<title>" + stdhtml.EscapeString(doc.Title) + "</title>\n")
	b.WriteString("</head>\n<body>\n")

	for _, pair := range pairs {
		b.WriteString(`<div class="bilingual-pair">` + "\n")
		b.WriteString(`<p class="bilingual-source" lang="` + srcLang + `" dir="` + srcDir + `">`)
		b.WriteString(stdhtml.EscapeString(pair.Original))
		b.WriteString("</p>\n")
		b.WriteString(`<p class="bilingual-target" lang="` + tgtLang + `" dir="` + tgtDir + `">`)
		b.WriteString(stdhtml.EscapeString(pair.Translated))
		b.WriteString("</p>\n")
		b.WriteString("</div>\n")
	}

	b.WriteString("</body>\n</html>\n")

	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(b.String()))
	if err != nil {
		return "", &lingopress.DocumentError{
			DocID:   doc.ID,
			Message: "failed to build bilingual document",
			Cause:   err,
		}
	}
	content, err := parsed.Html()
	if err != nil {
		return "", &lingopress.DocumentError{
			DocID:   doc.ID,
			Message: "failed to serialize bilingual document",
			Cause:   err,
		}
	}
	return content, nil
}

// Verify Merger implements BilingualAssembler
var _ lingopress.BilingualAssembler = (*Merger)(nil)
