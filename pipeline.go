package lingopress

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Pipeline wires the segmentation, orchestration and reconstruction stages
// for whole-document translation jobs. Data flows strictly forward; the
// pipeline holds no state between jobs.
type Pipeline struct {
	orchestrator  *Orchestrator
	segmenter     DocumentSegmenter
	reconstructor DocumentReconstructor
	merger        BilingualAssembler
}

// NewPipeline creates a pipeline. merger may be nil when bilingual output is
// never requested.
func NewPipeline(orc *Orchestrator, seg DocumentSegmenter, rec DocumentReconstructor, merger BilingualAssembler) *Pipeline {
	return &Pipeline{
		orchestrator:  orc,
		segmenter:     seg,
		reconstructor: rec,
		merger:        merger,
	}
}

// Job describes one translation run over a batch of documents.
type Job struct {
	Documents  []Document
	TargetLang string
	SourceLang string // empty triggers detection
	Primary    Backend
	Fallback   Backend // optional
	Bilingual  bool    // also produce side-by-side documents
	Progress   ProgressFunc
}

// JobResult is the successful outcome of a pipeline run. On failure no
// partial output is returned.
type JobResult struct {
	Translated    []Document
	Bilingual     []Document // nil unless requested
	SourceLang    string
	Backend       string
	TokenEstimate int
}

// Run executes segment → protect → translate → validate → restore →
// reconstruct, plus the optional bilingual merge.
func (p *Pipeline) Run(ctx context.Context, job Job) (*JobResult, error) {
	if job.TargetLang == "" {
		return nil, fmt.Errorf("target language is required")
	}
	if job.Bilingual && p.merger == nil {
		return nil, fmt.Errorf("bilingual output requested but no merger configured")
	}

	segments, maps := p.segmenter.Segment(job.Documents)
	if err := ValidateMaps(maps, len(segments)); err != nil {
		return nil, err
	}

	res, err := p.orchestrator.TranslateSegments(ctx, segments, job.SourceLang, job.TargetLang, job.Primary, job.Fallback, job.Progress)
	if err != nil {
		return nil, err
	}

	translated, err := p.reconstructor.Reconstruct(res.Segments, maps, job.Documents)
	if err != nil {
		return nil, err
	}
	for i := range translated {
		translated[i].Content = setHTMLAttributes(translated[i].Content, job.TargetLang)
	}

	out := &JobResult{
		Translated:    translated,
		SourceLang:    res.SourceLang,
		Backend:       res.Backend,
		TokenEstimate: res.TokenEstimate,
	}

	if job.Bilingual {
		bilingual, err := p.merger.Merge(segments, res.Segments, maps, job.Documents, res.SourceLang, job.TargetLang)
		if err != nil {
			return nil, err
		}
		out.Bilingual = bilingual
	}

	return out, nil
}

// setHTMLAttributes sets lang and dir attributes on the <html> tag. Content
// that cannot be parsed or re-serialized is returned unchanged.
func setHTMLAttributes(content, targetLang string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return content
	}

	htmlTag := doc.Find("html")
	if htmlTag.Length() > 0 {
		htmlTag.SetAttr("lang", ToHTMLLang(targetLang))
		htmlTag.SetAttr("dir", GetDirection(targetLang))
	}

	result, err := doc.Html()
	if err != nil {
		return content
	}

	return result
}

// ValidateMaps checks that reconstruction maps partition the segment index
// space contiguously with no gaps or overlaps.
func ValidateMaps(maps []ReconstructionMap, totalSegments int) error {
	next := 0
	for _, m := range maps {
		if m.SegmentStart != next {
			return fmt.Errorf("reconstruction map for %q starts at %d, want %d", m.DocID, m.SegmentStart, next)
		}
		if m.SegmentCount < 0 || m.SegmentCount != len(m.Locators) {
			return fmt.Errorf("reconstruction map for %q has %d locators for %d segments", m.DocID, len(m.Locators), m.SegmentCount)
		}
		next += m.SegmentCount
	}
	if next != totalSegments {
		return fmt.Errorf("reconstruction maps cover %d segments, want %d", next, totalSegments)
	}
	return nil
}
