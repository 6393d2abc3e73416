package document

import (
	"errors"
	"strings"
	"testing"

	"github.com/luminareads/lingopress"
)

func TestMerger_SourceFirst(t *testing.T) {
	docs := docsOf(`<p>Hello World</p>`)
	s := NewSegmenter()
	original, maps := s.Segment(docs)

	m := NewMerger()
	out, err := m.Merge(original, []string{"Hola Mundo"}, maps, docs, "en", "es_ES")
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("Expected 1 document, got %d", len(out))
	}

	content := out[0].Content
	srcIdx := strings.Index(content, "Hello World")
	tgtIdx := strings.Index(content, "Hola Mundo")
	if srcIdx < 0 || tgtIdx < 0 {
		t.Fatalf("Both segments should appear, got %q", content)
	}
	if srcIdx > tgtIdx {
		t.Error("Original must render before translation")
	}
	if !strings.Contains(content, `class="bilingual-pair"`) {
		t.Error("Pairs should be wrapped in a bilingual-pair block")
	}
}

func TestMerger_LangAndDirAttributes(t *testing.T) {
	docs := docsOf(`<p>Hello World</p>`)
	s := NewSegmenter()
	original, maps := s.Segment(docs)

	m := NewMerger()
	out, err := m.Merge(original, []string{"مرحبا بالعالم"}, maps, docs, "en", "ar_SA")
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	content := out[0].Content
	if !strings.Contains(content, `lang="en" dir="ltr"`) {
		t.Errorf("Source block should be lang=en dir=ltr, got %q", content)
	}
	if !strings.Contains(content, `lang="ar-SA" dir="rtl"`) {
		t.Errorf("Target block should be lang=ar-SA dir=rtl, got %q", content)
	}
}

func TestMerger_CountMismatch(t *testing.T) {
	docs := docsOf(`<p>Hello World</p>`)
	s := NewSegmenter()
	original, maps := s.Segment(docs)

	m := NewMerger()
	_, err := m.Merge(original, []string{"uno", "dos"}, maps, docs, "en", "es")
	if err == nil {
		t.Fatal("Expected error for misaligned segment lists")
	}
	var mismatch *lingopress.CountMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("Expected *CountMismatchError, got %T", err)
	}
}

func TestMerger_EmptyDocumentKeepsSlot(t *testing.T) {
	docs := docsOf(
		`<p>Real content here</p>`,
		`<p>404</p>`,
	)
	s := NewSegmenter()
	original, maps := s.Segment(docs)

	m := NewMerger()
	out, err := m.Merge(original, []string{"Contenido real aquí"}, maps, docs, "en", "es")
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("Expected 2 documents, got %d", len(out))
	}
	if strings.Contains(out[1].Content, "bilingual-source") {
		t.Error("Segment-free document should have an empty bilingual body")
	}
}

func TestMerger_EscapesMarkupInSegments(t *testing.T) {
	docs := docsOf(`<p>Use the &lt;b&gt; tag wisely</p>`)
	s := NewSegmenter()
	original, maps := s.Segment(docs)
	if len(original) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(original))
	}

	m := NewMerger()
	out, err := m.Merge(original, []string{"Usa la etiqueta <b> con cuidado"}, maps, docs, "en", "es")
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if strings.Contains(out[0].Content, "<b>") {
		t.Errorf("Segment text must be escaped, got %q", out[0].Content)
	}
}
