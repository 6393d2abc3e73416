package lingopress

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// LinguaDetector detects the source language of a text sample using n-gram
// models. It implements LanguageDetector.
type LinguaDetector struct {
	detector lingua.LanguageDetector
}

// detectableLanguages mirrors the locales the pipeline knows how to name.
// Restricting the model set keeps detector construction cheap.
var detectableLanguages = []lingua.Language{
	lingua.English,
	lingua.German,
	lingua.Spanish,
	lingua.French,
	lingua.Italian,
	lingua.Japanese,
	lingua.Portuguese,
	lingua.Chinese,
	lingua.Korean,
	lingua.Russian,
	lingua.Arabic,
	lingua.Hebrew,
	lingua.Hindi,
	lingua.Dutch,
	lingua.Polish,
	lingua.Turkish,
	lingua.Vietnamese,
	lingua.Thai,
}

// NewLinguaDetector builds a detector over the pipeline's known languages.
func NewLinguaDetector() *LinguaDetector {
	return &LinguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(detectableLanguages...).
			Build(),
	}
}

// Detect returns the base language code ("en", "ja") of the sample, or false
// when no confident guess exists.
func (d *LinguaDetector) Detect(sample string) (string, bool) {
	sample = strings.TrimSpace(sample)
	if sample == "" {
		return "", false
	}

	lang, ok := d.detector.DetectLanguageOf(sample)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}

// SampleSegments joins a bounded prefix of segments into one detection
// sample. maxSegments and maxChars bound the work handed to the detector.
func SampleSegments(segments []string, maxSegments, maxChars int) string {
	if maxSegments <= 0 {
		maxSegments = 10
	}
	if maxChars <= 0 {
		maxChars = 1000
	}

	var b strings.Builder
	for i, seg := range segments {
		if i >= maxSegments || b.Len() >= maxChars {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(seg)
	}

	s := b.String()
	if runes := []rune(s); len(runes) > maxChars {
		s = string(runes[:maxChars])
	}
	return s
}
