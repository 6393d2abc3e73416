package lingopress

import "unicode/utf8"

// LengthBand is the acceptable range for the translated/original rune-length
// ratio of a single segment.
type LengthBand struct {
	Min float64
	Max float64
}

// QualityPolicy bounds translation-length anomalies. The constants are
// empirical and deliberately configurable rather than baked in.
type QualityPolicy struct {
	DefaultBand       LengthBand // most target languages
	CompactScriptBand LengthBand // CJK-class targets, wider
	// FailureTolerance is the fraction of segments allowed to fall outside
	// the band before the whole batch fails validation.
	FailureTolerance float64
}

// DefaultQualityPolicy returns the standard length-ratio bands.
func DefaultQualityPolicy() QualityPolicy {
	return QualityPolicy{
		DefaultBand:       LengthBand{Min: 0.6, Max: 1.8},
		CompactScriptBand: LengthBand{Min: 0.2, Max: 2.5},
		FailureTolerance:  0.10,
	}
}

// Band returns the band applicable to a target language.
func (p QualityPolicy) Band(targetLang string) LengthBand {
	if IsCompactScript(targetLang) {
		return p.CompactScriptBand
	}
	return p.DefaultBand
}

// CheckSegment reports whether one translated segment's length ratio falls
// inside the band. An empty translation for a non-empty original always
// fails; band boundaries are inclusive.
func (b LengthBand) CheckSegment(original, translated string) bool {
	origLen := utf8.RuneCountInString(original)
	if origLen == 0 {
		return true
	}
	transLen := utf8.RuneCountInString(translated)
	if transLen == 0 {
		return false
	}

	ratio := float64(transLen) / float64(origLen)
	return ratio >= b.Min && ratio <= b.Max
}

// Check validates a whole batch against the policy: at most
// FailureTolerance of the segments may fall outside the band. It returns
// the number of out-of-band segments alongside the verdict.
func (p QualityPolicy) Check(original, translated []string, targetLang string) (int, bool) {
	if len(original) == 0 {
		return 0, true
	}

	band := p.Band(targetLang)
	failed := 0
	for i := range original {
		if i >= len(translated) || !band.CheckSegment(original[i], translated[i]) {
			failed++
		}
	}

	allowed := int(p.FailureTolerance * float64(len(original)))
	return failed, failed <= allowed
}
