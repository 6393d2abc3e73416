package lingopress

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// PlaceholderTable maps synthetic tokens (e.g. "{URL_0}") to the original
// substring each one replaced, scoped to a single segment.
type PlaceholderTable map[string]string

// placeholderCategory is one class of content that must pass through
// translation unchanged.
type placeholderCategory struct {
	name string
	re   *regexp.Regexp
}

// Categories are applied in this order within a segment. Tags go first so
// URLs inside attributes are already hidden; numbers go last so digits inside
// URLs and emails are already hidden.
var placeholderCategories = []placeholderCategory{
	{"TAG", regexp.MustCompile(`</?[a-zA-Z][^<>]*>`)},
	{"URL", regexp.MustCompile(`(?:https?://|www\.)[^\s<>"')\]]+`)},
	{"EMAIL", regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)},
	{"NUM", regexp.MustCompile(`\d+(?:[.,]\d+)*`)},
}

// tokenPattern matches any placeholder token in translated text.
var tokenPattern = regexp.MustCompile(`\{[A-Z]+_\d+\}`)

// PlaceholderGuard shields non-translatable content behind stable textual
// tokens before translation and restores it afterwards.
type PlaceholderGuard struct{}

// NewPlaceholderGuard creates a guard with the default category set.
func NewPlaceholderGuard() *PlaceholderGuard {
	return &PlaceholderGuard{}
}

// Protect replaces protected content in each segment with tokens and returns
// the protected segments plus one substitution table per segment.
func (g *PlaceholderGuard) Protect(segments []string) ([]string, []PlaceholderTable) {
	protected := make([]string, len(segments))
	tables := make([]PlaceholderTable, len(segments))

	for i, seg := range segments {
		protected[i], tables[i] = g.protectSegment(seg)
	}
	return protected, tables
}

// protectSegment runs the category passes in order over one segment.
// Within a pass, matches are replaced from last to first so earlier match
// offsets stay valid.
func (g *PlaceholderGuard) protectSegment(seg string) (string, PlaceholderTable) {
	table := make(PlaceholderTable)
	s := seg

	for _, cat := range placeholderCategories {
		matches := cat.re.FindAllStringIndex(s, -1)
		if len(matches) == 0 {
			continue
		}

		// Drop matches that sit inside an already-inserted token, such as
		// the digits of "{URL_0}".
		kept := matches[:0]
		for _, m := range matches {
			if m[0] > 0 && s[m[0]-1] == '_' && m[1] < len(s) && s[m[1]] == '}' {
				continue
			}
			kept = append(kept, m)
		}

		for i := len(kept) - 1; i >= 0; i-- {
			m := kept[i]
			token := fmt.Sprintf("{%s_%d}", cat.name, i)
			table[token] = s[m[0]:m[1]]
			s = s[:m[0]] + token + s[m[1]:]
		}
	}
	return s, table
}

// Restore re-inserts the original substrings into translated segments and
// validates token parity: every token inserted at protection time must occur
// exactly once in the translated text, and no unknown placeholder-shaped
// token may appear. Restoration is best-effort even for invalid segments;
// the caller decides whether to retry or accept degraded output.
func (g *PlaceholderGuard) Restore(translated []string, tables []PlaceholderTable) ([]string, []*PlaceholderError) {
	restored := make([]string, len(translated))
	var errs []*PlaceholderError

	for i, seg := range translated {
		if i >= len(tables) {
			restored[i] = seg
			continue
		}
		out, err := g.restoreSegment(i, seg, tables[i])
		restored[i] = out
		if err != nil {
			errs = append(errs, err)
		}
	}
	return restored, errs
}

func (g *PlaceholderGuard) restoreSegment(idx int, seg string, table PlaceholderTable) (string, *PlaceholderError) {
	counts := make(map[string]int)
	for _, tok := range tokenPattern.FindAllString(seg, -1) {
		counts[tok]++
	}

	var missing, unexpected []string
	for tok := range table {
		switch counts[tok] {
		case 0:
			missing = append(missing, tok)
		case 1:
			// exact parity
		default:
			unexpected = append(unexpected, tok)
		}
	}
	for tok := range counts {
		if _, ok := table[tok]; !ok {
			unexpected = append(unexpected, tok)
		}
	}

	out := seg
	for tok, original := range table {
		out = strings.ReplaceAll(out, tok, original)
	}

	if len(missing) == 0 && len(unexpected) == 0 {
		return out, nil
	}
	sort.Strings(missing)
	sort.Strings(unexpected)
	return out, &PlaceholderError{SegmentIndex: idx, Missing: missing, Unexpected: unexpected}
}
