// Package cache provides translation caches keyed by segment content hash
// and target language, so identical text is never sent to a backend twice —
// not within a job, and not across retranslation runs.
package cache

import "github.com/luminareads/lingopress"

// TranslationCache is the cache interface the orchestrator consumes.
type TranslationCache = lingopress.TranslationCache

// Seed preloads a cache from aligned segment pairs, typically recovered from
// a previous run's output. Pairs whose original text no longer hashes to a
// cached key simply create new entries.
func Seed(c TranslationCache, original, translated []string, targetLang string) (int, error) {
	n := len(original)
	if len(translated) < n {
		n = len(translated)
	}

	seeded := 0
	for i := 0; i < n; i++ {
		if original[i] == "" || translated[i] == "" {
			continue
		}
		key := lingopress.CacheKey(lingopress.HashSegment(original[i]), targetLang)
		if err := c.Set(key, translated[i]); err != nil {
			return seeded, err
		}
		seeded++
	}
	return seeded, nil
}
