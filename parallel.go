package lingopress

import "sync"

// CacheLookup checks the cache for every unique segment. It returns found
// translations keyed by segment hash, and the cache-missed segment texts in
// first-occurrence order.
func CacheLookup(cache TranslationCache, segments []string, targetLang string) (map[string]string, []string) {
	found := make(map[string]string)
	if cache == nil {
		return found, uniqueSegments(segments)
	}

	var misses []string
	seen := make(map[string]bool)
	for _, seg := range segments {
		hash := HashSegment(seg)
		if seen[hash] {
			continue
		}
		seen[hash] = true

		if val, ok := cache.Get(CacheKey(hash, targetLang)); ok {
			found[hash] = val
		} else {
			misses = append(misses, seg)
		}
	}
	return found, misses
}

// ParallelCacheLookup is CacheLookup with concurrent Get calls, worthwhile
// for network-backed caches and large segment lists. Miss order still
// follows first occurrence in the input.
func ParallelCacheLookup(cache TranslationCache, segments []string, targetLang string) (map[string]string, []string) {
	if cache == nil {
		return make(map[string]string), uniqueSegments(segments)
	}

	unique := uniqueSegments(segments)

	type lookupResult struct {
		hash  string
		value string
		ok    bool
	}

	results := make(chan lookupResult, len(unique))
	var wg sync.WaitGroup
	for _, seg := range unique {
		wg.Add(1)
		go func(text string) {
			defer wg.Done()
			hash := HashSegment(text)
			val, ok := cache.Get(CacheKey(hash, targetLang))
			results <- lookupResult{hash: hash, value: val, ok: ok}
		}(seg)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	found := make(map[string]string)
	for r := range results {
		if r.ok {
			found[r.hash] = r.value
		}
	}

	var misses []string
	for _, seg := range unique {
		if _, ok := found[HashSegment(seg)]; !ok {
			misses = append(misses, seg)
		}
	}
	return found, misses
}

// uniqueSegments returns the distinct segment texts in first-occurrence order.
func uniqueSegments(segments []string) []string {
	var unique []string
	seen := make(map[string]bool)
	for _, seg := range segments {
		hash := HashSegment(seg)
		if !seen[hash] {
			seen[hash] = true
			unique = append(unique, seg)
		}
	}
	return unique
}
