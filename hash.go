package lingopress

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashSegment computes the SHA-256 hash of the trimmed segment text.
func HashSegment(text string) string {
	trimmed := strings.TrimSpace(text)
	sum := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(sum[:])
}

// CacheKey builds a cache key from a segment hash and target language.
func CacheKey(hash, targetLang string) string {
	return hash + ":" + targetLang
}

// CacheKeyExtended additionally scopes the key by source language and
// backend, for accounts that mix providers against one cache.
func CacheKeyExtended(hash, sourceLang, targetLang, backend string) string {
	return hash + ":" + sourceLang + ":" + targetLang + ":" + backend
}
