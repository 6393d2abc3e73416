package lingopress

import (
	"fmt"
	"strings"
)

// TranslationError is the terminal error for a whole translation run. It is
// raised only by the Orchestrator after all attempts and fallbacks are spent.
type TranslationError struct {
	Stage    string // "detect", "translate", "restore", "validate"
	Attempts int
	Cause    error
}

func (e *TranslationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("translation failed at %s after %d attempt(s): %v", e.Stage, e.Attempts, e.Cause)
	}
	return fmt.Sprintf("translation failed at %s after %d attempt(s)", e.Stage, e.Attempts)
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// BackendError indicates a translation backend failure (API error, rate
// limit, malformed response).
type BackendError struct {
	Backend     string
	Message     string
	Cause       error
	Retryable   bool
	RateLimited bool // rate-limit class errors back off longer
}

func (e *BackendError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("backend %s: %s: %v", e.Backend, e.Message, e.Cause)
	}
	return fmt.Sprintf("backend %s: %s", e.Backend, e.Message)
}

func (e *BackendError) Unwrap() error {
	return e.Cause
}

// DocumentError indicates a single document could not be processed. The
// segmenter treats this as a per-document degradation, not a batch failure.
type DocumentError struct {
	DocID   string
	Message string
	Cause   error
}

func (e *DocumentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("document %s: %s: %v", e.DocID, e.Message, e.Cause)
	}
	return fmt.Sprintf("document %s: %s", e.DocID, e.Message)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// CountMismatchError indicates a backend returned a different number of
// translations than segments sent.
type CountMismatchError struct {
	Expected int
	Got      int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("segment count mismatch: expected %d, got %d", e.Expected, e.Got)
}

// PlaceholderError reports token-set parity failure for one segment after
// restoration: the backend dropped, duplicated or mangled protected tokens.
type PlaceholderError struct {
	SegmentIndex int
	Missing      []string
	Unexpected   []string
}

func (e *PlaceholderError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ","))
	}
	if len(e.Unexpected) > 0 {
		parts = append(parts, "unexpected "+strings.Join(e.Unexpected, ","))
	}
	return fmt.Sprintf("segment %d: placeholder parity failure: %s", e.SegmentIndex, strings.Join(parts, "; "))
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}
