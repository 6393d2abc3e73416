package lingopress

import (
	"context"
	"fmt"
	"log/slog"
)

// parallelLookupThreshold is the segment count above which cache lookups run
// concurrently.
const parallelLookupThreshold = 5

// OrchestratorConfig is the immutable policy for a translation run.
type OrchestratorConfig struct {
	MaxAttempts          int    // attempt budget across backends (default 2)
	DetectSampleSegments int    // segments sampled for language detection
	DetectSampleChars    int    // character cap on the detection sample
	FallbackSourceLang   string // used when detection fails (default "en")
	// ForcedBackend names the high-quality backend that low-resource target
	// languages are always routed to first.
	ForcedBackend string
	Quality       QualityPolicy
}

// DefaultOrchestratorConfig returns the standard run policy.
func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{
		MaxAttempts:          2,
		DetectSampleSegments: 10,
		DetectSampleChars:    1000,
		FallbackSourceLang:   "en",
		ForcedBackend:        "openai",
		Quality:              DefaultQualityPolicy(),
	}
}

// Orchestrator drives language detection, backend selection, placeholder
// protection, translation and validation for a flat segment list. It is the
// only component that decides between retry, fallback and terminal failure.
type Orchestrator struct {
	cfg      OrchestratorConfig
	guard    *PlaceholderGuard
	detector LanguageDetector
	cache    TranslationCache
	logger   *slog.Logger
}

// OrchestratorOption is a functional option for configuring the Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithDetector sets the language detector used when the source language is
// unknown.
func WithDetector(d LanguageDetector) OrchestratorOption {
	return func(o *Orchestrator) {
		o.detector = d
	}
}

// WithCache sets an optional per-segment translation cache.
func WithCache(c TranslationCache) OrchestratorOption {
	return func(o *Orchestrator) {
		o.cache = c
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// NewOrchestrator creates an Orchestrator with the given policy.
func NewOrchestrator(cfg OrchestratorConfig, opts ...OrchestratorOption) *Orchestrator {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 2
	}
	if cfg.FallbackSourceLang == "" {
		cfg.FallbackSourceLang = "en"
	}

	o := &Orchestrator{
		cfg:    cfg,
		guard:  NewPlaceholderGuard(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Result is the outcome of a successful orchestration run.
type Result struct {
	Segments   []string // translated, placeholder-restored, 1:1 with input
	SourceLang string   // supplied or detected
	// Backend names the backend that produced the result, for accounting.
	// Empty when every segment was served from cache.
	Backend       string
	TokenEstimate int // derived from combined input+output character length
}

// TranslateSegments translates a flat segment list, preserving count and
// order. primary is tried first unless forced routing applies; fallback (may
// be nil) is promoted after the first failed attempt.
func (o *Orchestrator) TranslateSegments(ctx context.Context, segments []string, sourceLang, targetLang string, primary, fallback Backend, progress ProgressFunc) (*Result, error) {
	if primary == nil {
		return nil, &TranslationError{Stage: "translate", Attempts: 0, Cause: fmt.Errorf("no backend supplied")}
	}
	if len(segments) == 0 {
		return &Result{Segments: []string{}, SourceLang: sourceLang}, nil
	}

	src := o.resolveSourceLang(segments, sourceLang)

	// Cache pre-pass over unique texts; only misses reach a backend.
	byHash, pending := o.lookupCache(segments, targetLang)
	if len(pending) == 0 {
		o.logger.Debug("all segments served from cache", "segments", len(segments))
		return &Result{Segments: assembleByHash(segments, byHash), SourceLang: src}, nil
	}

	backends := o.orderBackends(primary, fallback, targetLang)

	var lastErr error
	stage := "translate"
	for attempt := 1; attempt <= o.cfg.MaxAttempts; attempt++ {
		b := backends[(attempt-1)%len(backends)]
		o.logger.Debug("translation attempt", "attempt", attempt, "backend", b.Name(), "segments", len(pending), "target", targetLang)

		protected, tables := o.guard.Protect(pending)

		out, err := b.Translate(ctx, TranslateRequest{
			Segments:   protected,
			SourceLang: src,
			TargetLang: targetLang,
			Progress:   progress,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			stage, lastErr = "translate", err
			o.logger.Warn("backend attempt failed", "backend", b.Name(), "error", err)
			continue
		}
		if len(out) != len(protected) {
			stage, lastErr = "translate", &CountMismatchError{Expected: len(protected), Got: len(out)}
			continue
		}

		restored, perrs := o.guard.Restore(out, tables)
		if len(perrs) > 0 {
			stage, lastErr = "restore", perrs[0]
			o.logger.Warn("placeholder parity failed", "backend", b.Name(), "segments", len(perrs))
			continue
		}

		if failed, ok := o.cfg.Quality.Check(pending, restored, targetLang); !ok {
			stage, lastErr = "validate", fmt.Errorf("length-ratio heuristic failed for %d of %d segments", failed, len(pending))
			o.logger.Warn("quality heuristic failed", "backend", b.Name(), "failed", failed, "total", len(pending))
			continue
		}

		tokens := estimateTokens(pending, restored)
		o.storeCache(pending, restored, targetLang)
		for i, seg := range pending {
			byHash[HashSegment(seg)] = restored[i]
		}

		return &Result{
			Segments:      assembleByHash(segments, byHash),
			SourceLang:    src,
			Backend:       b.Name(),
			TokenEstimate: tokens,
		}, nil
	}

	return nil, &TranslationError{Stage: stage, Attempts: o.cfg.MaxAttempts, Cause: lastErr}
}

// resolveSourceLang returns the supplied source language, or detects one from
// a sampled segment prefix, or falls back to the configured default.
func (o *Orchestrator) resolveSourceLang(segments []string, sourceLang string) string {
	if sourceLang != "" {
		return sourceLang
	}
	if o.detector != nil {
		sample := SampleSegments(segments, o.cfg.DetectSampleSegments, o.cfg.DetectSampleChars)
		if lang, ok := o.detector.Detect(sample); ok {
			o.logger.Debug("detected source language", "lang", lang)
			return lang
		}
	}
	o.logger.Debug("language detection unavailable, using fallback", "lang", o.cfg.FallbackSourceLang)
	return o.cfg.FallbackSourceLang
}

// orderBackends applies forced routing for low-resource target languages and
// drops a fallback that duplicates the primary.
func (o *Orchestrator) orderBackends(primary, fallback Backend, targetLang string) []Backend {
	backends := []Backend{primary}
	if fallback != nil && fallback.Name() != primary.Name() {
		backends = append(backends, fallback)
	}

	if o.cfg.ForcedBackend != "" && IsLowResource(targetLang) {
		for i, b := range backends {
			if b.Name() == o.cfg.ForcedBackend && i != 0 {
				backends[0], backends[i] = backends[i], backends[0]
				o.logger.Debug("forced routing for low-resource target", "target", targetLang, "backend", b.Name())
			}
		}
	}
	return backends
}

func (o *Orchestrator) lookupCache(segments []string, targetLang string) (map[string]string, []string) {
	if o.cache != nil && len(segments) >= parallelLookupThreshold {
		return ParallelCacheLookup(o.cache, segments, targetLang)
	}
	return CacheLookup(o.cache, segments, targetLang)
}

func (o *Orchestrator) storeCache(originals, translated []string, targetLang string) {
	if o.cache == nil {
		return
	}
	for i, seg := range originals {
		// Cache write failures are non-fatal.
		_ = o.cache.Set(CacheKey(HashSegment(seg), targetLang), translated[i])
	}
}

// assembleByHash maps every input position to its translation, preserving
// the input order and count.
func assembleByHash(segments []string, byHash map[string]string) []string {
	out := make([]string, len(segments))
	for i, seg := range segments {
		if val, ok := byHash[HashSegment(seg)]; ok {
			out[i] = val
		} else {
			out[i] = seg
		}
	}
	return out
}

// estimateTokens approximates billable tokens from the combined character
// length of inputs and outputs.
func estimateTokens(in, out []string) int {
	chars := 0
	for _, s := range in {
		chars += len(s)
	}
	for _, s := range out {
		chars += len(s)
	}
	return chars / 4
}
