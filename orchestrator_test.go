package lingopress

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// scriptedBackend is a test Backend whose behavior is driven per call.
type scriptedBackend struct {
	name      string
	calls     int
	translate func(call int, req TranslateRequest) ([]string, error)
}

func (s *scriptedBackend) Name() string { return s.name }

func (s *scriptedBackend) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	s.calls++
	return s.translate(s.calls, req)
}

// echoBackend translates by tagging each segment, leaving tokens intact.
func echoBackend(name string) *scriptedBackend {
	return &scriptedBackend{
		name: name,
		translate: func(call int, req TranslateRequest) ([]string, error) {
			out := make([]string, len(req.Segments))
			for i, seg := range req.Segments {
				out[i] = "[" + name + "] " + seg
			}
			return out, nil
		},
	}
}

// failingBackend always returns a backend error.
func failingBackend(name string) *scriptedBackend {
	return &scriptedBackend{
		name: name,
		translate: func(call int, req TranslateRequest) ([]string, error) {
			return nil, &BackendError{Backend: name, Message: "down", Retryable: false}
		},
	}
}

// detectorFunc adapts a func to LanguageDetector.
type detectorFunc func(sample string) (string, bool)

func (f detectorFunc) Detect(sample string) (string, bool) { return f(sample) }

func TestOrchestrator_TranslatesInOrder(t *testing.T) {
	o := NewOrchestrator(DefaultOrchestratorConfig())
	segments := []string{"First sentence here", "Second sentence here"}

	res, err := o.TranslateSegments(context.Background(), segments, "en", "es", echoBackend("primary"), nil, nil)
	if err != nil {
		t.Fatalf("TranslateSegments failed: %v", err)
	}

	if len(res.Segments) != 2 {
		t.Fatalf("Count invariant broken: got %d", len(res.Segments))
	}
	for i, seg := range segments {
		if !strings.HasSuffix(res.Segments[i], seg) {
			t.Errorf("segment %d out of order: %q", i, res.Segments[i])
		}
	}
	if res.Backend != "primary" {
		t.Errorf("Expected backend 'primary', got %q", res.Backend)
	}
	if res.SourceLang != "en" {
		t.Errorf("Expected supplied source lang, got %q", res.SourceLang)
	}
	if res.TokenEstimate <= 0 {
		t.Error("Token estimate should be positive")
	}
}

func TestOrchestrator_NoBackend(t *testing.T) {
	o := NewOrchestrator(DefaultOrchestratorConfig())

	_, err := o.TranslateSegments(context.Background(), []string{"text"}, "en", "es", nil, nil, nil)
	var terr *TranslationError
	if !errors.As(err, &terr) {
		t.Fatalf("Expected *TranslationError, got %v", err)
	}
}

func TestOrchestrator_EmptyInput(t *testing.T) {
	o := NewOrchestrator(DefaultOrchestratorConfig())

	res, err := o.TranslateSegments(context.Background(), nil, "en", "es", echoBackend("primary"), nil, nil)
	if err != nil {
		t.Fatalf("Empty input should succeed: %v", err)
	}
	if len(res.Segments) != 0 {
		t.Errorf("Expected empty result, got %v", res.Segments)
	}
}

func TestOrchestrator_FallbackAfterPrimaryFails(t *testing.T) {
	o := NewOrchestrator(DefaultOrchestratorConfig())

	primary := failingBackend("primary")
	fallback := echoBackend("fallback")

	res, err := o.TranslateSegments(context.Background(), []string{"Some text to translate"}, "en", "es", primary, fallback, nil)
	if err != nil {
		t.Fatalf("Fallback should have rescued the run: %v", err)
	}
	if res.Backend != "fallback" {
		t.Errorf("Result must report the backend that produced it, got %q", res.Backend)
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Errorf("Expected one call each, got %d/%d", primary.calls, fallback.calls)
	}
}

func TestOrchestrator_TerminalFailureAfterBudget(t *testing.T) {
	o := NewOrchestrator(DefaultOrchestratorConfig())

	primary := failingBackend("primary")
	fallback := failingBackend("fallback")

	_, err := o.TranslateSegments(context.Background(), []string{"Some text"}, "en", "es", primary, fallback, nil)

	var terr *TranslationError
	if !errors.As(err, &terr) {
		t.Fatalf("Expected *TranslationError, got %v", err)
	}
	if terr.Stage != "translate" {
		t.Errorf("Expected stage 'translate', got %q", terr.Stage)
	}
	if terr.Attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", terr.Attempts)
	}
	var berr *BackendError
	if !errors.As(err, &berr) {
		t.Error("Cause chain should expose the backend error")
	}
}

func TestOrchestrator_ForcedRoutingForLowResource(t *testing.T) {
	o := NewOrchestrator(DefaultOrchestratorConfig())

	libre := echoBackend("libre")
	openai := echoBackend("openai")

	// Low-resource target: the forced backend jumps the queue even as fallback.
	res, err := o.TranslateSegments(context.Background(), []string{"Some text to translate"}, "en", "km_KH", libre, openai, nil)
	if err != nil {
		t.Fatalf("TranslateSegments failed: %v", err)
	}
	if res.Backend != "openai" {
		t.Errorf("Low-resource target must route to the forced backend, got %q", res.Backend)
	}
	if libre.calls != 0 {
		t.Errorf("Preferred backend should not be called first, got %d calls", libre.calls)
	}
}

func TestOrchestrator_DetectsSourceLanguage(t *testing.T) {
	o := NewOrchestrator(DefaultOrchestratorConfig(), WithDetector(detectorFunc(func(sample string) (string, bool) {
		if sample == "" {
			t.Error("Detector received an empty sample")
		}
		return "de", true
	})))

	res, err := o.TranslateSegments(context.Background(), []string{"Ein Satz zum Testen"}, "", "en", echoBackend("primary"), nil, nil)
	if err != nil {
		t.Fatalf("TranslateSegments failed: %v", err)
	}
	if res.SourceLang != "de" {
		t.Errorf("Expected detected 'de', got %q", res.SourceLang)
	}
}

func TestOrchestrator_DetectionFallsBack(t *testing.T) {
	o := NewOrchestrator(DefaultOrchestratorConfig(), WithDetector(detectorFunc(func(string) (string, bool) {
		return "", false
	})))

	res, err := o.TranslateSegments(context.Background(), []string{"Words the detector cannot place anywhere"}, "", "es", echoBackend("primary"), nil, nil)
	if err != nil {
		t.Fatalf("TranslateSegments failed: %v", err)
	}
	if res.SourceLang != "en" {
		t.Errorf("Expected fallback 'en', got %q", res.SourceLang)
	}
}

func TestOrchestrator_CacheServesRepeatRuns(t *testing.T) {
	cache := newStubCache()
	o := NewOrchestrator(DefaultOrchestratorConfig(), WithCache(cache))
	segments := []string{"Cache this sentence"}

	primary := echoBackend("primary")
	if _, err := o.TranslateSegments(context.Background(), segments, "en", "es", primary, nil, nil); err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	if primary.calls != 1 {
		t.Fatalf("Expected one backend call, got %d", primary.calls)
	}

	res, err := o.TranslateSegments(context.Background(), segments, "en", "es", primary, nil, nil)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if primary.calls != 1 {
		t.Errorf("Second run should be all-cache, backend calls = %d", primary.calls)
	}
	if res.Backend != "" {
		t.Errorf("All-cache result reports no backend, got %q", res.Backend)
	}
	if res.Segments[0] != "[primary] Cache this sentence" {
		t.Errorf("Cached translation mismatch: %q", res.Segments[0])
	}
}

func TestOrchestrator_DuplicateSegmentsTranslatedOnce(t *testing.T) {
	cache := newStubCache()
	o := NewOrchestrator(DefaultOrchestratorConfig(), WithCache(cache))

	var sent []string
	b := &scriptedBackend{
		name: "primary",
		translate: func(call int, req TranslateRequest) ([]string, error) {
			sent = req.Segments
			out := make([]string, len(req.Segments))
			for i, s := range req.Segments {
				out[i] = "T:" + s
			}
			return out, nil
		},
	}

	segments := []string{"Repeated line", "Repeated line", "Unique line"}
	res, err := o.TranslateSegments(context.Background(), segments, "en", "es", b, nil, nil)
	if err != nil {
		t.Fatalf("TranslateSegments failed: %v", err)
	}

	if len(sent) != 2 {
		t.Errorf("Duplicates should collapse before the backend, sent %v", sent)
	}
	if len(res.Segments) != 3 {
		t.Fatalf("Count invariant broken: %d", len(res.Segments))
	}
	if res.Segments[0] != res.Segments[1] {
		t.Error("Duplicate inputs must get identical translations")
	}
}

func TestOrchestrator_RetriesOnPlaceholderParityFailure(t *testing.T) {
	o := NewOrchestrator(DefaultOrchestratorConfig())

	b := &scriptedBackend{
		name: "primary",
		translate: func(call int, req TranslateRequest) ([]string, error) {
			out := make([]string, len(req.Segments))
			for i, seg := range req.Segments {
				if call == 1 {
					// First attempt mangles the tokens.
					out[i] = strings.ReplaceAll(seg, "{URL_0}", "")
				} else {
					out[i] = seg
				}
			}
			return out, nil
		},
	}

	res, err := o.TranslateSegments(context.Background(), []string{"Visit http://example.com today"}, "en", "es", b, nil, nil)
	if err != nil {
		t.Fatalf("Second attempt should succeed: %v", err)
	}
	if b.calls != 2 {
		t.Errorf("Expected 2 attempts, got %d", b.calls)
	}
	if !strings.Contains(res.Segments[0], "http://example.com") {
		t.Errorf("URL should be restored, got %q", res.Segments[0])
	}
}

func TestOrchestrator_FailsOnPersistentCountMismatch(t *testing.T) {
	o := NewOrchestrator(DefaultOrchestratorConfig())

	b := &scriptedBackend{
		name: "primary",
		translate: func(call int, req TranslateRequest) ([]string, error) {
			return []string{"only one"}, nil
		},
	}

	_, err := o.TranslateSegments(context.Background(), []string{"Segment one here", "Segment two here"}, "en", "es", b, nil, nil)

	var terr *TranslationError
	if !errors.As(err, &terr) {
		t.Fatalf("Expected *TranslationError, got %v", err)
	}
	var mismatch *CountMismatchError
	if !errors.As(err, &mismatch) {
		t.Error("Cause chain should expose the count mismatch")
	}
}

func TestOrchestrator_FailsOnQualityHeuristic(t *testing.T) {
	o := NewOrchestrator(DefaultOrchestratorConfig())

	b := &scriptedBackend{
		name: "primary",
		translate: func(call int, req TranslateRequest) ([]string, error) {
			out := make([]string, len(req.Segments))
			for i := range out {
				out[i] = "x" // collapsed output
			}
			return out, nil
		},
	}

	_, err := o.TranslateSegments(context.Background(), []string{"A reasonably long original sentence for the ratio"}, "en", "es", b, nil, nil)

	var terr *TranslationError
	if !errors.As(err, &terr) {
		t.Fatalf("Expected *TranslationError, got %v", err)
	}
	if terr.Stage != "validate" {
		t.Errorf("Expected stage 'validate', got %q", terr.Stage)
	}
}

func TestOrchestrator_ContextCancellationPassesThrough(t *testing.T) {
	o := NewOrchestrator(DefaultOrchestratorConfig())
	ctx, cancel := context.WithCancel(context.Background())

	b := &scriptedBackend{
		name: "primary",
		translate: func(call int, req TranslateRequest) ([]string, error) {
			cancel()
			return nil, fmt.Errorf("wrapped: %w", ctx.Err())
		},
	}

	_, err := o.TranslateSegments(ctx, []string{"Some text"}, "en", "es", b, nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Cancellation must pass through unwrapped in a TranslationError, got %v", err)
	}
	if b.calls != 1 {
		t.Errorf("No further attempts after cancellation, got %d", b.calls)
	}
}
