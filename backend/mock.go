package backend

import (
	"context"
	"fmt"

	"github.com/luminareads/lingopress"
)

// Mock is a canned backend for tests and dry runs.
type Mock struct {
	BackendName  string                        // Name() result (default: "mock")
	Translations map[string]string             // source segment to translation
	Err          error                         // returned on every call when set
	CallCount    int                           // number of Translate calls
	LastRequest  *lingopress.TranslateRequest  // last request received
}

// NewMock creates a mock backend with a few default translations.
func NewMock() *Mock {
	return &Mock{
		Translations: map[string]string{
			"Hello":                "Hola",
			"World":                "Mundo",
			"Hello World":          "Hola Mundo",
			"Welcome to our site.": "Bienvenido a nuestro sitio.",
		},
	}
}

// Name returns the configured name, defaulting to "mock".
func (m *Mock) Name() string {
	if m.BackendName != "" {
		return m.BackendName
	}
	return "mock"
}

// Translate returns canned translations; unknown segments come back
// bracketed so tests can tell them apart from real mappings.
func (m *Mock) Translate(ctx context.Context, req lingopress.TranslateRequest) ([]string, error) {
	m.CallCount++
	m.LastRequest = &req

	if m.Err != nil {
		return nil, m.Err
	}

	results := make([]string, len(req.Segments))
	for i, seg := range req.Segments {
		if translation, ok := m.Translations[seg]; ok {
			results[i] = translation
		} else {
			results[i] = fmt.Sprintf("[%s]", seg)
		}
	}

	if req.Progress != nil {
		req.Progress(1, 1)
	}
	return results, nil
}

// Reset clears the call count and last request.
func (m *Mock) Reset() {
	m.CallCount = 0
	m.LastRequest = nil
}

// Verify Mock implements Backend
var _ lingopress.Backend = (*Mock)(nil)
