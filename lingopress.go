// Package lingopress translates structured HTML documents (e-book chapters,
// pages, standalone files) between natural languages while preserving markup,
// machine-readable tokens and layout, with optional side-by-side bilingual
// output.
//
// The pipeline decomposes documents into translatable text segments, shields
// non-text content (tags, numbers, URLs, emails) behind placeholder tokens,
// routes the segments through rate-limited translation backends with retry
// and fallback, validates placeholder parity and translation-length
// plausibility, and reassembles structurally valid output documents.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/luminareads/lingopress"
//	    "github.com/luminareads/lingopress/backend"
//	    "github.com/luminareads/lingopress/document"
//	)
//
//	func main() {
//	    primary := backend.NewOpenAI(backend.OpenAIConfig{
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	    })
//	    fallback := backend.NewLibre(backend.LibreConfig{
//	        BaseURL: "https://libretranslate.example.com",
//	    })
//
//	    orc := lingopress.NewOrchestrator(lingopress.DefaultOrchestratorConfig(),
//	        lingopress.WithDetector(lingopress.NewLinguaDetector()),
//	    )
//	    pipe := lingopress.NewPipeline(orc,
//	        document.NewSegmenter(), document.NewReconstructor(), document.NewMerger())
//
//	    res, err := pipe.Run(context.Background(), lingopress.Job{
//	        Documents:  docs,
//	        TargetLang: "es_ES",
//	        Primary:    primary,
//	        Fallback:   fallback,
//	        Bilingual:  true,
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    _ = res.Translated
//	}
package lingopress
