package signals

import (
	"strings"
	"sync"

	lingua "github.com/pemistahl/lingua-go"
)

// FallbackLanguage is returned whenever detection is not worth attempting or
// the detector has no confident answer.
const FallbackLanguage = "en"

const minDetectableLength = 10

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

func getDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromAllLanguages().
			WithPreloadedLanguageModels().
			Build()
	})
	return detector
}

// DetectLanguage returns the ISO 639-1 code for text, falling back to "en"
// for short texts or detection misses.
func DetectLanguage(text string) string {
	if len(text) < minDetectableLength {
		return FallbackLanguage
	}

	language, exists := getDetector().DetectLanguageOf(text)
	if !exists {
		return FallbackLanguage
	}

	code := strings.ToLower(language.IsoCode639_1().String())
	if len(code) != 2 {
		return FallbackLanguage
	}
	return code
}
