package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferRegion(t *testing.T) {
	tests := []struct {
		name         string
		userLocation string
		language     string
		expected     string
	}{
		{"explicit location wins", "Berlin", "en", "Berlin"},
		{"english maps to US", "", "en", "US"},
		{"german maps to DE", "", "de", "DE"},
		{"japanese maps to JP", "", "ja", "JP"},
		{"unmapped language", "", "eo", RegionUnknown},
		{"empty language", "", "", RegionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InferRegion(tt.userLocation, tt.language))
		})
	}
}

func TestDetectLanguageFallbacks(t *testing.T) {
	assert.Equal(t, FallbackLanguage, DetectLanguage(""))
	assert.Equal(t, FallbackLanguage, DetectLanguage("short"))
}
