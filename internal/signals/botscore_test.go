package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBotScore(t *testing.T) {
	const longVariedText = "the quick brown fox jumps over the lazy dog near riverbank trails today"

	tests := []struct {
		name      string
		text      string
		userName  string
		followers int
		expected  float64
	}{
		{
			name:      "clean human post",
			text:      longVariedText,
			userName:  "jane_doe",
			followers: 120,
			expected:  0.0,
		},
		{
			name:      "short text only",
			text:      "hi there",
			userName:  "jane_doe",
			followers: 120,
			expected:  0.6, // short text also has <5 distinct tokens
		},
		{
			name:      "zero followers only",
			text:      longVariedText,
			userName:  "jane_doe",
			followers: 0,
			expected:  0.2,
		},
		{
			name:      "bot username only",
			text:      longVariedText,
			userName:  "NewsAutoFeed",
			followers: 50,
			expected:  0.5,
		},
		{
			name:      "spam username only",
			text:      longVariedText,
			userName:  "spam_king",
			followers: 50,
			expected:  0.5,
		},
		{
			name:      "low lexical diversity only",
			text:      "buy now buy now buy now buy now buy now",
			userName:  "jane_doe",
			followers: 120,
			expected:  0.3,
		},
		{
			name:      "all heuristics cap at 1.0",
			text:      "buy buy",
			userName:  "promo_bot",
			followers: 0,
			expected:  1.0,
		},
		{
			name:      "empty text counts as short",
			text:      "",
			userName:  "jane_doe",
			followers: 120,
			expected:  0.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, BotScore(tt.text, tt.userName, tt.followers), 1e-9)
		})
	}
}
