package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    "   \n\t  ",
			expected: "",
		},
		{
			name:     "bare url removed",
			input:    "check this https://example.com/post out",
			expected: "check this out",
		},
		{
			name:     "www url removed",
			input:    "see www.example.com for details",
			expected: "see for details",
		},
		{
			name:     "markdown link keeps anchor text",
			input:    "read [the announcement](https://example.com/a) today",
			expected: "read the announcement today",
		},
		{
			name:     "subreddit mention removed",
			input:    "crossposted from /r/golang yesterday",
			expected: "crossposted from yesterday",
		},
		{
			name:     "user mention removed",
			input:    "thanks /u/gopher123 for the tip",
			expected: "thanks for the tip",
		},
		{
			name:     "whitespace collapsed",
			input:    "too   many\n\nspaces   here",
			expected: "too many spaces here",
		},
		{
			name:     "markdown emphasis stripped",
			input:    "this is **really** important",
			expected: "this is really important",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Text(tt.input))
		})
	}
}

func TestTextDeterministic(t *testing.T) {
	input := "a [link](https://x.io) and /r/test with  spaces https://y.io"

	first := Text(input)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Text(input))
	}
}
