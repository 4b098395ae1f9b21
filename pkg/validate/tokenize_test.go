package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "lowercases and drops stopwords",
			input:    "The Quick Brown Fox",
			expected: []string{"quick", "brown", "fox"},
		},
		{
			name:     "strips punctuation",
			input:    "AI-powered chatbots, finally!",
			expected: []string{"powered", "chatbots", "finally"},
		},
		{
			name:     "drops short tokens",
			input:    "go to be an it",
			expected: nil,
		},
		{
			name:     "drops generic modifiers",
			input:    "a great new marketing tool",
			expected: []string{"marketing", "tool"},
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
		{
			name:     "whitespace only",
			input:    "   \t\n  ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tokenize(tt.input))
		})
	}
}

func TestTokenizeKeepsDigits(t *testing.T) {
	// "q3" falls to the length filter; digit-only tokens survive it.
	assert.Equal(t, []string{"2025", "forecast"}, Tokenize("Q3 2025 forecast?"))
}
