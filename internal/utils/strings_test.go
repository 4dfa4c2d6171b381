package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTickers(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "single value",
			input:    "aapl",
			expected: []string{"AAPL"},
		},
		{
			name:     "varied spacing",
			input:    "MSFT,  nvda , brk.b",
			expected: []string{"MSFT", "NVDA", "BRK.B"},
		},
		{
			name:     "duplicates dropped",
			input:    "AAPL,aapl, AAPL",
			expected: []string{"AAPL"},
		},
		{
			name:     "only spaces",
			input:    "   ",
			expected: nil,
		},
		{
			name:     "multiple commas",
			input:    ",,TSLA,,GOOG,,",
			expected: []string{"TSLA", "GOOG"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseTickers(tt.input))
		})
	}
}

func TestNormalizeTicker(t *testing.T) {
	assert.Equal(t, "AAPL", NormalizeTicker("  aapl\t"))
	assert.Equal(t, "", NormalizeTicker("   "))
}
