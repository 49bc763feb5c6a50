package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeOrderNumber(t *testing.T) {
	// All customer spellings of the same order reduce to one search key.
	for _, input := range []string{"#MX12345", "MX12345", "12345", "#12345", " mx12345 "} {
		assert.Equal(t, "12345", NormalizeOrderNumber(input), "input %q", input)
	}
}

func TestIsValidOrderNumberFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"12345", true},
		{"#MX12345", true},
		{"MX0001", true},
		{"", false},
		{"#", false},
		{"MX", false},
		{"12a45", false},
		{"ORDER-1", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, IsValidOrderNumberFormat(tt.input), "input %q", tt.input)
	}
}
