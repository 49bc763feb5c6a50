package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRomanianPhone(t *testing.T) {
	tests := []struct {
		name     string
		phone    string
		expected bool
	}{
		{"plus prefix", "+40722123456", true},
		{"local prefix", "0722123456", true},
		{"double zero prefix", "0040722123456", true},
		{"bare country code", "40722123456", true},
		{"spaces and dashes", "+40 722-123-456", true},
		{"parentheses", "(0722) 123 456", true},
		{"not starting with 7", "+40622123456", false},
		{"too short", "+4072212345", false},
		{"too long", "+407221234567", false},
		{"landline local", "0212123456", false},
		{"letters", "+40abc123456", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidRomanianPhone(tt.phone))
		})
	}
}

func TestExpandPhoneVariants(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			"from plus form",
			"+40722123456",
			[]string{"+40722123456", "40722123456", "0040722123456", "0722123456"},
		},
		{
			"from local form",
			"0722123456",
			[]string{"0722123456", "+40722123456", "0040722123456", "40722123456"},
		},
		{
			"from double zero form",
			"0040722123456",
			[]string{"0040722123456", "+40722123456", "40722123456", "0722123456"},
		},
		{
			"from bare country code",
			"40722123456",
			[]string{"40722123456", "+40722123456", "0040722123456", "0722123456"},
		},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandPhoneVariants(tt.input))
		})
	}
}

func TestExpandPhoneVariantsStripsFormatting(t *testing.T) {
	variants := ExpandPhoneVariants("+40 722 123 456")
	assert.Contains(t, variants, "+40722123456")
	assert.Contains(t, variants, "0722123456")
}

func TestPhonesMatch(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected bool
	}{
		{"identical", "0722123456", "0722123456", true},
		{"different prefixes", "+40722123456", "0722123456", true},
		{"suffix either direction", "722123456", "0040722123456", true},
		{"formatted vs bare", "+40 722-123-456", "40722123456", true},
		{"different numbers", "0722123456", "0722123457", false},
		{"empty side", "", "0722123456", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PhonesMatch(tt.a, tt.b))
		})
	}
}
