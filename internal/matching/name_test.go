package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "Popescu Ion", "popescu ion"},
		{"diacritics stripped", "Ștefănescu Mădălina", "stefanescu madalina"},
		{"whitespace collapsed", "  Popescu   Ion  ", "popescu ion"},
		{"tabs and runs", "Popescu\t \tIon", "popescu ion"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.input))
		})
	}
}

func TestNormalizeNameIdempotent(t *testing.T) {
	inputs := []string{"Ștefănescu Mădălina", "  POPESCU ion  ", "Îndrăgostiță Ană-Maria"}
	for _, input := range inputs {
		once := NormalizeName(input)
		assert.Equal(t, once, NormalizeName(once))
	}
}

func TestExtractNameParts(t *testing.T) {
	parts := ExtractNameParts("Popescu Ion Andrei")
	assert.Equal(t, "popescu", parts.FamilyName)
	assert.Equal(t, "ion andrei", parts.GivenNames)
	assert.Equal(t, []string{"popescu", "ion", "andrei"}, parts.Parts)

	single := ExtractNameParts("Popescu")
	assert.Equal(t, "popescu", single.FamilyName)
	assert.Empty(t, single.GivenNames)

	empty := ExtractNameParts("   ")
	assert.Empty(t, empty.Parts)
}

func TestMatchNames(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		order     string
		expected  bool
	}{
		{"identical", "Popescu Ion", "Popescu Ion", true},
		{"identical after diacritics", "Ștefănescu Ană", "Stefanescu Ana", true},
		{"family name only input", "Popescu", "Popescu Ion", true},
		{"given name agrees", "Popescu Ion", "Popescu Ion Andrei", true},
		{"family agrees given differs", "Popescu Maria", "Popescu Ion", true},
		{"single given name token", "Ion", "Popescu Ion", true},
		{"reordered full name", "Ion Popescu", "Popescu Ion", true},
		{"different family multi token", "Ionescu Maria", "Popescu Ion", false},
		{"short single token", "Io", "Popescu Ion", false},
		{"unrelated names", "Georgescu Dan", "Popescu Ion", false},
		{"empty input", "", "Popescu Ion", false},
		{"empty order", "Popescu Ion", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchNames(tt.input, tt.order))
		})
	}
}

func TestMatchNamesStrictGivenName(t *testing.T) {
	strict := NameMatcher{StrictGivenName: true}

	// Family agreement alone no longer authorizes when both carry given
	// names that disagree.
	assert.False(t, strict.Match("Popescu Maria", "Popescu Ion"))
	assert.True(t, strict.Match("Popescu Ion", "Popescu Ion Andrei"))
	assert.True(t, strict.Match("Popescu", "Popescu Ion"))

	permissive := NameMatcher{}
	assert.True(t, permissive.Match("Popescu Maria", "Popescu Ion"))
}
