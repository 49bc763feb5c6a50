// Package matching implements the identity-matching rules used to decide
// whether a customer-supplied name, phone or order number corresponds to an
// order held by the commerce platform.
package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NameParts holds a normalized name split into its components. The first
// whitespace-delimited token is treated as the family name by convention.
type NameParts struct {
	FamilyName string
	GivenNames string
	Parts      []string
}

// minGivenNameLen is the minimum token length considered meaningful when
// comparing given names. Shorter tokens (initials, particles) are skipped.
const minGivenNameLen = 3

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName lowercases a name, strips combining diacritical marks and
// collapses whitespace runs. Idempotent.
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}

	normalized := strings.ToLower(strings.TrimSpace(name))

	if stripped, _, err := transform.String(diacriticStripper, normalized); err == nil {
		normalized = stripped
	}

	return strings.Join(strings.Fields(normalized), " ")
}

// ExtractNameParts normalizes a full name and splits it into family name and
// given names.
func ExtractNameParts(fullName string) NameParts {
	parts := strings.Fields(NormalizeName(fullName))

	switch len(parts) {
	case 0:
		return NameParts{Parts: []string{}}
	case 1:
		return NameParts{FamilyName: parts[0], Parts: parts}
	default:
		return NameParts{
			FamilyName: parts[0],
			GivenNames: strings.Join(parts[1:], " "),
			Parts:      parts,
		}
	}
}

// NameMatcher compares customer-supplied names against order billing names.
//
// With StrictGivenName disabled (the default, mirroring the storefront's
// behavior) agreement on the family name alone is sufficient: the given-name
// comparison can confirm a match but never invalidate one. Enabling
// StrictGivenName requires a given-name token to also agree whenever both
// sides carry given names.
type NameMatcher struct {
	StrictGivenName bool
}

// Match reports whether inputName identifies the same person as orderName.
func (m NameMatcher) Match(inputName, orderName string) bool {
	if inputName == "" || orderName == "" {
		return false
	}

	normalizedInput := NormalizeName(inputName)
	normalizedOrder := NormalizeName(orderName)

	if normalizedInput == normalizedOrder {
		return true
	}

	input := ExtractNameParts(inputName)
	order := ExtractNameParts(orderName)

	if len(input.Parts) == 0 || len(order.Parts) == 0 {
		return false
	}

	if input.FamilyName == order.FamilyName {
		// Family-name-only input is accepted.
		if len(input.Parts) == 1 {
			return true
		}

		if len(input.Parts) > 1 && len(order.Parts) > 1 {
			if givenNameTokenMatches(input.Parts[1:], order.Parts[1:]) {
				return true
			}
			if m.StrictGivenName {
				return false
			}
		}

		return true
	}

	// A single input token may be the customer's given name while the order
	// stores "Family Given": check it against every non-family token.
	if len(input.Parts) == 1 && len(input.Parts[0]) >= minGivenNameLen {
		for _, part := range order.Parts[1:] {
			if input.Parts[0] == part {
				return true
			}
		}
	}

	// Reordered full name: "Given Family" entered against a stored
	// "Family Given" is accepted when both tokens agree.
	if len(input.Parts) > 1 && len(order.Parts) > 1 && len(input.FamilyName) >= minGivenNameLen {
		if containsToken(order.Parts[1:], input.FamilyName) && containsToken(input.Parts[1:], order.FamilyName) {
			return true
		}
	}

	return false
}

func containsToken(tokens []string, want string) bool {
	for _, token := range tokens {
		if token == want {
			return true
		}
	}
	return false
}

// MatchNames compares two names using the default permissive matcher.
func MatchNames(inputName, orderName string) bool {
	return NameMatcher{}.Match(inputName, orderName)
}

func givenNameTokenMatches(inputGiven, orderGiven []string) bool {
	for _, in := range inputGiven {
		if len(in) < minGivenNameLen {
			continue
		}
		for _, og := range orderGiven {
			if in == og {
				return true
			}
		}
	}
	return false
}
