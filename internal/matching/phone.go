package matching

import "strings"

// Romanian mobile numbers are nine digits starting with 7, reachable behind
// four interchangeable prefixes: +40, 0040, 40 and the local 0.

// cleanPhone removes whitespace, dashes and parentheses.
func cleanPhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-', '(', ')':
			return -1
		}
		return r
	}, phone)
}

// digitsOnly strips everything except decimal digits.
func digitsOnly(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isSubscriberNumber(digits string) bool {
	if len(digits) != 9 || digits[0] != '7' {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsValidRomanianPhone reports whether the input is a Romanian mobile number
// in one of the four accepted forms: +40XXXXXXXXX, 0XXXXXXXXX, 0040XXXXXXXXX
// or 40XXXXXXXXX, where the subscriber part is nine digits starting with 7.
func IsValidRomanianPhone(phone string) bool {
	cleaned := cleanPhone(strings.TrimSpace(phone))
	if cleaned == "" {
		return false
	}

	switch {
	case strings.HasPrefix(cleaned, "+40"):
		return isSubscriberNumber(cleaned[3:])
	case strings.HasPrefix(cleaned, "0040"):
		return isSubscriberNumber(cleaned[4:])
	case strings.HasPrefix(cleaned, "40") && len(cleaned) == 11:
		return isSubscriberNumber(cleaned[2:])
	case strings.HasPrefix(cleaned, "0") && len(cleaned) == 10:
		return isSubscriberNumber(cleaned[1:])
	}

	return false
}

// ExpandPhoneVariants generates every equivalent representation of a phone
// number so a single input can be matched against a remote system that stores
// numbers inconsistently. The raw (cleaned) input always comes first;
// duplicates are removed while preserving order.
func ExpandPhoneVariants(raw string) []string {
	if raw == "" {
		return nil
	}

	// Keep digits and a leading plus only.
	var b strings.Builder
	for i, r := range raw {
		if r >= '0' && r <= '9' || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return nil
	}

	variants := []string{cleaned}

	switch {
	case strings.HasPrefix(cleaned, "+40"):
		withoutPlus := cleaned[1:]
		variants = append(variants,
			withoutPlus,
			"00"+withoutPlus,
			"0"+withoutPlus[2:],
		)
	case strings.HasPrefix(cleaned, "0040"):
		variants = append(variants,
			"+40"+cleaned[4:],
			cleaned[2:],
			"0"+cleaned[4:],
		)
	case strings.HasPrefix(cleaned, "40") && len(cleaned) >= 10:
		variants = append(variants,
			"+"+cleaned,
			"00"+cleaned,
			"0"+cleaned[2:],
		)
	case strings.HasPrefix(cleaned, "0") && len(cleaned) == 10:
		variants = append(variants,
			"+40"+cleaned[1:],
			"0040"+cleaned[1:],
			"40"+cleaned[1:],
		)
	}

	seen := make(map[string]struct{}, len(variants))
	deduped := variants[:0]
	for _, v := range variants {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		deduped = append(deduped, v)
	}

	return deduped
}

// PhonesMatch compares two phone strings, tolerating missing country codes:
// after reducing both to bare digits, a suffix relationship in either
// direction counts as a match.
func PhonesMatch(a, b string) bool {
	da, db := digitsOnly(a), digitsOnly(b)
	if da == "" || db == "" {
		return false
	}
	return da == db || strings.HasSuffix(da, db) || strings.HasSuffix(db, da)
}
