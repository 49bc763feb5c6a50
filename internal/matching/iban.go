package matching

import (
	"errors"
	"math/big"
	"strings"
)

// Romanian IBAN: "RO" + 2 check digits + 4-letter bank code + 16 alphanumeric
// characters, 24 characters total, validated with the MOD-97-10 check.

const romanianIBANLength = 24

var (
	ErrIBANLength     = errors.New("iban must be exactly 24 characters")
	ErrIBANCountry    = errors.New("iban must start with RO")
	ErrIBANCharset    = errors.New("iban contains invalid characters")
	ErrIBANCheckDigit = errors.New("iban check digits are invalid")
)

var ibanModulus = big.NewInt(97)

// ValidateRomanianIBAN checks length, country code, charset and the
// MOD-97-10 checksum of a Romanian IBAN. Spaces are ignored and letters are
// uppercased before validation.
func ValidateRomanianIBAN(iban string) error {
	cleaned := strings.ToUpper(strings.ReplaceAll(iban, " ", ""))

	if len(cleaned) != romanianIBANLength {
		return ErrIBANLength
	}
	if !strings.HasPrefix(cleaned, "RO") {
		return ErrIBANCountry
	}
	for _, r := range cleaned[2:] {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return ErrIBANCharset
		}
	}

	// Move the country code and check digits to the end, substitute letters
	// with their numeric values (A=10..Z=35) and reduce modulo 97.
	rearranged := cleaned[4:] + cleaned[:4]
	var numeric strings.Builder
	for _, r := range rearranged {
		if r >= 'A' && r <= 'Z' {
			numeric.WriteString(big.NewInt(int64(r - 'A' + 10)).String())
		} else {
			numeric.WriteRune(r)
		}
	}

	value, ok := new(big.Int).SetString(numeric.String(), 10)
	if !ok {
		return ErrIBANCharset
	}
	if new(big.Int).Mod(value, ibanModulus).Int64() != 1 {
		return ErrIBANCheckDigit
	}

	return nil
}

// FormatIBAN groups a valid-length IBAN into blocks of four for display.
func FormatIBAN(iban string) string {
	cleaned := strings.ToUpper(strings.ReplaceAll(iban, " ", ""))
	if len(cleaned) != romanianIBANLength {
		return iban
	}

	var b strings.Builder
	for i := 0; i < len(cleaned); i += 4 {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(cleaned[i : i+4])
	}
	return b.String()
}
