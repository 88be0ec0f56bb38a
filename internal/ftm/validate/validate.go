// Package validate implements the checksum validators for
// jurisdiction-specific and ISO-standard identifiers: Russian OGRN/INN
// company registration numbers, MMSI/IMO vessel identifiers, SWIFT BIC,
// ISIN securities codes, and LEI entity codes. Every validator is a pure
// boolean predicate over the raw (not yet normalized) string.
package validate

import (
	"math/big"
	"regexp"
)

var allDigits = regexp.MustCompile(`^[0-9]+$`)

// OGRN validates a 13-digit Russian primary state registration number:
// check = (N/10 mod 11) mod 10, where N is the 12-digit prefix, compared
// against the 13th digit.
func OGRN(s string) bool {
	if len(s) != 13 || !allDigits.MatchString(s) {
		return false
	}
	n := new(big.Int)
	n.SetString(s[:12], 10)
	n.Div(n, big.NewInt(10))
	n.Mod(n, big.NewInt(11))
	n.Mod(n, big.NewInt(10))
	return byte(n.Int64())+'0' == s[12]
}

var inn10Coef = [9]int{2, 4, 10, 3, 5, 9, 4, 6, 8}
var inn12Coef1 = [11]int{7, 2, 4, 10, 3, 5, 9, 4, 6, 8, 0}
var inn12Coef2 = [11]int{3, 7, 2, 4, 10, 3, 5, 9, 4, 6, 8}

func weightedCheckDigit(digits []byte, coef []int) int {
	sum := 0
	for i, c := range coef {
		sum += c * int(digits[i]-'0')
	}
	return (sum % 11) % 10
}

// INN validates a 10- or 12-digit Russian taxpayer identification number.
func INN(s string) bool {
	if !allDigits.MatchString(s) {
		return false
	}
	switch len(s) {
	case 10:
		d := []byte(s)
		check := weightedCheckDigit(d, inn10Coef[:])
		return byte(check)+'0' == s[9]
	case 12:
		d := []byte(s)
		check1 := weightedCheckDigit(d, inn12Coef1[:])
		check2 := weightedCheckDigit(d, inn12Coef2[:])
		return byte(check1)+'0' == s[10] && byte(check2)+'0' == s[11]
	default:
		return false
	}
}

// MMSI validates a 9-digit Maritime Mobile Service Identity.
func MMSI(s string) bool {
	return len(s) == 9 && allDigits.MatchString(s)
}

// IMO validates a 9-digit IMO ship identification number. IMO carries a
// documented mod-10 check digit (sum of digits 1-6 weighted 7..2 mod 10
// equals digit 7) but SPEC_FULL.md gates this at length-and-digits only,
// matching the reference implementation's treatment of IMO and MMSI as
// the same 9-digit shape.
func IMO(s string) bool {
	return len(s) == 9 && allDigits.MatchString(s)
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isAlnum(b byte) bool {
	return isAlpha(b) || (b >= '0' && b <= '9')
}

// BIC validates an 8- or 11-character SWIFT Business Identifier Code:
// bank code (4 letters), country code (2 letters), location code (2
// alphanumeric), and an optional 3-character branch code.
func BIC(s string) bool {
	if len(s) != 8 && len(s) != 11 {
		return false
	}
	for i := 0; i < 6; i++ {
		if !isAlpha(s[i]) {
			return false
		}
	}
	for i := 6; i < 8; i++ {
		if !isAlnum(s[i]) {
			return false
		}
	}
	if len(s) == 11 {
		for i := 8; i < 11; i++ {
			if !isAlnum(s[i]) {
				return false
			}
		}
	}
	return true
}

// ISIN validates a 12-character International Securities Identification
// Number: 2-letter country prefix, 9 alphanumeric characters, 1 decimal
// check digit verified via the Luhn algorithm after mapping letters to
// two-digit codes (A=10 .. Z=35).
func ISIN(s string) bool {
	if len(s) != 12 {
		return false
	}
	if !isAlpha(s[0]) || !isAlpha(s[1]) {
		return false
	}
	for i := 2; i < 11; i++ {
		if !isAlnum(s[i]) {
			return false
		}
	}
	if s[11] < '0' || s[11] > '9' {
		return false
	}

	var digits []int
	for i := 0; i < 11; i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			digits = append(digits, int(c-'0'))
		case c >= 'A' && c <= 'Z':
			code := int(c-'A') + 10
			digits = append(digits, code/10, code%10)
		case c >= 'a' && c <= 'z':
			code := int(c-'a') + 10
			digits = append(digits, code/10, code%10)
		}
	}
	digits = append(digits, int(s[11]-'0'))

	return luhnValid(digits)
}

func luhnValid(digits []int) bool {
	sum := 0
	// Double every second digit counting from the rightmost (the check
	// digit itself is never doubled).
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

var leiAlnum = regexp.MustCompile(`^[0-9A-Z]{18}[0-9]{2}$`)

// LEI validates a 20-character ISO 17442 Legal Entity Identifier: 18
// alphanumeric characters followed by 2 decimal check digits, verified
// with a mod-97 checksum after mapping letters to two-digit codes
// (A=10 .. Z=35), the same scheme ISO 7064 MOD 97-10 uses for IBAN.
func LEI(s string) bool {
	if !leiAlnum.MatchString(s) {
		return false
	}
	var sb []byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			sb = append(sb, c)
		} else {
			code := int(c-'A') + 10
			sb = append(sb, []byte(itoa(code))...)
		}
	}
	n := new(big.Int)
	n.SetString(string(sb), 10)
	n.Mod(n, big.NewInt(97))
	return n.Int64() == 1
}

func itoa(n int) string {
	if n < 10 {
		return string(rune('0' + n))
	}
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}
