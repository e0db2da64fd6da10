// Package cpf validates and formats Brazilian CPF numbers (the 11-digit
// national identity number). All functions are pure.
package cpf

import (
	"fmt"
	"strings"
)

// Normalize strips every non-digit character from raw.
func Normalize(raw string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
}

// IsValid reports whether raw carries a checksum-valid CPF. The input may be
// masked or bare; it is normalized first. Repeated-digit sequences like
// "00000000000" pass the checksum arithmetic but are not issued, so they are
// rejected up front.
func IsValid(raw string) bool {
	digits := Normalize(raw)
	if len(digits) != 11 {
		return false
	}
	if allSame(digits) {
		return false
	}
	return checkDigit(digits, 9) && checkDigit(digits, 10)
}

// Format renders an 11-digit CPF as XXX.XXX.XXX-XX. Anything that is not
// exactly 11 digits is returned unchanged.
func Format(digits string) string {
	if len(digits) != 11 || Normalize(digits) != digits {
		return digits
	}
	return fmt.Sprintf("%s.%s.%s-%s", digits[:3], digits[3:6], digits[6:9], digits[9:11])
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// checkDigit verifies the check digit at position pos (9 or 10) using the
// standard weighted mod-11 rule: digits[0..pos-1] weighted pos+1 down to 2,
// remainder = (sum*10) mod 11, with 10 and 11 collapsing to 0.
func checkDigit(digits string, pos int) bool {
	sum := 0
	for i := 0; i < pos; i++ {
		sum += int(digits[i]-'0') * (pos + 1 - i)
	}
	remainder := (sum * 10) % 11
	if remainder == 10 || remainder == 11 {
		remainder = 0
	}
	return remainder == int(digits[pos]-'0')
}
