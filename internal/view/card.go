package view

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reFourDigits  = regexp.MustCompile(`(\d{4})`)
	reExpiryParts = regexp.MustCompile(`(\d{2})(\d{0,2})`)
)

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

// FormatCardNumber groups digits by four, e.g. "4242424242424242" becomes
// "4242 4242 4242 4242". The result never exceeds 19 characters.
func FormatCardNumber(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	s = reFourDigits.ReplaceAllString(s, "$1 ")
	return truncate(strings.TrimSpace(s), 19)
}

// FormatExpiry keeps digits only and inserts the slash: "1228" becomes "12/28".
func FormatExpiry(s string) string {
	s = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if loc := reExpiryParts.FindStringSubmatchIndex(s); loc != nil {
		s = s[:loc[0]] + reExpiryParts.ReplaceAllString(s[loc[0]:loc[1]], "${1}/${2}") + s[loc[1]:]
	}
	return truncate(s, 5)
}

// FormatCVV keeps the first three characters.
func FormatCVV(s string) string { return truncate(s, 3) }
