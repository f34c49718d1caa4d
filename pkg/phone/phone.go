// Package phone normalizes user-entered phone numbers to E.164 form.
package phone

import "strings"

// DefaultCountryCode is prepended to bare ten-digit numbers.
const DefaultCountryCode = "+1"

// Normalize converts free-form input into an E.164 number. All characters
// other than digits are stripped. A ten-digit number is assumed to be
// domestic and receives the default country code; anything else keeps its
// digits and gains a leading plus.
func Normalize(input string) string {
	hadPlus := strings.HasPrefix(strings.TrimSpace(input), "+")

	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}

	if !hadPlus && len(digits) == 10 {
		return DefaultCountryCode + digits
	}
	return "+" + digits
}

// Valid reports whether the input normalizes to a plausible E.164 number:
// a plus followed by 8 to 15 digits.
func Valid(input string) bool {
	n := Normalize(input)
	return len(n) >= 9 && len(n) <= 16
}
