package valueobject

import "strings"

// NormalizeMobile converts a Kenyan phone number in any common local format
// to the canonical 254XXXXXXXXX form used by the SMS gateway.
//
// Rules:
//   - all non-digit characters are stripped first
//   - 9 digits starting with 7  -> prefixed with 254
//   - 10 digits starting with 0 -> leading 0 dropped, prefixed with 254
//   - 12 digits starting with 254 -> returned unchanged
//   - anything else with at least 9 digits -> 254 + last 9 digits
//
// Returns ("", false) for empty input or fewer than 9 digits.
func NormalizeMobile(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 9 && digits[0] == '7':
		return "254" + digits, true
	case len(digits) == 10 && digits[0] == '0':
		return "254" + digits[1:], true
	case len(digits) == 12 && strings.HasPrefix(digits, "254"):
		return digits, true
	case len(digits) >= 9:
		return "254" + digits[len(digits)-9:], true
	default:
		return "", false
	}
}
