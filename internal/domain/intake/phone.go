// Package intake holds the domain types for the complaint intake flow:
// phone numbers, flow stages, attachment and voice clip drafts, and the
// submission aggregate sent to the O&M backend.
package intake

import "strings"

const (
	// MinPhoneDigits and MaxPhoneDigits bound a registered mobile number
	// after normalization.
	MinPhoneDigits = 10
	MaxPhoneDigits = 14
)

// NormalizePhone strips every non-digit character from raw user input.
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidPhone reports whether raw normalizes to an acceptable mobile number.
func ValidPhone(raw string) bool {
	n := len(NormalizePhone(raw))
	return n >= MinPhoneDigits && n <= MaxPhoneDigits
}
