// Package phone canonicalizes contact phone numbers for comparison.
package phone

import "strings"

// Normalize strips every non-digit character from raw.
// The result may be empty.
func Normalize(raw string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
}

// SameContact reports whether a and b denote the same household.
// A blank normalized phone never matches anything, not even another blank.
func SameContact(a, b string) bool {
	na := Normalize(a)
	return na != "" && na == Normalize(b)
}

// Format renders a ten-digit number as NNN-NNN-NNNN. Anything else is
// returned unchanged.
func Format(raw string) string {
	d := Normalize(raw)
	if len(d) != 10 {
		return raw
	}
	return d[:3] + "-" + d[3:6] + "-" + d[6:]
}
