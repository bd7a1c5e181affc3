package hebcal

import "strings"

// Unicode block of Hebrew cantillation marks and vowel points.
const (
	nikudLow  = 0x0591
	nikudHigh = 0x05C7
)

// StripNikud removes Hebrew vowel points and cantillation marks from s.
// Empty input is rejected.
func StripNikud(s string) (string, error) {
	if s == "" {
		return "", &ValidationError{Field: "text", Message: "input text cannot be empty"}
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= nikudLow && r <= nikudHigh {
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}

// stripNikudLossy is StripNikud for optional fields: empty in, empty out.
func stripNikudLossy(s string) string {
	if s == "" {
		return ""
	}
	out, _ := StripNikud(s)
	return out
}
