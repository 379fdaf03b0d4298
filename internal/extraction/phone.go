package extraction

import (
	"regexp"
	"sort"
	"strings"
)

// maxScanDepth bounds the fallback tree walk so a maliciously nested payload
// cannot drive unbounded recursion.
const maxScanDepth = 6

// phoneShape matches a generic phone-number-looking string: an optional +,
// then 10-20 digits allowing internal spaces and hyphens.
var phoneShape = regexp.MustCompile(`^\+?[0-9][0-9 \-]{8,24}$`)

// NormalizePhone strips whitespace and hyphens, keeping a leading +.
func NormalizePhone(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-':
			// dropped
		default:
			// Anything else disqualifies the candidate later; keep it so
			// LooksLikePhone rejects the value instead of silently mangling it.
			b.WriteRune(r)
		}
	}
	return b.String()
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SameNumber compares two phone strings by digits only, ignoring formatting
// and the international prefix marker.
func SameNumber(a, b string) bool {
	da, db := digitsOf(a), digitsOf(b)
	return da != "" && da == db
}

// LooksLikePhone reports whether s is a plausible dialable number: the right
// shape and 10 to 20 digits.
func LooksLikePhone(s string) bool {
	s = strings.TrimSpace(s)
	if !phoneShape.MatchString(s) {
		return false
	}
	n := len(digitsOf(s))
	return n >= 10 && n <= 20
}

// scanForPhone recursively walks an untyped payload tree collecting the first
// phone-shaped string that does not match the excluded (gateway) number.
// Map keys are visited in sorted order so the result is deterministic.
func scanForPhone(v any, exclude string, depth int) (string, bool) {
	if depth > maxScanDepth {
		return "", false
	}
	switch t := v.(type) {
	case string:
		if LooksLikePhone(t) && !SameNumber(t, exclude) {
			return NormalizePhone(t), true
		}
	case []any:
		for _, item := range t {
			if found, ok := scanForPhone(item, exclude, depth+1); ok {
				return found, true
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if found, ok := scanForPhone(t[k], exclude, depth+1); ok {
				return found, true
			}
		}
	}
	return "", false
}
