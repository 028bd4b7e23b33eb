package core

import (
	"fmt"
)

// safeString null-terminates a string for handover to the C API
func safeString(s string) string {
	return fmt.Sprintf("%s\x00", s)
}

func safeStrings(sgs []string) []string {
	safe := []string{}
	for _, s := range sgs {
		safe = append(safe, fmt.Sprintf("%s\x00", s))
	}
	return safe
}

// missingStrings returns every entry of required that is absent from
// available. Comparison ignores trailing null terminators on either
// side, since enumerated names come back trimmed while requested
// names may already be escaped.
func missingStrings(required, available []string) []string {
	have := make(map[string]struct{}, len(available))
	for _, s := range available {
		have[trimNul(s)] = struct{}{}
	}
	var missing []string
	for _, s := range required {
		if _, ok := have[trimNul(s)]; !ok {
			missing = append(missing, trimNul(s))
		}
	}
	return missing
}

func trimNul(s string) string {
	for len(s) > 0 && s[len(s)-1] == '\x00' {
		s = s[:len(s)-1]
	}
	return s
}

func clampUint32(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
