package normalize

import "strings"

// Upstream payloads are version-skewed: the same logical value may arrive
// under a Korean tag, an English tag or an abbreviation depending on the API
// revision. Adapters list every known candidate in priority order and the
// first non-empty one wins, so supporting a new field name is a table change,
// not new control flow.

// PickString returns the first non-blank candidate.
func PickString(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return strings.TrimSpace(c)
		}
	}
	return ""
}

// PickAmount parses candidates as manwon amounts and returns the first
// positive one.
func PickAmount(candidates ...string) int {
	for _, c := range candidates {
		if v := ParseAmount(c); v > 0 {
			return v
		}
	}
	return 0
}

// PickFloat parses candidates as floats and returns the first positive one.
func PickFloat(candidates ...string) float64 {
	for _, c := range candidates {
		if v := ParseFloat(c); v > 0 {
			return v
		}
	}
	return 0
}
