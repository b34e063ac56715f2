package domain

import "strings"

// NormalizeHumanName trims leading/trailing whitespace and collapses internal whitespace runs.
// It is applied to names, city and degree on import.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeSpecialties trims each tag and drops empty ones, keeping order.
func NormalizeSpecialties(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = NormalizeHumanName(t)
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}
