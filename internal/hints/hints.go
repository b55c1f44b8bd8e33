// Package hints provides fuzzy suggestions and actionable error hints for
// common failure scenarios. Hints are formatted consistently as
// "\n  hint: <text>" for appending to error messages.
package hints

import "strings"

// MaxSuggestDistance is the largest edit distance at which a candidate is
// still offered as a "did you mean" suggestion.
const MaxSuggestDistance = 2

// ClosestMatch returns the candidate with the smallest Levenshtein distance
// to input, provided that distance is at most MaxSuggestDistance. Ties keep
// the earliest candidate. This is the single fuzzy matcher used for both
// directive names and directive values.
func ClosestMatch(input string, candidates []string) (string, bool) {
	best := ""
	bestDist := MaxSuggestDistance + 1
	for _, c := range candidates {
		if d := levenshtein(input, c); d < bestDist {
			best = c
			bestDist = d
		}
	}
	if bestDist > MaxSuggestDistance {
		return "", false
	}
	return best, true
}

// levenshtein computes the edit distance between a and b with the standard
// dynamic-programming algorithm, using a rolling pair of rows.
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minOf(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func minOf(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// ForDidYouMean returns a hint suggesting the closest valid spelling.
func ForDidYouMean(suggestion string) string {
	if suggestion == "" {
		return ""
	}
	return format("did you mean " + quote(suggestion) + "?")
}

// ForValidValues returns a hint listing the valid values.
func ForValidValues(valid []string) string {
	if len(valid) == 0 {
		return ""
	}
	return format("valid values: " + strings.Join(valid, ", "))
}

// ForAvailable returns a hint listing available names.
func ForAvailable(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForUsage returns a one-line usage example hint.
func ForUsage(example string) string {
	if example == "" {
		return ""
	}
	return "\n  usage: " + example
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func quote(s string) string {
	return `"` + s + `"`
}
