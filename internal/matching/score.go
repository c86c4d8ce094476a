package matching

import "fmt"

// Score returns the fraction of required skills present in the candidate set,
// always in [0,1]. Callers skip postings with an empty required set before
// scoring; the max-with-1 denominator floor stays anyway so a future caller
// that forgets the exclusion gets 0 instead of a panic.
func Score(candidate, required *SkillSet) float64 {
	matched := 0
	for _, token := range required.Tokens() {
		if candidate.Contains(token) {
			matched++
		}
	}

	denominator := required.Len()
	if denominator < 1 {
		denominator = 1
	}

	return float64(matched) / float64(denominator)
}

// FormatScore renders a [0,1] score as an integer percentage string.
// The percentage is truncated, not rounded: 2/3 renders as "66%".
// Consumers rely on this exact format for display.
func FormatScore(score float64) string {
	return fmt.Sprintf("%d%%", int(score*100))
}
