package completion

import "unicode"

// Scorer calculates match scores.
type Scorer interface {
	// Score rates a match. Higher is better.
	//
	//   - query: the normalized query runes
	//   - original: candidate runes with their original case
	//   - text: normalized candidate runes
	//   - positions: indexes of the matched runes in text
	Score(query, original, text []rune, positions []int) int
}

// DefaultScorer implements the default weighting.
type DefaultScorer struct{}

// Score implements Scorer.
func (DefaultScorer) Score(query, original, text []rune, positions []int) int {
	if len(positions) == 0 {
		return 0
	}
	score := 100

	for i := 1; i < len(positions); i++ {
		if positions[i] == positions[i-1]+1 {
			score += 20
		}
	}
	for _, idx := range positions {
		if isWordBoundary(original, idx) {
			score += 15
		}
	}
	if positions[0] == 0 {
		score += 25
	}

	if gap := positions[len(positions)-1] - positions[0] - len(positions) + 1; gap > 0 {
		score -= gap * 2
	}
	score -= positions[0]

	if len(text) < 20 {
		score += 20 - len(text)
	}
	if hasRunePrefix(text, query) {
		score += 50
	}
	return max(score, 1)
}

func hasRunePrefix(text, prefix []rune) bool {
	if len(text) < len(prefix) {
		return false
	}
	for i, r := range prefix {
		if text[i] != r {
			return false
		}
	}
	return true
}

// isWordBoundary reports whether the rune at idx starts a word.
func isWordBoundary(runes []rune, idx int) bool {
	if idx == 0 {
		return true
	}
	if idx >= len(runes) {
		return false
	}
	prev, cur := runes[idx-1], runes[idx]
	if unicode.IsSpace(prev) || unicode.IsPunct(prev) {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(cur)
}
