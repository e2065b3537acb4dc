package excerpt

import "unicode/utf8"

// charsPerToken is the heuristic divisor for token estimation. English text
// averages ~4 chars per token and CJK ~1.5; 3 is a middle ground that
// slightly over-estimates, which is the safe direction for a prompt budget.
const charsPerToken = 3

// EstimateTokens gives a fast token count estimate without a tokenizer
// dependency: utf8 rune count / 3, minimum 1 for non-empty text.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	est := n / charsPerToken
	if est < 1 {
		return 1
	}
	return est
}
