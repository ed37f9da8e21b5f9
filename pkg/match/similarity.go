package match

import (
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// Similarity computes the Levenshtein-based similarity between two
// normalized tokens as an integer percentage in [0,100], rounded half up.
// Symmetric; two empty tokens are defined as 100% similar.
func Similarity(a, b string) int {
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 100
	}

	distance := edlib.LevenshteinDistance(a, b)
	if distance >= maxLen {
		return 0
	}
	return ((maxLen-distance)*200 + maxLen) / (2 * maxLen)
}
