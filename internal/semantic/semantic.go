// Package semantic provides the shared word-overlap similarity
// primitive used by consensus aggregation, disagreement detection and
// the retraining evaluator.
package semantic

import (
	"math"
	"strings"
)

// Similarity scores how close two captions are on a [0, 1] scale:
// |words(a) ∩ words(b)| / max(|words(a)| + |words(b)|, 1), rounded to
// three decimals. The denominator is the sum of the two set sizes, not
// their union, so identical non-empty captions score 0.5 rather than
// 1.0. This is intentionally not Jaccard similarity; downstream scores
// depend on exactly this formula.
func Similarity(a, b string) float64 {
	wa := wordSet(a)
	wb := wordSet(b)

	overlap := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			overlap++
		}
	}

	total := math.Max(float64(len(wa)+len(wb)), 1)
	return round3(float64(overlap) / total)
}

// wordSet lower-cases s and splits it into a set of
// whitespace-delimited words.
func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = struct{}{}
	}
	return set
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
