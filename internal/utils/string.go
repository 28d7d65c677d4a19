package utils

import (
	"context"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

var levenshteinOptions = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: levenshtein.IdenticalRunes,
}

// FindClosestString returns the candidate with the smallest edit distance to s, candidates farther than
// maxDifferences are ignored. The search stops early if ctx is done.
func FindClosestString(ctx context.Context, candidates []string, s string, maxDifferences int) (closest string, distance int, found bool) {
	runes := []rune(s)
	distance = maxDifferences + 1

	for _, candidate := range candidates {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if candidate == s {
			continue
		}

		d := levenshtein.DistanceForStrings(runes, []rune(candidate), levenshteinOptions)
		if d < distance {
			closest = candidate
			distance = d
			found = true
		}
	}

	if !found {
		distance = 0
	}
	return
}
