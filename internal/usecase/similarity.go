package usecase

// Character-level string similarity used by the resolver and extractor.
// Ratio follows the longest-matching-blocks scheme: find the longest common
// substring, recurse on the pieces to its left and right, and score
// 2*matched/(len(a)+len(b)) in [0,1].

// similarityRatio returns the matching-blocks similarity between two strings.
// Both-empty inputs count as identical.
func similarityRatio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra)+len(rb) == 0 {
		return 1.0
	}
	matched := matchingBlockTotal(ra, rb)
	return 2.0 * float64(matched) / float64(len(ra)+len(rb))
}

// fuzzyScore is similarityRatio on a 0-100 scale, used for token-level
// matching in the extractor.
func fuzzyScore(a, b string) float64 {
	return similarityRatio(a, b) * 100.0
}

// matchingBlockTotal sums the sizes of all matching blocks between a and b.
func matchingBlockTotal(a, b []rune) int {
	ai, bi, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingBlockTotal(a[:ai], b[:bi])
	total += matchingBlockTotal(a[ai+size:], b[bi+size:])
	return total
}

// longestCommonBlock finds the longest common substring of a and b.
// Ties resolve to the earliest start in a, then in b, which keeps the
// recursion deterministic.
func longestCommonBlock(a, b []rune) (bestA, bestB, bestSize int) {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			if a[i] == b[j] {
				k := prev[j] + 1
				curr[j+1] = k
				if k > bestSize {
					bestSize = k
					bestA = i - k + 1
					bestB = j - k + 1
				}
			} else {
				curr[j+1] = 0
			}
		}
		prev, curr = curr, prev
		for j := range curr {
			curr[j] = 0
		}
	}
	return bestA, bestB, bestSize
}

// closestMatch returns the candidate most similar to word, or false when no
// candidate reaches the cutoff. Candidates are scanned in order; a later
// candidate must strictly beat the running best to replace it.
func closestMatch(word string, candidates []string, cutoff float64) (string, bool) {
	best := ""
	bestScore := 0.0
	wordLen := len([]rune(word))
	for _, cand := range candidates {
		// Length-based upper bound: skip candidates that cannot reach the cutoff
		candLen := len([]rune(cand))
		shorter := wordLen
		if candLen < shorter {
			shorter = candLen
		}
		if wordLen+candLen == 0 || 2.0*float64(shorter)/float64(wordLen+candLen) < cutoff {
			continue
		}
		score := similarityRatio(word, cand)
		if score >= cutoff && score > bestScore {
			best = cand
			bestScore = score
		}
	}
	return best, best != ""
}
