// Package editdist computes Levenshtein distances for fuzzy word matching.
package editdist

// Distance returns the number of single-rune insertions, deletions and
// substitutions needed to turn a into b.
// Only two rows of the DP table are kept, sized by the shorter input.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i, ca := range ra {
		curr[0] = i + 1
		for j, cb := range rb {
			cost := 1
			if ca == cb {
				cost = 0
			}
			curr[j+1] = min(
				prev[j+1]+1, // deletion
				curr[j]+1,   // insertion
				prev[j]+cost,
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Within reports whether a and b are at most maxDist edits apart.
// The length check short-circuits the DP for obviously distant pairs.
func Within(a, b string, maxDist int) bool {
	la, lb := len([]rune(a)), len([]rune(b))
	diff := la - lb
	if diff < 0 {
		diff = -diff
	}
	if diff > maxDist {
		return false
	}
	return Distance(a, b) <= maxDist
}
