// Package metric quantifies the discrepancy between an ASR hypothesis and a
// human reference: word error rate, character error rate, and an optional
// embedding-based semantic distance.
//
// WER and CER are edit distance normalized by reference length. Corpus-level
// scores must be micro-averaged — numerators and denominators summed
// separately across all pairs and divided once — which is what [Aggregate]
// enforces. Averaging per-pair rates would let very short references dominate
// the corpus score.
package metric

// EditDistance returns the Levenshtein distance between two token sequences,
// with insertion, deletion, and substitution each costing 1.
//
// The computation uses the standard dynamic-programming recurrence with a
// single rolling row, so memory is O(min(len(a), len(b))) and time is
// O(len(a) × len(b)). Deterministic and symmetric.
func EditDistance[T comparable](a, b []T) int {
	// Roll over the shorter sequence.
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i, ca := range a {
		curr[0] = i + 1
		for j, cb := range b {
			ins := prev[j+1] + 1
			del := curr[j] + 1
			sub := prev[j]
			if ca != cb {
				sub++
			}
			curr[j+1] = min(ins, del, sub)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
