package metric

import "strings"

// Score is the result of a single hypothesis/reference comparison: the raw
// error count, the reference length it is normalized by, and the resulting
// rate.
//
// When RefLength is zero the rate follows the zero-reference convention: 0
// when the hypothesis is also empty, 1 otherwise. Aggregators must sum Errors
// and RefLength rather than averaging Rate values; a zero-reference pair then
// contributes its insertions to the numerator without inflating the
// denominator.
type Score struct {
	// Errors is the edit distance between hypothesis and reference tokens.
	Errors int

	// RefLength is the number of tokens in the reference.
	RefLength int

	// Rate is Errors / RefLength, or the zero-reference convention value.
	Rate float64
}

// WER computes the word error rate between hypothesis and reference. Both
// strings are trimmed and tokenized by whitespace; the edit distance over
// word tokens is normalized by the reference word count.
func WER(hypothesis, reference string) Score {
	hyp := strings.Fields(hypothesis)
	ref := strings.Fields(reference)
	return score(hyp, ref)
}

// CER computes the character error rate between hypothesis and reference.
// Identical policy to [WER], but tokens are individual Unicode code points
// after trimming.
func CER(hypothesis, reference string) Score {
	hyp := []rune(strings.TrimSpace(hypothesis))
	ref := []rune(strings.TrimSpace(reference))
	return score(hyp, ref)
}

func score[T comparable](hyp, ref []T) Score {
	if len(ref) == 0 {
		rate := 0.0
		if len(hyp) > 0 {
			rate = 1.0
		}
		return Score{Errors: len(hyp), RefLength: 0, Rate: rate}
	}

	d := EditDistance(hyp, ref)
	return Score{
		Errors:    d,
		RefLength: len(ref),
		Rate:      float64(d) / float64(len(ref)),
	}
}

// Aggregate accumulates per-pair scores into a corpus-level micro-average.
// The zero value is ready for use.
type Aggregate struct {
	// Errors is the summed error count across all added scores.
	Errors int

	// Total is the summed reference length across all added scores.
	Total int
}

// Add folds one per-pair [Score] into the aggregate.
func (a *Aggregate) Add(s Score) {
	a.Errors += s.Errors
	a.Total += s.RefLength
}

// Rate returns the micro-averaged error rate: summed errors divided by summed
// reference length. Returns 0 when nothing with a non-empty reference has
// been added.
func (a Aggregate) Rate() float64 {
	if a.Total == 0 {
		return 0
	}
	return float64(a.Errors) / float64(a.Total)
}
