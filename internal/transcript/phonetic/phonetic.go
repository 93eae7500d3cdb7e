// Package phonetic implements the [transcript.GlossaryMatcher] interface for
// Hindi transcripts with code-switched English terms.
//
// Two similarity channels are combined:
//
//  1. Phonetic candidate filtering — Double Metaphone codes are computed for
//     Latin-script tokens on both sides. If any code from the input overlaps
//     with any code from a glossary term, the term becomes a phonetic
//     candidate and is accepted at the (lower) phonetic threshold. This
//     catches misheard English acronyms and loanwords ("pee eff" → "PF",
//     "easy see" → "ESIC").
//
//  2. Jaro-Winkler ranking — among phonetic candidates the term with the
//     highest Jaro-Winkler similarity wins. Devanagari tokens produce no
//     metaphone codes, so purely Devanagari spans fall through to a fuzzy
//     pass with a stricter threshold (default 0.85), which absorbs minor
//     orthographic variation (matra and nukta slips) without rewriting
//     legitimately different words.
//
// Multi-word terms ("आधार कार्ड", "salary slip") are supported: the matcher
// compares full strings, space-stripped strings, and the best pairwise token
// score when ranking candidates.
package phonetic

import (
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"
)

const (
	defaultPhoneticThreshold = 0.70
	defaultFuzzyThreshold    = 0.85
)

// Option is a functional option for configuring a [Matcher].
type Option func(*Matcher)

// WithPhoneticThreshold sets the minimum Jaro-Winkler score required for a
// phonetically-matched term to be accepted. Default: 0.70.
func WithPhoneticThreshold(threshold float64) Option {
	return func(m *Matcher) {
		m.phoneticThreshold = threshold
	}
}

// WithFuzzyThreshold sets the minimum Jaro-Winkler score required when no
// phonetic match is found and the matcher falls back to pure string
// similarity. Default: 0.85.
func WithFuzzyThreshold(threshold float64) Option {
	return func(m *Matcher) {
		m.fuzzyThreshold = threshold
	}
}

// Matcher is a phonetic glossary matcher. It implements
// [transcript.GlossaryMatcher]. All methods are safe for concurrent use —
// the Matcher is read-only after construction.
type Matcher struct {
	phoneticThreshold float64
	fuzzyThreshold    float64
}

// New returns a new [Matcher] configured with the supplied options.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		phoneticThreshold: defaultPhoneticThreshold,
		fuzzyThreshold:    defaultFuzzyThreshold,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Match attempts to find the glossary term most similar to span.
//
// span may be a single word or a space-separated n-gram window. Return
// values follow the [transcript.GlossaryMatcher] contract: when matched is
// false, corrected equals span unchanged and confidence is 0.
func (m *Matcher) Match(span string, glossary []string) (corrected string, confidence float64, matched bool) {
	if len(glossary) == 0 || strings.TrimSpace(span) == "" {
		return span, 0, false
	}

	spanLower := strings.ToLower(strings.TrimSpace(span))
	spanTokens := strings.Fields(spanLower)
	spanCodes := metaphoneCodes(spanTokens)

	type candidate struct {
		term     string
		score    float64
		phonetic bool
	}
	var best candidate

	for _, term := range glossary {
		termLower := strings.ToLower(strings.TrimSpace(term))
		if termLower == "" {
			continue
		}
		termTokens := strings.Fields(termLower)

		phoneticMatch := codesOverlap(spanCodes, metaphoneCodes(termTokens))
		score := bestSimilarity(spanTokens, termTokens, spanLower, termLower)

		if phoneticMatch {
			if score >= m.phoneticThreshold {
				if !best.phonetic || score > best.score {
					best = candidate{term: term, score: score, phonetic: true}
				}
			}
		} else if !best.phonetic {
			if score >= m.fuzzyThreshold && score > best.score {
				best = candidate{term: term, score: score, phonetic: false}
			}
		}
	}

	if best.term != "" {
		return best.term, best.score, true
	}
	return span, 0, false
}

// metaphoneCodes returns the union of Double Metaphone codes across the
// Latin-script tokens. Devanagari tokens contribute no codes: Double
// Metaphone is defined over English orthography only, and feeding it
// Devanagari bytes would fabricate spurious overlaps.
func metaphoneCodes(tokens []string) map[string]struct{} {
	codes := make(map[string]struct{}, len(tokens)*2)
	for _, t := range tokens {
		if !isLatin(t) {
			continue
		}
		p, s := matchr.DoubleMetaphone(t)
		if p != "" {
			codes[p] = struct{}{}
		}
		if s != "" {
			codes[s] = struct{}{}
		}
	}
	return codes
}

// isLatin reports whether every letter in the token is Latin script.
func isLatin(token string) bool {
	for _, r := range token {
		if unicode.IsLetter(r) && !unicode.Is(unicode.Latin, r) {
			return false
		}
	}
	return true
}

// codesOverlap reports whether the two code sets share at least one code.
func codesOverlap(a, b map[string]struct{}) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for code := range a {
		if _, ok := b[code]; ok {
			return true
		}
	}
	return false
}

// bestSimilarity computes the highest Jaro-Winkler similarity between the
// span and the term using three strategies: full strings, space-stripped
// strings, and the best pairwise token score. The pairwise pass handles the
// case where one spoken word corresponds to one term word.
func bestSimilarity(spanTokens, termTokens []string, spanFull, termFull string) float64 {
	score := matchr.JaroWinkler(spanFull, termFull, false)

	if len(spanTokens) > 1 || len(termTokens) > 1 {
		joined1 := strings.Join(spanTokens, "")
		joined2 := strings.Join(termTokens, "")
		if s := matchr.JaroWinkler(joined1, joined2, false); s > score {
			score = s
		}
	}

	for _, st := range spanTokens {
		for _, tt := range termTokens {
			if s := matchr.JaroWinkler(st, tt, false); s > score {
				score = s
			}
		}
	}
	return score
}
