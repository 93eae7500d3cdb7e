package normalize

import "strings"

// Devanagari script canonicalization.
//
// Different STT models (and human typists) produce visually identical
// Devanagari text with different codepoint sequences. NFC alone does not
// resolve these because the precomposed nukta consonants are composition
// exclusions and the nasalization marks are distinct codepoints. The rules
// here pick one representative sequence per glyph class:
//
//   - Precomposed nukta consonants (क़ U+0958 … य़ U+095F) are decomposed
//     into base consonant + nukta (U+093C), matching how keyboards and most
//     ASR models emit them.
//   - Chandrabindu (ँ U+0901) is mapped to anusvara (ं U+0902). Hindi
//     orthography treats the two as interchangeable in most words and models
//     disagree constantly on which to emit.
//   - Split two-part vowel signs are recomposed: a dependent vowel sign
//     followed by ा (or the reverse order some models emit) becomes the
//     single combined sign, e.g. े + ा → ो and ै + ा → ौ.
//
// All rules are stable under re-application, so [Normalizer.Unicode] remains
// idempotent with the capability enabled.

// nuktaDecompositions maps the precomposed Devanagari nukta consonants to
// their base + nukta form.
var nuktaDecompositions = strings.NewReplacer(
	"\u0958", "\u0915\u093c", // क़ = क + nukta
	"\u0959", "\u0916\u093c", // ख़ = ख + nukta
	"\u095a", "\u0917\u093c", // ग़ = ग + nukta
	"\u095b", "\u091c\u093c", // ज़ = ज + nukta
	"\u095c", "\u0921\u093c", // ड़ = ड + nukta
	"\u095d", "\u0922\u093c", // ढ़ = ढ + nukta
	"\u095e", "\u092b\u093c", // फ़ = फ + nukta
	"\u095f", "\u092f\u093c", // य़ = य + nukta
)

// vowelRecompositions canonicalizes split renderings of two-part vowel signs
// and maps chandrabindu to anusvara.
var vowelRecompositions = strings.NewReplacer(
	"\u0947\u093e", "\u094b", // े + ा → ो
	"\u093e\u0947", "\u094b", // reversed emission order
	"\u0948\u093e", "\u094c", // ै + ा → ौ
	"\u093e\u0948", "\u094c",
	"\u0945\u093e", "\u0949", // candra E + ा → candra O
	"\u093e\u0945", "\u0949",
	"\u0901", "\u0902", // chandrabindu → anusvara
)

// CanonicalizeDevanagari rewrites visually-equivalent Devanagari codepoint
// sequences into one representative form. It is total and idempotent; text in
// other scripts passes through unchanged.
func CanonicalizeDevanagari(text string) string {
	text = nuktaDecompositions.Replace(text)
	text = vowelRecompositions.Replace(text)
	return text
}
