package transliterate

import "strings"

// ITRANS token tables. Matching is greedy: at each position the longest
// token wins, so "kh" is tried before "k" and ".n" before a bare "n".

const virama = "्"

var consonants = map[string]string{
	"k": "क", "kh": "ख", "g": "ग", "gh": "घ", "~N": "ङ",
	"ch": "च", "Ch": "छ", "chh": "छ", "j": "ज", "jh": "झ", "~n": "ञ",
	"T": "ट", "Th": "ठ", "D": "ड", "Dh": "ढ", "N": "ण",
	"t": "त", "th": "थ", "d": "द", "dh": "ध", "n": "न",
	"p": "प", "ph": "फ", "b": "ब", "bh": "भ", "m": "म",
	"y": "य", "r": "र", "l": "ल", "v": "व", "w": "व",
	"sh": "श", "Sh": "ष", "s": "स", "h": "ह",
	"L": "ळ",
	// Nukta forms common in Hindi loanwords.
	"q": "क़", "K": "ख़", "G": "ग़", "z": "ज़", "f": "फ़",
	".D": "ड़", ".Dh": "ढ़",
	"x": "क्ष", "GY": "ज्ञ",
}

type vowelForm struct {
	independent string
	matra       string
}

var vowels = map[string]vowelForm{
	"a":  {"अ", ""}, // inherent after a consonant
	"aa": {"आ", "ा"},
	"A":  {"आ", "ा"},
	"i":  {"इ", "ि"},
	"ii": {"ई", "ी"},
	"I":  {"ई", "ी"},
	"u":  {"उ", "ु"},
	"uu": {"ऊ", "ू"},
	"U":  {"ऊ", "ू"},
	"e":  {"ए", "े"},
	"ai": {"ऐ", "ै"},
	"o":  {"ओ", "ो"},
	"au": {"औ", "ौ"},
}

var marks = map[string]string{
	".n": "ं", // anusvara
	".m": "ं",
	"M":  "ं",
	".N": "ँ", // chandrabindu
	"H":  "ः", // visarga
}

const maxTokenLen = 3

// Devanagari converts ITRANS-encoded text to Devanagari. Characters that are
// not ITRANS tokens (digits, punctuation, whitespace) pass through unchanged;
// a consonant with no following vowel is closed with a virama.
func Devanagari(itrans string) string {
	var out strings.Builder
	out.Grow(len(itrans) * 2)

	afterConsonant := false
	flush := func() {
		if afterConsonant {
			out.WriteString(virama)
			afterConsonant = false
		}
	}

	i := 0
	for i < len(itrans) {
		matched := false
		for n := maxTokenLen; n >= 1 && !matched; n-- {
			if i+n > len(itrans) {
				continue
			}
			tok := itrans[i : i+n]
			if c, ok := consonants[tok]; ok {
				flush()
				out.WriteString(c)
				afterConsonant = true
			} else if v, ok := vowels[tok]; ok {
				if afterConsonant {
					out.WriteString(v.matra)
					afterConsonant = false
				} else {
					out.WriteString(v.independent)
				}
			} else if m, ok := marks[tok]; ok {
				flush()
				out.WriteString(m)
			} else {
				continue
			}
			matched = true
			i += n
		}
		if !matched {
			flush()
			out.WriteByte(itrans[i])
			i++
		}
	}
	flush()
	return out.String()
}
