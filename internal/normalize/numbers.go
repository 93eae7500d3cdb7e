package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// numberRe matches standalone digit runs, optionally comma-grouped
// ("50,000") and optionally followed by a decimal part. Decimal matches are
// detected in the replacement callback and left untouched.
var numberRe = regexp.MustCompile(`\b[\d,]+\.?\d*\b`)

// maxConvertible bounds the integers that are expanded into words at
// 99,99,99,999 (just under 100 करोड़). Larger values are left as digits
// rather than producing pathological expansions.
const maxConvertible = 999_999_999

const (
	zeroWord  = "शून्य"
	minusWord = "माइनस"
)

// hindiOnes holds the unique Hindi words for 1–99. Unlike English, these are
// irregular and cannot be composed from tens and units. Index 0 is unused;
// zero is handled separately via zeroWord.
//
// Spellings use the anusvara form (पांच, not पाँच) and decomposed nukta so
// every entry is already canonical under [Normalizer.Unicode] — required for
// the full pipeline to stay idempotent.
var hindiOnes = [100]string{
	"", "एक", "दो", "तीन", "चार", "पांच", "छह", "सात", "आठ", "नौ",
	"दस", "ग्यारह", "बारह", "तेरह", "चौदह", "पंद्रह", "सोलह", "सत्रह",
	"अठारह", "उन्नीस", "बीस", "इक्कीस", "बाईस", "तेईस", "चौबीस",
	"पच्चीस", "छब्बीस", "सत्ताईस", "अट्ठाईस", "उनतीस", "तीस",
	"इकतीस", "बत्तीस", "तैंतीस", "चौंतीस", "पैंतीस", "छत्तीस",
	"सैंतीस", "अड़तीस", "उनतालीस", "चालीस", "इकतालीस", "बयालीस",
	"तैंतालीस", "चवालीस", "पैंतालीस", "छियालीस", "सैंतालीस",
	"अड़तालीस", "उनचास", "पचास", "इक्यावन", "बावन", "तिरपन",
	"चौवन", "पचपन", "छप्पन", "सत्तावन", "अट्ठावन", "उनसठ", "साठ",
	"इकसठ", "बासठ", "तिरसठ", "चौंसठ", "पैंसठ", "छियासठ", "सड़सठ",
	"अड़सठ", "उनहत्तर", "सत्तर", "इकहत्तर", "बहत्तर", "तिहत्तर",
	"चौहत्तर", "पचहत्तर", "छिहत्तर", "सतहत्तर", "अठहत्तर", "उनासी",
	"अस्सी", "इक्यासी", "बयासी", "तिरासी", "चौरासी", "पचासी",
	"छियासी", "सत्तासी", "अट्ठासी", "नवासी", "नब्बे", "इक्यानवे",
	"बानवे", "तिरानवे", "चौरानवे", "पचानवे", "छियानवे", "सत्तानवे",
	"अट्ठानवे", "निन्यानवे",
}

// indianGroup is one threshold of the Indian numbering system.
type indianGroup struct {
	divisor int64
	label   string
}

// indianGroups lists the group thresholds in descending order:
// करोड़ (1,00,00,000), लाख (1,00,000), हजार (1,000), सौ (100).
var indianGroups = []indianGroup{
	{10_000_000, "करोड़"},
	{100_000, "लाख"},
	{1_000, "हजार"},
	{100, "सौ"},
}

// Numbers replaces every standalone integer digit run in text with its Hindi
// word expansion in the Indian numbering system. Decimal numbers, digit runs
// beyond maxConvertible, and anything that fails to parse are left unchanged.
//
// STT models may render numbers as digits while human transcribers write
// words (or vice versa); without this stage every numeric utterance would
// register as an error regardless of actual correctness.
func Numbers(text string) string {
	return numberRe.ReplaceAllStringFunc(text, func(match string) string {
		if strings.Contains(match, ".") {
			return match // decimals stay as digits
		}
		raw := strings.ReplaceAll(match, ",", "")
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 || n > maxConvertible {
			return match
		}
		return intToHindi(n)
	})
}

// intToHindi converts n to Hindi words. For n ≥ 100 it peels off the largest
// applicable Indian group, emitting word(quotient) followed by the group
// label, then recurses on the remainder. n in 1–99 is a direct table lookup.
func intToHindi(n int64) string {
	if n < 0 {
		return minusWord + " " + intToHindi(-n)
	}
	if n == 0 {
		return zeroWord
	}
	if n < 100 {
		return hindiOnes[n]
	}

	var parts []string
	for _, g := range indianGroups {
		if n >= g.divisor {
			q := n / g.divisor
			parts = append(parts, intToHindi(q)+" "+g.label)
			n %= g.divisor
		}
	}
	if n > 0 {
		parts = append(parts, hindiOnes[n])
	}
	return strings.Join(parts, " ")
}
