// Package transliterate converts Romanized (Hinglish) Hindi to Devanagari.
// Informal spellings are first rewritten to the ITRANS scheme, then a
// table-driven ITRANS converter produces the Devanagari text.
package transliterate

import "strings"

// wordToITRANS rewrites common informal Romanized spellings to ITRANS. The
// informal convention drops the final schwa and uses English-style vowel
// digraphs, so most entries restore the trailing 'a' or lengthen a vowel.
var wordToITRANS = map[string]string{
	// Pronouns
	"mera": "meraa", "meri": "merii",
	"tera": "teraa", "teri": "terii",
	"hamara": "hamaaraa", "tumhara": "tumhaaraa",
	"apna": "apnaa", "apni": "apnii",
	"mujhe": "mujhe", "tujhe": "tujhe",
	"unhe": "unhe.n", "inhe": "inhe.n",

	// Common verbs
	"karna": "karanaa", "karta": "karataa", "karti": "karatii",
	"hona": "honaa", "hota": "hotaa", "hoti": "hotii",
	"jana": "jaanaa", "jata": "jaataa", "jati": "jaatii",
	"ana": "aanaa", "ata": "aataa", "ati": "aatii",
	"lena": "lenaa", "leta": "letaa", "leti": "letii",
	"dena": "denaa", "deta": "detaa", "deti": "detii",
	"milna": "milanaa", "milta": "milataa", "milti": "milatii",
	"mila": "milaa", "mili": "milii",
	"kata": "kaTaa", "kate": "kaTe", "katna": "kaTanaa",
	"nikalna": "nikaalanaa", "nikalti": "nikaalatii", "nikalta": "nikaalataa",
	"lagta": "lagataa", "lagti": "lagatii",
	"laga": "lagaa", "lagi": "lagii",

	// Question words
	"kya": "kyaa",
	"kyu": "kyo.n", "kyun": "kyo.n", "kyon": "kyo.n",
	"kab": "kaba",
	"kaha": "kahaa.n", "kahan": "kahaa.n",
	"kaun": "kauna", "kaise": "kaise",
	"kitna": "kitanaa", "kitni": "kitanii", "kitne": "kitane",

	// Particles
	"hai": "hai", "hain": "hai.n",
	"tha": "thaa", "thi": "thii", "the": "the",
	"nahi": "nahii.n", "nahin": "nahii.n",
	"mein": "mei.n", "main": "mai.n",
	"hum": "hama", "tum": "tuma", "aap": "aapa",
	"woh": "vaha", "yeh": "yaha",
	"bhi": "bhii", "hi": "hii",
	"ka": "kaa", "ki": "kii", "ke": "ke", "ko": "ko",
	"se": "se", "pe": "pe", "par": "para", "tak": "taka",
	"aur": "aura", "ya": "yaa",
	"lekin": "lekina", "agar": "agara",
	"jab": "jaba", "tab": "taba",
	"abhi": "abhii", "kal": "kala", "parso": "parso.n", "aaj": "aaja",

	// HR/work vocabulary
	"paisa": "paisaa", "paise": "paise",
	"chutti": "ChuTTii",
	"aadhar": "aadhaara", "aadhaar": "aadhaara",
	"pf": "pii efa", "esi": "ii esa aai",
	"milega": "milegaa", "milegi": "milegii",
	"hua": "huaa", "hui": "huii", "hue": "hue",
	"lagega": "lagegaa", "lagegi": "lagegii",
	"karein": "kare.n", "karo": "karo", "kijiye": "kiijiye",

	// Common nouns
	"kaam": "kaama", "ghar": "ghara",
	"din": "dina", "raat": "raata", "log": "loga",
	"banda": "bandaa", "bandi": "bandii",
	"baat": "baata", "sawal": "savaala", "jawab": "javaaba",

	// More verbs
	"loon": "luu.n", "lun": "luu.n",
	"karun": "karuu.n", "jaun": "jaau.n", "aun": "aauu.n",
	"paungi": "paauu.ngii", "paunga": "paauu.ngaa",
	"sakta": "sakataa", "sakti": "sakatii", "sakte": "sakate",
	"chahiye": "chaahiye", "chahte": "chaahate", "chahti": "chaahatii",

	// Numbers
	"ek": "eka", "do": "do", "teen": "tiina", "char": "chaara",
	"panch": "paa.ncha", "chhe": "Chaha", "saat": "saata",
	"aath": "aaTha", "nau": "nau", "das": "dasa",
}

// englishWords pass through untouched; they are common in code-switched
// utterances and transliterating them would mangle them.
var englishWords = map[string]bool{
	"salary": true, "leave": true, "card": true, "update": true,
	"office": true, "time": true, "phone": true, "mobile": true,
	"email": true, "computer": true, "bank": true, "account": true,
	"form": true, "document": true, "problem": true, "issue": true,
	"help": true, "please": true, "sir": true, "madam": true,
	"ok": true, "yes": true, "no": true, "sorry": true,
	"thank": true, "thanks": true, "wait": true,
}

// digraphReplacer handles unknown words: English-style long vowels become
// their ITRANS spellings.
var digraphReplacer = strings.NewReplacer("ee", "ii", "oo", "uu")

// ToITRANS rewrites informal Romanized Hindi to ITRANS. Input is lowercased;
// known words are mapped through the substitution table, recognized English
// words pass through, and everything else gets the vowel-digraph fix.
func ToITRANS(text string) string {
	words := strings.Fields(strings.ToLower(text))
	for i, word := range words {
		switch {
		case wordToITRANS[word] != "":
			words[i] = wordToITRANS[word]
		case englishWords[word]:
			// keep as-is
		default:
			words[i] = digraphReplacer.Replace(word)
		}
	}
	return strings.Join(words, " ")
}

// Sentence transliterates a Romanized Hindi sentence to Devanagari. English
// words recognized by the pre-normalization pass remain in Latin script.
// Returns "" for blank input.
func Sentence(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	itrans := ToITRANS(text)

	words := strings.Fields(itrans)
	for i, word := range words {
		if englishWords[word] {
			continue
		}
		words[i] = Devanagari(word)
	}
	return strings.Join(words, " ")
}

// Word transliterates a single Romanized word.
func Word(word string) string {
	return Sentence(word)
}
