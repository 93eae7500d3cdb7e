package transliterate_test

import (
	"testing"

	"github.com/vaani-ai/vaani/internal/transliterate"
)

func TestSentence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"deduction question", "mera paisa kyun kata", "मेरा पैसा क्यों काटा"},
		{"leave question", "chutti kaise loon", "छुट्टी कैसे लूं"},
		{"aadhaar question", "aadhar kab milega", "आधार कब मिलेगा"},
		{"negation", "mujhe nahi mili", "मुझे नहीं मिली"},
		{"short question", "kya hua", "क्या हुआ"},
		{"english passthrough", "hum kab tak wait karein", "हम कब तक wait करें"},
		{"digits passthrough", "2 baje", "2 बजे"},
		{"uppercase input", "KYA HUA", "क्या हुआ"},
		{"blank", "   ", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := transliterate.Sentence(tt.in); got != tt.want {
				t.Errorf("Sentence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestToITRANS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"mera paisa kyun kata", "meraa paisaa kyo.n kaTaa"},
		{"jeet", "jiit"},           // unknown word, vowel digraph fix
		{"school", "schuul"},       // oo -> uu
		{"please help", "please help"},
		{"PF kab milega", "pii efa kaba milegaa"},
	}

	for _, tt := range tests {
		if got := transliterate.ToITRANS(tt.in); got != tt.want {
			t.Errorf("ToITRANS(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDevanagari(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"conjunct", "kyaa", "क्या"},
		{"gemination", "ChuTTii", "छुट्टी"},
		{"anusvara", "nahii.n", "नहीं"},
		{"independent vowel after vowel", "huaa", "हुआ"},
		{"bare final consonant gets virama", "jiit", "जीत्"},
		{"retroflex", "kaTaa", "काटा"},
		{"nukta consonant", "zaruur", "ज़रूर"},
		{"non-token passthrough", "10:30", "10:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := transliterate.Devanagari(tt.in); got != tt.want {
				t.Errorf("Devanagari(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWord(t *testing.T) {
	t.Parallel()

	if got := transliterate.Word("kyun"); got != "क्यों" {
		t.Errorf("Word(kyun) = %q, want क्यों", got)
	}
	if got := transliterate.Word(""); got != "" {
		t.Errorf("Word(\"\") = %q, want empty", got)
	}
}
