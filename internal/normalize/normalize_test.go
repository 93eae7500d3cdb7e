package normalize_test

import (
	"testing"

	"github.com/vaani-ai/vaani/internal/normalize"
)

func TestStripPunctuation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "devanagari letters untouched",
			in:   "नमस्ते, आप कैसे हैं?",
			want: "नमस्ते आप कैसे हैं",
		},
		{
			name: "danda and double danda",
			in:   "मैं चंदा देवी बोल रही हूं। ठीक है॥",
			want: "मैं चंदा देवी बोल रही हूं ठीक है",
		},
		{
			name: "latin quotes brackets dashes",
			in:   `"hello" (world) — test [a] {b} <c>`,
			want: "hello world  test a b c",
		},
		{
			name: "ascii symbols",
			in:   "a@b#c$d%e^f&g*h+i=j_k",
			want: "abcdefghijk",
		},
		{
			name: "empty string",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := normalize.StripPunctuation(tt.in); got != tt.want {
				t.Errorf("StripPunctuation(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "fifty thousand with context",
			in:   "50000 रुपये",
			want: "पचास हजार रुपये",
		},
		{
			name: "bare two digit",
			in:   "26",
			want: "छब्बीस",
		},
		{
			name: "comma grouped",
			in:   "1,50,000",
			want: "एक लाख पचास हजार",
		},
		{
			name: "zero",
			in:   "0",
			want: "शून्य",
		},
		{
			name: "hundred",
			in:   "101",
			want: "एक सौ एक",
		},
		{
			name: "crore",
			in:   "20000000",
			want: "दो करोड़",
		},
		{
			name: "decimal untouched",
			in:   "3.14 प्रतिशत",
			want: "3.14 प्रतिशत",
		},
		{
			name: "beyond sane bound untouched",
			in:   "123456789012345",
			want: "123456789012345",
		},
		{
			name: "no digits",
			in:   "कोई संख्या नहीं",
			want: "कोई संख्या नहीं",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := normalize.Numbers(tt.in); got != tt.want {
				t.Errorf("Numbers(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCollapseWhitespace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"  a   b\t\nc  ", "a b c"},
		{"", ""},
		{"   ", ""},
		{"नमस्ते  जी", "नमस्ते जी"},
	}

	for _, tt := range tests {
		if got := normalize.CollapseWhitespace(tt.in); got != tt.want {
			t.Errorf("CollapseWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnicode_StripsZeroWidthCharacters(t *testing.T) {
	t.Parallel()

	n := normalize.New()
	in := "नम\u200bस्\u200cते\u200d\ufeff"
	if got := n.Unicode(in); got != "नमस्ते" {
		t.Errorf("Unicode(%q) = %q, want %q", in, got, "नमस्ते")
	}
}

func TestUnicode_DevanagariCanonicalization(t *testing.T) {
	t.Parallel()

	n := normalize.New()

	// Chandrabindu and anusvara variants of the same word must converge.
	withChandrabindu := "ह\u0942\u0901" // हूँ
	withAnusvara := "ह\u0942\u0902"     // हूं
	if got := n.Unicode(withChandrabindu); got != withAnusvara {
		t.Errorf("Unicode(%q) = %q, want %q", withChandrabindu, got, withAnusvara)
	}

	// Precomposed and decomposed nukta forms must converge.
	precomposed := "\u095cोटी"       // precomposed ड़
	decomposed := "\u0921\u093cोटी" // ड + nukta
	if got := n.Unicode(precomposed); got != decomposed {
		t.Errorf("Unicode(precomposed nukta) = %q, want %q", got, decomposed)
	}

	// Split two-part vowel sign must recompose.
	split := "क\u0947\u093e" // क + े + ा
	joined := "क\u094b"       // को
	if got := n.Unicode(split); got != joined {
		t.Errorf("Unicode(split vowel) = %q, want %q", got, joined)
	}
}

func TestUnicode_ScriptNormalizationDisabled(t *testing.T) {
	t.Parallel()

	n := normalize.New(normalize.WithScriptNormalization(false))

	// With the capability off, chandrabindu passes through but zero-width
	// stripping still applies.
	in := "ह\u0942\u0901\u200b"
	want := "ह\u0942\u0901"
	if got := n.Unicode(in); got != want {
		t.Errorf("Unicode(%q) = %q, want %q", in, got, want)
	}
}

func TestHindi_CanonicalPipeline(t *testing.T) {
	t.Parallel()

	n := normalize.New()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "digits punctuation and spacing",
			in:   "मुझे 50000 रुपये चाहिए।",
			want: "मुझे पचास हजार रुपये चाहिए",
		},
		{
			name: "trailing period not absorbed into digit run",
			in:   "कुल 500.",
			want: "कुल पांच सौ",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := n.Hindi(tt.in); got != tt.want {
				t.Errorf("Hindi(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHindi_Idempotent(t *testing.T) {
	t.Parallel()

	n := normalize.New()

	inputs := []string{
		"मुझे 50000 रुपये चाहिए।",
		"हेलो मैडम, मैं चंदा देवी बोल रही हूँ।",
		"छब्बीस जनवरी 2024 को",
		"मेरा PF amount जानना है",
		"  whitespace   everywhere  ",
		"3.14 और 42",
		"",
	}

	for _, in := range inputs {
		once := n.Hindi(in)
		twice := n.Hindi(once)
		if once != twice {
			t.Errorf("Hindi not idempotent for %q: first=%q second=%q", in, once, twice)
		}
	}
}

func TestStages_Idempotent(t *testing.T) {
	t.Parallel()

	n := normalize.New()
	stages := map[string]func(string) string{
		"Unicode":            n.Unicode,
		"StripPunctuation":   normalize.StripPunctuation,
		"Numbers":            normalize.Numbers,
		"CollapseWhitespace": normalize.CollapseWhitespace,
	}

	inputs := []string{
		"मुझे 50,000 रुपये चाहिए।",
		"क\u0947\u093e 26 ?!",
	}

	for name, stage := range stages {
		for _, in := range inputs {
			once := stage(in)
			if twice := stage(once); once != twice {
				t.Errorf("%s not idempotent for %q: first=%q second=%q", name, in, once, twice)
			}
		}
	}
}
