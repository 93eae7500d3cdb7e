package transcript_test

import (
	"context"
	"testing"

	"github.com/vaani-ai/vaani/internal/transcript"
	"github.com/vaani-ai/vaani/internal/transcript/phonetic"
	"github.com/vaani-ai/vaani/pkg/types"
)

// tableMatcher is a deterministic GlossaryMatcher for pipeline tests: it
// corrects only the spans it was seeded with.
type tableMatcher struct {
	corrections map[string]string
}

func (m tableMatcher) Match(span string, glossary []string) (string, float64, bool) {
	if term, ok := m.corrections[span]; ok {
		return term, 0.9, true
	}
	return span, 0, false
}

func makeTranscript(text string) types.Transcript {
	return types.Transcript{
		Text:       text,
		Language:   "hi-IN",
		Model:      "saarika:v2.5",
		Confidence: 0.85,
	}
}

func TestCorrectionPipeline_MultiWordTerm(t *testing.T) {
	t.Parallel()

	pipeline := transcript.NewPipeline(
		transcript.WithGlossaryMatcher(tableMatcher{corrections: map[string]string{
			"आदार कार्ड": "आधार कार्ड",
		}}),
	)

	tr := makeTranscript("मुझे आदार कार्ड चाहिए")
	result, err := pipeline.Correct(context.Background(), tr, []string{"आधार कार्ड", "UAN"})
	if err != nil {
		t.Fatalf("Correct: %v", err)
	}

	if result.Corrected != "मुझे आधार कार्ड चाहिए" {
		t.Errorf("Corrected = %q, want %q", result.Corrected, "मुझे आधार कार्ड चाहिए")
	}
	if len(result.Corrections) != 1 {
		t.Fatalf("got %d corrections, want 1", len(result.Corrections))
	}
	c := result.Corrections[0]
	if c.Original != "आदार कार्ड" || c.Corrected != "आधार कार्ड" {
		t.Errorf("correction = %q -> %q", c.Original, c.Corrected)
	}
	if c.Method != "phonetic" {
		t.Errorf("Method = %q, want phonetic", c.Method)
	}
}

func TestCorrectionPipeline_LongestWindowWins(t *testing.T) {
	t.Parallel()

	// Both the single word and the two-word window are correctable; the
	// two-word window must be consumed first.
	pipeline := transcript.NewPipeline(
		transcript.WithGlossaryMatcher(tableMatcher{corrections: map[string]string{
			"salary slip": "salary slip",
			"salary":      "salary",
		}}),
	)

	tr := makeTranscript("salary slip chahiye")
	result, err := pipeline.Correct(context.Background(), tr, []string{"salary slip"})
	if err != nil {
		t.Fatalf("Correct: %v", err)
	}
	if len(result.Corrections) != 1 {
		t.Fatalf("got %d corrections, want 1 (the two-word window)", len(result.Corrections))
	}
	if result.Corrections[0].Original != "salary slip" {
		t.Errorf("matched window = %q, want %q", result.Corrections[0].Original, "salary slip")
	}
}

func TestCorrectionPipeline_NoMatcher(t *testing.T) {
	t.Parallel()

	pipeline := transcript.NewPipeline()
	tr := makeTranscript("मुझे आदार कार्ड चाहिए")

	result, err := pipeline.Correct(context.Background(), tr, []string{"आधार कार्ड"})
	if err != nil {
		t.Fatalf("Correct: %v", err)
	}
	if result.Corrected != tr.Text {
		t.Errorf("Corrected = %q, want unchanged text", result.Corrected)
	}
	if result.Corrections == nil || len(result.Corrections) != 0 {
		t.Errorf("Corrections = %v, want empty non-nil slice", result.Corrections)
	}
}

func TestCorrectionPipeline_EmptyGlossary(t *testing.T) {
	t.Parallel()

	pipeline := transcript.NewPipeline(
		transcript.WithGlossaryMatcher(phonetic.New()),
	)
	tr := makeTranscript("कुछ भी")

	result, err := pipeline.Correct(context.Background(), tr, nil)
	if err != nil {
		t.Fatalf("Correct: %v", err)
	}
	if result.Corrected != tr.Text {
		t.Errorf("Corrected = %q, want unchanged text", result.Corrected)
	}
}

func TestCorrectionPipeline_CancelledContext(t *testing.T) {
	t.Parallel()

	pipeline := transcript.NewPipeline(
		transcript.WithGlossaryMatcher(phonetic.New()),
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipeline.Correct(ctx, makeTranscript("uan number batao"), []string{"UAN"})
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestCorrectionPipeline_WithPhoneticMatcher(t *testing.T) {
	t.Parallel()

	pipeline := transcript.NewPipeline(
		transcript.WithGlossaryMatcher(phonetic.New()),
	)

	tr := makeTranscript("uan number batao")
	result, err := pipeline.Correct(context.Background(), tr, []string{"UAN"})
	if err != nil {
		t.Fatalf("Correct: %v", err)
	}
	if result.Corrected != "UAN number batao" {
		t.Errorf("Corrected = %q, want %q", result.Corrected, "UAN number batao")
	}
}
