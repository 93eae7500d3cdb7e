// Package transcript defines the transcript correction pipeline used to fix
// STT errors in domain-specific vocabulary.
//
// Raw speech-to-text output of Hindi workplace audio reliably garbles the
// code-switched domain terms — आधार कार्ड, PF, UAN, ESIC, salary slip — that
// matter most to downstream handling. The [Pipeline] corrects drafts against
// a per-domain glossary using phonetic alignment for Latin-script tokens and
// fuzzy string similarity for Devanagari.
//
// Each [Correction] records which method produced the substitution and its
// confidence, so callers can audit, display, or selectively roll back changes.
//
// Implementations of both interfaces must be safe for concurrent use.
package transcript

import (
	"context"

	"github.com/vaani-ai/vaani/pkg/types"
)

// Correction captures a single substitution made by the pipeline.
type Correction struct {
	// Original is the text span as produced by the STT provider.
	Original string

	// Corrected is the glossary term selected by the pipeline.
	Corrected string

	// Confidence is the pipeline's confidence in this substitution (0.0–1.0).
	Confidence float64

	// Method describes which correction stage produced this substitution.
	// Currently always "phonetic", the [GlossaryMatcher] stage.
	Method string
}

// CorrectedTranscript is the output of a [Pipeline.Correct] call.
// It pairs the original [types.Transcript] with the corrected text and an
// itemised record of every substitution that was applied.
type CorrectedTranscript struct {
	// Original is the raw [types.Transcript] as received from the STT provider.
	Original types.Transcript

	// Corrected is the full corrected transcript text with all substitutions
	// applied.
	Corrected string

	// Corrections is the ordered list of substitutions applied to produce
	// Corrected. An empty (non-nil) slice means no corrections were necessary.
	Corrections []Correction
}

// Pipeline corrects a raw [types.Transcript] against a domain glossary.
//
// Implementations must be safe for concurrent use.
type Pipeline interface {
	// Correct processes transcript using the provided glossary and returns a
	// [CorrectedTranscript] containing the corrected text and an itemised
	// record of every substitution made.
	//
	// glossary is the list of domain terms the pipeline should recognise
	// within the transcript text: scheme names, document names, and the
	// English acronyms speakers mix into Hindi utterances.
	//
	// Returns a non-nil *CorrectedTranscript on success. When no corrections
	// are needed, Corrected equals transcript.Text and Corrections is an
	// empty (non-nil) slice.
	Correct(ctx context.Context, transcript types.Transcript, glossary []string) (*CorrectedTranscript, error)
}

// GlossaryMatcher resolves a text span to a known glossary term based on
// phonetic or orthographic similarity. It is designed to be fast enough for
// real-time use — no network calls.
//
// Implementations must be safe for concurrent use.
type GlossaryMatcher interface {
	// Match attempts to find the glossary term most similar to span.
	//
	// Return values:
	//   corrected  — the best-matching term from glossary.
	//   confidence — similarity score in [0.0, 1.0] where 1.0 is a perfect match.
	//   matched    — true when a sufficiently similar term was found.
	//
	// When matched is false, corrected must equal span unchanged and
	// confidence must be 0. Implementations define their own similarity
	// threshold for deciding when a match is "sufficient".
	Match(span string, glossary []string) (corrected string, confidence float64, matched bool)
}
