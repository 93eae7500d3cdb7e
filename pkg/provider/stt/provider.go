// Package stt defines the Provider interface for Speech-to-Text backends.
//
// An STT provider wraps a batch transcription service and exposes a uniform
// interface: audio in, [types.Transcript] out. Batch semantics match the
// evaluation corpus — recordings are short voice notes, not live streams.
//
// Implementations must be safe for concurrent use. Multiple transcriptions
// may be in flight simultaneously (e.g., when benchmarking a corpus).
package stt

import (
	"context"
	"io"

	"github.com/vaani-ai/vaani/pkg/types"
)

// Provider is the abstraction over any STT backend.
type Provider interface {
	// Transcribe submits the audio stream for transcription and returns the
	// resulting transcript. filename hints the container format to providers
	// that sniff it from the extension (e.g., "HD_Q_2.ogg").
	//
	// Returns an error if the provider rejects the request or ctx is
	// cancelled before the result arrives.
	Transcribe(ctx context.Context, audio io.Reader, filename string) (types.Transcript, error)

	// ModelID returns the provider-specific model identifier used for
	// transcription (e.g., "saarika:v2.5"). Recorded in transcript JSONL
	// records so evaluations can group hypotheses by model.
	ModelID() string
}
