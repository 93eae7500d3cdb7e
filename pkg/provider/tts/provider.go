// Package tts defines the Provider interface for Text-to-Speech backends.
//
// A TTS provider wraps a speech synthesis service and presents a uniform
// batch interface: the assistant's reply text goes in, encoded audio bytes
// come out. Voice-bot replies are short (one or two sentences in Hindi), so
// a single request/response exchange keeps the interface simple.
//
// Implementations must be safe for concurrent use.
package tts

import "context"

// Request describes a single synthesis call.
type Request struct {
	// Text is the text to synthesise. Must not be empty.
	Text string

	// Speaker selects the provider voice. Empty means the provider default.
	Speaker string

	// LanguageCode is a BCP-47 language code (e.g., "hi-IN"). Empty means
	// the provider default.
	LanguageCode string

	// SampleRate is the requested output sample rate in Hz. Zero means the
	// provider default.
	SampleRate int
}

// Provider is the abstraction over any TTS backend.
//
// Implementations must be safe for concurrent use. Multiple synthesis
// requests may run in parallel.
type Provider interface {
	// Synthesize converts req.Text to speech and returns the encoded audio
	// bytes (typically WAV). Returns an error if the provider rejects the
	// request or ctx is cancelled before synthesis completes.
	Synthesize(ctx context.Context, req Request) ([]byte, error)

	// VoiceID returns the identifier of the default voice this provider
	// speaks with (e.g., "manisha").
	VoiceID() string
}
