// Package types defines the shared types used across all vaani packages.
//
// These types form the lingua franca between the STT/TTS/LLM providers, the
// voice-bot pipeline, and the evaluation toolkit. They are intentionally
// minimal — each package defines its own domain types, but cross-cutting data
// structures live here to avoid circular imports.
package types

import "time"

// Transcript represents a speech-to-text result from an STT provider.
type Transcript struct {
	// Text is the transcribed speech content.
	Text string

	// Language is the BCP-47 tag detected or requested for the utterance
	// (e.g., "hi-IN", "mr-IN"). Empty when the provider does not report it.
	Language string

	// Model identifies the STT model that produced this transcript
	// (e.g., "sarvam_saarika", "whisper_large_v3"). Used as the grouping key
	// by the evaluation toolkit.
	Model string

	// Confidence is the overall confidence score (0.0–1.0). May be zero if
	// the provider does not report confidence.
	Confidence float64

	// Duration is the length of the source audio, when known.
	Duration time.Duration
}

// Message is a single turn in an LLM conversation.
type Message struct {
	// Role is "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}
