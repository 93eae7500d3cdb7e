// Package mock provides a mock implementation of the [tts.Provider]
// interface for testing.
package mock

import (
	"context"
	"sync"

	"github.com/vaani-ai/vaani/pkg/provider/tts"
)

// SynthesizeCall records a single invocation of [Provider.Synthesize].
type SynthesizeCall struct {
	// Request is the synthesis request passed to Synthesize.
	Request tts.Request
}

// Provider is a mock implementation of tts.Provider. Configure the exported
// result fields, then inspect the recorded calls. Thread-safe.
type Provider struct {
	mu sync.Mutex

	// SynthesizeResult is returned by Synthesize when SynthesizeErr is nil.
	SynthesizeResult []byte

	// SynthesizeErr, if non-nil, is returned as the error from Synthesize.
	SynthesizeErr error

	// VoiceIDValue is returned by VoiceID. Defaults to "mock-voice".
	VoiceIDValue string

	// SynthesizeCalls records every call to Synthesize in order.
	SynthesizeCalls []SynthesizeCall
}

// Synthesize records the call and returns SynthesizeResult, SynthesizeErr.
func (p *Provider) Synthesize(ctx context.Context, req tts.Request) ([]byte, error) {
	p.mu.Lock()
	p.SynthesizeCalls = append(p.SynthesizeCalls, SynthesizeCall{Request: req})
	p.mu.Unlock()

	if p.SynthesizeErr != nil {
		return nil, p.SynthesizeErr
	}
	return p.SynthesizeResult, nil
}

// VoiceID returns VoiceIDValue, or "mock-voice" when unset.
func (p *Provider) VoiceID() string {
	if p.VoiceIDValue == "" {
		return "mock-voice"
	}
	return p.VoiceIDValue
}

// Reset clears all recorded calls. Thread-safe.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.SynthesizeCalls = nil
}

// Ensure Provider implements tts.Provider at compile time.
var _ tts.Provider = (*Provider)(nil)
