// Package mock provides a mock implementation of the [stt.Provider]
// interface for testing.
package mock

import (
	"context"
	"io"
	"sync"

	"github.com/vaani-ai/vaani/pkg/provider/stt"
	"github.com/vaani-ai/vaani/pkg/types"
)

// TranscribeCall records a single invocation of [Provider.Transcribe].
type TranscribeCall struct {
	// Audio is a copy of the bytes read from the audio stream.
	Audio []byte
	// Filename is the filename hint passed to Transcribe.
	Filename string
}

// Provider is a mock implementation of stt.Provider. Configure the exported
// result fields, then inspect the recorded calls. Thread-safe.
type Provider struct {
	mu sync.Mutex

	// TranscribeResult is returned by Transcribe when TranscribeErr is nil.
	TranscribeResult types.Transcript

	// TranscribeErr, if non-nil, is returned as the error from Transcribe.
	TranscribeErr error

	// ModelIDValue is returned by ModelID. Defaults to "mock-stt".
	ModelIDValue string

	// TranscribeCalls records every call to Transcribe in order.
	TranscribeCalls []TranscribeCall
}

// Transcribe records the call and returns TranscribeResult, TranscribeErr.
func (p *Provider) Transcribe(ctx context.Context, audio io.Reader, filename string) (types.Transcript, error) {
	data, err := io.ReadAll(audio)
	if err != nil {
		return types.Transcript{}, err
	}

	p.mu.Lock()
	p.TranscribeCalls = append(p.TranscribeCalls, TranscribeCall{Audio: data, Filename: filename})
	p.mu.Unlock()

	if p.TranscribeErr != nil {
		return types.Transcript{}, p.TranscribeErr
	}
	return p.TranscribeResult, nil
}

// ModelID returns ModelIDValue, or "mock-stt" when unset.
func (p *Provider) ModelID() string {
	if p.ModelIDValue == "" {
		return "mock-stt"
	}
	return p.ModelIDValue
}

// Reset clears all recorded calls. Thread-safe.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.TranscribeCalls = nil
}

// Ensure Provider implements stt.Provider at compile time.
var _ stt.Provider = (*Provider)(nil)
