// Package sarvam implements the [tts.Provider] interface on top of the
// Sarvam AI text-to-speech REST API.
//
// Sarvam's bulbul voices cover Indian languages natively; the default
// "manisha" speaker handles the Hindi replies this system produces. The API
// accepts a JSON payload and returns either raw WAV bytes or a JSON envelope
// carrying base64-encoded audio, depending on the API version.
package sarvam

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vaani-ai/vaani/pkg/provider/tts"
)

const (
	defaultBaseURL    = "https://api.sarvam.ai/text-to-speech"
	defaultSpeaker    = "manisha"
	defaultLanguage   = "hi-IN"
	defaultSampleRate = 22050
	defaultTimeout    = 60 * time.Second
)

// Option is a functional option for configuring the Sarvam TTS provider.
type Option func(*Provider)

// WithSpeaker overrides the default voice. Default: "manisha".
func WithSpeaker(speaker string) Option {
	return func(p *Provider) {
		p.speaker = speaker
	}
}

// WithLanguage overrides the default target language code. Default: "hi-IN".
func WithLanguage(code string) Option {
	return func(p *Provider) {
		p.language = code
	}
}

// WithSampleRate overrides the default output sample rate. Default: 22050.
func WithSampleRate(hz int) Option {
	return func(p *Provider) {
		p.sampleRate = hz
	}
}

// WithBaseURL overrides the API endpoint. Useful for tests and proxies.
func WithBaseURL(baseURL string) Option {
	return func(p *Provider) {
		p.baseURL = baseURL
	}
}

// WithHTTPClient replaces the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		p.client = client
	}
}

// Provider implements [tts.Provider] using the Sarvam AI API.
// It is safe for concurrent use.
type Provider struct {
	apiKey     string
	speaker    string
	language   string
	sampleRate int
	baseURL    string
	client     *http.Client
}

var _ tts.Provider = (*Provider)(nil)

// New creates a Sarvam TTS provider. apiKey must be a valid Sarvam
// subscription key.
func New(apiKey string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, errors.New("sarvam tts: API key must not be empty")
	}
	p := &Provider{
		apiKey:     apiKey,
		speaker:    defaultSpeaker,
		language:   defaultLanguage,
		sampleRate: defaultSampleRate,
		baseURL:    defaultBaseURL,
		client:     &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// VoiceID returns the configured default speaker.
func (p *Provider) VoiceID() string {
	return p.speaker
}

type synthesizeRequest struct {
	Inputs             []string `json:"inputs"`
	TargetLanguageCode string   `json:"target_language_code"`
	Speaker            string   `json:"speaker,omitempty"`
	SpeechSampleRate   int      `json:"speech_sample_rate,omitempty"`
}

type synthesizeResponse struct {
	Audio  string   `json:"audio"`
	Audios []string `json:"audios"`
}

// Synthesize converts req.Text to speech and returns the audio bytes.
func (p *Provider) Synthesize(ctx context.Context, req tts.Request) ([]byte, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, errors.New("sarvam tts: text must not be empty")
	}

	payload := synthesizeRequest{
		Inputs:             []string{req.Text},
		TargetLanguageCode: p.language,
		Speaker:            p.speaker,
		SpeechSampleRate:   p.sampleRate,
	}
	if req.LanguageCode != "" {
		payload.TargetLanguageCode = req.LanguageCode
	}
	if req.Speaker != "" {
		payload.Speaker = req.Speaker
	}
	if req.SampleRate != 0 {
		payload.SpeechSampleRate = req.SampleRate
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("sarvam tts: encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("sarvam tts: creating request: %w", err)
	}
	httpReq.Header.Set("api-subscription-key", p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sarvam tts: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sarvam tts: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sarvam tts: API returned status %d: %s", resp.StatusCode, truncate(raw, 200))
	}

	// Newer API versions return the audio directly; older ones wrap
	// base64-encoded audio in a JSON envelope.
	if isRawAudio(resp.Header.Get("Content-Type"), raw) {
		return raw, nil
	}

	var sr synthesizeResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return nil, fmt.Errorf("sarvam tts: decoding response: %w", err)
	}
	encoded := sr.Audio
	if encoded == "" && len(sr.Audios) > 0 {
		encoded = sr.Audios[0]
	}
	if encoded == "" {
		return nil, errors.New("sarvam tts: response contained no audio")
	}
	audio, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("sarvam tts: decoding audio payload: %w", err)
	}
	return audio, nil
}

// isRawAudio reports whether the response body is already audio rather than
// a JSON envelope. WAV files start with the RIFF magic.
func isRawAudio(contentType string, body []byte) bool {
	if strings.Contains(contentType, "audio") {
		return true
	}
	return bytes.HasPrefix(body, []byte("RIFF"))
}

func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
