// Package sarvam implements the [stt.Provider] interface on top of the
// Sarvam AI speech-to-text REST API.
//
// Sarvam's saarika models are purpose-built for Indian languages and handle
// the Hindi/English code-switching common in workplace voice notes. The API
// is a single multipart POST: the audio file plus a model form field,
// authenticated with an api-subscription-key header.
package sarvam

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/vaani-ai/vaani/pkg/provider/stt"
	"github.com/vaani-ai/vaani/pkg/types"
)

const (
	defaultBaseURL = "https://api.sarvam.ai/speech-to-text"
	defaultModel   = "saarika:v2.5"
	defaultTimeout = 60 * time.Second
)

// Option is a functional option for configuring the Sarvam STT provider.
type Option func(*Provider)

// WithModel overrides the transcription model. Default: "saarika:v2.5".
func WithModel(model string) Option {
	return func(p *Provider) {
		p.model = model
	}
}

// WithBaseURL overrides the API endpoint. Useful for tests and proxies.
func WithBaseURL(baseURL string) Option {
	return func(p *Provider) {
		p.baseURL = baseURL
	}
}

// WithLanguage sets the language code attached to returned transcripts.
// Default: "hi-IN". Saarika auto-detects the spoken language; this value is
// only a hint recorded in the [types.Transcript].
func WithLanguage(code string) Option {
	return func(p *Provider) {
		p.language = code
	}
}

// WithHTTPClient replaces the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		p.client = client
	}
}

// Provider implements [stt.Provider] using the Sarvam AI API.
// It is safe for concurrent use.
type Provider struct {
	apiKey   string
	model    string
	baseURL  string
	language string
	client   *http.Client
}

var _ stt.Provider = (*Provider)(nil)

// New creates a Sarvam STT provider. apiKey must be a valid Sarvam
// subscription key.
func New(apiKey string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, errors.New("sarvam stt: API key must not be empty")
	}
	p := &Provider{
		apiKey:   apiKey,
		model:    defaultModel,
		baseURL:  defaultBaseURL,
		language: "hi-IN",
		client:   &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// ModelID returns the configured saarika model identifier.
func (p *Provider) ModelID() string {
	return p.model
}

// transcribeResponse covers the field names Sarvam has used across API
// versions for the transcript text.
type transcribeResponse struct {
	Text          string `json:"text"`
	Transcript    string `json:"transcript"`
	Transcription string `json:"transcription"`
	Output        string `json:"output"`
	LanguageCode  string `json:"language_code"`
}

// Transcribe uploads the audio stream and returns the transcript.
func (p *Provider) Transcribe(ctx context.Context, audio io.Reader, filename string) (types.Transcript, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("model", p.model); err != nil {
		return types.Transcript{}, fmt.Errorf("sarvam stt: writing model field: %w", err)
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return types.Transcript{}, fmt.Errorf("sarvam stt: creating file part: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return types.Transcript{}, fmt.Errorf("sarvam stt: buffering audio: %w", err)
	}
	if err := mw.Close(); err != nil {
		return types.Transcript{}, fmt.Errorf("sarvam stt: finalizing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, &body)
	if err != nil {
		return types.Transcript{}, fmt.Errorf("sarvam stt: creating request: %w", err)
	}
	req.Header.Set("api-subscription-key", p.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return types.Transcript{}, fmt.Errorf("sarvam stt: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.Transcript{}, fmt.Errorf("sarvam stt: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return types.Transcript{}, fmt.Errorf("sarvam stt: API returned status %d: %s", resp.StatusCode, truncate(raw, 200))
	}

	var tr transcribeResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return types.Transcript{}, fmt.Errorf("sarvam stt: decoding response: %w", err)
	}

	text := firstNonEmpty(tr.Text, tr.Transcript, tr.Transcription, tr.Output)
	language := p.language
	if tr.LanguageCode != "" {
		language = tr.LanguageCode
	}

	return types.Transcript{
		Text:     strings.TrimSpace(text),
		Language: language,
		Model:    p.model,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
