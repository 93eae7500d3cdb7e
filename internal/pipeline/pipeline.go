// Package pipeline orchestrates a single voice-bot turn: speech-to-text,
// transcript correction, LLM reply generation, and optional text-to-speech.
//
// The pipeline is domain-scoped. Each instance carries one domain's system
// prompt, glossary, and voice settings, and keeps the conversation history
// for its session. Stage timings are recorded per turn so slow providers
// show up in logs and benchmarks.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/vaani-ai/vaani/internal/observe"
	"github.com/vaani-ai/vaani/internal/transcript"
	"github.com/vaani-ai/vaani/pkg/provider/llm"
	"github.com/vaani-ai/vaani/pkg/provider/stt"
	"github.com/vaani-ai/vaani/pkg/provider/tts"
	"github.com/vaani-ai/vaani/pkg/types"
)

// defaultTemperature keeps replies consistent without making them robotic.
const defaultTemperature = 0.4

// escalateRe matches the escalation marker the LLM is instructed to emit as
// the last line of its reply, e.g. "ESCALATE: true".
var escalateRe = regexp.MustCompile(`(?i)ESCALATE\s*:\s*(true|false)`)

// Domain carries the per-domain settings a pipeline turn needs.
type Domain struct {
	// Name is the domain slug (e.g., "hr_admin").
	Name string

	// SystemPrompt is injected into every LLM request.
	SystemPrompt string

	// Glossary lists terms the transcript corrector should recognise.
	Glossary []string

	// Voice configures synthesis of the assistant's reply.
	Voice tts.Request
}

// Result is the outcome of a single [Pipeline.Run] turn.
type Result struct {
	// Transcript is the raw STT output for the user's audio.
	Transcript types.Transcript

	// Corrected is the transcript text after glossary correction. Equals
	// Transcript.Text when no corrector is configured.
	Corrected string

	// Reply is the assistant's reply text with the escalation marker removed.
	Reply string

	// Escalate is true when the LLM flagged this conversation for a human.
	Escalate bool

	// Audio is the synthesised reply. Nil when no TTS provider is configured.
	Audio []byte

	// Timings holds per-stage durations in seconds, keyed by "asr", "llm",
	// and "tts".
	Timings map[string]float64
}

// Option is a functional option for configuring a [Pipeline].
type Option func(*Pipeline)

// WithTTS enables reply synthesis using the given provider.
func WithTTS(provider tts.Provider) Option {
	return func(p *Pipeline) {
		p.tts = provider
	}
}

// WithCorrector enables glossary correction of STT drafts.
func WithCorrector(corrector transcript.Pipeline) Option {
	return func(p *Pipeline) {
		p.corrector = corrector
	}
}

// WithTemperature overrides the LLM sampling temperature. Default: 0.4.
func WithTemperature(t float64) Option {
	return func(p *Pipeline) {
		p.temperature = t
	}
}

// WithLogger replaces the default slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithMetrics records stage latencies and escalation counts to the given
// instruments.
func WithMetrics(m *observe.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// Pipeline runs voice-bot turns for one domain-scoped session.
//
// A Pipeline is NOT safe for concurrent use: it owns the conversation
// history of a single session. Create one per session.
type Pipeline struct {
	stt       stt.Provider
	llm       llm.Provider
	tts       tts.Provider
	corrector transcript.Pipeline

	domain      Domain
	temperature float64
	logger      *slog.Logger
	metrics     *observe.Metrics

	history []types.Message
}

// New creates a pipeline for the given domain. sttProvider and llmProvider
// are required; TTS and transcript correction are opt-in via options.
func New(sttProvider stt.Provider, llmProvider llm.Provider, domain Domain, opts ...Option) (*Pipeline, error) {
	if sttProvider == nil {
		return nil, errors.New("pipeline: STT provider must not be nil")
	}
	if llmProvider == nil {
		return nil, errors.New("pipeline: LLM provider must not be nil")
	}
	p := &Pipeline{
		stt:         sttProvider,
		llm:         llmProvider,
		domain:      domain,
		temperature: defaultTemperature,
		logger:      slog.Default(),
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Run executes one turn: transcribe audio, correct the draft, generate a
// reply, and synthesise it when a TTS provider is configured.
func (p *Pipeline) Run(ctx context.Context, audio io.Reader, filename string) (*Result, error) {
	result := &Result{Timings: make(map[string]float64, 3)}
	turnStart := time.Now()

	// STT
	start := time.Now()
	tr, err := p.stt.Transcribe(ctx, audio, filename)
	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordProviderRequest(ctx, p.stt.ModelID(), "stt", "error")
			p.metrics.RecordProviderError(ctx, p.stt.ModelID(), "stt")
		}
		return nil, fmt.Errorf("pipeline: transcribe: %w", err)
	}
	result.Transcript = tr
	result.Timings["asr"] = time.Since(start).Seconds()
	if p.metrics != nil {
		p.metrics.RecordProviderRequest(ctx, p.stt.ModelID(), "stt", "ok")
		p.metrics.STTDuration.Record(ctx, result.Timings["asr"])
	}
	p.logger.Info("transcribed user audio",
		"domain", p.domain.Name,
		"model", p.stt.ModelID(),
		"seconds", result.Timings["asr"],
	)

	if strings.TrimSpace(tr.Text) == "" {
		return nil, errors.New("pipeline: transcription is empty")
	}

	// Glossary correction
	result.Corrected = tr.Text
	if p.corrector != nil {
		corrected, err := p.corrector.Correct(ctx, tr, p.domain.Glossary)
		if err != nil {
			return nil, fmt.Errorf("pipeline: correct transcript: %w", err)
		}
		result.Corrected = corrected.Corrected
		if len(corrected.Corrections) > 0 {
			p.logger.Info("applied glossary corrections",
				"domain", p.domain.Name,
				"count", len(corrected.Corrections),
			)
			if p.metrics != nil {
				p.metrics.RecordGlossaryCorrections(ctx, p.domain.Name, int64(len(corrected.Corrections)))
			}
		}
	}

	// LLM
	start = time.Now()
	p.history = append(p.history, types.Message{Role: "user", Content: result.Corrected})
	resp, err := p.llm.Complete(ctx, llm.CompletionRequest{
		Messages:     p.history,
		SystemPrompt: p.domain.SystemPrompt,
		Temperature:  p.temperature,
	})
	if err != nil {
		// Keep history consistent with what the model has actually seen.
		p.history = p.history[:len(p.history)-1]
		if p.metrics != nil {
			p.metrics.RecordProviderRequest(ctx, p.llm.ModelID(), "llm", "error")
			p.metrics.RecordProviderError(ctx, p.llm.ModelID(), "llm")
		}
		return nil, fmt.Errorf("pipeline: complete: %w", err)
	}
	result.Timings["llm"] = time.Since(start).Seconds()
	if p.metrics != nil {
		p.metrics.RecordProviderRequest(ctx, p.llm.ModelID(), "llm", "ok")
		p.metrics.LLMDuration.Record(ctx, result.Timings["llm"])
	}

	result.Reply, result.Escalate = parseEscalation(resp.Content)
	p.history = append(p.history, types.Message{Role: "assistant", Content: resp.Content})
	p.logger.Info("generated reply",
		"domain", p.domain.Name,
		"model", p.llm.ModelID(),
		"escalate", result.Escalate,
		"seconds", result.Timings["llm"],
	)

	if result.Escalate {
		p.logger.Warn("conversation flagged for human escalation", "domain", p.domain.Name)
		if p.metrics != nil {
			p.metrics.RecordEscalation(ctx, p.domain.Name)
		}
	}

	// TTS
	if p.tts != nil && result.Reply != "" {
		start = time.Now()
		req := p.domain.Voice
		req.Text = result.Reply
		audio, err := p.tts.Synthesize(ctx, req)
		if err != nil {
			if p.metrics != nil {
				p.metrics.RecordProviderRequest(ctx, p.tts.VoiceID(), "tts", "error")
				p.metrics.RecordProviderError(ctx, p.tts.VoiceID(), "tts")
			}
			return nil, fmt.Errorf("pipeline: synthesize: %w", err)
		}
		result.Audio = audio
		result.Timings["tts"] = time.Since(start).Seconds()
		if p.metrics != nil {
			p.metrics.RecordProviderRequest(ctx, p.tts.VoiceID(), "tts", "ok")
			p.metrics.TTSDuration.Record(ctx, result.Timings["tts"])
		}
		p.logger.Info("synthesised reply audio",
			"domain", p.domain.Name,
			"voice", p.tts.VoiceID(),
			"bytes", len(audio),
			"seconds", result.Timings["tts"],
		)
	}

	if p.metrics != nil {
		p.metrics.TurnDuration.Record(ctx, time.Since(turnStart).Seconds())
	}

	return result, nil
}

// History returns a copy of the conversation history so far.
func (p *Pipeline) History() []types.Message {
	out := make([]types.Message, len(p.history))
	copy(out, p.history)
	return out
}

// Reset clears the conversation history, starting a fresh session.
func (p *Pipeline) Reset() {
	p.history = nil
}

// parseEscalation extracts the escalation flag from the LLM reply and strips
// the marker lines from the user-facing text.
func parseEscalation(reply string) (text string, escalate bool) {
	if m := escalateRe.FindStringSubmatch(reply); m != nil {
		escalate = strings.EqualFold(m[1], "true")
	}

	var kept []string
	for _, line := range strings.Split(reply, "\n") {
		if escalateRe.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n")), escalate
}
