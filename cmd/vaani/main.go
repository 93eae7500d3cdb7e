// Command vaani is the Hindi/Marathi voice-bot entry point. By default it
// runs one pipeline turn over an input audio file: transcribe, correct domain
// terms, generate a grounded reply, and optionally synthesise the reply to
// audio. With -serve it runs as an HTTP service instead, answering turns on
// /v1/turn and hot-reloading domain settings from the config file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vaani-ai/vaani/internal/bench"
	"github.com/vaani-ai/vaani/internal/config"
	"github.com/vaani-ai/vaani/internal/observe"
	"github.com/vaani-ai/vaani/internal/pipeline"
	"github.com/vaani-ai/vaani/internal/review"
	"github.com/vaani-ai/vaani/internal/transcript"
	"github.com/vaani-ai/vaani/internal/transcript/phonetic"
	"github.com/vaani-ai/vaani/pkg/provider/embeddings"
	oaembed "github.com/vaani-ai/vaani/pkg/provider/embeddings/openai"
	"github.com/vaani-ai/vaani/pkg/provider/llm"
	"github.com/vaani-ai/vaani/pkg/provider/llm/anyllm"
	oaillm "github.com/vaani-ai/vaani/pkg/provider/llm/openai"
	"github.com/vaani-ai/vaani/pkg/provider/stt"
	sttsarvam "github.com/vaani-ai/vaani/pkg/provider/stt/sarvam"
	"github.com/vaani-ai/vaani/pkg/provider/tts"
	ttssarvam "github.com/vaani-ai/vaani/pkg/provider/tts/sarvam"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	audioPath := flag.String("audio", "", "path to the input audio file (required unless -serve)")
	domainName := flag.String("domain", "", "domain to answer in (must be configured)")
	outPath := flag.String("out", "", "write the synthesised reply audio to this file")
	serveMode := flag.Bool("serve", false, "run as an HTTP service with config hot reload")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "vaani: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "vaani: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	// The level lives in a LevelVar so serve mode can hot-reload it.
	logLevel := new(slog.LevelVar)
	logLevel.Set(slogLevel(cfg.Server.LogLevel))
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Observability ─────────────────────────────────────────────────────────
	shutdownOtel, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "vaani"})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOtel(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()
	metrics := observe.DefaultMetrics()

	// ── Provider registry ─────────────────────────────────────────────────────
	reg := config.NewRegistry()
	registerBuiltinProviders(reg)

	providers, err := buildProviders(cfg, reg)
	if err != nil {
		slog.Error("failed to build providers", "err", err)
		return 1
	}
	if providers.STT == nil || providers.LLM == nil {
		slog.Error("a pipeline turn needs both an stt and an llm provider configured")
		return 1
	}

	if *serveMode {
		return runServe(ctx, *configPath, cfg, providers, metrics, logLevel)
	}

	// ── One-shot turn ─────────────────────────────────────────────────────────
	if *audioPath == "" {
		fmt.Fprintln(os.Stderr, "vaani: -audio is required")
		flag.Usage()
		return 1
	}

	domain, ok := cfg.Domain(*domainName)
	if !ok {
		slog.Error("domain not configured", "domain", *domainName)
		return 1
	}

	slog.Info("vaani starting",
		"config", *configPath,
		"domain", domain.Name,
		"log_level", cfg.Server.LogLevel,
	)

	if cfg.Server.ListenAddr != "" {
		go serveMetrics(cfg.Server.ListenAddr, metrics)
	}

	// ── Pipeline ──────────────────────────────────────────────────────────────
	opts := []pipeline.Option{
		pipeline.WithCorrector(transcript.NewPipeline(
			transcript.WithGlossaryMatcher(phonetic.New()),
		)),
		pipeline.WithMetrics(metrics),
	}
	if providers.TTS != nil {
		opts = append(opts, pipeline.WithTTS(providers.TTS))
	}

	p, err := pipeline.New(providers.STT, providers.LLM, pipeline.Domain{
		Name:         domain.Name,
		SystemPrompt: domain.SystemPrompt,
		Glossary:     domain.Glossary,
		Voice: tts.Request{
			Speaker:      domain.Voice.Speaker,
			LanguageCode: domain.Voice.LanguageCode,
			SampleRate:   domain.Voice.SampleRate,
		},
	}, opts...)
	if err != nil {
		slog.Error("failed to build pipeline", "err", err)
		return 1
	}

	// ── One turn ──────────────────────────────────────────────────────────────
	f, err := os.Open(*audioPath)
	if err != nil {
		slog.Error("failed to open audio file", "path", *audioPath, "err", err)
		return 1
	}
	defer f.Close()

	metrics.ActiveSessions.Add(ctx, 1)
	result, err := p.Run(ctx, f, *audioPath)
	metrics.ActiveSessions.Add(ctx, -1)
	if err != nil {
		slog.Error("pipeline turn failed", "err", err)
		return 1
	}

	fmt.Printf("transcript : %s\n", result.Transcript.Text)
	if result.Corrected != result.Transcript.Text {
		fmt.Printf("corrected  : %s\n", result.Corrected)
	}
	fmt.Printf("reply      : %s\n", result.Reply)
	fmt.Printf("escalate   : %v\n", result.Escalate)
	for stage, seconds := range result.Timings {
		fmt.Printf("%-11s: %.2fs\n", stage, seconds)
	}

	if *outPath != "" && result.Audio != nil {
		if err := os.WriteFile(*outPath, result.Audio, 0o644); err != nil {
			slog.Error("failed to write reply audio", "path", *outPath, "err", err)
			return 1
		}
		slog.Info("reply audio written", "path", *outPath, "bytes", len(result.Audio))
	}

	// ── Review store (optional) ───────────────────────────────────────────────
	if cfg.Review.PostgresDSN != "" {
		if err := storeDraft(ctx, cfg, providers.Embeddings, domain.Name, *audioPath, result); err != nil {
			slog.Warn("failed to store transcript draft for review", "err", err)
		}
	}

	return 0
}

// serveMetrics exposes /metrics and /healthz on addr. Runs until the process
// exits.
func serveMetrics(addr string, m *observe.Metrics) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	slog.Info("metrics endpoint listening", "addr", addr)
	if err := http.ListenAndServe(addr, observe.Middleware(m)(mux)); err != nil {
		slog.Warn("metrics endpoint stopped", "err", err)
	}
}

// storeDraft queues the turn's STT draft in the review store so a human can
// correct it later. The embedding is computed from the draft when an
// embeddings provider is configured.
func storeDraft(ctx context.Context, cfg *config.Config, embedder embeddings.Provider, domain, audioPath string, result *pipeline.Result) error {
	store, err := review.NewStore(ctx, cfg.Review.PostgresDSN, cfg.Review.EmbeddingDimensions)
	if err != nil {
		return err
	}
	defer store.Close()

	rec := review.Review{
		Key:      bench.NewFileKey(domain, audioPath),
		Model:    result.Transcript.Model,
		Draft:    result.Corrected,
		Reviewed: "",
		Status:   "pending",
	}
	if embedder != nil {
		vec, err := embedder.Embed(ctx, result.Corrected)
		if err != nil {
			slog.Warn("failed to embed draft, storing without embedding", "err", err)
		} else {
			rec.Embedding = vec
		}
	}
	return store.Upsert(ctx, rec)
}

// ── Provider wiring ───────────────────────────────────────────────────────────

// providers holds the instantiated provider set for one run.
type providers struct {
	STT        stt.Provider
	LLM        llm.Provider
	TTS        tts.Provider
	Embeddings embeddings.Provider
}

// registerBuiltinProviders wires all built-in provider factories into reg.
// Each factory receives a config.ProviderEntry and constructs the appropriate
// provider from the real implementation packages.
func registerBuiltinProviders(reg *config.Registry) {
	// ── STT ───────────────────────────────────────────────────────────────────

	reg.RegisterSTT("sarvam", func(entry config.ProviderEntry) (stt.Provider, error) {
		var opts []sttsarvam.Option
		if entry.Model != "" {
			opts = append(opts, sttsarvam.WithModel(entry.Model))
		}
		if entry.BaseURL != "" {
			opts = append(opts, sttsarvam.WithBaseURL(entry.BaseURL))
		}
		if lang := optString(entry.Options, "language"); lang != "" {
			opts = append(opts, sttsarvam.WithLanguage(lang))
		}
		return sttsarvam.New(entry.APIKey, opts...)
	})

	// ── LLM ───────────────────────────────────────────────────────────────────

	// openai talks to the OpenAI API directly.
	reg.RegisterLLM("openai", func(entry config.ProviderEntry) (llm.Provider, error) {
		var opts []oaillm.Option
		if entry.BaseURL != "" {
			opts = append(opts, oaillm.WithBaseURL(entry.BaseURL))
		}
		if org := optString(entry.Options, "organization"); org != "" {
			opts = append(opts, oaillm.WithOrganization(org))
		}
		return oaillm.New(entry.APIKey, entry.Model, opts...)
	})

	// anthropic, gemini, deepseek, mistral, groq, llamacpp, llamafile all
	// share the same pattern: optional APIKey + optional BaseURL.
	for _, providerName := range []string{
		"anthropic", "gemini", "deepseek", "mistral", "groq", "llamacpp", "llamafile",
	} {
		reg.RegisterLLM(providerName, func(entry config.ProviderEntry) (llm.Provider, error) {
			var opts []anyllmlib.Option
			if entry.APIKey != "" {
				opts = append(opts, anyllmlib.WithAPIKey(entry.APIKey))
			}
			if entry.BaseURL != "" {
				opts = append(opts, anyllmlib.WithBaseURL(entry.BaseURL))
			}
			return anyllm.New(providerName, entry.Model, opts...)
		})
	}

	// ollama is a local server; it uses BaseURL for the address, not an API key.
	reg.RegisterLLM("ollama", func(entry config.ProviderEntry) (llm.Provider, error) {
		var opts []anyllmlib.Option
		if entry.BaseURL != "" {
			opts = append(opts, anyllmlib.WithBaseURL(entry.BaseURL))
		}
		return anyllm.New("ollama", entry.Model, opts...)
	})

	// ── TTS ───────────────────────────────────────────────────────────────────

	reg.RegisterTTS("sarvam", func(entry config.ProviderEntry) (tts.Provider, error) {
		var opts []ttssarvam.Option
		if entry.BaseURL != "" {
			opts = append(opts, ttssarvam.WithBaseURL(entry.BaseURL))
		}
		if speaker := optString(entry.Options, "speaker"); speaker != "" {
			opts = append(opts, ttssarvam.WithSpeaker(speaker))
		}
		if lang := optString(entry.Options, "language"); lang != "" {
			opts = append(opts, ttssarvam.WithLanguage(lang))
		}
		return ttssarvam.New(entry.APIKey, opts...)
	})

	// ── Embeddings ────────────────────────────────────────────────────────────

	reg.RegisterEmbeddings("openai", func(entry config.ProviderEntry) (embeddings.Provider, error) {
		var opts []oaembed.Option
		if entry.BaseURL != "" {
			opts = append(opts, oaembed.WithBaseURL(entry.BaseURL))
		}
		return oaembed.New(entry.APIKey, entry.Model, opts...)
	})
}

// buildProviders instantiates all providers named in cfg using the registry.
func buildProviders(cfg *config.Config, reg *config.Registry) (*providers, error) {
	ps := &providers{}

	if name := cfg.Providers.STT.Name; name != "" {
		p, err := reg.CreateSTT(cfg.Providers.STT)
		if err != nil {
			return nil, fmt.Errorf("create stt provider %q: %w", name, err)
		}
		ps.STT = p
		slog.Info("provider created", "kind", "stt", "name", name)
	}

	if name := cfg.Providers.LLM.Name; name != "" {
		p, err := reg.CreateLLM(cfg.Providers.LLM)
		if err != nil {
			return nil, fmt.Errorf("create llm provider %q: %w", name, err)
		}
		ps.LLM = p
		slog.Info("provider created", "kind", "llm", "name", name)
	}

	if name := cfg.Providers.TTS.Name; name != "" {
		p, err := reg.CreateTTS(cfg.Providers.TTS)
		if err != nil {
			return nil, fmt.Errorf("create tts provider %q: %w", name, err)
		}
		ps.TTS = p
		slog.Info("provider created", "kind", "tts", "name", name)
	}

	if name := cfg.Providers.Embeddings.Name; name != "" {
		p, err := reg.CreateEmbeddings(cfg.Providers.Embeddings)
		if err != nil {
			return nil, fmt.Errorf("create embeddings provider %q: %w", name, err)
		}
		ps.Embeddings = p
		slog.Info("provider created", "kind", "embeddings", "name", name)
	}

	return ps, nil
}

// ── Logger ─────────────────────────────────────────────────────────────────────

// slogLevel maps the config log level to the slog level. Unknown values fall
// back to info.
func slogLevel(level config.LogLevel) slog.Level {
	switch level {
	case config.LogDebug:
		return slog.LevelDebug
	case config.LogWarn:
		return slog.LevelWarn
	case config.LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// optString extracts a string value from a provider Options map[string]any.
// Returns "" if the map is nil, the key is absent, or the value is not a string.
func optString(opts map[string]any, key string) string {
	if opts == nil {
		return ""
	}
	v, ok := opts[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
