package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vaani-ai/vaani/internal/bench"
	"github.com/vaani-ai/vaani/internal/config"
	"github.com/vaani-ai/vaani/internal/observe"
	"github.com/vaani-ai/vaani/internal/pipeline"
	"github.com/vaani-ai/vaani/internal/review"
	"github.com/vaani-ai/vaani/internal/transcript"
	"github.com/vaani-ai/vaani/internal/transcript/phonetic"
	"github.com/vaani-ai/vaani/pkg/provider/tts"
)

// server is the long-running HTTP mode of vaani. Each POST to /v1/turn runs
// one pipeline turn. Domain prompts, glossaries, and the log level are
// hot-reloaded when the config file changes on disk.
type server struct {
	providers *providers
	metrics   *observe.Metrics
	logLevel  *slog.LevelVar
	store     *review.Store

	mu      sync.RWMutex
	domains map[string]config.DomainConfig
}

func newServer(cfg *config.Config, ps *providers, m *observe.Metrics, logLevel *slog.LevelVar) *server {
	s := &server{
		providers: ps,
		metrics:   m,
		logLevel:  logLevel,
		domains:   make(map[string]config.DomainConfig, len(cfg.Domains)),
	}
	for _, d := range cfg.Domains {
		s.domains[d.Name] = d
	}
	return s
}

// runServe starts the HTTP server and the config file watcher, and blocks
// until ctx is cancelled or the server fails.
func runServe(ctx context.Context, configPath string, cfg *config.Config, ps *providers, m *observe.Metrics, logLevel *slog.LevelVar) int {
	if cfg.Server.ListenAddr == "" {
		slog.Error("serve mode needs server.listen_addr in the config")
		return 1
	}

	srv := newServer(cfg, ps, m, logLevel)

	if cfg.Review.PostgresDSN != "" {
		store, err := review.NewStore(ctx, cfg.Review.PostgresDSN, cfg.Review.EmbeddingDimensions)
		if err != nil {
			slog.Error("failed to open review store", "err", err)
			return 1
		}
		defer store.Close()
		srv.store = store
	}

	watcher, err := config.NewWatcher(configPath, srv.applyConfig)
	if err != nil {
		slog.Error("failed to watch config file", "path", configPath, "err", err)
		return 1
	}
	defer watcher.Stop()

	httpSrv := &http.Server{Addr: cfg.Server.ListenAddr, Handler: srv.handler()}
	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	slog.Info("vaani serving", "addr", cfg.Server.ListenAddr, "domains", len(cfg.Domains))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("http shutdown error", "err", err)
		}
		return 0
	case err := <-errCh:
		slog.Error("http server failed", "err", err)
		return 1
	}
}

// applyConfig is the watcher callback. It diffs the old and new configs and
// applies the changes that are safe without a restart: the log level and the
// per-domain prompts, glossaries, and voices. Provider changes still need a
// restart.
func (s *server) applyConfig(old, new *config.Config) {
	d := config.Diff(old, new)

	if d.LogLevelChanged {
		s.logLevel.Set(slogLevel(d.NewLogLevel))
		slog.Info("log level updated", "level", d.NewLogLevel)
	}
	if !d.DomainsChanged {
		return
	}

	s.mu.Lock()
	for _, dd := range d.DomainChanges {
		if dd.Removed {
			delete(s.domains, dd.Name)
			slog.Info("domain removed", "domain", dd.Name)
			continue
		}
		nd, ok := new.Domain(dd.Name)
		if !ok {
			continue
		}
		s.domains[dd.Name] = nd
		slog.Info("domain updated",
			"domain", dd.Name,
			"added", dd.Added,
			"prompt", dd.SystemPromptChanged,
			"glossary", dd.GlossaryChanged,
			"voice", dd.VoiceChanged,
		)
	}
	s.mu.Unlock()
}

// domain returns the current settings for name. New turns always see the
// latest hot-reloaded config.
func (s *server) domain(name string) (config.DomainConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.domains[name]
	return d, ok
}

func (s *server) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/v1/turn", s.handleTurn)
	return observe.Middleware(s.metrics)(mux)
}

// turnResponse is the JSON body returned by /v1/turn. Audio is base64-encoded
// by the JSON encoder and omitted when no TTS provider is configured.
type turnResponse struct {
	Transcript string             `json:"transcript"`
	Corrected  string             `json:"corrected"`
	Reply      string             `json:"reply"`
	Escalate   bool               `json:"escalate"`
	Timings    map[string]float64 `json:"timings"`
	Audio      []byte             `json:"audio,omitempty"`
}

// handleTurn runs one pipeline turn over a multipart form with an "audio"
// file and a "domain" field. Every request is its own session.
func (s *server) handleTurn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	domain, ok := s.domain(r.FormValue("domain"))
	if !ok {
		http.Error(w, "unknown domain", http.StatusNotFound)
		return
	}
	audio, header, err := r.FormFile("audio")
	if err != nil {
		http.Error(w, "audio file is required", http.StatusBadRequest)
		return
	}
	defer audio.Close()

	p, err := s.newPipeline(domain)
	if err != nil {
		observe.Logger(r.Context()).Error("failed to build pipeline", "domain", domain.Name, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	s.metrics.ActiveSessions.Add(ctx, 1)
	result, err := p.Run(ctx, audio, header.Filename)
	s.metrics.ActiveSessions.Add(ctx, -1)
	if err != nil {
		observe.Logger(ctx).Error("pipeline turn failed", "domain", domain.Name, "err", err)
		http.Error(w, "pipeline turn failed", http.StatusBadGateway)
		return
	}

	if s.store != nil {
		if err := s.storeDraft(ctx, domain.Name, header.Filename, result); err != nil {
			observe.Logger(ctx).Warn("failed to store transcript draft for review", "err", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(turnResponse{
		Transcript: result.Transcript.Text,
		Corrected:  result.Corrected,
		Reply:      result.Reply,
		Escalate:   result.Escalate,
		Timings:    result.Timings,
		Audio:      result.Audio,
	})
}

// newPipeline builds a fresh single-session pipeline for one turn, using the
// domain settings current at request time.
func (s *server) newPipeline(d config.DomainConfig) (*pipeline.Pipeline, error) {
	opts := []pipeline.Option{
		pipeline.WithCorrector(transcript.NewPipeline(
			transcript.WithGlossaryMatcher(phonetic.New()),
		)),
		pipeline.WithMetrics(s.metrics),
	}
	if s.providers.TTS != nil {
		opts = append(opts, pipeline.WithTTS(s.providers.TTS))
	}
	return pipeline.New(s.providers.STT, s.providers.LLM, pipeline.Domain{
		Name:         d.Name,
		SystemPrompt: d.SystemPrompt,
		Glossary:     d.Glossary,
		Voice: tts.Request{
			Speaker:      d.Voice.Speaker,
			LanguageCode: d.Voice.LanguageCode,
			SampleRate:   d.Voice.SampleRate,
		},
	}, opts...)
}

// storeDraft queues the turn's corrected transcript in the review store.
func (s *server) storeDraft(ctx context.Context, domain, filename string, result *pipeline.Result) error {
	rec := review.Review{
		Key:    bench.NewFileKey(domain, filename),
		Model:  result.Transcript.Model,
		Draft:  result.Corrected,
		Status: "pending",
	}
	if s.providers.Embeddings != nil {
		vec, err := s.providers.Embeddings.Embed(ctx, result.Corrected)
		if err != nil {
			slog.Warn("failed to embed draft, storing without embedding", "err", err)
		} else {
			rec.Embedding = vec
		}
	}
	return s.store.Upsert(ctx, rec)
}
