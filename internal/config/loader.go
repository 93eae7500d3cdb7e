package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ValidProviderNames lists known provider names per provider kind.
// Used by [Validate] to warn about unrecognised provider names.
var ValidProviderNames = map[string][]string{
	"stt":        {"sarvam"},
	"llm":        {"openai", "anthropic", "ollama", "gemini", "deepseek", "mistral", "groq", "llamacpp", "llamafile"},
	"tts":        {"sarvam"},
	"embeddings": {"openai"},
}

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	// Provider name validation — warn for unknown provider names.
	validateProviderName("stt", cfg.Providers.STT.Name)
	validateProviderName("llm", cfg.Providers.LLM.Name)
	validateProviderName("tts", cfg.Providers.TTS.Name)
	validateProviderName("embeddings", cfg.Providers.Embeddings.Name)

	// Provider availability warnings
	if cfg.Providers.LLM.Name == "" && len(cfg.Domains) > 0 {
		slog.Warn("no LLM provider configured; the assistant will not be able to generate replies")
	}
	if cfg.Providers.STT.Name == "" && len(cfg.Domains) > 0 {
		slog.Warn("no STT provider configured; voice input will not be transcribed")
	}

	// Embeddings ↔ review dimensions
	if cfg.Providers.Embeddings.Name != "" && cfg.Review.EmbeddingDimensions <= 0 {
		slog.Warn("providers.embeddings is configured but review.embedding_dimensions is not set; defaulting to 1536")
	}

	// Review store availability
	if cfg.Review.PostgresDSN == "" && len(cfg.Domains) > 0 {
		slog.Warn("review.postgres_dsn is empty; reviewed transcripts will not be persisted")
	}

	// Semantic distance needs an embeddings provider.
	if cfg.Eval.SemanticDistance && cfg.Providers.Embeddings.Name == "" {
		errs = append(errs, errors.New("eval.semantic_distance requires providers.embeddings to be configured"))
	}

	// Domain duplicate name detection
	domainNamesSeen := make(map[string]int, len(cfg.Domains))

	for i, d := range cfg.Domains {
		prefix := fmt.Sprintf("domains[%d]", i)
		if d.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		} else {
			if prev, ok := domainNamesSeen[d.Name]; ok {
				errs = append(errs, fmt.Errorf("%s.name %q is a duplicate of domains[%d]", prefix, d.Name, prev))
			}
			domainNamesSeen[d.Name] = i
		}
		if d.SystemPrompt == "" {
			slog.Warn("domain has no system prompt; the assistant will answer without domain grounding", "domain", d.Name)
		}
		if d.Voice.SampleRate < 0 {
			errs = append(errs, fmt.Errorf("%s.voice.sample_rate %d must not be negative", prefix, d.Voice.SampleRate))
		}
	}

	return errors.Join(errs...)
}

// validateProviderName logs a warning if name is non-empty and not found in
// the [ValidProviderNames] list for the given kind.
func validateProviderName(kind, name string) {
	if name == "" {
		return
	}
	known, ok := ValidProviderNames[kind]
	if !ok {
		return
	}
	if slices.Contains(known, name) {
		return
	}
	slog.Warn("unknown provider name — may be a typo or third-party provider",
		"kind", kind,
		"name", name,
		"known", known,
	)
}
