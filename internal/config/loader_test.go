package config_test

import (
	"strings"
	"testing"

	"github.com/vaani-ai/vaani/internal/config"
)

func TestValidate_DuplicateDomainNames(t *testing.T) {
	t.Parallel()
	yaml := `
providers:
  stt:
    name: sarvam
  llm:
    name: openai
  tts:
    name: sarvam
domains:
  - name: hr_admin
    system_prompt: "HR assistant"
  - name: hr_admin
    system_prompt: "HR assistant again"
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for duplicate domain names, got nil")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("error should mention duplicate, got: %v", err)
	}
}

func TestValidate_DomainNameRequired(t *testing.T) {
	t.Parallel()
	yaml := `
domains:
  - system_prompt: "nameless domain"
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for missing domain name, got nil")
	}
	if !strings.Contains(err.Error(), "name is required") {
		t.Errorf("error should mention required name, got: %v", err)
	}
}

func TestValidate_SemanticDistanceRequiresEmbeddings(t *testing.T) {
	t.Parallel()
	yaml := `
eval:
  semantic_distance: true
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for semantic_distance without embeddings provider, got nil")
	}
	if !strings.Contains(err.Error(), "embeddings") {
		t.Errorf("error should mention embeddings, got: %v", err)
	}
}

func TestValidate_SemanticDistanceWithEmbeddingsIsValid(t *testing.T) {
	t.Parallel()
	yaml := `
providers:
  embeddings:
    name: openai
    model: text-embedding-3-small
review:
  embedding_dimensions: 1536
eval:
  semantic_distance: true
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_FullConfigIsValid(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  listen_addr: ":8080"
  log_level: info
providers:
  stt:
    name: sarvam
    api_key: key-1
    model: saarika:v2.5
  llm:
    name: openai
    api_key: key-2
    model: gpt-4o-mini
  tts:
    name: sarvam
    api_key: key-1
  embeddings:
    name: openai
    api_key: key-2
    model: text-embedding-3-small
review:
  postgres_dsn: "postgres://localhost/vaani"
  embedding_dimensions: 1536
domains:
  - name: hr_admin
    system_prompt: "You are an HR assistant. Reply in Hindi."
    glossary: ["UAN", "PF", "ESIC"]
    voice:
      speaker: manisha
      language_code: hi-IN
      sample_rate: 22050
eval:
  transcripts_dir: data/transcripts
  ground_truth_xlsx: data/ground_truth.xlsx
  semantic_distance: true
`
	cfg, err := config.LoadFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Providers.STT.Model != "saarika:v2.5" {
		t.Errorf("stt model: got %q", cfg.Providers.STT.Model)
	}
	if len(cfg.Domains) != 1 || len(cfg.Domains[0].Glossary) != 3 {
		t.Errorf("domains not parsed as expected: %+v", cfg.Domains)
	}
	if cfg.Domains[0].Voice.Speaker != "manisha" {
		t.Errorf("voice speaker: got %q", cfg.Domains[0].Voice.Speaker)
	}
}

func TestValidate_NegativeSampleRate(t *testing.T) {
	t.Parallel()
	yaml := `
domains:
  - name: hr_admin
    system_prompt: "HR assistant"
    voice:
      sample_rate: -1
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for negative sample rate, got nil")
	}
}

func TestLoadFromReader_UnknownFieldRejected(t *testing.T) {
	t.Parallel()
	yaml := `
server:
  listen_addr: ":8080"
  not_a_real_field: true
`
	_, err := config.LoadFromReader(strings.NewReader(yaml))
	if err == nil {
		t.Fatal("expected error for unknown YAML field, got nil")
	}
}

func TestValidProviderNames(t *testing.T) {
	t.Parallel()
	// Sanity-check that the map is populated.
	if len(config.ValidProviderNames) == 0 {
		t.Fatal("ValidProviderNames should not be empty")
	}
	sttNames := config.ValidProviderNames["stt"]
	if len(sttNames) == 0 {
		t.Fatal("ValidProviderNames[\"stt\"] should not be empty")
	}
	found := false
	for _, n := range sttNames {
		if n == "sarvam" {
			found = true
			break
		}
	}
	if !found {
		t.Error("ValidProviderNames[\"stt\"] should contain \"sarvam\"")
	}
}
