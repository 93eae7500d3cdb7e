package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/vaani-ai/vaani/internal/bench"
	"github.com/vaani-ai/vaani/internal/config"
	"github.com/vaani-ai/vaani/internal/metric"
	"github.com/vaani-ai/vaani/internal/normalize"
	"github.com/vaani-ai/vaani/internal/observe"
	"github.com/vaani-ai/vaani/pkg/provider/embeddings"
	oaembed "github.com/vaani-ai/vaani/pkg/provider/embeddings/openai"
)

type CompareCmd struct {
	GroundTruth string `arg:"" optional:"" help:"Ground-truth xlsx file (Department / File Name / Human Reviewed); defaults to eval.ground_truth_xlsx"`
	Transcripts string `arg:"" optional:"" help:"Root directory of per-domain transcriptions*.jsonl files; defaults to eval.transcripts_dir"`
	Domain      string `flag:"" help:"Restrict the comparison to one domain"`
	SemDist     bool   `flag:"" help:"Also report semantic distance (needs an embeddings provider in the config)"`
	CSV         bool   `flag:"csv" help:"Emit CSV instead of a text table"`
}

type WaterfallCmd struct {
	GroundTruth string `arg:"" optional:"" help:"Ground-truth xlsx file; defaults to eval.ground_truth_xlsx"`
	Transcripts string `arg:"" optional:"" help:"Root directory of transcript files; defaults to eval.transcripts_dir"`
	Domain      string `flag:"" help:"Restrict the breakdown to one domain"`
	CSV         bool   `flag:"csv" help:"Emit CSV instead of a text table"`
}

func (cmd *CompareCmd) Run(app *Globals) error {
	settings, err := evalSettings(app.Config, cmd.GroundTruth, cmd.Transcripts)
	if err != nil {
		return err
	}
	groundTruth, hypotheses, err := loadCorpus(settings.groundTruth, settings.transcripts, cmd.Domain)
	if err != nil {
		return err
	}

	var scorer *metric.SemanticScorer
	if cmd.SemDist || settings.semDist {
		// The provider is only built when the first pair is scored.
		scorer = metric.NewLazySemanticScorer(func() (embeddings.Provider, error) {
			return embeddingsFromConfig(app.Config)
		})
	}

	comparer := bench.NewComparer(normalize.New(), scorer, bench.WithMetrics(observe.DefaultMetrics()))
	results, err := comparer.Compare(app.ctx, groundTruth, hypotheses)
	if err != nil {
		return err
	}
	return bench.WriteComparison(os.Stdout, results, cmd.CSV)
}

func (cmd *WaterfallCmd) Run(app *Globals) error {
	settings, err := evalSettings(app.Config, cmd.GroundTruth, cmd.Transcripts)
	if err != nil {
		return err
	}
	groundTruth, hypotheses, err := loadCorpus(settings.groundTruth, settings.transcripts, cmd.Domain)
	if err != nil {
		return err
	}
	rows := bench.Waterfall(groundTruth, hypotheses, normalize.New())
	return bench.WriteWaterfall(os.Stdout, rows, cmd.CSV)
}

type corpusSettings struct {
	groundTruth string
	transcripts string
	semDist     bool
}

// evalSettings resolves the corpus paths from the command arguments, falling
// back to the eval section of the config file when an argument is omitted.
func evalSettings(configPath, groundTruthArg, transcriptsArg string) (corpusSettings, error) {
	s := corpusSettings{groundTruth: groundTruthArg, transcripts: transcriptsArg}

	cfg, cfgErr := config.Load(configPath)
	if cfgErr == nil {
		if s.groundTruth == "" {
			s.groundTruth = cfg.Eval.GroundTruthXLSX
		}
		if s.transcripts == "" {
			s.transcripts = cfg.Eval.TranscriptsDir
		}
		s.semDist = cfg.Eval.SemanticDistance
	}

	if s.groundTruth == "" || s.transcripts == "" {
		if cfgErr != nil {
			return corpusSettings{}, fmt.Errorf("corpus paths not given and config unavailable: %w", cfgErr)
		}
		return corpusSettings{}, errors.New("ground truth and transcripts paths are required (arguments or the eval config section)")
	}
	return s, nil
}

// loadCorpus reads the ground truth and the per-model hypotheses, restricted
// to one domain when domain is non-empty.
func loadCorpus(groundTruthPath, transcriptsRoot, domain string) (map[bench.FileKey]string, bench.Hypotheses, error) {
	groundTruth, err := bench.LoadGroundTruth(groundTruthPath)
	if err != nil {
		return nil, nil, err
	}
	if domain != "" {
		filtered := make(map[bench.FileKey]string, len(groundTruth))
		for key, text := range groundTruth {
			if key.InDomain(domain) {
				filtered[key] = text
			}
		}
		groundTruth = filtered
	}

	hypotheses, err := bench.LoadHypotheses(transcriptsRoot, domain)
	if err != nil {
		return nil, nil, err
	}
	return groundTruth, hypotheses, nil
}

// embeddingsFromConfig builds the embeddings provider named in the config
// file at path.
func embeddingsFromConfig(path string) (embeddings.Provider, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	entry := cfg.Providers.Embeddings
	if entry.Name == "" {
		return nil, fmt.Errorf("semantic distance needs providers.embeddings in %s", path)
	}
	if entry.Name != "openai" {
		return nil, fmt.Errorf("unsupported embeddings provider %q", entry.Name)
	}
	var opts []oaembed.Option
	if entry.BaseURL != "" {
		opts = append(opts, oaembed.WithBaseURL(entry.BaseURL))
	}
	return oaembed.New(entry.APIKey, entry.Model, opts...)
}
