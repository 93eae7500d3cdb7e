// Command vaanibench is the ASR evaluation toolkit: text normalization,
// WER/CER self-evaluation, model comparison, waterfall attribution, and
// ITRANS transliteration.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	kong "github.com/alecthomas/kong"
)

type Globals struct {
	Config string `name:"config" help:"Path to the YAML configuration file (can be set from VAANI_CONFIG env)" default:"${VAANI_CONFIG}"`
	Debug  bool   `name:"debug" help:"Enable debug output"`

	ctx context.Context
}

type CLI struct {
	Globals

	Normalize     NormalizeCmd     `cmd:"normalize" help:"Run text through the Hindi normalization pipeline"`
	Wer           WerCmd           `cmd:"wer" help:"Score a transcript JSONL file against its own human reviews"`
	Compare       CompareCmd       `cmd:"compare" help:"Rank models against ground truth by normalized WER"`
	Waterfall     WaterfallCmd     `cmd:"waterfall" help:"Attribute WER to normalization stages per model"`
	Transliterate TransliterateCmd `cmd:"transliterate" help:"Convert ITRANS Romanized Hindi to Devanagari"`
}

const defaultConfig = "config.yaml"

func main() {
	// The name of the executable
	name, err := os.Executable()
	if err != nil {
		panic(err)
	} else {
		name = filepath.Base(name)
	}

	// Create a cli parser
	cli := CLI{}
	cmd := kong.Parse(&cli,
		kong.Name(name),
		kong.Description("Hindi/Marathi speech-to-text evaluation toolkit"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{
			"VAANI_CONFIG": envOrDefault("VAANI_CONFIG", defaultConfig),
		},
	)

	// Logger
	lvl := slog.LevelWarn
	if cli.Globals.Debug {
		lvl = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))

	// Create a context
	var cancel context.CancelFunc
	cli.Globals.ctx, cancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Run the command
	if err := cmd.Run(&cli.Globals); err != nil {
		cmd.FatalIfErrorf(err)
	}
}

func envOrDefault(name, def string) string {
	if value := os.Getenv(name); value != "" {
		return value
	} else {
		return def
	}
}
