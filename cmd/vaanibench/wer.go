package main

import (
	"os"

	"github.com/vaani-ai/vaani/internal/bench"
)

type WerCmd struct {
	Path  string `arg:"" help:"Transcript JSONL file with stt_draft and human_reviewed fields"`
	Limit int    `flag:"" help:"Number of worst files to list (0 for all)" default:"20"`
	CSV   bool   `flag:"csv" help:"Emit CSV instead of a text table"`
}

func (cmd *WerCmd) Run(_ *Globals) error {
	records, err := bench.ReadRecords(cmd.Path)
	if err != nil {
		return err
	}
	ev := bench.Evaluate(records)
	return bench.WriteEvaluation(os.Stdout, ev, cmd.Limit, cmd.CSV)
}
