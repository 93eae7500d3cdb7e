package main

import (
	"fmt"
	"strings"

	"github.com/vaani-ai/vaani/internal/normalize"
	"github.com/vaani-ai/vaani/internal/transliterate"
)

type NormalizeCmd struct {
	Text     []string `arg:"" help:"Text to normalize"`
	NoScript bool     `flag:"" help:"Skip Devanagari script normalization"`
}

type TransliterateCmd struct {
	Text []string `arg:"" help:"ITRANS Romanized Hindi to convert"`
}

func (cmd *NormalizeCmd) Run(_ *Globals) error {
	n := normalize.New(normalize.WithScriptNormalization(!cmd.NoScript))
	fmt.Println(n.Hindi(strings.Join(cmd.Text, " ")))
	return nil
}

func (cmd *TransliterateCmd) Run(_ *Globals) error {
	fmt.Println(transliterate.Sentence(strings.Join(cmd.Text, " ")))
	return nil
}
