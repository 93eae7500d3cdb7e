package bench

import (
	"sort"

	"github.com/vaani-ai/vaani/internal/metric"
	"github.com/vaani-ai/vaani/internal/normalize"
)

// Waterfall stages, in cumulative order. Each stage applies one more
// normalization layer than the previous, so the WER drop between adjacent
// stages attributes errors to that layer.
const (
	StageRaw       = "raw"
	StageNoPunct   = "-punct"
	StageNoNumbers = "-numbers"
	StageFull      = "full"
)

// WaterfallRow is one model's error fingerprint: aggregate WER after each
// cumulative normalization stage, the per-layer deltas, and the genuine
// error rate that survives full normalization.
type WaterfallRow struct {
	Model string
	Files int

	// Aggregate WER per stage.
	Raw       float64
	NoPunct   float64
	NoNumbers float64
	Full      float64

	// Per-layer attribution: how much WER each layer removed.
	DeltaPunct   float64
	DeltaNumbers float64
	DeltaScript  float64

	// Genuine is the fully normalized WER: errors no normalization can
	// explain away.
	Genuine float64
}

// Waterfall computes the per-stage breakdown for every model with at least
// one file in common with the ground truth, sorted by fully normalized WER
// ascending (model name breaks ties).
func Waterfall(groundTruth map[FileKey]string, hypotheses Hypotheses, norm *normalize.Normalizer) []WaterfallRow {
	stages := []func(string) string{
		func(s string) string { return s },
		func(s string) string {
			return normalize.CollapseWhitespace(normalize.StripPunctuation(s))
		},
		func(s string) string {
			return normalize.CollapseWhitespace(normalize.Numbers(normalize.StripPunctuation(s)))
		},
		norm.Hindi,
	}

	keys := make([]FileKey, 0, len(groundTruth))
	for key := range groundTruth {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	names := make([]string, 0, len(hypotheses))
	for name := range hypotheses {
		names = append(names, name)
	}
	sort.Strings(names)

	var rows []WaterfallRow
	for _, name := range names {
		drafts := hypotheses[name]

		var wers [4]float64
		files := 0
		for stage, apply := range stages {
			var agg metric.Aggregate
			matched := 0
			for _, key := range keys {
				hypothesis, ok := drafts[key]
				if !ok {
					continue
				}
				matched++
				agg.Add(metric.WER(apply(hypothesis), apply(groundTruth[key])))
			}
			wers[stage] = agg.Rate()
			files = matched
		}
		if files == 0 {
			continue
		}

		rows = append(rows, WaterfallRow{
			Model:        name,
			Files:        files,
			Raw:          wers[0],
			NoPunct:      wers[1],
			NoNumbers:    wers[2],
			Full:         wers[3],
			DeltaPunct:   wers[0] - wers[1],
			DeltaNumbers: wers[1] - wers[2],
			DeltaScript:  wers[2] - wers[3],
			Genuine:      wers[3],
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Full != rows[j].Full {
			return rows[i].Full < rows[j].Full
		}
		return rows[i].Model < rows[j].Model
	})
	return rows
}
