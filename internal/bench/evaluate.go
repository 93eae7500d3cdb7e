package bench

import (
	"sort"

	"github.com/vaani-ai/vaani/internal/metric"
)

// FileScore is one record's WER/CER against its own human review.
type FileScore struct {
	File      FileKey
	WER       float64
	CER       float64
	WERErrors int
	CERErrors int
}

// Evaluation is the result of scoring a transcript file against the
// human_reviewed field of its own records.
type Evaluation struct {
	Files      int
	TotalWords int
	TotalChars int

	// Micro-averaged rates across all scored records.
	WER       float64
	CER       float64
	WERErrors int
	CERErrors int

	// PerFile holds one row per scored record, worst WER first.
	PerFile []FileScore
}

// Evaluate scores every record that carries both a draft and a human review.
// Raw text is compared: self-evaluation measures what the model actually
// emitted, so no normalization is applied.
func Evaluate(records []Record) Evaluation {
	var ev Evaluation
	var wer, cer metric.Aggregate

	for _, rec := range records {
		if rec.STTDraft == "" || rec.HumanReviewed == "" {
			continue
		}
		w := metric.WER(rec.STTDraft, rec.HumanReviewed)
		c := metric.CER(rec.STTDraft, rec.HumanReviewed)
		wer.Add(w)
		cer.Add(c)
		ev.Files++
		ev.PerFile = append(ev.PerFile, FileScore{
			File:      rec.Key(),
			WER:       w.Rate,
			CER:       c.Rate,
			WERErrors: w.Errors,
			CERErrors: c.Errors,
		})
	}

	ev.TotalWords = wer.Total
	ev.TotalChars = cer.Total
	ev.WER = wer.Rate()
	ev.CER = cer.Rate()
	ev.WERErrors = wer.Errors
	ev.CERErrors = cer.Errors

	sort.SliceStable(ev.PerFile, func(i, j int) bool {
		return ev.PerFile[i].WER > ev.PerFile[j].WER
	})
	return ev
}
