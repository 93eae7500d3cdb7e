package bench

import (
	"fmt"
	"io"
	"math"

	tablewriter "github.com/djthorpe/go-tablewriter"
)

// Report rows carry values rounded to 4 decimals. Rounding is a rendering
// concern only; ModelResult and WaterfallRow stay at full precision.

type comparisonRow struct {
	Model         string  `json:"model"`
	FilesMatched  int     `json:"files_matched"`
	RawWER        float64 `json:"raw_wer"`
	RawCER        float64 `json:"raw_cer"`
	NormalizedWER float64 `json:"normalized_wer"`
	NormalizedCER float64 `json:"normalized_cer"`
	SemDist       string  `json:"semdist"`
}

type waterfallReportRow struct {
	Model         string  `json:"model"`
	Files         int     `json:"files"`
	RawWER        float64 `json:"raw_wer"`
	NoPunctWER    float64 `json:"no_punct_wer"`
	NoNumbersWER  float64 `json:"no_numbers_wer"`
	FullWER       float64 `json:"full_wer"`
	DeltaPunct    float64 `json:"delta_punct"`
	DeltaNumbers  float64 `json:"delta_numbers"`
	DeltaScript   float64 `json:"delta_script"`
	GenuineErrors float64 `json:"genuine_errors"`
}

type fileScoreRow struct {
	File      FileKey `json:"file"`
	WER       float64 `json:"wer"`
	CER       float64 `json:"cer"`
	WERErrors int     `json:"wer_errors"`
	CERErrors int     `json:"cer_errors"`
}

// WriteComparison renders model comparison results as a text table or, when
// csv is set, as CSV with the header
// model,files_matched,raw_wer,raw_cer,normalized_wer,normalized_cer,semdist.
func WriteComparison(w io.Writer, results []ModelResult, csv bool) error {
	rows := make([]comparisonRow, len(results))
	for i, r := range results {
		rows[i] = comparisonRow{
			Model:         r.Model,
			FilesMatched:  r.FilesMatched,
			RawWER:        round4(r.RawWER),
			RawCER:        round4(r.RawCER),
			NormalizedWER: round4(r.NormalizedWER),
			NormalizedCER: round4(r.NormalizedCER),
		}
		if r.HasSemDist {
			rows[i].SemDist = fmt.Sprintf("%.4f", r.SemDist)
		}
	}
	return write(w, rows, csv)
}

// WriteWaterfall renders the per-stage waterfall breakdown.
func WriteWaterfall(w io.Writer, rows []WaterfallRow, csv bool) error {
	out := make([]waterfallReportRow, len(rows))
	for i, r := range rows {
		out[i] = waterfallReportRow{
			Model:         r.Model,
			Files:         r.Files,
			RawWER:        round4(r.Raw),
			NoPunctWER:    round4(r.NoPunct),
			NoNumbersWER:  round4(r.NoNumbers),
			FullWER:       round4(r.Full),
			DeltaPunct:    round4(r.DeltaPunct),
			DeltaNumbers:  round4(r.DeltaNumbers),
			DeltaScript:   round4(r.DeltaScript),
			GenuineErrors: round4(r.Genuine),
		}
	}
	return write(w, out, csv)
}

// WriteEvaluation renders the self-evaluation summary followed by the
// per-file rows, worst first. limit caps the per-file rows; 0 means all.
func WriteEvaluation(w io.Writer, ev Evaluation, limit int, csv bool) error {
	if !csv {
		fmt.Fprintf(w, "files evaluated: %d\n", ev.Files)
		fmt.Fprintf(w, "total words:     %d\n", ev.TotalWords)
		fmt.Fprintf(w, "total chars:     %d\n", ev.TotalChars)
		fmt.Fprintf(w, "word error rate: %.2f%% (%d errors)\n", ev.WER*100, ev.WERErrors)
		fmt.Fprintf(w, "char error rate: %.2f%% (%d errors)\n\n", ev.CER*100, ev.CERErrors)
	}

	files := ev.PerFile
	if limit > 0 && limit < len(files) {
		files = files[:limit]
	}
	rows := make([]fileScoreRow, len(files))
	for i, f := range files {
		rows[i] = fileScoreRow{
			File:      f.File,
			WER:       round4(f.WER),
			CER:       round4(f.CER),
			WERErrors: f.WERErrors,
			CERErrors: f.CERErrors,
		}
	}
	return write(w, rows, csv)
}

func write(w io.Writer, rows any, csv bool) error {
	format := tablewriter.OptOutputText()
	if csv {
		format = tablewriter.OptOutputCSV()
	}
	return tablewriter.New(w, format).Write(rows, tablewriter.OptHeader())
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
