// Package bench evaluates speech-to-text models against human-reviewed
// ground truth: corpus-level WER/CER comparison across models, a waterfall
// breakdown attributing errors to normalization layers, and single-file
// self-evaluation of transcript records.
package bench

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileKey identifies one audio recording across ground truth and model
// transcripts. It has the form "<domain>/<filename>", e.g.
// "helpdesk/HD_Q_2.ogg", matching the audio_file field of transcript records.
type FileKey string

// NewFileKey joins a domain slug and a file name into a key.
func NewFileKey(domain, filename string) FileKey {
	return FileKey(domain + "/" + filename)
}

// Domain returns the domain slug portion of the key, or "" when the key has
// no separator.
func (k FileKey) Domain() string {
	if i := strings.IndexByte(string(k), '/'); i >= 0 {
		return string(k)[:i]
	}
	return ""
}

// InDomain reports whether the key belongs to the given domain.
func (k FileKey) InDomain(domain string) bool {
	return strings.HasPrefix(string(k), domain+"/")
}

// Record is one line of a transcript JSONL file: a single recording
// transcribed by a single model, optionally carrying the human review.
type Record struct {
	AudioFile     string `json:"audio_file"`
	STTModel      string `json:"stt_model"`
	STTDraft      string `json:"stt_draft"`
	HumanReviewed string `json:"human_reviewed,omitempty"`
	Status        string `json:"status,omitempty"`
	Timestamp     string `json:"timestamp,omitempty"`
}

// Key returns the record's FileKey. The audio_file field already carries the
// domain prefix.
func (r Record) Key() FileKey {
	return FileKey(r.AudioFile)
}

// ReadRecords parses one JSONL transcript file. Blank lines are skipped; a
// malformed line is an error naming the line number.
func ReadRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bench: open transcripts: %w", err)
	}
	defer f.Close()

	var records []Record
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("bench: %s:%d: %w", path, lineNo, err)
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("bench: read %s: %w", path, err)
	}
	return records, nil
}

// Hypotheses maps model name to that model's transcriptions keyed by file.
type Hypotheses map[string]map[FileKey]string

// LoadHypotheses walks per-domain transcript directories under root and
// collects every model's drafts. Each domain is a directory holding
// transcriptions*.jsonl files. When domain is non-empty only that domain's
// directory is read; otherwise all domain directories are read.
//
// Records with an empty audio_file or empty stt_draft are skipped; a missing
// stt_model is recorded under "unknown". Later files win on duplicate keys.
func LoadHypotheses(root, domain string) (Hypotheses, error) {
	var dirs []string
	if domain != "" {
		dirs = []string{filepath.Join(root, domain)}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("bench: read transcript root: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() {
				dirs = append(dirs, filepath.Join(root, e.Name()))
			}
		}
		sort.Strings(dirs)
	}

	models := make(Hypotheses)
	for _, dir := range dirs {
		paths, err := filepath.Glob(filepath.Join(dir, "transcriptions*.jsonl"))
		if err != nil {
			return nil, fmt.Errorf("bench: glob %s: %w", dir, err)
		}
		sort.Strings(paths)
		for _, path := range paths {
			records, err := ReadRecords(path)
			if err != nil {
				return nil, err
			}
			for _, rec := range records {
				if rec.AudioFile == "" || rec.STTDraft == "" {
					continue
				}
				model := rec.STTModel
				if model == "" {
					model = "unknown"
				}
				if models[model] == nil {
					models[model] = make(map[FileKey]string)
				}
				models[model][rec.Key()] = rec.STTDraft
			}
		}
	}
	return models, nil
}
