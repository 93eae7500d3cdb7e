package transcript

import (
	"context"
	"strings"

	"github.com/vaani-ai/vaani/pkg/types"
)

// PipelineOption is a functional option for configuring a [CorrectionPipeline].
type PipelineOption func(*CorrectionPipeline)

// WithGlossaryMatcher attaches a [GlossaryMatcher]. When nil (the default),
// Correct returns the transcript unchanged.
func WithGlossaryMatcher(m GlossaryMatcher) PipelineOption {
	return func(p *CorrectionPipeline) {
		p.matcher = m
	}
}

// CorrectionPipeline is the glossary-based implementation of [Pipeline].
// It tokenises the draft into whitespace-separated words and tests n-gram
// windows against the glossary, longest window first, so multi-word terms
// like "आधार कार्ड" take precedence over partial single-word matches.
//
// CorrectionPipeline is safe for concurrent use.
type CorrectionPipeline struct {
	matcher GlossaryMatcher
}

var _ Pipeline = (*CorrectionPipeline)(nil)

// NewPipeline constructs a [CorrectionPipeline] with the supplied options.
func NewPipeline(opts ...PipelineOption) *CorrectionPipeline {
	p := &CorrectionPipeline{}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Correct applies glossary correction to transcript.
//
// At each token position, n-gram windows from the widest glossary term down
// to a single token are tested against the matcher; the longest accepted
// window wins and the cursor advances past it. Unmatched tokens pass through
// unchanged. Context cancellation is checked between windows.
func (p *CorrectionPipeline) Correct(
	ctx context.Context,
	t types.Transcript,
	glossary []string,
) (*CorrectedTranscript, error) {
	result := &CorrectedTranscript{
		Original:    t,
		Corrected:   t.Text,
		Corrections: []Correction{},
	}
	if p.matcher == nil || len(glossary) == 0 {
		return result, nil
	}

	tokens := strings.Fields(t.Text)
	if len(tokens) == 0 {
		return result, nil
	}
	maxTermWords := maxWordCount(glossary)

	var output []string
	i := 0
	for i < len(tokens) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		maxN := maxTermWords
		if i+maxN > len(tokens) {
			maxN = len(tokens) - i
		}

		matched := false
		for n := maxN; n >= 1; n-- {
			window := strings.Join(tokens[i:i+n], " ")
			term, conf, ok := p.matcher.Match(window, glossary)
			if !ok {
				continue
			}

			output = append(output, strings.Fields(term)...)
			result.Corrections = append(result.Corrections, Correction{
				Original:   window,
				Corrected:  term,
				Confidence: conf,
				Method:     "phonetic",
			})
			i += n
			matched = true
			break
		}
		if !matched {
			output = append(output, tokens[i])
			i++
		}
	}

	result.Corrected = strings.Join(output, " ")
	return result, nil
}

// maxWordCount returns the maximum number of whitespace-separated words in
// any glossary term. Returns 1 when glossary is empty.
func maxWordCount(glossary []string) int {
	max := 1
	for _, term := range glossary {
		if n := len(strings.Fields(term)); n > max {
			max = n
		}
	}
	return max
}
