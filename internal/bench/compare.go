package bench

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/vaani-ai/vaani/internal/metric"
	"github.com/vaani-ai/vaani/internal/normalize"
	"github.com/vaani-ai/vaani/internal/observe"
)

// ModelResult is one model's corpus-level scores against the ground truth.
// Rates are micro-averaged and kept at full precision; rounding happens only
// when a report is rendered.
type ModelResult struct {
	Model        string
	FilesMatched int

	RawWER float64
	RawCER float64

	// Normalized rates after running both sides through the full Hindi
	// normalization pipeline. The ranking metric.
	NormalizedWER float64
	NormalizedCER float64

	// SemDist is the mean semantic distance over normalized pairs. Valid
	// only when HasSemDist is set.
	SemDist    float64
	HasSemDist bool
}

// Comparer scores models against ground truth. The semantic scorer is
// optional; when nil the comparison reports lexical metrics only.
type Comparer struct {
	norm    *normalize.Normalizer
	scorer  *metric.SemanticScorer
	metrics *observe.Metrics
}

// ComparerOption is a functional option for configuring a [Comparer].
type ComparerOption func(*Comparer)

// WithMetrics counts each evaluated ground-truth/hypothesis pair on the
// given instruments, keyed by model.
func WithMetrics(m *observe.Metrics) ComparerOption {
	return func(c *Comparer) {
		c.metrics = m
	}
}

// NewComparer returns a Comparer over the given normalizer. Pass a nil
// scorer to skip semantic distance.
func NewComparer(norm *normalize.Normalizer, scorer *metric.SemanticScorer, opts ...ComparerOption) *Comparer {
	c := &Comparer{norm: norm, scorer: scorer}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Compare evaluates every model in hypotheses against groundTruth and
// returns one row per model, ranked by normalized WER ascending (model name
// breaks ties). Models with no file in common with the ground truth are
// excluded. Models are scored concurrently; pairs are independent so the
// outcome is deterministic.
func (c *Comparer) Compare(ctx context.Context, groundTruth map[FileKey]string, hypotheses Hypotheses) ([]ModelResult, error) {
	names := make([]string, 0, len(hypotheses))
	for name := range hypotheses {
		names = append(names, name)
	}
	sort.Strings(names)

	keys := make([]FileKey, 0, len(groundTruth))
	for key := range groundTruth {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	results := make([]ModelResult, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range names {
		g.Go(func() error {
			r, err := c.scoreModel(ctx, name, hypotheses[name], groundTruth, keys)
			if err != nil {
				return fmt.Errorf("bench: score %s: %w", name, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranked := results[:0]
	for _, r := range results {
		if r.FilesMatched > 0 {
			ranked = append(ranked, r)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].NormalizedWER != ranked[j].NormalizedWER {
			return ranked[i].NormalizedWER < ranked[j].NormalizedWER
		}
		return ranked[i].Model < ranked[j].Model
	})
	return ranked, nil
}

func (c *Comparer) scoreModel(ctx context.Context, name string, drafts map[FileKey]string, groundTruth map[FileKey]string, keys []FileKey) (ModelResult, error) {
	r := ModelResult{Model: name}

	var rawWER, rawCER, normWER, normCER metric.Aggregate
	var semTotal float64

	for _, key := range keys {
		hypothesis, ok := drafts[key]
		if !ok {
			continue
		}
		reference := groundTruth[key]
		r.FilesMatched++
		if c.metrics != nil {
			c.metrics.RecordEvalFile(ctx, name)
		}

		rawWER.Add(metric.WER(hypothesis, reference))
		rawCER.Add(metric.CER(hypothesis, reference))

		normHyp := c.norm.Hindi(hypothesis)
		normRef := c.norm.Hindi(reference)
		normWER.Add(metric.WER(normHyp, normRef))
		normCER.Add(metric.CER(normHyp, normRef))

		if c.scorer != nil {
			d, err := c.scorer.Distance(ctx, normHyp, normRef)
			if err != nil {
				return ModelResult{}, err
			}
			semTotal += d
		}
	}
	if r.FilesMatched == 0 {
		return r, nil
	}

	r.RawWER = rawWER.Rate()
	r.RawCER = rawCER.Rate()
	r.NormalizedWER = normWER.Rate()
	r.NormalizedCER = normCER.Rate()
	if c.scorer != nil {
		r.SemDist = semTotal / float64(r.FilesMatched)
		r.HasSemDist = true
	}
	return r, nil
}
