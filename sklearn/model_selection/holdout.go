package model_selection

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/YuminosukeSato/gocart/core/dataset"
	"github.com/YuminosukeSato/gocart/core/model"
	"github.com/YuminosukeSato/gocart/metrics"
	"github.com/YuminosukeSato/gocart/pkg/errors"
)

// Holdout trains once on a random portion of the data and scores on the rest.
type Holdout struct {
	ratio float64
	settings
}

// NewHoldout returns a validator holding out ratio of the samples for testing.
// ratio must lie in [0.01, 1.0].
func NewHoldout(ratio float64, opts ...Option) (*Holdout, error) {
	if err := checkRatio(ratio); err != nil {
		return nil, err
	}
	return &Holdout{ratio: ratio, settings: newSettings(opts)}, nil
}

// DefaultHoldout holds out 20% of the samples.
func DefaultHoldout(opts ...Option) *Holdout {
	return &Holdout{ratio: 0.2, settings: newSettings(opts)}
}

func checkRatio(ratio float64) error {
	if ratio < 0.01 || ratio > 1.0 {
		return errors.NewValidationError("ratio", "must be between 0.01 and 1.0", ratio)
	}
	return nil
}

// holdoutSplit shuffles ds and returns the training and testing portions.
func holdoutSplit(ds *dataset.Labeled, ratio float64, strat bool, rng *rand.Rand) split {
	shuffled := ds.Randomize(rng)
	var test, train *dataset.Labeled
	if strat {
		test, train = shuffled.StratifiedSplit(ratio)
	} else {
		test, train = shuffled.Split(ratio)
	}
	return split{train: train, test: test}
}

// Test returns the holdout score.
func (h *Holdout) Test(ctx context.Context, learner model.Learner, ds *dataset.Labeled, metric metrics.Metric) (float64, error) {
	report, err := h.Evaluate(ctx, learner, ds, metric)
	if err != nil {
		return 0, err
	}
	return report.Mean, nil
}

// Evaluate returns a single-round report.
func (h *Holdout) Evaluate(ctx context.Context, learner model.Learner, ds *dataset.Labeled, metric metrics.Metric) (*Report, error) {
	if err := checkInputs("Holdout.Test", learner, ds, metric); err != nil {
		return nil, err
	}
	sp := holdoutSplit(ds, h.ratio, stratified(learner), h.rng())
	return evaluate(ctx, h.String(), h.settings, learner, metric, []split{sp})
}

func (h *Holdout) String() string { return fmt.Sprintf("Holdout(ratio=%g)", h.ratio) }
