package model_selection

import (
	"context"
	"fmt"

	"github.com/YuminosukeSato/gocart/core/dataset"
	"github.com/YuminosukeSato/gocart/core/model"
	"github.com/YuminosukeSato/gocart/metrics"
	"github.com/YuminosukeSato/gocart/pkg/errors"
)

// MonteCarlo repeats a random holdout split and averages the scores.
type MonteCarlo struct {
	simulations int
	ratio       float64
	settings
}

// NewMonteCarlo returns a validator running simulations independent holdout
// rounds. simulations must be at least 2 and ratio in [0.01, 1.0].
func NewMonteCarlo(simulations int, ratio float64, opts ...Option) (*MonteCarlo, error) {
	if simulations < 2 {
		return nil, errors.NewValidationError("simulations", "must be at least 2", simulations)
	}
	if err := checkRatio(ratio); err != nil {
		return nil, err
	}
	return &MonteCarlo{simulations: simulations, ratio: ratio, settings: newSettings(opts)}, nil
}

// Test returns the mean score over the simulations.
func (mc *MonteCarlo) Test(ctx context.Context, learner model.Learner, ds *dataset.Labeled, metric metrics.Metric) (float64, error) {
	report, err := mc.Evaluate(ctx, learner, ds, metric)
	if err != nil {
		return 0, err
	}
	return report.Mean, nil
}

// Evaluate returns one score per simulation.
func (mc *MonteCarlo) Evaluate(ctx context.Context, learner model.Learner, ds *dataset.Labeled, metric metrics.Metric) (*Report, error) {
	if err := checkInputs("MonteCarlo.Test", learner, ds, metric); err != nil {
		return nil, err
	}
	rng := mc.rng()
	strat := stratified(learner)
	splits := make([]split, mc.simulations)
	for i := range splits {
		splits[i] = holdoutSplit(ds, mc.ratio, strat, rng)
	}
	return evaluate(ctx, mc.String(), mc.settings, learner, metric, splits)
}

func (mc *MonteCarlo) String() string {
	return fmt.Sprintf("MonteCarlo(simulations=%d, ratio=%g)", mc.simulations, mc.ratio)
}
