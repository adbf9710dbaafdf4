package model_selection

import (
	"context"
	"fmt"

	"github.com/YuminosukeSato/gocart/core/dataset"
	"github.com/YuminosukeSato/gocart/core/model"
	"github.com/YuminosukeSato/gocart/metrics"
	"github.com/YuminosukeSato/gocart/pkg/errors"
)

// KFold splits the shuffled data into k folds and scores each fold with a
// learner trained on the other k-1. Classifiers and clusterers get stratified folds.
type KFold struct {
	k int
	settings
}

// NewKFold returns a k-fold validator. k must be at least 2.
func NewKFold(k int, opts ...Option) (*KFold, error) {
	if k < 2 {
		return nil, errors.NewValidationError("k", "must be at least 2", k)
	}
	return &KFold{k: k, settings: newSettings(opts)}, nil
}

// Test returns the mean score over the folds.
func (kf *KFold) Test(ctx context.Context, learner model.Learner, ds *dataset.Labeled, metric metrics.Metric) (float64, error) {
	report, err := kf.Evaluate(ctx, learner, ds, metric)
	if err != nil {
		return 0, err
	}
	return report.Mean, nil
}

// Evaluate returns one score per fold.
func (kf *KFold) Evaluate(ctx context.Context, learner model.Learner, ds *dataset.Labeled, metric metrics.Metric) (*Report, error) {
	const op = "KFold.Test"
	if err := checkInputs(op, learner, ds, metric); err != nil {
		return nil, err
	}
	if ds.NumSamples() < kf.k {
		return nil, errors.NewValueError(op,
			fmt.Sprintf("cannot split %d samples into %d folds", ds.NumSamples(), kf.k))
	}

	shuffled := ds.Randomize(kf.rng())
	var folds []*dataset.Labeled
	if stratified(learner) {
		folds = shuffled.StratifiedFold(kf.k)
	} else {
		folds = shuffled.Fold(kf.k)
	}

	splits := make([]split, 0, kf.k)
	for i, test := range folds {
		var train *dataset.Labeled
		for j, f := range folds {
			if j == i {
				continue
			}
			if train == nil {
				train = f
				continue
			}
			merged, err := train.Merge(f)
			if err != nil {
				return nil, errors.Wrapf(err, "fold %d", i)
			}
			train = merged
		}
		splits = append(splits, split{train: train, test: test})
	}
	return evaluate(ctx, kf.String(), kf.settings, learner, metric, splits)
}

func (kf *KFold) String() string { return fmt.Sprintf("KFold(k=%d)", kf.k) }
