// Package model defines the estimator contracts shared by every learner and
// the state and persistence helpers they build on.
package model

import (
	"github.com/YuminosukeSato/gocart/core/dataset"
)

// EstimatorType classifies what a learner predicts.
type EstimatorType int

const (
	Classifier EstimatorType = iota
	Regressor
	Clusterer
)

func (t EstimatorType) String() string {
	switch t {
	case Classifier:
		return "classifier"
	case Regressor:
		return "regressor"
	case Clusterer:
		return "clusterer"
	default:
		return "unknown"
	}
}

// Estimator is anything that makes predictions over a dataset.
type Estimator interface {
	// PredictSamples returns one prediction per sample, in input order.
	PredictSamples(ds dataset.Dataset) ([]dataset.Value, error)

	// Type returns the estimator type.
	Type() EstimatorType
}

// Learner is an Estimator trained from a dataset. Train replaces prior state
// only when it succeeds.
type Learner interface {
	Estimator

	// Train fits the learner. Supervised learners require a *dataset.Labeled.
	Train(ds dataset.Dataset) error

	// Trained reports whether Train has succeeded at least once.
	Trained() bool

	// Compatibility returns the column kinds the learner accepts.
	Compatibility() []dataset.Kind

	// Clone returns an untrained learner with the same hyperparameters.
	Clone() Learner
}

// Probabilistic learners also return a probability per possible outcome.
type Probabilistic interface {
	Learner

	// ProbaSamples returns a label-to-probability map per sample.
	ProbaSamples(ds dataset.Dataset) ([]map[string]float64, error)
}

// Ranked learners report how much each feature contributed to the model.
type Ranked interface {
	FeatureImportances() ([]float64, error)
}
