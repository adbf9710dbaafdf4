// Package model_selection estimates how well a learner generalizes by training
// it on part of a labeled dataset and scoring it on the rest.
package model_selection

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/gocart/core/dataset"
	"github.com/YuminosukeSato/gocart/core/model"
	"github.com/YuminosukeSato/gocart/metrics"
	"github.com/YuminosukeSato/gocart/pkg/errors"
	"github.com/YuminosukeSato/gocart/pkg/log"
)

// Validator scores a learner on held-out data.
type Validator interface {
	// Test returns the mean validation score.
	Test(ctx context.Context, learner model.Learner, ds *dataset.Labeled, metric metrics.Metric) (float64, error)
	// Evaluate returns the score of every round.
	Evaluate(ctx context.Context, learner model.Learner, ds *dataset.Labeled, metric metrics.Metric) (*Report, error)
	fmt.Stringer
}

// Report summarises a validation run.
type Report struct {
	Validator string    `json:"validator"`
	Metric    string    `json:"metric"`
	Scores    []float64 `json:"scores"`
	Mean      float64   `json:"mean"`
	Std       float64   `json:"std"`
}

// Option configures a validator.
type Option func(*settings)

type settings struct {
	backend Backend
	seed    int64
	logger  log.Logger
}

func defaultSettings() settings {
	return settings{
		backend: Serial{},
		seed:    -1,
		logger:  log.GetLoggerWithName("model_selection"),
	}
}

// WithBackend sets how rounds are executed. The default is Serial.
func WithBackend(b Backend) Option {
	return func(s *settings) { s.backend = b }
}

// WithSeed fixes the shuffling seed. Negative values seed from the clock.
func WithSeed(seed int64) Option {
	return func(s *settings) { s.seed = seed }
}

// WithLogger overrides the logger.
func WithLogger(l log.Logger) Option {
	return func(s *settings) { s.logger = l }
}

func newSettings(opts []Option) settings {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	if s.backend == nil {
		s.backend = Serial{}
	}
	return s
}

func (s settings) rng() *rand.Rand {
	seed := uint64(s.seed)
	if s.seed < 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed))
}

type split struct {
	train, test *dataset.Labeled
}

// stratified reports whether splits should keep label proportions.
func stratified(learner model.Learner) bool {
	t := learner.Type()
	return t == model.Classifier || t == model.Clusterer
}

func checkInputs(op string, learner model.Learner, ds *dataset.Labeled, metric metrics.Metric) error {
	if learner == nil || metric == nil {
		return errors.NewValueError(op, "learner and metric are required")
	}
	if ds == nil || ds.Empty() {
		return errors.Mark(errors.NewValueError(op, "validation requires at least one sample"), errors.ErrEmptyData)
	}
	if !metrics.Supports(metric, learner.Type()) {
		return errors.NewValueError(op,
			fmt.Sprintf("metric %s does not support %s estimators", metric.Name(), learner.Type()))
	}
	return dataset.CheckCompatibility(learner.Compatibility(), ds)
}

// evaluate runs one round per split on the configured backend. Splits are
// prepared up front so the outcome does not depend on the backend.
func evaluate(ctx context.Context, name string, s settings, learner model.Learner, metric metrics.Metric, splits []split) (*Report, error) {
	logger := s.logger.With(log.ValidatorKey, name, log.MetricKey, metric.Name())
	logger.Debug("validation started", log.FoldsKey, len(splits))

	rounds := make([]Round, len(splits))
	for i, sp := range splits {
		rounds[i] = func(ctx context.Context) (float64, error) {
			estimator := learner.Clone()
			if err := estimator.Train(sp.train); err != nil {
				return 0, err
			}
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			predictions, err := estimator.PredictSamples(sp.test)
			if err != nil {
				return 0, err
			}
			score, err := metric.Score(predictions, sp.test.Labels())
			if err != nil {
				return 0, err
			}
			logger.Debug("round scored", log.FoldKey, i, log.ScoreKey, score)
			return score, nil
		}
	}

	start := time.Now()
	scores, err := s.backend.Run(ctx, rounds)
	if err != nil {
		logger.Error("validation failed", err)
		return nil, errors.Wrapf(err, "%s validation", name)
	}

	mean, std := summarize(scores)
	logger.Info("validation finished",
		log.FoldsKey, len(scores),
		log.ScoreKey, mean,
		log.StdKey, std,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return &Report{Validator: name, Metric: metric.Name(), Scores: scores, Mean: mean, Std: std}, nil
}

func summarize(scores []float64) (mean, std float64) {
	if len(scores) == 1 {
		return scores[0], 0
	}
	mean, std = stat.MeanStdDev(scores, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}
