// Package dummy provides baseline estimators that ignore the features. They
// give the floor any real model should beat.
package dummy

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/YuminosukeSato/gocart/core/dataset"
	"github.com/YuminosukeSato/gocart/core/model"
	"github.com/YuminosukeSato/gocart/pkg/errors"
)

// Strategy selects how DummyClassifier predicts.
type Strategy string

const (
	// MostFrequent predicts the most frequent training label; probabilities are one-hot.
	MostFrequent Strategy = "most_frequent"
	// Prior predicts the most frequent label; probabilities are the class priors.
	Prior Strategy = "prior"
	// Uniform predicts a label drawn uniformly from the training classes.
	Uniform Strategy = "uniform"
	// Constant always predicts the configured label.
	Constant Strategy = "constant"
)

// DummyClassifier はsklearnのDummyClassifierに相当するベースライン分類器
type DummyClassifier struct {
	strategy    Strategy
	constant    dataset.Value
	randomState int64

	state   *model.StateManager
	mu      sync.Mutex
	classes []dataset.Value
	prior   []float64
	mode    int
	rng     *rand.Rand
}

// Option configures a DummyClassifier.
type Option func(*DummyClassifier)

// WithStrategy sets the prediction strategy. The default is Prior.
func WithStrategy(s Strategy) Option {
	return func(d *DummyClassifier) { d.strategy = s }
}

// WithConstant sets the label predicted by the Constant strategy.
func WithConstant(v dataset.Value) Option {
	return func(d *DummyClassifier) { d.constant = v }
}

// WithRandomState seeds the Uniform strategy. Negative values seed from the clock.
func WithRandomState(seed int64) Option {
	return func(d *DummyClassifier) { d.randomState = seed }
}

// NewDummyClassifier returns an untrained baseline classifier.
func NewDummyClassifier(opts ...Option) (*DummyClassifier, error) {
	d := &DummyClassifier{strategy: Prior, randomState: -1, state: model.NewStateManager()}
	for _, opt := range opts {
		opt(d)
	}
	switch d.strategy {
	case MostFrequent, Prior, Uniform, Constant:
	default:
		return nil, errors.NewValidationError("strategy", "must be one of most_frequent, prior, uniform, constant", string(d.strategy))
	}
	return d, nil
}

// Type returns model.Classifier.
func (d *DummyClassifier) Type() model.EstimatorType { return model.Classifier }

// Compatibility accepts any column kind; features are never read.
func (d *DummyClassifier) Compatibility() []dataset.Kind {
	return []dataset.Kind{dataset.Continuous, dataset.Categorical}
}

// Trained reports whether Train has succeeded.
func (d *DummyClassifier) Trained() bool { return d.state.IsFitted() }

// Clone returns an untrained classifier with the same settings.
func (d *DummyClassifier) Clone() model.Learner {
	return &DummyClassifier{
		strategy:    d.strategy,
		constant:    d.constant,
		randomState: d.randomState,
		state:       model.NewStateManager(),
	}
}

// Train records the class priors of ds.
func (d *DummyClassifier) Train(ds dataset.Dataset) error {
	const op = "DummyClassifier.Train"
	labeled, ok := ds.(*dataset.Labeled)
	if !ok || labeled == nil {
		return errors.Mark(errors.NewValueError(op, "supervised training requires a labeled dataset"), errors.ErrUnlabeledData)
	}
	if labeled.NumSamples() == 0 {
		return errors.Mark(errors.NewValueError(op, "training requires at least one sample"), errors.ErrEmptyData)
	}

	classes := labeled.PossibleOutcomes()
	pos := make(map[string]int, len(classes))
	for i, c := range classes {
		pos[c.Key()] = i
	}
	counts := make([]int, len(classes))
	for _, l := range labeled.Labels() {
		counts[pos[l.Key()]]++
	}
	mode := 0
	prior := make([]float64, len(classes))
	for i, c := range counts {
		prior[i] = float64(c) / float64(labeled.NumSamples())
		if c > counts[mode] {
			mode = i
		}
	}
	if d.strategy == Constant {
		if _, ok := pos[d.constant.Key()]; !ok {
			return errors.NewValueError(op, fmt.Sprintf("constant %q is not a training label", d.constant))
		}
	}

	seed := uint64(d.randomState)
	if d.randomState < 0 {
		seed = uint64(time.Now().UnixNano())
	}

	d.mu.Lock()
	d.classes, d.prior, d.mode = classes, prior, mode
	d.rng = rand.New(rand.NewPCG(seed, seed))
	d.mu.Unlock()
	d.state.SetFitted(labeled.NumFeatures(), labeled.NumSamples())
	return nil
}

// PredictSamples returns one label per sample according to the strategy.
func (d *DummyClassifier) PredictSamples(ds dataset.Dataset) ([]dataset.Value, error) {
	if err := d.state.RequireFitted("DummyClassifier", "PredictSamples"); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]dataset.Value, ds.NumSamples())
	for i := range out {
		switch d.strategy {
		case Uniform:
			out[i] = d.classes[d.rng.IntN(len(d.classes))]
		case Constant:
			out[i] = d.constant
		default:
			out[i] = d.classes[d.mode]
		}
	}
	return out, nil
}

// ProbaSamples returns the same distribution for every sample.
func (d *DummyClassifier) ProbaSamples(ds dataset.Dataset) ([]map[string]float64, error) {
	if err := d.state.RequireFitted("DummyClassifier", "ProbaSamples"); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	dist := make(map[string]float64, len(d.classes))
	for i, c := range d.classes {
		var p float64
		switch d.strategy {
		case Prior:
			p = d.prior[i]
		case Uniform:
			p = 1 / float64(len(d.classes))
		case Constant:
			if c.Equal(d.constant) {
				p = 1
			}
		default:
			if i == d.mode {
				p = 1
			}
		}
		dist[c.String()] = p
	}

	out := make([]map[string]float64, ds.NumSamples())
	for i := range out {
		m := make(map[string]float64, len(dist))
		for k, v := range dist {
			m[k] = v
		}
		out[i] = m
	}
	return out, nil
}

// GetParams returns the settings with sklearn-style keys.
func (d *DummyClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"strategy":     string(d.strategy),
		"constant":     d.constant.String(),
		"random_state": d.randomState,
	}
}

var _ model.Probabilistic = (*DummyClassifier)(nil)
