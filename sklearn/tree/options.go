package tree

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/YuminosukeSato/gocart/pkg/errors"
	"github.com/YuminosukeSato/gocart/pkg/log"
)

// hyperParams are the settings shared by DecisionTreeClassifier and
// DecisionTreeRegressor.
type hyperParams struct {
	criterion           Criterion
	maxDepth            int
	minSamplesSplit     int
	minSamplesLeaf      int
	minImpurityDecrease float64
	maxFeatures         int
	randomState         int64
	featureNames        []string
	logger              log.Logger
}

func defaultHyperParams(criterion Criterion) hyperParams {
	return hyperParams{
		criterion:       criterion,
		maxDepth:        math.MaxInt32,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
		randomState:     -1,
	}
}

// Option configures a decision tree estimator.
type Option func(*hyperParams)

// WithCriterion sets the impurity measure: "gini" or "entropy" for
// classifiers, "squared_error" for regressors.
func WithCriterion(criterion string) Option {
	return func(p *hyperParams) { p.criterion = Criterion(criterion) }
}

// WithMaxDepth bounds the depth of the tree.
func WithMaxDepth(depth int) Option {
	return func(p *hyperParams) { p.maxDepth = depth }
}

// WithMinSamplesSplit sets the minimum number of samples required to split a node.
func WithMinSamplesSplit(n int) Option {
	return func(p *hyperParams) { p.minSamplesSplit = n }
}

// WithMinSamplesLeaf sets the minimum number of samples in each child of a split.
func WithMinSamplesLeaf(n int) Option {
	return func(p *hyperParams) { p.minSamplesLeaf = n }
}

// WithMinImpurityDecrease sets the minimum impurity decrease a split must achieve.
func WithMinImpurityDecrease(v float64) Option {
	return func(p *hyperParams) { p.minImpurityDecrease = v }
}

// WithMaxFeatures sets how many features are drawn at random for each node.
// 0 considers every feature.
func WithMaxFeatures(k int) Option {
	return func(p *hyperParams) { p.maxFeatures = k }
}

// WithRandomState seeds feature sub-sampling. Negative values seed from the clock.
func WithRandomState(seed int64) Option {
	return func(p *hyperParams) { p.randomState = seed }
}

// WithFeatureNames names the features in rules and exports.
func WithFeatureNames(names ...string) Option {
	return func(p *hyperParams) { p.featureNames = names }
}

// WithLogger replaces the estimator's logger.
func WithLogger(logger log.Logger) Option {
	return func(p *hyperParams) { p.logger = logger }
}

// newBuilder validates the parameters by constructing a Builder.
func (p *hyperParams) newBuilder(regression bool) (*Builder, error) {
	if err := validateCriterion(p.criterion, regression); err != nil {
		return nil, err
	}
	return NewBuilder(p.criterion,
		MaxDepth(p.maxDepth),
		MinSamplesSplit(p.minSamplesSplit),
		MinSamplesLeaf(p.minSamplesLeaf),
		MinImpurityDecrease(p.minImpurityDecrease),
		MaxFeatures(p.maxFeatures),
		FeatureNames(p.featureNames),
	)
}

// rng returns the random source for one Train call.
func (p *hyperParams) rng() *rand.Rand {
	seed := uint64(p.randomState)
	if p.randomState < 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed))
}

func (p *hyperParams) getParams() map[string]interface{} {
	var maxDepth interface{} = p.maxDepth
	if p.maxDepth == math.MaxInt32 {
		maxDepth = nil
	}
	return map[string]interface{}{
		"criterion":             string(p.criterion),
		"max_depth":             maxDepth,
		"min_samples_split":     p.minSamplesSplit,
		"min_samples_leaf":      p.minSamplesLeaf,
		"min_impurity_decrease": p.minImpurityDecrease,
		"max_features":          p.maxFeatures,
		"random_state":          p.randomState,
	}
}

// setParams applies params to a copy and returns it. Unknown keys and
// ill-typed values are rejected.
func (p hyperParams) setParams(params map[string]interface{}) (hyperParams, error) {
	for key, value := range params {
		var err error
		switch key {
		case "criterion":
			var s string
			s, err = asString(key, value)
			p.criterion = Criterion(s)
		case "max_depth":
			if value == nil {
				p.maxDepth = math.MaxInt32
				continue
			}
			p.maxDepth, err = asInt(key, value)
		case "min_samples_split":
			p.minSamplesSplit, err = asInt(key, value)
		case "min_samples_leaf":
			p.minSamplesLeaf, err = asInt(key, value)
		case "min_impurity_decrease":
			p.minImpurityDecrease, err = asFloat(key, value)
		case "max_features":
			p.maxFeatures, err = asInt(key, value)
		case "random_state":
			var seed int
			seed, err = asInt(key, value)
			p.randomState = int64(seed)
		default:
			err = errors.NewValidationError(key, "unknown parameter", value)
		}
		if err != nil {
			return p, err
		}
	}
	return p, nil
}

func asString(key string, v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errors.NewValidationError(key, "must be a string", v)
	}
	return s, nil
}

func asInt(key string, v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n == math.Trunc(n) {
			return int(n), nil
		}
	}
	return 0, errors.NewValidationError(key, "must be an integer", v)
}

func asFloat(key string, v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	}
	return 0, errors.NewValidationError(key, "must be a number", v)
}

func (p *hyperParams) String() string {
	depth := "None"
	if p.maxDepth != math.MaxInt32 {
		depth = fmt.Sprint(p.maxDepth)
	}
	return fmt.Sprintf("criterion=%s, max_depth=%s, min_samples_split=%d, min_samples_leaf=%d, min_impurity_decrease=%g, max_features=%d",
		p.criterion, depth, p.minSamplesSplit, p.minSamplesLeaf, p.minImpurityDecrease, p.maxFeatures)
}
