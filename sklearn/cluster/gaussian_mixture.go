// Package cluster provides unsupervised learners over continuous features.
package cluster

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/gocart/core/dataset"
	"github.com/YuminosukeSato/gocart/core/model"
	"github.com/YuminosukeSato/gocart/pkg/errors"
	"github.com/YuminosukeSato/gocart/pkg/log"
)

// GaussianMixture clusters samples with a mixture of Gaussians with diagonal
// covariances fitted by expectation maximization. Means are seeded with k-means++.
type GaussianMixture struct {
	k         int
	maxIter   int
	tol       float64
	smoothing float64
	seed      int64
	logger    log.Logger

	state     *model.StateManager
	mu        sync.RWMutex
	priors    []float64
	means     [][]float64
	variances [][]float64
	nIter     int
}

// GMMOption configures a GaussianMixture.
type GMMOption func(*GaussianMixture)

// WithMaxIter sets the maximum number of EM iterations.
func WithMaxIter(n int) GMMOption {
	return func(g *GaussianMixture) { g.maxIter = n }
}

// WithTolerance sets the minimum change in mean log-likelihood per sample
// that keeps EM iterating.
func WithTolerance(tol float64) GMMOption {
	return func(g *GaussianMixture) { g.tol = tol }
}

// WithSmoothing sets the variance added to every component to keep it positive.
func WithSmoothing(eps float64) GMMOption {
	return func(g *GaussianMixture) { g.smoothing = eps }
}

// WithRandomState fixes the seeding. Negative values seed from the clock.
func WithRandomState(seed int64) GMMOption {
	return func(g *GaussianMixture) { g.seed = seed }
}

// WithLogger overrides the logger.
func WithLogger(l log.Logger) GMMOption {
	return func(g *GaussianMixture) { g.logger = l }
}

// NewGaussianMixture returns an untrained mixture of k components.
func NewGaussianMixture(k int, opts ...GMMOption) (*GaussianMixture, error) {
	g := &GaussianMixture{
		k:         k,
		maxIter:   100,
		tol:       1e-3,
		smoothing: 1e-9,
		seed:      -1,
		logger:    log.GetLoggerWithName("cluster"),
		state:     model.NewStateManager(),
	}
	for _, opt := range opts {
		opt(g)
	}
	switch {
	case g.k < 1:
		return nil, errors.NewValidationError("k", "must be at least 1", g.k)
	case g.maxIter < 1:
		return nil, errors.NewValidationError("max_iter", "must be at least 1", g.maxIter)
	case g.tol < 0:
		return nil, errors.NewValidationError("tol", "must not be negative", g.tol)
	case g.smoothing <= 0:
		return nil, errors.NewValidationError("smoothing", "must be positive", g.smoothing)
	}
	g.logger = g.logger.With(log.ModelNameKey, "GaussianMixture")
	return g, nil
}

func (g *GaussianMixture) Type() model.EstimatorType { return model.Clusterer }

// Compatibility returns the continuous kind only.
func (g *GaussianMixture) Compatibility() []dataset.Kind {
	return []dataset.Kind{dataset.Continuous}
}

func (g *GaussianMixture) Trained() bool { return g.state.IsFitted() }

// Clone returns an untrained mixture with the same settings.
func (g *GaussianMixture) Clone() model.Learner {
	return &GaussianMixture{
		k:         g.k,
		maxIter:   g.maxIter,
		tol:       g.tol,
		smoothing: g.smoothing,
		seed:      g.seed,
		logger:    g.logger,
		state:     model.NewStateManager(),
	}
}

// Priors returns the mixing weights of the components.
func (g *GaussianMixture) Priors() []float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]float64(nil), g.priors...)
}

// Means returns the component means.
func (g *GaussianMixture) Means() [][]float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return copyRows(g.means)
}

// Variances returns the diagonal of each component covariance.
func (g *GaussianMixture) Variances() [][]float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return copyRows(g.variances)
}

// NIterations returns the EM iterations run by the last Train.
func (g *GaussianMixture) NIterations() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nIter
}

// Train fits the mixture to ds. Labels, if any, are ignored.
func (g *GaussianMixture) Train(ds dataset.Dataset) error {
	const op = "GaussianMixture.Train"
	if ds == nil || ds.NumSamples() == 0 {
		return errors.Mark(errors.NewValueError(op, "training requires at least one sample"), errors.ErrEmptyData)
	}
	if err := dataset.CheckCompatibility(g.Compatibility(), ds); err != nil {
		return err
	}
	n := ds.NumSamples()
	if n < g.k {
		return errors.NewValueError(op, fmt.Sprintf("need at least %d samples for %d components, got %d", g.k, g.k, n))
	}

	start := time.Now()
	samples := continuousRows(ds)
	priors, means, variances := g.initialize(samples)

	resp := make([][]float64, n)
	for i := range resp {
		resp[i] = make([]float64, g.k)
	}

	prevLL := math.Inf(-1)
	converged := false
	iter := 0
	for iter < g.maxIter {
		iter++
		ll := expectation(samples, priors, means, variances, resp)
		if err := errors.CheckScalar(op, ll, iter); err != nil {
			return err
		}
		maximization(samples, resp, g.smoothing, priors, means, variances)

		mean := ll / float64(n)
		g.logger.Debug("em iteration", log.IterationKey, iter, log.LogLikelihoodKey, mean)
		if math.Abs(mean-prevLL) < g.tol {
			converged = true
			break
		}
		prevLL = mean
	}

	if !converged {
		w := errors.NewConvergenceWarning("GaussianMixture", iter, "increase max iterations or tolerance")
		errors.Warn(w)
		g.logger.Warn("gaussian mixture did not converge", log.IterationKey, iter)
	}

	g.mu.Lock()
	g.priors, g.means, g.variances, g.nIter = priors, means, variances, iter
	g.mu.Unlock()
	g.state.SetFitted(ds.NumFeatures(), n)

	g.logger.Info("gaussian mixture trained",
		log.SamplesKey, n,
		log.FeaturesKey, ds.NumFeatures(),
		log.IterationKey, iter,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// initialize seeds means with k-means++ and derives priors and variances from
// the nearest-center assignment.
func (g *GaussianMixture) initialize(samples [][]float64) (priors []float64, means, variances [][]float64) {
	seed := uint64(g.seed)
	if g.seed < 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed))

	d := len(samples[0])
	means = initKMeansPlusPlus(samples, g.k, rng)
	members := make([][]int, g.k)
	for i, s := range samples {
		c := nearestCenter(s, means)
		members[c] = append(members[c], i)
	}

	global := make([]float64, d)
	column := make([]float64, len(samples))
	for j := 0; j < d; j++ {
		for i, s := range samples {
			column[i] = s[j]
		}
		global[j] = stat.PopVariance(column, nil) + g.smoothing
	}

	priors = make([]float64, g.k)
	variances = make([][]float64, g.k)
	for c := range variances {
		variances[c] = make([]float64, d)
		if len(members[c]) < 2 {
			copy(variances[c], global)
			priors[c] = math.Max(float64(len(members[c])), 1) / float64(len(samples))
			continue
		}
		priors[c] = float64(len(members[c])) / float64(len(samples))
		values := make([]float64, len(members[c]))
		for j := 0; j < d; j++ {
			for m, i := range members[c] {
				values[m] = samples[i][j]
			}
			variances[c][j] = stat.PopVariance(values, nil) + g.smoothing
		}
	}
	floats.Scale(1/floats.Sum(priors), priors)
	return priors, means, variances
}

// expectation fills resp with posterior membership and returns the total log-likelihood.
func expectation(samples [][]float64, priors []float64, means, variances [][]float64, resp [][]float64) float64 {
	total := 0.0
	for i, s := range samples {
		for c := range priors {
			resp[i][c] = math.Log(priors[c]) + logDensity(s, means[c], variances[c])
		}
		norm := errors.LogSumExp(resp[i])
		total += norm
		for c := range resp[i] {
			resp[i][c] = math.Exp(resp[i][c] - norm)
		}
	}
	return total
}

// maximization re-estimates the parameters in place from resp.
func maximization(samples [][]float64, resp [][]float64, smoothing float64, priors []float64, means, variances [][]float64) {
	n := float64(len(samples))
	for c := range priors {
		weight := 0.0
		for i := range samples {
			weight += resp[i][c]
		}
		if weight < 1e-12 {
			continue
		}
		priors[c] = weight / n

		for j := range means[c] {
			sum := 0.0
			for i, s := range samples {
				sum += resp[i][c] * s[j]
			}
			means[c][j] = sum / weight
		}
		for j := range variances[c] {
			sum := 0.0
			for i, s := range samples {
				diff := s[j] - means[c][j]
				sum += resp[i][c] * diff * diff
			}
			variances[c][j] = sum/weight + smoothing
		}
	}
	floats.Scale(1/floats.Sum(priors), priors)
}

func logDensity(x, mean, variance []float64) float64 {
	ll := 0.0
	for j, v := range x {
		diff := v - mean[j]
		ll -= 0.5 * (math.Log(2*math.Pi*variance[j]) + diff*diff/variance[j])
	}
	return ll
}

// posteriors returns the membership probabilities of one sample.
func (g *GaussianMixture) posteriors(sample []dataset.Value) []float64 {
	x := make([]float64, len(sample))
	for j, v := range sample {
		x[j] = v.Number
	}
	joint := make([]float64, g.k)
	for c := range joint {
		joint[c] = math.Log(g.priors[c]) + logDensity(x, g.means[c], g.variances[c])
	}
	norm := errors.LogSumExp(joint)
	for c := range joint {
		joint[c] = math.Exp(joint[c] - norm)
	}
	return joint
}

func (g *GaussianMixture) checkPredict(op string, ds dataset.Dataset) error {
	if err := g.state.RequireFitted("GaussianMixture", op); err != nil {
		return err
	}
	if ds == nil {
		return errors.Mark(errors.NewValueError("GaussianMixture."+op, "dataset is nil"), errors.ErrEmptyData)
	}
	if ds.NumSamples() == 0 {
		return nil
	}
	nFeatures, _ := g.state.GetDimensions()
	if ds.NumFeatures() != nFeatures {
		return errors.NewDimensionError("GaussianMixture."+op, nFeatures, ds.NumFeatures(), 1)
	}
	return dataset.CheckCompatibility(g.Compatibility(), ds)
}

// PredictSamples returns the most probable component of each sample as a
// categorical cluster id.
func (g *GaussianMixture) PredictSamples(ds dataset.Dataset) ([]dataset.Value, error) {
	if err := g.checkPredict("PredictSamples", ds); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]dataset.Value, ds.NumSamples())
	for i := range out {
		out[i] = dataset.Cat(strconv.Itoa(floats.MaxIdx(g.posteriors(ds.Sample(i)))))
	}
	return out, nil
}

// ProbaSamples returns the component membership probabilities keyed by cluster id.
func (g *GaussianMixture) ProbaSamples(ds dataset.Dataset) ([]map[string]float64, error) {
	if err := g.checkPredict("ProbaSamples", ds); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]map[string]float64, ds.NumSamples())
	for i := range out {
		post := g.posteriors(ds.Sample(i))
		dist := make(map[string]float64, g.k)
		for c, p := range post {
			dist[strconv.Itoa(c)] = p
		}
		out[i] = dist
	}
	return out, nil
}

func (g *GaussianMixture) String() string {
	return fmt.Sprintf("GaussianMixture(k=%d, max_iter=%d, tol=%g)", g.k, g.maxIter, g.tol)
}

func continuousRows(ds dataset.Dataset) [][]float64 {
	rows := make([][]float64, ds.NumSamples())
	for i := range rows {
		sample := ds.Sample(i)
		row := make([]float64, len(sample))
		for j, v := range sample {
			row[j] = v.Number
		}
		rows[i] = row
	}
	return rows
}

func copyRows(rows [][]float64) [][]float64 {
	if rows == nil {
		return nil
	}
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = append([]float64(nil), r...)
	}
	return out
}

var _ model.Probabilistic = (*GaussianMixture)(nil)
