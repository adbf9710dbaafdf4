package tree

import (
	"math"

	"github.com/YuminosukeSato/gocart/pkg/errors"
)

// Criterion names the impurity measure a tree minimizes.
type Criterion string

const (
	// Gini is the Gini impurity 1 - Σ p_c² (classification).
	Gini Criterion = "gini"
	// Entropy is the Shannon entropy -Σ p_c log2 p_c (classification).
	Entropy Criterion = "entropy"
	// SquaredError is the variance of the targets (regression).
	SquaredError Criterion = "squared_error"
)

func (c Criterion) classification() bool { return c == Gini || c == Entropy }

func validateCriterion(c Criterion, regression bool) error {
	switch {
	case regression && c == SquaredError:
		return nil
	case !regression && c.classification():
		return nil
	case regression:
		return errors.NewValidationError("criterion", "must be 'squared_error'", string(c))
	default:
		return errors.NewValidationError("criterion", "must be 'gini' or 'entropy'", string(c))
	}
}

// stats holds the sufficient statistics of a subset of targets so impurity
// can be updated one sample at a time while the splitter sweeps a feature.
type stats interface {
	add(i int)
	remove(i int)
	count() int
	impurity() float64
}

// classStats counts class occurrences. y holds class indices.
type classStats struct {
	y         []int
	counts    []int
	n         int
	criterion Criterion
}

func newClassStats(y []int, nClasses int, criterion Criterion) *classStats {
	return &classStats{y: y, counts: make([]int, nClasses), criterion: criterion}
}

func (s *classStats) add(i int) {
	s.counts[s.y[i]]++
	s.n++
}

func (s *classStats) remove(i int) {
	s.counts[s.y[i]]--
	s.n--
}

func (s *classStats) count() int { return s.n }

func (s *classStats) impurity() float64 {
	if s.n == 0 {
		return 0
	}
	n := float64(s.n)
	if s.criterion == Entropy {
		h := 0.0
		for _, c := range s.counts {
			if c == 0 {
				continue
			}
			p := float64(c) / n
			h -= p * math.Log2(p)
		}
		return h
	}
	sum := 0.0
	for _, c := range s.counts {
		p := float64(c) / n
		sum += p * p
	}
	return 1 - sum
}

// varianceStats keeps n, Σd and Σd² of continuous targets, where d is the
// target minus shift. shift is the first target added, so the sums stay on
// the scale of the node's spread rather than of the targets themselves.
type varianceStats struct {
	y          []float64
	n          int
	shift      float64
	shifted    bool
	sum, sumSq float64
}

func newVarianceStats(y []float64) *varianceStats {
	return &varianceStats{y: y}
}

func (s *varianceStats) add(i int) {
	if !s.shifted {
		s.shift, s.shifted = s.y[i], true
	}
	d := s.y[i] - s.shift
	s.n++
	s.sum += d
	s.sumSq += d * d
}

func (s *varianceStats) remove(i int) {
	d := s.y[i] - s.shift
	s.n--
	s.sum -= d
	s.sumSq -= d * d
	if s.n == 0 {
		s.sum, s.sumSq = 0, 0
	}
}

func (s *varianceStats) count() int { return s.n }

func (s *varianceStats) impurity() float64 {
	if s.n == 0 {
		return 0
	}
	n := float64(s.n)
	mean := s.sum / n
	return math.Max(0, s.sumSq/n-mean*mean)
}
