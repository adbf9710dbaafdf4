package tree

import (
	"github.com/YuminosukeSato/gocart/core/dataset"
)

// task is the strategy that separates classification from regression. The
// builder and splitter only see indices into the training targets.
type task interface {
	newStats() stats
	// impurity of the subset, computed from scratch.
	impurity(idx []int) float64
	pure(idx []int) bool
	// leaf returns the outcome stored in a leaf: the class index and class
	// distribution for classification, or the mean for regression.
	leaf(idx []int) (value float64, distribution []float64)
}

type classificationTask struct {
	y         []int
	classes   []dataset.Value
	criterion Criterion
}

func newClassificationTask(ds *dataset.Labeled, criterion Criterion) *classificationTask {
	classes := ds.PossibleOutcomes()
	pos := make(map[string]int, len(classes))
	for i, c := range classes {
		pos[c.Key()] = i
	}
	y := make([]int, ds.NumSamples())
	for i, l := range ds.Labels() {
		y[i] = pos[l.Key()]
	}
	return &classificationTask{y: y, classes: classes, criterion: criterion}
}

func (t *classificationTask) newStats() stats {
	return newClassStats(t.y, len(t.classes), t.criterion)
}

func (t *classificationTask) impurity(idx []int) float64 {
	s := t.newStats()
	for _, i := range idx {
		s.add(i)
	}
	return s.impurity()
}

func (t *classificationTask) pure(idx []int) bool {
	for _, i := range idx[1:] {
		if t.y[i] != t.y[idx[0]] {
			return false
		}
	}
	return true
}

// leaf picks the majority class; ties go to the lowest class index.
func (t *classificationTask) leaf(idx []int) (float64, []float64) {
	counts := make([]int, len(t.classes))
	for _, i := range idx {
		counts[t.y[i]]++
	}
	best := 0
	for c := range counts {
		if counts[c] > counts[best] {
			best = c
		}
	}
	dist := make([]float64, len(counts))
	if len(idx) > 0 {
		for c, n := range counts {
			dist[c] = float64(n) / float64(len(idx))
		}
	}
	return float64(best), dist
}

type regressionTask struct {
	y []float64
}

func newRegressionTask(ds *dataset.Labeled) *regressionTask {
	y := make([]float64, ds.NumSamples())
	for i, l := range ds.Labels() {
		y[i] = l.Number
	}
	return &regressionTask{y: y}
}

func (t *regressionTask) newStats() stats { return newVarianceStats(t.y) }

// impurity is the two-pass variance: mean first, then squared deviations.
func (t *regressionTask) impurity(idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	mean := t.mean(idx)
	ss := 0.0
	for _, i := range idx {
		d := t.y[i] - mean
		ss += d * d
	}
	return ss / float64(len(idx))
}

func (t *regressionTask) pure(idx []int) bool {
	lo, hi := t.y[idx[0]], t.y[idx[0]]
	for _, i := range idx[1:] {
		lo = min(lo, t.y[i])
		hi = max(hi, t.y[i])
	}
	return lo == hi
}

func (t *regressionTask) leaf(idx []int) (float64, []float64) {
	return t.mean(idx), nil
}

func (t *regressionTask) mean(idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range idx {
		sum += t.y[i]
	}
	return sum / float64(len(idx))
}
