package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gocart/core/dataset"
	"github.com/YuminosukeSato/gocart/core/model"
	"github.com/YuminosukeSato/gocart/pkg/errors"
)

// Metric scores a set of predictions against the ground truth. Validators
// use it to grade a learner on held-out data.
type Metric interface {
	// Name returns a short human-readable name.
	Name() string

	// Score compares predictions with labels, element by element.
	Score(predictions, labels []dataset.Value) (float64, error)

	// Range returns the lowest and highest score the metric can produce.
	Range() (lo, hi float64)

	// Compatibility returns the estimator types the metric can grade.
	Compatibility() []model.EstimatorType
}

// Supports reports whether m can grade estimators of type t.
func Supports(m Metric, t model.EstimatorType) bool {
	for _, c := range m.Compatibility() {
		if c == t {
			return true
		}
	}
	return false
}

func checkValues(op string, predictions, labels []dataset.Value) error {
	if len(predictions) == 0 {
		return errors.Mark(errors.NewValueError(op, "no predictions to score"), errors.ErrEmptyData)
	}
	if len(predictions) != len(labels) {
		return errors.NewDimensionError(op, len(labels), len(predictions), 0)
	}
	return nil
}

func continuousVec(op string, values []dataset.Value) (*mat.VecDense, error) {
	v := mat.NewVecDense(len(values), nil)
	for i, x := range values {
		if x.Kind != dataset.Continuous {
			return nil, errors.NewValueError(op, "expected continuous values, got "+x.Kind.String())
		}
		v.SetVec(i, x.Number)
	}
	return v, nil
}

// AccuracyMetric is the fraction of predictions equal to their label.
type AccuracyMetric struct{}

func (AccuracyMetric) Name() string { return "accuracy" }

func (AccuracyMetric) Score(predictions, labels []dataset.Value) (float64, error) {
	if err := checkValues("AccuracyMetric.Score", predictions, labels); err != nil {
		return 0, err
	}
	correct := 0
	for i, p := range predictions {
		if p.Equal(labels[i]) {
			correct++
		}
	}
	return float64(correct) / float64(len(labels)), nil
}

func (AccuracyMetric) Range() (float64, float64) { return 0, 1 }

func (AccuracyMetric) Compatibility() []model.EstimatorType {
	return []model.EstimatorType{model.Classifier}
}

// F1Metric is the unweighted mean of the per-class F1 scores over every class
// seen in either the predictions or the labels.
type F1Metric struct{}

func (F1Metric) Name() string { return "f1" }

func (F1Metric) Score(predictions, labels []dataset.Value) (float64, error) {
	if err := checkValues("F1Metric.Score", predictions, labels); err != nil {
		return 0, err
	}
	type counts struct{ tp, fp, fn int }
	classes := map[string]*counts{}
	get := func(v dataset.Value) *counts {
		c, ok := classes[v.Key()]
		if !ok {
			c = &counts{}
			classes[v.Key()] = c
		}
		return c
	}
	for i, p := range predictions {
		if p.Equal(labels[i]) {
			get(p).tp++
			continue
		}
		get(p).fp++
		get(labels[i]).fn++
	}

	keys := make([]string, 0, len(classes))
	for k := range classes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sum := 0.0
	for _, k := range keys {
		c := classes[k]
		if c.tp == 0 {
			if c.fp == 0 {
				errors.Warn(errors.NewUndefinedMetricWarning("f1", "no predicted samples for class "+k, 0))
			}
			continue
		}
		precision := float64(c.tp) / float64(c.tp+c.fp)
		recall := float64(c.tp) / float64(c.tp+c.fn)
		sum += 2 * precision * recall / (precision + recall)
	}
	return sum / float64(len(keys)), nil
}

func (F1Metric) Range() (float64, float64) { return 0, 1 }

func (F1Metric) Compatibility() []model.EstimatorType {
	return []model.EstimatorType{model.Classifier}
}

// RSquaredMetric is the coefficient of determination of continuous predictions.
type RSquaredMetric struct{}

func (RSquaredMetric) Name() string { return "r2" }

func (RSquaredMetric) Score(predictions, labels []dataset.Value) (float64, error) {
	const op = "RSquaredMetric.Score"
	if err := checkValues(op, predictions, labels); err != nil {
		return 0, err
	}
	yPred, err := continuousVec(op, predictions)
	if err != nil {
		return 0, err
	}
	yTrue, err := continuousVec(op, labels)
	if err != nil {
		return 0, err
	}
	return R2Score(yTrue, yPred)
}

func (RSquaredMetric) Range() (float64, float64) { return math.Inf(-1), 1 }

func (RSquaredMetric) Compatibility() []model.EstimatorType {
	return []model.EstimatorType{model.Regressor}
}

// NegMeanSquaredErrorMetric is the mean squared error negated so that higher
// is better.
type NegMeanSquaredErrorMetric struct{}

func (NegMeanSquaredErrorMetric) Name() string { return "neg_mean_squared_error" }

func (NegMeanSquaredErrorMetric) Score(predictions, labels []dataset.Value) (float64, error) {
	const op = "NegMeanSquaredErrorMetric.Score"
	if err := checkValues(op, predictions, labels); err != nil {
		return 0, err
	}
	yPred, err := continuousVec(op, predictions)
	if err != nil {
		return 0, err
	}
	yTrue, err := continuousVec(op, labels)
	if err != nil {
		return 0, err
	}
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return -mse, nil
}

func (NegMeanSquaredErrorMetric) Range() (float64, float64) { return math.Inf(-1), 0 }

func (NegMeanSquaredErrorMetric) Compatibility() []model.EstimatorType {
	return []model.EstimatorType{model.Regressor}
}

// VMeasureMetric is the harmonic mean of homogeneity and completeness of a
// clustering, where predictions are cluster ids and labels the true classes.
type VMeasureMetric struct{}

func (VMeasureMetric) Name() string { return "v_measure" }

func (VMeasureMetric) Score(predictions, labels []dataset.Value) (float64, error) {
	if err := checkValues("VMeasureMetric.Score", predictions, labels); err != nil {
		return 0, err
	}
	n := float64(len(labels))

	// contingency[class][cluster]
	contingency := map[string]map[string]float64{}
	classTotals := map[string]float64{}
	clusterTotals := map[string]float64{}
	for i, p := range predictions {
		c, k := labels[i].Key(), p.Key()
		if contingency[c] == nil {
			contingency[c] = map[string]float64{}
		}
		contingency[c][k]++
		classTotals[c]++
		clusterTotals[k]++
	}

	hClass := entropyOf(classTotals, n)
	hCluster := entropyOf(clusterTotals, n)

	var hClassGivenCluster, hClusterGivenClass float64
	for c, row := range contingency {
		for k, nck := range row {
			hClassGivenCluster -= nck / n * math.Log(nck/clusterTotals[k])
			hClusterGivenClass -= nck / n * math.Log(nck/classTotals[c])
		}
	}

	homogeneity, completeness := 1.0, 1.0
	if hClass > 0 {
		homogeneity = 1 - hClassGivenCluster/hClass
	}
	if hCluster > 0 {
		completeness = 1 - hClusterGivenClass/hCluster
	}
	if homogeneity+completeness == 0 {
		return 0, nil
	}
	return 2 * homogeneity * completeness / (homogeneity + completeness), nil
}

func (VMeasureMetric) Range() (float64, float64) { return 0, 1 }

func (VMeasureMetric) Compatibility() []model.EstimatorType {
	return []model.EstimatorType{model.Clusterer}
}

func entropyOf(totals map[string]float64, n float64) float64 {
	h := 0.0
	for _, c := range totals {
		p := c / n
		h -= p * math.Log(p)
	}
	return h
}

// ByName returns the validation metric called name.
func ByName(name string) (Metric, error) {
	for _, m := range []Metric{AccuracyMetric{}, F1Metric{}, RSquaredMetric{}, NegMeanSquaredErrorMetric{}, VMeasureMetric{}} {
		if m.Name() == name {
			return m, nil
		}
	}
	return nil, errors.NewValidationError("metric", "must be one of accuracy, f1, r2, neg_mean_squared_error, v_measure", name)
}
