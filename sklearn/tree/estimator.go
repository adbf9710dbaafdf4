package tree

import (
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gocart/core/dataset"
	"github.com/YuminosukeSato/gocart/core/model"
	"github.com/YuminosukeSato/gocart/core/parallel"
	"github.com/YuminosukeSato/gocart/pkg/errors"
	"github.com/YuminosukeSato/gocart/pkg/log"
)

// parallelThreshold is the number of samples above which batch prediction
// fans out across goroutines.
const parallelThreshold = 1000

// decisionTree holds what DecisionTreeClassifier and DecisionTreeRegressor
// share: hyperparameters, the trained arena and the fitted state.
type decisionTree struct {
	hyperParams
	name       string
	regression bool

	state *model.StateManager
	mu    sync.RWMutex
	tree_ *Tree
}

func newDecisionTree(name string, regression bool, criterion Criterion, opts []Option) (*decisionTree, error) {
	d := &decisionTree{
		hyperParams: defaultHyperParams(criterion),
		name:        name,
		regression:  regression,
		state:       model.NewStateManager(),
	}
	for _, opt := range opts {
		opt(&d.hyperParams)
	}
	if _, err := d.newBuilder(regression); err != nil {
		return nil, errors.Wrapf(err, "New%s", name)
	}
	if d.logger == nil {
		d.logger = log.GetLoggerWithName("tree")
	}
	d.logger = d.logger.With(log.ModelNameKey, name)
	return d, nil
}

// clone returns an untrained copy with the same hyperparameters.
func (d *decisionTree) clone() *decisionTree {
	d.mu.RLock()
	p := d.hyperParams
	d.mu.RUnlock()
	p.featureNames = append([]string(nil), p.featureNames...)
	return &decisionTree{
		hyperParams: p,
		name:        d.name,
		regression:  d.regression,
		state:       model.NewStateManager(),
	}
}

// fitted returns the trained arena or a NotFittedError naming method.
func (d *decisionTree) fitted(method string) (*Tree, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.tree_.Trained() {
		return nil, errors.NewNotFittedError(d.name, method)
	}
	return d.tree_, nil
}

// Train grows a new tree from ds, which must be a *dataset.Labeled. The
// previous tree is kept when training fails.
func (d *decisionTree) Train(ds dataset.Dataset) error {
	op := d.name + ".Train"
	labeled, ok := ds.(*dataset.Labeled)
	if !ok || labeled == nil {
		return errors.Mark(errors.NewValueError(op, "supervised training requires a labeled dataset"), errors.ErrUnlabeledData)
	}
	if err := dataset.CheckCompatibility(d.Compatibility(), labeled); err != nil {
		return errors.Wrap(err, op)
	}

	d.mu.RLock()
	builder, err := d.newBuilder(d.regression)
	rng := d.rng()
	logger := d.logger
	d.mu.RUnlock()
	if err != nil {
		return errors.Wrap(err, op)
	}

	logger.Debug("training decision tree",
		log.OperationKey, log.OperationTrain,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, labeled.NumSamples(),
		log.FeaturesKey, labeled.NumFeatures(),
		log.CriterionKey, string(d.criterion),
	)
	start := time.Now()

	tree, err := builder.Build(labeled, rng)
	if err != nil {
		logger.Error("decision tree training failed", err, log.OperationKey, log.OperationTrain)
		return errors.Wrap(err, op)
	}

	d.mu.Lock()
	d.tree_ = tree
	d.mu.Unlock()
	d.state.SetFitted(tree.NumFeatures, labeled.NumSamples())

	logger.Info("decision tree trained",
		log.OperationKey, log.OperationTrain,
		log.SamplesKey, labeled.NumSamples(),
		log.TreeHeightKey, tree.Height(),
		log.TreeNodesKey, len(tree.Nodes),
		log.TreeLeavesKey, tree.NumLeaves(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Trained reports whether Train has succeeded.
func (d *decisionTree) Trained() bool {
	return d.state.IsFitted()
}

// Compatibility returns the column kinds a tree can split on: both.
func (d *decisionTree) Compatibility() []dataset.Kind {
	return []dataset.Kind{dataset.Continuous, dataset.Categorical}
}

// PredictSamples returns one prediction per sample of ds, in order.
func (d *decisionTree) PredictSamples(ds dataset.Dataset) ([]dataset.Value, error) {
	op := d.name + ".PredictSamples"
	tree, err := d.fitted("PredictSamples")
	if err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, errors.Mark(errors.NewValueError(op, "nil dataset"), errors.ErrEmptyData)
	}
	n := ds.NumSamples()
	if n > 0 && ds.NumFeatures() != tree.NumFeatures {
		return nil, errors.NewDimensionError(op, tree.NumFeatures, ds.NumFeatures(), 1)
	}

	out := make([]dataset.Value, n)
	err = forEachSample(n, func(i int) error {
		v, err := tree.Predict(ds.Sample(i))
		out[i] = v
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	return out, nil
}

// forEachSample calls fn for every index in [0, n), in parallel above
// parallelThreshold, and returns the error of the lowest failing index.
func forEachSample(n int, fn func(i int) error) error {
	var mu sync.Mutex
	failed, firstErr := n, error(nil)
	parallel.ParallelizeWithThreshold(n, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			if err := fn(i); err != nil {
				mu.Lock()
				if i < failed {
					failed, firstErr = i, err
				}
				mu.Unlock()
				return
			}
		}
	})
	if firstErr != nil {
		return errors.Wrapf(firstErr, "sample %d", failed)
	}
	return nil
}

// Height returns the depth of the deepest leaf, 0 when untrained.
func (d *decisionTree) Height() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tree_.Height()
}

// Rules renders the trained tree as indented text rules.
func (d *decisionTree) Rules() (string, error) {
	tree, err := d.fitted("Rules")
	if err != nil {
		return "", err
	}
	return tree.Rules()
}

// FeatureImportances returns the normalized importance of every feature.
func (d *decisionTree) FeatureImportances() ([]float64, error) {
	tree, err := d.fitted("FeatureImportances")
	if err != nil {
		return nil, err
	}
	return tree.FeatureImportances()
}

// Tree returns the trained arena, or nil before training. Callers must not
// modify it.
func (d *decisionTree) Tree() *Tree {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tree_
}

// GetFeatureImportances はsklearnの feature_importances_ に相当する
func (d *decisionTree) GetFeatureImportances() ([]float64, error) {
	return d.FeatureImportances()
}

// GetDepth は木の深さを返す。未学習の場合は0
func (d *decisionTree) GetDepth() int {
	return d.Height()
}

// GetNLeaves は葉の数を返す。未学習の場合は0
func (d *decisionTree) GetNLeaves() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tree_.NumLeaves()
}

// GetParams はハイパーパラメータをsklearn形式のキーで返す
func (d *decisionTree) GetParams() map[string]interface{} {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.getParams()
}

// SetParams はハイパーパラメータを更新する。検証に失敗した場合は何も変更しない
func (d *decisionTree) SetParams(params map[string]interface{}) error {
	op := d.name + ".SetParams"
	d.mu.Lock()
	defer d.mu.Unlock()
	next, err := d.setParams(params)
	if err != nil {
		return errors.Wrap(err, op)
	}
	if _, err := next.newBuilder(d.regression); err != nil {
		return errors.Wrap(err, op)
	}
	d.hyperParams = next
	return nil
}

// unlabeledFromMatrix converts X into a dataset of continuous samples.
func unlabeledFromMatrix(op string, X mat.Matrix) (*dataset.Unlabeled, error) {
	ds, err := dataset.UnlabeledFromMatrix(X)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	return ds, nil
}

// predictMatrix runs PredictSamples over X and returns an (n_samples, 1) matrix.
func (d *decisionTree) predictMatrix(X mat.Matrix) (mat.Matrix, error) {
	op := d.name + ".Predict"
	if _, err := d.fitted("Predict"); err != nil {
		return nil, err
	}
	ds, err := unlabeledFromMatrix(op, X)
	if err != nil {
		return nil, err
	}
	preds, err := d.PredictSamples(ds)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(len(preds), 1, nil)
	for i, p := range preds {
		if p.Kind != dataset.Continuous {
			return nil, errors.NewModelError(op, "categorical prediction "+p.String()+" cannot be stored in a matrix", nil)
		}
		out.Set(i, 0, p.Number)
	}
	return out, nil
}

// targetVector reads y, a single column or row, into a vector.
func targetVector(op string, y mat.Matrix) (*mat.VecDense, error) {
	if y == nil {
		return nil, errors.Mark(errors.NewValueError(op, "nil target"), errors.ErrEmptyData)
	}
	r, c := y.Dims()
	switch {
	case c == 1:
		return mat.NewVecDense(r, mat.Col(nil, 0, y)), nil
	case r == 1:
		return mat.NewVecDense(c, mat.Row(nil, 0, y)), nil
	default:
		return nil, errors.NewDimensionError(op, 1, c, 1)
	}
}

// predictionVector runs predictMatrix and flattens the result.
func (d *decisionTree) predictionVector(X mat.Matrix) (*mat.VecDense, error) {
	pred, err := d.predictMatrix(X)
	if err != nil {
		return nil, err
	}
	r, _ := pred.Dims()
	return mat.NewVecDense(r, mat.Col(nil, 0, pred)), nil
}
