package tree

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gocart/core/dataset"
	"github.com/YuminosukeSato/gocart/core/model"
	"github.com/YuminosukeSato/gocart/metrics"
	"github.com/YuminosukeSato/gocart/pkg/errors"
)

// DecisionTreeClassifier はCARTアルゴリズムによる決定木分類器
// scikit-learnのDecisionTreeClassifierと互換性を持つ
//
// 連続値の特徴量は閾値で、カテゴリ特徴量は単一カテゴリとの一致で分割する。
type DecisionTreeClassifier struct {
	*decisionTree
}

// NewDecisionTreeClassifier は新しい決定木分類器を作成する
// デフォルトの不純度指標は "gini"。不正なパラメータはValidationErrorを返す
func NewDecisionTreeClassifier(opts ...Option) (*DecisionTreeClassifier, error) {
	d, err := newDecisionTree("DecisionTreeClassifier", false, Gini, opts)
	if err != nil {
		return nil, err
	}
	return &DecisionTreeClassifier{decisionTree: d}, nil
}

// Type returns model.Classifier.
func (c *DecisionTreeClassifier) Type() model.EstimatorType {
	return model.Classifier
}

// Clone returns an untrained classifier with the same hyperparameters.
func (c *DecisionTreeClassifier) Clone() model.Learner {
	return &DecisionTreeClassifier{decisionTree: c.clone()}
}

// Classes は学習時に観測したクラスを自然順序で返す。未学習の場合はnil
func (c *DecisionTreeClassifier) Classes() []dataset.Value {
	tree := c.Tree()
	if tree == nil {
		return nil
	}
	return tree.Classes
}

// ProbaSamples returns, for every sample, the class distribution of the leaf
// it falls in, keyed by class label.
func (c *DecisionTreeClassifier) ProbaSamples(ds dataset.Dataset) ([]map[string]float64, error) {
	op := c.name + ".ProbaSamples"
	tree, err := c.fitted("ProbaSamples")
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

	out := make([]map[string]float64, n)
	err = forEachSample(n, func(i int) error {
		dist, err := tree.Proba(ds.Sample(i))
		if err != nil {
			return err
		}
		m := make(map[string]float64, len(dist))
		for k, p := range dist {
			m[tree.Classes[k].String()] = p
		}
		out[i] = m
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	return out, nil
}

// Fit は訓練データで決定木を学習する
// X: (n_samples, n_features), y: (n_samples, 1) のクラスラベル
func (c *DecisionTreeClassifier) Fit(X, y mat.Matrix) error {
	ds, err := dataset.FromMatrix(X, y)
	if err != nil {
		return errors.Wrap(err, c.name+".Fit")
	}
	return c.Train(ds)
}

// Predict は各サンプルのクラスを (n_samples, 1) の行列で返す
func (c *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	return c.predictMatrix(X)
}

// PredictProba は各クラスの確率を (n_samples, n_classes) の行列で返す
// 列の順序はClasses()と同じ
func (c *DecisionTreeClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	op := c.name + ".PredictProba"
	tree, err := c.fitted("PredictProba")
	if err != nil {
		return nil, err
	}
	ds, err := unlabeledFromMatrix(op, X)
	if err != nil {
		return nil, err
	}
	if ds.NumFeatures() != tree.NumFeatures {
		return nil, errors.NewDimensionError(op, tree.NumFeatures, ds.NumFeatures(), 1)
	}

	n := ds.NumSamples()
	out := mat.NewDense(n, len(tree.Classes), nil)
	err = forEachSample(n, func(i int) error {
		dist, err := tree.Proba(ds.Sample(i))
		if err != nil {
			return err
		}
		out.SetRow(i, dist)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	return out, nil
}

// Score は正解率（accuracy）を返す
func (c *DecisionTreeClassifier) Score(X, y mat.Matrix) (float64, error) {
	op := c.name + ".Score"
	pred, err := c.predictionVector(X)
	if err != nil {
		return 0, err
	}
	truth, err := targetVector(op, y)
	if err != nil {
		return 0, err
	}
	return metrics.Accuracy(truth, pred)
}

func (c *DecisionTreeClassifier) String() string {
	if !c.Trained() {
		return fmt.Sprintf("DecisionTreeClassifier(%s)", c.hyperParams.String())
	}
	return fmt.Sprintf("DecisionTreeClassifier(%s, n_classes=%d, depth=%d, n_leaves=%d)",
		c.hyperParams.String(), len(c.Classes()), c.GetDepth(), c.GetNLeaves())
}

var (
	_ model.Probabilistic    = (*DecisionTreeClassifier)(nil)
	_ model.Ranked           = (*DecisionTreeClassifier)(nil)
	_ model.MatrixClassifier = (*DecisionTreeClassifier)(nil)
	_ model.ParameterGetter  = (*DecisionTreeClassifier)(nil)
	_ model.ParameterSetter  = (*DecisionTreeClassifier)(nil)
)
