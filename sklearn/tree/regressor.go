package tree

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gocart/core/dataset"
	"github.com/YuminosukeSato/gocart/core/model"
	"github.com/YuminosukeSato/gocart/metrics"
)

// DecisionTreeRegressor はCARTアルゴリズムによる決定木回帰
// 分割は二乗誤差（分散）の減少量で選び、葉は目的変数の平均値を返す
type DecisionTreeRegressor struct {
	*decisionTree
}

// NewDecisionTreeRegressor は新しい決定木回帰を作成する
// 不純度指標は "squared_error" のみ
func NewDecisionTreeRegressor(opts ...Option) (*DecisionTreeRegressor, error) {
	d, err := newDecisionTree("DecisionTreeRegressor", true, SquaredError, opts)
	if err != nil {
		return nil, err
	}
	return &DecisionTreeRegressor{decisionTree: d}, nil
}

// Type returns model.Regressor.
func (r *DecisionTreeRegressor) Type() model.EstimatorType {
	return model.Regressor
}

// Clone returns an untrained regressor with the same hyperparameters.
func (r *DecisionTreeRegressor) Clone() model.Learner {
	return &DecisionTreeRegressor{decisionTree: r.clone()}
}

// Fit は訓練データで回帰木を学習する
func (r *DecisionTreeRegressor) Fit(X, y mat.Matrix) error {
	ds, err := dataset.FromMatrix(X, y)
	if err != nil {
		return err
	}
	return r.Train(ds)
}

// Predict は各サンプルの予測値を (n_samples, 1) の行列で返す
func (r *DecisionTreeRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	return r.predictMatrix(X)
}

// Score は決定係数R²を返す
func (r *DecisionTreeRegressor) Score(X, y mat.Matrix) (float64, error) {
	pred, err := r.predictionVector(X)
	if err != nil {
		return 0, err
	}
	truth, err := targetVector(r.name+".Score", y)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(truth, pred)
}

func (r *DecisionTreeRegressor) String() string {
	if !r.Trained() {
		return fmt.Sprintf("DecisionTreeRegressor(%s)", r.hyperParams.String())
	}
	return fmt.Sprintf("DecisionTreeRegressor(%s, depth=%d, n_leaves=%d)",
		r.hyperParams.String(), r.GetDepth(), r.GetNLeaves())
}

var (
	_ model.Learner         = (*DecisionTreeRegressor)(nil)
	_ model.Ranked          = (*DecisionTreeRegressor)(nil)
	_ model.MatrixRegressor = (*DecisionTreeRegressor)(nil)
	_ model.ParameterSetter = (*DecisionTreeRegressor)(nil)
)
