package model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gocart/core/dataset"
)

// Fitter は行列形式の訓練データで学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は行列形式の入力に対して予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を (n_samples, 1) の行列で返す
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer はスコアを計算できるモデルのインターフェース
type Scorer interface {
	// Score は分類器では正解率、回帰器では決定係数R²を返す
	Score(X, y mat.Matrix) (float64, error)
}

// MatrixRegressor は回帰モデルの行列インターフェース
type MatrixRegressor interface {
	Fitter
	Predictor
	Scorer
}

// MatrixClassifier は分類モデルの行列インターフェース
type MatrixClassifier interface {
	Fitter
	Predictor
	Scorer

	// PredictProba は各クラスの確率を (n_samples, n_classes) の行列で返す
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes は学習時に観測したクラスを自然順序で返す
	Classes() []dataset.Value
}

// ParameterGetter はハイパーパラメータを公開するモデルのインターフェース
type ParameterGetter interface {
	GetParams() map[string]interface{}
}

// ParameterSetter はハイパーパラメータを変更できるモデルのインターフェース
type ParameterSetter interface {
	// SetParams は検証に失敗した場合、状態を変更せずにエラーを返す
	SetParams(params map[string]interface{}) error
}
