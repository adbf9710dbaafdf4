package tree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gocart/core/dataset"
	"github.com/YuminosukeSato/gocart/core/model"
	"github.com/YuminosukeSato/gocart/pkg/errors"
	"github.com/YuminosukeSato/gocart/pkg/log"
)

func newClassifier(t *testing.T, opts ...Option) *DecisionTreeClassifier {
	t.Helper()
	dt, err := NewDecisionTreeClassifier(opts...)
	require.NoError(t, err)
	return dt
}

func newRegressor(t *testing.T, opts ...Option) *DecisionTreeRegressor {
	t.Helper()
	dt, err := NewDecisionTreeRegressor(opts...)
	require.NoError(t, err)
	return dt
}

func TestDecisionTreeClassifier_FitPredict_Binary(t *testing.T) {
	X := mat.NewDense(8, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		1, 1,
		3, 3,
		3, 4,
		4, 3,
		4, 4,
	})
	y := mat.NewDense(8, 1, []float64{
		0, 0, 0, 0,
		1, 1, 1, 1,
	})

	dt := newClassifier(t, WithCriterion("gini"), WithMaxDepth(5))
	require.NoError(t, dt.Fit(X, y))

	predictions, err := dt.Predict(X)
	require.NoError(t, err)
	for i := 0; i < 8; i++ {
		assert.Equal(t, y.At(i, 0), predictions.At(i, 0), "sample %d", i)
	}

	XTest := mat.NewDense(2, 2, []float64{
		0.5, 0.5,
		3.5, 3.5,
	})
	testPreds, err := dt.Predict(XTest)
	require.NoError(t, err)
	assert.Equal(t, 0.0, testPreds.At(0, 0))
	assert.Equal(t, 1.0, testPreds.At(1, 0))
}

func TestDecisionTreeClassifier_PredictProba(t *testing.T) {
	X := mat.NewDense(6, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		2, 2,
		2, 3,
		3, 2,
	})
	y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})

	dt := newClassifier(t, WithMaxDepth(3))
	require.NoError(t, dt.Fit(X, y))

	probas, err := dt.PredictProba(X)
	require.NoError(t, err)

	rows, cols := probas.Dims()
	require.Equal(t, 6, rows)
	require.Equal(t, 2, cols)
	for i := 0; i < rows; i++ {
		sum := 0.0
		for j := 0; j < cols; j++ {
			p := probas.At(i, j)
			assert.True(t, p >= 0 && p <= 1, "probability out of range at (%d, %d): %v", i, j, p)
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestDecisionTreeClassifier_Score(t *testing.T) {
	tests := []struct {
		name string
		X    *mat.Dense
		y    *mat.Dense
		opts []Option
	}{
		{
			name: "xor-like pattern",
			X: mat.NewDense(8, 2, []float64{
				0.0, 0.0,
				0.0, 0.1,
				0.1, 1.0,
				0.0, 0.9,
				1.0, 0.0,
				0.9, 0.0,
				1.0, 1.0,
				0.9, 0.9,
			}),
			y:    mat.NewDense(8, 1, []float64{0, 0, 1, 1, 1, 1, 0, 0}),
			opts: []Option{WithMaxDepth(5), WithMinSamplesLeaf(1)},
		},
		{
			name: "linearly separable",
			X: mat.NewDense(6, 2, []float64{
				0, 0,
				0, 1,
				1, 0,
				2, 2,
				2, 3,
				3, 2,
			}),
			y:    mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1}),
			opts: []Option{WithMaxDepth(3)},
		},
		{
			name: "entropy criterion",
			X: mat.NewDense(6, 2, []float64{
				0, 0,
				0, 1,
				1, 0,
				2, 2,
				2, 3,
				3, 2,
			}),
			y:    mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1}),
			opts: []Option{WithCriterion("entropy"), WithMaxDepth(3)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dt := newClassifier(t, tt.opts...)
			require.NoError(t, dt.Fit(tt.X, tt.y))

			score, err := dt.Score(tt.X, tt.y)
			require.NoError(t, err)
			assert.Equal(t, 1.0, score)
		})
	}
}

func TestDecisionTreeClassifier_Multiclass(t *testing.T) {
	X := mat.NewDense(9, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		3, 3,
		3, 4,
		4, 3,
		6, 6,
		6, 7,
		7, 6,
	})
	y := mat.NewDense(9, 1, []float64{0, 0, 0, 1, 1, 1, 2, 2, 2})

	dt := newClassifier(t, WithCriterion("gini"), WithMaxDepth(5))
	require.NoError(t, dt.Fit(X, y))

	assert.Equal(t, []dataset.Value{dataset.Num(0), dataset.Num(1), dataset.Num(2)}, dt.Classes())

	score, err := dt.Score(X, y)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)

	probas, err := dt.PredictProba(X)
	require.NoError(t, err)
	rows, cols := probas.Dims()
	require.Equal(t, 3, cols)
	for i := 0; i < rows; i++ {
		row := mat.Row(nil, i, probas)
		maxClass := 0
		for j := range row {
			if row[j] > row[maxClass] {
				maxClass = j
			}
		}
		assert.Equal(t, int(y.At(i, 0)), maxClass, "sample %d", i)
	}
}

func TestDecisionTreeClassifier_FeatureImportance(t *testing.T) {
	X := mat.NewDense(8, 3, []float64{
		0, 0, 0,
		0, 1, 1,
		0, 0, 1,
		0, 1, 0,
		1, 0, 0,
		1, 1, 1,
		1, 0, 1,
		1, 1, 0,
	})
	y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 1, 1, 1, 1})

	dt := newClassifier(t)
	require.NoError(t, dt.Fit(X, y))

	importances, err := dt.GetFeatureImportances()
	require.NoError(t, err)
	require.Len(t, importances, 3)
	assert.InDelta(t, 1.0, importances[0], 1e-12)
	assert.Zero(t, importances[1])
	assert.Zero(t, importances[2])
}

func TestDecisionTreeClassifier_Constraints(t *testing.T) {
	t.Run("max depth", func(t *testing.T) {
		X := mat.NewDense(16, 2, nil)
		y := mat.NewDense(16, 1, nil)
		for i := 0; i < 16; i++ {
			X.Set(i, 0, float64(i))
			X.Set(i, 1, float64(i%4))
			y.Set(i, 0, float64(i%2))
		}
		dt := newClassifier(t, WithMaxDepth(2))
		require.NoError(t, dt.Fit(X, y))
		assert.LessOrEqual(t, dt.GetDepth(), 2)
	})

	t.Run("min samples", func(t *testing.T) {
		X := mat.NewDense(10, 2, nil)
		y := mat.NewDense(10, 1, nil)
		for i := 0; i < 10; i++ {
			X.Set(i, 0, float64(i))
			X.Set(i, 1, float64(i%3))
			y.Set(i, 0, float64(i%2))
		}
		dt := newClassifier(t, WithMinSamplesSplit(5), WithMinSamplesLeaf(2))
		require.NoError(t, dt.Fit(X, y))
		assert.LessOrEqual(t, dt.GetNLeaves(), 5)
		for _, n := range dt.Tree().Nodes {
			if n.IsLeaf() {
				assert.GreaterOrEqual(t, n.Samples, 2)
			}
		}
	})
}

func TestDecisionTreeClassifier_GetSetParams(t *testing.T) {
	dt := newClassifier(t)

	params := dt.GetParams()
	assert.Equal(t, "gini", params["criterion"])
	assert.Equal(t, 2, params["min_samples_split"])
	assert.Nil(t, params["max_depth"])

	err := dt.SetParams(map[string]interface{}{
		"criterion":         "entropy",
		"max_depth":         5,
		"min_samples_split": 4,
		"min_samples_leaf":  2,
	})
	require.NoError(t, err)

	assert.Equal(t, Entropy, dt.criterion)
	assert.Equal(t, 5, dt.maxDepth)
	assert.Equal(t, 4, dt.minSamplesSplit)
	assert.Equal(t, 2, dt.minSamplesLeaf)

	t.Run("invalid values leave params unchanged", func(t *testing.T) {
		err := dt.SetParams(map[string]interface{}{"max_depth": 3, "criterion": "squared_error"})
		var valErr *errors.ValidationError
		require.True(t, errors.As(err, &valErr))
		assert.Equal(t, 5, dt.maxDepth)
		assert.Equal(t, Entropy, dt.criterion)
	})

	t.Run("unknown key", func(t *testing.T) {
		assert.Error(t, dt.SetParams(map[string]interface{}{"n_estimators": 10}))
	})
}

func TestNewDecisionTree_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"zero max depth", []Option{WithMaxDepth(0)}},
		{"min samples split below 2", []Option{WithMinSamplesSplit(1)}},
		{"min samples leaf below 1", []Option{WithMinSamplesLeaf(0)}},
		{"negative impurity decrease", []Option{WithMinImpurityDecrease(-0.1)}},
		{"negative max features", []Option{WithMaxFeatures(-1)}},
		{"regression criterion", []Option{WithCriterion("squared_error")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dt, err := NewDecisionTreeClassifier(tt.opts...)
			assert.Nil(t, dt)
			var valErr *errors.ValidationError
			assert.True(t, errors.As(err, &valErr), "got %v", err)
		})
	}

	_, err := NewDecisionTreeRegressor(WithCriterion("gini"))
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))
}

func TestDecisionTree_NonFiniteInput(t *testing.T) {
	X := mat.NewDense(5, 1, []float64{1, math.NaN(), 3, 10, 2})
	y := mat.NewVecDense(5, []float64{0, 1, 0, 1, 0})

	var valErr *errors.ValueError
	clf := newClassifier(t)
	assert.True(t, errors.As(clf.Fit(X, y), &valErr))
	assert.False(t, clf.Trained())

	reg := newRegressor(t)
	assert.True(t, errors.As(reg.Fit(X, y), &valErr))

	finite := mat.NewDense(4, 1, []float64{1, 2, 3, 10})
	require.NoError(t, reg.Fit(finite, mat.NewVecDense(4, []float64{1, 2, 3, 10})))
	_, err := reg.Predict(mat.NewDense(1, 1, []float64{math.Inf(1)}))
	assert.True(t, errors.As(err, &valErr))

	rules, err := reg.Rules()
	require.NoError(t, err)
	assert.NotContains(t, rules, "NaN")
}

func TestDecisionTreeClassifier_NotFitted(t *testing.T) {
	dt := newClassifier(t)
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})

	assert.False(t, dt.Trained())
	assert.Equal(t, 0, dt.Height())
	assert.Nil(t, dt.Classes())

	var nf *errors.NotFittedError
	_, err := dt.Predict(X)
	assert.True(t, errors.As(err, &nf))
	_, err = dt.PredictProba(X)
	assert.True(t, errors.As(err, &nf))
	_, err = dt.Rules()
	assert.True(t, errors.As(err, &nf))
	_, err = dt.FeatureImportances()
	assert.True(t, errors.As(err, &nf))
	_, err = dt.PredictSamples(dataset.MustUnlabeled([][]dataset.Value{{dataset.Num(1)}}))
	assert.True(t, errors.As(err, &nf))
}

func TestDecisionTreeClassifier_DatasetFace(t *testing.T) {
	samples := [][]dataset.Value{
		{dataset.Cat("sunny"), dataset.Num(30)},
		{dataset.Cat("sunny"), dataset.Num(25)},
		{dataset.Cat("rainy"), dataset.Num(18)},
		{dataset.Cat("rainy"), dataset.Num(15)},
		{dataset.Cat("cloudy"), dataset.Num(20)},
		{dataset.Cat("cloudy"), dataset.Num(22)},
	}
	labels := []dataset.Value{
		dataset.Cat("beach"), dataset.Cat("beach"),
		dataset.Cat("home"), dataset.Cat("home"),
		dataset.Cat("park"), dataset.Cat("park"),
	}
	ds := dataset.MustLabeled(samples, labels)

	dt := newClassifier(t, WithFeatureNames("outlook", "temperature"))
	require.NoError(t, dt.Train(ds))
	assert.True(t, dt.Trained())
	assert.Equal(t, model.Classifier, dt.Type())

	preds, err := dt.PredictSamples(ds)
	require.NoError(t, err)
	assert.Equal(t, labels, preds)

	probas, err := dt.ProbaSamples(ds.Features())
	require.NoError(t, err)
	require.Len(t, probas, 6)
	assert.Equal(t, map[string]float64{"beach": 1, "home": 0, "park": 0}, probas[0])

	again, err := dt.PredictSamples(ds)
	require.NoError(t, err)
	assert.Equal(t, preds, again)

	t.Run("unlabeled training data", func(t *testing.T) {
		err := newClassifier(t).Train(ds.Features())
		assert.True(t, errors.Is(err, errors.ErrUnlabeledData))
	})

	t.Run("kind mismatch at prediction", func(t *testing.T) {
		bad := dataset.MustUnlabeled([][]dataset.Value{{dataset.Num(1), dataset.Num(20)}})
		_, err := dt.PredictSamples(bad)
		var incompatible *errors.IncompatibleDataError
		assert.True(t, errors.As(err, &incompatible), "got %v", err)
	})

	t.Run("arity mismatch at prediction", func(t *testing.T) {
		bad := dataset.MustUnlabeled([][]dataset.Value{{dataset.Cat("sunny")}})
		_, err := dt.PredictSamples(bad)
		var dim *errors.DimensionError
		assert.True(t, errors.As(err, &dim), "got %v", err)
	})

	t.Run("empty dataset predicts nothing", func(t *testing.T) {
		preds, err := dt.PredictSamples(dataset.MustUnlabeled(nil))
		require.NoError(t, err)
		assert.Empty(t, preds)
	})

	t.Run("failed training keeps previous tree", func(t *testing.T) {
		before := dt.Tree()
		empty := dataset.MustLabeled(nil, nil)
		err := dt.Train(empty)
		assert.True(t, errors.Is(err, errors.ErrEmptyData), "got %v", err)
		assert.Same(t, before, dt.Tree())
		assert.True(t, dt.Trained())
	})
}

func TestDecisionTreeClassifier_Clone(t *testing.T) {
	dt := newClassifier(t, WithMaxDepth(3), WithCriterion("entropy"), WithRandomState(7))
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})
	require.NoError(t, dt.Fit(X, y))

	clone := dt.Clone()
	assert.False(t, clone.Trained())
	c, ok := clone.(*DecisionTreeClassifier)
	require.True(t, ok)
	assert.Equal(t, dt.GetParams(), c.GetParams())
}

func TestDecisionTreeClassifier_Logging(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	dt := newClassifier(t, WithLogger(logger))

	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})
	require.NoError(t, dt.Fit(X, y))

	assert.True(t, logger.ContainsMessage("decision tree trained"))
	assert.True(t, logger.ContainsField(log.ModelNameKey, "DecisionTreeClassifier"))
	assert.True(t, logger.ContainsField(log.TreeHeightKey, 1.0))
}

func TestDecisionTreeClassifier_ParallelPrediction(t *testing.T) {
	n := parallelThreshold * 3
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64(i%7))
		if i >= n/2 {
			y.Set(i, 0, 1)
		}
	}
	dt := newClassifier(t, WithMaxDepth(4))
	require.NoError(t, dt.Fit(X, y))

	pred, err := dt.Predict(X)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.Equal(t, y.At(i, 0), pred.At(i, 0), "sample %d", i)
	}
}

func TestDecisionTreeRegressor(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 10})
	y := mat.NewDense(4, 1, []float64{1, 2, 3, 10})

	dt := newRegressor(t)
	require.NoError(t, dt.Fit(X, y))
	assert.Equal(t, model.Regressor, dt.Type())

	root := dt.Tree().Nodes[0]
	assert.Equal(t, ThresholdSplit, root.Split.Kind)
	assert.Equal(t, 6.5, root.Split.Threshold)
	assert.GreaterOrEqual(t, dt.Height(), 1)

	pred, err := dt.Predict(mat.NewDense(1, 1, []float64{10}))
	require.NoError(t, err)
	assert.Equal(t, 10.0, pred.At(0, 0))

	score, err := dt.Score(X, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, score, 1e-12)

	t.Run("depth one gives the two means", func(t *testing.T) {
		stump := newRegressor(t, WithMaxDepth(1))
		require.NoError(t, stump.Fit(X, y))
		pred, err := stump.Predict(mat.NewDense(2, 1, []float64{0, 100}))
		require.NoError(t, err)
		assert.InDelta(t, 2.0, pred.At(0, 0), 1e-12)
		assert.Equal(t, 10.0, pred.At(1, 0))
		assert.Equal(t, 1, stump.Height())
	})

	t.Run("categorical labels are rejected", func(t *testing.T) {
		ds := dataset.MustLabeled(
			[][]dataset.Value{{dataset.Num(1)}, {dataset.Num(2)}},
			[]dataset.Value{dataset.Cat("a"), dataset.Cat("b")},
		)
		err := newRegressor(t).Train(ds)
		var valErr *errors.ValueError
		assert.True(t, errors.As(err, &valErr), "got %v", err)
	})
}

func TestDecisionTreeClassifier_String(t *testing.T) {
	dt := newClassifier(t, WithMaxDepth(3))
	assert.Contains(t, dt.String(), "max_depth=3")
	assert.NotContains(t, dt.String(), "n_leaves")

	require.NoError(t, dt.Fit(mat.NewDense(2, 1, []float64{0, 1}), mat.NewDense(2, 1, []float64{0, 1})))
	assert.Contains(t, dt.String(), "n_leaves=2")
}
