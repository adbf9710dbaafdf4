package tree

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/awalterschulze/gographviz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gocart/core/dataset"
	"github.com/YuminosukeSato/gocart/core/model"
	"github.com/YuminosukeSato/gocart/pkg/errors"
)

func trainedColorClassifier(t *testing.T) *DecisionTreeClassifier {
	t.Helper()
	dt := newClassifier(t, WithFeatureNames("color", "weight"))
	require.NoError(t, dt.Train(colorDataset()))
	return dt
}

func TestRules(t *testing.T) {
	t.Run("categorical classifier", func(t *testing.T) {
		rules, err := trainedColorClassifier(t).Rules()
		require.NoError(t, err)
		assert.Equal(t, ""+
			"|--- color == blue\n"+
			"|   |--- class: cool\n"+
			"|--- color != blue\n"+
			"|   |--- class: warm\n", rules)
	})

	t.Run("regression stump", func(t *testing.T) {
		dt := newRegressor(t, WithMaxDepth(1))
		require.NoError(t, dt.Fit(
			mat.NewDense(4, 1, []float64{1, 2, 3, 10}),
			mat.NewDense(4, 1, []float64{1, 2, 3, 10}),
		))
		rules, err := dt.Rules()
		require.NoError(t, err)
		assert.Equal(t, ""+
			"|--- feature_0 <= 6.5\n"+
			"|   |--- value: 2\n"+
			"|--- feature_0 >  6.5\n"+
			"|   |--- value: 10\n", rules)
	})

	t.Run("deterministic", func(t *testing.T) {
		a, err := trainedColorClassifier(t).Rules()
		require.NoError(t, err)
		b, err := trainedColorClassifier(t).Rules()
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}

func TestExportGraphviz(t *testing.T) {
	dt := trainedColorClassifier(t)
	dot, err := dt.ExportGraphviz()
	require.NoError(t, err)

	assert.Contains(t, dot, "digraph Tree")
	assert.Contains(t, dot, "color == blue")
	assert.Contains(t, dot, "class: cool")

	graph, err := gographviz.Read([]byte(dot))
	require.NoError(t, err, "output must parse as DOT")
	assert.Len(t, graph.Nodes.Nodes, 3)
	assert.Len(t, graph.Edges.Edges, 2)

	_, err = newClassifier(t).ExportGraphviz()
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))
}

func TestExportGraphviz_EscapesThresholds(t *testing.T) {
	dt := newRegressor(t, WithMaxDepth(1))
	require.NoError(t, dt.Fit(
		mat.NewDense(4, 1, []float64{1, 2, 3, 10}),
		mat.NewDense(4, 1, []float64{1, 2, 3, 10}),
	))
	dot, err := dt.ExportGraphviz()
	require.NoError(t, err)
	assert.Contains(t, dot, "feature_0 &lt;= 6.5")
}

func TestPlotFeatureImportances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "importances.png")
	require.NoError(t, trainedColorClassifier(t).PlotFeatureImportances(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestGobRoundTrip(t *testing.T) {
	t.Run("classifier", func(t *testing.T) {
		dt := trainedColorClassifier(t)

		var buf bytes.Buffer
		require.NoError(t, model.SaveModelToWriter(dt, &buf))

		var restored DecisionTreeClassifier
		require.NoError(t, model.LoadModelFromReader(&restored, &buf))

		assert.True(t, restored.Trained())
		assert.Equal(t, dt.GetParams(), restored.GetParams())
		assert.Equal(t, dt.Tree(), restored.Tree())

		ds := colorDataset()
		want, err := dt.PredictSamples(ds)
		require.NoError(t, err)
		got, err := restored.PredictSamples(ds)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("regressor through a file", func(t *testing.T) {
		dt := newRegressor(t, WithMaxDepth(2), WithRandomState(5))
		require.NoError(t, dt.Fit(
			mat.NewDense(4, 1, []float64{1, 2, 3, 10}),
			mat.NewDense(4, 1, []float64{1, 2, 3, 10}),
		))
		path := filepath.Join(t.TempDir(), "tree.gob")
		require.NoError(t, model.SaveModel(dt, path))

		var restored DecisionTreeRegressor
		require.NoError(t, model.LoadModel(&restored, path))
		assert.Equal(t, dt.Height(), restored.Height())

		pred, err := restored.Predict(mat.NewDense(1, 1, []float64{10}))
		require.NoError(t, err)
		assert.Equal(t, 10.0, pred.At(0, 0))
	})

	t.Run("untrained", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, model.SaveModelToWriter(newClassifier(t, WithMaxDepth(4)), &buf))
		var restored DecisionTreeClassifier
		require.NoError(t, model.LoadModelFromReader(&restored, &buf))
		assert.False(t, restored.Trained())
		assert.Equal(t, 4, restored.GetParams()["max_depth"])
	})

	t.Run("type mismatch", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, model.SaveModelToWriter(trainedColorClassifier(t), &buf))
		var restored DecisionTreeRegressor
		assert.Error(t, model.LoadModelFromReader(&restored, &buf))
	})
}

func TestTreeJSON(t *testing.T) {
	dt := trainedColorClassifier(t)
	data, err := dt.ExportJSON()
	require.NoError(t, err)

	tree, err := ParseTreeJSON(data)
	require.NoError(t, err)
	assert.Equal(t, dt.Tree(), tree)

	v, err := tree.Predict([]dataset.Value{dataset.Cat("blue"), dataset.Num(1)})
	require.NoError(t, err)
	assert.Equal(t, dataset.Cat("cool"), v)

	_, err = ParseTreeJSON([]byte(`{"nodes":[{"left":5,"right":6}],"n_features":1,"types":[0],"decreases":[0]}`))
	assert.Error(t, err)
}
