package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/gocart/core/dataset"
	"github.com/YuminosukeSato/gocart/core/model"
	"github.com/YuminosukeSato/gocart/pkg/errors"
)

func cats(tokens ...string) []dataset.Value {
	out := make([]dataset.Value, len(tokens))
	for i, t := range tokens {
		out[i] = dataset.Cat(t)
	}
	return out
}

func nums(values ...float64) []dataset.Value {
	out := make([]dataset.Value, len(values))
	for i, v := range values {
		out[i] = dataset.Num(v)
	}
	return out
}

func TestValidationMetrics(t *testing.T) {
	tests := []struct {
		name        string
		metric      Metric
		predictions []dataset.Value
		labels      []dataset.Value
		want        float64
	}{
		{"accuracy perfect", AccuracyMetric{}, cats("a", "b", "a"), cats("a", "b", "a"), 1},
		{"accuracy half", AccuracyMetric{}, cats("a", "a", "b", "b"), cats("a", "b", "a", "b"), 0.5},
		{"f1 macro", F1Metric{}, cats("a", "a", "b", "b"), cats("a", "b", "b", "b"), (2.0/3.0 + 0.8) / 2},
		{"f1 perfect", F1Metric{}, cats("x", "y"), cats("x", "y"), 1},
		{"r2 perfect", RSquaredMetric{}, nums(1, 2, 3), nums(1, 2, 3), 1},
		{"r2 reversed", RSquaredMetric{}, nums(4, 3, 2, 1), nums(1, 2, 3, 4), -3},
		{"neg mse", NegMeanSquaredErrorMetric{}, nums(1.5, 2.5), nums(1, 2), -0.25},
		{"v-measure relabelled clusters", VMeasureMetric{}, nums(1, 1, 0, 0), cats("a", "a", "b", "b"), 1},
		{"v-measure single cluster", VMeasureMetric{}, nums(0, 0, 0, 0), cats("a", "a", "b", "b"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.metric.Score(tt.predictions, tt.labels)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)

			lo, hi := tt.metric.Range()
			assert.GreaterOrEqual(t, got, lo)
			assert.LessOrEqual(t, got, hi)
		})
	}
}

func TestValidationMetricErrors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := AccuracyMetric{}.Score(nil, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrEmptyData))
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := F1Metric{}.Score(cats("a"), cats("a", "b"))
		var dimErr *errors.DimensionError
		assert.True(t, errors.As(err, &dimErr))
	})

	t.Run("categorical regression labels", func(t *testing.T) {
		_, err := RSquaredMetric{}.Score(cats("a", "b"), cats("a", "b"))
		var valErr *errors.ValueError
		assert.True(t, errors.As(err, &valErr))
	})
}

func TestMetricCompatibility(t *testing.T) {
	assert.True(t, Supports(AccuracyMetric{}, model.Classifier))
	assert.False(t, Supports(AccuracyMetric{}, model.Regressor))
	assert.True(t, Supports(RSquaredMetric{}, model.Regressor))
	assert.True(t, Supports(VMeasureMetric{}, model.Clusterer))

	lo, hi := NegMeanSquaredErrorMetric{}.Range()
	assert.True(t, math.IsInf(lo, -1))
	assert.Equal(t, 0.0, hi)
}

func TestByName(t *testing.T) {
	m, err := ByName("f1")
	require.NoError(t, err)
	assert.Equal(t, "f1", m.Name())

	_, err = ByName("auc")
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))
}
