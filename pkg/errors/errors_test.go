package errors

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		kind    string
		err     error
		wantMsg string
	}{
		{
			name:    "with original error",
			op:      "Train",
			kind:    "invalid input",
			err:     fmt.Errorf("test error"),
			wantMsg: "gocart: Train: invalid input: test error",
		},
		{
			name:    "without original error",
			op:      "PredictSamples",
			kind:    "not trained",
			err:     nil,
			wantMsg: "gocart: PredictSamples: not trained",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)
			assert.Equal(t, tt.wantMsg, err.Error())

			// スタックトレースにテストファイル名が含まれること
			formatted := fmt.Sprintf("%+v", err)
			assert.Contains(t, formatted, "errors_test.go")

			var modelErr *ModelError
			require.True(t, As(err, &modelErr))
			assert.Equal(t, tt.op, modelErr.Op)
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Predict", 4, 3, 1)
	assert.Equal(t, "gocart: Predict: dimension mismatch on axis 1 (features). Expected 4, got 3", err.Error())

	var dimErr *DimensionError
	require.True(t, As(err, &dimErr))
	assert.Equal(t, 4, dimErr.Expected)
	assert.Equal(t, 3, dimErr.Got)
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("DecisionTreeClassifier", "Predict")
	want := "gocart: DecisionTreeClassifier: this model is not fitted yet. Call Train() before using Predict()"
	assert.Equal(t, want, err.Error())

	var notFittedErr *NotFittedError
	require.True(t, As(err, &notFittedErr))
	assert.Equal(t, "Predict", notFittedErr.Method)
}

func TestNewValueError(t *testing.T) {
	err := NewValueError("SetParams", "max_depth: 0 (must be at least 1)")
	assert.Equal(t, "gocart: SetParams: max_depth: 0 (must be at least 1)", err.Error())

	var valErr *ValueError
	assert.True(t, As(err, &valErr))
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("min_samples_leaf", "must be at least 1", 0)
	assert.Equal(t, "gocart: validation failed for parameter 'min_samples_leaf': must be at least 1 (got: 0)", err.Error())

	var vErr *ValidationError
	require.True(t, As(err, &vErr))
	assert.Equal(t, 0, vErr.Value)
}

func TestNewIncompatibleDataError(t *testing.T) {
	err := NewIncompatibleDataError("GaussianMixture.Train", 2, "categorical", []string{"continuous"})
	assert.Equal(t, "gocart: GaussianMixture.Train: column 2 is categorical but only [continuous] data is supported", err.Error())

	wrapped := Wrap(err, "cross validation round 1")
	var incErr *IncompatibleDataError
	require.True(t, As(wrapped, &incErr))
	assert.Equal(t, 2, incErr.Column)
	assert.Equal(t, []string{"continuous"}, incErr.Supported)
}

func TestWarnings(t *testing.T) {
	tests := []struct {
		name string
		warn error
		want string
	}{
		{
			name: "convergence",
			warn: NewConvergenceWarning("GaussianMixture", 100, "log-likelihood still improving"),
			want: "GaussianMixture failed to converge after 100 iterations: log-likelihood still improving",
		},
		{
			name: "convergence default message",
			warn: NewConvergenceWarning("GaussianMixture", 5, ""),
			want: "GaussianMixture failed to converge after 5 iterations. Consider increasing max_iter or tol.",
		},
		{
			name: "data conversion",
			warn: NewDataConversionWarning("string", "continuous", "numeric literal in quotes"),
			want: "data converted from string to continuous. Reason: numeric literal in quotes",
		},
		{
			name: "undefined metric",
			warn: NewUndefinedMetricWarning("r_squared", "constant targets", 0),
			want: "'r_squared' is ill-defined and being set to 0.000000 due to constant targets.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.warn.Error())
		})
	}
}

func TestWarnRouting(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(func(w error) {})

	Warn(NewDataConversionWarning("string", "continuous", "test"))
	require.Len(t, got, 1)

	// zerolog関数が設定されている場合はそちらが優先される
	var routed int
	SetZerologWarnFunc(func(w error) { routed++ })
	Warn(NewConvergenceWarning("EM", 1, ""))
	SetZerologWarnFunc(nil)

	assert.Equal(t, 1, routed)
	assert.Len(t, got, 1)
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrap(ErrUnlabeledData, "in DecisionTreeClassifier.Train")
	assert.True(t, Is(wrapped, ErrUnlabeledData))
	assert.False(t, Is(wrapped, ErrEmptyData))
	assert.Contains(t, wrapped.Error(), "in DecisionTreeClassifier.Train")
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s: expected %d samples, got %d", "Train", 10, 0)
	assert.True(t, Is(wrapped, ErrEmptyData))
	assert.True(t, strings.Contains(wrapped.Error(), "in Train: expected 10 samples, got 0"))
}

func TestErrorChaining(t *testing.T) {
	base := New("column out of range")
	modelErr := NewModelError("Rules", "render failed", base)
	outer := Wrap(modelErr, "inspect")

	assert.True(t, Is(outer, base))

	var me *ModelError
	require.True(t, As(outer, &me))
	assert.Equal(t, "Rules", me.Op)
}

func TestNumericalHelpers(t *testing.T) {
	assert.NoError(t, CheckNumericalStability("variance", []float64{1, 2, 3}, 0))

	err := CheckScalar("log_likelihood", math.NaN(), 7)
	var numErr *NumericalInstabilityError
	require.True(t, As(err, &numErr))
	assert.Equal(t, 7, numErr.Iteration)

	assert.Equal(t, 0.0, SafeDivide(1, 0))
	assert.Equal(t, 2.0, SafeDivide(4, 2))
	assert.InDelta(t, 1.0+0.3132616875182228, LogSumExp([]float64{0, 1}), 1e-12)
}

func TestMark(t *testing.T) {
	err := Mark(NewValueError("Builder.Build", "training requires at least one sample"), ErrEmptyData)

	assert.True(t, Is(err, ErrEmptyData))
	var valErr *ValueError
	require.True(t, As(err, &valErr))
	assert.Equal(t, "gocart: Builder.Build: training requires at least one sample", err.Error())
}
