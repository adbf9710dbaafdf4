package tree

import (
	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/gocart/pkg/errors"
)

// FeatureImportances returns the normalized impurity decrease attributed to
// each feature. The values sum to 1 when the tree has at least one split with
// a positive decrease, and are all 0 otherwise.
func (t *Tree) FeatureImportances() ([]float64, error) {
	if !t.Trained() {
		return nil, errors.NewNotFittedError("Tree", "FeatureImportances")
	}
	importances := make([]float64, t.NumFeatures)
	total := floats.Sum(t.Decreases)
	if total <= 0 {
		return importances, nil
	}
	copy(importances, t.Decreases)
	floats.Scale(1/total, importances)
	return importances, nil
}
