package dataset

import (
	"github.com/YuminosukeSato/gocart/pkg/errors"
)

// CheckCompatibility returns an IncompatibleDataError for the first column of
// ds whose kind is not in supported.
func CheckCompatibility(supported []Kind, ds Dataset) error {
	for j := 0; j < ds.NumFeatures(); j++ {
		kind := ds.ColumnType(j)
		if !containsKind(supported, kind) {
			return errors.NewIncompatibleDataError("dataset.CheckCompatibility", j, kind.String(), KindNames(supported))
		}
	}
	return nil
}

// CheckSampleCompatibility checks a single sample against the column kinds a
// model was trained on.
func CheckSampleCompatibility(op string, types []Kind, sample []Value) error {
	if len(sample) != len(types) {
		return errors.NewDimensionError(op, len(types), len(sample), 1)
	}
	for j, v := range sample {
		if v.Kind != types[j] {
			return errors.NewIncompatibleDataError(op, j, v.Kind.String(), []string{types[j].String()})
		}
	}
	return nil
}

func containsKind(kinds []Kind, k Kind) bool {
	for _, c := range kinds {
		if c == k {
			return true
		}
	}
	return false
}
