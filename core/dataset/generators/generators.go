// Package generators produces synthetic datasets for examples and tests.
package generators

import (
	"math/rand/v2"

	"github.com/YuminosukeSato/gocart/core/dataset"
)

// Generator produces n synthetic feature rows.
type Generator interface {
	// Dimensions returns the number of features per row.
	Dimensions() int
	// Samples returns n rows drawn with rng.
	Samples(n int, rng *rand.Rand) [][]dataset.Value
}
