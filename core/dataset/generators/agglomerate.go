package generators

import (
	"math/rand/v2"

	"github.com/YuminosukeSato/gocart/core/dataset"
	"github.com/YuminosukeSato/gocart/pkg/errors"
)

// Agglomerate combines several generators into one classification dataset
// labeled with the name of the generator each row came from.
type Agglomerate struct {
	names      []string
	generators []Generator
	weights    []float64
}

// NewAgglomerate combines generators under names. Weights set the proportion
// of rows drawn from each generator; nil weights mean equal shares.
func NewAgglomerate(names []string, gens []Generator, weights []float64) (*Agglomerate, error) {
	const op = "generators.NewAgglomerate"
	if len(gens) == 0 {
		return nil, errors.NewValidationError("generators", "at least one generator is required", len(gens))
	}
	if len(names) != len(gens) {
		return nil, errors.NewDimensionError(op, len(gens), len(names), 0)
	}
	dims := gens[0].Dimensions()
	for _, g := range gens[1:] {
		if g.Dimensions() != dims {
			return nil, errors.NewDimensionError(op, dims, g.Dimensions(), 1)
		}
	}
	if weights == nil {
		weights = make([]float64, len(gens))
		for i := range weights {
			weights[i] = 1
		}
	}
	if len(weights) != len(gens) {
		return nil, errors.NewDimensionError(op, len(gens), len(weights), 0)
	}
	total := 0.0
	for _, w := range weights {
		if w <= 0 {
			return nil, errors.NewValidationError("weights", "must be positive", w)
		}
		total += w
	}
	normalized := make([]float64, len(weights))
	for i, w := range weights {
		normalized[i] = w / total
	}
	return &Agglomerate{names: names, generators: gens, weights: normalized}, nil
}

func (a *Agglomerate) Dimensions() int { return a.generators[0].Dimensions() }

func (a *Agglomerate) Samples(n int, rng *rand.Rand) [][]dataset.Value {
	samples, _ := a.draw(n, rng)
	return samples
}

// Generate returns n rows labeled with their generator name. Rows are grouped
// by generator; randomize the result before splitting.
func (a *Agglomerate) Generate(n int, rng *rand.Rand) *dataset.Labeled {
	samples, labels := a.draw(n, rng)
	return dataset.MustLabeled(samples, labels)
}

func (a *Agglomerate) draw(n int, rng *rand.Rand) ([][]dataset.Value, []dataset.Value) {
	counts := make([]int, len(a.generators))
	assigned := 0
	for i, w := range a.weights {
		counts[i] = int(w * float64(n))
		assigned += counts[i]
	}
	// Rounding leftovers go to the first generators.
	for i := 0; assigned < n; i = (i + 1) % len(counts) {
		counts[i]++
		assigned++
	}

	samples := make([][]dataset.Value, 0, n)
	labels := make([]dataset.Value, 0, n)
	for i, g := range a.generators {
		samples = append(samples, g.Samples(counts[i], rng)...)
		for k := 0; k < counts[i]; k++ {
			labels = append(labels, dataset.Cat(a.names[i]))
		}
	}
	return samples, labels
}
