package generators

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/gocart/core/dataset"
	"github.com/YuminosukeSato/gocart/pkg/errors"
)

// Blob draws points from an axis-aligned Gaussian around a center.
type Blob struct {
	center []float64
	stddev []float64
}

// NewBlob returns a Blob around center. stddev is either a single value
// applied to every dimension or one value per dimension.
func NewBlob(center []float64, stddev ...float64) (*Blob, error) {
	if len(center) == 0 {
		return nil, errors.NewValidationError("center", "must have at least one dimension", center)
	}
	switch len(stddev) {
	case 0:
		stddev = []float64{1}
		fallthrough
	case 1:
		s := make([]float64, len(center))
		for i := range s {
			s[i] = stddev[0]
		}
		stddev = s
	case len(center):
	default:
		return nil, errors.NewDimensionError("generators.NewBlob", len(center), len(stddev), 1)
	}
	for _, s := range stddev {
		if s < 0 {
			return nil, errors.NewValidationError("stddev", "must not be negative", s)
		}
	}
	return &Blob{center: center, stddev: stddev}, nil
}

func (b *Blob) Dimensions() int { return len(b.center) }

func (b *Blob) Samples(n int, rng *rand.Rand) [][]dataset.Value {
	dists := make([]distuv.Normal, len(b.center))
	for j := range dists {
		dists[j] = distuv.Normal{Mu: b.center[j], Sigma: b.stddev[j], Src: rng}
	}
	samples := make([][]dataset.Value, n)
	for i := range samples {
		row := make([]dataset.Value, len(dists))
		for j, d := range dists {
			if d.Sigma == 0 {
				row[j] = dataset.Num(d.Mu)
				continue
			}
			row[j] = dataset.Num(d.Rand())
		}
		samples[i] = row
	}
	return samples
}

// Generate returns n unlabeled points.
func (b *Blob) Generate(n int, rng *rand.Rand) *dataset.Unlabeled {
	return dataset.MustUnlabeled(b.Samples(n, rng))
}
