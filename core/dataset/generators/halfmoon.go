package generators

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/YuminosukeSato/gocart/core/dataset"
	"github.com/YuminosukeSato/gocart/pkg/errors"
)

// HalfMoon draws 2-d points along a rotated half circle. Each point is
// labeled with its angle along the arc in degrees, so the generated dataset
// suits regression.
type HalfMoon struct {
	x, y     float64
	scale    float64
	rotation float64
	noise    float64
}

// NewHalfMoon returns a half circle centered at (x, y) with radius scale,
// rotated by rotation degrees, with Gaussian noise of the given stddev.
func NewHalfMoon(x, y, scale, rotation, noise float64) (*HalfMoon, error) {
	if scale < 0 {
		return nil, errors.NewValidationError("scale", "must not be negative", scale)
	}
	if rotation < 0 || rotation > 360 {
		return nil, errors.NewValidationError("rotation", "must be between 0 and 360", rotation)
	}
	if noise < 0 {
		return nil, errors.NewValidationError("noise", "must not be negative", noise)
	}
	return &HalfMoon{x: x, y: y, scale: scale, rotation: rotation, noise: noise}, nil
}

func (h *HalfMoon) Dimensions() int { return 2 }

func (h *HalfMoon) Samples(n int, rng *rand.Rand) [][]dataset.Value {
	samples, _ := h.draw(n, rng)
	return samples
}

// Generate returns n points labeled with their angle in degrees.
func (h *HalfMoon) Generate(n int, rng *rand.Rand) *dataset.Labeled {
	samples, angles := h.draw(n, rng)
	return dataset.MustLabeled(samples, angles)
}

func (h *HalfMoon) draw(n int, rng *rand.Rand) ([][]dataset.Value, []dataset.Value) {
	angle := distuv.Uniform{Min: 0, Max: 180, Src: rng}
	noise := distuv.Normal{Mu: 0, Sigma: h.noise, Src: rng}
	rot := h.rotation * math.Pi / 180

	samples := make([][]dataset.Value, n)
	labels := make([]dataset.Value, n)
	for i := range samples {
		deg := angle.Rand()
		r := deg*math.Pi/180 + rot
		px, py := math.Cos(r), math.Sin(r)
		if h.noise > 0 {
			px += noise.Rand()
			py += noise.Rand()
		}
		samples[i] = []dataset.Value{
			dataset.Num(px*h.scale + h.x),
			dataset.Num(py*h.scale + h.y),
		}
		labels[i] = dataset.Num(deg)
	}
	return samples, labels
}
