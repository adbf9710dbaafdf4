package dataset

import (
	"fmt"
	"math/rand/v2"

	"github.com/YuminosukeSato/gocart/pkg/errors"
)

// Dataset is the read-only view every learner consumes.
type Dataset interface {
	// NumSamples returns the number of rows.
	NumSamples() int
	// NumFeatures returns the number of columns.
	NumFeatures() int
	// ColumnType returns the kind of column j.
	ColumnType(j int) Kind
	// Sample returns row i. Callers must not modify it.
	Sample(i int) []Value
}

// Unlabeled is a dataset of samples without targets.
type Unlabeled struct {
	samples [][]Value
	types   []Kind
}

// NewUnlabeled validates samples and returns a dataset over them. Every
// sample must have the same arity and the same kind per column.
func NewUnlabeled(samples [][]Value) (*Unlabeled, error) {
	types, err := inferTypes("dataset.NewUnlabeled", samples)
	if err != nil {
		return nil, err
	}
	return &Unlabeled{samples: samples, types: types}, nil
}

// MustUnlabeled is like NewUnlabeled but panics on invalid input. Intended for
// fixtures and generators whose output is valid by construction.
func MustUnlabeled(samples [][]Value) *Unlabeled {
	ds, err := NewUnlabeled(samples)
	if err != nil {
		panic(err)
	}
	return ds
}

func inferTypes(op string, samples [][]Value) ([]Kind, error) {
	if len(samples) == 0 {
		return nil, nil
	}
	types := make([]Kind, len(samples[0]))
	for j, v := range samples[0] {
		types[j] = v.Kind
	}
	for i, s := range samples[1:] {
		if len(s) != len(types) {
			return nil, errors.Wrapf(errors.NewDimensionError(op, len(types), len(s), 1), "sample %d", i+1)
		}
		for j, v := range s {
			if v.Kind != types[j] {
				return nil, errors.NewValueError(op,
					fmt.Sprintf("sample %d column %d is %s, expected %s", i+1, j, v.Kind, types[j]))
			}
		}
	}
	for i, s := range samples {
		for j, v := range s {
			if !v.finite() {
				return nil, errors.NewValueError(op,
					fmt.Sprintf("sample %d column %d is %v, continuous values must be finite", i, j, v.Number))
			}
		}
	}
	return types, nil
}

func (d *Unlabeled) NumSamples() int { return len(d.samples) }

func (d *Unlabeled) NumFeatures() int { return len(d.types) }

func (d *Unlabeled) ColumnType(j int) Kind { return d.types[j] }

func (d *Unlabeled) Sample(i int) []Value { return d.samples[i] }

// Samples returns all rows.
func (d *Unlabeled) Samples() [][]Value { return d.samples }

// Types returns the column kinds.
func (d *Unlabeled) Types() []Kind { return d.types }

// Column returns the values of column j in row order.
func (d *Unlabeled) Column(j int) []Value {
	col := make([]Value, len(d.samples))
	for i, s := range d.samples {
		col[i] = s[j]
	}
	return col
}

// Empty reports whether the dataset has no samples.
func (d *Unlabeled) Empty() bool { return len(d.samples) == 0 }

// Subset returns a new dataset with the rows at idx, in that order.
func (d *Unlabeled) Subset(idx []int) *Unlabeled {
	samples := make([][]Value, len(idx))
	for k, i := range idx {
		samples[k] = d.samples[i]
	}
	return &Unlabeled{samples: samples, types: d.types}
}

// Randomize returns a shuffled copy.
func (d *Unlabeled) Randomize(rng *rand.Rand) *Unlabeled {
	return d.Subset(rng.Perm(len(d.samples)))
}

// Split returns the first ratio of rows and the remainder.
func (d *Unlabeled) Split(ratio float64) (*Unlabeled, *Unlabeled) {
	left, right := splitIndices(len(d.samples), ratio)
	return d.Subset(left), d.Subset(right)
}

// Fold partitions the rows into k contiguous folds.
func (d *Unlabeled) Fold(k int) []*Unlabeled {
	parts := foldIndices(len(d.samples), k)
	folds := make([]*Unlabeled, len(parts))
	for i, p := range parts {
		folds[i] = d.Subset(p)
	}
	return folds
}

// Merge appends the rows of o. Both datasets must share column kinds.
func (d *Unlabeled) Merge(o *Unlabeled) (*Unlabeled, error) {
	if err := sameTypes("Unlabeled.Merge", d.types, o.types, d.Empty(), o.Empty()); err != nil {
		return nil, err
	}
	samples := make([][]Value, 0, len(d.samples)+len(o.samples))
	samples = append(samples, d.samples...)
	samples = append(samples, o.samples...)
	types := d.types
	if d.Empty() {
		types = o.types
	}
	return &Unlabeled{samples: samples, types: types}, nil
}

func sameTypes(op string, a, b []Kind, aEmpty, bEmpty bool) error {
	if aEmpty || bEmpty {
		return nil
	}
	if len(a) != len(b) {
		return errors.NewDimensionError(op, len(a), len(b), 1)
	}
	for j := range a {
		if a[j] != b[j] {
			return errors.NewValueError(op, fmt.Sprintf("column %d is %s in one dataset and %s in the other", j, a[j], b[j]))
		}
	}
	return nil
}

func splitIndices(n int, ratio float64) ([]int, []int) {
	cut := int(float64(n) * ratio)
	if cut < 0 {
		cut = 0
	}
	if cut > n {
		cut = n
	}
	left := make([]int, cut)
	for i := range left {
		left[i] = i
	}
	right := make([]int, n-cut)
	for i := range right {
		right[i] = cut + i
	}
	return left, right
}

// foldIndices distributes n rows over k folds; the first n%k folds get one extra row.
func foldIndices(n, k int) [][]int {
	if k < 1 {
		k = 1
	}
	folds := make([][]int, k)
	base, extra := n/k, n%k
	start := 0
	for f := 0; f < k; f++ {
		size := base
		if f < extra {
			size++
		}
		idx := make([]int, size)
		for i := range idx {
			idx[i] = start + i
		}
		folds[f] = idx
		start += size
	}
	return folds
}
