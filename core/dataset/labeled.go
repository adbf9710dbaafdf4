package dataset

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gocart/pkg/errors"
)

// Labeled is a dataset whose samples each carry one target value.
// All labels share one kind.
type Labeled struct {
	Unlabeled
	labels    []Value
	labelType Kind
}

// NewLabeled validates samples and labels and returns a dataset over them.
func NewLabeled(samples [][]Value, labels []Value) (*Labeled, error) {
	const op = "dataset.NewLabeled"
	if len(samples) != len(labels) {
		return nil, errors.NewDimensionError(op, len(samples), len(labels), 0)
	}
	types, err := inferTypes(op, samples)
	if err != nil {
		return nil, err
	}
	var labelType Kind
	if len(labels) > 0 {
		labelType = labels[0].Kind
		for i, l := range labels {
			if l.Kind != labelType {
				return nil, errors.NewValueError(op,
					fmt.Sprintf("label %d is %s, expected %s", i, l.Kind, labelType))
			}
			if !l.finite() {
				return nil, errors.NewValueError(op,
					fmt.Sprintf("label %d is %v, continuous values must be finite", i, l.Number))
			}
		}
	}
	return &Labeled{
		Unlabeled: Unlabeled{samples: samples, types: types},
		labels:    labels,
		labelType: labelType,
	}, nil
}

// MustLabeled is like NewLabeled but panics on invalid input.
func MustLabeled(samples [][]Value, labels []Value) *Labeled {
	ds, err := NewLabeled(samples, labels)
	if err != nil {
		panic(err)
	}
	return ds
}

// FromMatrix builds a dataset of continuous features from X and continuous
// labels from y, which must be a single column or row with one entry per row of X.
func FromMatrix(X, y mat.Matrix) (*Labeled, error) {
	const op = "dataset.FromMatrix"
	samples, err := matrixSamples(op, X)
	if err != nil {
		return nil, err
	}
	labels, err := vectorValues(op, y)
	if err != nil {
		return nil, err
	}
	return NewLabeled(samples, labels)
}

// UnlabeledFromMatrix builds a dataset of continuous features from X.
func UnlabeledFromMatrix(X mat.Matrix) (*Unlabeled, error) {
	samples, err := matrixSamples("dataset.UnlabeledFromMatrix", X)
	if err != nil {
		return nil, err
	}
	return NewUnlabeled(samples)
}

func matrixSamples(op string, X mat.Matrix) ([][]Value, error) {
	if X == nil {
		return nil, errors.Wrap(errors.ErrEmptyData, op)
	}
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, op)
	}
	samples := make([][]Value, r)
	for i := 0; i < r; i++ {
		row := make([]Value, c)
		for j := 0; j < c; j++ {
			row[j] = Num(X.At(i, j))
		}
		samples[i] = row
	}
	return samples, nil
}

func vectorValues(op string, y mat.Matrix) ([]Value, error) {
	if y == nil {
		return nil, errors.Wrap(errors.ErrEmptyData, op)
	}
	r, c := y.Dims()
	var n int
	var at func(i int) float64
	switch {
	case c == 1:
		n, at = r, func(i int) float64 { return y.At(i, 0) }
	case r == 1:
		n, at = c, func(i int) float64 { return y.At(0, i) }
	default:
		return nil, errors.NewDimensionError(op, 1, c, 1)
	}
	labels := make([]Value, n)
	for i := range labels {
		labels[i] = Num(at(i))
	}
	return labels, nil
}

// Labels returns the targets in row order.
func (d *Labeled) Labels() []Value { return d.labels }

// Label returns the target of row i.
func (d *Labeled) Label(i int) Value { return d.labels[i] }

// LabelType returns the kind shared by all labels.
func (d *Labeled) LabelType() Kind { return d.labelType }

// Features returns the samples without targets.
func (d *Labeled) Features() *Unlabeled { return &d.Unlabeled }

// Subset returns a new dataset with the rows at idx, in that order.
func (d *Labeled) Subset(idx []int) *Labeled {
	labels := make([]Value, len(idx))
	for k, i := range idx {
		labels[k] = d.labels[i]
	}
	return &Labeled{
		Unlabeled: *d.Unlabeled.Subset(idx),
		labels:    labels,
		labelType: d.labelType,
	}
}

// Randomize returns a shuffled copy.
func (d *Labeled) Randomize(rng *rand.Rand) *Labeled {
	return d.Subset(rng.Perm(len(d.samples)))
}

// Split returns the first ratio of rows and the remainder.
func (d *Labeled) Split(ratio float64) (*Labeled, *Labeled) {
	left, right := splitIndices(len(d.samples), ratio)
	return d.Subset(left), d.Subset(right)
}

// Fold partitions the rows into k contiguous folds.
func (d *Labeled) Fold(k int) []*Labeled {
	parts := foldIndices(len(d.samples), k)
	folds := make([]*Labeled, len(parts))
	for i, p := range parts {
		folds[i] = d.Subset(p)
	}
	return folds
}

// Stratum is the subset of a dataset sharing one label.
type Stratum struct {
	Label Value
	Data  *Labeled
}

// Stratify groups rows by label. Strata are ordered by label.
func (d *Labeled) Stratify() []Stratum {
	groups := make(map[string][]int)
	first := make(map[string]Value)
	for i, l := range d.labels {
		k := l.Key()
		if _, ok := first[k]; !ok {
			first[k] = l
		}
		groups[k] = append(groups[k], i)
	}
	strata := make([]Stratum, 0, len(groups))
	for k, idx := range groups {
		strata = append(strata, Stratum{Label: first[k], Data: d.Subset(idx)})
	}
	sort.Slice(strata, func(a, b int) bool { return strata[a].Label.Less(strata[b].Label) })
	return strata
}

// StratifiedSplit splits every stratum by ratio so both sides keep the label
// proportions of d.
func (d *Labeled) StratifiedSplit(ratio float64) (*Labeled, *Labeled) {
	var leftIdx, rightIdx []int
	for _, idx := range d.strataIndices() {
		l, r := splitIndices(len(idx), ratio)
		for _, i := range l {
			leftIdx = append(leftIdx, idx[i])
		}
		for _, i := range r {
			rightIdx = append(rightIdx, idx[i])
		}
	}
	return d.Subset(leftIdx), d.Subset(rightIdx)
}

// StratifiedFold partitions d into k folds, each holding roughly the label
// proportions of d.
func (d *Labeled) StratifiedFold(k int) []*Labeled {
	foldIdx := make([][]int, k)
	for _, idx := range d.strataIndices() {
		for f, part := range foldIndices(len(idx), k) {
			for _, i := range part {
				foldIdx[f] = append(foldIdx[f], idx[i])
			}
		}
	}
	folds := make([]*Labeled, k)
	for f := range folds {
		folds[f] = d.Subset(foldIdx[f])
	}
	return folds
}

func (d *Labeled) strataIndices() [][]int {
	outcomes := d.PossibleOutcomes()
	pos := make(map[string]int, len(outcomes))
	for i, o := range outcomes {
		pos[o.Key()] = i
	}
	groups := make([][]int, len(outcomes))
	for i, l := range d.labels {
		g := pos[l.Key()]
		groups[g] = append(groups[g], i)
	}
	return groups
}

// Merge appends the rows of o. Both datasets must share column and label kinds.
func (d *Labeled) Merge(o *Labeled) (*Labeled, error) {
	const op = "Labeled.Merge"
	features, err := d.Unlabeled.Merge(&o.Unlabeled)
	if err != nil {
		return nil, err
	}
	if !d.Empty() && !o.Empty() && d.labelType != o.labelType {
		return nil, errors.NewValueError(op, fmt.Sprintf("label kinds differ: %s and %s", d.labelType, o.labelType))
	}
	labels := make([]Value, 0, len(d.labels)+len(o.labels))
	labels = append(labels, d.labels...)
	labels = append(labels, o.labels...)
	labelType := d.labelType
	if d.Empty() {
		labelType = o.labelType
	}
	return &Labeled{Unlabeled: *features, labels: labels, labelType: labelType}, nil
}

// PossibleOutcomes returns the distinct labels in natural order.
func (d *Labeled) PossibleOutcomes() []Value {
	seen := make(map[string]bool)
	var out []Value
	for _, l := range d.labels {
		if k := l.Key(); !seen[k] {
			seen[k] = true
			out = append(out, l)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Less(out[b]) })
	return out
}
