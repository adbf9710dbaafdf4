package tree

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/YuminosukeSato/gocart/core/dataset"
	"github.com/YuminosukeSato/gocart/pkg/errors"
)

// Builder grows a single CART tree. It is immutable after construction and
// may be shared by concurrent Build calls.
type Builder struct {
	criterion           Criterion
	maxDepth            int
	minSamplesSplit     int
	minSamplesLeaf      int
	minImpurityDecrease float64
	maxFeatures         int
	featureNames        []string
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// MaxDepth bounds the depth of every node; the root is at depth 0.
func MaxDepth(d int) BuilderOption { return func(b *Builder) { b.maxDepth = d } }

// MinSamplesSplit is the smallest node that may be split.
func MinSamplesSplit(n int) BuilderOption { return func(b *Builder) { b.minSamplesSplit = n } }

// MinSamplesLeaf is the smallest allowed child of a split.
func MinSamplesLeaf(n int) BuilderOption { return func(b *Builder) { b.minSamplesLeaf = n } }

// MinImpurityDecrease is the smallest decrease a split must achieve.
func MinImpurityDecrease(v float64) BuilderOption {
	return func(b *Builder) { b.minImpurityDecrease = v }
}

// MaxFeatures is the number of features drawn at random for each node.
// 0 considers every feature.
func MaxFeatures(k int) BuilderOption { return func(b *Builder) { b.maxFeatures = k } }

// FeatureNames labels features in rules and exports.
func FeatureNames(names []string) BuilderOption {
	return func(b *Builder) { b.featureNames = names }
}

// NewBuilder returns a Builder for the given criterion. Gini and Entropy
// build classification trees; SquaredError builds regression trees.
func NewBuilder(criterion Criterion, opts ...BuilderOption) (*Builder, error) {
	b := &Builder{
		criterion:       criterion,
		maxDepth:        math.MaxInt32,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
	}
	for _, opt := range opts {
		opt(b)
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Builder) validate() error {
	if b.criterion != Gini && b.criterion != Entropy && b.criterion != SquaredError {
		return errors.NewValidationError("criterion", "must be one of gini, entropy, squared_error", string(b.criterion))
	}
	if b.maxDepth < 1 {
		return errors.NewValidationError("max_depth", "must be at least 1", b.maxDepth)
	}
	if b.minSamplesSplit < 2 {
		return errors.NewValidationError("min_samples_split", "must be at least 2", b.minSamplesSplit)
	}
	if b.minSamplesLeaf < 1 {
		return errors.NewValidationError("min_samples_leaf", "must be at least 1", b.minSamplesLeaf)
	}
	if b.minImpurityDecrease < 0 || math.IsNaN(b.minImpurityDecrease) || math.IsInf(b.minImpurityDecrease, 0) {
		return errors.NewValidationError("min_impurity_decrease", "must be a finite value >= 0", b.minImpurityDecrease)
	}
	if b.maxFeatures < 0 {
		return errors.NewValidationError("max_features", "must be >= 0", b.maxFeatures)
	}
	return nil
}

// Regression reports whether the builder grows regression trees.
func (b *Builder) Regression() bool { return b.criterion == SquaredError }

// build carries the per-call state of Build.
type build struct {
	*Builder
	ds       *dataset.Labeled
	task     task
	splitter *splitter
	rng      *rand.Rand
	nTotal   float64
}

// Build grows a tree from ds. rng drives feature sub-sampling and may be nil
// when MaxFeatures is 0.
func (b *Builder) Build(ds *dataset.Labeled, rng *rand.Rand) (tree *Tree, err error) {
	const op = "Builder.Build"
	defer errors.Recover(&err, op)

	if ds == nil || ds.NumSamples() == 0 {
		return nil, errors.Mark(errors.NewValueError(op, "training requires at least one sample"), errors.ErrEmptyData)
	}
	if ds.NumFeatures() == 0 {
		return nil, errors.NewValueError(op, "training requires at least one feature")
	}
	if b.Regression() && ds.LabelType() != dataset.Continuous {
		return nil, errors.NewValueError(op, "regression requires continuous labels, got "+ds.LabelType().String())
	}
	if b.maxFeatures > 0 && b.maxFeatures < ds.NumFeatures() && rng == nil {
		return nil, errors.NewValueError(op, "a random source is required when max_features is set")
	}

	var t task
	tree = &Tree{
		NumFeatures:  ds.NumFeatures(),
		Types:        append([]dataset.Kind(nil), ds.Types()...),
		FeatureNames: b.featureNames,
		Decreases:    make([]float64, ds.NumFeatures()),
	}
	if b.Regression() {
		t = newRegressionTask(ds)
	} else {
		ct := newClassificationTask(ds, b.criterion)
		tree.Classes = ct.classes
		t = ct
	}

	st := &build{
		Builder:  b,
		ds:       ds,
		task:     t,
		splitter: &splitter{ds: ds, task: t, minSamplesLeaf: b.minSamplesLeaf},
		rng:      rng,
		nTotal:   float64(ds.NumSamples()),
	}

	root := make([]int, ds.NumSamples())
	for i := range root {
		root[i] = i
	}
	st.buildNode(tree, root, 0)
	return tree, nil
}

// buildNode appends the node for idx (and, recursively, its subtree) to the
// arena and returns its index.
func (st *build) buildNode(tree *Tree, idx []int, depth int) int {
	id := len(tree.Nodes)
	impurity := st.task.impurity(idx)
	tree.Nodes = append(tree.Nodes, Node{Left: -1, Right: -1, Impurity: impurity, Samples: len(idx)})
	if depth > tree.Depth {
		tree.Depth = depth
	}

	if len(idx) < st.minSamplesSplit || depth >= st.maxDepth || impurity == 0 || st.task.pure(idx) {
		st.makeLeaf(tree, id, idx)
		return id
	}

	// a split that does not lower impurity is never kept
	best, ok := st.splitter.findBestSplit(idx, st.candidateFeatures(), impurity)
	if !ok || best.decrease <= 0 || best.decrease < st.minImpurityDecrease {
		st.makeLeaf(tree, id, idx)
		return id
	}

	tree.Decreases[best.split.Feature] += best.decrease * float64(len(idx)) / st.nTotal
	tree.Nodes[id].Split = best.split
	tree.Nodes[id].Decrease = best.decrease

	left := st.buildNode(tree, best.left, depth+1)
	right := st.buildNode(tree, best.right, depth+1)
	tree.Nodes[id].Left = left
	tree.Nodes[id].Right = right
	return id
}

func (st *build) makeLeaf(tree *Tree, id int, idx []int) {
	value, dist := st.task.leaf(idx)
	tree.Nodes[id].Value = value
	tree.Nodes[id].Distribution = dist
}

// candidateFeatures returns every feature, or maxFeatures distinct features
// drawn from rng, in ascending order.
func (st *build) candidateFeatures() []int {
	n := st.ds.NumFeatures()
	if st.maxFeatures == 0 || st.maxFeatures >= n {
		all := make([]int, n)
		for j := range all {
			all[j] = j
		}
		return all
	}
	features := st.rng.Perm(n)[:st.maxFeatures]
	sort.Ints(features)
	return features
}
