package tree

import (
	"strconv"

	"github.com/YuminosukeSato/gocart/core/dataset"
	"github.com/YuminosukeSato/gocart/pkg/errors"
)

// Tree is a trained CART tree. Nodes[0] is the root. An empty arena means
// the tree has not been trained. Fields are exported for persistence.
type Tree struct {
	Nodes        []Node          `json:"nodes"`
	NumFeatures  int             `json:"n_features"`
	Types        []dataset.Kind  `json:"types"`
	Classes      []dataset.Value `json:"classes,omitempty"`
	FeatureNames []string        `json:"feature_names,omitempty"`
	// Decreases accumulates, per feature, the impurity decrease of every split
	// on that feature weighted by the fraction of samples reaching the split.
	Decreases []float64 `json:"decreases"`
	Depth     int       `json:"depth"`
}

// Trained reports whether the tree holds at least one node.
func (t *Tree) Trained() bool {
	return t != nil && len(t.Nodes) > 0
}

// Height returns the number of edges on the longest root-to-leaf path.
// It is 0 for an untrained tree and for a single leaf.
func (t *Tree) Height() int {
	if !t.Trained() {
		return 0
	}
	return t.Depth
}

// NumLeaves returns the number of leaves.
func (t *Tree) NumLeaves() int {
	if !t.Trained() {
		return 0
	}
	n := 0
	for i := range t.Nodes {
		if t.Nodes[i].IsLeaf() {
			n++
		}
	}
	return n
}

// Classification reports whether leaves hold class indices.
func (t *Tree) Classification() bool {
	return t.Classes != nil
}

// search walks from the root to the leaf that sample falls in.
func (t *Tree) search(op string, sample []dataset.Value) (*Node, error) {
	if !t.Trained() {
		return nil, errors.NewNotFittedError("Tree", op)
	}
	if err := dataset.CheckSampleCompatibility("Tree."+op, t.Types, sample); err != nil {
		return nil, err
	}
	node := &t.Nodes[0]
	for !node.IsLeaf() {
		if node.Split.GoesLeft(sample[node.Split.Feature]) {
			node = &t.Nodes[node.Left]
		} else {
			node = &t.Nodes[node.Right]
		}
	}
	return node, nil
}

// Predict returns the outcome of the leaf sample falls in: a class label for
// classification trees and the leaf mean for regression trees.
func (t *Tree) Predict(sample []dataset.Value) (dataset.Value, error) {
	leaf, err := t.search("Predict", sample)
	if err != nil {
		return dataset.Value{}, err
	}
	if t.Classification() {
		return t.Classes[int(leaf.Value)], nil
	}
	return dataset.Num(leaf.Value), nil
}

// Proba returns the class distribution of the leaf sample falls in, indexed
// like Classes.
func (t *Tree) Proba(sample []dataset.Value) ([]float64, error) {
	leaf, err := t.search("Proba", sample)
	if err != nil {
		return nil, err
	}
	if !t.Classification() {
		return nil, errors.NewModelError("Tree.Proba", "regression trees have no class distribution", nil)
	}
	return leaf.Distribution, nil
}

// featureName returns the configured name of feature j or "feature_j".
func (t *Tree) featureName(j int) string {
	if j < len(t.FeatureNames) && t.FeatureNames[j] != "" {
		return t.FeatureNames[j]
	}
	return "feature_" + strconv.Itoa(j)
}
