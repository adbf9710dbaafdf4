package tree

import (
	"bytes"
	"encoding/gob"

	json "github.com/goccy/go-json"

	"github.com/YuminosukeSato/gocart/core/model"
	"github.com/YuminosukeSato/gocart/pkg/errors"
)

// snapshot is the serialized form of a decision tree estimator.
type snapshot struct {
	Criterion           string
	MaxDepth            int
	MinSamplesSplit     int
	MinSamplesLeaf      int
	MinImpurityDecrease float64
	MaxFeatures         int
	RandomState         int64
	FeatureNames        []string

	State model.ModelState
	Tree  *Tree
}

func (d *decisionTree) snapshot() snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return snapshot{
		Criterion:           string(d.criterion),
		MaxDepth:            d.maxDepth,
		MinSamplesSplit:     d.minSamplesSplit,
		MinSamplesLeaf:      d.minSamplesLeaf,
		MinImpurityDecrease: d.minImpurityDecrease,
		MaxFeatures:         d.maxFeatures,
		RandomState:         d.randomState,
		FeatureNames:        d.featureNames,
		State:               d.state.GetState(),
		Tree:                d.tree_,
	}
}

func (d *decisionTree) encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(d.snapshot()); err != nil {
		return nil, errors.Wrapf(err, "%s.GobEncode", d.name)
	}
	return buf.Bytes(), nil
}

// decodeDecisionTree rebuilds an estimator from encode's output.
func decodeDecisionTree(name string, regression bool, data []byte) (*decisionTree, error) {
	op := name + ".GobDecode"
	var s snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return nil, errors.Wrap(err, op)
	}
	d, err := newDecisionTree(name, regression, Criterion(s.Criterion), []Option{
		WithMaxDepth(s.MaxDepth),
		WithMinSamplesSplit(s.MinSamplesSplit),
		WithMinSamplesLeaf(s.MinSamplesLeaf),
		WithMinImpurityDecrease(s.MinImpurityDecrease),
		WithMaxFeatures(s.MaxFeatures),
		WithRandomState(s.RandomState),
		WithFeatureNames(s.FeatureNames...),
	})
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	if s.Tree.Trained() {
		if err := s.Tree.validate(); err != nil {
			return nil, errors.Wrap(err, op)
		}
		if s.Tree.Classification() == regression {
			return nil, errors.NewModelError(op, "stored tree does not match the estimator type", nil)
		}
		d.tree_ = s.Tree
		d.state.SetState(s.State)
	}
	return d, nil
}

// GobEncode implements gob.GobEncoder.
func (c *DecisionTreeClassifier) GobEncode() ([]byte, error) {
	return c.encode()
}

// GobDecode implements gob.GobDecoder.
func (c *DecisionTreeClassifier) GobDecode(data []byte) error {
	d, err := decodeDecisionTree("DecisionTreeClassifier", false, data)
	if err != nil {
		return err
	}
	c.decisionTree = d
	return nil
}

// GobEncode implements gob.GobEncoder.
func (r *DecisionTreeRegressor) GobEncode() ([]byte, error) {
	return r.encode()
}

// GobDecode implements gob.GobDecoder.
func (r *DecisionTreeRegressor) GobDecode(data []byte) error {
	d, err := decodeDecisionTree("DecisionTreeRegressor", true, data)
	if err != nil {
		return err
	}
	r.decisionTree = d
	return nil
}

// ExportJSON returns the trained arena as JSON.
func (d *decisionTree) ExportJSON() ([]byte, error) {
	tree, err := d.fitted("ExportJSON")
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(tree, "", "  ")
}

// ParseTreeJSON decodes and validates an arena written by ExportJSON.
func ParseTreeJSON(data []byte) (*Tree, error) {
	var t Tree
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, errors.Wrap(err, "tree.ParseTreeJSON")
	}
	if err := t.validate(); err != nil {
		return nil, errors.Wrap(err, "tree.ParseTreeJSON")
	}
	return &t, nil
}

// validate checks the arena's internal references.
func (t *Tree) validate() error {
	const op = "Tree.validate"
	if len(t.Nodes) == 0 {
		return errors.NewModelError(op, "empty node arena", nil)
	}
	if len(t.Types) != t.NumFeatures || len(t.Decreases) != t.NumFeatures {
		return errors.NewModelError(op, "feature metadata does not match n_features", nil)
	}
	for i, n := range t.Nodes {
		if n.IsLeaf() {
			if t.Classification() && (n.Value < 0 || int(n.Value) >= len(t.Classes)) {
				return errors.NewModelError(op, "leaf class index out of range", nil)
			}
			continue
		}
		if n.Left <= i || n.Right <= i || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
			return errors.NewModelError(op, "child index out of range", nil)
		}
		if n.Split.Feature < 0 || n.Split.Feature >= t.NumFeatures {
			return errors.NewModelError(op, "split feature out of range", nil)
		}
	}
	return nil
}
