package main

import (
	"github.com/YuminosukeSato/gocart/core/dataset"
	"github.com/YuminosukeSato/gocart/core/model"
	"github.com/YuminosukeSato/gocart/pkg/errors"
	"github.com/YuminosukeSato/gocart/sklearn/tree"
)

const (
	taskClassification = "classification"
	taskRegression     = "regression"
)

// treeModel is what the commands need from either kind of tree.
type treeModel interface {
	model.Learner
	Height() int
	GetNLeaves() int
	Rules() (string, error)
	ExportGraphviz() (string, error)
	ExportJSON() ([]byte, error)
	PlotFeatureImportances(path string) error
}

// modelFile is the gob document written by train. It carries the schema so
// predict can read new data without it.
type modelFile struct {
	Task       string
	Schema     []byte
	Classifier *tree.DecisionTreeClassifier
	Regressor  *tree.DecisionTreeRegressor
}

func newTree(cfg TreeConfig, featureNames []string) (treeModel, error) {
	opts := []tree.Option{
		tree.WithMinSamplesSplit(cfg.MinSamplesSplit),
		tree.WithMinSamplesLeaf(cfg.MinSamplesLeaf),
		tree.WithMinImpurityDecrease(cfg.MinImpurityDecrease),
		tree.WithRandomState(cfg.RandomState),
		tree.WithFeatureNames(featureNames...),
	}
	if cfg.Criterion != "" {
		opts = append(opts, tree.WithCriterion(cfg.Criterion))
	}
	if cfg.MaxDepth > 0 {
		opts = append(opts, tree.WithMaxDepth(cfg.MaxDepth))
	}
	if cfg.MaxFeatures > 0 {
		opts = append(opts, tree.WithMaxFeatures(cfg.MaxFeatures))
	}

	if cfg.Task == taskRegression {
		reg, err := tree.NewDecisionTreeRegressor(opts...)
		if err != nil {
			return nil, err
		}
		return reg, nil
	}
	clf, err := tree.NewDecisionTreeClassifier(opts...)
	if err != nil {
		return nil, err
	}
	return clf, nil
}

func saveModelFile(path string, m treeModel, schema *dataset.Schema) error {
	raw, err := schema.Marshal()
	if err != nil {
		return err
	}
	mf := &modelFile{Schema: raw}
	switch t := m.(type) {
	case *tree.DecisionTreeClassifier:
		mf.Task, mf.Classifier = taskClassification, t
	case *tree.DecisionTreeRegressor:
		mf.Task, mf.Regressor = taskRegression, t
	default:
		return errors.Newf("unsupported model %T", m)
	}
	return model.SaveModel(mf, path)
}

func loadModelFile(path string) (treeModel, *dataset.Schema, error) {
	var mf modelFile
	if err := model.LoadModel(&mf, path); err != nil {
		return nil, nil, err
	}
	schema, err := dataset.ParseSchema(mf.Schema)
	if err != nil {
		return nil, nil, err
	}
	switch {
	case mf.Task == taskClassification && mf.Classifier != nil:
		return mf.Classifier, schema, nil
	case mf.Task == taskRegression && mf.Regressor != nil:
		return mf.Regressor, schema, nil
	default:
		return nil, nil, errors.Newf("model file %s holds no %s tree", path, mf.Task)
	}
}
