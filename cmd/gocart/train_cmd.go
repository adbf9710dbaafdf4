package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/YuminosukeSato/gocart/core/dataset"
	"github.com/YuminosukeSato/gocart/pkg/errors"
)

type trainCmdConfig struct {
	*rootCmdConfig
	schema string
	data   string
	output string
}

func trainCmd(root *rootCmdConfig) *cobra.Command {
	config := &trainCmdConfig{rootCmdConfig: root}
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Grow a tree from a set of data",
		Long:  `Grow a classification or regression tree from a set of data and save it in gob format.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, ds, err := labeledInput(config.schema, config.data)
			if err != nil {
				return err
			}
			m, err := newTree(config.cfg.Tree, schema.FeatureNames())
			if err != nil {
				return err
			}
			if err := m.Train(ds); err != nil {
				return errors.Wrap(err, "growing the tree")
			}
			if err := saveModelFile(config.output, m, schema); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "grew a tree of height %d with %d leaves from %d samples into %s\n",
				m.Height(), m.GetNLeaves(), ds.NumSamples(), config.output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&config.schema, "schema", "s", "", "path to a YAML file describing the features and label (required)")
	cmd.Flags().StringVarP(&config.data, "input", "i", "", "path to a CSV or NDJSON file with training data (required)")
	cmd.Flags().StringVarP(&config.output, "output", "o", "model.gob", "path the trained model is written to")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("input")
	treeFlags(cmd.Flags())
	return cmd
}

// treeFlags registers the hyperparameter flags. Defaults mirror the config defaults.
func treeFlags(f *pflag.FlagSet) {
	f.String("task", "classification", "classification or regression")
	f.String("criterion", "", "gini or entropy for classification, squared_error for regression")
	f.Int("max-depth", 0, "maximum tree height, 0 for no limit")
	f.Int("min-samples-split", 2, "minimum samples needed to split a node")
	f.Int("min-samples-leaf", 1, "minimum samples in each leaf")
	f.Float64("min-impurity-decrease", 0, "minimum weighted impurity decrease of a split")
	f.Int("max-features", 0, "features examined per split, 0 for all")
	f.Int64("random-state", -1, "seed for feature sampling, negative for time based")
}

// labeledInput loads the schema and a labeled dataset.
func labeledInput(schemaPath, dataPath string) (*dataset.Schema, *dataset.Labeled, error) {
	schema, err := dataset.LoadSchema(schemaPath)
	if err != nil {
		return nil, nil, err
	}
	if schema.Label == nil {
		return nil, nil, errors.Newf("schema %s declares no label", schemaPath)
	}
	ds, err := readDataset(schema, dataPath)
	if err != nil {
		return nil, nil, err
	}
	return schema, ds.(*dataset.Labeled), nil
}
