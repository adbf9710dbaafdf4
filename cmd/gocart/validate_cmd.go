package main

import (
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/gocart/metrics"
	"github.com/YuminosukeSato/gocart/pkg/errors"
	ms "github.com/YuminosukeSato/gocart/sklearn/model_selection"
)

type validateCmdConfig struct {
	*rootCmdConfig
	schema string
	data   string
}

func validateCmd(root *rootCmdConfig) *cobra.Command {
	config := &validateCmdConfig{rootCmdConfig: root}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Cross-validate a tree on a set of data",
		Long:  `Estimate how well a tree grown with the given hyperparameters generalizes, using holdout, k-fold or Monte Carlo validation.`,
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
			validator, err := newValidator(config.cfg.Validation)
			if err != nil {
				return err
			}
			metric, err := newMetric(config.cfg.Validation.Metric, config.cfg.Tree.Task)
			if err != nil {
				return err
			}

			report, err := validator.Evaluate(cmd.Context(), m, ds, metric)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return errors.Wrap(err, "encoding report")
			}
			_, err = cmd.OutOrStdout().Write(append(out, '\n'))
			return err
		},
	}
	cmd.Flags().StringVarP(&config.schema, "schema", "s", "", "path to a YAML file describing the features and label (required)")
	cmd.Flags().StringVarP(&config.data, "input", "i", "", "path to a CSV or NDJSON file with data (required)")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("input")
	treeFlags(cmd.Flags())
	cmd.Flags().String("method", "kfold", "holdout, kfold or montecarlo")
	cmd.Flags().Float64("ratio", 0.2, "share of samples held out for testing")
	cmd.Flags().Int("folds", 5, "number of folds for kfold")
	cmd.Flags().Int("simulations", 10, "number of rounds for montecarlo")
	cmd.Flags().String("metric", "", "validation metric, defaults to accuracy or r2 by task")
	cmd.Flags().Bool("parallel", false, "run rounds concurrently")
	cmd.Flags().Int("workers", 0, "concurrent rounds when parallel, 0 for GOMAXPROCS")
	cmd.Flags().Int64("seed", -1, "shuffling seed, negative for time based")
	return cmd
}

func newValidator(cfg ValidationConfig) (ms.Validator, error) {
	opts := []ms.Option{ms.WithSeed(cfg.Seed)}
	if cfg.Parallel {
		opts = append(opts, ms.WithBackend(ms.Parallel{Workers: cfg.Workers}))
	}
	var (
		v   ms.Validator
		err error
	)
	switch cfg.Method {
	case "holdout":
		v, err = ms.NewHoldout(cfg.Ratio, opts...)
	case "montecarlo":
		v, err = ms.NewMonteCarlo(cfg.Simulations, cfg.Ratio, opts...)
	default:
		v, err = ms.NewKFold(cfg.Folds, opts...)
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func newMetric(name, task string) (metrics.Metric, error) {
	if name == "" {
		if task == taskRegression {
			return metrics.RSquaredMetric{}, nil
		}
		return metrics.AccuracyMetric{}, nil
	}
	return metrics.ByName(name)
}
