package main

import (
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/gocart/core/dataset"
	"github.com/YuminosukeSato/gocart/core/model"
	"github.com/YuminosukeSato/gocart/pkg/errors"
)

type predictCmdConfig struct {
	*rootCmdConfig
	model string
	data  string
	proba bool
}

type prediction struct {
	Prediction    any                `json:"prediction"`
	Probabilities map[string]float64 `json:"probabilities,omitempty"`
}

func predictCmd(root *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: root}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the label of new samples",
		Long:  `Predict the label of every sample in a CSV or NDJSON file with a trained tree. One JSON object is written per sample.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, schema, err := loadModelFile(config.model)
			if err != nil {
				return err
			}
			ds, err := readDataset(&dataset.Schema{Features: schema.Features}, config.data)
			if err != nil {
				return err
			}
			preds, err := m.PredictSamples(ds)
			if err != nil {
				return err
			}

			var probas []map[string]float64
			if config.proba {
				p, ok := m.(model.Probabilistic)
				if !ok {
					return errors.New("probabilities are only available for classification trees")
				}
				if probas, err = p.ProbaSamples(ds); err != nil {
					return err
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for i, v := range preds {
				out := prediction{Prediction: jsonValue(v)}
				if probas != nil {
					out.Probabilities = probas[i]
				}
				if err := enc.Encode(out); err != nil {
					return errors.Wrap(err, "writing prediction")
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&config.model, "model", "m", "model.gob", "path to a model written by train")
	cmd.Flags().StringVarP(&config.data, "input", "i", "", "path to a CSV or NDJSON file with samples (required)")
	cmd.Flags().BoolVar(&config.proba, "proba", false, "include class probabilities")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func jsonValue(v dataset.Value) any {
	if v.Kind == dataset.Continuous {
		return v.Number
	}
	return v.Token
}
