package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/gocart/pkg/errors"
)

type inspectCmdConfig struct {
	*rootCmdConfig
	model  string
	format string
	output string
}

func inspectCmd(root *rootCmdConfig) *cobra.Command {
	config := &inspectCmdConfig{rootCmdConfig: root}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Describe a trained tree",
		Long: `Describe a trained tree as text rules, a Graphviz DOT graph, JSON, or a
PNG bar chart of feature importances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := loadModelFile(config.model)
			if err != nil {
				return err
			}

			var text []byte
			switch config.format {
			case "rules":
				rules, err := m.Rules()
				if err != nil {
					return err
				}
				text = []byte(rules)
			case "dot":
				dot, err := m.ExportGraphviz()
				if err != nil {
					return err
				}
				text = []byte(dot)
			case "json":
				if text, err = m.ExportJSON(); err != nil {
					return err
				}
				text = append(text, '\n')
			case "plot":
				if config.output == "" {
					return errors.New("plot format requires --output")
				}
				return m.PlotFeatureImportances(config.output)
			default:
				return errors.Newf("unknown format %q, expected rules, dot, json or plot", config.format)
			}

			if config.output == "" {
				_, err = cmd.OutOrStdout().Write(text)
				return err
			}
			if err := os.WriteFile(config.output, text, 0o644); err != nil {
				return errors.Wrapf(err, "writing %s", config.output)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", config.output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&config.model, "model", "m", "model.gob", "path to a model written by train")
	cmd.Flags().StringVarP(&config.format, "format", "f", "rules", "rules, dot, json or plot")
	cmd.Flags().StringVarP(&config.output, "output", "o", "", "write to this file instead of stdout (required for plot)")
	return cmd
}
