// Command gocart grows CART decision trees from tabular data, validates them
// and uses them to make predictions.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/YuminosukeSato/gocart/pkg/log"
)

type rootCmdConfig struct {
	configFile string
	v          *viper.Viper
	cfg        *Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := cliParser().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	root := &rootCmdConfig{v: viper.New()}
	rootCmd := &cobra.Command{
		Use:   "gocart",
		Short: "gocart grows CART decision trees",
		Long: `A tool to grow classification and regression trees from CSV or NDJSON data,
cross-validate them, inspect them and use them to make predictions.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlags(root.v, cmd.Flags()); err != nil {
				return err
			}
			cfg, err := LoadConfig(root.v, root.configFile)
			if err != nil {
				return err
			}
			root.cfg = cfg
			if err := log.SetupLogger(cfg.Log); err != nil {
				return err
			}
			if cfg.Log.Format == "json" {
				// convergence and metric warnings become JSON lines next to the logs
				log.EnableZerologWarnings(os.Stderr)
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&root.configFile, "config", "", "path to a YAML configuration file")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("log-format", "text", "log format: json or text")
	flags.String("log-file", "", "also write logs to this file, rotated by size")

	rootCmd.AddCommand(
		versionCmd(),
		trainCmd(root),
		predictCmd(root),
		validateCmd(root),
		inspectCmd(root),
	)
	return rootCmd
}
