package main

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/YuminosukeSato/gocart/pkg/errors"
	"github.com/YuminosukeSato/gocart/pkg/log"
)

// Config is the command line configuration. Values come from, in increasing
// precedence, defaults, the YAML file, GOCART_* environment variables and flags.
type Config struct {
	Log        log.Config       `mapstructure:"log"`
	Tree       TreeConfig       `mapstructure:"tree"`
	Validation ValidationConfig `mapstructure:"validation"`
}

// TreeConfig holds the hyperparameters of the grown tree.
type TreeConfig struct {
	Task                string  `mapstructure:"task" validate:"oneof=classification regression"`
	Criterion           string  `mapstructure:"criterion" validate:"omitempty,oneof=gini entropy squared_error"`
	MaxDepth            int     `mapstructure:"max_depth" validate:"gte=0"`
	MinSamplesSplit     int     `mapstructure:"min_samples_split" validate:"gte=2"`
	MinSamplesLeaf      int     `mapstructure:"min_samples_leaf" validate:"gte=1"`
	MinImpurityDecrease float64 `mapstructure:"min_impurity_decrease" validate:"gte=0"`
	MaxFeatures         int     `mapstructure:"max_features" validate:"gte=0"`
	RandomState         int64   `mapstructure:"random_state"`
}

// ValidationConfig selects the cross-validation strategy.
type ValidationConfig struct {
	Method      string  `mapstructure:"method" validate:"oneof=holdout kfold montecarlo"`
	Ratio       float64 `mapstructure:"ratio" validate:"gte=0.01,lte=1"`
	Folds       int     `mapstructure:"folds" validate:"gte=2"`
	Simulations int     `mapstructure:"simulations" validate:"gte=2"`
	Metric      string  `mapstructure:"metric"`
	Parallel    bool    `mapstructure:"parallel"`
	Workers     int     `mapstructure:"workers" validate:"gte=0"`
	Seed        int64   `mapstructure:"seed"`
}

func setDefaults(v *viper.Viper) {
	logDefaults := log.DefaultConfig()
	v.SetDefault("log.level", logDefaults.Level)
	v.SetDefault("log.format", logDefaults.Format)
	v.SetDefault("log.file", logDefaults.File)
	v.SetDefault("log.max_size_mb", logDefaults.MaxSizeMB)
	v.SetDefault("log.max_backups", logDefaults.MaxBackups)
	v.SetDefault("log.max_age_days", logDefaults.MaxAgeDays)

	v.SetDefault("tree.task", "classification")
	v.SetDefault("tree.criterion", "")
	v.SetDefault("tree.max_depth", 0)
	v.SetDefault("tree.min_samples_split", 2)
	v.SetDefault("tree.min_samples_leaf", 1)
	v.SetDefault("tree.min_impurity_decrease", 0.0)
	v.SetDefault("tree.max_features", 0)
	v.SetDefault("tree.random_state", -1)

	v.SetDefault("validation.method", "kfold")
	v.SetDefault("validation.ratio", 0.2)
	v.SetDefault("validation.folds", 5)
	v.SetDefault("validation.simulations", 10)
	v.SetDefault("validation.metric", "")
	v.SetDefault("validation.parallel", false)
	v.SetDefault("validation.workers", 0)
	v.SetDefault("validation.seed", -1)
}

// LoadConfig reads the configuration into a validated Config. path may be empty.
func LoadConfig(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config %s", path)
		}
	}

	v.SetEnvPrefix("GOCART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}
	return &cfg, nil
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"log-level":             "log.level",
	"log-format":            "log.format",
	"log-file":              "log.file",
	"task":                  "tree.task",
	"criterion":             "tree.criterion",
	"max-depth":             "tree.max_depth",
	"min-samples-split":     "tree.min_samples_split",
	"min-samples-leaf":      "tree.min_samples_leaf",
	"min-impurity-decrease": "tree.min_impurity_decrease",
	"max-features":          "tree.max_features",
	"random-state":          "tree.random_state",
	"method":                "validation.method",
	"ratio":                 "validation.ratio",
	"folds":                 "validation.folds",
	"simulations":           "validation.simulations",
	"metric":                "validation.metric",
	"parallel":              "validation.parallel",
	"workers":               "validation.workers",
	"seed":                  "validation.seed",
}

// bindFlags binds the flags of the running command. Several commands share
// flag names, so binding happens once the command is known.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return errors.Wrapf(err, "binding flag %s", name)
			}
		}
	}
	return nil
}
