// Package dataset provides the typed tabular data model shared by every
// learner: samples of continuous or categorical values with optional labels.
package dataset

import (
	"fmt"
	"strings"

	"github.com/YuminosukeSato/gocart/pkg/errors"
)

// Kind is the data type of a column or label.
type Kind int

const (
	// Continuous values are real numbers.
	Continuous Kind = iota
	// Categorical values are discrete string tokens.
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Categorical:
		return "categorical"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses "continuous" or "categorical" (case-insensitive).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "continuous":
		return Continuous, nil
	case "categorical":
		return Categorical, nil
	default:
		return 0, errors.NewValueError("dataset.ParseKind",
			fmt.Sprintf("unknown data kind %q, expected continuous or categorical", s))
	}
}

// MarshalYAML implements yaml.Marshaler.
func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *Kind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// KindNames returns the names of kinds, in the order given.
func KindNames(kinds []Kind) []string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return names
}
