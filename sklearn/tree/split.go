package tree

import (
	"fmt"
	"strconv"

	"github.com/YuminosukeSato/gocart/core/dataset"
)

// SplitKind tags the test an internal node applies.
type SplitKind int

const (
	// ThresholdSplit sends continuous values <= Threshold left.
	ThresholdSplit SplitKind = iota
	// CategorySplit sends values equal to Category left.
	CategorySplit
)

func (k SplitKind) String() string {
	if k == CategorySplit {
		return "category"
	}
	return "threshold"
}

// Split is the binary test of an internal node.
type Split struct {
	Kind      SplitKind `json:"kind"`
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold,omitempty"`
	Category  string    `json:"category,omitempty"`
}

// GoesLeft reports whether v takes the left branch.
func (s Split) GoesLeft(v dataset.Value) bool {
	if s.Kind == CategorySplit {
		return v.Token == s.Category
	}
	return v.Number <= s.Threshold
}

// describe renders the left (or right) branch condition using name for the feature.
func (s Split) describe(name string, left bool) string {
	if s.Kind == CategorySplit {
		op := "=="
		if !left {
			op = "!="
		}
		return fmt.Sprintf("%s %s %s", name, op, s.Category)
	}
	op := "<="
	if !left {
		op = "> "
	}
	return fmt.Sprintf("%s %s %s", name, op, strconv.FormatFloat(s.Threshold, 'g', -1, 64))
}
