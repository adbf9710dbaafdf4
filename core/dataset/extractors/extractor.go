// Package extractors reads raw records from files for dataset.Schema.Build.
package extractors

import (
	"github.com/YuminosukeSato/gocart/core/dataset"
)

// Extractor produces raw records from a source.
type Extractor interface {
	Extract() (dataset.Records, error)
}

// cursor limits the rows an extractor yields. A zero Limit means no limit.
type cursor struct {
	Offset int
	Limit  int
}

func (c cursor) skip(line int) bool { return line <= c.Offset }

func (c cursor) full(n int) bool { return c.Limit > 0 && n >= c.Limit }
