package extractors

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/YuminosukeSato/gocart/core/dataset"
	"github.com/YuminosukeSato/gocart/pkg/errors"
)

// CSV reads comma-separated records whose first row names the columns.
type CSV struct {
	cursor
	path   string
	reader io.Reader
}

// NewCSV returns an extractor for the file at path. An empty path reads stdin.
func NewCSV(path string, offset, limit int) *CSV {
	return &CSV{cursor: cursor{Offset: offset, Limit: limit}, path: path}
}

// CSVFromReader reads from r instead of a file.
func CSVFromReader(r io.Reader, offset, limit int) *CSV {
	return &CSV{cursor: cursor{Offset: offset, Limit: limit}, reader: r}
}

// Extract implements Extractor.
func (e *CSV) Extract() (dataset.Records, error) {
	r := e.reader
	if r == nil {
		if e.path == "" {
			r = os.Stdin
		} else {
			f, err := os.Open(e.path)
			if err != nil {
				return dataset.Records{}, errors.Wrapf(err, "could not open file at %s", e.path)
			}
			defer f.Close()
			r = f
		}
	}

	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return dataset.Records{}, errors.Wrap(err, "reading header")
	}

	out := dataset.Records{Header: header}
	n := 0
	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return dataset.Records{}, errors.Wrapf(err, "reading row %d", line)
		}
		if e.skip(line) {
			continue
		}
		cells := make([]any, len(row))
		for i, c := range row {
			cells[i] = c
		}
		out.Rows = append(out.Rows, cells)

		n++
		if e.full(n) {
			break
		}
	}
	return out, nil
}
