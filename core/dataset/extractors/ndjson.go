package extractors

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/YuminosukeSato/gocart/core/dataset"
	"github.com/YuminosukeSato/gocart/pkg/errors"
)

const maxLineBytes = 16 << 20

// NDJSONArray reads newline-delimited JSON where every non-empty line is an
// array of cell values. Rows are positional.
type NDJSONArray struct {
	cursor
	path   string
	reader io.Reader
}

// NewNDJSONArray returns an extractor for the file at path. Offset skips that
// many non-empty lines; a positive limit caps the number of rows read.
func NewNDJSONArray(path string, offset, limit int) (*NDJSONArray, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "file at %s does not exist", path)
	}
	if info.IsDir() {
		return nil, errors.Newf("%s is a directory", path)
	}
	if offset < 0 || limit < 0 {
		return nil, errors.NewValidationError("offset/limit", "must not be negative", [2]int{offset, limit})
	}
	return &NDJSONArray{cursor: cursor{Offset: offset, Limit: limit}, path: path}, nil
}

// NDJSONArrayFromReader reads from r instead of a file.
func NDJSONArrayFromReader(r io.Reader, offset, limit int) *NDJSONArray {
	return &NDJSONArray{cursor: cursor{Offset: offset, Limit: limit}, reader: r}
}

// Extract implements Extractor.
func (e *NDJSONArray) Extract() (dataset.Records, error) {
	r := e.reader
	if r == nil {
		f, err := os.Open(e.path)
		if err != nil {
			return dataset.Records{}, errors.Wrapf(err, "could not open file at %s", e.path)
		}
		defer f.Close()
		r = f
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	out := dataset.Records{Typed: true}
	line, n := 0, 0
	for scanner.Scan() {
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		line++
		if e.skip(line) {
			continue
		}

		var record []any
		if err := json.Unmarshal(raw, &record); err != nil || record == nil {
			return dataset.Records{}, errors.Newf("non JSON array found at row %d", line)
		}
		out.Rows = append(out.Rows, record)

		n++
		if e.full(n) {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return dataset.Records{}, errors.Wrap(err, "reading ndjson")
	}
	return out, nil
}
