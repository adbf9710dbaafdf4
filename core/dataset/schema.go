package dataset

import (
	"fmt"
	"os"
	"strconv"

	yaml "gopkg.in/yaml.v2"

	"github.com/YuminosukeSato/gocart/pkg/errors"
)

// Column describes one named column of a tabular source.
type Column struct {
	Name string `yaml:"name"`
	Kind Kind   `yaml:"kind"`
}

// Schema is the feature metadata used to turn raw records into a dataset.
//
//	features:
//	  - name: petal_length
//	    kind: continuous
//	  - name: color
//	    kind: categorical
//	label:
//	  name: species
//	  kind: categorical
type Schema struct {
	Features []Column `yaml:"features"`
	Label    *Column  `yaml:"label,omitempty"`
}

// ParseSchema parses a YAML schema document.
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "parsing schema yaml")
	}
	if len(s.Features) == 0 {
		return nil, errors.New("schema has no feature information")
	}
	return &s, nil
}

// LoadSchema reads and parses a YAML schema file.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading schema file %s", path)
	}
	s, err := ParseSchema(data)
	if err != nil {
		return nil, errors.Wrapf(err, "schema file %s", path)
	}
	return s, nil
}

// Marshal renders the schema as YAML.
func (s *Schema) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// FeatureNames returns the feature column names in order.
func (s *Schema) FeatureNames() []string {
	names := make([]string, len(s.Features))
	for i, c := range s.Features {
		names[i] = c.Name
	}
	return names
}

// Records is raw tabular input produced by an extractor.
type Records struct {
	// Header names the columns. Nil means records are positional.
	Header []string
	Rows   [][]any
	// Typed is set when cells carry their source type (JSON numbers vs
	// strings). Numeric strings in continuous columns are then reported.
	Typed bool
}

// Build converts raw records into a dataset. Positional records hold the
// features in schema order followed by the label, if any. Named records are
// matched by header and unknown columns are ignored. The result is a
// *Labeled when the schema declares a label and an *Unlabeled otherwise.
func (s *Schema) Build(in Records) (Dataset, error) {
	featurePos, labelPos, err := s.positions(in.Header)
	if err != nil {
		return nil, err
	}
	records := in.Rows

	samples := make([][]Value, len(records))
	var labels []Value
	if s.Label != nil {
		labels = make([]Value, len(records))
	}
	for i, rec := range records {
		row := make([]Value, len(s.Features))
		for j, col := range s.Features {
			p := featurePos[j]
			if p >= len(rec) {
				return nil, errors.Newf("record %d: missing column %s", i+1, col.Name)
			}
			v, err := convert(rec[p], col, in.Typed)
			if err != nil {
				return nil, errors.Wrapf(err, "record %d", i+1)
			}
			row[j] = v
		}
		samples[i] = row

		if s.Label != nil {
			if labelPos >= len(rec) {
				return nil, errors.Newf("record %d: missing label %s", i+1, s.Label.Name)
			}
			v, err := convert(rec[labelPos], *s.Label, in.Typed)
			if err != nil {
				return nil, errors.Wrapf(err, "record %d", i+1)
			}
			labels[i] = v
		}
	}

	if s.Label != nil {
		ds, err := NewLabeled(samples, labels)
		if err != nil {
			return nil, err
		}
		return ds, nil
	}
	ds, err := NewUnlabeled(samples)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

func (s *Schema) positions(header []string) ([]int, int, error) {
	featurePos := make([]int, len(s.Features))
	labelPos := -1
	if header == nil {
		for j := range featurePos {
			featurePos[j] = j
		}
		if s.Label != nil {
			labelPos = len(s.Features)
		}
		return featurePos, labelPos, nil
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for j, col := range s.Features {
		p, ok := index[col.Name]
		if !ok {
			return nil, 0, errors.Newf("header has no column for feature %s", col.Name)
		}
		featurePos[j] = p
	}
	if s.Label != nil {
		p, ok := index[s.Label.Name]
		if !ok {
			return nil, 0, errors.Newf("header has no column for label %s", s.Label.Name)
		}
		labelPos = p
	}
	return featurePos, labelPos, nil
}

// convert maps a decoded cell to the column kind. Numeric strings in a
// continuous column of typed input are coerced with a DataConversionWarning.
func convert(raw any, col Column, typed bool) (Value, error) {
	switch col.Kind {
	case Continuous:
		switch v := raw.(type) {
		case float64:
			return Num(v), nil
		case int:
			return Num(float64(v)), nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return Value{}, errors.Newf("column %s: %q is not a number", col.Name, v)
			}
			if typed {
				errors.Warn(errors.NewDataConversionWarning("string", "continuous",
					fmt.Sprintf("column %s holds numeric string %q", col.Name, v)))
			}
			return Num(f), nil
		default:
			return Value{}, errors.Newf("column %s: unsupported value %v of type %T", col.Name, raw, raw)
		}
	default:
		switch v := raw.(type) {
		case string:
			return Cat(v), nil
		case float64:
			return Cat(strconv.FormatFloat(v, 'g', -1, 64)), nil
		case int:
			return Cat(strconv.Itoa(v)), nil
		case bool:
			return Cat(strconv.FormatBool(v)), nil
		default:
			return Value{}, errors.Newf("column %s: unsupported value %v of type %T", col.Name, raw, raw)
		}
	}
}
