package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/gocart/pkg/errors"
)

const irisSchema = `
features:
  - name: petal_length
    kind: continuous
  - name: color
    kind: categorical
label:
  name: species
  kind: categorical
`

func TestParseSchema(t *testing.T) {
	s, err := ParseSchema([]byte(irisSchema))
	require.NoError(t, err)
	assert.Equal(t, []string{"petal_length", "color"}, s.FeatureNames())
	assert.Equal(t, Categorical, s.Features[1].Kind)
	require.NotNil(t, s.Label)
	assert.Equal(t, "species", s.Label.Name)

	out, err := s.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(out), "kind: continuous")

	_, err = ParseSchema([]byte("features: []"))
	assert.Error(t, err)

	_, err = ParseSchema([]byte("features:\n  - name: x\n    kind: ordinal\n"))
	assert.Error(t, err)
}

func TestLoadSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yml")
	require.NoError(t, os.WriteFile(path, []byte(irisSchema), 0o600))

	s, err := LoadSchema(path)
	require.NoError(t, err)
	assert.Len(t, s.Features, 2)

	_, err = LoadSchema(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestSchemaBuild(t *testing.T) {
	s, err := ParseSchema([]byte(irisSchema))
	require.NoError(t, err)

	t.Run("positional", func(t *testing.T) {
		ds, err := s.Build(Records{Rows: [][]any{
			{1.4, "white", "setosa"},
			{4.7, "purple", "versicolor"},
		}})
		require.NoError(t, err)
		labeled, ok := ds.(*Labeled)
		require.True(t, ok)
		assert.Equal(t, Num(4.7), labeled.Sample(1)[0])
		assert.Equal(t, Cat("setosa"), labeled.Label(0))
	})

	t.Run("by header", func(t *testing.T) {
		ds, err := s.Build(Records{
			Header: []string{"species", "id", "color", "petal_length"},
			Rows:   [][]any{{"setosa", "17", "white", "1.4"}},
		})
		require.NoError(t, err)
		assert.Equal(t, []Value{Num(1.4), Cat("white")}, ds.Sample(0))
	})

	t.Run("numeric string in typed input warns", func(t *testing.T) {
		var warned []error
		errors.SetWarningHandler(func(w error) { warned = append(warned, w) })
		defer errors.SetWarningHandler(func(error) {})

		ds, err := s.Build(Records{Typed: true, Rows: [][]any{{"2.5", "white", "setosa"}}})
		require.NoError(t, err)
		assert.Equal(t, Num(2.5), ds.Sample(0)[0])
		require.Len(t, warned, 1)
		var convWarn *errors.DataConversionWarning
		assert.True(t, errors.As(warned[0], &convWarn))
	})

	t.Run("number in categorical column", func(t *testing.T) {
		ds, err := s.Build(Records{Rows: [][]any{{1.0, 3.0, "setosa"}}})
		require.NoError(t, err)
		assert.Equal(t, Cat("3"), ds.Sample(0)[1])
	})

	t.Run("errors", func(t *testing.T) {
		_, err := s.Build(Records{Rows: [][]any{{"abc", "white", "setosa"}}})
		assert.Error(t, err)

		_, err = s.Build(Records{Rows: [][]any{{1.0}}})
		assert.Error(t, err)

		_, err = s.Build(Records{Header: []string{"color"}, Rows: [][]any{{"white"}}})
		assert.Error(t, err)
	})

	t.Run("unlabeled", func(t *testing.T) {
		unlabeled := &Schema{Features: s.Features}
		ds, err := unlabeled.Build(Records{Rows: [][]any{{1.0, "white"}}})
		require.NoError(t, err)
		_, ok := ds.(*Unlabeled)
		assert.True(t, ok)
	})
}
