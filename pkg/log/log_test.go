package log

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gcerrors "github.com/YuminosukeSato/gocart/pkg/errors"
)

func TestTestLogger(t *testing.T) {
	logger, buffer := NewTestLogger(LevelDebug)

	logger.Debug("debug message", "key1", "value1", "number", 42)
	logger.Info("info message", OperationKey, OperationTrain)
	logger.Warn("warning message")
	logger.Error("error message", fmt.Errorf("split failed"), ErrorCodeKey, ErrorEmptyData)

	require.NotEmpty(t, buffer.String())
	for _, msg := range []string{"debug message", "info message", "warning message", "error message"} {
		assert.True(t, logger.ContainsMessage(msg), msg)
	}
	assert.True(t, logger.ContainsField("key1", "value1"))
	assert.True(t, logger.ContainsField("number", 42.0))
	assert.True(t, logger.ContainsField(ErrAttrKey, "split failed"))
	assert.True(t, logger.ContainsField(ErrorCodeKey, ErrorEmptyData))
}

func TestTestLoggerWith(t *testing.T) {
	logger, _ := NewTestLogger(LevelDebug)

	child := logger.With(ModelNameKey, "DecisionTreeClassifier", CriterionKey, "gini")
	child.Info("Tree built", TreeHeightKey, 3, SamplesKey, 150)

	entries, err := logger.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "DecisionTreeClassifier", entry[ModelNameKey])
	assert.Equal(t, "gini", entry[CriterionKey])
	assert.Equal(t, 3.0, entry[TreeHeightKey])
	assert.Equal(t, 150.0, entry[SamplesKey])
}

func TestTestLoggerLevel(t *testing.T) {
	logger, _ := NewTestLogger(LevelInfo)
	ctx := context.Background()

	assert.True(t, logger.Enabled(ctx, LevelInfo))
	assert.True(t, logger.Enabled(ctx, LevelError))
	assert.False(t, logger.Enabled(ctx, LevelDebug))

	logger.Debug("hidden")
	logger.Info("shown")
	assert.False(t, logger.ContainsMessage("hidden"))
	assert.True(t, logger.ContainsMessage("shown"))

	logger.Clear()
	assert.False(t, logger.ContainsMessage("shown"))
}

func TestTestLoggerProvider(t *testing.T) {
	provider, buffer := NewTestLoggerProvider(LevelWarn)
	SetProvider(provider)
	defer SetProvider(nil)

	GetLogger().Info("dropped")
	GetLoggerWithName("model_selection").Warn("fold skipped", FoldKey, 2)

	assert.NotContains(t, buffer.String(), "dropped")
	assert.True(t, provider.Logger().ContainsField(ComponentKey, "model_selection"))
	assert.True(t, provider.Logger().ContainsField(FoldKey, 2.0))

	SetLevel(LevelDebug)
	GetLogger().Debug("now visible")
	assert.Contains(t, buffer.String(), "now visible")
}

func TestTestLoggerConcurrent(t *testing.T) {
	logger, _ := NewTestLogger(LevelInfo)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				logger.Info("round", FoldKey, j, "goroutine", id)
			}
		}(g)
	}
	wg.Wait()

	entries, err := logger.GetLogEntries()
	require.NoError(t, err)
	assert.Len(t, entries, 20)
}

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ToLogLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetupLoggerWithFile(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	path := filepath.Join(t.TempDir(), "gocart.log")
	cfg := DefaultConfig()
	cfg.Format = "json"
	cfg.File = path
	require.NoError(t, SetupLogger(cfg))

	GetLoggerWithName("tree").Info("written to file", SamplesKey, 4)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
	assert.Contains(t, string(data), `"ml.component":"tree"`)

	assert.Error(t, SetupLogger(Config{Level: "loud"}))
}

func TestErrFmtHandler(t *testing.T) {
	var buf bytes.Buffer
	handler := WrapByErrFmtHandler(slog.NewJSONHandler(&buf, nil))
	logger := NewSlogLogger(slog.New(handler))

	logger.Error("train failed", errors.New("no samples"), OperationKey, OperationTrain)

	out := buf.String()
	assert.Contains(t, out, `"error":"no samples"`)
	assert.Contains(t, out, StacktraceAttrKey)
	assert.Contains(t, out, OperationTrain)
}

func TestEnableZerologWarnings(t *testing.T) {
	var buf bytes.Buffer
	restore := EnableZerologWarnings(&buf)
	defer restore()

	gcerrors.Warn(gcerrors.NewConvergenceWarning("GaussianMixture", 10, ""))

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"algorithm":"GaussianMixture"`)
	assert.Contains(t, out, `"type":"ConvergenceWarning"`)
}
