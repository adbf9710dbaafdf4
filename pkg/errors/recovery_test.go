package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecover(t *testing.T) {
	t.Run("panic becomes PanicError", func(t *testing.T) {
		run := func() (err error) {
			defer Recover(&err, "fold 2")
			panic("index out of range")
		}

		err := run()
		var panicErr *PanicError
		require.True(t, As(err, &panicErr))
		assert.Equal(t, "fold 2", panicErr.Operation)
		assert.Equal(t, "index out of range", panicErr.PanicValue)
		assert.NotEmpty(t, panicErr.StackTrace)
		assert.Equal(t, "gocart: panic in fold 2: index out of range", err.Error())
		assert.Contains(t, panicErr.String(), "Stack trace:")
	})

	t.Run("no panic leaves nil", func(t *testing.T) {
		run := func() (err error) {
			defer Recover(&err, "fold 0")
			return nil
		}
		assert.NoError(t, run())
	})

	t.Run("existing error is preserved", func(t *testing.T) {
		run := func() (err error) {
			defer Recover(&err, "fold 1")
			err = ErrEmptyData
			panic("boom")
		}

		err := run()
		require.Error(t, err)
		assert.True(t, Is(err, ErrEmptyData))
		assert.Contains(t, err.Error(), "panic in fold 1: boom")
	})
}

func TestSafeExecute(t *testing.T) {
	tests := []struct {
		name      string
		fn        func() error
		wantErr   bool
		wantPanic bool
	}{
		{name: "success", fn: func() error { return nil }},
		{name: "plain error", fn: func() error { return ErrUnlabeledData }, wantErr: true},
		{name: "string panic", fn: func() error { panic("bad split") }, wantErr: true, wantPanic: true},
		{name: "int panic", fn: func() error { panic(42) }, wantErr: true, wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SafeExecute("round", tt.fn)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)

			var panicErr *PanicError
			assert.Equal(t, tt.wantPanic, As(err, &panicErr))
		})
	}
}

func TestPanicErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("singular covariance")
	err := SafeExecute("em", func() error { panic(cause) })

	assert.True(t, Is(err, cause))
}

func BenchmarkSafeExecuteNoPanic(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = SafeExecute("bench", func() error { return nil })
	}
}
