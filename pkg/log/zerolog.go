package log

import (
	"io"

	"github.com/rs/zerolog"

	gcerrors "github.com/YuminosukeSato/gocart/pkg/errors"
)

// EnableZerologWarnings routes errors.Warn through a zerolog logger writing to w.
// Warnings that implement zerolog.LogObjectMarshaler are emitted as structured
// objects. It returns a function that restores the previous handler.
func EnableZerologWarnings(w io.Writer) func() {
	zl := zerolog.New(w).With().Timestamp().Str(ComponentKey, "warnings").Logger()

	gcerrors.SetZerologWarnFunc(func(warning error) {
		ev := zl.Warn()
		if m, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev = ev.EmbedObject(m)
		}
		ev.Msg(warning.Error())
	})

	return func() { gcerrors.SetZerologWarnFunc(nil) }
}
