package kfold

import (
	"io"

	"go.uber.org/zap/zapcore"
)

// SetStderr redirects the default console logger until restore is called.
func SetStderr(w io.Writer) (restore func()) {
	prev := stderr
	stderr = zapcore.AddSync(w)
	return func() { stderr = prev }
}
