// Package logging builds the zap logger shared by the labutils command.
package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/poldracklab/labutils/config"
)

// New returns a logger writing to stderr at cfg.Level.
// Format "auto" picks the console encoder on a terminal and JSON otherwise.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	switch Encoding(cfg.Format, isTerminal(os.Stderr)) {
	case "console":
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zc.Sampling = nil
	default:
		zc.Encoding = "json"
	}

	return zc.Build()
}

// Encoding resolves a configured format to a zap encoding name.
func Encoding(format string, tty bool) string {
	switch strings.ToLower(format) {
	case "console", "text":
		return "console"
	case "json":
		return "json"
	}
	if tty {
		return "console"
	}

	return "json"
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
