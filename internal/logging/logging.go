// Package logging builds the application logger. The TUI owns the terminal,
// so logs go to a file rather than stderr.
package logging

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultPath returns the XDG state path for the log file
func DefaultPath() (string, error) {
	return xdg.StateFile("ezquery/ezquery.log")
}

// New builds a JSON file logger. With debug set the level drops to Debug;
// otherwise Info. An empty path resolves to DefaultPath.
func New(debug bool, path string) (*zap.Logger, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}

	config := zap.NewProductionConfig()
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// Console builds a human-readable stderr logger for non-interactive commands
func Console(debug bool) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}
