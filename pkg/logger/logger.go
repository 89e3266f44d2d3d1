// Package logger builds the structured logger shared by the service.
package logger

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Options configures the root logger.
type Options struct {
	Name  string
	Level string
	JSON  bool
	Out   io.Writer
}

// New creates the root logger. Unknown levels fall back to info.
func New(opts Options) hclog.Logger {
	level := hclog.LevelFromString(opts.Level)
	if level == hclog.NoLevel {
		level = hclog.Info
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:            opts.Name,
		Level:           level,
		JSONFormat:      opts.JSON,
		Output:          out,
		IncludeLocation: level == hclog.Debug || level == hclog.Trace,
	})
}
