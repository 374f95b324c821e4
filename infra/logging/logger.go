package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"ai-coder/config"

	"github.com/charmbracelet/log"
)

// New builds the process logger from cfg and installs it as the package default,
// so log.FromContext falls back to it for contexts that carry no request logger.
func New(cfg config.LogConfig, service string) *log.Logger {
	return newLogger(os.Stderr, cfg, service)
}

func newLogger(w io.Writer, cfg config.LogConfig, service string) *log.Logger {
	level, err := log.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = log.InfoLevel
	}

	opts := log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          service,
	}
	if strings.EqualFold(cfg.Format, "json") {
		opts.Formatter = log.JSONFormatter
	}

	logger := log.NewWithOptions(w, opts)
	log.SetDefault(logger)
	return logger
}
