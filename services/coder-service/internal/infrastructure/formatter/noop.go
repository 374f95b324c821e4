package formatter

import (
	"context"

	"ai-coder/config"
	"ai-coder/services/coder-service/internal/domain"
)

// Noop never formats.
type Noop struct{}

func (Noop) Available() bool { return false }

func (Noop) Format(_ context.Context, code, _ string) (string, error) {
	return code, nil
}

// New returns the formatter selected by cfg.
func New(cfg config.FormatterConfig) domain.CodeFormatter {
	if !cfg.Enabled {
		return Noop{}
	}
	b := NewBlack(cfg.BlackPath)
	if !b.Available() {
		return Noop{}
	}
	return b
}
