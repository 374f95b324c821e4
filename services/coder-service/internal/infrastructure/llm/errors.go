package llm

import (
	"context"
	"errors"
	"fmt"
	"net"

	"ai-coder/services/coder-service/internal/domain"
)

// classify maps a transport failure onto the domain errors, keeping the cause.
func classify(ctx context.Context, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", domain.ErrModelTimeout, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
}
