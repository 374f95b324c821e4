package executor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"ai-coder/services/coder-service/internal/domain"

	"github.com/charmbracelet/log"
)

const DefaultTimeout = 5 * time.Second

// Python runs a snippet with `python3 -c` under a wall-clock limit. It is not a
// sandbox: the child has the privileges of this process.
type Python struct {
	path      string
	timeout   time.Duration
	maxOutput int
}

// NewPython falls back to DefaultTimeout and DefaultMaxOutput for non-positive values.
func NewPython(path string, timeout time.Duration, maxOutput int) *Python {
	if path == "" {
		path = "python3"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxOutput <= 0 {
		maxOutput = DefaultMaxOutput
	}
	return &Python{path: path, timeout: timeout, maxOutput: maxOutput}
}

// Execute returns stdout, or stderr when stdout is empty. A non-zero exit status is
// reported through that output, not as an error. Each stream keeps at most
// maxOutput bytes.
func (p *Python) Execute(ctx context.Context, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", fmt.Errorf("%w: no code provided", domain.ErrInvalidArgument)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	stdout, stderr := newCappedBuffer(p.maxOutput), newCappedBuffer(p.maxOutput)
	cmd := exec.CommandContext(ctx, p.path, "-c", code)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = time.Second

	start := time.Now()
	err := cmd.Run()
	logger := log.FromContext(ctx).With("elapsed", time.Since(start))

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		logger.Warn("code execution timed out", "timeout", p.timeout)
		return "", fmt.Errorf("%w after %s", domain.ErrExecutionTimeout, p.timeout)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", fmt.Errorf("%w: %w", domain.ErrExecutionFailed, err)
		}
		logger.Debug("code exited non-zero", "code", exitErr.ExitCode())
	}
	if stdout.truncated || stderr.truncated {
		logger.Warn("code output truncated", "max_output", p.maxOutput)
	}

	if stdout.Len() > 0 {
		return stdout.String(), nil
	}
	return stderr.String(), nil
}
