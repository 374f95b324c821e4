package formatter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"ai-coder/services/coder-service/internal/domain"

	"github.com/charmbracelet/log"
)

const defaultFormatTimeout = 10 * time.Second

// Black formats Python source by piping it through `black -q -`.
type Black struct {
	path    string
	timeout time.Duration
}

// NewBlack resolves the black binary. When it cannot be found the returned
// formatter reports Available() == false and leaves code untouched.
func NewBlack(path string) *Black {
	if path == "" {
		path = "black"
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		log.Warn("code formatter not found, formatting disabled", "path", path, "err", err)
		return &Black{timeout: defaultFormatTimeout}
	}
	return &Black{path: resolved, timeout: defaultFormatTimeout}
}

func (b *Black) Available() bool {
	return b.path != ""
}

func (b *Black) Format(ctx context.Context, code, language string) (string, error) {
	if !b.Available() || !strings.EqualFold(language, "python") {
		return code, nil
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, b.path, "-q", "-")
	cmd.Stdin = strings.NewReader(code)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%w: %s", domain.ErrFormatFailed, strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("%w: %w", domain.ErrFormatFailed, err)
	}
	return stdout.String(), nil
}
