package formatter

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"ai-coder/config"
	"ai-coder/services/coder-service/internal/domain"
)

func requireBlack(t *testing.T) *Black {
	t.Helper()
	if _, err := exec.LookPath("black"); err != nil {
		t.Skip("black not installed")
	}
	return NewBlack("black")
}

func TestNoop(t *testing.T) {
	var f domain.CodeFormatter = Noop{}
	if f.Available() {
		t.Error("Noop.Available() = true")
	}
	got, err := f.Format(context.Background(), "x=1", "python")
	if err != nil || got != "x=1" {
		t.Errorf("Format() = %q, %v", got, err)
	}
}

func TestNewDisabled(t *testing.T) {
	if _, ok := New(config.FormatterConfig{Enabled: false, BlackPath: "black"}).(Noop); !ok {
		t.Error("New(disabled) did not return Noop")
	}
	if _, ok := New(config.FormatterConfig{Enabled: true, BlackPath: "/nonexistent/black"}).(Noop); !ok {
		t.Error("New(missing binary) did not return Noop")
	}
}

func TestBlackMissingBinaryPassesThrough(t *testing.T) {
	b := NewBlack("/nonexistent/black")
	if b.Available() {
		t.Fatal("Available() = true for a missing binary")
	}
	got, err := b.Format(context.Background(), "x=1", "python")
	if err != nil || got != "x=1" {
		t.Errorf("Format() = %q, %v", got, err)
	}
}

func TestBlackFormat(t *testing.T) {
	b := requireBlack(t)
	ctx := context.Background()

	got, err := b.Format(ctx, "x=1\n", "python")
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got != "x = 1\n" {
		t.Errorf("Format() = %q, want %q", got, "x = 1\n")
	}

	again, err := b.Format(ctx, got, "python")
	if err != nil || again != got {
		t.Errorf("Format() not idempotent: %q, %v", again, err)
	}
}

func TestBlackSkipsOtherLanguages(t *testing.T) {
	b := requireBlack(t)
	src := "const x=1"
	got, err := b.Format(context.Background(), src, "javascript")
	if err != nil || got != src {
		t.Errorf("Format(javascript) = %q, %v", got, err)
	}
}

func TestBlackInvalidInput(t *testing.T) {
	b := requireBlack(t)
	_, err := b.Format(context.Background(), "def f(:\n", "python")
	if !errors.Is(err, domain.ErrFormatFailed) {
		t.Errorf("Format() error = %v, want ErrFormatFailed", err)
	}
}
