package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	dllup "github.com/alnah/go-dllup"
)

func TestRunCSS(t *testing.T) {
	t.Parallel()

	t.Run("page and code styles", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, nil)
		if err := run(context.Background(), []string{"dllup", "css", "--highlight-style", "github"}, env.Environment); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		out := env.stdout.String()
		if !strings.Contains(out, ".chroma") {
			t.Errorf("stdout missing code stylesheet:\n%s", out)
		}
		if !strings.Contains(out, "body") {
			t.Errorf("stdout missing page stylesheet:\n%s", out)
		}
	})

	t.Run("unknown page style", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, nil)
		err := run(context.Background(), []string{"dllup", "css", "--style", "neon"}, env.Environment)
		if !errors.Is(err, dllup.ErrStyleNotFound) {
			t.Fatalf("run() error = %v, want ErrStyleNotFound", err)
		}
		if !strings.Contains(err.Error(), "default") {
			t.Errorf("error lacks available styles: %v", err)
		}
	})

	t.Run("unknown highlight style", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, nil)
		err := run(context.Background(), []string{"dllup", "css", "--highlight-style", "neon"}, env.Environment)
		if !errors.Is(err, dllup.ErrUnknownHighlightStyle) {
			t.Errorf("run() error = %v, want ErrUnknownHighlightStyle", err)
		}
	})

	t.Run("help", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, nil)
		if err := run(context.Background(), []string{"dllup", "css", "-h"}, env.Environment); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		if !strings.Contains(env.stdout.String(), "Usage: dllup css") {
			t.Errorf("stdout = %q", env.stdout.String())
		}
	})
}
