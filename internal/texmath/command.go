package texmath

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-dllup/internal/logger"
	"github.com/alnah/go-dllup/internal/process"
)

// DefaultCommand is the renderer program used when none is configured. It
// ships with the mathjax-node-cli npm package.
const DefaultCommand = "tex2svg"

// ErrRender wraps failures of the external renderer.
var ErrRender = errors.New("math renderer failed")

// Renderer turns prepared TeX source into an SVG document.
type Renderer interface {
	Render(ctx context.Context, source string, inline bool) ([]byte, error)
}

// Command renders equations with an external tex2svg-compatible program.
type Command struct {
	Name   string   // program, DefaultCommand when empty
	Args   []string // extra leading arguments
	Runner process.Runner
	Log    *logger.Logger
}

// NewCommand creates a Command running name through an ExecRunner.
func NewCommand(name string, log *logger.Logger) *Command {
	return &Command{Name: name, Runner: &process.ExecRunner{}, Log: log}
}

// Render invokes the program as `name [args...] " <source>" [--inline]`. The
// leading space keeps a source starting with '-' from being read as a flag.
// Output on stderr is logged but only a failed exit or missing SVG is an error.
func (c *Command) Render(ctx context.Context, source string, inline bool) ([]byte, error) {
	name := c.Name
	if name == "" {
		name = DefaultCommand
	}
	args := append(append([]string(nil), c.Args...), " "+source)
	if inline {
		args = append(args, "--inline")
	}

	stdout, stderr, err := c.Runner.Run(ctx, name, args...)
	if msg := strings.TrimSpace(stderr); msg != "" && c.Log != nil {
		c.Log.Debug("%s: %s", name, msg)
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr); msg != "" {
			return nil, fmt.Errorf("%w: %s: %w", ErrRender, msg, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	if !strings.Contains(stdout, "<svg") {
		return nil, fmt.Errorf("%w: %w", ErrRender, ErrNoSVG)
	}
	return []byte(stdout), nil
}
