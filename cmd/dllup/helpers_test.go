package main

// Notes:
// - Test helpers shared across command tests: a scripted environment and a
//   fake equation renderer so no test depends on tex2svg being installed.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	dllup "github.com/alnah/go-dllup"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

const testSVG = `<svg style="vertical-align: -0.2ex;" height="1.8ex"></svg>`

// fakeMath returns a fixed SVG and fails for sources containing "fail".
type fakeMath struct {
	calls atomic.Int32
}

func (f *fakeMath) Render(_ context.Context, source string, _ bool) ([]byte, error) {
	f.calls.Add(1)
	if strings.Contains(source, "fail") {
		return nil, errors.New("renderer exploded")
	}
	return []byte(testSVG), nil
}

// recordingRenderer records rendered paths and fails for configured ones.
type recordingRenderer struct {
	calls atomic.Int32
	fail  map[string]bool
}

func (r *recordingRenderer) RenderFile(_ context.Context, f FileToRender) RenderResult {
	r.calls.Add(1)
	res := RenderResult{InputPath: f.InputPath, OutputPath: f.OutputPath}
	if r.fail[f.InputPath] {
		res.Err = errors.New("boom")
	}
	return res
}

// ---------------------------------------------------------------------------
// Environment
// ---------------------------------------------------------------------------

// testEnv holds an Environment and its captured output.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	math   *fakeMath
}

// newTestEnv builds an isolated environment. vars act as the process
// environment; equations go to a fake renderer with a temporary cache.
func newTestEnv(t *testing.T, vars map[string]string) *testEnv {
	t.Helper()

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	math := &fakeMath{}
	env := &Environment{
		Now:    func() time.Time { return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC) },
		Stdin:  strings.NewReader(""),
		Stdout: stdout,
		Stderr: stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		LookPath: func(name string) (string, error) { return "/usr/bin/" + name, nil },
		Options: []dllup.Option{
			dllup.WithMathRenderer(math),
			dllup.WithCacheDir(filepath.Join(t.TempDir(), "texcache")),
		},
	}
	return &testEnv{Environment: env, stdout: stdout, stderr: stderr, math: math}
}

// writeSource writes a document under dir and returns its path.
func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

// readFile returns the content of path or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return string(data)
}
