package texmath

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alnah/go-dllup/internal/logger"
)

const testSVG = `<svg style="vertical-align: -0.5ex;" height="2ex"></svg>`

// fakeRenderer counts invocations and fails for sources containing "fail".
type fakeRenderer struct {
	calls atomic.Int32
	delay time.Duration
}

func (f *fakeRenderer) Render(ctx context.Context, source string, _ bool) ([]byte, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if strings.Contains(source, "fail") {
		return nil, errors.New("bad equation")
	}
	return []byte(testSVG), nil
}

// abandonedRenderer blocks its first call until that caller's context ends
// and renders every later call at once.
type abandonedRenderer struct {
	calls   atomic.Int32
	started chan struct{}
}

func (r *abandonedRenderer) Render(ctx context.Context, _ string, _ bool) ([]byte, error) {
	if r.calls.Add(1) == 1 {
		close(r.started)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return []byte(testSVG), nil
}

func newTestBridge(t *testing.T, r Renderer, log *logger.Logger) *Bridge {
	t.Helper()
	return New(Config{CacheDir: t.TempDir(), URLPrefix: "/tex/", Renderer: r, Log: log})
}

func TestBridge_RenderMath(t *testing.T) {
	t.Parallel()

	b := newTestBridge(t, &fakeRenderer{}, nil)
	got := b.RenderMath(context.Background(), "a < b", true)

	want := `<img src="/tex/` + Key("a < b", true) + `.svg" alt="a &lt; b" style="vertical-align: -0.5ex;height:2ex;"/>`
	if got != want {
		t.Errorf("RenderMath() =\n%s\nwant\n%s", got, want)
	}
}

func TestBridge_CachesByKey(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{}
	b := newTestBridge(t, r, nil)
	ctx := context.Background()

	first := b.RenderMath(ctx, "x^2", false)
	second := b.RenderMath(ctx, "x^2", false)
	if first != second {
		t.Errorf("cached render differs:\n%s\n%s", first, second)
	}
	if n := r.calls.Load(); n != 1 {
		t.Errorf("renderer called %d times, want 1", n)
	}

	// Inline and block of the same source are distinct entries.
	b.RenderMath(ctx, "x^2", true)
	if n := r.calls.Load(); n != 2 {
		t.Errorf("renderer called %d times, want 2", n)
	}

	for _, key := range []string{Key("x^2", false), Key("x^2", true)} {
		if _, err := os.Stat(filepath.Join(b.CacheDir(), key+".svg")); err != nil {
			t.Errorf("cache file for %s: %v", key, err)
		}
	}
}

func TestBridge_EmptyCacheFileIsRerendered(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{}
	b := newTestBridge(t, r, nil)
	path := filepath.Join(b.CacheDir(), Key("y", false)+".svg")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if got := b.RenderMath(context.Background(), "y", false); got == "" {
		t.Fatal("RenderMath() returned empty output")
	}
	if n := r.calls.Load(); n != 1 {
		t.Errorf("renderer called %d times, want 1", n)
	}
}

func TestBridge_ExistingCacheSkipsRenderer(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{}
	b := newTestBridge(t, r, nil)
	path := filepath.Join(b.CacheDir(), Key("z", true)+".svg")
	if err := os.WriteFile(path, []byte(`<svg height="1ex"></svg>`), 0o644); err != nil {
		t.Fatal(err)
	}

	got := b.RenderMath(context.Background(), "z", true)
	if !strings.Contains(got, `style="height:1ex;"`) {
		t.Errorf("RenderMath() = %s", got)
	}
	if n := r.calls.Load(); n != 0 {
		t.Errorf("renderer called %d times, want 0", n)
	}
}

func TestBridge_FailureIsIsolated(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	b := newTestBridge(t, &fakeRenderer{}, logger.New(&buf, false))
	ctx := context.Background()

	if got := b.RenderMath(ctx, "fail here", false); got != "" {
		t.Errorf("RenderMath() = %q, want empty", got)
	}
	if !strings.Contains(buf.String(), "Equation error: fail here") {
		t.Errorf("log = %q, want equation error with source", buf.String())
	}
	if _, err := os.Stat(filepath.Join(b.CacheDir(), Key("fail here", false)+".svg")); !os.IsNotExist(err) {
		t.Error("failed equation should not be cached")
	}
	if got := b.RenderMath(ctx, "ok", false); got == "" {
		t.Error("a later equation should still render")
	}
}

func TestBridge_Timeout(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{delay: time.Second}
	b := New(Config{CacheDir: t.TempDir(), Renderer: r, Timeout: 20 * time.Millisecond})

	start := time.Now()
	if got := b.RenderMath(context.Background(), "slow", false); got != "" {
		t.Errorf("RenderMath() = %q, want empty", got)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("RenderMath() took %v, timeout not applied", elapsed)
	}
}

func TestBridge_ConcurrentSameEquation(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{delay: 50 * time.Millisecond}
	b := newTestBridge(t, r, nil)

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = b.RenderMath(context.Background(), "e^{i\\pi}", false)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if got != results[0] || got == "" {
			t.Errorf("result %d = %q", i, got)
		}
	}
	if n := r.calls.Load(); n != 1 {
		t.Errorf("renderer called %d times, want 1", n)
	}
}

func TestBridge_UnwritableCache(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	b := New(Config{CacheDir: file, Renderer: &fakeRenderer{}})

	if _, _, err := b.SVG(context.Background(), "x", false); !errors.Is(err, ErrCache) {
		t.Errorf("SVG() error = %v, want ErrCache", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	b := New(Config{})
	if b.CacheDir() != DefaultCacheDir {
		t.Errorf("CacheDir() = %q, want %q", b.CacheDir(), DefaultCacheDir)
	}
	if b.prefix != DefaultURLPrefix || b.timeout != DefaultTimeout {
		t.Errorf("defaults not applied: prefix=%q timeout=%v", b.prefix, b.timeout)
	}
	if _, ok := b.renderer.(*Command); !ok {
		t.Errorf("default renderer = %T, want *Command", b.renderer)
	}
}

func TestBridge_CanceledLeaderDoesNotFailWaiters(t *testing.T) {
	t.Parallel()

	r := &abandonedRenderer{started: make(chan struct{})}
	b := newTestBridge(t, r, nil)

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, _, err := b.SVG(leaderCtx, "e^x", false)
		leaderErr <- err
	}()
	<-r.started

	type result struct {
		svg []byte
		err error
	}
	waiter := make(chan result, 1)
	go func() {
		_, svg, err := b.SVG(context.Background(), "e^x", false)
		waiter <- result{svg, err}
	}()

	// Give the waiter time to join the in-flight render before it is abandoned.
	time.Sleep(50 * time.Millisecond)
	cancel()

	if err := <-leaderErr; !errors.Is(err, context.Canceled) {
		t.Errorf("leader error = %v, want context.Canceled", err)
	}
	got := <-waiter
	if got.err != nil {
		t.Fatalf("waiter error = %v, want a rendered equation", got.err)
	}
	if string(got.svg) != testSVG {
		t.Errorf("waiter svg = %q, want %q", got.svg, testSVG)
	}
}
