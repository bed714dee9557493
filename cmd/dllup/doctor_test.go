package main

// Notes:
// - runDoctor: each check with a scripted LookPath and temporary cache
//   directories, so results do not depend on the host.
// - isContainer: only the environment signals are tested; /.dockerenv
//   depends on the host.

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-dllup/internal/config"
)

func missingLookPath(string) (string, error) { return "", errors.New("not found") }

// doctorConfig returns a config whose cache lives under the test directory.
func doctorConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Math.CacheDir = filepath.Join(t.TempDir(), "texcache")
	return cfg
}

// ---------------------------------------------------------------------------
// TestRunDoctor
// ---------------------------------------------------------------------------

func TestRunDoctor(t *testing.T) {
	t.Parallel()

	t.Run("ready", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, nil)
		result := runDoctor(doctorConfig(t), env.Environment)
		if result.Status != "ready" {
			t.Errorf("Status = %q, want ready (errors: %v, warnings: %v)", result.Status, result.Errors, result.Warnings)
		}
		if !result.Math.Found || result.Math.Command != "tex2svg" || result.Math.Path != "/usr/bin/tex2svg" {
			t.Errorf("Math = %+v", result.Math)
		}
		if !result.Cache.Writable {
			t.Error("cache not writable")
		}
	})

	t.Run("missing renderer", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, nil)
		env.LookPath = missingLookPath
		cfg := doctorConfig(t)
		cfg.Math.Command = "mytex"
		result := runDoctor(cfg, env.Environment)

		if result.Status != "errors" || !result.mathMissing {
			t.Errorf("Status = %q, mathMissing = %v", result.Status, result.mathMissing)
		}
		if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "mytex not found") {
			t.Errorf("Errors = %v", result.Errors)
		}
	})

	t.Run("short timeout", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, nil)
		cfg := doctorConfig(t)
		cfg.Math.Timeout = time.Second
		result := runDoctor(cfg, env.Environment)

		if result.Status != "warnings" || len(result.Warnings) != 1 {
			t.Errorf("Status = %q, Warnings = %v", result.Status, result.Warnings)
		}
	})

	t.Run("dimension database", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, nil)
		cfg := doctorConfig(t)
		cfg.Site.Dimensions = true
		result := runDoctor(cfg, env.Environment)

		want := filepath.Join(cfg.Math.CacheDir, "dimensions.db")
		if result.Cache.Database != want || !result.Cache.DatabaseOK {
			t.Errorf("Cache = %+v, want database %s", result.Cache, want)
		}
		if _, err := os.Stat(want); err != nil {
			t.Errorf("database not created: %v", err)
		}
	})

	t.Run("unwritable cache", func(t *testing.T) {
		t.Parallel()

		blocker := writeSource(t, t.TempDir(), "file", "x")
		cfg := config.DefaultConfig()
		cfg.Math.CacheDir = filepath.Join(blocker, "texcache")
		env := newTestEnv(t, nil)
		result := runDoctor(cfg, env.Environment)

		if result.Cache.Writable || result.Status != "errors" {
			t.Errorf("Cache = %+v, Status = %q", result.Cache, result.Status)
		}
	})

	t.Run("CI detection", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, map[string]string{"GITHUB_ACTIONS": "true"})
		result := runDoctor(doctorConfig(t), env.Environment)
		if !result.Env.CI {
			t.Error("CI not detected")
		}
	})
}

func TestIsContainer_EnvSignals(t *testing.T) {
	t.Parallel()

	if _, err := os.Stat("/.dockerenv"); err == nil {
		t.Skip("host is a docker container")
	}

	tests := []struct {
		vars     map[string]string
		want     bool
		wantHint string
	}{
		{map[string]string{"container": "podman"}, true, "container=podman"},
		{map[string]string{"KUBERNETES_SERVICE_HOST": "10.0.0.1"}, true, "KUBERNETES_SERVICE_HOST"},
		{nil, false, ""},
	}
	for _, tt := range tests {
		got, hint := isContainer(func(k string) string { return tt.vars[k] })
		if got != tt.want || hint != tt.wantHint {
			t.Errorf("isContainer(%v) = (%v, %q), want (%v, %q)", tt.vars, got, hint, tt.want, tt.wantHint)
		}
	}
}

func TestProbeWritable(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "cache")
	if err := probeWritable(dir); err != nil {
		t.Fatalf("probeWritable() error = %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("probeWritable left %d file(s) behind", len(entries))
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd - Command output and exit codes
// ---------------------------------------------------------------------------

func TestRunDoctorCmd(t *testing.T) {
	t.Parallel()

	t.Run("human output", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, map[string]string{config.EnvCacheDir: filepath.Join(t.TempDir(), "tc")})
		if err := run(context.Background(), []string{"dllup", "doctor", "-v"}, env.Environment); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		out := env.stdout.String()
		for _, want := range []string{"[OK] tex2svg found at /usr/bin/tex2svg", "Status: Ready to render", "Configuration", "cacheDir:"} {
			if !strings.Contains(out, want) {
				t.Errorf("stdout missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("json output", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, map[string]string{config.EnvCacheDir: filepath.Join(t.TempDir(), "tc")})
		if err := run(context.Background(), []string{"dllup", "doctor", "--json"}, env.Environment); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		var got doctorResult
		if err := json.Unmarshal([]byte(env.stdout.String()), &got); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, env.stdout.String())
		}
		if got.Status != "ready" || !got.Math.Found {
			t.Errorf("result = %+v", got)
		}
	})

	t.Run("missing renderer exits with math code", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, map[string]string{config.EnvCacheDir: filepath.Join(t.TempDir(), "tc")})
		env.LookPath = missingLookPath
		err := run(context.Background(), []string{"dllup", "doctor"}, env.Environment)
		if !errors.Is(err, ErrMathUnavailable) || exitCodeFor(err) != ExitMath {
			t.Errorf("run() error = %v (exit %d), want ErrMathUnavailable", err, exitCodeFor(err))
		}
		if !strings.Contains(env.stdout.String(), "[ERROR] tex2svg not found") {
			t.Errorf("stdout = %q", env.stdout.String())
		}
	})

	t.Run("bad flag", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, nil)
		err := run(context.Background(), []string{"dllup", "doctor", "--bogus"}, env.Environment)
		if !errors.Is(err, ErrUsage) {
			t.Errorf("run() error = %v, want ErrUsage", err)
		}
	})
}
