package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	dllup "github.com/alnah/go-dllup"
	"github.com/alnah/go-dllup/internal/config"
	"github.com/alnah/go-dllup/internal/process"
)

// Environment variables read by the CLI itself. The config package handles
// the ones that override file values.
const (
	envConfigName = "DLLUP_CONFIG"
	envWorkers    = "DLLUP_WORKERS"
)

// knownEnvVars lists valid DLLUP_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	envConfigName:           true,
	envWorkers:              true,
	config.EnvMathCommand:    true,
	config.EnvCacheDir:       true,
	config.EnvHighlightStyle: true,
	config.EnvRoot:           true,
}

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now     func() time.Time
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	Environ func() []string

	// LookPath resolves external programs.
	LookPath func(string) (string, error)

	// Options are appended to every Converter the CLI builds.
	Options []dllup.Option
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:      time.Now,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Getenv:   os.Getenv,
		Environ:  os.Environ,
		LookPath: process.LookPath,
	}
}

// envWorkerCount returns DLLUP_WORKERS, or 0 when unset or invalid.
func envWorkerCount(getenv func(string) string) int {
	v := getenv(envWorkers)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// warnUnknownEnvVars logs warnings for unrecognized DLLUP_* variables.
// Helps catch typos like DLLUP_CACHEDIR instead of DLLUP_CACHE_DIR.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, "DLLUP_") {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}
