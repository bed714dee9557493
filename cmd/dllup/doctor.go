package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-dllup/internal/config"
	"github.com/alnah/go-dllup/internal/hints"
	"github.com/alnah/go-dllup/internal/imagesize"
	"github.com/alnah/go-dllup/internal/texmath"
	"github.com/alnah/go-dllup/internal/yamlutil"
)

// ErrMathUnavailable reports a missing equation renderer.
var ErrMathUnavailable = errors.New("equation renderer not available")

// shortMathTimeout is the timeout below which doctor warns.
const shortMathTimeout = 5 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string    `json:"status"` // "ready", "warnings", "errors"
	Math     mathInfo  `json:"math"`
	Cache    cacheInfo `json:"cache"`
	Env      envInfo   `json:"environment"`
	Warnings []string  `json:"warnings,omitempty"`
	Errors   []string  `json:"errors,omitempty"`

	mathMissing bool
}

// mathInfo holds equation renderer detection results.
type mathInfo struct {
	Command string `json:"command"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
}

// cacheInfo holds cache directory checks.
type cacheInfo struct {
	Dir        string `json:"dir"`
	Writable   bool   `json:"writable"`
	Database   string `json:"database,omitempty"`
	DatabaseOK bool   `json:"database_ok,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

// runDoctorCmd executes the doctor command.
func runDoctorCmd(args []string, env *Environment) error {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	jsonOutput := fs.Bool("json", false, "print results as JSON")
	flags := &renderFlags{}
	addCommonFlags(fs, &flags.common)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printDoctorUsage(env.Stdout)
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	cfg, err := loadSettings(flags, env)
	if err != nil {
		return err
	}

	result := runDoctor(cfg, env)

	if *jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
		if flags.common.verbose {
			printDoctorConfig(env.Stdout, cfg)
		}
	}

	switch {
	case result.mathMissing:
		return ErrMathUnavailable
	case result.Status == "errors":
		return fmt.Errorf("doctor found %d error(s)", len(result.Errors))
	}
	return nil
}

// runDoctor performs all diagnostic checks.
func runDoctor(cfg *config.Config, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	checkMath(result, cfg, env)
	checkCache(result, cfg)
	checkEnvironment(result, env)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}
	return result
}

// checkMath locates the equation renderer.
func checkMath(result *doctorResult, cfg *config.Config, env *Environment) {
	name := cfg.Math.Command
	if name == "" {
		name = texmath.DefaultCommand
	}
	result.Math.Command = name

	path, err := env.LookPath(name)
	if err != nil {
		inContainer, _ := isContainer(env.Getenv)
		result.mathMissing = true
		result.Errors = append(result.Errors,
			fmt.Sprintf("%s not found: equations will render empty%s", name,
				hints.ForMathCommand(cfg.Math.Command != "", inContainer)))
		return
	}
	result.Math.Found = true
	result.Math.Path = path

	if cfg.Math.Timeout > 0 && cfg.Math.Timeout < shortMathTimeout {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("math timeout %v is short%s", cfg.Math.Timeout, hints.ForTimeout()))
	}
}

// checkCache verifies the equation cache and, when enabled, the dimension
// database.
func checkCache(result *doctorResult, cfg *config.Config) {
	dir := cfg.Math.CacheDir
	if dir == "" {
		dir = texmath.DefaultCacheDir
	}
	result.Cache.Dir = dir

	if err := probeWritable(dir); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("cache directory %s not writable: %v%s", dir, err, hints.ForCacheDirectory()))
		return
	}
	result.Cache.Writable = true

	if !cfg.Site.Dimensions {
		return
	}
	db := cfg.Site.Database
	if db == "" {
		db = filepath.Join(dir, imagesize.DefaultDatabase)
	}
	result.Cache.Database = db

	cache, err := imagesize.Open(db, &imagesize.Decoder{})
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("dimension cache: %v", err))
		return
	}
	_ = cache.Close()
	result.Cache.DatabaseOK = true
}

// probeWritable creates dir if needed and writes a scratch file into it.
func probeWritable(dir string) error {
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".dllup-doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, env *Environment) {
	result.Env.Container, result.Env.ContainerHint = isContainer(env.Getenv)

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if env.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(getenv func(string) string) (bool, string) {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "dllup doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Equation renderer")
	if r.Math.Found {
		fmt.Fprintf(w, "  [OK] %s found at %s\n", r.Math.Command, r.Math.Path)
	} else {
		fmt.Fprintf(w, "  [ERROR] %s not found\n", r.Math.Command)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Cache")
	if r.Cache.Writable {
		fmt.Fprintf(w, "  [OK] %s: writable\n", r.Cache.Dir)
	} else {
		fmt.Fprintf(w, "  [ERROR] %s: not writable\n", r.Cache.Dir)
	}
	if r.Cache.Database != "" {
		if r.Cache.DatabaseOK {
			fmt.Fprintf(w, "  [OK] Dimensions: %s\n", r.Cache.Database)
		} else {
			fmt.Fprintf(w, "  [ERROR] Dimensions: %s\n", r.Cache.Database)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to render")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

// printDoctorConfig prints the effective configuration as YAML.
func printDoctorConfig(w io.Writer, cfg *config.Config) {
	data, err := yamlutil.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(w, "\nConfiguration: %v\n", err)
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration")
	fmt.Fprint(w, string(data))
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: dllup doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that the equation renderer is installed and the cache is writable.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json            Print results as JSON")
	fmt.Fprintln(w, "  -c, --config <name>   Config file name or path")
	fmt.Fprintln(w, "  -v, --verbose         Also print the effective configuration")
}
