package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	flag "github.com/spf13/pflag"

	dllup "github.com/alnah/go-dllup"
	"github.com/alnah/go-dllup/internal/config"
	"github.com/alnah/go-dllup/internal/dateutil"
	"github.com/alnah/go-dllup/internal/fileutil"
	"github.com/alnah/go-dllup/internal/hints"
	"github.com/alnah/go-dllup/internal/imagesize"
	"github.com/alnah/go-dllup/internal/logger"
)

// Sentinel errors for render operations.
var (
	ErrNoInput     = errors.New("no input specified")
	ErrReadSource  = errors.New("failed to read source file")
	ErrWriteOutput = errors.New("failed to write output file")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// stdinPath selects standard input and output.
const stdinPath = "-"

// latexBanner opens every LaTeX output.
const latexBanner = "% LaTeX document generated using dllup.\n"

// RenderResult holds the outcome of a single document.
type RenderResult struct {
	InputPath  string
	OutputPath string
	Skipped    bool // page already generated from the unchanged source
	Err        error
	Duration   time.Duration
}

// siteRenderer turns sources into output files. It is shared by all workers.
type siteRenderer struct {
	conv *dllup.Converter
	page *dllup.Page      // nil unless pages are generated
	dims *imagesize.Cache // nil unless dimensions are looked up
	cfg  *config.Config
	date string
	log  *logger.Logger
}

// Compile-time interface implementation check.
var _ fileRenderer = (*siteRenderer)(nil)

// newSiteRenderer builds the converter and, in page mode, the page template
// and the dimension cache.
func newSiteRenderer(cfg *config.Config, env *Environment, verbose bool) (*siteRenderer, error) {
	conv, err := dllup.NewConverter(converterOptions(cfg, env, verbose)...)
	if err != nil {
		if errors.Is(err, dllup.ErrUnknownHighlightStyle) {
			return nil, fmt.Errorf("%w%s", err, hints.ForStyleNotFound(dllup.HighlightStyles()))
		}
		return nil, err
	}

	r := &siteRenderer{conv: conv, cfg: cfg, log: logger.New(env.Stderr, verbose)}
	r.log.Info("output %s, equations cached in %s, code style %s",
		r.outputMode(), conv.CacheDir(), conv.HighlightStyle())
	if cfg.Output.LaTeX || !cfg.Output.Page {
		return r, nil
	}

	if r.page, err = newPage(cfg, conv); err != nil {
		return nil, err
	}
	if r.date, err = dateutil.Stamp(cfg.Output.Date, env.Now()); err != nil {
		return nil, err
	}

	if cfg.Site.Dimensions {
		dbPath := cfg.Site.Database
		if dbPath == "" {
			dbPath = filepath.Join(conv.CacheDir(), imagesize.DefaultDatabase)
		}
		if r.dims, err = imagesize.Open(dbPath, &imagesize.Decoder{}); err != nil {
			return nil, fmt.Errorf("opening dimension cache: %w%s", err, hints.ForCacheDirectory())
		}
	}
	return r, nil
}

// converterOptions maps the configuration to library options. Empty fields
// leave the library defaults in place.
func converterOptions(cfg *config.Config, env *Environment, verbose bool) []dllup.Option {
	opts := []dllup.Option{
		dllup.WithCacheDir(cfg.Math.CacheDir),
		dllup.WithMathCommand(cfg.Math.Command),
		dllup.WithMathURLPrefix(cfg.Math.URLPrefix),
		dllup.WithHighlightStyle(cfg.Highlight.Style),
		dllup.WithThumbnailSuffix(cfg.Render.ThumbnailSuffix),
		dllup.WithLogger(env.Stderr, verbose),
	}
	if cfg.Math.Timeout > 0 {
		opts = append(opts, dllup.WithMathTimeout(cfg.Math.Timeout))
	}
	if cfg.Render.MaxListDepth > 0 {
		opts = append(opts, dllup.WithMaxListDepth(cfg.Render.MaxListDepth))
	}
	return append(opts, env.Options...)
}

// newPage loads the page template with the configured style and the code
// stylesheet of the converter.
func newPage(cfg *config.Config, conv *dllup.Converter) (*dllup.Page, error) {
	loader, err := dllup.NewAssetLoader(cfg.Assets.BasePath)
	if err != nil {
		return nil, err
	}

	var code bytes.Buffer
	if err := conv.HighlightCSS(&code); err != nil {
		return nil, fmt.Errorf("generating code stylesheet: %w", err)
	}

	page, err := dllup.NewPage(loader, cfg.Output.Style, code.String())
	if err != nil {
		if errors.Is(err, dllup.ErrStyleNotFound) {
			return nil, fmt.Errorf("%w%s", err, hints.ForStyleNotFound(dllup.LoaderStyles(loader)))
		}
		return nil, err
	}
	return page, nil
}

// outputMode names what RenderFile produces.
func (r *siteRenderer) outputMode() string {
	switch {
	case r.cfg.Output.LaTeX:
		return "latex"
	case r.cfg.Output.Page:
		return "page"
	default:
		return "fragment"
	}
}

// Close releases the dimension cache.
func (r *siteRenderer) Close() error {
	if r.dims == nil {
		return nil
	}
	return r.dims.Close()
}

// outputExt returns the output extension without dot.
func (r *siteRenderer) outputExt() string {
	if r.cfg.Output.LaTeX {
		return "tex"
	}
	return "html"
}

// RenderFile renders one document to its output path. Pages whose
// signature matches the source are left alone.
func (r *siteRenderer) RenderFile(ctx context.Context, f FileToRender) RenderResult {
	start := time.Now()
	result := RenderResult{InputPath: f.InputPath, OutputPath: f.OutputPath}
	finish := func(err error) RenderResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	info, err := os.Stat(f.InputPath)
	if err != nil {
		return finish(fmt.Errorf("%w: %v", ErrReadSource, err))
	}

	var sig string
	if r.page != nil {
		sig = sourceSignature(info.ModTime())
		if upToDate(f.OutputPath, sig) {
			result.Skipped = true
			return finish(nil)
		}
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return finish(fmt.Errorf("%w: %v", ErrReadSource, err))
	}

	out, err := r.render(ctx, string(content), f, sig)
	if err != nil {
		return finish(err)
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return finish(fmt.Errorf("creating output directory: %w%s", err, hints.ForOutputDirectory()))
	}
	if err := fileutil.WriteFileAtomic(f.OutputPath, out, filePermissions); err != nil {
		return finish(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}
	return finish(nil)
}

// render produces the output bytes for one source. f.InputPath is empty
// for standard input, which disables the title fallback and image lookup.
func (r *siteRenderer) render(ctx context.Context, source string, f FileToRender, sig string) ([]byte, error) {
	if r.cfg.Output.LaTeX {
		out, err := r.conv.RenderLaTeX(ctx, dllup.Input{Source: source})
		if err != nil {
			return nil, err
		}
		return []byte(latexBanner + out), nil
	}

	input := dllup.Input{Source: source}
	if f.InputPath != "" {
		input.Title = fallbackTitle(f.InputPath)
	}
	res, err := r.conv.Render(ctx, input)
	if err != nil {
		return nil, err
	}

	out := res.HTML
	if r.page != nil {
		if f.InputPath != "" {
			r.enrichImage(ctx, res.Metadata, f)
		}
		page, err := r.page.Render(ctx, dllup.PageData{
			Title:     res.Metadata[dllup.MetaTitle],
			Body:      res.HTML,
			Meta:      res.Metadata,
			Generated: r.date,
			Signature: sig,
		})
		if err != nil {
			return nil, err
		}
		out = string(page)
	}

	out, err = dllup.RewriteRootURLs(out, r.cfg.Site.Root)
	if err != nil {
		return nil, fmt.Errorf("rewriting site links: %w", err)
	}
	return []byte(out), nil
}

// renderStream renders standard input to standard output.
func (r *siteRenderer) renderStream(ctx context.Context, env *Environment) error {
	source, err := io.ReadAll(env.Stdin)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadSource, err)
	}
	out, err := r.render(ctx, string(source), FileToRender{}, "")
	if err != nil {
		return err
	}
	if _, err := env.Stdout.Write(out); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// runRender orchestrates the render command.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags("render", args)
	if errors.Is(err, flag.ErrHelp) {
		printRenderUsage(env.Stdout)
		return nil
	}
	if err != nil {
		return err
	}

	r, inputPath, err := setupRender(flags, positional, env)
	if err != nil {
		return err
	}
	defer r.Close()

	if inputPath == stdinPath {
		return r.renderStream(ctx, env)
	}

	files, err := discoverFiles(inputPath, r.cfg.Output.DefaultDir, r.outputExt())
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoSources, inputPath)
	}

	workers := resolvePoolSize(flags.workers, envWorkerCount(env.Getenv))
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Workers: %d\n", workers)
	}

	results := renderBatch(ctx, r, workers, files)
	if failed := printResults(results, flags.common.quiet, flags.common.verbose, env); failed > 0 {
		return fmt.Errorf("%d render(s) failed", failed)
	}
	return nil
}

// setupRender validates flags, resolves settings and the input path, and
// builds the renderer. Shared by render and watch.
func setupRender(flags *renderFlags, positional []string, env *Environment) (*siteRenderer, string, error) {
	if err := validateWorkers(flags.workers); err != nil {
		return nil, "", err
	}
	if env.Environ != nil {
		warnUnknownEnvVars(env.Stderr, env.Environ())
	}

	cfg, err := loadSettings(flags, env)
	if err != nil {
		return nil, "", err
	}

	inputPath, err := resolveInputPath(positional, cfg)
	if err != nil {
		return nil, "", err
	}

	r, err := newSiteRenderer(cfg, env, flags.common.verbose)
	if err != nil {
		return nil, "", err
	}
	return r, inputPath, nil
}

// resolveInputPath picks the positional argument, then input.defaultDir.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// ResultSummary holds the count of rendered, unchanged and failed documents.
type ResultSummary struct {
	Succeeded int
	Skipped   int
	Failed    int
}

// countResults tallies results.
func countResults(results []RenderResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		switch {
		case r.Err != nil:
			summary.Failed++
		case r.Skipped:
			summary.Skipped++
		default:
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs render results and returns the failure count.
func printResults(results []RenderResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		switch {
		case r.Skipped:
			if verbose {
				fmt.Fprintf(env.Stdout, "Unchanged %s\n", r.OutputPath)
			}
		case verbose:
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		default:
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d rendered, %d unchanged, %d failed\n", summary.Succeeded, summary.Skipped, summary.Failed)
	}

	return summary.Failed
}
