package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks invalid command lines.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// mathFlags holds equation renderer flags.
type mathFlags struct {
	command  string
	cacheDir string
	timeout  time.Duration
}

// outputFlags holds output mode flags.
type outputFlags struct {
	latex bool   // Write .tex instead of .html
	page  bool   // Wrap HTML in the page template
	style string // Page stylesheet name
	date  string // Footer date setting
}

// siteFlags holds publishing flags.
type siteFlags struct {
	root         string
	noDimensions bool
}

// renderFlags holds all flags for the render and watch commands.
type renderFlags struct {
	common         commonFlags
	output         string
	workers        int
	highlightStyle string
	assetPath      string
	math           mathFlags
	out            outputFlags
	site           siteFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addMathFlags adds equation renderer flags to a FlagSet.
func addMathFlags(fs *flag.FlagSet, f *mathFlags) {
	fs.StringVar(&f.command, "math-command", "", "tex2svg-compatible program")
	fs.StringVar(&f.cacheDir, "cache-dir", "", "equation SVG cache directory")
	fs.DurationVar(&f.timeout, "math-timeout", 0, "timeout per equation (e.g., 30s, 2m)")
}

// addOutputFlags adds output mode flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.BoolVar(&f.latex, "latex", false, "write LaTeX instead of HTML")
	fs.BoolVar(&f.page, "page", false, "wrap HTML in a standalone page")
	fs.StringVar(&f.style, "style", "", "page stylesheet name")
	fs.StringVar(&f.date, "date", "", "page footer date: \"auto\" or \"auto:FORMAT\"")
}

// addSiteFlags adds publishing flags to a FlagSet.
func addSiteFlags(fs *flag.FlagSet, f *siteFlags) {
	fs.StringVar(&f.root, "root", "", "site URL prefixed to root-relative links")
	fs.BoolVar(&f.noDimensions, "no-dimensions", false, "skip image dimension lookup")
}

// newRenderFlagSet registers every render flag. Completion uses the same set.
func newRenderFlagSet(name string, f *renderFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVar(&f.highlightStyle, "highlight-style", "", "chroma style for code blocks")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")

	addCommonFlags(fs, &f.common)
	addMathFlags(fs, &f.math)
	addOutputFlags(fs, &f.out)
	addSiteFlags(fs, &f.site)
	return fs
}

// parseRenderFlags parses render or watch flags and returns positional args.
func parseRenderFlags(name string, args []string) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newRenderFlagSet(name, f)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if f.common.quiet && f.common.verbose {
		return nil, nil, fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrUsage)
	}
	return f, fs.Args(), nil
}
