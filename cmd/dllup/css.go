package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	dllup "github.com/alnah/go-dllup"
	"github.com/alnah/go-dllup/internal/hints"
)

// runCSS prints the page stylesheet followed by the code stylesheet, for
// sites that serve CSS separately from fragments.
func runCSS(args []string, env *Environment) error {
	fs := flag.NewFlagSet("css", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	style := fs.String("style", dllup.DefaultStyle, "page stylesheet name")
	highlightStyle := fs.String("highlight-style", "", "chroma style for code blocks")
	assetPath := fs.String("asset-path", "", "custom asset directory")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printCSSUsage(env.Stdout)
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	loader, err := dllup.NewAssetLoader(*assetPath)
	if err != nil {
		return err
	}
	css, err := loader.LoadStyle(*style)
	if err != nil {
		if errors.Is(err, dllup.ErrStyleNotFound) {
			return fmt.Errorf("%w%s", err, hints.ForStyleNotFound(dllup.LoaderStyles(loader)))
		}
		return err
	}

	conv, err := dllup.NewConverter(append([]dllup.Option{dllup.WithHighlightStyle(*highlightStyle)}, env.Options...)...)
	if err != nil {
		return err
	}

	fmt.Fprintln(env.Stdout, css)
	return conv.HighlightCSS(env.Stdout)
}

// printCSSUsage prints usage for the css command.
func printCSSUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: dllup css [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the page stylesheet and the code highlighting stylesheet.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --style <name>          Page stylesheet (default: default)")
	fmt.Fprintln(w, "      --highlight-style <s>   Chroma style (default: monokai)")
	fmt.Fprintln(w, "      --asset-path <dir>      Custom asset directory")
}
