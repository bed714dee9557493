package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: dllup <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render      Render .dllu files to HTML or LaTeX")
	fmt.Fprintln(w, "  watch       Render, then re-render on change")
	fmt.Fprintln(w, "  css         Print the page and code stylesheets")
	fmt.Fprintln(w, "  doctor      Check the equation renderer and cache")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'dllup help <command>' for details on a specific command.")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: dllup render <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render .dllu files. A directory is searched recursively; \"-\" reads")
	fmt.Fprintln(w, "standard input and writes standard output.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    File, directory or - (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	printRenderFlags(w)
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: dllup watch <dir> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render every .dllu file under dir, then re-render files as they change")
	fmt.Fprintln(w, "until interrupted. Accepts the render flags.")
	fmt.Fprintln(w)
	printRenderFlags(w)
}

func printRenderFlags(w io.Writer) {
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>         Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>         Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>           Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --latex                 Write LaTeX instead of HTML")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Equations:")
	fmt.Fprintln(w, "      --math-command <s>      tex2svg-compatible program")
	fmt.Fprintln(w, "      --cache-dir <path>      SVG cache directory (default: texcache)")
	fmt.Fprintln(w, "      --math-timeout <d>      Timeout per equation (default: 30s)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Pages:")
	fmt.Fprintln(w, "      --page                  Wrap HTML in a standalone page")
	fmt.Fprintln(w, "      --style <name>          Page stylesheet: default, plain")
	fmt.Fprintln(w, "      --highlight-style <s>   Chroma style for code (default: monokai)")
	fmt.Fprintln(w, "      --asset-path <dir>      Custom styles/ and templates/ directory")
	fmt.Fprintln(w, "      --date <s>              Footer date: \"auto\" or \"auto:FORMAT\"")
	fmt.Fprintln(w, "                              Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                              Presets (case-insensitive): iso, european, us, long")
	fmt.Fprintln(w, "      --root <url>            Site URL prefixed to root-relative links")
	fmt.Fprintln(w, "      --no-dimensions         Skip image dimension lookup")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                 Only show errors")
	fmt.Fprintln(w, "  -v, --verbose               Show detailed timing")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "watch":
		printWatchUsage(env.Stdout)
	case "css":
		printCSSUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: dllup version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: dllup help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %q", ErrUsage, args[0])
	}
	return nil
}
