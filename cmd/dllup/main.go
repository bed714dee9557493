package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	env := DefaultEnv()

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if hasVerboseFlag(os.Args) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(env.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	ctx, stop := signal.NotifyContext(context.Background(), stopSignals...)
	err := run(ctx, os.Args, env)
	stop()

	if err != nil {
		fmt.Fprintln(env.Stderr, err)
	}
	os.Exit(exitCodeFor(err))
}

// run dispatches to a command. args includes the program name.
func run(ctx context.Context, args []string, env *Environment) error {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ErrUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "render":
		return runRender(ctx, rest, env)
	case "watch":
		return runWatch(ctx, rest, env)
	case "css":
		return runCSS(rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		return runCompletion(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "dllup %s\n", Version)
		return nil
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return fmt.Errorf("%w: %q", ErrUsage, cmd)
	}
}

// hasVerboseFlag reports whether -v or --verbose appears among the flags.
func hasVerboseFlag(args []string) bool {
	return slices.Contains(args, "-v") || slices.Contains(args, "--verbose")
}
