package main

// Notes:
// - GenerateCompletion: we check the markers each shell needs to load the
//   script, plus every command and render flag, rather than snapshotting
//   whole scripts.
// - extractFlagsFromFlagSet: completion hints are merged from the metadata
//   table.

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestGenerateCompletion - Per-shell markers
// ---------------------------------------------------------------------------

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		shell        Shell
		wantContains []string
	}{
		{ShellBash, []string{"_dllup_completions()", "complete -F _dllup_completions dllup", "compgen", "'!*.dllu'"}},
		{ShellZsh, []string{"#compdef dllup", "_arguments", "_describe 'command' commands", `_files -g "*.dllu"`}},
		{ShellFish, []string{"complete -c dllup", "__fish_dllup_needs_command", "__fish_complete_suffix .dllu"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.shell), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			if err := GenerateCompletion(&buf, tt.shell); err != nil {
				t.Fatalf("GenerateCompletion(%s) error = %v", tt.shell, err)
			}
			script := buf.String()
			for _, want := range tt.wantContains {
				if !strings.Contains(script, want) {
					t.Errorf("%s script missing %q", tt.shell, want)
				}
			}
			for _, cmd := range getCommands() {
				if !strings.Contains(script, cmd.Name) {
					t.Errorf("%s script missing command %q", tt.shell, cmd.Name)
				}
			}
			for _, flag := range []string{"output", "math-command", "cache-dir", "highlight-style", "no-dimensions"} {
				if !strings.Contains(script, flag) {
					t.Errorf("%s script missing flag %q", tt.shell, flag)
				}
			}
		})
	}
}

func TestGenerateCompletion_Unsupported(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := GenerateCompletion(&buf, Shell("tcsh"))
	if !errors.Is(err, ErrUnsupportedShell) {
		t.Errorf("GenerateCompletion(tcsh) error = %v, want ErrUnsupportedShell", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes for an unsupported shell", buf.Len())
	}
}

// ---------------------------------------------------------------------------
// TestExtractFlagsFromFlagSet
// ---------------------------------------------------------------------------

func TestExtractFlagsFromFlagSet(t *testing.T) {
	t.Parallel()

	flags := extractFlagsFromFlagSet(newRenderFlagSet("render", &renderFlags{}))
	byName := make(map[string]flagDef, len(flags))
	for _, f := range flags {
		byName[f.Long] = f
	}

	if f := byName["output"]; f.Short != "o" || !f.Dir || f.Bool {
		t.Errorf("output = %+v, want -o directory flag", f)
	}
	if f := byName["style"]; len(f.Values) != 2 || f.Values[0] != "default" {
		t.Errorf("style = %+v, want enum", f)
	}
	if f := byName["page"]; !f.Bool {
		t.Errorf("page = %+v, want bool", f)
	}
	if f := byName["workers"]; f.Short != "w" || f.Bool {
		t.Errorf("workers = %+v", f)
	}
}

// ---------------------------------------------------------------------------
// TestRunCompletion
// ---------------------------------------------------------------------------

func TestRunCompletion(t *testing.T) {
	t.Parallel()

	t.Run("no args prints usage", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, nil)
		if err := runCompletion(nil, env.Environment); err != nil {
			t.Fatalf("runCompletion() error = %v", err)
		}
		out := env.stdout.String()
		for _, want := range []string{"Usage: dllup completion", "bash", "zsh", "fish"} {
			if !strings.Contains(out, want) {
				t.Errorf("usage missing %q", want)
			}
		}
	})

	t.Run("unsupported shell", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t, nil)
		err := runCompletion([]string{"powershell"}, env.Environment)
		if exitCodeFor(err) != ExitUsage {
			t.Errorf("exit code = %d, want %d (err: %v)", exitCodeFor(err), ExitUsage, err)
		}
	})
}
