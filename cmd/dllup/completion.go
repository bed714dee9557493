package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long   string   // --output
	Short  string   // -o (empty if none)
	Bool   bool     // takes no value
	Desc   string   // help text
	Values []string // for enum flags
	Dir    bool     // completes directories
}

// commandDef describes a command for completion.
type commandDef struct {
	Name       string
	Desc       string
	Flags      []flagDef
	TakesFiles bool // accepts .dllu arguments
}

// flagCompletionMeta holds completion hints. Flag names, types and
// descriptions come from the FlagSet.
var flagCompletionMeta = map[string]flagDef{
	"style":      {Values: []string{"default", "plain"}},
	"output":     {Dir: true},
	"cache-dir":  {Dir: true},
	"asset-path": {Dir: true},
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Bool:  f.Value.Type() == "bool",
			Desc:  f.Usage,
		}
		if meta, ok := flagCompletionMeta[f.Name]; ok {
			fd.Values = meta.Values
			fd.Dir = meta.Dir
		}
		flags = append(flags, fd)
	})
	return flags
}

// getCommands returns the command registry for completion.
func getCommands() []commandDef {
	renderFlags := extractFlagsFromFlagSet(newRenderFlagSet("render", &renderFlags{}))

	return []commandDef{
		{Name: "render", Desc: "Render .dllu files to HTML or LaTeX", Flags: renderFlags, TakesFiles: true},
		{Name: "watch", Desc: "Render, then re-render on change", Flags: renderFlags},
		{Name: "css", Desc: "Print the page and code stylesheets", Flags: []flagDef{
			{Long: "style", Desc: "page stylesheet name", Values: []string{"default", "plain"}},
			{Long: "highlight-style", Desc: "chroma style for code blocks"},
			{Long: "asset-path", Desc: "custom asset directory", Dir: true},
		}},
		{Name: "doctor", Desc: "Check the equation renderer and cache", Flags: []flagDef{
			{Long: "json", Bool: true, Desc: "print results as JSON"},
			{Long: "config", Short: "c", Desc: "config file name or path"},
			{Long: "verbose", Short: "v", Bool: true, Desc: "print the effective configuration"},
		}},
		{Name: "completion", Desc: "Generate shell completion script"},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var script string
	switch shell {
	case ShellBash:
		script = bashCompletion(getCommands())
	case ShellZsh:
		script = zshCompletion(getCommands())
	case ShellFish:
		script = fishCompletion(getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

func bashCompletion(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# bash completion for dllup\n")
	b.WriteString("_dllup_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")

	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	b.WriteString("    if [[ $COMP_CWORD -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(names, " "))
	b.WriteString("        return\n    fi\n\n")

	b.WriteString("    case \"$prev\" in\n")
	for _, f := range cmds[0].Flags {
		switch {
		case len(f.Values) > 0:
			fmt.Fprintf(&b, "        --%s) COMPREPLY=($(compgen -W %q -- \"$cur\")); return ;;\n", f.Long, strings.Join(f.Values, " "))
		case f.Dir:
			fmt.Fprintf(&b, "        --%s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n", f.Long)
		}
	}
	b.WriteString("    esac\n\n")

	b.WriteString("    case \"$cmd\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 && !c.TakesFiles {
			continue
		}
		opts := make([]string, 0, len(c.Flags)*2)
		for _, f := range c.Flags {
			opts = append(opts, "--"+f.Long)
			if f.Short != "" {
				opts = append(opts, "-"+f.Short)
			}
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		b.WriteString("            if [[ \"$cur\" == -* ]]; then\n")
		fmt.Fprintf(&b, "                COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(opts, " "))
		b.WriteString("            else\n")
		if c.TakesFiles {
			b.WriteString("                COMPREPLY=($(compgen -f -X '!*.dllu' -- \"$cur\") $(compgen -d -- \"$cur\"))\n")
		} else {
			b.WriteString("                COMPREPLY=($(compgen -d -- \"$cur\"))\n")
		}
		b.WriteString("            fi\n            ;;\n")
	}
	b.WriteString("        completion) COMPREPLY=($(compgen -W \"bash zsh fish\" -- \"$cur\")) ;;\n")
	b.WriteString("    esac\n}\n")
	b.WriteString("complete -F _dllup_completions dllup\n")
	return b.String()
}

func zshCompletion(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("#compdef dllup\n\n")
	b.WriteString("_dllup() {\n")
	b.WriteString("    local -a commands\n    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n        _describe 'command' commands\n        return\n    fi\n\n")
	b.WriteString("    case \"$words[2]\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 && !c.TakesFiles {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n            _arguments \\\n", c.Name)
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "                %s \\\n", zshFlagSpec(f))
		}
		if c.TakesFiles {
			b.WriteString("                '*:file:_files -g \"*.dllu\"'\n")
		} else {
			b.WriteString("                '*:dir:_directories'\n")
		}
		b.WriteString("            ;;\n")
	}
	b.WriteString("        completion) _values 'shell' bash zsh fish ;;\n")
	b.WriteString("    esac\n}\n\n")
	b.WriteString("compdef _dllup dllup\n")
	return b.String()
}

func zshFlagSpec(f flagDef) string {
	name := "--" + f.Long
	if f.Short != "" {
		name = "{-" + f.Short + ",--" + f.Long + "}"
	}
	spec := "[" + zshEscape(f.Desc) + "]"
	switch {
	case f.Bool:
	case len(f.Values) > 0:
		spec += ":value:(" + strings.Join(f.Values, " ") + ")"
	case f.Dir:
		spec += ":dir:_directories"
	default:
		spec += ":value:"
	}
	return name + "'" + spec + "'"
}

func zshEscape(s string) string {
	s = strings.ReplaceAll(s, "'", "'\\''")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return strings.ReplaceAll(s, ":", "\\:")
}

func fishCompletion(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# fish completion for dllup\n")
	b.WriteString("function __fish_dllup_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\nend\n\n")
	b.WriteString("function __fish_dllup_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\nend\n\n")
	b.WriteString("complete -c dllup -f\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c dllup -n __fish_dllup_needs_command -a %s -d %q\n", c.Name, c.Desc)
	}
	for _, c := range cmds {
		cond := "'__fish_dllup_using_command " + c.Name + "'"
		for _, f := range c.Flags {
			line := "complete -c dllup -n " + cond
			if f.Short != "" {
				line += " -s " + f.Short
			}
			line += " -l " + f.Long
			switch {
			case len(f.Values) > 0:
				line += " -x -a " + fmt.Sprintf("%q", strings.Join(f.Values, " "))
			case f.Dir:
				line += " -x -a '(__fish_complete_directories)'"
			case !f.Bool:
				line += " -r"
			}
			line += fmt.Sprintf(" -d %q\n", f.Desc)
			b.WriteString(line)
		}
		if c.TakesFiles {
			fmt.Fprintf(&b, "complete -c dllup -n %s -F -a '(__fish_complete_suffix .dllu)'\n", cond)
		}
	}
	b.WriteString("complete -c dllup -n '__fish_dllup_using_command completion' -a 'bash zsh fish'\n")
	return b.String()
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: dllup completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(dllup completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(dllup completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    dllup completion fish > ~/.config/fish/completions/dllup.fish")
}
