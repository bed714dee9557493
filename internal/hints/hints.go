// Package hints appends short remedies to CLI error messages. Every hint
// reads "\n  hint: <text>" so it lines up under the error it follows.
package hints

import (
	"errors"
	"strings"
	"syscall"
)

// ForMathCommand suggests how to get a working tex2svg. configured reports
// whether the command came from settings rather than the default name.
func ForMathCommand(configured, inContainer bool) string {
	var steps []string
	if inContainer {
		steps = append(steps, "add nodejs and npm to the image")
	}
	steps = append(steps, "install with: npm install -g mathjax-node-cli")
	if !configured {
		steps = append(steps, "or point DLLUP_MATH_COMMAND / --math-command at another tex2svg")
	}
	return join(steps)
}

// ForTimeout suggests a longer equation timeout.
func ForTimeout() string {
	return line("large align blocks need more time, raise --math-timeout")
}

// ForConfigNotFound names the flag and, when one of the searched locations
// is the per-user config directory, the file to create there.
func ForConfigNotFound(searched []string) string {
	text := "pass --config path/to/dllup.yaml"
	for _, p := range searched {
		if strings.Contains(p, ".config/dllup") {
			return line(text + " or create " + p)
		}
	}
	return line(text)
}

// ForOutputDirectory is shown when -o cannot be created.
func ForOutputDirectory() string {
	return line("the parent of --output must exist and be writable")
}

// ForCacheDirectory is shown when the equation cache or the dimension
// database cannot be written.
func ForCacheDirectory() string {
	return line("make --cache-dir writable or set DLLUP_CACHE_DIR")
}

// ForStyleNotFound lists the styles that do exist.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return line("known styles: " + strings.Join(available, ", "))
}

// ForWatchLimit explains watcher failures caused by exhausted inotify
// watches or file descriptors, which large trees hit first.
func ForWatchLimit(err error) string {
	switch {
	case errors.Is(err, syscall.ENOSPC):
		return line("raise fs.inotify.max_user_watches or watch a smaller directory")
	case errors.Is(err, syscall.EMFILE):
		return line("raise the open file limit (ulimit -n) or watch a smaller directory")
	default:
		return ""
	}
}

func line(text string) string {
	if text == "" {
		return ""
	}
	return "\n  hint: " + text
}

func join(steps []string) string {
	if len(steps) == 0 {
		return ""
	}
	return line(strings.Join(steps, "; "))
}
