package markup

import (
	"regexp"
	"strings"
)

// Stage is one link of a precedence chain. It renders the parts of s it owns
// and hands every other part to next.
type Stage func(s string, next Handler) string

// Chain composes stages outermost first. Text that no stage claims reaches
// final.
func Chain(final Handler, stages ...Stage) Handler {
	h := final
	for i := len(stages) - 1; i >= 0; i-- {
		stage, next := stages[i], h
		h = func(s string) string { return stage(s, next) }
	}
	return h
}

// SplitStage claims the segments between unescaped delim pairs.
func SplitStage(delim *regexp.Regexp, inside Handler) Stage {
	return func(s string, next Handler) string {
		return Split(s, delim, inside, next)
	}
}

// RewriteStage rewrites unescaped matches of re before passing the whole text
// on. Rewrites usually wrap their output in Passthrough markers.
func RewriteStage(re *regexp.Regexp, repl func(groups []string) string) Stage {
	return func(s string, next Handler) string {
		return next(ReplaceUnescaped(re, s, repl))
	}
}

// PassthroughStage emits the spans between Passthrough markers untouched.
// Markers only come from earlier stages, so a backslash before one is
// content and never escapes it.
func PassthroughStage(s string, next Handler) string {
	parts := strings.Split(s, Passthrough)
	if len(parts) == 1 {
		return next(s)
	}

	var b strings.Builder
	for i, part := range parts {
		if i%2 == 1 {
			b.WriteString(part)
		} else {
			b.WriteString(next(part))
		}
	}
	return b.String()
}
