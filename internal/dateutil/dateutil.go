// Package dateutil formats the generation date printed in page footers.
//
// A footer date setting is either empty (no date), "auto" (ISO date),
// "auto:PRESET" or "auto:FORMAT" where FORMAT uses the tokens YYYY, YY,
// MMMM, MMM, MM, M, DD and D. Text inside brackets is copied literally.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date setting or format.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// Presets names common formats.
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// tokens are ordered longest first so MMMM wins over MM.
var tokens = []struct{ token, layout string }{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// Layout converts a token format to a Go time layout.
func Layout(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var b strings.Builder
	rest := format
	for rest != "" {
		if rest[0] == '[' {
			literal, after, ok := strings.Cut(rest[1:], "]")
			if !ok {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, len(format)-len(rest))
			}
			b.WriteString(literal)
			rest = after
			continue
		}
		rest = writeToken(&b, rest)
	}
	return b.String(), nil
}

// writeToken writes the layout of the token at the start of s, or its first
// byte when no token matches, and returns the remainder.
func writeToken(b *strings.Builder, s string) string {
	for _, t := range tokens {
		if strings.HasPrefix(s, t.token) {
			b.WriteString(t.layout)
			return s[len(t.token):]
		}
	}
	b.WriteByte(s[0])
	return s[1:]
}

// Stamp formats t according to a footer date setting. An empty setting
// yields an empty stamp. The keyword and preset names are case-insensitive.
func Stamp(setting string, t time.Time) (string, error) {
	if setting == "" {
		return "", nil
	}

	keyword, format, hasFormat := strings.Cut(setting, ":")
	if !strings.EqualFold(keyword, "auto") {
		return "", fmt.Errorf("%w: %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, setting)
	}
	if !hasFormat {
		format = Presets["iso"]
	}
	if preset, ok := Presets[strings.ToLower(format)]; ok {
		format = preset
	}

	layout, err := Layout(format)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}
