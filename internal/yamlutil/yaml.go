// Package yamlutil reads dllup configuration files so the rest of dllup
// does not import the YAML library directly.
package yamlutil

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
)

// MaxFileSize bounds configuration files. Anything larger is certainly not
// a config file.
var MaxFileSize int64 = 1 << 20

var (
	ErrEmpty          = errors.New("yamlutil: empty document")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrTooLarge       = errors.New("yamlutil: file exceeds maximum size")
)

// DecodeError is a decoding failure located in the source. Its message
// quotes the offending lines so a misspelled key is easy to find.
type DecodeError struct {
	Path    string
	Excerpt string
	Err     error
}

func (e *DecodeError) Error() string {
	return e.Path + ": " + e.Excerpt
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DecodeFile decodes the YAML file at path into v. Unknown keys are
// rejected. Filesystem errors are returned wrapped, so fs.ErrNotExist can
// be tested with errors.Is.
func DecodeFile(path string, v any) error {
	if v == nil {
		return ErrNilDestination
	}

	f, err := os.Open(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	switch {
	case info.Size() == 0:
		return fmt.Errorf("%w: %s", ErrEmpty, path)
	case info.Size() > MaxFileSize:
		return fmt.Errorf("%w: %s is %d bytes (max %d)", ErrTooLarge, path, info.Size(), MaxFileSize)
	}

	return Decode(path, io.LimitReader(f, MaxFileSize), v)
}

// Decode decodes one YAML document from r into v, rejecting unknown keys.
// name labels errors.
func Decode(name string, r io.Reader, v any) error {
	if v == nil {
		return ErrNilDestination
	}
	err := yaml.NewDecoder(r, yaml.Strict()).Decode(v)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return fmt.Errorf("%w: %s", ErrEmpty, name)
	default:
		return &DecodeError{Path: name, Excerpt: yaml.FormatError(err, false, true), Err: err}
	}
}

// Marshal encodes v, used to print the effective configuration.
func Marshal(v any) ([]byte, error) {
	result, err := yaml.MarshalWithOptions(v, yaml.Indent(2))
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return result, nil
}
