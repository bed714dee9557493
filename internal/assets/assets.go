package assets

import (
	"errors"
	"fmt"
	"strings"
)

// Names of the built-in assets.
const (
	DefaultStyle    = "default"
	DefaultTemplate = "page"
)

// Sentinel errors for asset lookups.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrInvalidBasePath  = errors.New("invalid base path")

	// ErrAssetRead covers every failure other than absence, including
	// symlinks that lead outside a custom directory.
	ErrAssetRead = errors.New("failed to read asset")
)

// Kind is a family of assets stored under its own subdirectory.
type Kind int

const (
	Style    Kind = iota // styles/{name}.css
	Template             // templates/{name}.html
)

func (k Kind) dir() string {
	if k == Style {
		return "styles"
	}
	return "templates"
}

func (k Kind) ext() string {
	if k == Style {
		return ".css"
	}
	return ".html"
}

// path returns the slash-separated location of a named asset.
func (k Kind) path(name string) string {
	return k.dir() + "/" + name + k.ext()
}

func (k Kind) notFound(name string) error {
	if k == Style {
		return fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
}

// IsNotFound reports whether err means the asset does not exist, as opposed
// to an invalid name or a read failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateNotFound)
}

// Source is one place assets are read from.
type Source interface {
	// Read returns the named asset, or an error matching IsNotFound.
	Read(kind Kind, name string) (string, error)

	// Names lists the assets of kind, sorted.
	Names(kind Kind) []string
}

// ValidateAssetName rejects empty names and names holding path separators
// or dots, so a name always maps to exactly one file of its kind.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
