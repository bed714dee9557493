package assets

import (
	"embed"
	"io/fs"
	"slices"
	"strings"
)

//go:embed styles/*.css templates/*.html
var builtin embed.FS

// Embedded serves the assets compiled into the binary: the default and
// plain stylesheets and the page template.
type Embedded struct{}

// Read returns a built-in asset.
func (Embedded) Read(kind Kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	data, err := fs.ReadFile(builtin, kind.path(name))
	if err != nil {
		return "", kind.notFound(name)
	}
	return string(data), nil
}

// Names lists the built-in assets of kind.
func (Embedded) Names(kind Kind) []string {
	return listNames(builtin, kind)
}

// StyleNames lists the built-in styles, sorted.
func StyleNames() []string {
	return Embedded{}.Names(Style)
}

// listNames returns the valid asset names of kind found in fsys.
func listNames(fsys fs.FS, kind Kind) []string {
	entries, err := fs.ReadDir(fsys, kind.dir())
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), kind.ext())
		if !ok || e.IsDir() || ValidateAssetName(name) != nil {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Compile-time interface check.
var _ Source = Embedded{}
