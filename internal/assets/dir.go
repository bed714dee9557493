package assets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Dir serves assets from a directory on disk. Files are opened with
// os.OpenInRoot, so neither ".." nor a symlink reaches outside it.
type Dir struct {
	path string
}

// OpenDir checks that basePath is a readable directory.
// Returns ErrInvalidBasePath otherwise.
func OpenDir(basePath string) (*Dir, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, abs)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, abs)
	}
	if _, err := os.ReadDir(abs); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}
	return &Dir{path: abs}, nil
}

// Path returns the absolute directory path.
func (d *Dir) Path() string {
	return d.path
}

// Read returns {dir}/styles/{name}.css or {dir}/templates/{name}.html.
func (d *Dir) Read(kind Kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	f, err := os.OpenInRoot(d.path, filepath.FromSlash(kind.path(name)))
	if errors.Is(err, fs.ErrNotExist) {
		return "", kind.notFound(name)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(data), nil
}

// Names lists the assets of kind present in the directory.
func (d *Dir) Names(kind Kind) []string {
	return listNames(os.DirFS(d.path), kind)
}

// Compile-time interface check.
var _ Source = (*Dir)(nil)
