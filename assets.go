package dllup

import (
	"errors"

	"github.com/alnah/go-dllup/internal/assets"
)

// Asset name constants for the built-in page style and template.
const (
	// DefaultStyle is the name of the built-in page stylesheet.
	DefaultStyle = assets.DefaultStyle

	// DefaultTemplate is the name of the built-in page template.
	DefaultTemplate = assets.DefaultTemplate
)

// AssetLoader defines the contract for loading page stylesheets and
// templates. Implement it to serve assets from another backend.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads an HTML template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	LoadTemplate(name string) (string, error)
}

// NewAssetLoader creates an AssetLoader for the given base path.
// If basePath is empty, returns a loader using only embedded assets.
// If basePath is set, custom assets take precedence with fallback to embedded.
//
// The basePath directory should contain:
//   - styles/{name}.css for page stylesheets
//   - templates/{name}.html for page templates
//
// Returns ErrInvalidAssetPath if basePath is set but not a valid, readable directory.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	resolver, err := assets.NewResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return &assetLoaderAdapter{resolver: resolver}, nil
}

// PageStyles lists the built-in page stylesheets.
func PageStyles() []string {
	return assets.StyleNames()
}

// LoaderStyles lists the stylesheets a loader can serve. Loaders created by
// NewAssetLoader include the styles of their custom directory; other
// loaders report the built-in styles unless they provide a Styles method.
func LoaderStyles(loader AssetLoader) []string {
	if l, ok := loader.(interface{ Styles() []string }); ok {
		return l.Styles()
	}
	return PageStyles()
}

// assetLoaderAdapter maps internal asset errors to public sentinels.
type assetLoaderAdapter struct {
	resolver *assets.Resolver
}

func (a *assetLoaderAdapter) Styles() []string {
	return a.resolver.Styles()
}

func (a *assetLoaderAdapter) LoadStyle(name string) (string, error) {
	content, err := a.resolver.LoadStyle(name)
	if err != nil {
		return "", convertAssetError(err)
	}
	return content, nil
}

func (a *assetLoaderAdapter) LoadTemplate(name string) (string, error) {
	content, err := a.resolver.LoadTemplate(name)
	if err != nil {
		return "", convertAssetError(err)
	}
	return content, nil
}

// convertAssetError maps internal asset errors to public errors.
func convertAssetError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, assets.ErrStyleNotFound):
		return &assetError{sentinel: ErrStyleNotFound, original: err}
	case errors.Is(err, assets.ErrTemplateNotFound):
		return &assetError{sentinel: ErrTemplateNotFound, original: err}
	case errors.Is(err, assets.ErrInvalidBasePath):
		return &assetError{sentinel: ErrInvalidAssetPath, original: err}
	case errors.Is(err, assets.ErrInvalidAssetName):
		return &assetError{sentinel: ErrStyleNotFound, original: err} // no file can have that name
	default:
		return err
	}
}

// assetError keeps the internal message while matching a public sentinel
// with errors.Is. Internal errors are not exposed since they live in
// internal/ packages.
type assetError struct {
	sentinel error
	original error
}

func (e *assetError) Error() string {
	return e.original.Error()
}

func (e *assetError) Unwrap() error {
	return e.sentinel
}
