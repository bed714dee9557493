package dllup

import "errors"

// Sentinel errors for library operations. Malformed markup is never an
// error; these cover configuration and page assembly.
var (
	ErrUnknownHighlightStyle = errors.New("unknown highlight style")
	ErrPageRender            = errors.New("page template rendering failed")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
