// Package texmath renders TeX equations to SVG files through an external
// renderer and caches them on disk by content hash.
//
// The cache file for an equation is {dir}/{key}.svg where key is the SHA-1
// of the normalized source, suffixed with "i" for inline equations. A
// non-empty cache file is reused without invoking the renderer. Rendering
// failures never propagate to the document: RenderMath logs them and returns
// an empty string.
package texmath
