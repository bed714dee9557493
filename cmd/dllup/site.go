package main

import (
	"context"
	"crypto/sha1" // #nosec G505 -- change detection, not security
	"encoding/hex"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	dllup "github.com/alnah/go-dllup"
	"github.com/alnah/go-dllup/internal/fileutil"
)

// sourceSignature fingerprints a source by modification time. A page
// carrying the same signature was generated from the unchanged source.
func sourceSignature(modTime time.Time) string {
	sum := sha1.Sum([]byte(strconv.FormatInt(modTime.UnixNano(), 10) + "dllu")) // #nosec G401
	return hex.EncodeToString(sum[:])
}

// upToDate reports whether the page at path was generated with sig.
func upToDate(path, sig string) bool {
	data, err := os.ReadFile(path) // #nosec G304 -- output path
	if err != nil {
		return false
	}
	return strings.Contains(string(data), dllup.Signature(sig))
}

// fallbackTitle names a document without header after its directory.
func fallbackTitle(inputPath string) string {
	abs, err := filepath.Abs(inputPath)
	if err != nil {
		abs = inputPath
	}
	return filepath.Base(filepath.Dir(abs))
}

// siteImageURL returns the public URL of a local image referenced by a
// document in relDir.
func siteImageURL(root, relDir, image string) string {
	root = strings.TrimSuffix(root, "/")
	if strings.HasPrefix(image, "/") {
		return root + image
	}
	parts := []string{root}
	if relDir != "" && relDir != "." {
		parts = append(parts, strings.Trim(relDir, "/"))
	}
	return strings.Join(append(parts, image), "/")
}

// enrichImage rewrites the image metadata for publication and records its
// dimensions. Relative images are resolved against the source directory.
func (r *siteRenderer) enrichImage(ctx context.Context, meta dllup.Metadata, f FileToRender) {
	image, ok := meta[dllup.MetaImage]
	if !ok || image == "" {
		return
	}

	probe := image
	switch {
	case fileutil.IsURL(image):
	case strings.HasPrefix(image, "/"):
		// Root-relative images are looked up from the working directory.
		probe = filepath.FromSlash(image[1:])
		meta[dllup.MetaImage] = siteImageURL(r.cfg.Site.Root, f.RelDir, image)
	default:
		probe = filepath.Join(filepath.Dir(f.InputPath), filepath.FromSlash(image))
		meta[dllup.MetaImage] = siteImageURL(r.cfg.Site.Root, f.RelDir, image)
	}

	if r.dims == nil {
		return
	}
	size, err := r.dims.Lookup(ctx, probe)
	if err != nil {
		r.log.Warn("image %s: %v", image, err)
		return
	}
	meta[dllup.MetaImageWidth] = strconv.Itoa(size.Width)
	meta[dllup.MetaImageHeight] = strconv.Itoa(size.Height)
}
