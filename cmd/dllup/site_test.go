package main

// Notes:
// - sourceSignature/upToDate: stability and detection of changed sources.
// - enrichImage: URL resolution for each image form and dimension lookup
//   through a fake prober backed by a real cache database.

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	dllup "github.com/alnah/go-dllup"
	"github.com/alnah/go-dllup/internal/config"
	"github.com/alnah/go-dllup/internal/imagesize"
	"github.com/alnah/go-dllup/internal/logger"
)

// ---------------------------------------------------------------------------
// TestSourceSignature
// ---------------------------------------------------------------------------

func TestSourceSignature(t *testing.T) {
	t.Parallel()

	t1 := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Nanosecond)

	a, b := sourceSignature(t1), sourceSignature(t1)
	if a != b {
		t.Errorf("signature not stable: %q != %q", a, b)
	}
	if len(a) != 40 {
		t.Errorf("len(signature) = %d, want 40 hex digits", len(a))
	}
	if sourceSignature(t2) == a {
		t.Error("signature ignores a one nanosecond change")
	}
}

func TestUpToDate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sig := sourceSignature(time.Unix(1700000000, 0))
	page := writeSource(t, dir, "page.html", "<html></html>\n"+dllup.Signature(sig)+"\n")

	if !upToDate(page, sig) {
		t.Error("upToDate() = false for matching signature")
	}
	if upToDate(page, sourceSignature(time.Unix(1700000001, 0))) {
		t.Error("upToDate() = true for different signature")
	}
	if upToDate(filepath.Join(dir, "missing.html"), sig) {
		t.Error("upToDate() = true for missing page")
	}
}

// ---------------------------------------------------------------------------
// TestFallbackTitle / TestSiteImageURL
// ---------------------------------------------------------------------------

func TestFallbackTitle(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "my-trip", "index.dllu")
	if got := fallbackTitle(path); got != "my-trip" {
		t.Errorf("fallbackTitle(%q) = %q, want my-trip", path, got)
	}
}

func TestSiteImageURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		root, relDir, image string
		want                string
	}{
		{"https://example.com", ".", "cat.jpg", "https://example.com/cat.jpg"},
		{"https://example.com/", "blog/trip", "cat.jpg", "https://example.com/blog/trip/cat.jpg"},
		{"https://example.com", "blog", "/img/cat.jpg", "https://example.com/img/cat.jpg"},
		{"", "blog", "/img/cat.jpg", "/img/cat.jpg"},
		{"", ".", "cat.jpg", "/cat.jpg"},
	}
	for _, tt := range tests {
		if got := siteImageURL(tt.root, tt.relDir, tt.image); got != tt.want {
			t.Errorf("siteImageURL(%q, %q, %q) = %q, want %q", tt.root, tt.relDir, tt.image, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestEnrichImage
// ---------------------------------------------------------------------------

// fakeProber records probed sources and fails for "broken.png".
type fakeProber struct {
	mu     sync.Mutex
	probed []string
}

func (p *fakeProber) Probe(_ context.Context, src string) (imagesize.Size, error) {
	p.mu.Lock()
	p.probed = append(p.probed, src)
	p.mu.Unlock()
	if filepath.Base(src) == "broken.png" {
		return imagesize.Size{}, errors.New("not an image")
	}
	return imagesize.Size{Width: 640, Height: 480}, nil
}

func TestEnrichImage(t *testing.T) {
	t.Parallel()

	srcDir := filepath.Join("site", "blog")
	f := FileToRender{InputPath: filepath.Join(srcDir, "post.dllu"), RelDir: "blog"}

	tests := []struct {
		name      string
		image     string
		wantImage string
		wantProbe string
		wantDims  bool
	}{
		{"relative", "cat_600.jpg", "https://example.com/blog/cat_600.jpg", filepath.Join(srcDir, "cat_600.jpg"), true},
		{"root relative", "/img/cat.png", "https://example.com/img/cat.png", filepath.Join("img", "cat.png"), true},
		{"remote", "https://cdn.example.com/cat.jpg", "https://cdn.example.com/cat.jpg", "https://cdn.example.com/cat.jpg", true},
		{"probe failure", "broken.png", "https://example.com/blog/broken.png", filepath.Join(srcDir, "broken.png"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			prober := &fakeProber{}
			cache, err := imagesize.Open(filepath.Join(t.TempDir(), "dims.db"), prober)
			if err != nil {
				t.Fatalf("imagesize.Open() error = %v", err)
			}
			t.Cleanup(func() { _ = cache.Close() })

			cfg := config.DefaultConfig()
			cfg.Site.Root = "https://example.com"
			r := &siteRenderer{cfg: cfg, dims: cache, log: logger.Discard()}

			meta := dllup.Metadata{dllup.MetaImage: tt.image}
			r.enrichImage(context.Background(), meta, f)

			if meta[dllup.MetaImage] != tt.wantImage {
				t.Errorf("image = %q, want %q", meta[dllup.MetaImage], tt.wantImage)
			}
			if len(prober.probed) != 1 || prober.probed[0] != tt.wantProbe {
				t.Errorf("probed = %v, want [%s]", prober.probed, tt.wantProbe)
			}
			_, hasWidth := meta[dllup.MetaImageWidth]
			if hasWidth != tt.wantDims {
				t.Errorf("width present = %v, want %v", hasWidth, tt.wantDims)
			}
			if tt.wantDims && (meta[dllup.MetaImageWidth] != "640" || meta[dllup.MetaImageHeight] != "480") {
				t.Errorf("dimensions = %sx%s, want 640x480", meta[dllup.MetaImageWidth], meta[dllup.MetaImageHeight])
			}
		})
	}

	t.Run("no image", func(t *testing.T) {
		t.Parallel()

		r := &siteRenderer{cfg: config.DefaultConfig(), log: logger.Discard()}
		meta := dllup.Metadata{dllup.MetaTitle: "x"}
		r.enrichImage(context.Background(), meta, f)
		if len(meta) != 1 {
			t.Errorf("meta = %v, want title only", meta)
		}
	})

	t.Run("without dimension cache", func(t *testing.T) {
		t.Parallel()

		r := &siteRenderer{cfg: config.DefaultConfig(), log: logger.Discard()}
		meta := dllup.Metadata{dllup.MetaImage: "cat.jpg"}
		r.enrichImage(context.Background(), meta, f)
		if meta[dllup.MetaImage] != "/blog/cat.jpg" {
			t.Errorf("image = %q, want /blog/cat.jpg", meta[dllup.MetaImage])
		}
		if _, ok := meta[dllup.MetaImageWidth]; ok {
			t.Error("width set without dimension cache")
		}
	})
}
