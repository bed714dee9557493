package imagesize

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"net/http"
	"os"
	"time"

	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/alnah/go-dllup/internal/fileutil"
)

// Sentinel errors for probing.
var (
	ErrUnknownFormat = errors.New("unrecognized image format")
	ErrFetch         = errors.New("fetching image")
)

// DefaultFetchTimeout bounds a remote image download.
const DefaultFetchTimeout = 30 * time.Second

// Size is the pixel size of an image.
type Size struct {
	Width  int
	Height int
}

// Prober reads the size of the image at a local path or http(s) URL.
type Prober interface {
	Probe(ctx context.Context, src string) (Size, error)
}

// Decoder probes images by decoding their headers with the registered
// image formats.
type Decoder struct {
	Client *http.Client // nil uses a client with DefaultFetchTimeout
}

// Probe implements Prober.
func (d *Decoder) Probe(ctx context.Context, src string) (Size, error) {
	if fileutil.IsURL(src) {
		return d.fetch(ctx, src)
	}

	f, err := os.Open(src) // #nosec G304 -- paths come from the document tree
	if err != nil {
		return Size{}, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()
	return decodeSize(f)
}

func (d *Decoder) fetch(ctx context.Context, url string) (Size, error) {
	client := d.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Size{}, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return Size{}, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Size{}, fmt.Errorf("%w: %s: %s", ErrFetch, url, resp.Status)
	}
	return decodeSize(resp.Body)
}

func decodeSize(r io.Reader) (Size, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return Size{}, ErrUnknownFormat
		}
		return Size{}, fmt.Errorf("decoding image: %w", err)
	}
	return Size{Width: cfg.Width, Height: cfg.Height}, nil
}

// Compile-time interface check.
var _ Prober = (*Decoder)(nil)
