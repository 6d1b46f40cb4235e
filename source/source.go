// Package source loads RGBA rasters from local paths, upload-relative
// paths, and URLs. Every successful load yields a decoded image with an
// alpha channel; failures surface as typed errors so callers can present
// clear messages. The package never retries: retry policy belongs to the
// caller.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Formats beyond the stdlib png/jpeg/gif set.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/h2non/filetype"

	"github.com/textforge/underlay/internal/logging"
)

// ErrImageNotFound indicates the referenced image could not be located or
// decoded.
var ErrImageNotFound = errors.New("source: image not found")

// FetchError indicates a network failure while downloading a remote image.
// Status is the HTTP status code when a response was received, 0 otherwise.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("source: fetching %s failed: HTTP %d", e.URL, e.Status)
	}
	return fmt.Sprintf("source: fetching %s failed: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// defaultTimeout bounds a single remote fetch.
const defaultTimeout = 60 * time.Second

// Option configures a Loader during creation.
type Option func(*Loader)

// WithBaseDir sets the directory against which relative and
// uploads-relative references resolve. Default is the working directory.
func WithBaseDir(dir string) Option {
	return func(l *Loader) { l.baseDir = dir }
}

// WithTimeout bounds remote fetches. Default 60 seconds.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) { l.timeout = d }
}

// WithHTTPClient injects a custom HTTP client (tests, proxies).
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// Loader resolves image references. Safe for concurrent use.
type Loader struct {
	baseDir string
	timeout time.Duration
	client  *http.Client
}

// NewLoader creates a Loader rooted at the working directory.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{timeout: defaultTimeout}
	if wd, err := os.Getwd(); err == nil {
		l.baseDir = wd
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.client == nil {
		l.client = &http.Client{Timeout: l.timeout}
	}
	return l
}

// Load resolves ref and decodes it into an NRGBA raster.
//
// ref may be an http(s) URL, an absolute local path, a "/uploads/..."
// reference relative to the base directory, or a plain relative path.
// Remote fetches honor ctx and the configured timeout.
func (l *Loader) Load(ctx context.Context, ref string) (*image.NRGBA, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return l.fetch(ctx, ref)
	}
	return l.loadFile(ref)
}

// loadFile tries the candidate paths a reference can mean and decodes the
// first one that exists.
func (l *Loader) loadFile(ref string) (*image.NRGBA, error) {
	candidates := []string{ref}
	if strings.HasPrefix(ref, "/uploads/") {
		candidates = append(candidates,
			filepath.Join(l.baseDir, ref[1:]),
			filepath.Join("uploads", strings.TrimPrefix(ref, "/uploads/")),
		)
	} else if !filepath.IsAbs(ref) {
		candidates = append(candidates, filepath.Join(l.baseDir, ref))
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path) // #nosec G304 -- reference comes from the API caller
		if err != nil {
			continue
		}
		logging.Get().Debug("loading image", "ref", ref, "path", path)
		img, err := FromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrImageNotFound, path, err)
		}
		return img, nil
	}
	return nil, fmt.Errorf("%w: %s (tried %s)", ErrImageNotFound, ref, strings.Join(candidates, ", "))
}

// fetch downloads and decodes a remote image.
func (l *Loader) fetch(ctx context.Context, url string) (*image.NRGBA, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: url, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	img, err := FromBytes(data)
	if err != nil {
		// Name the actual content type in the error; servers routinely
		// return HTML error pages with a 200 status.
		kind := "unknown"
		if t, kerr := filetype.Match(data); kerr == nil && t.MIME.Value != "" {
			kind = t.MIME.Value
		}
		return nil, &FetchError{URL: url, Err: fmt.Errorf("content (%s) is not a decodable image: %w", kind, err)}
	}
	logging.Get().Debug("fetched image", "url", url, "bytes", len(data))
	return img, nil
}

// FromBytes decodes an image payload into an NRGBA raster, converting
// sources without an alpha channel.
func FromBytes(data []byte) (*image.NRGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return toNRGBA(img), nil
}

// toNRGBA converts any decoded image into a zero-origin NRGBA buffer.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
