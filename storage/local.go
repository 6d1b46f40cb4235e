package storage

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/textforge/underlay/internal/logging"
)

// Local stores images as PNG files under a directory and publishes them by
// mapping paths onto a base URL. Safe for concurrent use; names carry a
// nanosecond timestamp so concurrent saves do not collide.
type Local struct {
	dir     string
	baseURL string
}

// NewLocal creates a Local store writing into dir. Published URLs join
// baseURL with the stored file name.
func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: failed to create %s: %w", dir, err)
	}
	return &Local{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Save implements Storage.
func (l *Local) Save(img image.Image, name string) (string, error) {
	if name == "" {
		name = "render"
	}
	name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	path := filepath.Join(l.dir, fmt.Sprintf("%s_%d.png", name, time.Now().UnixNano()))

	f, err := os.Create(path) // #nosec G304 -- path is built from our own directory
	if err != nil {
		return "", fmt.Errorf("storage: failed to create %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := png.Encode(f, img); err != nil {
		// A failed render yields no file.
		_ = os.Remove(path)
		return "", fmt.Errorf("storage: failed to encode %s: %w", path, err)
	}

	logging.Get().Debug("saved image", "path", path)
	return path, nil
}

// Publish implements Storage. For local storage the file is already
// reachable; Publish only rewrites the path into a URL.
func (l *Local) Publish(localPath string) (string, error) {
	if _, err := os.Stat(localPath); err != nil {
		return "", fmt.Errorf("storage: cannot publish %s: %w", localPath, err)
	}
	return l.baseURL + "/" + filepath.Base(localPath), nil
}
