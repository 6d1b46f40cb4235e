package fonts

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-text/typesetting/fontscan"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"github.com/textforge/underlay/internal/logging"
)

// defaultFallback is the system family tried when everything else misses.
const defaultFallback = "Arial"

// defaultAliases maps stylistic identifiers accepted from callers to either
// a font file in the fonts directory or a system font family name.
func defaultAliases() map[string]string {
	return map[string]string{
		"anton":          "Anton-Regular.ttf",
		"sixcaps":        "SixCaps.ttf",
		"boldonse":       "Boldonse.ttf",
		"impact":         "Impact",
		"arial_bold":     "Arial Bold",
		"helvetica_bold": "Helvetica Bold",
	}
}

// Handle is a loadable glyph-rasterization handle: a face at a fixed size.
//
// A Handle is NOT safe for concurrent use (the underlying face keeps
// internal rasterization buffers). Resolve returns a fresh Handle per call;
// keep one per render, not one per process.
type Handle struct {
	Face font.Face
	Name string
	Size float64
}

// Ascent returns the face ascent in pixels, the distance from the notional
// draw origin (ascender line) down to the baseline.
func (h *Handle) Ascent() int {
	return h.Face.Metrics().Ascent.Ceil()
}

// Option configures a Resolver during creation.
type Option func(*Resolver)

// WithDir sets the directory searched for font files named by the alias
// table. Default "assets/fonts".
func WithDir(dir string) Option {
	return func(r *Resolver) { r.dir = dir }
}

// WithAliases replaces the default alias table. The table is copied and
// key-lowercased; it is immutable after construction.
func WithAliases(aliases map[string]string) Option {
	return func(r *Resolver) {
		m := make(map[string]string, len(aliases))
		for k, v := range aliases {
			m[strings.ToLower(k)] = v
		}
		r.aliases = m
	}
}

// WithFallback sets the system family tried before the embedded face.
// Default "Arial".
func WithFallback(family string) Option {
	return func(r *Resolver) { r.fallback = family }
}

// WithCacheDir sets the directory used for the system font index cache.
// Default is the user cache directory.
func WithCacheDir(dir string) Option {
	return func(r *Resolver) { r.cacheDir = dir }
}

// Resolver maps symbolic font identifiers and sizes to Handles.
//
// The alias table is fixed at construction. Parsed fonts are cached and
// shared; the cache is safe for concurrent readers. Faces are created per
// Resolve call because they are not concurrency-safe.
type Resolver struct {
	dir      string
	aliases  map[string]string
	fallback string
	cacheDir string

	mu    sync.RWMutex
	cache map[string]*sfnt.Font // keyed by font file path

	indexOnce sync.Once
	index     map[string]string // lowercase family -> font file path

	builtinOnce sync.Once
	builtin     *sfnt.Font
}

// NewResolver creates a Resolver with the default alias table.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		dir:      "assets/fonts",
		aliases:  defaultAliases(),
		fallback: defaultFallback,
		cache:    make(map[string]*sfnt.Font),
	}
	if dir, err := os.UserCacheDir(); err == nil {
		r.cacheDir = filepath.Join(dir, "underlay-fonts")
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps a symbolic font identifier and size to a Handle.
//
// Lookup order: alias table (case-insensitive), then the mapped file in the
// fonts directory or the mapped system family; without an alias the
// identifier itself is tried as a system family; failures fall back to the
// configured fallback family and finally to the embedded face. Resolve
// never returns nil and never errors: a render must not hard-fail because
// a font is missing.
func (r *Resolver) Resolve(fontID string, size float64) *Handle {
	if h := r.lookup(fontID, size); h != nil {
		return h
	}

	logging.Get().Warn("font not found, falling back", "font", fontID, "fallback", r.fallback)
	if h := r.systemFace(r.fallback, size); h != nil {
		return h
	}
	return r.builtinFace(size)
}

func (r *Resolver) lookup(fontID string, size float64) *Handle {
	if name, ok := r.aliases[strings.ToLower(fontID)]; ok {
		if isFontFile(name) {
			if h := r.fileFace(filepath.Join(r.dir, name), name, size); h != nil {
				return h
			}
			return nil
		}
		return r.systemFace(name, size)
	}
	return r.systemFace(fontID, size)
}

// isFontFile reports whether name looks like a loadable font file rather
// than a system family name.
func isFontFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ttf", ".otf":
		return true
	}
	return false
}

// fileFace loads and caches a font file and returns a face at size.
func (r *Resolver) fileFace(path, name string, size float64) *Handle {
	f := r.parsedFont(path)
	if f == nil {
		return nil
	}
	return r.newHandle(f, name, size)
}

// systemFace resolves a family name through the system font index, then as
// a bare file name in the fonts directory.
func (r *Resolver) systemFace(family string, size float64) *Handle {
	if family == "" {
		return nil
	}
	if path, ok := r.systemIndex()[strings.ToLower(family)]; ok {
		if h := r.fileFace(path, family, size); h != nil {
			return h
		}
	}
	for _, ext := range []string{".ttf", ".otf"} {
		if h := r.fileFace(filepath.Join(r.dir, family+ext), family, size); h != nil {
			return h
		}
	}
	return nil
}

// systemIndex builds the family -> file index once, via the system font
// scanner. Scan failures leave the index empty; resolution then proceeds
// down the fallback chain.
func (r *Resolver) systemIndex() map[string]string {
	r.indexOnce.Do(func() {
		r.index = make(map[string]string)
		footprints, err := fontscan.SystemFonts(nil, r.cacheDir)
		if err != nil {
			logging.Get().Warn("system font scan failed", "error", err)
			return
		}
		for _, fp := range footprints {
			family := strings.ToLower(string(fp.Family))
			if _, seen := r.index[family]; !seen {
				r.index[family] = fp.Location.File
			}
		}
		logging.Get().Debug("system font index built", "families", len(r.index))
	})
	return r.index
}

// parsedFont returns the cached parsed font for path, loading it on first
// use. Returns nil if the file cannot be read or parsed.
func (r *Resolver) parsedFont(path string) *sfnt.Font {
	r.mu.RLock()
	f, ok := r.cache[path]
	r.mu.RUnlock()
	if ok {
		return f
	}

	data, err := os.ReadFile(path) // #nosec G304 -- paths come from the alias table and font index
	if err != nil {
		return nil
	}
	f, err = opentype.Parse(data)
	if err != nil {
		logging.Get().Warn("failed to parse font file", "path", path, "error", err)
		return nil
	}

	r.mu.Lock()
	r.cache[path] = f
	r.mu.Unlock()
	return f
}

// builtinFace returns a face for the embedded default font. This is the
// end of the fallback chain and cannot fail.
func (r *Resolver) builtinFace(size float64) *Handle {
	r.builtinOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			// The embedded font is a compile-time asset; parsing it
			// cannot fail with a correct build.
			panic("fonts: embedded default font is invalid: " + err.Error())
		}
		r.builtin = f
	})
	return r.newHandle(r.builtin, "Go Regular", size)
}

// newHandle creates a fresh face at size from a parsed font.
func (r *Resolver) newHandle(f *sfnt.Font, name string, size float64) *Handle {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil
	}
	return &Handle{Face: face, Name: name, Size: size}
}
