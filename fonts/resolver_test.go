package fonts

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

// testResolver builds a resolver that cannot reach system fonts, so tests
// exercise the file and embedded branches deterministically.
func testResolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()
	base := []Option{
		WithDir(t.TempDir()),
		WithCacheDir(t.TempDir()),
		WithFallback(""),
	}
	return NewResolver(append(base, opts...)...)
}

// writeTestFont drops the embedded font into dir under the given name so a
// file-backed alias has something real to load.
func writeTestFont(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveNeverFails(t *testing.T) {
	r := testResolver(t)

	for _, id := range []string{"anton", "no-such-font", "", "../../../etc/passwd"} {
		h := r.Resolve(id, 32)
		if h == nil {
			t.Fatalf("Resolve(%q) = nil", id)
		}
		if h.Face == nil {
			t.Errorf("Resolve(%q) has no face", id)
		}
		if h.Size != 32 {
			t.Errorf("Resolve(%q).Size = %v, want 32", id, h.Size)
		}
	}
}

func TestResolveEndsAtEmbeddedFace(t *testing.T) {
	r := testResolver(t)
	h := r.Resolve("definitely-not-installed", 24)
	if h.Name != "Go Regular" {
		t.Errorf("Name = %q, want the embedded face", h.Name)
	}
}

func TestResolveAliasedFile(t *testing.T) {
	dir := t.TempDir()
	writeTestFont(t, dir, "Anton-Regular.ttf")
	r := testResolver(t, WithDir(dir))

	h := r.Resolve("anton", 48)
	if h.Name != "Anton-Regular.ttf" {
		t.Errorf("Name = %q, want the aliased file", h.Name)
	}
	if h.Size != 48 {
		t.Errorf("Size = %v, want 48", h.Size)
	}
}

func TestResolveAliasCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	writeTestFont(t, dir, "Anton-Regular.ttf")
	r := testResolver(t, WithDir(dir))

	for _, id := range []string{"anton", "ANTON", "Anton"} {
		if h := r.Resolve(id, 20); h.Name != "Anton-Regular.ttf" {
			t.Errorf("Resolve(%q).Name = %q", id, h.Name)
		}
	}
}

func TestResolveUnaliasedFileInFontsDir(t *testing.T) {
	// Without an alias, the identifier itself is tried as a file name in
	// the fonts directory after the system index misses.
	dir := t.TempDir()
	writeTestFont(t, dir, "Display.ttf")
	r := testResolver(t, WithDir(dir))

	h := r.Resolve("Display", 24)
	if h.Name != "Display" {
		t.Errorf("Name = %q, want the directory hit", h.Name)
	}
}

func TestResolveMissingAliasedFileFallsBack(t *testing.T) {
	// The alias maps to a file that does not exist in the fonts dir.
	r := testResolver(t)
	h := r.Resolve("sixcaps", 24)
	if h == nil {
		t.Fatal("Resolve = nil")
	}
	if h.Name == "SixCaps.ttf" {
		t.Errorf("Name = %q, want a fallback face", h.Name)
	}
}

func TestResolveCachesParsedFonts(t *testing.T) {
	dir := t.TempDir()
	writeTestFont(t, dir, "Anton-Regular.ttf")
	r := testResolver(t, WithDir(dir))

	if h := r.Resolve("anton", 24); h.Name != "Anton-Regular.ttf" {
		t.Fatalf("first resolve: %q", h.Name)
	}

	// Once parsed, the file is never re-read.
	if err := os.Remove(filepath.Join(dir, "Anton-Regular.ttf")); err != nil {
		t.Fatal(err)
	}
	if h := r.Resolve("anton", 36); h.Name != "Anton-Regular.ttf" {
		t.Errorf("cached resolve: %q", h.Name)
	}
}

func TestResolveCorruptFontFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Anton-Regular.ttf"), []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := testResolver(t, WithDir(dir))

	h := r.Resolve("anton", 24)
	if h == nil {
		t.Fatal("Resolve = nil")
	}
	if h.Name == "Anton-Regular.ttf" {
		t.Errorf("Name = %q, want a fallback face", h.Name)
	}
}

func TestWithAliasesLowercasesKeys(t *testing.T) {
	dir := t.TempDir()
	writeTestFont(t, dir, "Display.ttf")
	r := testResolver(t,
		WithDir(dir),
		WithAliases(map[string]string{"DISPLAY": "Display.ttf"}),
	)

	if h := r.Resolve("display", 24); h.Name != "Display.ttf" {
		t.Errorf("Name = %q", h.Name)
	}
	// The stock aliases are gone once replaced.
	if h := r.Resolve("anton", 24); h.Name == "Anton-Regular.ttf" {
		t.Errorf("replaced table still resolves stock aliases")
	}
}

func TestHandleAscent(t *testing.T) {
	r := testResolver(t)
	small := r.Resolve("x", 12)
	large := r.Resolve("x", 120)

	if small.Ascent() <= 0 {
		t.Errorf("Ascent = %d, want positive", small.Ascent())
	}
	if large.Ascent() <= small.Ascent() {
		t.Errorf("ascent did not grow with size: %d vs %d", small.Ascent(), large.Ascent())
	}
}

func TestLoadAliases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fonts.toml")
	err := os.WriteFile(path, []byte(`
[aliases]
anton = "Anton-Regular.ttf"
impact = "Impact"
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	aliases, err := LoadAliases(path)
	if err != nil {
		t.Fatalf("LoadAliases: %v", err)
	}
	if aliases["anton"] != "Anton-Regular.ttf" || aliases["impact"] != "Impact" {
		t.Errorf("aliases = %v", aliases)
	}
}

func TestLoadAliasesErrors(t *testing.T) {
	if _, err := LoadAliases(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file: want error")
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(bad, []byte("[aliases\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAliases(bad); err == nil {
		t.Error("malformed toml: want error")
	}
}

func TestLoadAliasesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.toml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	aliases, err := LoadAliases(path)
	if err != nil {
		t.Fatalf("LoadAliases: %v", err)
	}
	if aliases == nil || len(aliases) != 0 {
		t.Errorf("aliases = %v, want an empty table", aliases)
	}
}
