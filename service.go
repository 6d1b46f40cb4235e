package underlay

import (
	"context"
	"image"
	"image/color"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/textforge/underlay/fonts"
	"github.com/textforge/underlay/source"
	"github.com/textforge/underlay/storage"
)

// Result describes one finished render: where it was stored, where it is
// reachable, and the layer geometry the front end needs to keep its
// preview in sync.
type Result struct {
	Path string `json:"path"`
	URL  string `json:"url"`
	RenderInfo
}

// Service ties the engine to its collaborators: an image source for
// backgrounds and cutouts, and a storage backend for finished renders.
// It mirrors the operations the HTTP layer exposes, one method per
// operation, so that layer stays free of rendering logic.
//
// A failed operation stores nothing and returns no URL.
type Service struct {
	loader *source.Loader
	store  storage.Storage
	comp   *Compositor
}

// NewService creates a Service around the given collaborators.
func NewService(loader *source.Loader, store storage.Storage, comp *Compositor) *Service {
	return &Service{loader: loader, store: store, comp: comp}
}

// AddText renders one text layer onto the referenced background and stores
// the result.
func (s *Service) AddText(ctx context.Context, backgroundRef string, layer TextLayer) (Result, error) {
	background, err := s.loader.Load(ctx, backgroundRef)
	if err != nil {
		return Result{}, renderErr("add text", err)
	}

	canvas, info := s.comp.AddText(background, layer)
	return s.finish("add text", canvas, "text", info)
}

// AddTextLayers renders a sequence of text layers onto the referenced
// background, in order, and stores the result.
func (s *Service) AddTextLayers(ctx context.Context, backgroundRef string, layers []TextLayer) (Result, error) {
	background, err := s.loader.Load(ctx, backgroundRef)
	if err != nil {
		return Result{}, renderErr("add text layers", err)
	}

	canvas := s.comp.RenderLayers(background, layers)
	info := RenderInfo{ImageSize: Size{Width: canvas.Bounds().Dx(), Height: canvas.Bounds().Dy()}}
	return s.finish("add text layers", canvas, "multilayer", info)
}

// DramaticOptions tweak DramaticText's text preprocessing.
type DramaticOptions struct {
	// Uppercase converts the text to upper case before rendering.
	Uppercase bool

	// WithPeriod appends a trailing period unless the text already ends
	// with sentence punctuation.
	WithPeriod bool
}

// DramaticText renders impact-style text: optionally uppercased, optionally
// period-terminated, with a stock drop shadow when the layer carries no
// effect of its own.
func (s *Service) DramaticText(ctx context.Context, backgroundRef string, layer TextLayer, opts DramaticOptions) (Result, error) {
	if opts.Uppercase {
		layer.Text = cases.Upper(language.Und).String(layer.Text)
	}
	if opts.WithPeriod && layer.Text != "" {
		last, _ := utf8.DecodeLastRuneInString(layer.Text)
		if !strings.ContainsRune(".!?", last) {
			layer.Text += "."
		}
	}
	if layer.Style.Effect == nil {
		layer.Style.Effect = DefaultShadow()
	}
	return s.AddText(ctx, backgroundRef, layer)
}

// ComposeFinal loads the background-with-text and the subject cutout,
// overlays the cutout, and stores the final image.
func (s *Service) ComposeFinal(ctx context.Context, backgroundRef, foregroundRef string) (Result, error) {
	background, err := s.loader.Load(ctx, backgroundRef)
	if err != nil {
		return Result{}, renderErr("compose final", err)
	}
	foreground, err := s.loader.Load(ctx, foregroundRef)
	if err != nil {
		return Result{}, renderErr("compose final", err)
	}

	final := s.comp.ComposeFinal(background, foreground)
	info := RenderInfo{ImageSize: Size{Width: final.Bounds().Dx(), Height: final.Bounds().Dy()}}
	return s.finish("compose final", final, "composed", info)
}

// PreviewSizes is the default font size ladder for SizePreviews.
var PreviewSizes = []int{80, 100, 120, 150, 180, 220}

// SizePreviews renders the same layer at several font sizes so the user
// can pick one. A nil sizes slice uses PreviewSizes. The background loads
// once; each size renders and stores separately.
func (s *Service) SizePreviews(ctx context.Context, backgroundRef string, layer TextLayer, sizes []int) (map[int]Result, error) {
	if sizes == nil {
		sizes = PreviewSizes
	}
	background, err := s.loader.Load(ctx, backgroundRef)
	if err != nil {
		return nil, renderErr("size previews", err)
	}

	previews := make(map[int]Result, len(sizes))
	for _, size := range sizes {
		l := layer
		l.Style.Size = size
		canvas, info := s.comp.AddText(background, l)
		res, err := s.finish("size previews", canvas, "preview", info)
		if err != nil {
			return nil, err
		}
		previews[size] = res
	}
	return previews, nil
}

// SuggestPositions loads the background and proposes text placements for
// the given text and style.
func (s *Service) SuggestPositions(ctx context.Context, backgroundRef, text string, style Style) ([]Suggestion, error) {
	background, err := s.loader.Load(ctx, backgroundRef)
	if err != nil {
		return nil, renderErr("suggest positions", err)
	}

	size := style.Size
	if size <= 0 {
		size = DefaultStyle().Size
	}
	font := style.Font
	if font == "" {
		font = DefaultStyle().Font
	}
	h := s.comp.fonts.Resolve(font, float64(size))
	return SuggestPositions(background, fonts.Measure(h, text)), nil
}

// CreateTemplate places the referenced cutout on a solid-color social
// media canvas and stores it.
func (s *Service) CreateTemplate(ctx context.Context, foregroundRef string, bg color.NRGBA, template string, padPercent int) (Result, error) {
	foreground, err := s.loader.Load(ctx, foregroundRef)
	if err != nil {
		return Result{}, renderErr("create template", err)
	}

	canvas := s.comp.RenderTemplate(foreground, bg, template, padPercent)
	info := RenderInfo{ImageSize: Size{Width: canvas.Bounds().Dx(), Height: canvas.Bounds().Dy()}}
	return s.finish("create template", canvas, "template_"+template, info)
}

// finish stores a finished canvas and publishes it. Nothing is retained on
// failure.
func (s *Service) finish(op string, img image.Image, name string, info RenderInfo) (Result, error) {
	path, err := s.store.Save(img, name)
	if err != nil {
		return Result{}, renderErr(op, err)
	}
	url, err := s.store.Publish(path)
	if err != nil {
		return Result{}, renderErr(op, err)
	}
	return Result{Path: path, URL: url, RenderInfo: info}, nil
}
