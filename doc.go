// Package underlay composites stylized text onto images so that the text
// appears to sit behind a photographic subject.
//
// # Overview
//
// The engine takes a background image (the subject already removed by an
// external segmentation step), renders one or more text layers onto it, and
// finally alpha-composites the subject cutout back on top. Text placement
// follows a CSS-box anchor convention: callers specify the intended visual
// center of the text, and the engine derives the raster draw origin from
// measured glyph extents.
//
// # Quick Start
//
//	resolver := fonts.NewResolver(fonts.WithDir("assets/fonts"))
//	comp := underlay.NewCompositor(resolver)
//
//	canvas := comp.RenderLayers(background, []underlay.TextLayer{{
//	    Text:   "ADVENTURE.",
//	    Anchor: underlay.Anchor{X: 540, Y: 360},
//	    Style:  underlay.Style{Font: "anton", Size: 150},
//	}})
//
//	final := comp.ComposeFinal(canvas, cutout)
//
// # Effects
//
// Text layers can carry a visual effect: drop shadow (optionally blurred),
// outline, glow, pseudo-3D depth extrusion, or gradient fills. Effects arrive
// from the wire as tagged JSON objects and are resolved once, at the
// boundary, into the sealed Effect union. A malformed or unknown effect never
// fails a render; the layer falls back to a plain fill.
//
// # Failure policy
//
// Font resolution and color parsing degrade gracefully and never return
// errors: a missing font walks a fallback chain ending at an embedded face,
// and a malformed hex color becomes opaque white. Image loading and
// compositing failures do propagate, wrapped with the operation and source
// reference that failed.
//
// # Architecture
//
// The engine is organized into:
//   - Root package: color model, anchor math, effect union, renderer, compositor
//   - fonts: font resolution, caching, and text measurement
//   - source: image loading from local paths, upload-relative paths, and URLs
//   - storage: persistence handoff for finished renders
package underlay
