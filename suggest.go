package underlay

import (
	"image"
	"sort"

	"github.com/textforge/underlay/fonts"
)

// Suggestion is a candidate text position with its placement score.
// Higher scores mark emptier regions.
type Suggestion struct {
	X     int     `json:"x"`
	Y     int     `json:"y"`
	Score float64 `json:"score"`
}

// SuggestPositions proposes up to three placements for text of the given
// metrics on background, probing a 3x3 grid of cells.
//
// On cutout-style backgrounds (where the subject has been removed) the
// transparent regions score best, since text there will sit cleanly behind
// the subject once it is composited back. If every cell is substantially
// opaque, cells are scored by darkness instead, favoring regions where
// light text stays readable.
func SuggestPositions(background *image.NRGBA, m fonts.Metrics) []Suggestion {
	b := background.Bounds()
	width, height := b.Dx(), b.Dy()

	const gridSize = 3
	var byAlpha, byBrightness []Suggestion

	for yIdx := 0; yIdx < gridSize; yIdx++ {
		for xIdx := 0; xIdx < gridSize; xIdx++ {
			x := int(float64(width)*(float64(xIdx)+0.5)/gridSize) - m.Width/2
			y := int(float64(height)*(float64(yIdx)+0.5)/gridSize) - m.Height/2

			// Keep the text box inside the image with a small margin.
			x = clampInt(x, 10, width-m.Width-10)
			y = clampInt(y, 10, height-m.Height-10)

			alpha, brightness := regionStats(background, image.Rect(x, y, min(x+m.Width, width), min(y+m.Height, height)))

			if alpha < 128 {
				byAlpha = append(byAlpha, Suggestion{X: x, Y: y, Score: 255 - alpha})
			}
			byBrightness = append(byBrightness, Suggestion{X: x, Y: y, Score: 255 - brightness})
		}
	}

	suggestions := byAlpha
	if len(suggestions) == 0 {
		suggestions = byBrightness
	}
	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	return suggestions
}

// regionStats returns the mean alpha and mean RGB brightness of a region.
func regionStats(img *image.NRGBA, r image.Rectangle) (alpha, brightness float64) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return 0, 0
	}

	var alphaSum, brightSum, count float64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := img.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			pix := img.Pix[i : i+4 : i+4]
			brightSum += (float64(pix[0]) + float64(pix[1]) + float64(pix[2])) / 3
			alphaSum += float64(pix[3])
			count++
			i += 4
		}
	}
	return alphaSum / count, brightSum / count
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
