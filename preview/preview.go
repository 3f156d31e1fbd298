/*
Package preview writes small paletted PNG renditions of atlas sheets, handy
for eyeballing a layout without opening a 2048 by 2048 bitmap.
*/
package preview

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

const maxColors = 256

var errBadSize = errors.New("preview: invalid size")

// Size returns the dimensions of b scaled so the longer side is at most limit,
// preserving the aspect ratio. Images already small enough are not scaled.
func Size(b image.Rectangle, limit int) image.Point {
	w, h := b.Dx(), b.Dy()
	if w <= limit && h <= limit {
		return image.Pt(w, h)
	}
	if w >= h {
		return image.Pt(limit, atLeastOne(h*limit/w))
	}
	return image.Pt(atLeastOne(w*limit/h), limit)
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// Encode writes m to w as a PNG no larger than limit pixels on either side,
// reduced to at most 256 colors.
func Encode(w io.Writer, m image.Image, limit int) error {
	b := m.Bounds()
	if limit < 1 || b.Empty() {
		return errBadSize
	}

	size := Size(b, limit)
	r := image.Rect(0, 0, size.X, size.Y)

	scaled := image.NewNRGBA(r)
	draw.ApproxBiLinear.Scale(scaled, r, m, b, draw.Src, nil)

	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(r, q.Quantize(make(color.Palette, 0, maxColors), scaled))
	draw.Draw(pm, r, scaled, image.Point{}, draw.Src)

	return png.Encode(w, pm)
}
