package atlas

import (
	"fmt"
	"image"
	"image/color"

	"github.com/bodgit/stitch/metadata"
)

// Source is an image that sprites can be cropped from.
type Source interface {
	Bounds() image.Rectangle
	NRGBAAt(x, y int) color.NRGBA
}

// Reason describes which rectangle was out of range.
type Reason int

const (
	// CropOutOfRange means the crop lies outside the source image
	CropOutOfRange Reason = iota + 1
	// DestOutOfRange means the placement lies outside its sheet
	DestOutOfRange
)

func (r Reason) String() string {
	switch r {
	case CropOutOfRange:
		return "crop out of range"
	case DestOutOfRange:
		return "destination out of range"
	}
	return "unknown"
}

// A BoundsError is returned when a sprite cannot be copied.
type BoundsError struct {
	Reason Reason
	Sprite string
	Rect   image.Rectangle
	Bounds image.Rectangle
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("atlas: sprite %q: %s (%v not within %v)", e.Sprite, e.Reason, e.Rect, e.Bounds)
}

func check(src Source, sprites []*metadata.Sprite, sheets []*Sheet) error {
	for _, s := range sprites {
		// An empty rectangle is In anything
		if s.Src.Empty() || !s.Src.In(src.Bounds()) {
			return &BoundsError{Reason: CropOutOfRange, Sprite: s.Name, Rect: s.Src, Bounds: src.Bounds()}
		}
		dest := s.Dest.Rect(s.Size())
		if s.Dest.Sheet < 0 || s.Dest.Sheet >= len(sheets) {
			return &BoundsError{Reason: DestOutOfRange, Sprite: s.Name, Rect: dest}
		}
		if b := sheets[s.Dest.Sheet].Image.Bounds(); !dest.In(b) {
			return &BoundsError{Reason: DestOutOfRange, Sprite: s.Name, Rect: dest, Bounds: b}
		}
	}
	return nil
}

// Composite copies each sprite from src onto its sheet, overwriting whatever
// was there. Every sprite is checked first so that on error no pixels are
// written.
func Composite(src Source, sprites []*metadata.Sprite, sheets []*Sheet) error {
	if err := check(src, sprites, sheets); err != nil {
		return err
	}

	for _, s := range sprites {
		dst := sheets[s.Dest.Sheet].Image
		size := s.Size()
		for y := 0; y < size.Y; y++ {
			row := dst.Pix[dst.PixOffset(s.Dest.X, s.Dest.Y+y):]
			for x := 0; x < size.X; x++ {
				c := src.NRGBAAt(s.Src.Min.X+x, s.Src.Min.Y+y)
				p := row[x*4 : x*4+4]
				p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
			}
		}
	}

	return nil
}
