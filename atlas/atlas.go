/*
Package atlas implements atlas sheets and the compositing of sprites onto
them.

Sheets start filled with a magenta and black checkerboard so that any region
no sprite was written to stands out.
*/
package atlas

import (
	"image"
	"image/color"
)

// Size is the default width and height of a sheet
const Size = 2048

const checkerSize = 8

var (
	sentinelOdd  = color.NRGBA{R: 0xff, G: 0x00, B: 0xff, A: 0xff}
	sentinelEven = color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}
)

// Sheet is one atlas image.
type Sheet struct {
	Index int
	Image *image.NRGBA
}

// Sentinel returns the fill color of an untouched sheet at (x, y).
func Sentinel(x, y int) color.NRGBA {
	if (x/checkerSize+y/checkerSize)%2 == 1 {
		return sentinelOdd
	}
	return sentinelEven
}

// NewSheet returns a sheet of the given size filled with the sentinel
// pattern.
func NewSheet(index, width, height int) *Sheet {
	m := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := m.Pix[y*m.Stride : y*m.Stride+width*4]
		for x := 0; x < width; x++ {
			c := Sentinel(x, y)
			row[x*4+0] = c.R
			row[x*4+1] = c.G
			row[x*4+2] = c.B
			row[x*4+3] = c.A
		}
	}
	return &Sheet{
		Index: index,
		Image: m,
	}
}

// NewSheets returns n sheets of the given size.
func NewSheets(n, width, height int) []*Sheet {
	sheets := make([]*Sheet, n)
	for i := range sheets {
		sheets[i] = NewSheet(i, width, height)
	}
	return sheets
}
