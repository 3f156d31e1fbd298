package bitmap

import (
	"bufio"
	"errors"
	"image"
	"image/draw"
	"io"
)

var errTooLarge = errors.New("bitmap: image is too large")

type encoder struct {
	w *fieldWriter
}

func (e *encoder) writeHeader(width, height int) {
	size := uint32(Stride(32, width) * height)

	// File header
	e.w.write([]byte{'B', 'M'})
	e.w.uint32(uint32(pixelStart) + size)
	e.w.zero(4) // reserved
	e.w.uint32(uint32(pixelStart))

	// BITMAPV5HEADER
	e.w.uint32(extendedHeaderLen)
	e.w.int32(int32(width))
	e.w.int32(int32(height)) // positive, rows are bottom-up
	e.w.uint16(1)
	e.w.uint16(32)
	e.w.uint32(biBitfields)
	e.w.uint32(size)
	e.w.int32(pixelsPerMeter)
	e.w.int32(pixelsPerMeter)
	e.w.zero(8) // palette size and important colors
	e.w.uint32(redMask)
	e.w.uint32(greenMask)
	e.w.uint32(blueMask)
	e.w.uint32(alphaMask)
	e.w.uint32(lcsSRGB)
	e.w.zero(36) // CIEXYZTRIPLE endpoints
	e.w.zero(12) // gamma
	e.w.zero(16) // intent, profile data, profile size, reserved

	e.w.zero(headerPad)
}

func (e *encoder) encode(m *image.NRGBA) error {
	b := m.Bounds()
	e.writeHeader(b.Dx(), b.Dy())

	// 32 bits per pixel never needs row padding
	row := make([]byte, b.Dx()*4)
	for y := b.Max.Y - 1; y >= b.Min.Y; y-- {
		src := m.Pix[m.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			s, d := src[x*4:x*4+4], row[x*4:x*4+4]
			d[0], d[1], d[2], d[3] = s[2], s[1], s[0], s[3]
		}
		e.w.write(row)
	}

	return e.w.err
}

// Encode writes the image m to w as a 32 bits per pixel bitmap. Images other
// than *image.NRGBA are converted first.
func Encode(w io.Writer, m image.Image) error {
	b := m.Bounds()
	if b.Empty() {
		return BadDimensions
	}
	if uint64(b.Dx())*uint64(b.Dy())*4+uint64(pixelStart) > 1<<32-1 {
		return errTooLarge
	}

	nm, _ := m.(*image.NRGBA)
	if nm == nil {
		nm = image.NewNRGBA(b)
		draw.Draw(nm, b, m, b.Min, draw.Src)
	}

	bw := bufio.NewWriter(w)
	e := encoder{w: newFieldWriter(bw, order)}
	if err := e.encode(nm); err != nil {
		return err
	}

	return bw.Flush()
}
