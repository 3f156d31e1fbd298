package bitmap

import (
	"image"
	"image/color"
	"math/bits"
)

// A FormatError reports why a file is not an acceptable bitmap.
type FormatError int

// Decode failures, each reported distinctly.
const (
	BadMagic FormatError = iota + 1
	UnsupportedHeader
	BadDimensions
	UnsupportedPlanes
	UnsupportedDepth
	UnsupportedCompression
	BadChannelMasks
	UnsupportedColorspace
	Truncated
)

var formatErrorText = map[FormatError]string{
	BadMagic:               "bad magic",
	UnsupportedHeader:      "unsupported header",
	BadDimensions:          "bad dimensions",
	UnsupportedPlanes:      "unsupported color plane count",
	UnsupportedDepth:       "unsupported bits per pixel",
	UnsupportedCompression: "unsupported compression",
	BadChannelMasks:        "bad channel masks",
	UnsupportedColorspace:  "unsupported colorspace",
	Truncated:              "truncated file",
}

func (e FormatError) Error() string {
	if s, ok := formatErrorText[e]; ok {
		return "bitmap: " + s
	}
	return "bitmap: invalid format"
}

// Shifts holds the bit position of each channel within a pixel sample.
// A channel without a mask has the shift 0xff.
type Shifts struct {
	R, G, B, A uint
}

// Header describes a validated bitmap without its pixels.
type Header struct {
	FileLength   uint32
	PixelStart   uint32
	HeaderLength uint32
	Width        int
	Height       int
	TopDown      bool
	BitsPerPixel int
	Shifts       Shifts
	Colorspace   uint32
	Stride       int
}

// HasAlpha reports whether the pixels carry a stored alpha channel.
func (h *Header) HasAlpha() bool {
	return h.Shifts.A != absentShift
}

// Image is a decoded bitmap. It keeps a view of the pixel array of the file it
// was decoded from and extracts channels only when a pixel is read.
type Image struct {
	Header

	// Pix holds the rows in storage order, Stride bytes apart.
	Pix []byte

	bpp int
}

func lowestBit(mask uint32) uint {
	if mask == 0 {
		return absentShift
	}
	if n := uint(bits.TrailingZeros32(mask)); n < maskScan {
		return n
	}
	return absentShift
}

func resolveMasks(masks [4]uint32, depth int) (Shifts, error) {
	var shifts [4]uint
	var seen uint32
	for i, m := range masks {
		shifts[i] = lowestBit(m)
		if shifts[i] == absentShift {
			// Only alpha may be missing
			if i != 3 {
				return Shifts{}, BadChannelMasks
			}
			continue
		}
		if m>>shifts[i] != 0xff || int(shifts[i])+8 > depth || seen&m != 0 {
			return Shifts{}, BadChannelMasks
		}
		seen |= m
	}
	return Shifts{R: shifts[0], G: shifts[1], B: shifts[2], A: shifts[3]}, nil
}

func decodeHeader(b []byte) (Header, error) {
	var h Header

	if len(b) < 2 {
		return h, Truncated
	}
	if b[offMagic] != 'B' || b[offMagic+1] != 'M' {
		return h, BadMagic
	}

	r := newFieldReader(b, order)

	var err error
	if h.FileLength, err = r.uint32(offFileLen); err != nil {
		return h, err
	}
	if h.PixelStart, err = r.uint32(offPixelStart); err != nil {
		return h, err
	}
	if h.HeaderLength, err = r.uint32(offHeaderLen); err != nil {
		return h, err
	}
	if h.HeaderLength != basicHeaderLen && h.HeaderLength != extendedHeaderLen {
		return h, UnsupportedHeader
	}
	if len(b) < fileHeaderLen+int(h.HeaderLength) {
		return h, Truncated
	}

	width, _ := r.int32(offWidth)
	height, _ := r.int32(offHeight)
	if width <= 0 || height == 0 || height == -1<<31 {
		return h, BadDimensions
	}
	h.Width = int(width)
	if height < 0 {
		h.TopDown = true
		height = -height
	}
	h.Height = int(height)

	if planes, _ := r.uint16(offPlanes); planes != 1 {
		return h, UnsupportedPlanes
	}

	depth, _ := r.uint16(offDepth)
	if depth != 24 && depth != 32 {
		return h, UnsupportedDepth
	}
	h.BitsPerPixel = int(depth)

	if compression, _ := r.uint32(offCompress); compression != biBitfields {
		return h, UnsupportedCompression
	}

	var masks [4]uint32
	for i, off := range []int{offRedMask, offGreenMask, offBlueMask, offAlphaMask} {
		masks[i], _ = r.uint32(off)
	}
	if h.Shifts, err = resolveMasks(masks, h.BitsPerPixel); err != nil {
		return h, err
	}

	h.Colorspace, _ = r.uint32(offColorspace)
	if h.Colorspace != lcsSRGB && h.Colorspace != lcsWindowsColors {
		return h, UnsupportedColorspace
	}

	h.Stride = Stride(h.BitsPerPixel, h.Width)

	return h, nil
}

// Decode validates b as a complete bitmap file and returns an Image viewing its
// pixel array. The returned Image aliases b.
func Decode(b []byte) (*Image, error) {
	h, err := decodeHeader(b)
	if err != nil {
		return nil, err
	}

	start := uint64(h.PixelStart)
	end := start + uint64(h.Stride)*uint64(h.Height)
	if start < fileHeaderLen+uint64(h.HeaderLength) || end > uint64(len(b)) {
		return nil, Truncated
	}

	return &Image{
		Header: h,
		Pix:    b[start:end],
		bpp:    h.BitsPerPixel / 8,
	}, nil
}

// DecodeConfig returns the header of a bitmap without checking its pixels.
func DecodeConfig(b []byte) (Header, error) {
	return decodeHeader(b)
}

// ColorModel implements image.Image.
func (m *Image) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements image.Image.
func (m *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

// At implements image.Image.
func (m *Image) At(x, y int) color.Color {
	return m.NRGBAAt(x, y)
}

// PixOffset returns the index of the first byte of the pixel at (x, y), where y
// counts from the top of the image whatever the storage order.
func (m *Image) PixOffset(x, y int) int {
	row := y
	if !m.TopDown {
		row = m.Height - y - 1
	}
	return row*m.Stride + x*m.bpp
}

func channel(sample uint32, shift uint) uint8 {
	return uint8(sample >> shift & 0xff)
}

// NRGBAAt returns the pixel at (x, y). Pixels from images without an alpha
// channel are opaque.
func (m *Image) NRGBAAt(x, y int) color.NRGBA {
	if !(image.Point{x, y}.In(m.Bounds())) {
		return color.NRGBA{}
	}
	i := m.PixOffset(x, y)
	var sample uint32
	if m.bpp == 4 {
		sample = order.Uint32(m.Pix[i : i+4])
	} else {
		s := m.Pix[i : i+3]
		sample = uint32(s[0]) | uint32(s[1])<<8 | uint32(s[2])<<16
	}
	c := color.NRGBA{
		R: channel(sample, m.Shifts.R),
		G: channel(sample, m.Shifts.G),
		B: channel(sample, m.Shifts.B),
		A: 0xff,
	}
	if m.HasAlpha() {
		c.A = channel(sample, m.Shifts.A)
	}
	return c
}
