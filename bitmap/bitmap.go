/*
Package bitmap implements a strict decoder and encoder for the subset of the
Windows BMP format used as sprite sources and atlas sheets.

Only uncompressed images addressed through explicit channel bit masks are
accepted. The descriptor must be either a BITMAPV4HEADER (108 bytes) or a
BITMAPV5HEADER (124 bytes), pixels must be 24 or 32 bits deep and each channel
mask must isolate exactly one byte. Rows may be stored bottom-up (positive
height) or top-down (negative height).

The encoder always writes a 32 bits per pixel, bottom-up image with a
BITMAPV5HEADER, an sRGB colorspace tag and the masks

	R 0x00ff0000  G 0x0000ff00  B 0x000000ff  A 0xff000000

so that anything it writes can be read back by the decoder without loss.
*/
package bitmap

const (
	fileHeaderLen = 14

	// Descriptor lengths
	basicHeaderLen    = 108
	extendedHeaderLen = 124

	biBitfields = 3

	lcsSRGB          = 0x73524742 // 'sRGB'
	lcsWindowsColors = 0x57696e20 // 'Win '

	maskScan    = 40
	absentShift = 0xff
)

// Byte offsets from the start of the file
const (
	offMagic      = 0
	offFileLen    = 2
	offPixelStart = 10
	offHeaderLen  = 14
	offWidth      = 18
	offHeight     = 22
	offPlanes     = 26
	offDepth      = 28
	offCompress   = 30
	offRedMask    = 54
	offGreenMask  = 58
	offBlueMask   = 62
	offAlphaMask  = 66
	offColorspace = 70
)

const (
	redMask   = 0x00ff0000
	greenMask = 0x0000ff00
	blueMask  = 0x000000ff
	alphaMask = 0xff000000

	// 72 DPI
	pixelsPerMeter = 2835
)

const (
	// Header padding so the pixel array starts on a 32-bit boundary
	headerPad  = (4 - (fileHeaderLen+extendedHeaderLen)%4) % 4
	pixelStart = fileHeaderLen + extendedHeaderLen + headerPad
)

// Stride returns the length in bytes of one row of pixels, padded to a
// multiple of four bytes.
func Stride(bitsPerPixel, width int) int {
	return ((bitsPerPixel*width + 31) / 32) * 4
}
