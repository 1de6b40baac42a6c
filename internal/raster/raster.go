// Package raster holds the in-memory destination images produced by the
// decoders. An Image stores its pixels in one of a small, closed set of
// formats chosen when the image is created; every pixel access goes through
// the Pixels implementation bound to that format.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// MaxDimension is the largest width or height an Image may have. GIF and the
// toolkit's other containers store dimensions as 16-bit values.
const MaxDimension = 65535

var (
	// ErrInvalidSize is returned by New for non-positive or oversized dimensions.
	ErrInvalidSize = errors.New("raster: invalid image size")
	// ErrUnsupportedFormat is returned by New for an unknown Format or a colour
	// image requested in a format too narrow to hold packed RGB.
	ErrUnsupportedFormat = errors.New("raster: unsupported pixel format")
)

// Format identifies the storage layout of an Image.
type Format int

const (
	// Bit1 packs eight pixels per byte, least significant bit first.
	Bit1 Format = iota
	// Gray8 stores one byte per pixel.
	Gray8
	// Uint16 stores one little-endian 16-bit word per pixel.
	Uint16
	// RGB24 stores three bytes per pixel, blue first.
	RGB24
	// RGB32 stores one little-endian 32-bit word per pixel holding 0x00RRGGBB.
	RGB32
)

// Bits returns the number of bits one pixel occupies.
func (f Format) Bits() int {
	switch f {
	case Bit1:
		return 1
	case Gray8:
		return 8
	case Uint16:
		return 16
	case RGB24:
		return 24
	case RGB32:
		return 32
	default:
		return 0
	}
}

func (f Format) String() string {
	switch f {
	case Bit1:
		return "Bit1"
	case Gray8:
		return "Gray8"
	case Uint16:
		return "Uint16"
	case RGB24:
		return "RGB24"
	case RGB32:
		return "RGB32"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// RGB packs three 8-bit channels into the 0x00RRGGBB value used by colour images.
func RGB(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Red returns the red channel of a packed RGB value.
func Red(v uint32) uint8 { return uint8(v >> 16) }

// Green returns the green channel of a packed RGB value.
func Green(v uint32) uint8 { return uint8(v >> 8) }

// Blue returns the blue channel of a packed RGB value.
func Blue(v uint32) uint8 { return uint8(v) }

// Pixels reads and writes raw pixel values. Implementations assume the
// coordinates were already checked against the image bounds.
type Pixels interface {
	Get(x, y int) uint32
	Set(x, y int, v uint32)
}

// Image is a width x height raster in a fixed Format.
type Image struct {
	width  int
	height int
	format Format
	color  bool
	stride int // bytes per row
	data   []byte
	pix    Pixels
}

// New allocates a zeroed image. Colour images must use RGB24 or RGB32.
func New(width, height int, format Format, isColor bool) (*Image, error) {
	if width <= 0 || height <= 0 || width > MaxDimension || height > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	bits := format.Bits()
	if bits == 0 || (isColor && bits < 24) {
		return nil, fmt.Errorf("%w: %v (color=%v)", ErrUnsupportedFormat, format, isColor)
	}

	img := &Image{
		width:  width,
		height: height,
		format: format,
		color:  isColor,
		stride: (width*bits + 7) >> 3,
	}
	img.data = make([]byte, img.stride*height)

	switch format {
	case Bit1:
		img.pix = bitPixels{img}
	case Gray8:
		img.pix = bytePixels{img}
	case Uint16:
		img.pix = wordPixels{img}
	case RGB24:
		img.pix = tripletPixels{img}
	case RGB32:
		img.pix = dwordPixels{img}
	}
	return img, nil
}

// Width returns the image width in pixels.
func (img *Image) Width() int { return img.width }

// Height returns the image height in pixels.
func (img *Image) Height() int { return img.height }

// Format returns the pixel storage format.
func (img *Image) Format() Format { return img.format }

// IsColor reports whether pixel values are packed RGB rather than intensities.
func (img *Image) IsColor() bool { return img.color }

// Stride returns the number of bytes per row.
func (img *Image) Stride() int { return img.stride }

// Data exposes the backing buffer.
func (img *Image) Data() []byte { return img.data }

// Pixels returns the accessor bound to the image's format.
func (img *Image) Pixels() Pixels { return img.pix }

// Get returns the raw pixel value at (x, y), or 0 outside the image.
func (img *Image) Get(x, y int) uint32 {
	if img == nil || !img.inBounds(x, y) {
		return 0
	}
	return img.pix.Get(x, y)
}

// Set stores v at (x, y). Writes outside the image are ignored.
func (img *Image) Set(x, y int, v uint32) {
	if img == nil || !img.inBounds(x, y) {
		return
	}
	img.pix.Set(x, y, v)
}

// Fill sets every pixel to v.
func (img *Image) Fill(v uint32) {
	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			img.pix.Set(x, y, v)
		}
	}
}

func (img *Image) inBounds(x, y int) bool {
	return x >= 0 && x < img.width && y >= 0 && y < img.height
}

// ColorModel implements image.Image.
func (img *Image) ColorModel() color.Model {
	switch {
	case img.color:
		return color.RGBAModel
	case img.format == Uint16:
		return color.Gray16Model
	default:
		return color.GrayModel
	}
}

// Bounds implements image.Image.
func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.width, img.height)
}

// At implements image.Image.
func (img *Image) At(x, y int) color.Color {
	v := img.Get(x, y)
	switch {
	case img.color:
		return color.RGBA{R: Red(v), G: Green(v), B: Blue(v), A: 0xff}
	case img.format == Bit1:
		if v != 0 {
			return color.Gray{Y: 0xff}
		}
		return color.Gray{}
	case img.format == Uint16:
		return color.Gray16{Y: uint16(v)}
	default:
		return color.Gray{Y: uint8(v)}
	}
}
