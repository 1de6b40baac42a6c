// Package gif decodes GIF87a and GIF89a streams into packed RGB rasters.
//
// Damage inside an image block does not fail a decode: the rows that were
// decoded are kept and the problem is reported on the frame. Only a stream
// that cannot be parsed at all yields no image.
package gif

import (
	"errors"
	"image"
	"image/color"
	"io"
	"log"

	"example.com/gifraster/internal/gif"
	"example.com/gifraster/internal/raster"
)

// Errors reported by the decoder. Use errors.Is to match them.
var (
	ErrInvalidFormat     = gif.ErrInvalidFormat
	ErrEndOfStream       = gif.ErrEndOfStream
	ErrTruncatedImage    = gif.ErrTruncatedImage
	ErrCorruptStream     = gif.ErrCorruptStream
	ErrCorruptColorTable = gif.ErrCorruptColorTable
	ErrInvalidDimensions = gif.ErrInvalidDimensions
	ErrOutOfMemory       = gif.ErrOutOfMemory
)

// Format selects the pixel layout of decoded frames.
type Format int

const (
	// RGB32 stores one 32-bit word per pixel.
	RGB32 Format = iota
	// RGB24 stores three bytes per pixel.
	RGB24
)

func (f Format) raster() (raster.Format, error) {
	switch f {
	case RGB32:
		return raster.RGB32, nil
	case RGB24:
		return raster.RGB24, nil
	default:
		return 0, errors.New("gif: unknown pixel format")
	}
}

// Options configures decoding.
type Options struct {
	// MaxPixels caps width*height of a single image block. Zero selects the
	// default of 64 Mpx.
	MaxPixels int
	// Format is the pixel layout of decoded frames.
	Format Format
	// Logger receives warnings about recoverable damage.
	Logger *log.Logger
}

// DefaultOptions returns the options used by the package level functions.
func DefaultOptions() Options {
	return Options{MaxPixels: gif.DefaultMaxPixels, Format: RGB32}
}

// Decoder decodes GIF streams with fixed options.
type Decoder struct {
	opts gif.Options
}

// New creates a Decoder.
func New(opts Options) (*Decoder, error) {
	format, err := opts.Format.raster()
	if err != nil {
		return nil, err
	}
	if opts.MaxPixels < 0 {
		return nil, errors.New("gif: negative pixel limit")
	}
	return &Decoder{opts: gif.Options{
		MaxPixels: opts.MaxPixels,
		Format:    format,
		Logger:    opts.Logger,
	}}, nil
}

// Decode returns the first image of the stream. A damaged but usable image
// is returned together with an error matching ErrTruncatedImage or
// ErrCorruptColorTable.
func (d *Decoder) Decode(r io.Reader) (*Image, error) {
	img, err := gif.Decode(r, d.opts)
	if img == nil {
		return nil, err
	}
	return &Image{img: img}, err
}

// DecodeAll returns every image of the stream.
func (d *Decoder) DecodeAll(r io.Reader) (*GIF, error) {
	g, err := gif.DecodeAll(r, d.opts)
	if err != nil {
		return nil, err
	}
	return &GIF{g: g}, nil
}

// Decode decodes the first image with DefaultOptions.
func Decode(r io.Reader) (*Image, error) {
	d, _ := New(DefaultOptions())
	return d.Decode(r)
}

// DecodeAll decodes every image with DefaultOptions.
func DecodeAll(r io.Reader) (*GIF, error) {
	d, _ := New(DefaultOptions())
	return d.DecodeAll(r)
}

// DecodeConfig returns the logical screen size and, when the stream has a
// global colour table, the table as the colour model.
func DecodeConfig(r io.Reader) (image.Config, error) {
	sd, global, err := gif.DecodeConfig(r)
	if err != nil {
		return image.Config{}, err
	}
	cfg := image.Config{Width: int(sd.Width), Height: int(sd.Height), ColorModel: color.RGBAModel}
	if global != nil {
		cfg.ColorModel = global.Palette()
	}
	return cfg, nil
}

// Image is a decoded frame raster. It implements image.Image.
type Image struct {
	img *raster.Image
}

// Width returns the image width in pixels.
func (img *Image) Width() int {
	if img == nil || img.img == nil {
		return 0
	}
	return img.img.Width()
}

// Height returns the image height in pixels.
func (img *Image) Height() int {
	if img == nil || img.img == nil {
		return 0
	}
	return img.img.Height()
}

// Stride returns the number of bytes per row.
func (img *Image) Stride() int {
	if img == nil || img.img == nil {
		return 0
	}
	return img.img.Stride()
}

// Data returns the raw pixel bytes.
func (img *Image) Data() []byte {
	if img == nil || img.img == nil {
		return nil
	}
	return img.img.Data()
}

// RGB returns the packed 0x00RRGGBB value at (x, y), 0 outside the image.
func (img *Image) RGB(x, y int) uint32 {
	if img == nil {
		return 0
	}
	return img.img.Get(x, y)
}

func (img *Image) ColorModel() color.Model { return color.RGBAModel }

func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.Width(), img.Height())
}

func (img *Image) At(x, y int) color.Color {
	v := img.RGB(x, y)
	return color.RGBA{R: raster.Red(v), G: raster.Green(v), B: raster.Blue(v), A: 0xff}
}

// Frame is one image block of a stream.
type Frame struct {
	f *gif.Frame
}

// Image returns the frame raster.
func (f *Frame) Image() *Image {
	if f == nil || f.f == nil {
		return nil
	}
	return &Image{img: f.f.Image}
}

// Bounds returns the frame rectangle on the logical screen.
func (f *Frame) Bounds() image.Rectangle {
	if f == nil || f.f == nil {
		return image.Rectangle{}
	}
	d := f.f.Descriptor
	return image.Rect(int(d.Left), int(d.Top), int(d.Left)+int(d.Width), int(d.Top)+int(d.Height))
}

// Interlaced reports whether the frame was stored in interlaced row order.
func (f *Frame) Interlaced() bool {
	return f != nil && f.f != nil && f.f.Descriptor.Interlaced
}

// Delay returns the frame delay in hundredths of a second.
func (f *Frame) Delay() int {
	if f == nil || f.f == nil {
		return 0
	}
	return int(f.f.Control.Delay)
}

// Disposal returns the disposal method of the frame.
func (f *Frame) Disposal() int {
	if f == nil || f.f == nil {
		return 0
	}
	return int(f.f.Control.Disposal)
}

// Transparent returns the transparent colour index, or -1.
func (f *Frame) Transparent() int {
	if f == nil || f.f == nil {
		return -1
	}
	return f.f.Control.TransparentColor()
}

// Colors returns the number of entries in the colour table the frame used.
func (f *Frame) Colors() int {
	if f == nil || f.f == nil {
		return 0
	}
	return len(f.f.Palette)
}

// Rows returns the number of completely decoded rows.
func (f *Frame) Rows() int {
	if f == nil || f.f == nil {
		return 0
	}
	return f.f.Rows
}

// Truncated reports whether the pixel data ended early.
func (f *Frame) Truncated() bool {
	return f != nil && f.f != nil && f.f.Truncated
}

// Err returns the recoverable damage found in the frame, if any.
func (f *Frame) Err() error {
	if f == nil || f.f == nil {
		return nil
	}
	return f.f.Err
}

// GIF is a decoded stream.
type GIF struct {
	g *gif.GIF
}

// Version returns the signature, e.g. "GIF89a".
func (g *GIF) Version() string {
	if g == nil || g.g == nil {
		return ""
	}
	return g.g.Screen.Version
}

// Width returns the logical screen width.
func (g *GIF) Width() int {
	if g == nil || g.g == nil {
		return 0
	}
	return int(g.g.Screen.Width)
}

// Height returns the logical screen height.
func (g *GIF) Height() int {
	if g == nil || g.g == nil {
		return 0
	}
	return int(g.g.Screen.Height)
}

// Background returns the packed background colour.
func (g *GIF) Background() uint32 {
	if g == nil || g.g == nil {
		return 0
	}
	return g.g.Background
}

// LoopCount returns the NETSCAPE2.0 iteration count, 1 when absent.
func (g *GIF) LoopCount() int {
	if g == nil || g.g == nil {
		return 0
	}
	return g.g.Iterations
}

// Comments returns the text of all comment extensions.
func (g *GIF) Comments() []string {
	if g == nil || g.g == nil {
		return nil
	}
	return g.g.Comments
}

// Frames returns every decoded image block in stream order.
func (g *GIF) Frames() []*Frame {
	if g == nil || g.g == nil {
		return nil
	}
	frames := make([]*Frame, len(g.g.Frames))
	for i, f := range g.g.Frames {
		frames[i] = &Frame{f: f}
	}
	return frames
}

// Image returns the raster of the last image block.
func (g *GIF) Image() *Image {
	if g == nil || g.g == nil {
		return nil
	}
	img := g.g.Image()
	if img == nil {
		return nil
	}
	return &Image{img: img}
}

// Truncated reports whether any frame ended early.
func (g *GIF) Truncated() bool {
	return g != nil && g.g != nil && g.g.Truncated()
}
