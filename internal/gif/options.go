package gif

import (
	"fmt"
	"io"
	"log"

	"example.com/gifraster/internal/raster"
)

// DefaultMaxPixels bounds a single image block to 64 Mpx.
const DefaultMaxPixels = 1 << 26

// Options configures a decode.
type Options struct {
	// MaxPixels is the largest width*height accepted for one image block.
	// Larger blocks fail with ErrOutOfMemory. Zero means DefaultMaxPixels.
	MaxPixels int
	// Format is the pixel layout of decoded frames, RGB24 or RGB32. The zero
	// value selects RGB32.
	Format raster.Format
	// Logger receives warnings about recoverable damage. Nil discards them.
	Logger *log.Logger
}

// DefaultOptions returns the options used by Decode and DecodeAll.
func DefaultOptions() Options {
	return Options{
		MaxPixels: DefaultMaxPixels,
		Format:    raster.RGB32,
	}
}

func (o Options) normalize() (Options, error) {
	if o.MaxPixels <= 0 {
		o.MaxPixels = DefaultMaxPixels
	}
	if o.Format == raster.Bit1 {
		o.Format = raster.RGB32
	}
	if o.Format != raster.RGB24 && o.Format != raster.RGB32 {
		return o, fmt.Errorf("gif: frames need a color format, got %v", o.Format)
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard, "", 0)
	}
	return o, nil
}
