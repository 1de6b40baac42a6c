// Package loader reads and writes raster images by path. The format of an
// input file is taken from its content, not its name.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fumiama/imgsz"
	"golang.org/x/image/tiff"

	"example.com/gifraster/internal/gif"
	"example.com/gifraster/internal/raster"
)

var (
	// ErrUnknownFormat is returned for content no decoder recognises.
	ErrUnknownFormat = errors.New("loader: unknown image format")
	// ErrUnsupportedFormat is returned for recognised formats the toolkit
	// does not decode, and for output names with an unknown extension.
	ErrUnsupportedFormat = errors.New("loader: unsupported image format")
)

func init() {
	sizeTIFF := func(r io.Reader) (imgsz.Size, error) {
		cfg, err := tiff.DecodeConfig(r)
		if err != nil {
			return imgsz.Size{}, err
		}
		return imgsz.Size{Width: cfg.Width, Height: cfg.Height}, nil
	}
	imgsz.RegisterFormat("tiff", "II*\x00", sizeTIFF)
	imgsz.RegisterFormat("tiff", "MM\x00*", sizeTIFF)

	// imgsz only matches GIF87a and GIF89a; any other version letter still
	// goes to the GIF decoder
	imgsz.RegisterFormat("gif", "GIF8?", func(r io.Reader) (imgsz.Size, error) {
		sd, _, err := gif.DecodeConfig(r)
		if err != nil {
			return imgsz.Size{}, err
		}
		return imgsz.Size{Width: int(sd.Width), Height: int(sd.Height)}, nil
	})
}

// Result is a loaded image.
type Result struct {
	Format string // "gif" or "tiff"
	Image  *raster.Image
	// GIF is the whole decoded stream for GIF input. Image is its last frame.
	GIF *gif.GIF
}

// Load reads the image at path.
func Load(path string, opts gif.Options) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	res, err := Decode(bytes.NewReader(data), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}

// Decode sniffs the format of r, checks the declared size against the
// pixel budget and decodes the image.
func Decode(r io.Reader, opts gif.Options) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	size, name, err := imgsz.DecodeSize(bytes.NewReader(data))
	if errors.Is(err, imgsz.ErrFormat) {
		return nil, ErrUnknownFormat
	}
	// a GIF whose preamble is damaged still goes to the decoder, which
	// reports what is wrong with it
	if err != nil && name != "gif" {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	maxPixels := opts.MaxPixels
	if maxPixels <= 0 {
		maxPixels = gif.DefaultMaxPixels
	}
	// a GIF screen is never allocated, the decoder budgets each image block
	if name != "gif" && size.Width*size.Height > maxPixels {
		return nil, fmt.Errorf("%w: %s is %dx%d", gif.ErrOutOfMemory, name, size.Width, size.Height)
	}

	switch name {
	case "gif":
		g, err := gif.DecodeAll(bytes.NewReader(data), opts)
		if err != nil {
			return nil, err
		}
		if g.Truncated() && opts.Logger != nil {
			opts.Logger.Printf("gif: %d frames, some truncated", len(g.Frames))
		}
		return &Result{Format: name, Image: g.Image(), GIF: g}, nil
	case "tiff":
		m, err := tiff.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		img, err := raster.FromImage(m)
		if err != nil {
			return nil, err
		}
		return &Result{Format: name, Image: img}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// Save writes img to path, choosing PNG or TIFF by extension.
func Save(path string, img image.Image) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FormatFor maps an output file name to "png" or "tiff".
func FormatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png", nil
	case ".tif", ".tiff":
		return "tiff", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Encode writes img in the named format.
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
