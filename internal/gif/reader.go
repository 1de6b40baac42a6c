// Package gif decodes GIF87a and GIF89a streams.
//
// The container parser walks the blocks of a stream, hands each image
// block's pixel data to an LZW decompressor and plots the resulting colour
// indices into a raster.Image in stored row order, interlaced or not.
// Truncated or damaged pixel data is tolerated: the image is kept and the
// damage is reported on its Frame.
package gif

import (
	"fmt"
	"io"
	"log"

	"example.com/gifraster/internal/raster"
)

// Frame is one decoded image block.
type Frame struct {
	Descriptor ImageDescriptor
	Control    GraphicControl // the control extension in force for this block
	Palette    ColorTable     // the table the indices were resolved against
	Image      *raster.Image

	Rows      int  // rows completely decoded
	Truncated bool // pixel data ended before Rows reached the image height
	// Err holds recoverable damage found in this block, matching
	// ErrTruncatedImage and/or ErrCorruptColorTable.
	Err error
}

// GIF is everything DecodeAll read from a stream.
type GIF struct {
	Screen     ScreenDescriptor
	Global     ColorTable // nil without a global table
	Background uint32     // packed background colour, 0 without a global table
	Iterations int        // NETSCAPE2.0 loop count, 1 when absent
	Comments   []string
	Frames     []*Frame
}

// Truncated reports whether any frame ran out of pixel data.
func (g *GIF) Truncated() bool {
	for _, f := range g.Frames {
		if f.Truncated {
			return true
		}
	}
	return false
}

// Image returns the raster of the last image block, or nil.
func (g *GIF) Image() *raster.Image {
	if len(g.Frames) == 0 {
		return nil
	}
	return g.Frames[len(g.Frames)-1].Image
}

type decoder struct {
	src    *source
	opts   Options
	logger *log.Logger

	// firstOnly stops the block loop after the first image block.
	firstOnly bool

	screen     ScreenDescriptor
	global     ColorTable
	control    GraphicControl
	iterations int
	comments   []string
	frames     []*Frame
}

func newDecoder(r io.Reader, opts Options) (*decoder, error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}
	d := &decoder{
		src:        newSource(r),
		opts:       opts,
		logger:     opts.Logger,
		iterations: 1,
	}
	d.control.Reset()
	return d, nil
}

func (d *decoder) readPreamble() error {
	vers, err := d.src.readHeader()
	if err != nil {
		return wrapError("read header", err)
	}
	if d.screen, err = d.src.readScreenDescriptor(vers); err != nil {
		return wrapError("read screen descriptor", err)
	}
	if d.screen.GlobalTable {
		if d.global, err = d.src.readColorTable(d.screen.GlobalTableSize()); err != nil {
			return wrapError("read global color table", err)
		}
	}
	return nil
}

func (d *decoder) decode() error {
	if err := d.readPreamble(); err != nil {
		return err
	}

	for {
		c, err := d.src.readByte()
		if err != nil {
			if isEndOfStream(err) {
				d.logger.Printf("stream ends without trailer after %d bytes", d.src.n)
				return nil
			}
			return wrapError("read block", err)
		}

		switch c {
		case extensionIntroducer:
			if err := d.readExtension(); err != nil {
				if isEndOfStream(err) && len(d.frames) > 0 {
					d.logger.Printf("stream ends inside an extension, keeping %d frames", len(d.frames))
					return nil
				}
				return wrapError("read extension", err)
			}
		case imageSeparator:
			done, err := d.readImage()
			if err != nil {
				if isEndOfStream(err) && len(d.frames) > 0 {
					d.logger.Printf("stream ends inside image block %d, keeping the earlier frames", len(d.frames))
					return nil
				}
				return wrapFrameError("read image", len(d.frames), err)
			}
			if done {
				return nil
			}
		case trailer:
			return nil
		default:
			d.logger.Printf("ignoring byte 0x%.2x at offset %d", c, d.src.n-1)
		}
	}
}

// readImage decodes one image block. done is true when no further blocks
// should be read.
func (d *decoder) readImage() (done bool, err error) {
	frame := len(d.frames)

	id, err := d.src.readImageDescriptor()
	if err != nil {
		return false, err
	}
	table := d.global
	if id.LocalTable {
		if table, err = d.src.readColorTable(id.LocalTableSize()); err != nil {
			return false, err
		}
	}
	if table == nil {
		d.logger.Printf("frame %d has no color table, decoding against black", frame)
		table = make(ColorTable, id.LocalTableSize())
	}
	transparent := d.control.TransparentColor()
	if transparent >= len(table) {
		grown := make(ColorTable, transparent+1)
		copy(grown, table)
		table = grown
	}

	if id.Width == 0 || id.Height == 0 {
		return false, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, id.Width, id.Height)
	}
	if id.Pixels() > d.opts.MaxPixels {
		return false, fmt.Errorf("%w: %dx%d is more than %d pixels", ErrOutOfMemory, id.Width, id.Height, d.opts.MaxPixels)
	}
	img, err := raster.New(int(id.Width), int(id.Height), d.opts.Format, true)
	if err != nil {
		return false, err
	}

	w := newRasterWriter(img, table, transparent, id.Interlaced)
	dec, err := newLZWDecoder(d.src)
	if err != nil {
		if !isEndOfStream(err) {
			return false, err
		}
		d.addFrame(id, table, w, false, err)
		return true, nil
	}
	complete := w.write(dec)
	d.addFrame(id, table, w, complete, dec.err)

	if isEndOfStream(dec.err) {
		return true, nil
	}
	if err := dec.finish(); err != nil {
		if isEndOfStream(err) {
			d.logger.Printf("frame %d: stream ends before the block terminator", frame)
			return true, nil
		}
		return false, err
	}
	return d.firstOnly, nil
}

// addFrame records the block w wrote into and resets the graphic control.
func (d *decoder) addFrame(id ImageDescriptor, table ColorTable, w *rasterWriter, complete bool, cause error) {
	f := &Frame{
		Descriptor: id,
		Control:    d.control,
		Palette:    table,
		Image:      w.img,
		Rows:       w.written,
		Truncated:  !complete,
		Err:        w.err(complete, cause),
	}
	if f.Err != nil {
		d.logger.Printf("frame %d: %v", len(d.frames), f.Err)
	}
	d.frames = append(d.frames, f)
	d.control.Reset()
}

func (d *decoder) result() *GIF {
	g := &GIF{
		Screen:     d.screen,
		Global:     d.global,
		Iterations: d.iterations,
		Comments:   d.comments,
		Frames:     d.frames,
	}
	if len(d.global) > 0 {
		bg := int(d.screen.BackgroundIndex)
		if bg >= len(d.global) {
			bg = len(d.global) - 1
		}
		g.Background = d.global[bg].Pack()
	}
	return g
}

// DecodeAll reads every image block of a GIF stream. Damage inside an
// image block is recorded on its Frame and does not fail the decode; a bad
// signature, a broken descriptor, an unusable block or a stream without any
// image block does, and then no result is returned.
func DecodeAll(r io.Reader, opts Options) (*GIF, error) {
	d, err := newDecoder(r, opts)
	if err != nil {
		return nil, err
	}
	if err := d.decode(); err != nil {
		return nil, err
	}
	if len(d.frames) == 0 {
		return nil, wrapError("decode", fmt.Errorf("%w: no image blocks", ErrInvalidFormat))
	}
	return d.result(), nil
}

// Decode returns the raster of the first image block. When the block is
// damaged but usable the image is returned together with the frame's error,
// which matches ErrTruncatedImage or ErrCorruptColorTable.
func Decode(r io.Reader, opts Options) (*raster.Image, error) {
	d, err := newDecoder(r, opts)
	if err != nil {
		return nil, err
	}
	d.firstOnly = true
	if err := d.decode(); err != nil {
		return nil, err
	}
	if len(d.frames) == 0 {
		return nil, wrapError("decode", fmt.Errorf("%w: no image blocks", ErrInvalidFormat))
	}
	f := d.frames[0]
	return f.Image, wrapFrameError("decode", 0, f.Err)
}

// DecodeConfig reads the header, the screen descriptor and the global
// colour table without touching any image block.
func DecodeConfig(r io.Reader) (ScreenDescriptor, ColorTable, error) {
	d := &decoder{src: newSource(r)}
	if err := d.readPreamble(); err != nil {
		return ScreenDescriptor{}, nil, err
	}
	return d.screen, d.global, nil
}
