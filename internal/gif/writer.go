package gif

import (
	"errors"
	"fmt"

	"example.com/gifraster/internal/raster"
)

// rasterWriter plots the indices of one image block into its raster,
// following the block's row schedule.
type rasterWriter struct {
	img         *raster.Image
	table       ColorTable
	transparent int // -1 when every index is opaque
	rows        []int

	written    int // rows completed
	outOfRange int // indices that were not in the table
}

func newRasterWriter(img *raster.Image, table ColorTable, transparent int, interlaced bool) *rasterWriter {
	return &rasterWriter{
		img:         img,
		table:       table,
		transparent: transparent,
		rows:        scanRows(img.Height(), interlaced),
	}
}

// write pulls one index per pixel from dec until the raster is full or the
// decoder runs dry. It returns false if the raster could not be filled.
func (w *rasterWriter) write(dec *lzwDecoder) bool {
	width := w.img.Width()
	for _, y := range w.rows {
		for x := 0; x < width; x++ {
			idx, ok := dec.next()
			if !ok {
				return false
			}
			w.plot(x, y, int(idx))
		}
		w.written++
	}
	return true
}

func (w *rasterWriter) plot(x, y, idx int) {
	if idx == w.transparent {
		return
	}
	c, ok := w.table.Lookup(idx)
	if !ok {
		w.outOfRange++
		c = w.table[0]
	}
	w.img.Set(x, y, c.Pack())
}

// err reports the recoverable conditions met while writing: a short pixel
// stream and indices outside the table. cause is why the decoder stopped.
func (w *rasterWriter) err(complete bool, cause error) error {
	var errs []error
	if !complete {
		e := fmt.Errorf("%w: %d of %d rows", ErrTruncatedImage, w.written, len(w.rows))
		if cause != nil {
			e = fmt.Errorf("%w: %w", e, cause)
		}
		errs = append(errs, e)
	}
	if w.outOfRange > 0 {
		errs = append(errs, fmt.Errorf("%w: %d indices beyond %d entries", ErrCorruptColorTable, w.outOfRange, len(w.table)))
	}
	return errors.Join(errs...)
}
