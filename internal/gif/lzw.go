package gif

import "fmt"

const (
	maxCodeSize   = 12
	maxRootSize   = 8
	dictCapacity  = 1 << maxCodeSize
	stackCapacity = dictCapacity + 1
	noCode        = -1
)

// lzwDecoder expands the LZW-compressed pixel data of one image block into
// colour table indices. It owns its dictionary and output stack, so
// independent decoders never share state.
type lzwDecoder struct {
	src *source

	root      uint
	clear     int
	eoi       int
	codeSize  uint
	codeMask  int
	available int
	oldCode   int
	first     int

	prefix [dictCapacity]uint16
	suffix [dictCapacity]uint8
	stack  [stackCapacity]uint8
	top    int

	datum uint32
	bits  uint
	block []byte

	// done is set once no more codes will be read; err says why when the
	// stop was not a clean end-of-information or block terminator.
	done       bool
	terminated bool // the zero-length sub-block has been consumed
	err        error
}

// newLZWDecoder reads the root code size byte that starts an image's pixel
// data and prepares the dictionary.
func newLZWDecoder(src *source) (*lzwDecoder, error) {
	root, err := src.readByte()
	if err != nil {
		return nil, err
	}
	if root > maxRootSize {
		return nil, fmt.Errorf("%w: root code size %d", ErrInvalidFormat, root)
	}

	d := &lzwDecoder{src: src, root: uint(root)}
	d.clear = 1 << d.root
	d.eoi = d.clear + 1
	for c := 0; c < d.clear; c++ {
		d.suffix[c] = uint8(c)
	}
	d.reset()
	return d, nil
}

func (d *lzwDecoder) reset() {
	d.codeSize = d.root + 1
	d.codeMask = 1<<d.codeSize - 1
	d.available = d.clear + 2
	d.oldCode = noCode
}

// readCode returns the next code, pulling sub-blocks as needed. ok is false
// once the data runs out.
func (d *lzwDecoder) readCode() (code int, ok bool) {
	for d.bits < d.codeSize {
		if len(d.block) == 0 {
			b, err := d.src.readSubBlock()
			if len(b) == 0 {
				if err == nil {
					d.terminated = true
				}
				d.stop(err)
				return 0, false
			}
			// keep whatever arrived before a short read; the next fetch
			// reports the end of the stream
			d.block = b
		}
		d.datum |= uint32(d.block[0]) << d.bits
		d.bits += 8
		d.block = d.block[1:]
	}
	code = int(d.datum) & d.codeMask
	d.datum >>= d.codeSize
	d.bits -= d.codeSize
	return code, true
}

func (d *lzwDecoder) stop(err error) {
	d.done = true
	if d.err == nil {
		d.err = err
	}
}

// fill decodes codes until the output stack holds at least one index.
func (d *lzwDecoder) fill() {
	for d.top == 0 && !d.done {
		code, ok := d.readCode()
		if !ok {
			return
		}

		if code == d.clear {
			d.reset()
			continue
		}
		if code == d.eoi {
			d.stop(nil)
			return
		}
		if code > d.available {
			d.stop(fmt.Errorf("%w: code %d beyond next free slot %d", ErrCorruptStream, code, d.available))
			return
		}

		if d.oldCode == noCode {
			if code >= d.clear {
				d.stop(fmt.Errorf("%w: code %d with empty dictionary", ErrCorruptStream, code))
				return
			}
			d.push(d.suffix[code])
			d.oldCode = code
			d.first = code
			d.grow()
			continue
		}

		inCode := code
		if code >= d.available {
			d.push(uint8(d.first))
			code = d.oldCode
		}
		for code >= d.clear {
			if d.top >= stackCapacity-1 {
				d.stop(fmt.Errorf("%w: string longer than the output stack", ErrCorruptStream))
				return
			}
			d.push(d.suffix[code])
			code = int(d.prefix[code])
		}
		d.first = int(d.suffix[code])
		d.push(uint8(d.first))

		if d.available < dictCapacity {
			d.prefix[d.available] = uint16(d.oldCode)
			d.suffix[d.available] = uint8(d.first)
			d.available++
			d.grow()
		}
		d.oldCode = inCode
	}
}

// grow widens codes once the next free slot no longer fits the current
// width. For root sizes of 2 and up this only happens right after a new
// entry fills the last slot of the width; narrower roots start out with
// fewer slots than their first codes need.
func (d *lzwDecoder) grow() {
	if d.available > d.codeMask && d.codeSize < maxCodeSize {
		d.codeSize++
		d.codeMask = 1<<d.codeSize - 1
	}
}

func (d *lzwDecoder) push(b uint8) {
	d.stack[d.top] = b
	d.top++
}

// next returns the next decoded colour index. ok is false when no more
// indices are available.
func (d *lzwDecoder) next() (index uint8, ok bool) {
	if d.top == 0 {
		d.fill()
		if d.top == 0 {
			return 0, false
		}
	}
	d.top--
	return d.stack[d.top], true
}

// finish skips whatever compressed data is left in the block, up to and
// including the zero-length terminator.
func (d *lzwDecoder) finish() error {
	if d.terminated || isEndOfStream(d.err) {
		return nil
	}
	d.block = nil
	d.terminated = true
	return d.src.skipSubBlocks()
}
