package gif

import (
	"errors"
	"io"

	"github.com/icza/bitio"
)

// source is the sequential reader under the container parser and the LZW
// decompressor. It never seeks; every read either completes or reports
// ErrEndOfStream.
type source struct {
	br    *bitio.Reader
	block [255]byte
	n     int64 // bytes consumed
}

// newSource reads from r directly when it is an io.ByteReader. Any other
// reader is wrapped in a bufio.Reader by bitio, so bytes past the end of
// the GIF may be consumed from r.
func newSource(r io.Reader) *source {
	return &source{br: bitio.NewReader(r)}
}

func endOfStream(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrEndOfStream
	}
	return err
}

func (s *source) readByte() (byte, error) {
	b, err := s.br.ReadByte()
	if err != nil {
		return 0, endOfStream(err)
	}
	s.n++
	return b, nil
}

// readUint16 reads a little-endian 16-bit value.
func (s *source) readUint16() (uint16, error) {
	lo, err := s.readByte()
	if err != nil {
		return 0, err
	}
	hi, err := s.readByte()
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

// readFull fills p or fails with ErrEndOfStream.
func (s *source) readFull(p []byte) error {
	n, err := io.ReadFull(s.br, p)
	s.n += int64(n)
	return endOfStream(err)
}

// readFlags reads one packed field byte and splits it MSB first into the
// given bit widths, which must add up to eight.
func (s *source) readFlags(widths ...uint8) ([]uint8, error) {
	fields := make([]uint8, len(widths))
	for i, w := range widths {
		v, err := s.br.ReadBits(w)
		if err != nil {
			return nil, endOfStream(err)
		}
		fields[i] = uint8(v)
	}
	s.n++
	return fields, nil
}

// readSubBlock reads one length-prefixed data sub-block. A zero length
// returns an empty slice and no error: it terminates a sub-block run. If the
// stream ends inside the block the bytes that did arrive are returned along
// with ErrEndOfStream. The slice is only valid until the next call.
func (s *source) readSubBlock() ([]byte, error) {
	size, err := s.readByte()
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return s.block[:0], nil
	}
	n, err := io.ReadFull(s.br, s.block[:size])
	s.n += int64(n)
	return s.block[:n], endOfStream(err)
}

// skipSubBlocks discards sub-blocks up to and including the terminator.
func (s *source) skipSubBlocks() error {
	for {
		b, err := s.readSubBlock()
		if err != nil {
			return err
		}
		if len(b) == 0 {
			return nil
		}
	}
}

func isEndOfStream(err error) bool {
	return errors.Is(err, ErrEndOfStream)
}
