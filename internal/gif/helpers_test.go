package gif

import (
	"bytes"
	"compress/lzw"
	"testing"
)

// compressIndices LZW-compresses indices the way GIF encoders do.
func compressIndices(t *testing.T, root int, indices []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := lzw.NewWriter(&buf, lzw.LSB, root)
	if _, err := w.Write(indices); err != nil {
		t.Fatalf("lzw write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("lzw close: %v", err)
	}
	return buf.Bytes()
}

// bitWriter packs variable width codes LSB first.
type bitWriter struct {
	out   []byte
	acc   uint32
	nbits uint
}

func (bw *bitWriter) write(code int, width uint) {
	bw.acc |= uint32(code) << bw.nbits
	bw.nbits += width
	for bw.nbits >= 8 {
		bw.out = append(bw.out, byte(bw.acc))
		bw.acc >>= 8
		bw.nbits -= 8
	}
}

func (bw *bitWriter) bytes() []byte {
	if bw.nbits > 0 {
		bw.out = append(bw.out, byte(bw.acc))
		bw.acc, bw.nbits = 0, 0
	}
	return bw.out
}

// literalCodes encodes every index as its own literal code, tracking the
// decoder's dictionary growth so widths match. Long inputs fill and then
// freeze the dictionary.
func literalCodes(root int, indices []byte) []byte {
	clear := 1 << root
	width := uint(root + 1)
	mask := 1<<width - 1
	available := clear + 2

	var bw bitWriter
	bw.write(clear, width)
	for i, idx := range indices {
		bw.write(int(idx), width)
		if i > 0 && available < dictCapacity {
			available++
		}
		if available > mask && width < maxCodeSize {
			width++
			mask = 1<<width - 1
		}
	}
	bw.write(clear+1, width)
	return bw.bytes()
}

// subBlocks frames data as 255-byte sub-blocks plus the terminator.
func subBlocks(data []byte) []byte {
	var out []byte
	for len(data) > 0 {
		n := len(data)
		if n > 255 {
			n = 255
		}
		out = append(out, byte(n))
		out = append(out, data[:n]...)
		data = data[n:]
	}
	return append(out, 0)
}

// pixelPayload is the root code size byte followed by framed data.
func pixelPayload(root int, data []byte) []byte {
	return append([]byte{byte(root)}, subBlocks(data)...)
}

func u16(v int) []byte {
	return []byte{byte(v), byte(v >> 8)}
}

func tableBytes(ct ColorTable) []byte {
	var out []byte
	for _, c := range ct {
		out = append(out, c.R, c.G, c.B)
	}
	return out
}

// gifBuilder assembles test streams block by block.
type gifBuilder struct {
	buf bytes.Buffer
}

// screen writes the header and screen descriptor. A non-nil global table
// must have a power of two length.
func (b *gifBuilder) screen(width, height int, global ColorTable, background byte) *gifBuilder {
	b.buf.WriteString("GIF89a")
	b.buf.Write(u16(width))
	b.buf.Write(u16(height))
	var flags byte
	if global != nil {
		flags = 0x80 | 0x70 | tableBits(len(global))
	}
	b.buf.WriteByte(flags)
	b.buf.WriteByte(background)
	b.buf.WriteByte(0)
	b.buf.Write(tableBytes(global))
	return b
}

func tableBits(n int) byte {
	bits := byte(0)
	for 2<<bits < n {
		bits++
	}
	return bits
}

type blockDesc struct {
	left, top, width, height int
	interlaced               bool
	local                    ColorTable
}

// image writes an image descriptor, the optional local table and payload.
func (b *gifBuilder) image(desc blockDesc, payload []byte) *gifBuilder {
	b.buf.WriteByte(imageSeparator)
	b.buf.Write(u16(desc.left))
	b.buf.Write(u16(desc.top))
	b.buf.Write(u16(desc.width))
	b.buf.Write(u16(desc.height))
	var flags byte
	if desc.interlaced {
		flags |= 0x40
	}
	if desc.local != nil {
		flags |= 0x80 | tableBits(len(desc.local))
	}
	b.buf.WriteByte(flags)
	b.buf.Write(tableBytes(desc.local))
	b.buf.Write(payload)
	return b
}

func (b *gifBuilder) graphicControl(disposal byte, delay int, transparent int) *gifBuilder {
	packed := disposal << 2
	idx := byte(0)
	if transparent >= 0 {
		packed |= 1
		idx = byte(transparent)
	}
	b.buf.Write([]byte{extensionIntroducer, graphicControlLabel, 4, packed})
	b.buf.Write(u16(delay))
	b.buf.Write([]byte{idx, 0})
	return b
}

func (b *gifBuilder) extension(label byte, blocks ...[]byte) *gifBuilder {
	b.buf.Write([]byte{extensionIntroducer, label})
	for _, blk := range blocks {
		b.buf.WriteByte(byte(len(blk)))
		b.buf.Write(blk)
	}
	b.buf.WriteByte(0)
	return b
}

func (b *gifBuilder) raw(p ...byte) *gifBuilder {
	b.buf.Write(p)
	return b
}

func (b *gifBuilder) trailer() *gifBuilder {
	b.buf.WriteByte(trailer)
	return b
}

func (b *gifBuilder) bytes() []byte {
	return b.buf.Bytes()
}

var testPalette = ColorTable{
	{0x00, 0x00, 0x00},
	{0xff, 0x00, 0x00},
	{0x00, 0xff, 0x00},
	{0x00, 0x00, 0xff},
}
