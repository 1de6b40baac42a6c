package raster

import "encoding/binary"

type bitPixels struct{ img *Image }

func (p bitPixels) Get(x, y int) uint32 {
	ofs := y*p.img.stride + x>>3
	return uint32(p.img.data[ofs]>>(x&7)) & 1
}

func (p bitPixels) Set(x, y int, v uint32) {
	ofs := y*p.img.stride + x>>3
	bit := byte(1) << (x & 7)
	if v != 0 {
		p.img.data[ofs] |= bit
	} else {
		p.img.data[ofs] &^= bit
	}
}

type bytePixels struct{ img *Image }

func (p bytePixels) Get(x, y int) uint32 {
	return uint32(p.img.data[y*p.img.stride+x])
}

func (p bytePixels) Set(x, y int, v uint32) {
	p.img.data[y*p.img.stride+x] = uint8(v)
}

type wordPixels struct{ img *Image }

func (p wordPixels) Get(x, y int) uint32 {
	ofs := y*p.img.stride + 2*x
	return uint32(binary.LittleEndian.Uint16(p.img.data[ofs:]))
}

func (p wordPixels) Set(x, y int, v uint32) {
	ofs := y*p.img.stride + 2*x
	binary.LittleEndian.PutUint16(p.img.data[ofs:], uint16(v))
}

// tripletPixels keeps the low byte of the value first, so a packed RGB value
// is laid out blue, green, red.
type tripletPixels struct{ img *Image }

func (p tripletPixels) Get(x, y int) uint32 {
	ofs := y*p.img.stride + 3*x
	d := p.img.data[ofs : ofs+3]
	return uint32(d[0]) | uint32(d[1])<<8 | uint32(d[2])<<16
}

func (p tripletPixels) Set(x, y int, v uint32) {
	ofs := y*p.img.stride + 3*x
	d := p.img.data[ofs : ofs+3]
	d[0] = uint8(v)
	d[1] = uint8(v >> 8)
	d[2] = uint8(v >> 16)
}

type dwordPixels struct{ img *Image }

func (p dwordPixels) Get(x, y int) uint32 {
	ofs := y*p.img.stride + 4*x
	return binary.LittleEndian.Uint32(p.img.data[ofs:])
}

func (p dwordPixels) Set(x, y int, v uint32) {
	ofs := y*p.img.stride + 4*x
	binary.LittleEndian.PutUint32(p.img.data[ofs:], v)
}
