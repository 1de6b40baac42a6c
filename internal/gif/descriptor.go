package gif

import (
	"fmt"
	"image/color"

	"example.com/gifraster/internal/raster"
)

// Block introducers and extension labels.
const (
	extensionIntroducer = '!'
	imageSeparator      = ','
	trailer             = ';'

	graphicControlLabel = 0xF9
	commentLabel        = 0xFE
	applicationLabel    = 0xFF
)

// ScreenDescriptor is the logical screen descriptor that follows the header.
type ScreenDescriptor struct {
	Version         string // "GIF87a", "GIF89a", ...
	Width           uint16
	Height          uint16
	GlobalTable     bool
	ColorResolution uint8 // bits per primary colour, 1..8
	Sorted          bool
	GlobalBits      uint8 // log2 of the global table size, 1..8
	BackgroundIndex uint8
	AspectRatio     uint8 // ignored for decoding
}

// GlobalTableSize returns the number of entries the global table has, or
// would have if present.
func (sd ScreenDescriptor) GlobalTableSize() int {
	return 1 << sd.GlobalBits
}

// RGB is one colour table entry.
type RGB struct {
	R, G, B uint8
}

// Pack returns the entry as a 0x00RRGGBB raster value.
func (c RGB) Pack() uint32 {
	return raster.RGB(c.R, c.G, c.B)
}

// ColorTable is a global or local palette.
type ColorTable []RGB

// Lookup returns entry i and whether i is inside the table.
func (ct ColorTable) Lookup(i int) (RGB, bool) {
	if i < 0 || i >= len(ct) {
		return RGB{}, false
	}
	return ct[i], true
}

// Palette converts the table to a color.Palette.
func (ct ColorTable) Palette() color.Palette {
	p := make(color.Palette, len(ct))
	for i, c := range ct {
		p[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
	}
	return p
}

// ImageDescriptor describes one image block.
type ImageDescriptor struct {
	Left, Top     uint16
	Width, Height uint16
	LocalTable    bool
	Interlaced    bool
	Sorted        bool
	LocalBits     uint8 // log2 of the local table size, 1..8
}

// LocalTableSize returns the number of local table entries.
func (id ImageDescriptor) LocalTableSize() int {
	return 1 << id.LocalBits
}

// Pixels returns width*height.
func (id ImageDescriptor) Pixels() int {
	return int(id.Width) * int(id.Height)
}

func (s *source) readHeader() (string, error) {
	var tag [6]byte
	if err := s.readFull(tag[:]); err != nil {
		if isEndOfStream(err) {
			return "", fmt.Errorf("%w: short header", ErrInvalidFormat)
		}
		return "", err
	}
	vers := string(tag[:])
	if vers[:5] != "GIF87" && vers[:5] != "GIF89" {
		return "", fmt.Errorf("%w: can't recognize signature %q", ErrInvalidFormat, vers)
	}
	return vers, nil
}

func (s *source) readScreenDescriptor(vers string) (ScreenDescriptor, error) {
	sd := ScreenDescriptor{Version: vers}
	var err error
	if sd.Width, err = s.readUint16(); err != nil {
		return sd, err
	}
	if sd.Height, err = s.readUint16(); err != nil {
		return sd, err
	}
	// global table flag, colour resolution, sort flag, global table size
	f, err := s.readFlags(1, 3, 1, 3)
	if err != nil {
		return sd, err
	}
	sd.GlobalTable = f[0] != 0
	sd.ColorResolution = f[1] + 1
	sd.Sorted = f[2] != 0
	sd.GlobalBits = f[3] + 1

	if sd.BackgroundIndex, err = s.readByte(); err != nil {
		return sd, err
	}
	if sd.AspectRatio, err = s.readByte(); err != nil {
		return sd, err
	}
	return sd, nil
}

func (s *source) readColorTable(size int) (ColorTable, error) {
	var buf [3 * 256]byte
	if err := s.readFull(buf[:3*size]); err != nil {
		return nil, err
	}
	ct := make(ColorTable, size)
	for i := range ct {
		ct[i] = RGB{buf[3*i], buf[3*i+1], buf[3*i+2]}
	}
	return ct, nil
}

func (s *source) readImageDescriptor() (ImageDescriptor, error) {
	var id ImageDescriptor
	var err error
	for _, v := range []*uint16{&id.Left, &id.Top, &id.Width, &id.Height} {
		if *v, err = s.readUint16(); err != nil {
			return id, err
		}
	}
	// local table flag, interlace flag, sort flag, reserved, local table size
	f, err := s.readFlags(1, 1, 1, 2, 3)
	if err != nil {
		return id, err
	}
	id.LocalTable = f[0] != 0
	id.Interlaced = f[1] != 0
	id.Sorted = f[2] != 0
	id.LocalBits = f[4] + 1
	return id, nil
}
