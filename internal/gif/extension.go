package gif

import "bytes"

var netscapeID = []byte("NETSCAPE2.0")

// GraphicControl carries the settings that apply to the next image block.
type GraphicControl struct {
	Disposal         uint8
	Delay            uint16 // hundredths of a second
	Transparent      bool
	TransparentIndex uint8
	Iterations       int
}

// Reset restores the defaults in force before any control extension.
func (gc *GraphicControl) Reset() {
	*gc = GraphicControl{Iterations: 1}
}

// TransparentColor returns the transparent index, or -1 when there is none.
func (gc GraphicControl) TransparentColor() int {
	if !gc.Transparent {
		return -1
	}
	return int(gc.TransparentIndex)
}

func (d *decoder) readExtension() error {
	label, err := d.src.readByte()
	if err != nil {
		return err
	}

	switch label {
	case graphicControlLabel:
		return d.readGraphicControl()
	case commentLabel:
		return d.readComment()
	case applicationLabel:
		return d.readApplication()
	default:
		d.logger.Printf("skipping extension 0x%.2x", label)
		return d.src.skipSubBlocks()
	}
}

func (d *decoder) readGraphicControl() error {
	b, err := d.src.readSubBlock()
	if err != nil {
		return err
	}
	if len(b) == 0 {
		// empty control block, nothing to apply
		return nil
	}
	if len(b) < 4 {
		d.logger.Printf("short graphic control block (%d bytes)", len(b))
		return d.src.skipSubBlocks()
	}
	d.control.Disposal = (b[0] >> 2) & 0x07
	d.control.Transparent = b[0]&0x01 != 0
	d.control.Delay = uint16(b[1]) | uint16(b[2])<<8
	d.control.TransparentIndex = b[3]
	return d.src.skipSubBlocks()
}

func (d *decoder) readComment() error {
	var comment []byte
	for {
		b, err := d.src.readSubBlock()
		if err != nil {
			return err
		}
		if len(b) == 0 {
			break
		}
		comment = append(comment, b...)
	}
	d.comments = append(d.comments, string(comment))
	return nil
}

func (d *decoder) readApplication() error {
	b, err := d.src.readSubBlock()
	if err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	loop := len(b) >= len(netscapeID) && bytes.Equal(b[:len(netscapeID)], netscapeID)
	for {
		b, err = d.src.readSubBlock()
		if err != nil {
			return err
		}
		if len(b) == 0 {
			return nil
		}
		if loop && len(b) >= 3 {
			d.control.Iterations = int(b[1]) | int(b[2])<<8
			d.iterations = d.control.Iterations
		}
	}
}
