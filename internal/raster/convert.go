package raster

import (
	"image"
	"image/color"
)

// FromImage copies src into a new Image. Gray sources keep their depth;
// everything else becomes packed RGB32.
func FromImage(src image.Image) (*Image, error) {
	b := src.Bounds()

	format, isColor := RGB32, true
	switch src.(type) {
	case *image.Gray:
		format, isColor = Gray8, false
	case *image.Gray16:
		format, isColor = Uint16, false
	}

	img, err := New(b.Dx(), b.Dy(), format, isColor)
	if err != nil {
		return nil, err
	}

	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			c := src.At(b.Min.X+x, b.Min.Y+y)
			switch format {
			case Gray8:
				img.pix.Set(x, y, uint32(color.GrayModel.Convert(c).(color.Gray).Y))
			case Uint16:
				img.pix.Set(x, y, uint32(color.Gray16Model.Convert(c).(color.Gray16).Y))
			default:
				r, g, b, _ := c.RGBA()
				img.pix.Set(x, y, RGB(uint8(r>>8), uint8(g>>8), uint8(b>>8)))
			}
		}
	}
	return img, nil
}
