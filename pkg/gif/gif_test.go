package gif

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	stdgif "image/gif"
	"image/png"
	"testing"
)

func encodeTestGIF(t *testing.T, frames int) ([]byte, color.Palette) {
	t.Helper()
	pal := color.Palette{
		color.RGBA{0x10, 0x20, 0x30, 0xff},
		color.RGBA{0xff, 0x00, 0x00, 0xff},
		color.RGBA{0x00, 0xff, 0x00, 0xff},
		color.RGBA{0x00, 0x00, 0xff, 0xff},
	}
	anim := &stdgif.GIF{
		LoopCount: 3,
		Config:    image.Config{ColorModel: pal, Width: 6, Height: 4},
	}
	for i := 0; i < frames; i++ {
		img := image.NewPaletted(image.Rect(0, 0, 6, 4), pal)
		for p := range img.Pix {
			img.Pix[p] = uint8((p + i) % len(pal))
		}
		anim.Image = append(anim.Image, img)
		anim.Delay = append(anim.Delay, 10*(i+1))
	}
	var buf bytes.Buffer
	if err := stdgif.EncodeAll(&buf, anim); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes(), pal
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: Format(7)}); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := New(Options{MaxPixels: -1}); err == nil {
		t.Error("expected error for negative pixel limit")
	}
	d, err := New(DefaultOptions())
	if err != nil || d == nil {
		t.Fatalf("New(DefaultOptions()) = %v, %v", d, err)
	}
}

func TestDecode(t *testing.T) {
	data, pal := encodeTestGIF(t, 1)
	img, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Width() != 6 || img.Height() != 4 || img.Stride() != 24 || len(img.Data()) != 96 {
		t.Fatalf("got %dx%d stride %d", img.Width(), img.Height(), img.Stride())
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			want := pal[(y*6+x)%4].(color.RGBA)
			if got := img.At(x, y).(color.RGBA); got != want {
				t.Errorf("At(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}

	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		t.Errorf("png.Encode: %v", err)
	}
}

func TestDecodeRGB24(t *testing.T) {
	data, _ := encodeTestGIF(t, 1)
	d, err := New(Options{Format: RGB24})
	if err != nil {
		t.Fatal(err)
	}
	img, err := d.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if img.Stride() != 18 {
		t.Errorf("stride = %d, want 18", img.Stride())
	}
	if got := img.RGB(1, 0); got != 0xff0000 {
		t.Errorf("RGB(1,0) = %#06x, want 0xff0000", got)
	}
}

func TestDecodeAll(t *testing.T) {
	data, _ := encodeTestGIF(t, 3)
	g, err := DecodeAll(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if g.Version() != "GIF89a" || g.Width() != 6 || g.Height() != 4 {
		t.Errorf("version %q size %dx%d", g.Version(), g.Width(), g.Height())
	}
	if g.LoopCount() != 3 {
		t.Errorf("loop count = %d, want 3", g.LoopCount())
	}
	frames := g.Frames()
	if len(frames) != 3 {
		t.Fatalf("got %d frames, want 3", len(frames))
	}
	for i, f := range frames {
		if f.Delay() != 10*(i+1) {
			t.Errorf("frame %d delay = %d", i, f.Delay())
		}
		if f.Truncated() || f.Err() != nil || f.Rows() != 4 {
			t.Errorf("frame %d: truncated=%v err=%v rows=%d", i, f.Truncated(), f.Err(), f.Rows())
		}
		if f.Bounds() != image.Rect(0, 0, 6, 4) || f.Interlaced() || f.Transparent() != -1 || f.Colors() != 4 {
			t.Errorf("frame %d: bounds %v interlaced %v transparent %d colors %d",
				i, f.Bounds(), f.Interlaced(), f.Transparent(), f.Colors())
		}
	}
	if g.Image().RGB(0, 0) != frames[2].Image().RGB(0, 0) || g.Truncated() {
		t.Error("Image() is not the last frame")
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte("not a gif"))); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("err = %v, want ErrInvalidFormat", err)
	}

	data, _ := encodeTestGIF(t, 1)
	d, _ := New(Options{MaxPixels: 4})
	if _, err := d.DecodeAll(bytes.NewReader(data)); !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("err = %v, want ErrOutOfMemory", err)
	}
}

func TestDecodeConfig(t *testing.T) {
	data, pal := encodeTestGIF(t, 1)
	cfg, err := DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 6 || cfg.Height != 4 {
		t.Errorf("size %dx%d", cfg.Width, cfg.Height)
	}
	p, ok := cfg.ColorModel.(color.Palette)
	if !ok || len(p) != len(pal) {
		t.Fatalf("color model %T", cfg.ColorModel)
	}
}

func TestNilAccessors(t *testing.T) {
	var img *Image
	var f *Frame
	var g *GIF
	if img.Width() != 0 || img.Data() != nil || img.RGB(0, 0) != 0 {
		t.Error("nil image accessors")
	}
	if f.Image() != nil || f.Transparent() != -1 || f.Err() != nil || f.Truncated() {
		t.Error("nil frame accessors")
	}
	if g.Frames() != nil || g.Image() != nil || g.Truncated() || g.Version() != "" {
		t.Error("nil GIF accessors")
	}
}
