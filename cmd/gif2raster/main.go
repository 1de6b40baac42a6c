package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/nfnt/resize"

	"example.com/gifraster/internal/gif"
	"example.com/gifraster/internal/loader"
	"example.com/gifraster/internal/preview"
	"example.com/gifraster/internal/raster"
	pubgif "example.com/gifraster/pkg/gif"
)

const defaultAddr = "127.0.0.1:8000"

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

func main() {
	var inputFile = flag.String("input", "", "Input GIF or TIFF file")
	var outputFile = flag.String("output", "", "Output PNG or TIFF file (optional, defaults to input filename with the -format extension)")
	var format = flag.String("format", "png", "Output format when -output is not given: png or tiff")
	var width = flag.Uint("width", 0, "Resize the output to this width, keeping the aspect ratio")
	var info = flag.Bool("info", false, "Print stream details instead of converting")
	var serve = flag.Bool("serve", false, "Serve an SVG preview of every frame")
	var addr = flag.String("addr", listenAddr(), "Preview address, also read from GIFRASTER_ADDR")
	var verbose = flag.Bool("v", false, "Log decoder warnings")
	flag.Parse()

	if *inputFile == "" {
		log.Fatal(red("Input file is required. Use -input flag."))
	}

	opts := gif.DefaultOptions()
	if *verbose {
		opts.Logger = log.New(os.Stderr, "[gif] ", log.LstdFlags)
	}

	if *info {
		if err := printInfo(os.Stdout, *inputFile, opts); err != nil {
			log.Fatal(red(err))
		}
		return
	}

	res, err := loader.Load(*inputFile, opts)
	if err != nil {
		log.Fatal(red(fmt.Sprintf("Failed to load %s: %v", *inputFile, err)))
	}
	if res.GIF != nil && res.GIF.Truncated() {
		fmt.Println(yellow("warning: image data is truncated, undecoded rows are left black"))
	}

	if *serve {
		frames := []*raster.Image{res.Image}
		if res.GIF != nil {
			frames = frames[:0]
			for _, f := range res.GIF.Frames {
				frames = append(frames, f.Image)
			}
		}
		fmt.Println(green("running preview @ http://" + *addr))
		log.Fatal(http.ListenAndServe(*addr, preview.Handler(filepath.Base(*inputFile), frames)))
	}

	output, err := outputPath(*inputFile, *outputFile, *format)
	if err != nil {
		log.Fatal(red(err))
	}

	var out image.Image = res.Image
	if *width > 0 {
		out = resize.Resize(*width, 0, res.Image, resize.Bilinear)
	}
	if err := loader.Save(output, out); err != nil {
		log.Fatal(red(fmt.Sprintf("Failed to write %s: %v", output, err)))
	}

	b := out.Bounds()
	fmt.Printf("%s %s to %s\n", green("Converted"), *inputFile, output)
	fmt.Printf("Image size: %dx%d pixels\n", b.Dx(), b.Dy())
}

// listenAddr returns GIFRASTER_ADDR or the default preview address.
func listenAddr() string {
	if addr := os.Getenv("GIFRASTER_ADDR"); addr != "" {
		return addr
	}
	return defaultAddr
}

// outputPath returns output, or input with its extension replaced by the
// one for format.
func outputPath(input, output, format string) (string, error) {
	if output != "" {
		return output, nil
	}
	var ext string
	switch format {
	case "png":
		ext = ".png"
	case "tiff":
		ext = ".tiff"
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
	return input[:len(input)-len(filepath.Ext(input))] + ext, nil
}

// printInfo describes the file at path. GIF streams are listed frame by
// frame through the public decoder.
func printInfo(w io.Writer, path string, opts gif.Options) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	d, err := pubgif.New(pubgif.Options{MaxPixels: opts.MaxPixels, Logger: opts.Logger})
	if err != nil {
		return err
	}
	g, err := d.DecodeAll(f)
	if errors.Is(err, pubgif.ErrInvalidFormat) {
		res, lerr := loader.Load(path, opts)
		if lerr != nil {
			return lerr
		}
		fmt.Fprintf(w, "%s %s %dx%d %v\n", cyan(path), res.Format, res.Image.Width(), res.Image.Height(), res.Image.Format())
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s %s %dx%d, %d frames, loop %d\n",
		cyan(path), g.Version(), g.Width(), g.Height(), len(g.Frames()), g.LoopCount())
	fmt.Fprintf(w, "background #%06x\n", g.Background())
	for _, c := range g.Comments() {
		fmt.Fprintf(w, "comment: %q\n", c)
	}
	for i, fr := range g.Frames() {
		status := green("ok")
		if err := fr.Err(); err != nil {
			status = yellow(err.Error())
		}
		fmt.Fprintf(w, "frame %d: %v colors=%d delay=%d disposal=%d transparent=%d interlaced=%v rows=%d %s\n",
			i, fr.Bounds(), fr.Colors(), fr.Delay(), fr.Disposal(), fr.Transparent(), fr.Interlaced(), fr.Rows(), status)
	}
	return nil
}
