// Package preview renders decoded rasters as SVG and serves them over HTTP.
package preview

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"net/http"
	"strconv"

	"example.com/gifraster/internal/raster"
)

// WriteSVG writes img as an SVG document with one rect per horizontal run
// of equal pixels.
func WriteSVG(w io.Writer, img *raster.Image) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" shape-rendering="crispEdges">`,
		img.Width(), img.Height())
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); {
			v := img.Get(x, y)
			run := 1
			for x+run < img.Width() && img.Get(x+run, y) == v {
				run++
			}
			r, g, b := rgb(img, v)
			fmt.Fprintf(bw, `<rect x="%d" y="%d" width="%d" height="1" style="fill:rgb(%d,%d,%d)"/>`,
				x, y, run, r, g, b)
			x += run
		}
	}
	fmt.Fprint(bw, `</svg>`)
	return bw.Flush()
}

func rgb(img *raster.Image, v uint32) (r, g, b uint8) {
	if img.IsColor() {
		return raster.Red(v), raster.Green(v), raster.Blue(v)
	}
	switch img.Format() {
	case raster.Bit1:
		if v != 0 {
			return 0xff, 0xff, 0xff
		}
		return 0, 0, 0
	case raster.Uint16:
		y := uint8(v >> 8)
		return y, y, y
	default:
		y := uint8(v)
		return y, y, y
	}
}

// Handler serves an HTML index embedding every frame at "/" and the SVG of
// frame n at "/frame?n=N".
func Handler(title string, frames []*raster.Image) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<!doctype html><body><h6>%s</h6><hr>`, html.EscapeString(title))
		for i, img := range frames {
			fmt.Fprintf(w, `<p>frame %d (%dx%d)</p>`, i, img.Width(), img.Height())
			if err := WriteSVG(w, img); err != nil {
				return
			}
		}
		fmt.Fprint(w, `</body></html>`)
	})
	mux.HandleFunc("/frame", func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(r.URL.Query().Get("n"))
		if err != nil || n < 0 || n >= len(frames) {
			http.Error(w, "no such frame", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		WriteSVG(w, frames[n])
	})
	return mux
}
