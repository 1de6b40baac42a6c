package preview

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"example.com/gifraster/internal/raster"
)

func testImage(t *testing.T) *raster.Image {
	t.Helper()
	img, err := raster.New(4, 2, raster.RGB32, true)
	if err != nil {
		t.Fatal(err)
	}
	img.Fill(raster.RGB(255, 0, 0))
	img.Set(3, 1, raster.RGB(0, 0, 255))
	return img
}

func TestWriteSVGMergesRuns(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, testImage(t)); err != nil {
		t.Fatal(err)
	}
	svg := buf.String()
	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" width="4" height="2"`) {
		t.Errorf("header: %.80s", svg)
	}
	if n := strings.Count(svg, "<rect"); n != 3 {
		t.Errorf("got %d rects, want 3", n)
	}
	for _, want := range []string{
		`<rect x="0" y="0" width="4" height="1" style="fill:rgb(255,0,0)"/>`,
		`<rect x="0" y="1" width="3" height="1" style="fill:rgb(255,0,0)"/>`,
		`<rect x="3" y="1" width="1" height="1" style="fill:rgb(0,0,255)"/>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("missing %s", want)
		}
	}
}

func TestWriteSVGGray(t *testing.T) {
	img, err := raster.New(2, 1, raster.Bit1, false)
	if err != nil {
		t.Fatal(err)
	}
	img.Set(1, 0, 1)
	var buf bytes.Buffer
	if err := WriteSVG(&buf, img); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `x="1" y="0" width="1" height="1" style="fill:rgb(255,255,255)"`) {
		t.Errorf("svg = %s", buf.String())
	}
}

func TestHandler(t *testing.T) {
	h := Handler("a <b>", []*raster.Image{testImage(t)})

	tests := []struct {
		path   string
		status int
		ctype  string
		body   string
	}{
		{"/", http.StatusOK, "text/html; charset=utf-8", "a &lt;b&gt;"},
		{"/frame?n=0", http.StatusOK, "image/svg+xml", "<svg"},
		{"/frame?n=1", http.StatusNotFound, "", "no such frame"},
		{"/frame?n=x", http.StatusNotFound, "", "no such frame"},
		{"/other", http.StatusNotFound, "", ""},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.status {
			t.Errorf("%s: status %d, want %d", tt.path, rec.Code, tt.status)
		}
		if tt.ctype != "" && rec.Header().Get("Content-Type") != tt.ctype {
			t.Errorf("%s: content type %q", tt.path, rec.Header().Get("Content-Type"))
		}
		if !strings.Contains(rec.Body.String(), tt.body) {
			t.Errorf("%s: body %.100q", tt.path, rec.Body.String())
		}
	}
}
