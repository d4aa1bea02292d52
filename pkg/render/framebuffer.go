// Package render turns meshes into pixels on the CPU: it projects vertices,
// scan-converts triangles with Gouraud lighting and texture sampling, and
// depth-tests every fragment into a shared framebuffer from many goroutines.
package render

import (
	"image"
	"image/png"
	"math"
	"os"
	"sync"
)

// MaxDepth is the depth every pixel holds after Clear. Any finite
// fragment depth passes the depth test against it.
const MaxDepth = math.MaxFloat64

// Framebuffer owns a color buffer (4 bytes RGBA per pixel) and a depth
// buffer over the same grid, both addressed by x + y*width. Each pixel has
// its own mutex so triangles rasterized concurrently can share the buffer.
type Framebuffer struct {
	width  int
	height int
	pix    []byte
	depth  []float64
	locks  []sync.Mutex
}

// NewFramebuffer creates a framebuffer of the given size, cleared to
// transparent black and maximum depth.
func NewFramebuffer(width, height int) *Framebuffer {
	n := width * height
	fb := &Framebuffer{
		width:  width,
		height: height,
		pix:    make([]byte, n*4),
		depth:  make([]float64, n),
		locks:  make([]sync.Mutex, n),
	}
	fb.Clear(Color{})
	return fb
}

// Width returns the framebuffer width in pixels.
func (fb *Framebuffer) Width() int { return fb.width }

// Height returns the framebuffer height in pixels.
func (fb *Framebuffer) Height() int { return fb.height }

// Pix returns the raw RGBA bytes. The slice aliases the framebuffer.
func (fb *Framebuffer) Pix() []byte { return fb.pix }

// Clear sets every pixel to c and every depth to MaxDepth.
// It must not run concurrently with WritePixel.
func (fb *Framebuffer) Clear(c Color) {
	if len(fb.depth) == 0 {
		return
	}

	// Fill the first element, then double the filled prefix with copy.
	fb.pix[0], fb.pix[1], fb.pix[2], fb.pix[3] = c.R, c.G, c.B, c.A
	for filled := 4; filled < len(fb.pix); filled *= 2 {
		copy(fb.pix[filled:], fb.pix[:filled])
	}

	fb.depth[0] = MaxDepth
	for filled := 1; filled < len(fb.depth); filled *= 2 {
		copy(fb.depth[filled:], fb.depth[:filled])
	}
}

// WritePixel stores c at (x, y) if z is not farther than the depth already
// there, and reports whether it did. Coordinates outside the buffer are
// ignored. Equal depth overwrites, so the later write wins a tie.
func (fb *Framebuffer) WritePixel(x, y int, z float64, c Color) bool {
	if x < 0 || y < 0 || x >= fb.width || y >= fb.height {
		return false
	}
	i := x + y*fb.width

	mu := &fb.locks[i]
	mu.Lock()
	defer mu.Unlock()

	if fb.depth[i] < z {
		return false
	}
	fb.depth[i] = z
	p := fb.pix[i*4 : i*4+4 : i*4+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
	return true
}

// At returns the color at (x, y), or transparent black out of bounds.
func (fb *Framebuffer) At(x, y int) Color {
	if x < 0 || y < 0 || x >= fb.width || y >= fb.height {
		return Color{}
	}
	i := (x + y*fb.width) * 4
	return Color{R: fb.pix[i], G: fb.pix[i+1], B: fb.pix[i+2], A: fb.pix[i+3]}
}

// DepthAt returns the stored depth at (x, y), or MaxDepth out of bounds.
func (fb *Framebuffer) DepthAt(x, y int) float64 {
	if x < 0 || y < 0 || x >= fb.width || y >= fb.height {
		return MaxDepth
	}
	return fb.depth[x+y*fb.width]
}

// Aspect returns width / height.
func (fb *Framebuffer) Aspect() float64 {
	return float64(fb.width) / float64(fb.height)
}

// ToImage copies the color buffer into a new image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
	copy(img.Pix, fb.pix)
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
