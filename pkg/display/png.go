package display

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/taigrr/softengine/internal/logging"
)

// OpenFunc returns the writer for frame n (counting from 0). PNG closes it
// after encoding.
type OpenFunc func(n int) (io.WriteCloser, error)

// Files returns an OpenFunc creating files from pattern. A pattern holding
// a verb such as %03d is formatted with the frame number; otherwise every
// frame overwrites the same file.
func Files(pattern string) OpenFunc {
	return func(n int) (io.WriteCloser, error) {
		path := pattern
		if strings.Contains(pattern, "%") {
			path = fmt.Sprintf(pattern, n)
		}
		return os.Create(path)
	}
}

// PNG encodes every presented frame as a PNG image.
type PNG struct {
	open   OpenFunc
	width  int
	height int
	scale  int
	frame  *image.RGBA
	frames int
}

// PNGOption configures a PNG surface.
type PNGOption func(*PNG)

// WithScale upscales frames by an integer factor with nearest-neighbour
// sampling. Factors below 1 are ignored.
func WithScale(n int) PNGOption {
	return func(p *PNG) {
		if n >= 1 {
			p.scale = n
		}
	}
}

// NewPNG creates a surface for width x height frames.
func NewPNG(width, height int, open OpenFunc, opts ...PNGOption) *PNG {
	p := &PNG{
		open:   open,
		width:  width,
		height: height,
		scale:  1,
		frame:  image.NewRGBA(image.Rect(0, 0, width, height)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FramebufferSize returns the frame dimensions before scaling.
func (p *PNG) FramebufferSize() (width, height int) {
	return p.width, p.height
}

// Frames returns how many frames have been written.
func (p *PNG) Frames() int { return p.frames }

// WritePixels copies the frame.
func (p *PNG) WritePixels(pix []byte) error {
	if err := checkSize(pix, p.width, p.height); err != nil {
		return err
	}
	copy(p.frame.Pix, pix)
	return nil
}

// Invalidate encodes the last written frame to the next writer.
func (p *PNG) Invalidate() error {
	w, err := p.open(p.frames)
	if err != nil {
		return fmt.Errorf("open frame %d: %w", p.frames, err)
	}

	var img image.Image = p.frame
	if p.scale > 1 {
		dst := image.NewRGBA(image.Rect(0, 0, p.width*p.scale, p.height*p.scale))
		xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), p.frame, p.frame.Bounds(), xdraw.Src, nil)
		img = dst
	}

	if err := png.Encode(w, img); err != nil {
		w.Close()
		return fmt.Errorf("encode frame %d: %w", p.frames, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close frame %d: %w", p.frames, err)
	}

	logging.Logger().Debug("frame written", "frame", p.frames, "scale", p.scale)
	p.frames++
	return nil
}
