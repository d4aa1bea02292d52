package render

import "fmt"

// Surface is a presentation target: it receives a finished frame as
// width*height*4 RGBA bytes and is then told to show it.
type Surface interface {
	// WritePixels copies pix into the surface's own buffer. pix must not
	// be retained.
	WritePixels(pix []byte) error
	// Invalidate displays the most recently written pixels.
	Invalidate() error
}

// Present copies the color buffer verbatim to s and signals it to redraw.
func (fb *Framebuffer) Present(s Surface) error {
	if err := s.WritePixels(fb.pix); err != nil {
		return fmt.Errorf("write pixels: %w", err)
	}
	if err := s.Invalidate(); err != nil {
		return fmt.Errorf("invalidate: %w", err)
	}
	return nil
}
