// Package display provides presentation surfaces for rendered frames: a
// terminal, tinygo display drivers, an RGB565 panel buffer and PNG files.
// Every surface accepts the frame as width*height*4 RGBA bytes through
// WritePixels and shows it on Invalidate.
package display

import (
	"errors"
	"fmt"
	"image/color"
)

// ErrSize is returned when a frame does not match the surface dimensions.
var ErrSize = errors.New("display: frame size mismatch")

func checkSize(pix []byte, width, height int) error {
	if want := width * height * 4; len(pix) != want {
		return fmt.Errorf("%w: got %d bytes, want %d for %dx%d", ErrSize, len(pix), want, width, height)
	}
	return nil
}

func rgbaAt(pix []byte, width, x, y int) color.RGBA {
	i := (x + y*width) * 4
	return color.RGBA{pix[i], pix[i+1], pix[i+2], pix[i+3]}
}
