package display

import (
	"fmt"
	"image/color"
	"io"
)

// RGB565 is an in-memory display storing pixels as little-endian RGB565,
// the native format of most small SPI panels. It implements
// drivers.Displayer; Display writes the whole buffer to the sink, one raw
// frame per call.
type RGB565 struct {
	width  int
	height int
	buf    []byte
	sink   io.Writer
}

// NewRGB565 creates a width x height panel buffer. sink may be nil.
func NewRGB565(width, height int, sink io.Writer) *RGB565 {
	return &RGB565{
		width:  width,
		height: height,
		buf:    make([]byte, width*height*2),
		sink:   sink,
	}
}

// Size returns the panel dimensions.
func (p *RGB565) Size() (x, y int16) {
	return int16(p.width), int16(p.height)
}

// SetPixel stores c at (x, y). Alpha is dropped.
func (p *RGB565) SetPixel(x, y int16, c color.RGBA) {
	ix, iy := int(x), int(y)
	if ix < 0 || iy < 0 || ix >= p.width || iy >= p.height {
		return
	}
	v := rgb565From888(c.R, c.G, c.B)
	off := (iy*p.width + ix) * 2
	p.buf[off] = byte(v)
	p.buf[off+1] = byte(v >> 8)
}

// Display writes the buffer to the sink.
func (p *RGB565) Display() error {
	if p.sink == nil {
		return nil
	}
	if _, err := p.sink.Write(p.buf); err != nil {
		return fmt.Errorf("write rgb565 frame: %w", err)
	}
	return nil
}

// Buffer returns the raw RGB565 bytes. The slice aliases the panel.
func (p *RGB565) Buffer() []byte { return p.buf }

// At returns the stored pixel expanded back to 8 bits per channel.
func (p *RGB565) At(x, y int) color.RGBA {
	off := (y*p.width + x) * 2
	v := uint16(p.buf[off]) | uint16(p.buf[off+1])<<8
	r, g, b := rgb888From565(v)
	return color.RGBA{r, g, b, 0xFF}
}

func rgb565From888(r, g, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}

func rgb888From565(v uint16) (r, g, b uint8) {
	r5, g6, b5 := uint8(v>>11&0x1F), uint8(v>>5&0x3F), uint8(v&0x1F)
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}
