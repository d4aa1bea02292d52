package display

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var captionColor = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}

// Device shows frames on a tinygo display driver. The driver keeps its own
// buffer, so WritePixels pushes every pixel through SetPixel and
// Invalidate calls Display.
type Device struct {
	d       drivers.Displayer
	width   int
	height  int
	font    tinyfont.Fonter
	caption string
}

// NewDevice wraps d. The framebuffer must match d.Size().
func NewDevice(d drivers.Displayer) *Device {
	w, h := d.Size()
	return &Device{d: d, width: int(w), height: int(h), font: &proggy.TinySZ8pt7b}
}

// FramebufferSize returns the driver's dimensions.
func (d *Device) FramebufferSize() (width, height int) {
	return d.width, d.height
}

// SetCaption sets a line of text drawn over the top-left corner of every
// following frame. Empty disables it.
func (d *Device) SetCaption(s string) {
	d.caption = s
}

// WritePixels sends the frame to the driver.
func (d *Device) WritePixels(pix []byte) error {
	if err := checkSize(pix, d.width, d.height); err != nil {
		return err
	}
	for y := range d.height {
		for x := range d.width {
			d.d.SetPixel(int16(x), int16(y), rgbaAt(pix, d.width, x, y))
		}
	}
	return nil
}

// Invalidate draws the caption and flushes the driver.
func (d *Device) Invalidate() error {
	if d.caption != "" {
		tinyfont.WriteLine(d.d, d.font, 2, 10, d.caption, captionColor)
	}
	return d.d.Display()
}
