package display

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/softengine/internal/logging"
)

// Screen is the part of an ultraviolet terminal a Terminal draws on.
// *uv.Terminal satisfies it.
type Screen interface {
	Bounds() uv.Rectangle
	SetCell(x, y int, c *uv.Cell)
	Display() error
}

// Terminal shows frames in a terminal with upper half blocks: each cell
// covers two framebuffer rows, the top pixel as foreground and the bottom
// one as background.
type Terminal struct {
	scr    Screen
	width  int
	height int
	pix    []byte
}

// NewTerminal creates a surface filling the screen bounds. The framebuffer
// presented to it must be FramebufferSize.
func NewTerminal(scr Screen) *Terminal {
	b := scr.Bounds()
	t := &Terminal{
		scr:    scr,
		width:  max(b.Dx(), 0),
		height: max(b.Dy(), 0) * 2,
	}
	t.pix = make([]byte, t.width*t.height*4)
	logging.Logger().Info("terminal surface", "cols", b.Dx(), "rows", b.Dy())
	return t
}

// FramebufferSize returns the framebuffer dimensions this surface shows:
// one pixel per column and two per row.
func (t *Terminal) FramebufferSize() (width, height int) {
	return t.width, t.height
}

// WritePixels copies the frame.
func (t *Terminal) WritePixels(pix []byte) error {
	if err := checkSize(pix, t.width, t.height); err != nil {
		return err
	}
	copy(t.pix, pix)
	return nil
}

// Invalidate draws the last written frame and flushes the screen.
func (t *Terminal) Invalidate() error {
	origin := t.scr.Bounds().Min

	for row := 0; row < t.height/2; row++ {
		top, bottom := row*2, row*2+1
		for col := 0; col < t.width; col++ {
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(rgbaAt(t.pix, t.width, col, top)),
					Bg: cellColor(rgbaAt(t.pix, t.width, col, bottom)),
				},
			}
			t.scr.SetCell(origin.X+col, origin.Y+row, cell)
		}
	}
	return t.scr.Display()
}

// cellColor maps a transparent pixel to the terminal's default color.
func cellColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}
