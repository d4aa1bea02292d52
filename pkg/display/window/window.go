//go:build !tinygo

// Package window shows rendered frames in a desktop window.
package window

import (
	"errors"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/taigrr/softengine/pkg/display"
)

// ErrClosed is returned by Update when the user closes the window with
// Escape or Q; Run treats it as a clean exit.
var ErrClosed = errors.New("window closed")

// Window is an ebiten game displaying the most recently presented frame.
// Presenting happens from the render loop while ebiten draws on its own
// goroutine, so the frame is guarded by a mutex.
type Window struct {
	title  string
	width  int
	height int
	scale  int

	mu    sync.Mutex
	pix   []byte
	dirty bool
	img   *ebiten.Image

	// Step runs once per tick before drawing; it renders and presents the
	// next frame. A non-nil error stops the window.
	Step func() error

	// TPS is the tick rate, which paces Step. Default 60.
	TPS int
}

// New creates a window for width x height frames, shown scale times larger.
func New(title string, width, height, scale int) *Window {
	return &Window{
		title:  title,
		width:  width,
		height: height,
		scale:  max(scale, 1),
		pix:    make([]byte, width*height*4),
		TPS:    60,
	}
}

// FramebufferSize returns the frame dimensions.
func (w *Window) FramebufferSize() (width, height int) {
	return w.width, w.height
}

// WritePixels copies the frame.
func (w *Window) WritePixels(pix []byte) error {
	if len(pix) != len(w.pix) {
		return display.ErrSize
	}
	w.mu.Lock()
	copy(w.pix, pix)
	w.mu.Unlock()
	return nil
}

// Invalidate marks the frame for upload on the next draw.
func (w *Window) Invalidate() error {
	w.mu.Lock()
	w.dirty = true
	w.mu.Unlock()
	return nil
}

// Update implements ebiten.Game.
func (w *Window) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ErrClosed
	}
	if w.Step != nil {
		return w.Step()
	}
	return nil
}

// Draw implements ebiten.Game.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.img == nil {
		w.img = ebiten.NewImage(w.width, w.height)
	}

	w.mu.Lock()
	if w.dirty {
		w.img.WritePixels(w.pix)
		w.dirty = false
	}
	w.mu.Unlock()

	screen.DrawImage(w.img, nil)
}

// Layout implements ebiten.Game.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.width, w.height
}

// Run opens the window and blocks until it is closed.
func (w *Window) Run() error {
	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowSize(w.width*w.scale, w.height*w.scale)
	ebiten.SetTPS(w.TPS)

	err := ebiten.RunGame(w)
	if errors.Is(err, ErrClosed) {
		return nil
	}
	return err
}
