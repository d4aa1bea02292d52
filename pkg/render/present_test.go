package render

import (
	"bytes"
	"errors"
	"testing"
)

// fakeSurface records what Present hands it.
type fakeSurface struct {
	pix         []byte
	invalidated int
	writeErr    error
	invErr      error
}

func (s *fakeSurface) WritePixels(pix []byte) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.pix = append(s.pix[:0], pix...)
	return nil
}

func (s *fakeSurface) Invalidate() error {
	s.invalidated++
	return s.invErr
}

func TestPresent(t *testing.T) {
	fb := NewFramebuffer(4, 3)
	fb.Clear(RGB(9, 8, 7))
	fb.WritePixel(1, 2, 0, ColorRed)

	s := &fakeSurface{}
	if err := fb.Present(s); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if !bytes.Equal(s.pix, fb.Pix()) {
		t.Error("surface pixels differ from the framebuffer")
	}
	if s.invalidated != 1 {
		t.Errorf("invalidated %d times, want 1", s.invalidated)
	}

	// The surface owns a copy.
	fb.Clear(ColorBlack)
	if s.pix[0] != 9 {
		t.Error("surface pixels alias the framebuffer")
	}
}

func TestPresentErrors(t *testing.T) {
	errWrite := errors.New("write failed")
	errInvalidate := errors.New("invalidate failed")

	tests := []struct {
		name            string
		surface         *fakeSurface
		want            error
		wantInvalidated int
	}{
		{"write error skips invalidate", &fakeSurface{writeErr: errWrite}, errWrite, 0},
		{"invalidate error", &fakeSurface{invErr: errInvalidate}, errInvalidate, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := NewFramebuffer(2, 2).Present(tc.surface)
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
			if tc.surface.invalidated != tc.wantInvalidated {
				t.Errorf("invalidated %d times, want %d", tc.surface.invalidated, tc.wantInvalidated)
			}
		})
	}
}
