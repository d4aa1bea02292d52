package render

import (
	"math"
	"testing"
)

func TestDrawLine(t *testing.T) {
	tests := []struct {
		name string
		a, b ScreenVertex
		want int
	}{
		{"horizontal", vert(2, 5, 0.5), vert(10, 5, 0.5), 9},
		{"vertical", vert(3, 1, 0.5), vert(3, 7, 0.5), 7},
		{"diagonal", vert(0, 0, 0.5), vert(5, 5, 0.5), 6},
		{"reversed", vert(10, 5, 0.5), vert(2, 5, 0.5), 9},
		{"single pixel", vert(4, 4, 0.5), vert(4, 4, 0.5), 1},
		{"clipped on both ends", vert(-1e9, 5, 0.5), vert(1e9, 5, 0.5), 32},
		{"clipped vertical", vert(3, -10, 0.5), vert(3, 100, 0.5), 32},
		{"entirely off screen", vert(-10, -10, 0.5), vert(-2, 40, 0.5), 0},
		{"below the screen", vert(0, 40, 0.5), vert(31, 50, 0.5), 0},
		{"NaN", vert(math.NaN(), 5, 0.5), vert(10, 5, 0.5), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newTestRasterizer(32, 32)
			if got := r.DrawLine(tc.a, tc.b, ColorWhite); got != tc.want {
				t.Errorf("pixels = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDrawLineDepth(t *testing.T) {
	r, fb := newTestRasterizer(32, 32)
	fb.WritePixel(6, 5, 0.1, ColorRed)

	n := r.DrawLine(vert(2, 5, 0.2), vert(10, 5, 0.6), ColorWhite)
	if n != 8 {
		t.Errorf("pixels = %d, want 8 (one hidden)", n)
	}
	if got := fb.At(6, 5); got != ColorRed {
		t.Errorf("At(6, 5) = %v, want the nearer red pixel kept", got)
	}

	tests := []struct {
		x    int
		want float64
	}{
		{2, 0.2},
		{4, 0.3},
		{10, 0.6},
	}
	for _, tc := range tests {
		if got := fb.DepthAt(tc.x, 5); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("DepthAt(%d, 5) = %v, want %v", tc.x, got, tc.want)
		}
	}
}

func TestDrawPoint(t *testing.T) {
	tests := []struct {
		name string
		v    ScreenVertex
		want bool
	}{
		{"inside", vert(3.7, 4.2, 0.5), true},
		{"origin", vert(0, 0, 0.5), true},
		{"left of screen", vert(-0.5, 4, 0.5), false},
		{"right of screen", vert(32, 4, 0.5), false},
		{"huge", vert(1e300, 4, 0.5), false},
		{"NaN", vert(4, math.NaN(), 0.5), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newTestRasterizer(32, 32)
			if got := r.DrawPoint(tc.v, ColorWhite); got != tc.want {
				t.Errorf("DrawPoint = %v, want %v", got, tc.want)
			}
		})
	}

	r, fb := newTestRasterizer(32, 32)
	r.DrawPoint(vert(3.7, 4.2, 0.5), ColorRed)
	if got := fb.At(3, 4); got != ColorRed {
		t.Errorf("At(3, 4) = %v, want red", got)
	}
}
