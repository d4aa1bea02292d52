// Package texture holds decoded 2D pixel grids and nearest-neighbour sampling.
package texture

import (
	"image/color"
	"math"
)

// WrapMode determines how texture coordinates outside [0,1) are handled.
type WrapMode int

const (
	WrapRepeat WrapMode = iota // Tile the texture
	WrapClamp                  // Clamp to edge
)

// Texture is a fixed-size grid of RGBA texels. It is read-only once built
// and may be shared by any number of meshes and render workers.
type Texture struct {
	Name   string
	Width  int
	Height int
	Pixels []color.RGBA // Row-major texel data
	Wrap   WrapMode
}

// New creates an empty texture with the given dimensions.
func New(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// NewChecker creates a procedural checkerboard texture.
func NewChecker(width, height, cell int, c1, c2 color.RGBA) *Texture {
	tex := New(width, height)
	tex.Name = "checker"
	for y := range height {
		for x := range width {
			if (x/cell+y/cell)%2 == 0 {
				tex.Pixels[y*width+x] = c1
			} else {
				tex.Pixels[y*width+x] = c2
			}
		}
	}
	return tex
}

// Texel returns the texel at (x, y), or transparent black out of range.
func (t *Texture) Texel(x, y int) color.RGBA {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return color.RGBA{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample returns the texel nearest to the normalized coordinate (u, v).
// v = 0 addresses the first image row; no flip is applied.
func (t *Texture) Sample(u, v float64) color.RGBA {
	if t.Width == 0 || t.Height == 0 {
		return color.RGBA{}
	}
	x := t.wrap(u*float64(t.Width), t.Width)
	y := t.wrap(v*float64(t.Height), t.Height)
	return t.Pixels[y*t.Width+x]
}

// wrap maps a texel-space coordinate into [0, size).
func (t *Texture) wrap(coord float64, size int) int {
	if math.IsNaN(coord) || math.IsInf(coord, 0) {
		return 0
	}
	switch t.Wrap {
	case WrapClamp:
		coord = math.Max(0, math.Min(float64(size-1), coord))
		return int(coord)
	default:
		coord = math.Mod(math.Floor(coord), float64(size))
		if coord < 0 {
			coord += float64(size)
		}
		return int(coord)
	}
}
