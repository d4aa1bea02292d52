package render

import (
	"math"

	"github.com/taigrr/softengine/pkg/math3d"
)

// Sampler maps normalized texture coordinates to a color.
type Sampler interface {
	Sample(u, v float64) Color
}

// ScreenVertex is a triangle corner ready for scan conversion.
type ScreenVertex struct {
	X, Y  float64 // Pixel coordinates
	Z     float64 // Depth, smaller is nearer
	Light float64 // Diffuse term in [0, 1]
	UV    math3d.Vec2
}

// Rasterizer scan-converts triangles into a framebuffer. It keeps no
// per-triangle state, so one Rasterizer may be used from many goroutines.
type Rasterizer struct {
	fb *Framebuffer
}

// NewRasterizer creates a rasterizer drawing into fb.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	return &Rasterizer{fb: fb}
}

// scanline is one row of a triangle: the left boundary runs from la to lb
// and the right boundary from ra to rb.
type scanline struct {
	y      int
	la, lb ScreenVertex
	ra, rb ScreenVertex
}

// DrawTriangle fills the triangle v1 v2 v3 with base modulated by tex
// (opaque white when tex is nil) and the interpolated light, depth testing
// every pixel. It returns the number of scanlines processed: one per
// integer row from floor(top y) to floor(bottom y), limited to the rows
// inside the framebuffer.
func (r *Rasterizer) DrawTriangle(v1, v2, v3 ScreenVertex, base Color, tex Sampler) int {
	if !finite(v1) || !finite(v2) || !finite(v3) {
		return 0
	}

	// Sort by y: v1 top, v2 middle, v3 bottom. Ties keep their order.
	if v1.Y > v2.Y {
		v1, v2 = v2, v1
	}
	if v2.Y > v3.Y {
		v2, v3 = v3, v2
	}
	if v1.Y > v2.Y {
		v1, v2 = v2, v1
	}

	// v2 lies right of the long edge v1-v3 when the v1-v2 edge leans
	// further right.
	v2Right := inverseSlope(v1, v2) > inverseSlope(v1, v3)

	top := math.Max(math.Floor(v1.Y), 0)
	bottom := math.Min(math.Floor(v3.Y), float64(r.fb.height-1))
	if top > bottom {
		return 0
	}
	rows := 0
	for y := int(top); float64(y) <= bottom; y++ {
		upper := float64(y) < v2.Y
		var s scanline
		switch {
		case v2Right && upper:
			s = scanline{y: y, la: v1, lb: v3, ra: v1, rb: v2}
		case v2Right:
			s = scanline{y: y, la: v1, lb: v3, ra: v2, rb: v3}
		case upper:
			s = scanline{y: y, la: v1, lb: v2, ra: v1, rb: v3}
		default:
			s = scanline{y: y, la: v2, lb: v3, ra: v1, rb: v3}
		}
		r.fillScanline(s, base, tex)
		rows++
	}
	return rows
}

// fillScanline writes the pixels x with left <= x < right on row s.y.
func (r *Rasterizer) fillScanline(s scanline, base Color, tex Sampler) {
	y := float64(s.y)
	g1 := edgeGradient(y, s.la, s.lb)
	g2 := edgeGradient(y, s.ra, s.rb)

	left := lerp(s.la.X, s.lb.X, g1)
	right := lerp(s.ra.X, s.rb.X, g2)
	start := math.Max(math.Ceil(left), 0)
	end := math.Min(math.Ceil(right), float64(r.fb.width))
	if start >= end {
		return
	}

	z1, z2 := lerp(s.la.Z, s.lb.Z, g1), lerp(s.ra.Z, s.rb.Z, g2)
	l1, l2 := lerp(s.la.Light, s.lb.Light, g1), lerp(s.ra.Light, s.rb.Light, g2)
	uv1, uv2 := s.la.UV.Lerp(s.lb.UV, g1), s.ra.UV.Lerp(s.rb.UV, g2)
	span := right - left

	for x := int(start); float64(x) < end; x++ {
		g := 1.0
		if span > 0 {
			g = clamp01((float64(x) - left) / span)
		}

		texel := ColorWhite
		if tex != nil {
			uv := uv1.Lerp(uv2, g)
			texel = tex.Sample(uv.X, uv.Y)
		}
		c := MultiplyColor(ModulateColor(base, texel), lerp(l1, l2, g))
		r.fb.WritePixel(x, s.y, lerp(z1, z2, g), c)
	}
}

// edgeGradient is how far row y sits between a and b, clamped to [0, 1].
// A horizontal edge yields 1, collapsing it onto its end point.
func edgeGradient(y float64, a, b ScreenVertex) float64 {
	if a.Y == b.Y {
		return 1
	}
	return clamp01((y - a.Y) / (b.Y - a.Y))
}

// inverseSlope returns dx/dy of the edge a-b (a.Y <= b.Y). Horizontal
// edges are infinitely steep in the direction of b.
func inverseSlope(a, b ScreenVertex) float64 {
	dy := b.Y - a.Y
	if dy > 0 {
		return (b.X - a.X) / dy
	}
	switch {
	case b.X > a.X:
		return math.Inf(1)
	case b.X < a.X:
		return math.Inf(-1)
	default:
		return 0
	}
}

func finite(v ScreenVertex) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
