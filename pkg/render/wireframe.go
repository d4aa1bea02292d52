package render

import "math"

// DrawLine draws the segment a-b with Bresenham's algorithm, depth testing
// each pixel against a depth interpolated along the line. The segment is
// clipped to the framebuffer first. It returns the number of pixels
// written.
func (r *Rasterizer) DrawLine(a, b ScreenVertex, c Color) int {
	if !finite(a) || !finite(b) {
		return 0
	}
	a, b, ok := r.clip(a, b)
	if !ok {
		return 0
	}

	x0, y0 := int(math.Round(a.X)), int(math.Round(a.Y))
	x1, y1 := int(math.Round(b.X)), int(math.Round(b.Y))

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	steps := float64(max(dx, -dy))
	err := dx + dy

	written := 0
	for i := 0; ; i++ {
		z := a.Z
		if steps > 0 {
			z = lerp(a.Z, b.Z, float64(i)/steps)
		}
		if r.fb.WritePixel(x0, y0, z, c) {
			written++
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
	return written
}

// DrawPoint writes the single pixel under v.
func (r *Rasterizer) DrawPoint(v ScreenVertex, c Color) bool {
	if !finite(v) {
		return false
	}
	x, y := math.Floor(v.X), math.Floor(v.Y)
	if x < 0 || y < 0 || x >= float64(r.fb.width) || y >= float64(r.fb.height) {
		return false
	}
	return r.fb.WritePixel(int(x), int(y), v.Z, c)
}

// clip trims a-b to the framebuffer rectangle (Liang-Barsky), carrying
// depth along. ok is false when nothing of the segment is on screen.
func (r *Rasterizer) clip(a, b ScreenVertex) (ScreenVertex, ScreenVertex, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	t0, t1 := 0.0, 1.0
	maxX, maxY := float64(r.fb.width-1), float64(r.fb.height-1)

	edges := [4][2]float64{
		{-dx, a.X},
		{dx, maxX - a.X},
		{-dy, a.Y},
		{dy, maxY - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = math.Max(t0, t)
		} else {
			t1 = math.Min(t1, t)
		}
		if t0 > t1 {
			return a, b, false
		}
	}

	at := func(t float64) ScreenVertex {
		return ScreenVertex{X: a.X + dx*t, Y: a.Y + dy*t, Z: lerp(a.Z, b.Z, t)}
	}
	return at(t0), at(t1), true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
