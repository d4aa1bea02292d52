package render

import (
	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/models"
)

// Plane is the half-space Normal·p + D >= 0.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize scales the plane so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to point.
// Positive is inside.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum holds the four side planes bounding what lands on screen, with
// normals pointing inward. Depth is not bounded: the projection never
// clips against its near and far planes, so neither does culling.
type Frustum struct {
	Planes [4]Plane
}

// Frustum plane indices.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
)

// NewScreenFrustum extracts the side planes from a world-to-clip matrix.
//
// Screen mapping sends normalized x to x*width + width/2, so only the
// [-0.5, 0.5] range of normalized coordinates reaches the framebuffer;
// the planes are taken at w/2 rather than at w.
func NewScreenFrustum(m math3d.Mat4) Frustum {
	x, y, w := m.Row(0), m.Row(1), m.Row(3).Scale(0.5)

	planes := [4]math3d.Vec4{
		FrustumLeft:   w.Add(x),
		FrustumRight:  w.Sub(x),
		FrustumBottom: w.Add(y),
		FrustumTop:    w.Sub(y),
	}

	var f Frustum
	for i, p := range planes {
		f.Planes[i] = Plane{Normal: math3d.V3(p.X, p.Y, p.Z), D: p.W}
		f.Planes[i].Normalize()
	}
	return f
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// MeshBounds returns the model-space bounds of m.
func MeshBounds(m *models.Mesh) AABB {
	return AABB{Min: m.BoundsMin, Max: m.BoundsMax}
}

// Transform returns the box bounding all eight corners of b after m.
func (b AABB) Transform(m math3d.Mat4) AABB {
	corners := [8]math3d.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}

	lo := m.MulVec3(corners[0])
	hi := lo
	for _, c := range corners[1:] {
		p := m.MulVec3(c)
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return AABB{Min: lo, Max: hi}
}

// IntersectAABB reports whether any part of box may be visible. For each
// plane it tests the corner furthest along the normal; if even that corner
// is outside, so is the whole box.
func (f Frustum) IntersectAABB(box AABB) bool {
	for _, plane := range f.Planes {
		p := math3d.V3(
			pick(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			pick(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			pick(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if plane.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
