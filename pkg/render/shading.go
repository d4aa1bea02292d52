package render

import (
	"math"

	"github.com/taigrr/softengine/pkg/math3d"
)

// Light is the single point light of a scene.
type Light struct {
	Position math3d.Vec3
}

// DefaultLight returns the light used when none is configured.
func DefaultLight() Light {
	return Light{Position: math3d.V3(0, 10, 10)}
}

// Diffuse returns the lighting term for a point at world with the given
// normal: the cosine between the normal and the direction from the light to
// the point, clamped to [0, 1].
func (l Light) Diffuse(world, normal math3d.Vec3) float64 {
	dir := world.Sub(l.Position).Normalize()
	return math.Max(0, normal.Normalize().Dot(dir))
}

// Shade lights a projected vertex once, producing the rasterizer input.
// The term is interpolated across the triangle, not recomputed per pixel.
func (l Light) Shade(p ProjectedVertex) ScreenVertex {
	return ScreenVertex{
		X:     p.Screen.X,
		Y:     p.Screen.Y,
		Z:     p.Screen.Z,
		Light: l.Diffuse(p.World, p.Normal),
		UV:    p.UV,
	}
}
