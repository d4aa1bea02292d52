package render

import (
	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/models"
)

// ProjectedVertex is a vertex after the transform pipeline. It only lives
// for the duration of one triangle.
type ProjectedVertex struct {
	Screen math3d.Vec3 // Pixel x, pixel y (origin top-left), depth
	World  math3d.Vec3 // World-space position, for lighting
	Normal math3d.Vec3 // World-space normal, for lighting
	UV     math3d.Vec2
}

// WorldMatrix rotates by the Euler angles in rotation (X pitch, Y yaw,
// Z roll) and then translates by position.
func WorldMatrix(position, rotation math3d.Vec3) math3d.Mat4 {
	return math3d.Translate(position).Mul(
		math3d.RotationYawPitchRoll(rotation.Y, rotation.X, rotation.Z))
}

// Project maps a model-space vertex to the screen of a width x height
// framebuffer. transform is the full world-view-projection matrix and
// world the mesh's world matrix alone.
//
// The normal goes through the same world matrix as the position; world
// matrices here are rigid so no inverse transpose is needed.
func Project(v models.Vertex, transform, world math3d.Mat4, width, height int) ProjectedVertex {
	p := transform.MulVec3(v.Coordinates)
	w, h := float64(width), float64(height)

	return ProjectedVertex{
		Screen: math3d.V3(p.X*w+w/2, -p.Y*h+h/2, p.Z),
		World:  world.MulVec3(v.Coordinates),
		Normal: world.MulVec3(v.Normal),
		UV:     v.TextureCoordinates,
	}
}
