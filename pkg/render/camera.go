package render

import (
	"github.com/taigrr/softengine/pkg/math3d"
)

// Projection parameters shared by every frame. Scene geometry has to sit
// between ZNear and ZFar in view depth for its depth values to stay in
// [0, 1]; nothing is clipped against these planes.
const (
	FieldOfView = 0.78 // Vertical, in radians
	ZNear       = 0.01
	ZFar        = 1.0
)

// Camera looks from Position towards Target with world +Y as up.
type Camera struct {
	Position math3d.Vec3
	Target   math3d.Vec3
}

// NewCamera creates a camera at position looking at target.
func NewCamera(position, target math3d.Vec3) Camera {
	return Camera{Position: position, Target: target}
}

// ViewMatrix returns the left-handed view matrix.
func (c Camera) ViewMatrix() math3d.Mat4 {
	return math3d.LookAtLH(c.Position, c.Target, math3d.Up())
}

// ProjectionMatrix returns the left-handed perspective projection for a
// framebuffer of the given aspect ratio (width / height).
func ProjectionMatrix(aspect float64) math3d.Mat4 {
	return math3d.PerspectiveFovLH(FieldOfView, aspect, ZNear, ZFar)
}
