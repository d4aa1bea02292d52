package math3d

import "math"

// Mat4 is a 4x4 matrix stored in column-major order and applied to column
// vectors, so a chain written a.Mul(b).Mul(c) applies c first.
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = v.X, v.Y, v.Z
	return m
}

// RotateX rotates around the X axis (pitch).
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY rotates around the Y axis (yaw).
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ rotates around the Z axis (roll).
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// RotationYawPitchRoll builds the Euler rotation that rolls around Z first,
// then pitches around X, then yaws around Y.
func RotationYawPitchRoll(yaw, pitch, roll float64) Mat4 {
	return RotateY(yaw).Mul(RotateX(pitch)).Mul(RotateZ(roll))
}

// LookAtLH creates a left-handed view matrix: the camera looks down +Z
// towards target with +Y as the approximate up direction.
func LookAtLH(eye, target, up Vec3) Mat4 {
	z := target.Sub(eye).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x)

	return Mat4{
		x.X, y.X, z.X, 0,
		x.Y, y.Y, z.Y, 0,
		x.Z, y.Z, z.Z, 0,
		-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1,
	}
}

// PerspectiveFovLH creates a left-handed perspective projection.
// fov is the vertical field of view in radians and aspect is width/height.
// Depth maps to 0 at near and 1 at far; w takes the view-space z.
func PerspectiveFovLH(fov, aspect, near, far float64) Mat4 {
	yScale := 1 / math.Tan(fov/2)
	xScale := yScale / aspect
	q := far / (far - near)

	return Mat4{
		xScale, 0, 0, 0,
		0, yScale, 0, 0,
		0, 0, q, 1,
		0, 0, -q * near, 0,
	}
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row+k*4] * b[k+col*4]
			}
			m[row+col*4] = sum
		}
	}
	return m
}

// MulVec3 transforms v as a point (w=1) and divides by the resulting w.
// A zero w is treated as 1.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec4(Point(v)).PerspectiveDivide()
}

// MulVec4 transforms a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// Row returns row i as a Vec4.
func (m Mat4) Row(i int) Vec4 {
	return Vec4{m[i], m[i+4], m[i+8], m[i+12]}
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+col*4]
}
