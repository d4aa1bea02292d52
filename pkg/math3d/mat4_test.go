package math3d

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b Vec3) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

func TestRotationYawPitchRoll(t *testing.T) {
	half := math.Pi / 2
	tests := []struct {
		name             string
		yaw, pitch, roll float64
		in, want         Vec3
	}{
		{"identity", 0, 0, 0, V3(1, 2, 3), V3(1, 2, 3)},
		{"yaw quarter turn", half, 0, 0, V3(1, 0, 0), V3(0, 0, -1)},
		{"pitch quarter turn", 0, half, 0, V3(0, 1, 0), V3(0, 0, 1)},
		{"roll quarter turn", 0, 0, half, V3(1, 0, 0), V3(0, 1, 0)},
		// roll is applied before pitch
		{"roll then pitch", 0, half, half, V3(1, 0, 0), V3(0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RotationYawPitchRoll(tt.yaw, tt.pitch, tt.roll).MulVec3(tt.in)
			if !near(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTranslateAfterRotate(t *testing.T) {
	world := Translate(V3(5, 0, 0)).Mul(RotateY(math.Pi / 2))
	got := world.MulVec3(V3(1, 0, 0))
	if want := V3(5, 0, -1); !near(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestLookAtLH(t *testing.T) {
	view := LookAtLH(V3(0, 0, 10), V3(0, 0, 0), Up())

	tests := []struct {
		name     string
		in, want Vec3
	}{
		{"target is straight ahead", V3(0, 0, 0), V3(0, 0, 10)},
		{"eye is the origin", V3(0, 0, 10), V3(0, 0, 0)},
		{"up stays up", V3(0, 1, 0), V3(0, 1, 10)},
		{"world +x is view -x", V3(1, 0, 0), V3(-1, 0, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := view.MulVec3(tt.in); !near(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPerspectiveFovLH(t *testing.T) {
	const (
		zNear = 0.01
		zFar  = 1.0
	)
	proj := PerspectiveFovLH(0.78, 640.0/480.0, zNear, zFar)

	t.Run("near plane maps to zero depth", func(t *testing.T) {
		if got := proj.MulVec3(V3(0, 0, zNear)); math.Abs(got.Z) > eps {
			t.Errorf("depth at near = %v, want 0", got.Z)
		}
	})

	t.Run("far plane maps to unit depth", func(t *testing.T) {
		if got := proj.MulVec3(V3(0, 0, zFar)); math.Abs(got.Z-1) > eps {
			t.Errorf("depth at far = %v, want 1", got.Z)
		}
	})

	t.Run("depth grows with distance", func(t *testing.T) {
		a := proj.MulVec3(V3(0, 0, 2)).Z
		b := proj.MulVec3(V3(0, 0, 5)).Z
		if a >= b {
			t.Errorf("depth(2)=%v should be less than depth(5)=%v", a, b)
		}
	})

	t.Run("w carries view depth", func(t *testing.T) {
		clip := proj.MulVec4(V4(1, 1, 7, 1))
		if clip.W != 7 {
			t.Errorf("w = %v, want 7", clip.W)
		}
	})
}

func TestMulVec3ZeroW(t *testing.T) {
	var m Mat4
	m[0], m[5], m[10] = 2, 2, 2
	if got := m.MulVec3(V3(1, 2, 3)); !near(got, V3(2, 4, 6)) {
		t.Errorf("zero w should skip the divide, got %+v", got)
	}
}

func TestRow(t *testing.T) {
	m := Translate(V3(4, 5, 6))
	if got := m.Row(0); got != V4(1, 0, 0, 4) {
		t.Errorf("row 0 = %+v", got)
	}
	if got := m.Get(2, 3); got != 6 {
		t.Errorf("Get(2,3) = %v, want 6", got)
	}
}
