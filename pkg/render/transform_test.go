package render

import (
	"math"
	"testing"

	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/models"
)

func nearVec3(a, b math3d.Vec3) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

// testTransform returns the world-view-projection matrix for a mesh at the
// origin seen from (0, 0, 10).
func testTransform(width, height int, world math3d.Mat4) math3d.Mat4 {
	cam := NewCamera(math3d.V3(0, 0, 10), math3d.V3(0, 0, 0))
	aspect := float64(width) / float64(height)
	return ProjectionMatrix(aspect).Mul(cam.ViewMatrix()).Mul(world)
}

func TestProjectCenter(t *testing.T) {
	world := math3d.Identity()
	transform := testTransform(64, 48, world)

	p := Project(models.Vertex{}, transform, world, 64, 48)
	if math.Abs(p.Screen.X-32) > 1e-9 || math.Abs(p.Screen.Y-24) > 1e-9 {
		t.Errorf("origin projects to (%v, %v), want (32, 24)", p.Screen.X, p.Screen.Y)
	}
}

func TestProjectOrientation(t *testing.T) {
	world := math3d.Identity()
	transform := testTransform(64, 64, world)
	at := func(v math3d.Vec3) math3d.Vec3 {
		return Project(models.Vertex{Coordinates: v}, transform, world, 64, 64).Screen
	}

	center := at(math3d.V3(0, 0, 0))
	if up := at(math3d.V3(0, 1, 0)); up.Y >= center.Y {
		t.Errorf("world +Y projects to y=%v, want above center %v", up.Y, center.Y)
	}
	// The camera looks down -Z in a left-handed frame, so world +X is on
	// the left of the screen.
	if right := at(math3d.V3(1, 0, 0)); right.X >= center.X {
		t.Errorf("world +X projects to x=%v, want left of center %v", right.X, center.X)
	}

	nearer, farther := at(math3d.V3(0, 0, 1)), at(math3d.V3(0, 0, -1))
	if nearer.Z >= farther.Z {
		t.Errorf("depth nearer = %v, farther = %v; want nearer smaller", nearer.Z, farther.Z)
	}
}

func TestProjectWorldAttributes(t *testing.T) {
	world := WorldMatrix(math3d.V3(1, 2, 3), math3d.Vec3{})
	transform := testTransform(64, 64, world)
	v := models.Vertex{
		Coordinates:        math3d.V3(1, 0, 0),
		Normal:             math3d.V3(0, 1, 0),
		TextureCoordinates: math3d.V2(0.25, 1.5),
	}

	p := Project(v, transform, world, 64, 64)
	if want := math3d.V3(2, 2, 3); !nearVec3(p.World, want) {
		t.Errorf("World = %+v, want %+v", p.World, want)
	}
	// Normals share the position transform, translation included.
	if want := math3d.V3(1, 3, 3); !nearVec3(p.Normal, want) {
		t.Errorf("Normal = %+v, want %+v", p.Normal, want)
	}
	if p.UV != v.TextureCoordinates {
		t.Errorf("UV = %+v, want %+v unchanged", p.UV, v.TextureCoordinates)
	}
}

func TestWorldMatrix(t *testing.T) {
	tests := []struct {
		name         string
		pos, rot, in math3d.Vec3
		want         math3d.Vec3
	}{
		{"identity", math3d.Vec3{}, math3d.Vec3{}, math3d.V3(1, 2, 3), math3d.V3(1, 2, 3)},
		{"translate", math3d.V3(5, 0, 0), math3d.Vec3{}, math3d.V3(1, 0, 0), math3d.V3(6, 0, 0)},
		{"yaw then translate", math3d.V3(5, 0, 0), math3d.V3(0, math.Pi/2, 0), math3d.V3(1, 0, 0), math3d.V3(5, 0, -1)},
		{"pitch", math3d.Vec3{}, math3d.V3(math.Pi/2, 0, 0), math3d.V3(0, 1, 0), math3d.V3(0, 0, 1)},
		{"roll", math3d.Vec3{}, math3d.V3(0, 0, math.Pi/2), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := WorldMatrix(tc.pos, tc.rot).MulVec3(tc.in)
			if !nearVec3(got, tc.want) {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestDiffuse(t *testing.T) {
	light := DefaultLight()

	tests := []struct {
		name          string
		world, normal math3d.Vec3
		want          float64
	}{
		{"normal along light-to-point", math3d.Vec3{}, math3d.V3(0, -1, -1), 1},
		{"unnormalized normal", math3d.Vec3{}, math3d.V3(0, -5, -5), 1},
		{"opposite clamps to zero", math3d.Vec3{}, math3d.V3(0, 1, 1), 0},
		{"perpendicular", math3d.Vec3{}, math3d.V3(1, 0, 0), 0},
		{"zero normal", math3d.Vec3{}, math3d.Vec3{}, 0},
		{"half angle", math3d.V3(0, 10, 0), math3d.V3(0, -1, -1), math.Sqrt(0.5)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := light.Diffuse(tc.world, tc.normal)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestShade(t *testing.T) {
	light := Light{Position: math3d.V3(0, 0, -10)}
	p := ProjectedVertex{
		Screen: math3d.V3(3, 4, 0.5),
		World:  math3d.Vec3{},
		Normal: math3d.V3(0, 0, 1),
		UV:     math3d.V2(0.1, 0.2),
	}

	got := light.Shade(p)
	want := ScreenVertex{X: 3, Y: 4, Z: 0.5, Light: 1, UV: math3d.V2(0.1, 0.2)}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
