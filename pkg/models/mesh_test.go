package models

import (
	"image"
	"math"
	"testing"

	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/texture"
)

func imageFromTexture(tex *texture.Texture) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, tex.Width, tex.Height))
	for y := range tex.Height {
		for x := range tex.Width {
			img.SetRGBA(x, y, tex.Texel(x, y))
		}
	}
	return img
}

func TestNewCube(t *testing.T) {
	cube := NewCube()

	if cube.VertexCount() != 8 || cube.TriangleCount() != 12 {
		t.Fatalf("cube has %d vertices, %d faces", cube.VertexCount(), cube.TriangleCount())
	}
	if cube.BoundsMin != math3d.V3(-1, -1, -1) || cube.BoundsMax != math3d.V3(1, 1, 1) {
		t.Errorf("bounds = %+v..%+v", cube.BoundsMin, cube.BoundsMax)
	}
	if cube.Center() != (math3d.Vec3{}) {
		t.Errorf("center = %+v", cube.Center())
	}

	// Every corner is used and every normal is unit length.
	used := make([]bool, 8)
	for _, f := range cube.Faces {
		used[f.A], used[f.B], used[f.C] = true, true, true
	}
	for i, v := range cube.Vertices {
		if !used[i] {
			t.Errorf("vertex %d unused", i)
		}
		if l := v.Normal.Len(); math.Abs(l-1) > 1e-9 {
			t.Errorf("vertex %d normal length %v", i, l)
		}
	}
}

func TestCalculateSmoothNormals(t *testing.T) {
	// Two triangles folded along the shared edge 0-1.
	m := NewMesh("fold", 4, 2)
	m.Vertices[0].Coordinates = math3d.V3(0, 0, 0)
	m.Vertices[1].Coordinates = math3d.V3(1, 0, 0)
	m.Vertices[2].Coordinates = math3d.V3(0, 1, 0) // face normal +Z
	m.Vertices[3].Coordinates = math3d.V3(0, 0, -1)
	m.Faces[0] = Face{A: 0, B: 1, C: 2}
	m.Faces[1] = Face{A: 0, B: 1, C: 3} // face normal +Y

	m.CalculateSmoothNormals()

	inv := 1 / math.Sqrt2
	tests := []struct {
		vertex int
		want   math3d.Vec3
	}{
		{0, math3d.V3(0, inv, inv)},
		{1, math3d.V3(0, inv, inv)},
		{2, math3d.V3(0, 0, 1)},
		{3, math3d.V3(0, 1, 0)},
	}
	for _, tt := range tests {
		got := m.Vertices[tt.vertex].Normal
		if got.Sub(tt.want).Len() > 1e-9 {
			t.Errorf("vertex %d normal = %+v, want %+v", tt.vertex, got, tt.want)
		}
	}
	if !m.hasNormals() {
		t.Error("hasNormals should report computed normals")
	}
}

func TestCalculateBoundsEmpty(t *testing.T) {
	m := NewMesh("empty", 0, 0)
	m.CalculateBounds()
	if m.Size() != (math3d.Vec3{}) {
		t.Errorf("empty mesh size = %+v", m.Size())
	}
}
