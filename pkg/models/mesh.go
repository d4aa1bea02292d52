// Package models provides the scene data consumed by the renderer and the
// loaders that build it from Babylon and glTF files.
package models

import (
	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/texture"
)

// Vertex holds the model-space attributes of one mesh vertex.
type Vertex struct {
	Coordinates        math3d.Vec3
	Normal             math3d.Vec3
	TextureCoordinates math3d.Vec2 // Not clamped; sampling wraps
}

// Face is a triangle as three indices into the owning mesh's Vertices.
type Face struct {
	A, B, C int
}

// Mesh is a triangle mesh with a world pose. Vertices and Faces are fixed
// once the mesh is built; Position and Rotation may change between frames.
type Mesh struct {
	Name     string
	Position math3d.Vec3
	Rotation math3d.Vec3 // Euler angles in radians: X pitch, Y yaw, Z roll

	Vertices []Vertex
	Faces    []Face

	// Texture is shared with other meshes and never written while rendering.
	// Nil draws with opaque white.
	Texture *texture.Texture

	// Model-space bounding box (see CalculateBounds)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh allocates a mesh with room for the given vertex and face counts.
func NewMesh(name string, verticesCount, facesCount int) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]Vertex, verticesCount),
		Faces:    make([]Face, facesCount),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Coordinates
	m.BoundsMax = m.Vertices[0].Coordinates

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Coordinates)
		m.BoundsMax = m.BoundsMax.Max(v.Coordinates)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// CalculateSmoothNormals replaces every vertex normal with the normalized
// sum of the (area weighted) normals of the faces sharing it.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Vec3{}
	}

	for _, f := range m.Faces {
		v0 := m.Vertices[f.A].Coordinates
		v1 := m.Vertices[f.B].Coordinates
		v2 := m.Vertices[f.C].Coordinates
		n := v1.Sub(v0).Cross(v2.Sub(v0))

		m.Vertices[f.A].Normal = m.Vertices[f.A].Normal.Add(n)
		m.Vertices[f.B].Normal = m.Vertices[f.B].Normal.Add(n)
		m.Vertices[f.C].Normal = m.Vertices[f.C].Normal.Add(n)
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// hasNormals reports whether any vertex carries a usable normal.
func (m *Mesh) hasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.Len() > 0.001 {
			return true
		}
	}
	return false
}
