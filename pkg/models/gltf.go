package models

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/softengine/internal/logging"
	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/texture"
)

// LoadGLTF loads a glTF or GLB file. Every glTF mesh becomes one Mesh with
// all of its triangle primitives merged. The translation of the first node
// instancing a mesh becomes its Position, and the base color texture of the
// first textured primitive becomes its Texture.
func LoadGLTF(path string) ([]*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	images, err := decodeGLTFImages(doc, filepath.Dir(path))
	if err != nil {
		return nil, err
	}

	placed := make(map[int]bool)
	positions := make(map[int]math3d.Vec3)
	for _, node := range doc.Nodes {
		if node.Mesh == nil || placed[*node.Mesh] {
			continue
		}
		t := node.Translation
		positions[*node.Mesh] = math3d.V3(t[0], t[1], t[2])
		placed[*node.Mesh] = true
	}

	meshes := make([]*Mesh, 0, len(doc.Meshes))
	for i, gm := range doc.Meshes {
		name := gm.Name
		if name == "" {
			name = fmt.Sprintf("%s#%d", filepath.Base(path), i)
		}
		mesh := NewMesh(name, 0, 0)
		mesh.Position = positions[i]

		for _, prim := range gm.Primitives {
			if err := appendPrimitive(doc, prim, mesh); err != nil {
				return nil, fmt.Errorf("mesh %q: %w", name, err)
			}
			if mesh.Texture == nil {
				if img := baseColorImage(doc, prim); img >= 0 && img < len(images) {
					mesh.Texture = images[img]
				}
			}
		}
		if len(mesh.Faces) == 0 {
			logging.Logger().Debug("skipping mesh without triangles", "mesh", name)
			continue
		}

		if !mesh.hasNormals() {
			mesh.CalculateSmoothNormals()
		}
		mesh.CalculateBounds()
		meshes = append(meshes, mesh)
	}

	logging.Logger().Info("gltf scene decoded", "path", path, "meshes", len(meshes), "images", len(images))
	return meshes, nil
}

// appendPrimitive merges one triangle-list primitive into mesh.
func appendPrimitive(doc *gltf.Document, prim *gltf.Primitive, mesh *Mesh) error {
	if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
		// Lines and points carry no surface.
		return nil
	}
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil
	}

	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return fmt.Errorf("read normals: %w", err)
		}
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return fmt.Errorf("read uvs: %w", err)
		}
	}

	base := len(mesh.Vertices)
	for i, p := range positions {
		v := Vertex{Coordinates: math3d.V3(float64(p[0]), float64(p[1]), float64(p[2]))}
		if i < len(normals) {
			n := normals[i]
			v.Normal = math3d.V3(float64(n[0]), float64(n[1]), float64(n[2]))
		}
		if i < len(uvs) {
			// glTF UVs already address the first image row at v=0.
			v.TextureCoordinates = math3d.V2(float64(uvs[i][0]), float64(uvs[i][1]))
		}
		mesh.Vertices = append(mesh.Vertices, v)
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
	} else {
		// Non-indexed: consecutive vertex triples
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return fmt.Errorf("%w: index count %d is not a multiple of 3", ErrInvalidScene, len(indices))
	}

	for i := 0; i+2 < len(indices); i += 3 {
		f := Face{A: base + int(indices[i]), B: base + int(indices[i+1]), C: base + int(indices[i+2])}
		if max(f.A, f.B, f.C) >= len(mesh.Vertices) {
			return fmt.Errorf("%w: face index out of range", ErrInvalidScene)
		}
		mesh.Faces = append(mesh.Faces, f)
	}
	return nil
}

// baseColorImage returns the image index behind a primitive's base color
// texture, or -1.
func baseColorImage(doc *gltf.Document, prim *gltf.Primitive) int {
	if prim.Material == nil || *prim.Material >= len(doc.Materials) {
		return -1
	}
	pbr := doc.Materials[*prim.Material].PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorTexture == nil {
		return -1
	}
	if pbr.BaseColorTexture.Index >= len(doc.Textures) {
		return -1
	}
	src := doc.Textures[pbr.BaseColorTexture.Index].Source
	if src == nil {
		return -1
	}
	return *src
}

// decodeGLTFImages decodes every image of the document concurrently.
// Images stored in a buffer view are sliced out of the loaded buffer and
// external images are read relative to dir. An image that fails to decode
// is logged and left nil so the mesh falls back to untextured.
func decodeGLTFImages(doc *gltf.Document, dir string) ([]*texture.Texture, error) {
	out := make([]*texture.Texture, len(doc.Images))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, img := range doc.Images {
		g.Go(func() error {
			data, err := gltfImageData(doc, img, dir)
			if err != nil {
				return fmt.Errorf("image %d: %w", i, err)
			}
			if data == nil {
				return nil
			}
			tex, err := texture.Decode(bytes.NewReader(data))
			if err != nil {
				logging.Logger().Warn("gltf image not decodable", "image", i, "err", err)
				return nil
			}
			tex.Name = img.Name
			out[i] = tex
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func gltfImageData(doc *gltf.Document, img *gltf.Image, dir string) ([]byte, error) {
	switch {
	case img.BufferView != nil:
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		end := bv.ByteOffset + bv.ByteLength
		if end > len(buf.Data) {
			return nil, fmt.Errorf("%w: buffer view exceeds buffer", ErrInvalidScene)
		}
		return buf.Data[bv.ByteOffset:end], nil
	case strings.HasPrefix(img.URI, "data:"):
		logging.Logger().Warn("embedded data URI images are not supported", "image", img.Name)
		return nil, nil
	case img.URI != "":
		return os.ReadFile(filepath.Join(dir, img.URI))
	default:
		return nil, nil
	}
}
