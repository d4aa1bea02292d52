package models

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/softengine/internal/logging"
	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/texture"
)

// TextureResolver decodes the texture a material refers to by name.
type TextureResolver func(name string) (*texture.Texture, error)

// DirTextures resolves texture names as files relative to dir.
func DirTextures(dir string) TextureResolver {
	return func(name string) (*texture.Texture, error) {
		return texture.Load(filepath.Join(dir, name))
	}
}

// babylonScene is the subset of the Babylon JSON scene format the engine
// understands. Unknown fields are ignored.
type babylonScene struct {
	Materials []babylonMaterial `json:"materials"`
	Meshes    []babylonMesh     `json:"meshes"`
}

type babylonMaterial struct {
	Name           string          `json:"name"`
	ID             string          `json:"id"`
	DiffuseTexture *babylonTexture `json:"diffuseTexture"`
}

type babylonTexture struct {
	Name string `json:"name"`
}

type babylonMesh struct {
	Name       string    `json:"name"`
	ID         string    `json:"id"`
	MaterialID string    `json:"materialId"`
	Position   []float64 `json:"position"`
	Rotation   []float64 `json:"rotation"`

	// Interleaved layout: position, normal, then uvCount pairs of UVs.
	Vertices []float64 `json:"vertices"`
	UVCount  int       `json:"uvCount"`

	// Split layout used by newer exporters.
	Positions []float64 `json:"positions"`
	Normals   []float64 `json:"normals"`
	UVs       []float64 `json:"uvs"`

	Indices []int `json:"indices"`
}

// LoadBabylon reads a .babylon scene file. Textures are resolved relative
// to the scene file's directory.
func LoadBabylon(path string) ([]*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open babylon scene: %w", err)
	}
	defer f.Close()

	meshes, err := DecodeBabylon(f, DirTextures(filepath.Dir(path)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return meshes, nil
}

// DecodeBabylon decodes a Babylon JSON scene. Every mesh is validated
// (vertex stride, index count and range, material references) before any
// texture is decoded. A nil resolve leaves all meshes untextured.
func DecodeBabylon(r io.Reader, resolve TextureResolver) ([]*Mesh, error) {
	var scene babylonScene
	if err := json.NewDecoder(r).Decode(&scene); err != nil {
		return nil, fmt.Errorf("decode babylon: %w", err)
	}

	materials := make(map[string]Material, len(scene.Materials))
	for _, bm := range scene.Materials {
		mat := Material{Name: bm.Name, ID: bm.ID}
		if bm.DiffuseTexture != nil {
			mat.DiffuseTextureName = bm.DiffuseTexture.Name
		}
		materials[mat.ID] = mat
	}

	meshes := make([]*Mesh, 0, len(scene.Meshes))
	textureNames := make([]string, 0, len(scene.Meshes))
	for i := range scene.Meshes {
		bm := &scene.Meshes[i]
		mesh, err := bm.build()
		if err != nil {
			return nil, fmt.Errorf("mesh %d (%q): %w", i, bm.Name, err)
		}
		if mesh == nil {
			logging.Logger().Debug("skipping mesh without geometry", "mesh", bm.Name)
			continue
		}

		var texName string
		if bm.MaterialID != "" {
			mat, ok := materials[bm.MaterialID]
			if !ok {
				return nil, fmt.Errorf("mesh %q: %w: unknown material %q", bm.Name, ErrInvalidScene, bm.MaterialID)
			}
			texName = mat.DiffuseTextureName
		}
		meshes = append(meshes, mesh)
		textureNames = append(textureNames, texName)
	}

	if resolve != nil {
		if err := bindTextures(meshes, textureNames, resolve); err != nil {
			return nil, err
		}
	}

	logging.Logger().Info("babylon scene decoded",
		"meshes", len(meshes), "materials", len(materials))
	return meshes, nil
}

// bindTextures decodes each distinct texture once, concurrently, and shares
// the result between the meshes that reference it.
func bindTextures(meshes []*Mesh, names []string, resolve TextureResolver) error {
	unique := make(map[string]*texture.Texture)
	for _, name := range names {
		if name != "" {
			unique[name] = nil
		}
	}
	if len(unique) == 0 {
		return nil
	}

	order := make([]string, 0, len(unique))
	for name := range unique {
		order = append(order, name)
	}
	decoded := make([]*texture.Texture, len(order))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range order {
		g.Go(func() error {
			tex, err := resolve(name)
			if err != nil {
				return fmt.Errorf("texture %q: %w", name, err)
			}
			decoded[i] = tex
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, name := range order {
		unique[name] = decoded[i]
	}
	for i, mesh := range meshes {
		if names[i] != "" {
			mesh.Texture = unique[names[i]]
		}
	}
	logging.Logger().Debug("textures decoded", "count", len(order))
	return nil
}

// stride returns the number of floats per interleaved vertex.
func (bm *babylonMesh) stride() (int, error) {
	switch bm.UVCount {
	case 0:
		return 6, nil
	case 1:
		return 8, nil
	case 2:
		return 10, nil
	default:
		return 0, fmt.Errorf("%w: unsupported uvCount %d", ErrInvalidScene, bm.UVCount)
	}
}

// build validates the raw arrays and produces a Mesh. It returns nil, nil
// for meshes that carry no geometry (transform nodes, empty parents).
func (bm *babylonMesh) build() (*Mesh, error) {
	var (
		vertices []Vertex
		err      error
	)
	switch {
	case len(bm.Vertices) > 0:
		vertices, err = bm.interleaved()
	case len(bm.Positions) > 0:
		vertices, err = bm.split()
	default:
		if len(bm.Indices) > 0 {
			return nil, fmt.Errorf("%w: indices without vertices", ErrInvalidScene)
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if len(bm.Indices)%3 != 0 {
		return nil, fmt.Errorf("%w: index count %d is not a multiple of 3", ErrInvalidScene, len(bm.Indices))
	}

	mesh := NewMesh(bm.Name, 0, len(bm.Indices)/3)
	mesh.Vertices = vertices
	for i := range mesh.Faces {
		a, b, c := bm.Indices[i*3], bm.Indices[i*3+1], bm.Indices[i*3+2]
		for _, idx := range [3]int{a, b, c} {
			if idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("%w: face %d index %d out of range [0,%d)", ErrInvalidScene, i, idx, len(vertices))
			}
		}
		mesh.Faces[i] = Face{A: a, B: b, C: c}
	}

	if mesh.Position, err = vec3(bm.Position, "position"); err != nil {
		return nil, err
	}
	if mesh.Rotation, err = vec3(bm.Rotation, "rotation"); err != nil {
		return nil, err
	}

	if !mesh.hasNormals() {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()
	return mesh, nil
}

func (bm *babylonMesh) interleaved() ([]Vertex, error) {
	step, err := bm.stride()
	if err != nil {
		return nil, err
	}
	if len(bm.Vertices)%step != 0 {
		return nil, fmt.Errorf("%w: %d vertex floats do not divide into stride %d", ErrInvalidScene, len(bm.Vertices), step)
	}

	out := make([]Vertex, len(bm.Vertices)/step)
	for i := range out {
		f := bm.Vertices[i*step : (i+1)*step]
		out[i] = Vertex{
			Coordinates: math3d.V3(f[0], f[1], f[2]),
			Normal:      math3d.V3(f[3], f[4], f[5]),
		}
		if bm.UVCount > 0 {
			out[i].TextureCoordinates = math3d.V2(f[6], f[7])
		}
	}
	return out, nil
}

func (bm *babylonMesh) split() ([]Vertex, error) {
	if len(bm.Positions)%3 != 0 {
		return nil, fmt.Errorf("%w: %d position floats is not a multiple of 3", ErrInvalidScene, len(bm.Positions))
	}
	n := len(bm.Positions) / 3
	if len(bm.Normals) != 0 && len(bm.Normals) != n*3 {
		return nil, fmt.Errorf("%w: %d normal floats for %d vertices", ErrInvalidScene, len(bm.Normals), n)
	}
	if len(bm.UVs) != 0 && len(bm.UVs) != n*2 {
		return nil, fmt.Errorf("%w: %d uv floats for %d vertices", ErrInvalidScene, len(bm.UVs), n)
	}

	out := make([]Vertex, n)
	for i := range out {
		out[i].Coordinates = math3d.V3(bm.Positions[i*3], bm.Positions[i*3+1], bm.Positions[i*3+2])
		if len(bm.Normals) > 0 {
			out[i].Normal = math3d.V3(bm.Normals[i*3], bm.Normals[i*3+1], bm.Normals[i*3+2])
		}
		if len(bm.UVs) > 0 {
			out[i].TextureCoordinates = math3d.V2(bm.UVs[i*2], bm.UVs[i*2+1])
		}
	}
	return out, nil
}

// vec3 reads an optional three-element array.
func vec3(v []float64, field string) (math3d.Vec3, error) {
	switch len(v) {
	case 0:
		return math3d.Vec3{}, nil
	case 3:
		return math3d.V3(v[0], v[1], v[2]), nil
	default:
		return math3d.Vec3{}, fmt.Errorf("%w: %s has %d components, want 3", ErrInvalidScene, field, len(v))
	}
}
