package models

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/texture"
)

func writePNG(t *testing.T, path string, tex *texture.Texture) {
	t.Helper()
	img := imageFromTexture(tex)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

// triangleGLTF writes a one-triangle glTF with an embedded buffer and an
// external base color texture, and returns its path.
func triangleGLTF(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	var data bytes.Buffer
	for _, f := range []float32{0, 0, 0, 1, 0, 0, 0, 1, 0} {
		binary.Write(&data, binary.LittleEndian, f)
	}
	for _, i := range []uint16{0, 1, 2} {
		binary.Write(&data, binary.LittleEndian, i)
	}

	doc := fmt.Sprintf(`{
		"asset": {"version": "2.0"},
		"buffers": [{"byteLength": %d, "uri": "data:application/octet-stream;base64,%s"}],
		"bufferViews": [
			{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			{"buffer": 0, "byteOffset": 36, "byteLength": 6}
		],
		"accessors": [
			{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
			{"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
		],
		"images": [{"uri": "base.png"}],
		"textures": [{"source": 0}],
		"materials": [{"pbrMetallicRoughness": {"baseColorTexture": {"index": 0}}}],
		"meshes": [{"name": "Tri", "primitives": [{"attributes": {"POSITION": 0}, "indices": 1, "material": 0}]}],
		"nodes": [{"mesh": 0, "translation": [0, 0, -2]}],
		"scenes": [{"nodes": [0]}]
	}`, data.Len(), base64.StdEncoding.EncodeToString(data.Bytes()))

	path := filepath.Join(dir, "tri.gltf")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	writePNG(t, filepath.Join(dir, "base.png"),
		texture.NewChecker(2, 2, 1, color.RGBA{255, 0, 0, 255}, color.RGBA{0, 0, 255, 255}))
	return path
}

func TestLoadGLTF(t *testing.T) {
	meshes, err := LoadGLTF(triangleGLTF(t))
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("got %d meshes, want 1", len(meshes))
	}
	m := meshes[0]

	if m.Name != "Tri" || m.VertexCount() != 3 || m.TriangleCount() != 1 {
		t.Fatalf("mesh = %q with %d vertices, %d faces", m.Name, m.VertexCount(), m.TriangleCount())
	}
	if m.Faces[0] != (Face{A: 0, B: 1, C: 2}) {
		t.Errorf("face = %+v", m.Faces[0])
	}
	if m.Position != math3d.V3(0, 0, -2) {
		t.Errorf("position = %+v, want node translation", m.Position)
	}
	if m.Vertices[0].Normal != math3d.V3(0, 0, 1) {
		t.Errorf("computed normal = %+v", m.Vertices[0].Normal)
	}
	if m.Texture == nil || m.Texture.Width != 2 {
		t.Fatalf("texture = %+v", m.Texture)
	}
	if got := m.Texture.Texel(0, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("texel = %v", got)
	}
}

func TestLoadGLTFInvalidPath(t *testing.T) {
	if _, err := LoadGLTF("/nonexistent/path.glb"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}
