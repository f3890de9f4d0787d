package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/softrender/pkg/math3d"
)

// writeQuadGLB saves a two-triangle quad and returns its path.
func writeQuadGLB(t *testing.T, withNormals, withUVs bool) string {
	t.Helper()

	doc := gltf.NewDocument()
	attrs := map[string]int{
		gltf.POSITION: modeler.WritePosition(doc, [][3]float32{
			{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		}),
	}
	if withNormals {
		attrs[gltf.NORMAL] = modeler.WriteNormal(doc, [][3]float32{
			{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1},
		})
	}
	if withUVs {
		attrs[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(doc, [][2]float32{
			{0, 0}, {1, 0}, {1, 0.25}, {0, 1},
		})
	}
	indices := modeler.WriteIndices(doc, []uint16{0, 1, 2, 0, 2, 3})

	doc.Meshes = []*gltf.Mesh{{
		Name: "quad",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(indices),
			Attributes: attrs,
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: "quad", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	path := filepath.Join(t.TempDir(), "quad.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}

func TestLoadGLTFQuad(t *testing.T) {
	m, img, err := LoadGLTF(writeQuadGLB(t, true, true))
	require.NoError(t, err)
	assert.Nil(t, img)

	assert.Equal(t, "quad.glb", m.Name)
	assert.Equal(t, 4, m.VertexCount())
	require.Equal(t, 2, m.FaceCount())
	assert.Equal(t, [3]int{0, 1, 2}, m.Face(0).V)
	assert.Equal(t, [3]int{0, 2, 3}, m.Face(1).V)
	assert.Equal(t, math3d.V3(1, 1, 0), m.Vertex(0, 2))
	assert.Equal(t, math3d.V3(0, 0, 1), m.Normal(1, 2))

	// V is flipped to a bottom-left origin.
	uv := m.UV(0, 2)
	assert.InDelta(t, 1.0, uv.X, 1e-6)
	assert.InDelta(t, 0.75, uv.Y, 1e-6)
}

func TestLoadGLTFComputesNormals(t *testing.T) {
	m, _, err := LoadGLTF(writeQuadGLB(t, false, false))
	require.NoError(t, err)

	require.True(t, m.HasNormals())
	for face := range m.FaceCount() {
		for nth := range 3 {
			assert.InDelta(t, 1.0, m.Normal(face, nth).Z, 1e-9)
		}
	}
	assert.Equal(t, [3]int{-1, -1, -1}, m.Face(0).T)
}

func TestLoadGLTFNoMeshes(t *testing.T) {
	doc := gltf.NewDocument()
	path := filepath.Join(t.TempDir(), "empty.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))

	_, _, err := LoadGLTF(path)
	assert.ErrorIs(t, err, ErrNoMeshes)
}

func TestLoadGLTFInvalidPath(t *testing.T) {
	_, _, err := LoadGLTF("/nonexistent/path.glb")
	assert.Error(t, err)
}

func TestLoadGLTFGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.glb")
	require.NoError(t, os.WriteFile(path, []byte("not a gltf file"), 0o644))

	_, _, err := Load(path)
	assert.Error(t, err)
}
