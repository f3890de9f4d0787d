package models

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/softrender/pkg/math3d"
)

// LoadGLTF loads every triangle primitive of a .gltf or .glb file into one
// model. The first decodable base-color image is returned alongside it and
// may be nil. Missing normals are replaced by smooth per-position normals.
func LoadGLTF(path string) (*Model, image.Image, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open gltf: %w", err)
	}

	m := NewModel(filepath.Base(path))
	for _, mesh := range doc.Meshes {
		if err := appendMesh(doc, mesh, m); err != nil {
			return nil, nil, fmt.Errorf("process mesh %q: %w", mesh.Name, err)
		}
	}
	if len(m.Faces) == 0 {
		return nil, nil, fmt.Errorf("load %s: %w", filepath.Base(path), ErrNoMeshes)
	}
	if err := m.validate(); err != nil {
		return nil, nil, err
	}
	if !m.HasNormals() {
		m.CalculateSmoothNormals()
	}

	return m, firstImage(doc, filepath.Dir(path)), nil
}

// appendMesh extracts the triangle primitives of one glTF mesh.
func appendMesh(doc *gltf.Document, mesh *gltf.Mesh, m *Model) error {
	for _, prim := range mesh.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Lines and points carry no surface.
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals []math3d.Vec3
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = readVec3Accessor(doc, normIdx)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs []math3d.Vec2
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = readVec2Accessor(doc, uvIdx)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		baseV := len(m.Positions)
		baseN := len(m.Normals)
		baseT := len(m.UVs)
		m.Positions = append(m.Positions, positions...)
		if len(normals) == len(positions) {
			m.Normals = append(m.Normals, normals...)
		} else {
			normals = nil
		}
		if len(uvs) == len(positions) {
			for _, uv := range uvs {
				// glTF puts V=0 at the top of the image, the renderer at the bottom.
				m.UVs = append(m.UVs, math3d.V2(uv.X, 1-uv.Y))
			}
		} else {
			uvs = nil
		}

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			var f Face
			for nth := range 3 {
				idx := indices[i+nth]
				f.V[nth] = baseV + idx
				f.N[nth], f.T[nth] = -1, -1
				if normals != nil {
					f.N[nth] = baseN + idx
				}
				if uvs != nil {
					f.T[nth] = baseT + idx
				}
			}
			m.Faces = append(m.Faces, f)
		}
	}
	return nil
}

// readVec3Accessor reads Vec3 data from a glTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][3]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC3")
	}

	result := make([]math3d.Vec3, len(floats))
	for i, f := range floats {
		result[i] = math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
	}
	return result, nil
}

// readVec2Accessor reads Vec2 data from a glTF accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec2 {
		return nil, fmt.Errorf("expected VEC2, got %v", accessor.Type)
	}

	data, err := readAccessorData(doc, accessor)
	if err != nil {
		return nil, err
	}

	floats, ok := data.([][2]float32)
	if !ok {
		return nil, fmt.Errorf("unexpected data type for VEC2")
	}

	result := make([]math3d.Vec2, len(floats))
	for i, f := range floats {
		result[i] = math3d.V2(float64(f[0]), float64(f[1]))
	}
	return result, nil
}

// readIndices reads index data from a glTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	data, err := readAccessorData(doc, doc.Accessors[accessorIdx])
	if err != nil {
		return nil, err
	}

	switch v := data.(type) {
	case []uint8:
		return widen(v), nil
	case []uint16:
		return widen(v), nil
	case []uint32:
		return widen(v), nil
	default:
		return nil, fmt.Errorf("unexpected index type: %T", data)
	}
}

func widen[T uint8 | uint16 | uint32](v []T) []int {
	out := make([]int, len(v))
	for i, x := range v {
		out[i] = int(x)
	}
	return out
}

// readAccessorData reads float vectors or scalar indices from an accessor.
// gltf.Open has already loaded embedded and external buffers into Data.
func readAccessorData(doc *gltf.Document, accessor *gltf.Accessor) (any, error) {
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	bufData := doc.Buffers[bufferView.Buffer].Data
	if bufData == nil {
		return nil, fmt.Errorf("buffer has no data")
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	count := accessor.Count
	le := binary.LittleEndian

	need := func(size int) error {
		if count == 0 {
			return nil
		}
		if end := start + (count-1)*stride + size; end > len(bufData) {
			return fmt.Errorf("accessor reads %d bytes past buffer end", end-len(bufData))
		}
		return nil
	}

	switch accessor.Type {
	case gltf.AccessorVec3:
		if stride == 0 {
			stride = 12 // 3 floats * 4 bytes
		}
		if err := need(12); err != nil {
			return nil, err
		}
		result := make([][3]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 3 {
				result[i][j] = math.Float32frombits(le.Uint32(bufData[offset+j*4:]))
			}
		}
		return result, nil

	case gltf.AccessorVec2:
		if stride == 0 {
			stride = 8 // 2 floats * 4 bytes
		}
		if err := need(8); err != nil {
			return nil, err
		}
		result := make([][2]float32, count)
		for i := range count {
			offset := start + i*stride
			for j := range 2 {
				result[i][j] = math.Float32frombits(le.Uint32(bufData[offset+j*4:]))
			}
		}
		return result, nil

	case gltf.AccessorScalar:
		var size int
		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			size = 1
		case gltf.ComponentUshort:
			size = 2
		case gltf.ComponentUint:
			size = 4
		default:
			return nil, fmt.Errorf("unsupported index component: %v", accessor.ComponentType)
		}
		if stride == 0 {
			stride = size
		}
		if err := need(size); err != nil {
			return nil, err
		}

		switch size {
		case 1:
			result := make([]uint8, count)
			for i := range count {
				result[i] = bufData[start+i*stride]
			}
			return result, nil
		case 2:
			result := make([]uint16, count)
			for i := range count {
				result[i] = le.Uint16(bufData[start+i*stride:])
			}
			return result, nil
		default:
			result := make([]uint32, count)
			for i := range count {
				result[i] = le.Uint32(bufData[start+i*stride:])
			}
			return result, nil
		}
	}

	return nil, fmt.Errorf("unsupported accessor type: %v / %v", accessor.Type, accessor.ComponentType)
}

// firstImage decodes the first image of the document that is either stored
// in a buffer view or referenced by a relative URI.
func firstImage(doc *gltf.Document, dir string) image.Image {
	for _, img := range doc.Images {
		var data []byte
		switch {
		case img.BufferView != nil:
			bv := doc.BufferViews[*img.BufferView]
			buf := doc.Buffers[bv.Buffer].Data
			if end := bv.ByteOffset + bv.ByteLength; buf != nil && end <= len(buf) {
				data = buf[bv.ByteOffset:end]
			}
		case img.URI != "" && !strings.HasPrefix(img.URI, "data:"):
			b, err := os.ReadFile(filepath.Join(dir, img.URI))
			if err == nil {
				data = b
			}
		}
		if len(data) == 0 {
			continue
		}
		if decoded, _, err := image.Decode(bytes.NewReader(data)); err == nil {
			return decoded
		}
	}
	return nil
}
