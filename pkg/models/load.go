package models

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
)

// Load picks a loader by file extension. The image is the texture embedded
// in glTF files and is always nil for OBJ.
func Load(path string) (*Model, image.Image, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		m, err := LoadOBJ(path)
		return m, nil, err
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
