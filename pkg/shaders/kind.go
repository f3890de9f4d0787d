package shaders

import (
	"fmt"
	"strings"

	"github.com/taigrr/softrender/pkg/render"
)

// Kind names a single-pass shading strategy. The multi-pass programs
// (shadow mapping and ambient occlusion) have their own drivers.
type Kind int

const (
	KindGouraud Kind = iota
	KindPosterized
	KindTextured
	KindNormalMap
	KindSpecular
	KindTangent
	KindDepth
	KindZDepth
	KindMask
	KindAmbientTexture
)

var kindNames = [...]string{
	KindGouraud:        "gouraud",
	KindPosterized:     "posterized",
	KindTextured:       "textured",
	KindNormalMap:      "normalmap",
	KindSpecular:       "specular",
	KindTangent:        "tangent",
	KindDepth:          "depth",
	KindZDepth:         "zdepth",
	KindMask:           "mask",
	KindAmbientTexture: "ao-texture",
}

// String returns the name ParseKind accepts.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Kinds returns every Kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, len(kindNames))
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// ParseKind looks a Kind up by name, ignoring case.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// New builds the shader for kind. It fails with ErrMissingMap when kind
// samples a map that maps does not carry. KindDepth looks from s.Light at
// s.Center with s.Up.
func New(kind Kind, m render.MeshRenderer, s Scene, maps Maps) (render.Shader, error) {
	switch kind {
	case KindGouraud:
		return NewGouraud(m, s), nil
	case KindPosterized:
		return NewPosterized(m, s), nil
	case KindTextured:
		if err := need(kind.String(), "diffuse", maps.Diffuse); err != nil {
			return nil, err
		}
		return NewTextured(m, s, maps.Diffuse), nil
	case KindNormalMap:
		if err := needAll(kind, map[string]*render.Texture{
			"diffuse": maps.Diffuse, "normal": maps.Normal,
		}); err != nil {
			return nil, err
		}
		return NewNormalMapped(m, s, maps.Diffuse, maps.Normal), nil
	case KindSpecular:
		if err := needAll(kind, map[string]*render.Texture{
			"diffuse": maps.Diffuse, "normal": maps.Normal, "specular": maps.Specular,
		}); err != nil {
			return nil, err
		}
		return NewSpecular(m, s, maps.Diffuse, maps.Normal, maps.Specular), nil
	case KindTangent:
		if err := needAll(kind, map[string]*render.Texture{
			"diffuse": maps.Diffuse, "tangent": maps.Tangent,
		}); err != nil {
			return nil, err
		}
		return NewTangent(m, s, maps.Diffuse, maps.Tangent), nil
	case KindDepth:
		return NewDepth(m, lightMatrix(s.Viewport, s.lightView())), nil
	case KindZDepth:
		return NewZDepth(m, s), nil
	case KindMask:
		return NewMask(m, s), nil
	case KindAmbientTexture:
		if err := need(kind.String(), "occlusion", maps.Occlusion); err != nil {
			return nil, err
		}
		return NewAmbientTexture(m, s, maps.Occlusion), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
}

// needAll checks maps in a fixed order so the error names the first
// missing one deterministically.
func needAll(kind Kind, maps map[string]*render.Texture) error {
	for _, name := range []string{"diffuse", "normal", "tangent", "specular"} {
		tex, ok := maps[name]
		if !ok {
			continue
		}
		if err := need(kind.String(), name, tex); err != nil {
			return err
		}
	}
	return nil
}
