package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/softrender/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file.
func LoadOBJ(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	m, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	m.Name = filepath.Base(path)
	return m, nil
}

// ParseOBJ reads Wavefront OBJ geometry: v, vn, vt and f statements.
// Faces with more than three corners are split into a triangle fan.
// Negative indices count back from the last element defined so far.
// Every face index is checked before the model is returned. Corners without
// a normal get the smooth normal of their position.
func ParseOBJ(r io.Reader) (*Model, error) {
	m := NewModel("")
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		fields := strings.Fields(text)

		var err error
		switch fields[0] {
		case "v":
			var v math3d.Vec3
			v, err = parseVec3(fields[1:])
			m.Positions = append(m.Positions, v)
		case "vn":
			var v math3d.Vec3
			v, err = parseVec3(fields[1:])
			m.Normals = append(m.Normals, v)
		case "vt":
			var v math3d.Vec2
			v, err = parseVec2(fields[1:])
			m.UVs = append(m.UVs, v)
		case "f":
			err = m.parseFace(fields[1:])
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrParse, line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	if err := m.validate(); err != nil {
		return nil, err
	}
	m.fillMissingNormals()
	return m, nil
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d components, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := range n {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func parseVec3(fields []string) (math3d.Vec3, error) {
	f, err := parseFloats(fields, 3)
	if err != nil {
		return math3d.Vec3{}, err
	}
	return math3d.V3(f[0], f[1], f[2]), nil
}

func parseVec2(fields []string) (math3d.Vec2, error) {
	f, err := parseFloats(fields, 2)
	if err != nil {
		return math3d.Vec2{}, err
	}
	return math3d.V2(f[0], f[1]), nil
}

// parseFace appends the fan triangulation of one f statement.
func (m *Model) parseFace(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("face needs at least 3 corners, got %d", len(fields))
	}

	type corner struct{ v, t, n int }
	corners := make([]corner, len(fields))
	for i, field := range fields {
		parts := strings.Split(field, "/")
		if len(parts) > 3 {
			return fmt.Errorf("bad corner %q", field)
		}
		c := corner{v: -1, t: -1, n: -1}
		var err error
		if c.v, err = resolveIndex(parts[0], len(m.Positions)); err != nil {
			return err
		}
		if c.v < 0 {
			return fmt.Errorf("corner %q has no vertex", field)
		}
		if len(parts) > 1 {
			if c.t, err = resolveIndex(parts[1], len(m.UVs)); err != nil {
				return err
			}
		}
		if len(parts) > 2 {
			if c.n, err = resolveIndex(parts[2], len(m.Normals)); err != nil {
				return err
			}
		}
		corners[i] = c
	}

	for i := 1; i+1 < len(corners); i++ {
		a, b, c := corners[0], corners[i], corners[i+1]
		m.Faces = append(m.Faces, Face{
			V: [3]int{a.v, b.v, c.v},
			T: [3]int{a.t, b.t, c.t},
			N: [3]int{a.n, b.n, c.n},
		})
	}
	return nil
}

// resolveIndex converts a 1-based or negative OBJ index to a 0-based one.
// An empty field yields -1.
func resolveIndex(s string, count int) (int, error) {
	if s == "" {
		return -1, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case n > 0:
		return n - 1, nil
	case n < 0:
		if count+n < 0 {
			return 0, fmt.Errorf("relative index %d with only %d defined", n, count)
		}
		return count + n, nil
	default:
		return 0, fmt.Errorf("index 0 is not valid")
	}
}

func (m *Model) validate() error {
	check := func(face int, kind string, idx, count int, optional bool) error {
		if optional && idx == -1 {
			return nil
		}
		if idx < 0 || idx >= count {
			return fmt.Errorf("%w: face %d %s index %d, have %d", ErrFaceIndex, face, kind, idx, count)
		}
		return nil
	}
	for i, f := range m.Faces {
		for nth := range 3 {
			if err := check(i, "vertex", f.V[nth], len(m.Positions), false); err != nil {
				return err
			}
			if err := check(i, "uv", f.T[nth], len(m.UVs), true); err != nil {
				return err
			}
			if err := check(i, "normal", f.N[nth], len(m.Normals), true); err != nil {
				return err
			}
		}
	}
	return nil
}
