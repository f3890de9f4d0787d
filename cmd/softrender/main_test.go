package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/models"
	"github.com/taigrr/softrender/pkg/render"
	"github.com/taigrr/softrender/pkg/shaders"
)

const quadOBJ = `v -0.5 -0.5 0
v 0.5 -0.5 0
v 0.5 0.5 0
v -0.5 0.5 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1
f 1/1/1 3/3/1 4/4/1
`

func TestParseVec3(t *testing.T) {
	tests := []struct {
		in      string
		want    math3d.Vec3
		wantErr bool
	}{
		{"1,1,3", math3d.V3(1, 1, 3), false},
		{" -0.5, 2 ,1e2", math3d.V3(-0.5, 2, 100), false},
		{"1,2", math3d.Vec3{}, true},
		{"1,2,3,4", math3d.Vec3{}, true},
		{"a,b,c", math3d.Vec3{}, true},
		{"", math3d.Vec3{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseVec3(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, errBadVector)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVec3Value(t *testing.T) {
	var v vec3Value
	require.NoError(t, v.Set("1,2,3"))
	assert.Equal(t, math3d.V3(1, 2, 3), v.Vec3())
	assert.Equal(t, "1,2,3", v.String())
	assert.Equal(t, "x,y,z", v.Type())
	assert.Error(t, v.Set("nope"))
	assert.Equal(t, math3d.V3(1, 2, 3), v.Vec3())
}

// run executes the root command with args and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	render.SetLogger(nil)
	return out.String(), err
}

func writeQuad(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quad.obj")
	require.NoError(t, os.WriteFile(path, []byte(quadOBJ), 0o644))
	return path
}

func TestTriangleCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "triangle.png")
	stdout, err := run(t, "triangle", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "triangle")

	fb, err := render.LoadFramebuffer(out)
	require.NoError(t, err)
	assert.Equal(t, 200, fb.Width)
	assert.Equal(t, 200, fb.Height)

	// The file is top-down: raster row 0 is the last file row.
	assert.Equal(t, render.ColorBlack, fb.GetPixel(0, 199))
	assert.Equal(t, render.ColorBlack, fb.GetPixel(199, 0))
	assert.Equal(t, render.ColorRed, fb.GetPixel(100, 199-60))
}

func TestRenderCommand(t *testing.T) {
	model := writeQuad(t)

	for _, kind := range []string{"gouraud", "posterized", "zdepth", "depth"} {
		t.Run(kind, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), kind+".tga")
			_, err := run(t, "render", "--shader", kind, "--width", "64", "--height", "64", "--out", out, model)
			require.NoError(t, err)

			fb, err := render.LoadFramebuffer(out)
			require.NoError(t, err)
			assert.NotEqual(t, render.ColorBlack, fb.GetPixel(32, 32))
		})
	}
}

func TestPreview(t *testing.T) {
	out := filepath.Join(t.TempDir(), "triangle.tga")
	stdout, err := run(t, "triangle", "--preview", "20", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "▀")
	assert.FileExists(t, out)
}

func TestRenderCommandErrors(t *testing.T) {
	model := writeQuad(t)
	out := filepath.Join(t.TempDir(), "x.tga")

	_, err := run(t, "render", "--shader", "nope", "--out", out, model)
	assert.ErrorIs(t, err, shaders.ErrUnknownKind)

	_, err = run(t, "render", "--shader", "textured", "--out", out, model)
	assert.ErrorIs(t, err, shaders.ErrMissingMap)

	_, err = run(t, "render", "--out", out, filepath.Join(t.TempDir(), "missing.obj"))
	assert.Error(t, err)

	_, err = run(t, "render", "--width", "0", "--out", out, model)
	assert.Error(t, err)

	_, err = run(t, "render", "--eye", "1,2", "--out", out, model)
	assert.ErrorContains(t, err, errBadVector.Error())
}

func TestLessonCommands(t *testing.T) {
	model := writeQuad(t)
	dir := t.TempDir()
	size := []string{"--width", "64", "--height", "64"}

	tests := []struct {
		name string
		args []string
	}{
		{"flat", []string{"flat", model}},
		{"flat-z", []string{"flat", "--zbuffer", model}},
		{"wireframe", []string{"wireframe", model}},
		{"ssao", []string{"ssao", model}},
		{"ambient", []string{"ambient", "--texture-size", "32", "--iterations", "2", model}},
		{"ambient-shaded", []string{"ambient", "--texture-size", "32", "--shaded", filepath.Join(dir, "shaded.png"), model}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(dir, tt.name+".png")
			args := append(append([]string{}, tt.args...), size...)
			args = append(args, "--out", out)
			_, err := run(t, args...)
			require.NoError(t, err)
			assert.FileExists(t, out)
		})
	}
}

func TestShadowCommand(t *testing.T) {
	model := writeQuad(t)
	dir := t.TempDir()

	maps := map[string]render.Color{
		"diffuse":      render.Gray(200),
		"normal-map":   render.RGB(128, 128, 255),
		"specular-map": render.Gray(10),
	}
	args := []string{"shadow", "--width", "64", "--height", "64",
		"--out", filepath.Join(dir, "shadow.tga"),
		"--depth-out", filepath.Join(dir, "depth.tga")}
	for flag, c := range maps {
		path := filepath.Join(dir, flag+".png")
		fb := render.NewFramebuffer(4, 4)
		fb.Clear(c)
		require.NoError(t, fb.WriteToFile(path))
		args = append(args, "--"+flag, path)
	}
	args = append(args, model)

	_, err := run(t, args...)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "shadow.tga"))
	assert.FileExists(t, filepath.Join(dir, "depth.tga"))

	_, err = run(t, "shadow", "--out", filepath.Join(dir, "x.tga"), model)
	assert.ErrorIs(t, err, shaders.ErrMissingMap)
}

func TestOrbitConverges(t *testing.T) {
	cam := render.NewCamera(64, 64)
	o := newOrbit(60, cam)
	dist := cam.Distance()

	o.rotate(0.5, 0.2)
	o.zoom(1)
	for range 240 {
		o.step(cam)
	}
	assert.InDelta(t, o.home[0]+0.5, cam.Yaw(), 1e-3)
	assert.InDelta(t, o.home[1]+0.2, cam.Pitch(), 1e-3)
	assert.InDelta(t, dist+1, cam.Distance(), 1e-3)

	o.zoom(-100)
	assert.Equal(t, minDistance, o.distance.target)
	o.rotate(0, 10)
	assert.Less(t, o.pitch.target, 1.6)

	o.reset()
	assert.Equal(t, o.home[0], o.yaw.target)
}

func TestUsableKinds(t *testing.T) {
	m := parseQuad(t)
	scene := shaders.DefaultScene(32, 32)

	kinds := usableKinds(m, scene, shaders.Maps{})
	assert.Contains(t, kinds, shaders.KindGouraud)
	assert.NotContains(t, kinds, shaders.KindTextured)
	assert.NotContains(t, kinds, shaders.KindMask)

	tex := render.NewCheckerTexture(2, 2, 1, render.ColorWhite, render.ColorBlack)
	kinds = usableKinds(m, scene, shaders.Maps{Diffuse: tex})
	assert.Contains(t, kinds, shaders.KindTextured)

	s := &viewState{kinds: kinds}
	for range kinds {
		s.nextKind()
	}
	assert.Equal(t, kinds[0], s.kind())
}

func parseQuad(t *testing.T) *models.Model {
	t.Helper()
	m, err := models.ParseOBJ(strings.NewReader(quadOBJ))
	require.NoError(t, err)
	return m
}
