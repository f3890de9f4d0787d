package shaders

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/models"
	"github.com/taigrr/softrender/pkg/render"
)

// quadOBJ is a unit quad in the z=0 plane facing +z.
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

// occluderOBJ is a 2×2 ground quad at z=0 under a small quad at z=0.5.
const occluderOBJ = `v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
v -0.25 -0.25 0.5
v 0.25 -0.25 0.5
v 0.25 0.25 0.5
v -0.25 0.25 0.5
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1
f 1/1/1 3/3/1 4/4/1
f 5/1/1 6/2/1 7/3/1
f 5/1/1 7/3/1 8/4/1
`

func parseModel(t testing.TB, src string) *models.Model {
	t.Helper()
	m, err := models.ParseOBJ(strings.NewReader(src))
	require.NoError(t, err)
	return m
}

func solidTexture(c render.Color) *render.Texture {
	return render.NewCheckerTexture(4, 4, 2, c, c)
}

// flatMaps are maps that light every point the same way: a gray diffuse, a
// normal map pointing along +z and a low specular exponent.
func flatMaps() Maps {
	return Maps{
		Diffuse:   solidTexture(render.Gray(200)),
		Normal:    solidTexture(render.RGB(128, 128, 255)),
		Tangent:   solidTexture(render.RGB(128, 128, 255)),
		Specular:  solidTexture(render.Gray(10)),
		Occlusion: solidTexture(render.Gray(90)),
	}
}

// frontScene looks straight down -z from (0, 0, 3).
func frontScene(w, h int, light math3d.Vec3) Scene {
	cam := render.NewCamera(w, h)
	cam.SetEye(math3d.V3(0, 0, 3))
	return NewScene(cam, light)
}

func covered(res render.Result) int {
	n := 0
	for _, d := range res.Depth.Values {
		if d > -1e5 {
			n++
		}
	}
	return n
}
