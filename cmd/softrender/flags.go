package main

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/models"
	"github.com/taigrr/softrender/pkg/render"
	"github.com/taigrr/softrender/pkg/shaders"
)

var errBadVector = errors.New("vector must be three comma-separated numbers")

// vec3Value is a pflag.Value holding an "x,y,z" vector.
type vec3Value math3d.Vec3

func (v *vec3Value) String() string {
	return fmt.Sprintf("%g,%g,%g", v.X, v.Y, v.Z)
}

func (v *vec3Value) Set(s string) error {
	p, err := parseVec3(s)
	if err != nil {
		return err
	}
	*v = vec3Value(p)
	return nil
}

func (*vec3Value) Type() string { return "x,y,z" }

func (v *vec3Value) Vec3() math3d.Vec3 { return math3d.Vec3(*v) }

func parseVec3(s string) (math3d.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math3d.Vec3{}, fmt.Errorf("%w: %q", errBadVector, s)
	}
	var f [3]float64
	for i, p := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("%w: %q: %w", errBadVector, s, err)
		}
		f[i] = x
	}
	return math3d.V3(f[0], f[1], f[2]), nil
}

// config is the flag set shared by every command.
type config struct {
	width, height int
	eye, center   vec3Value
	up, light     vec3Value
	fixLookAt     bool
	fit           bool
	verbose       bool
	out           string

	diffuse, normal, tangent, specular, occlusion string
}

func newConfig() *config {
	return &config{
		width:  800,
		height: 800,
		eye:    vec3Value(math3d.V3(1, 1, 3)),
		up:     vec3Value(math3d.Up()),
		light:  vec3Value(math3d.V3(1, 1, 1)),
	}
}

func (c *config) bindGlobal(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.IntVar(&c.width, "width", c.width, "output width in pixels")
	f.IntVar(&c.height, "height", c.height, "output height in pixels")
	f.Var(&c.eye, "eye", "camera position")
	f.Var(&c.center, "center", "point the camera looks at")
	f.Var(&c.up, "up", "camera up direction")
	f.Var(&c.light, "light", "direction towards the light")
	f.BoolVar(&c.fixLookAt, "fix-lookat", false, "use center.z for the view translation instead of center.y")
	f.BoolVar(&c.fit, "fit", false, "center the model and scale it into [-1, 1]")
	f.BoolVarP(&c.verbose, "verbose", "v", false, "log per-pass diagnostics")
	f.Int("preview", 0, "print the result in the terminal, at most this many columns wide")
}

func (c *config) bindOutput(cmd *cobra.Command, def string) {
	cmd.Flags().StringVarP(&c.out, "out", "o", def, "output image (.tga, .png, .jpg, .bmp, .tif)")
}

func (c *config) bindMaps(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&c.diffuse, "diffuse", "", "diffuse texture")
	f.StringVar(&c.normal, "normal-map", "", "model-space normal map")
	f.StringVar(&c.tangent, "tangent-map", "", "tangent-space normal map")
	f.StringVar(&c.specular, "specular-map", "", "specular map")
	f.StringVar(&c.occlusion, "ao-map", "", "baked ambient occlusion map")
}

func (c *config) validate() error {
	if c.width <= 0 || c.height <= 0 {
		return fmt.Errorf("invalid size %dx%d", c.width, c.height)
	}
	return nil
}

func (c *config) camera() *render.Camera {
	cam := render.NewCamera(c.width, c.height)
	cam.SetEye(c.eye.Vec3())
	cam.SetCenter(c.center.Vec3())
	cam.SetUp(c.up.Vec3())
	cam.SetFixLookAt(c.fixLookAt)
	return cam
}

func (c *config) scene() shaders.Scene {
	return shaders.NewScene(c.camera(), c.light.Vec3())
}

// loadModel loads the model at path. An image embedded in a glTF file
// becomes the diffuse map unless one was given.
func (c *config) loadModel(path string) (*models.Model, image.Image, error) {
	m, img, err := models.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if c.fit {
		m = m.FitUnitCube()
	}
	slog.Info("model loaded",
		"file", filepath.Base(path),
		"vertices", m.VertexCount(),
		"faces", m.FaceCount(),
		"size", m.Size())
	return m, img, nil
}

// loadMaps reads every map path that was set. Missing files are errors;
// unset maps stay nil.
func (c *config) loadMaps(embedded image.Image) (shaders.Maps, error) {
	var maps shaders.Maps
	for _, ref := range []struct {
		path string
		dst  **render.Texture
	}{
		{c.diffuse, &maps.Diffuse},
		{c.normal, &maps.Normal},
		{c.tangent, &maps.Tangent},
		{c.specular, &maps.Specular},
		{c.occlusion, &maps.Occlusion},
	} {
		if ref.path == "" {
			continue
		}
		tex, err := render.LoadTexture(ref.path)
		if err != nil {
			return maps, fmt.Errorf("load texture: %w", err)
		}
		*ref.dst = tex
	}
	if maps.Diffuse == nil && embedded != nil {
		maps.Diffuse = render.TextureFromImage(embedded)
		slog.Debug("using embedded texture",
			"width", maps.Diffuse.Width, "height", maps.Diffuse.Height)
	}
	return maps, nil
}
