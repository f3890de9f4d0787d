package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/render"
	"github.com/taigrr/softrender/pkg/shaders"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5FAF"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#AFAFFF"))
	faintStyle = lipgloss.NewStyle().Faint(true)
)

// summary prints one styled line per written image.
func summary(cmd *cobra.Command, what, path string, fb *render.Framebuffer, start time.Time) {
	fmt.Fprintln(cmd.OutOrStdout(),
		labelStyle.Render(what)+" "+
			valueStyle.Render(path)+" "+
			faintStyle.Render(fmt.Sprintf("%dx%d in %s", fb.Width, fb.Height, time.Since(start).Round(time.Millisecond))))
}

// writeImage flips fb to the top-down file order and writes it. With
// --preview the image is also printed as half-block cells.
func writeImage(cmd *cobra.Command, what, path string, fb *render.Framebuffer, start time.Time) error {
	if cols, _ := cmd.Flags().GetInt("preview"); cols > 0 {
		preview(cmd.OutOrStdout(), fb, cols)
	}
	fb.VerticalFlip()
	if err := fb.WriteToFile(path); err != nil {
		return err
	}
	summary(cmd, what, path, fb, start)
	return nil
}

// preview prints fb scaled to at most cols columns.
func preview(w io.Writer, fb *render.Framebuffer, cols int) {
	small := fb.Fit(cols, cols*2)
	scr := uv.NewScreenBuffer(small.Width, (small.Height+1)/2)
	small.Draw(scr, scr.Bounds())
	fmt.Fprintln(w, scr.Render())
}

func renderCmd(cfg *config) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "render <model>",
		Short: "Render a model with one shading strategy",
		Long: "Render a model with one of the programmable shaders.\n\nShaders: " +
			strings.Join(kindNames(), ", "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			k, err := shaders.ParseKind(kind)
			if err != nil {
				return err
			}
			m, img, err := cfg.loadModel(args[0])
			if err != nil {
				return err
			}
			maps, err := cfg.loadMaps(img)
			if err != nil {
				return err
			}
			sh, err := shaders.New(k, m, cfg.scene(), maps)
			if err != nil {
				return err
			}
			res := render.RenderPass(m, sh, cfg.width, cfg.height)
			if t, ok := sh.(*shaders.Tangent); ok && t.Fallbacks() > 0 {
				render.Logger().Warn("singular tangent basis", "pixels", t.Fallbacks())
			}
			return writeImage(cmd, k.String(), cfg.out, res.Image, start)
		},
	}
	cmd.Flags().StringVarP(&kind, "shader", "s", shaders.KindGouraud.String(), "shading strategy")
	cfg.bindOutput(cmd, "output.tga")
	cfg.bindMaps(cmd)
	return cmd
}

func kindNames() []string {
	var names []string
	for _, k := range shaders.Kinds() {
		names = append(names, k.String())
	}
	return names
}

func flatCmd(cfg *config) *cobra.Command {
	var (
		zbuffer bool
		light   = vec3Value(math3d.V3(0, 0, -1))
	)
	cmd := &cobra.Command{
		Use:   "flat <model>",
		Short: "Fixed-function flat shading",
		Long: "Draw every face in one gray level from its face normal, without a\n" +
			"camera. With --zbuffer hidden faces are removed; with --diffuse the\n" +
			"faces are textured.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			m, img, err := cfg.loadModel(args[0])
			if err != nil {
				return err
			}
			maps, err := cfg.loadMaps(img)
			if err != nil {
				return err
			}

			fb := render.NewFramebuffer(cfg.width, cfg.height)
			fb.Clear(render.ColorBlack)
			r := render.NewRasterizer(fb, nil)
			screen := render.ScreenMap(cfg.width, cfg.height)
			switch {
			case maps.Diffuse != nil:
				r.DrawModelTextured(m, screen, light.Vec3(), maps.Diffuse)
			case zbuffer:
				r.DrawModelZ(m, screen, light.Vec3(), render.ColorWhite)
			default:
				r.DrawModelFlat(m, screen, light.Vec3(), render.ColorWhite)
			}
			return writeImage(cmd, "flat", cfg.out, fb, start)
		},
	}
	cmd.Flags().BoolVar(&zbuffer, "zbuffer", false, "remove hidden faces with a depth buffer")
	cmd.Flags().Var(&light, "face-light", "light direction for the face normals")
	cmd.Flags().StringVar(&cfg.diffuse, "diffuse", "", "diffuse texture")
	cfg.bindOutput(cmd, "flat.tga")
	return cmd
}

func wireframeCmd(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wireframe <model>",
		Short: "Draw the edges of every face",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			m, _, err := cfg.loadModel(args[0])
			if err != nil {
				return err
			}
			fb := render.NewFramebuffer(cfg.width, cfg.height)
			fb.Clear(render.ColorBlack)
			render.NewRasterizer(fb, nil).DrawModelWireframe(m, render.ScreenMap(cfg.width, cfg.height), render.ColorWhite)
			return writeImage(cmd, "wireframe", cfg.out, fb, start)
		},
	}
	cfg.bindOutput(cmd, "wireframe.tga")
	return cmd
}

// triangleCmd draws the first lesson's test triangle.
func triangleCmd(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "triangle",
		Short: "Fill the 200x200 test triangle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start := time.Now()
			w, h := 200, 200
			if cmd.Flag("width").Changed {
				w = cfg.width
			}
			if cmd.Flag("height").Changed {
				h = cfg.height
			}
			fb := render.NewFramebuffer(w, h)
			fb.Clear(render.ColorBlack)
			render.NewRasterizer(fb, nil).DrawTriangleFlat([3]math3d.Vec3{
				math3d.V3(10, 10, 0),
				math3d.V3(100, 30, 0),
				math3d.V3(190, 160, 0),
			}, render.ColorRed)
			return writeImage(cmd, "triangle", cfg.out, fb, start)
		},
	}
	cfg.bindOutput(cmd, "triangle.tga")
	return cmd
}

func shadowCmd(cfg *config) *cobra.Command {
	var depthOut string
	cmd := &cobra.Command{
		Use:   "shadow <model>",
		Short: "Two-pass shadow mapping",
		Long: "Render the depth of the model seen from the light, then light it with\n" +
			"Phong shading, darkening pixels the light cannot see. Needs --diffuse,\n" +
			"--normal-map and --specular-map.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			m, img, err := cfg.loadModel(args[0])
			if err != nil {
				return err
			}
			maps, err := cfg.loadMaps(img)
			if err != nil {
				return err
			}
			final, depth, err := shaders.RenderShadowed(m, cfg.scene(), maps,
				cfg.width, cfg.height, cfg.center.Vec3(), cfg.up.Vec3())
			if err != nil {
				return err
			}
			if depthOut != "" {
				if err := writeImage(cmd, "depth", depthOut, depth.Image, start); err != nil {
					return err
				}
			}
			return writeImage(cmd, "shadow", cfg.out, final.Image, start)
		},
	}
	cmd.Flags().StringVar(&depthOut, "depth-out", "", "also write the light's depth image")
	cfg.bindOutput(cmd, "shadow.tga")
	cfg.bindMaps(cmd)
	return cmd
}

func ambientCmd(cfg *config) *cobra.Command {
	var (
		iterations, size int
		seed             uint64
		shaded           string
	)
	cmd := &cobra.Command{
		Use:   "ambient <model>",
		Short: "Bake an ambient occlusion texture",
		Long: "View the model from random points on the upper hemisphere and average\n" +
			"which texels each view can see. The result is a texture to pass to\n" +
			"render --shader ao-texture --ao-map.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			m, _, err := cfg.loadModel(args[0])
			if err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
			occl := shaders.AccumulateOcclusion(m, shaders.AmbientOptions{
				Width:       cfg.width,
				Height:      cfg.height,
				TextureSize: size,
				Iterations:  iterations,
				Center:      cfg.center.Vec3(),
				FixLookAt:   cfg.fixLookAt,
			}, rng)
			if shaded != "" {
				sh := shaders.NewAmbientTexture(m, cfg.scene(), occl.ToTexture())
				res := render.RenderPass(m, sh, cfg.width, cfg.height)
				if err := writeImage(cmd, "ao-texture", shaded, res.Image, start); err != nil {
					return err
				}
			}
			return writeImage(cmd, "occlusion", cfg.out, occl, start)
		},
	}
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 1, "number of random views")
	cmd.Flags().IntVar(&size, "texture-size", 1024, "side of the occlusion texture")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().StringVar(&shaded, "shaded", "", "also render the model lit by the baked texture")
	cfg.bindOutput(cmd, "occlusion.tga")
	return cmd
}

func ssaoCmd(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ssao <model>",
		Short: "Screen-space ambient occlusion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			m, _, err := cfg.loadModel(args[0])
			if err != nil {
				return err
			}
			res := shaders.RenderScreenSpaceAO(m, cfg.scene(), cfg.width, cfg.height)
			return writeImage(cmd, "ssao", cfg.out, res.Image, start)
		},
	}
	cfg.bindOutput(cmd, "ssao.tga")
	return cmd
}
