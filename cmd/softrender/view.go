package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/softrender/pkg/models"
	"github.com/taigrr/softrender/pkg/render"
	"github.com/taigrr/softrender/pkg/shaders"
)

const (
	orbitStep   = 0.15
	zoomStep    = 0.25
	dragScale   = 0.03
	minDistance = 1.2
	maxDistance = 20.0
	hudHeight   = 1
)

// orbitAxis eases one camera coordinate towards its target with a
// critically damped spring.
type orbitAxis struct {
	pos, vel, target float64
	spring           harmonica.Spring
}

func newOrbitAxis(fps int, pos float64) orbitAxis {
	return orbitAxis{
		pos:    pos,
		target: pos,
		// Frequency 6 settles in a few frames, damping 1 never overshoots.
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

func (a *orbitAxis) update() {
	a.pos, a.vel = a.spring.Update(a.pos, a.vel, a.target)
}

// orbit is the animated camera position of the viewer.
type orbit struct {
	yaw, pitch, distance orbitAxis
	home                 [3]float64
	fps                  int
}

func newOrbit(fps int, cam *render.Camera) *orbit {
	o := &orbit{fps: fps, home: [3]float64{cam.Yaw(), cam.Pitch(), cam.Distance()}}
	o.reset()
	return o
}

func (o *orbit) reset() {
	o.yaw = newOrbitAxis(o.fps, o.home[0])
	o.pitch = newOrbitAxis(o.fps, o.home[1])
	o.distance = newOrbitAxis(o.fps, o.home[2])
}

func (o *orbit) rotate(dyaw, dpitch float64) {
	o.yaw.target += dyaw
	o.pitch.target = math.Max(-math.Pi/2+0.05, math.Min(math.Pi/2-0.05, o.pitch.target+dpitch))
}

func (o *orbit) zoom(d float64) {
	o.distance.target = math.Max(minDistance, math.Min(maxDistance, o.distance.target+d))
}

// step advances the springs one frame and moves cam.
func (o *orbit) step(cam *render.Camera) {
	o.yaw.update()
	o.pitch.update()
	o.distance.update()
	cam.SetOrbit(o.yaw.pos, o.pitch.pos, o.distance.pos)
}

// viewState is the viewer state shared by the input and render loops.
type viewState struct {
	mu      sync.Mutex
	orbit   *orbit
	kinds   []shaders.Kind
	current int
	showHUD bool

	dragging     bool
	lastX, lastY int
}

func (s *viewState) kind() shaders.Kind { return s.kinds[s.current] }

func (s *viewState) nextKind() {
	s.current = (s.current + 1) % len(s.kinds)
}

// usableKinds lists the shaders whose maps are all present.
func usableKinds(m render.MeshRenderer, scene shaders.Scene, maps shaders.Maps) []shaders.Kind {
	var kinds []shaders.Kind
	for _, k := range shaders.Kinds() {
		if k == shaders.KindMask {
			continue
		}
		if _, err := shaders.New(k, m, scene, maps); err == nil {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// hud is the status line drawn over the top row.
type hud struct {
	file   string
	faces  int
	frames int
	fps    float64
	since  time.Time
}

var (
	hudStyle  = lipgloss.NewStyle().Background(lipgloss.Color("#1E1E28")).Foreground(lipgloss.Color("#E0E0E0"))
	hudAccent = hudStyle.Bold(true).Foreground(lipgloss.Color("#5FD7AF"))
)

func (h *hud) tick() {
	h.frames++
	if d := time.Since(h.since); d >= time.Second {
		h.fps = float64(h.frames) / d.Seconds()
		h.frames = 0
		h.since = time.Now()
	}
}

func (h *hud) line(kind shaders.Kind) string {
	return hudAccent.Render(fmt.Sprintf(" %.0f fps ", h.fps)) +
		hudStyle.Render(fmt.Sprintf(" %s  %d faces  shader: ", h.file, h.faces)) +
		hudAccent.Render(kind.String()) +
		hudStyle.Render("  [tab] shader  [r] reset  [?] hud  [esc] quit ")
}

func viewCmd(cfg *config) *cobra.Command {
	var fps int
	cmd := &cobra.Command{
		Use:   "view <model>",
		Short: "Preview a model in the terminal",
		Long: "Render the model continuously into the terminal with half-block\n" +
			"characters.\n\n" +
			"Controls:\n" +
			"  drag, arrows, wasd  orbit\n" +
			"  scroll, +/-         zoom\n" +
			"  tab                 next shader\n" +
			"  r                   reset the view\n" +
			"  ?                   toggle the status line\n" +
			"  esc, ctrl+c         quit",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, img, err := cfg.loadModel(args[0])
			if err != nil {
				return err
			}
			maps, err := cfg.loadMaps(img)
			if err != nil {
				return err
			}
			if fps <= 0 {
				return fmt.Errorf("invalid fps %d", fps)
			}
			return runViewer(cmd.Context(), cfg, m, maps, filepath.Base(args[0]), fps)
		},
	}
	cmd.Flags().IntVar(&fps, "fps", 30, "target frames per second")
	cfg.bindMaps(cmd)
	return cmd
}

func runViewer(ctx context.Context, cfg *config, m *models.Model, maps shaders.Maps, name string, fps int) error {
	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR mouse mode
	if err := term.Resize(width, height); err != nil {
		return fmt.Errorf("resize terminal: %w", err)
	}

	// Logging to stderr would scribble over the alternate screen.
	render.SetLogger(nil)
	slog.SetDefault(slog.New(slog.DiscardHandler))

	if maps.Diffuse == nil {
		maps.Diffuse = render.NewCheckerTexture(64, 64, 8, render.Gray(200), render.Gray(100))
	}

	cam := cfg.camera()
	cam.SetSize(width, height*2)
	state := &viewState{
		orbit:   newOrbit(fps, cam),
		kinds:   usableKinds(m, cfg.scene(), maps),
		showHUD: true,
	}
	h := &hud{file: name, faces: m.FaceCount(), since: time.Now()}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go handleEvents(term, state, cancel, &width, &height)

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		_ = term.Shutdown(context.Background())
	}()

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		state.mu.Lock()
		w, hgt := width, height
		state.orbit.step(cam)
		kind := state.kind()
		showHUD := state.showHUD
		state.mu.Unlock()

		cam.SetSize(w, hgt*2)
		sh, err := shaders.New(kind, m, shaders.NewScene(cam, cfg.light.Vec3()), maps)
		if err != nil {
			return err
		}
		frame := render.RenderPass(m, sh, w, hgt*2).Image

		h.tick()
		term.Draw(uv.DrawableFunc(func(scr uv.Screen, area uv.Rectangle) {
			frame.Draw(scr, area)
			if showHUD {
				uv.NewStyledString(h.line(kind)).Draw(scr, uv.Rect(area.Min.X, area.Min.Y, area.Dx(), hudHeight))
			}
		}))
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}
	}
}

// handleEvents applies terminal input to state until the event channel
// closes or the user quits.
func handleEvents(term *uv.Terminal, state *viewState, quit context.CancelFunc, width, height *int) {
	for ev := range term.Events() {
		state.mu.Lock()
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			*width, *height = ev.Width, ev.Height
			term.Erase()
			_ = term.Resize(ev.Width, ev.Height)

		case uv.KeyPressEvent:
			switch {
			case ev.MatchString("esc", "ctrl+c", "q"):
				quit()
			case ev.MatchString("a", "left"):
				state.orbit.rotate(-orbitStep, 0)
			case ev.MatchString("d", "right"):
				state.orbit.rotate(orbitStep, 0)
			case ev.MatchString("w", "up"):
				state.orbit.rotate(0, orbitStep)
			case ev.MatchString("s", "down"):
				state.orbit.rotate(0, -orbitStep)
			case ev.MatchString("+", "="):
				state.orbit.zoom(-zoomStep)
			case ev.MatchString("-", "_"):
				state.orbit.zoom(zoomStep)
			case ev.MatchString("tab"):
				state.nextKind()
			case ev.MatchString("r"):
				state.orbit.reset()
			case ev.MatchString("?", "shift+/"):
				state.showHUD = !state.showHUD
			}

		case uv.MouseClickEvent:
			state.dragging = true
			state.lastX, state.lastY = ev.X, ev.Y

		case uv.MouseReleaseEvent:
			state.dragging = false

		case uv.MouseMotionEvent:
			if state.dragging {
				state.orbit.rotate(float64(ev.X-state.lastX)*dragScale, float64(ev.Y-state.lastY)*dragScale)
				state.lastX, state.lastY = ev.X, ev.Y
			}

		case uv.MouseWheelEvent:
			switch ev.Button {
			case uv.MouseWheelUp:
				state.orbit.zoom(-zoomStep)
			case uv.MouseWheelDown:
				state.orbit.zoom(zoomStep)
			}
		}
		state.mu.Unlock()
	}
}
