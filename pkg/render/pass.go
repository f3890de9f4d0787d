package render

import (
	"log/slog"
	"time"
)

// Result is the output of one render pass.
type Result struct {
	Image *Framebuffer
	Depth *DepthBuffer
}

// RenderPass allocates a w×h image and depth buffer and draws every face of
// m with sh. The image keeps the raster orientation (row 0 at the bottom).
func RenderPass(m MeshRenderer, sh Shader, w, h int) Result {
	fb := NewFramebuffer(w, h)
	fb.Clear(ColorBlack)
	r := NewRasterizer(fb, nil)

	start := time.Now()
	r.DrawModel(m, sh)
	logPass(r, start, slog.String("shader", shaderName(sh)))

	return Result{Image: fb, Depth: r.Depth()}
}

// logPass reports the rasterizer counters at debug level.
func logPass(r *Rasterizer, start time.Time, attrs ...any) {
	attrs = append(attrs,
		slog.Int("width", r.fb.Width),
		slog.Int("height", r.fb.Height),
		slog.Int("triangles", r.Stats.Triangles),
		slog.Int("degenerate", r.Stats.Degenerate),
		slog.Int("fragments", r.Stats.Fragments),
		slog.Int("discarded", r.Stats.Discarded),
		slog.Duration("elapsed", time.Since(start)),
	)
	Logger().Debug("render pass", attrs...)
}

func shaderName(sh Shader) string {
	if s, ok := sh.(interface{ String() string }); ok {
		return s.String()
	}
	return "custom"
}
