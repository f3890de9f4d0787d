package render

import (
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
	"golang.org/x/image/draw"
)

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. Each terminal row shows two pixel rows as an upper half block
// with fg = upper pixel and bg = lower pixel. Raster row 0 is the bottom,
// so the last row is drawn first.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		local := row - area.Min.Y
		topY := fb.Height - 1 - local*2
		botY := topY - 1

		for col := area.Min.X; col < area.Max.X && col-area.Min.X < fb.Width; col++ {
			x := col - area.Min.X
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(x, topY)),
					Bg: rgbaToColor(fb.GetPixel(x, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// Fit scales the framebuffer to fit within w×h pixels, keeping the aspect
// ratio. The result is never larger than the source.
func (fb *Framebuffer) Fit(w, h int) *Framebuffer {
	if w <= 0 || h <= 0 || fb.Width == 0 || fb.Height == 0 {
		return NewFramebuffer(0, 0)
	}
	scale := min(float64(w)/float64(fb.Width), float64(h)/float64(fb.Height), 1)
	dw := max(1, int(float64(fb.Width)*scale))
	dh := max(1, int(float64(fb.Height)*scale))

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), fb.ToImage(), image.Rect(0, 0, fb.Width, fb.Height), draw.Src, nil)
	return FramebufferFromImage(dst)
}
