// Package render provides the software rasterizer, image buffers and
// terminal preview used by softrender.
package render

import (
	"image"
	"image/color"
	"log/slog"
	"slices"
)

// Framebuffer is a row-major color image. Row 0 is the bottom of the
// rendered picture; call VerticalFlip before writing it to a top-down file.
type Framebuffer struct {
	Width  int          // Width in pixels
	Height int          // Height in pixels
	Pixels []color.RGBA // Row-major pixel data
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
// Pixels start as transparent black.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// FramebufferFromImage copies img row for row.
func FramebufferFromImage(img image.Image) *Framebuffer {
	b := img.Bounds()
	fb := NewFramebuffer(b.Dx(), b.Dy())
	for y := range fb.Height {
		for x := range fb.Width {
			fb.Pixels[y*fb.Width+x] = color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
		}
	}
	return fb
}

// LoadFramebuffer reads an image file as is, without flipping.
func LoadFramebuffer(path string) (*Framebuffer, error) {
	img, err := ReadImage(path)
	if err != nil {
		return nil, err
	}
	return FramebufferFromImage(img), nil
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// VerticalFlip swaps rows top to bottom in place.
func (fb *Framebuffer) VerticalFlip() {
	tmp := make([]color.RGBA, fb.Width)
	for y := range fb.Height / 2 {
		top := fb.Pixels[y*fb.Width : (y+1)*fb.Width]
		bot := fb.Pixels[(fb.Height-1-y)*fb.Width : (fb.Height-y)*fb.Width]
		copy(tmp, top)
		copy(top, bot)
		copy(bot, tmp)
	}
}

// Clone returns a deep copy.
func (fb *Framebuffer) Clone() *Framebuffer {
	return &Framebuffer{Width: fb.Width, Height: fb.Height, Pixels: slices.Clone(fb.Pixels)}
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the framebuffer to a standard Go image.RGBA, row for row.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// ToTexture copies the framebuffer into a texture. Row 0 becomes the
// bottom texel row, so a rendered pass can be sampled by its own UVs.
func (fb *Framebuffer) ToTexture() *Texture {
	tex := NewTexture(fb.Width, fb.Height)
	for y := range fb.Height {
		copy(tex.Pixels[(fb.Height-1-y)*fb.Width:], fb.Pixels[y*fb.Width:(y+1)*fb.Width])
	}
	return tex
}

// WriteToFile encodes the framebuffer row for row. The format follows the
// extension: .png, .jpg, .bmp, .tif or .tga.
func (fb *Framebuffer) WriteToFile(path string) error {
	if err := WriteImage(path, fb.ToImage()); err != nil {
		return err
	}
	Logger().Info("image written", slog.String("path", path), slog.Int("width", fb.Width), slog.Int("height", fb.Height))
	return nil
}
