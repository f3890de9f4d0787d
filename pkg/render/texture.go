package render

import (
	"image"
	"image/color"
)

// Texture is an image addressed by UV coordinates. Pixels keep the
// top-down row order of the file it came from.
type Texture struct {
	Width  int
	Height int
	Pixels []Color
}

// NewTexture creates a transparent width×height texture.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// LoadTexture loads a texture from any image file ReadImage understands.
func LoadTexture(path string) (*Texture, error) {
	img, err := ReadImage(path)
	if err != nil {
		return nil, err
	}
	return TextureFromImage(img), nil
}

// TextureFromImage copies img into a texture.
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	tex := NewTexture(b.Dx(), b.Dy())
	for y := range tex.Height {
		for x := range tex.Width {
			tex.Pixels[y*tex.Width+x] = color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
		}
	}
	return tex
}

// NewCheckerTexture creates a checkerboard of size×size squares.
func NewCheckerTexture(width, height, size int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			c := c2
			if (x/size+y/size)%2 == 0 {
				c = c1
			}
			tex.Pixels[y*width+x] = c
		}
	}
	return tex
}

// SetPixel sets the pixel at column x, row y (top-down). Out of range
// writes are ignored.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the pixel at column x, row y (top-down), or transparent
// black outside the texture.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Texel returns the nearest texel for (u, v) with v pointing up, the way
// OBJ coordinates address an image: column int(u*W) of row int(v*H)
// counted from the bottom. Coordinates outside [0, 1) are clamped.
func (t *Texture) Texel(u, v float64) Color {
	if t.Width == 0 || t.Height == 0 {
		return Color{}
	}
	x := clampIndex(u*float64(t.Width), t.Width)
	y := clampIndex(v*float64(t.Height), t.Height)
	return t.Pixels[(t.Height-1-y)*t.Width+x]
}

func clampIndex(f float64, n int) int {
	if !(f > 0) {
		return 0
	}
	if f >= float64(n) {
		return n - 1
	}
	return int(f)
}
