package render

import (
	"fmt"
	"image/color"
	"math"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack  = color.RGBA{0, 0, 0, 255}
	ColorWhite  = color.RGBA{255, 255, 255, 255}
	ColorRed    = color.RGBA{255, 0, 0, 255}
	ColorGreen  = color.RGBA{0, 255, 0, 255}
	ColorBlue   = color.RGBA{0, 0, 255, 255}
	ColorOrange = color.RGBA{255, 155, 0, 255}
)

// RGB creates an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{r, g, b, 255}
}

// Gray creates an opaque gray level.
func Gray(v uint8) Color {
	return Color{v, v, v, 255}
}

// GrayF maps v in [0, 1] to an opaque gray, clamping outside values.
func GrayF(v float64) Color {
	return Gray(clampByte(v * 255))
}

// Channel returns channel i of c in R, G, B, A order.
// It panics when i is outside [0, 3].
func Channel(c Color, i int) uint8 {
	switch i {
	case 0:
		return c.R
	case 1:
		return c.G
	case 2:
		return c.B
	case 3:
		return c.A
	}
	panic(fmt.Sprintf("render: color channel %d out of range [0, 3]", i))
}

// MultiplyColor scales the color channels by k, clamping to [0, 255].
// Alpha is kept.
func MultiplyColor(c Color, k float64) Color {
	return Color{
		R: clampByte(float64(c.R) * k),
		G: clampByte(float64(c.G) * k),
		B: clampByte(float64(c.B) * k),
		A: c.A,
	}
}

// clampByte truncates v into [0, 255]. NaN maps to 0.
func clampByte(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	return uint8(math.Min(255, v))
}
