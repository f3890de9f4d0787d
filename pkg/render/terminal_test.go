package render

import (
	"image/color"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramebufferDraw(t *testing.T) {
	fb := NewFramebuffer(2, 4)
	fb.SetPixel(0, 3, ColorRed)  // top row
	fb.SetPixel(0, 2, ColorBlue) // second row
	fb.SetPixel(1, 0, ColorGreen)

	scr := uv.NewScreenBuffer(2, 2)
	fb.Draw(scr, scr.Bounds())

	top := scr.CellAt(0, 0)
	require.NotNil(t, top)
	assert.Equal(t, "▀", top.Content)
	assert.Equal(t, color.Color(ColorRed), top.Style.Fg)
	assert.Equal(t, color.Color(ColorBlue), top.Style.Bg)

	// Transparent pixels have no color.
	assert.Nil(t, scr.CellAt(1, 0).Style.Fg)
	assert.Equal(t, color.Color(ColorGreen), scr.CellAt(1, 1).Style.Bg)
}

func TestFramebufferFit(t *testing.T) {
	fb := gradientFramebuffer(40, 20)

	small := fb.Fit(10, 10)
	assert.Equal(t, 10, small.Width)
	assert.Equal(t, 5, small.Height)

	same := fb.Fit(100, 100)
	assert.Equal(t, 40, same.Width)
	assert.Equal(t, 20, same.Height)

	empty := fb.Fit(0, 10)
	assert.Zero(t, empty.Width)
}
