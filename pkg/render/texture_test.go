package render

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTexelBottomUp(t *testing.T) {
	// Top-down pixels: row 0 red, row 1 blue.
	tex := NewTexture(1, 2)
	tex.SetPixel(0, 0, ColorRed)
	tex.SetPixel(0, 1, ColorBlue)

	assert.Equal(t, ColorBlue, tex.Texel(0.2, 0.1))
	assert.Equal(t, ColorRed, tex.Texel(0.2, 0.9))

	// Out of range coordinates clamp to the edge.
	assert.Equal(t, ColorRed, tex.Texel(5, 1))
	assert.Equal(t, ColorBlue, tex.Texel(-3, -1))

	assert.Equal(t, Color{}, NewTexture(0, 0).Texel(0.5, 0.5))
}

func TestCheckerTexture(t *testing.T) {
	tex := NewCheckerTexture(4, 4, 2, ColorWhite, ColorBlack)
	assert.Equal(t, ColorWhite, tex.GetPixel(0, 0))
	assert.Equal(t, ColorBlack, tex.GetPixel(2, 0))
	assert.Equal(t, ColorWhite, tex.GetPixel(3, 3))
	assert.Equal(t, Color{}, tex.GetPixel(4, 0))

	tex.SetPixel(-1, 0, ColorRed)
	tex.SetPixel(1, 1, ColorRed)
	assert.Equal(t, ColorRed, tex.Texel(0.3, 0.6))
}

func TestLoadTexture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diffuse.tga")
	fb := gradientFramebuffer(3, 2)
	require.NoError(t, fb.WriteToFile(path))

	tex, err := LoadTexture(path)
	require.NoError(t, err)
	assert.Equal(t, 3, tex.Width)
	assert.Equal(t, fb.Pixels, tex.Pixels)

	_, err = LoadTexture(filepath.Join(t.TempDir(), "nope.tga"))
	assert.Error(t, err)
}
