package render

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradientFramebuffer(w, h int) *Framebuffer {
	fb := NewFramebuffer(w, h)
	for y := range h {
		for x := range w {
			fb.SetPixel(x, y, RGB(uint8(x*40), uint8(y*40), uint8(x*y)))
		}
	}
	return fb
}

func TestFramebufferPixels(t *testing.T) {
	fb := NewFramebuffer(4, 3)
	fb.Clear(ColorBlue)
	fb.SetPixel(1, 2, ColorRed)
	fb.SetPixel(-1, 0, ColorRed)
	fb.SetPixel(4, 0, ColorRed)

	assert.Equal(t, ColorRed, fb.GetPixel(1, 2))
	assert.Equal(t, ColorBlue, fb.GetPixel(0, 0))
	assert.Equal(t, Color{}, fb.GetPixel(9, 9))
}

func TestVerticalFlip(t *testing.T) {
	for _, h := range []int{1, 4, 5} {
		fb := gradientFramebuffer(3, h)
		orig := fb.Clone()
		fb.VerticalFlip()
		for y := range h {
			for x := range 3 {
				assert.Equal(t, orig.GetPixel(x, h-1-y), fb.GetPixel(x, y))
			}
		}
		fb.VerticalFlip()
		assert.Equal(t, orig.Pixels, fb.Pixels)
	}
}

func TestToTextureTexelMatchesRows(t *testing.T) {
	fb := gradientFramebuffer(4, 4)
	tex := fb.ToTexture()
	for y := range 4 {
		for x := range 4 {
			u := (float64(x) + 0.5) / 4
			v := (float64(y) + 0.5) / 4
			assert.Equal(t, fb.GetPixel(x, y), tex.Texel(u, v))
		}
	}
}

func TestWriteAndLoadFramebuffer(t *testing.T) {
	fb := gradientFramebuffer(5, 3)
	dir := t.TempDir()

	for _, ext := range []string{".png", ".bmp", ".tif", ".tiff", ".tga"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(dir, "out"+ext)
			require.NoError(t, fb.WriteToFile(path))

			got, err := LoadFramebuffer(path)
			require.NoError(t, err)
			assert.Equal(t, fb.Width, got.Width)
			assert.Equal(t, fb.Height, got.Height)
			assert.Equal(t, fb.Pixels, got.Pixels)
		})
	}

	t.Run(".jpg", func(t *testing.T) {
		path := filepath.Join(dir, "out.jpg")
		require.NoError(t, fb.WriteToFile(path))
		got, err := LoadFramebuffer(path)
		require.NoError(t, err)
		assert.Equal(t, 5, got.Width)
		assert.Equal(t, 3, got.Height)
	})
}

func TestUnsupportedFormat(t *testing.T) {
	fb := NewFramebuffer(1, 1)
	assert.ErrorIs(t, fb.WriteToFile(filepath.Join(t.TempDir(), "out.webp")), ErrUnsupportedFormat)

	_, err := LoadFramebuffer("missing.gif")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadFramebuffer(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTGAOrigins(t *testing.T) {
	// 2x2 uncompressed 24-bit, bottom-left origin: rows stored bottom first.
	hdr := []byte{0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 0, 2, 0, 24, 0}
	data := []byte{
		0, 0, 255, 0, 255, 0, // bottom row: red, green
		255, 0, 0, 255, 255, 255, // top row: blue, white
	}
	img, err := DecodeTGA(bytes.NewReader(append(hdr, data...)))
	require.NoError(t, err)

	rgba := color.RGBAModel
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, rgba.Convert(img.At(0, 0)))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, rgba.Convert(img.At(1, 0)))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, rgba.Convert(img.At(0, 1)))
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, rgba.Convert(img.At(1, 1)))

	// Same pixels with the top-left bit set decode unflipped.
	hdr[17] = tgaTopOrigin
	img, err = DecodeTGA(bytes.NewReader(append(hdr, data...)))
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, rgba.Convert(img.At(0, 0)))
}

func TestTGARLE(t *testing.T) {
	// 3x1 RLE grayscale: a run of two 200s, then one raw 7.
	src := []byte{0, 0, 11, 0, 0, 0, 0, 0, 0, 0, 0, 0, 3, 0, 1, 0, 8, tgaTopOrigin,
		0x81, 200,
		0x00, 7,
	}
	img, err := DecodeTGA(bytes.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 1), img.Bounds())

	rgba := color.RGBAModel
	assert.Equal(t, color.RGBA{200, 200, 200, 255}, rgba.Convert(img.At(1, 0)))
	assert.Equal(t, color.RGBA{7, 7, 7, 255}, rgba.Convert(img.At(2, 0)))
}

func TestTGAErrors(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
	}{
		{"short header", []byte{0, 0, 2}},
		{"color mapped", []byte{0, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 1, 0, 8, 0}},
		{"16 bit", []byte{0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 1, 0, 16, 0, 0, 0}},
		{"truncated pixels", []byte{0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 0, 2, 0, 24, 0, 1, 2, 3}},
		{"rle overrun", []byte{0, 0, 11, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 1, 0, 8, 0, 0x85, 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeTGA(bytes.NewReader(tc.src))
			assert.ErrorIs(t, err, ErrBadTGA)
		})
	}
}

func TestTGAHugeHeaderWithoutBody(t *testing.T) {
	// 65535x65535 at 32 bits per pixel, no pixel data.
	hdr := []byte{0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff, 0xff, 0xff, 32, 0}
	_, err := DecodeTGA(bytes.NewReader(hdr))
	require.ErrorIs(t, err, ErrBadTGA)
	assert.ErrorIs(t, err, io.EOF)

	// RLE with a single packet, far short of the claimed size.
	hdr[2] = tgaRLETrueColor
	_, err = DecodeTGA(bytes.NewReader(append(hdr, 0x80, 1, 2, 3, 4)))
	assert.ErrorIs(t, err, ErrBadTGA)
}

func TestTGARLEPacketAcrossRows(t *testing.T) {
	// 2x2 grayscale: a run of three 9s spans both rows, then one raw 4.
	src := []byte{0, 0, 11, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2, 0, 2, 0, 8, tgaTopOrigin,
		0x82, 9,
		0x00, 4,
	}
	img, err := DecodeTGA(bytes.NewReader(src))
	require.NoError(t, err)

	rgba := color.RGBAModel
	assert.Equal(t, color.RGBA{9, 9, 9, 255}, rgba.Convert(img.At(0, 1)))
	assert.Equal(t, color.RGBA{4, 4, 4, 255}, rgba.Convert(img.At(1, 1)))
}

func TestDepthBuffer(t *testing.T) {
	d := NewDepthBuffer(3, 2)
	for _, v := range d.Values {
		assert.True(t, math.IsInf(v, -1))
	}

	assert.True(t, d.Passes(1, 1, -1e300))
	d.Set(1, 1, 4)
	assert.Equal(t, 4.0, d.At(1, 1))
	assert.False(t, d.Passes(1, 1, 4))
	assert.False(t, d.Passes(1, 1, math.NaN()))
	assert.True(t, d.Passes(1, 1, 4.0001))

	d.Set(7, 7, 1)
	assert.True(t, math.IsInf(d.At(7, 7), -1))

	d.Fill(2)
	assert.Equal(t, []float64{2, 2, 2, 2, 2, 2}, d.Values)
	d.Reset()
	assert.True(t, math.IsInf(d.At(1, 1), -1))
}

func TestColorHelpers(t *testing.T) {
	c := RGB(10, 20, 30)
	for i, want := range []uint8{10, 20, 30, 255} {
		assert.Equal(t, want, Channel(c, i))
	}
	assert.Panics(t, func() { Channel(c, 4) })
	assert.Panics(t, func() { Channel(c, -1) })

	assert.Equal(t, RGB(20, 40, 60), MultiplyColor(c, 2))
	assert.Equal(t, RGB(255, 255, 255), MultiplyColor(RGB(200, 200, 200), 1.5))
	assert.Equal(t, RGB(0, 0, 0), MultiplyColor(c, -1))
	assert.Equal(t, Gray(127), GrayF(0.5))
	assert.Equal(t, Gray(255), GrayF(2))
}
