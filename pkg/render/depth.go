package render

import "math"

// DepthBuffer stores one depth value per pixel, row-major with y up.
// Larger values are closer to the viewer. Unwritten cells hold -Inf so any
// finite fragment passes the first test.
type DepthBuffer struct {
	Width  int
	Height int
	Values []float64
}

// NewDepthBuffer allocates a buffer filled with -Inf.
func NewDepthBuffer(width, height int) *DepthBuffer {
	d := &DepthBuffer{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
	d.Reset()
	return d
}

// Reset fills the buffer with -Inf.
func (d *DepthBuffer) Reset() {
	d.Fill(math.Inf(-1))
}

// Fill sets every cell to v.
func (d *DepthBuffer) Fill(v float64) {
	n := len(d.Values)
	if n == 0 {
		return
	}
	// Copy-doubling.
	d.Values[0] = v
	for i := 1; i < n; i *= 2 {
		copy(d.Values[i:], d.Values[:i])
	}
}

// At returns the depth at (x, y), or -Inf outside the buffer.
func (d *DepthBuffer) At(x, y int) float64 {
	if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
		return math.Inf(-1)
	}
	return d.Values[y*d.Width+x]
}

// Set stores z at (x, y). Out of range writes are ignored.
func (d *DepthBuffer) Set(x, y int, z float64) {
	if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
		return
	}
	d.Values[y*d.Width+x] = z
}

// Passes reports whether z wins against the stored value at (x, y).
// Only a strictly greater depth wins, and NaN never does.
func (d *DepthBuffer) Passes(x, y int, z float64) bool {
	return z > d.Values[y*d.Width+x]
}
