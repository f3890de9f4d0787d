package render

import (
	"math"
	"time"

	"github.com/taigrr/softrender/pkg/math3d"
)

// Background depth below this threshold marks a pixel no face covered.
const ssaoEmptyDepth = -1e5

// MaxElevationAngle marches from p along dir through depth, one pixel per
// step for up to 1000 steps, and returns the steepest angle above p's depth
// seen from p. Steps closer than one pixel are ignored. The march stops at
// the buffer edge.
func MaxElevationAngle(depth *DepthBuffer, p, dir math3d.Vec2) float64 {
	maxAngle := 0.0
	z0 := depth.Values[int(p.X)+int(p.Y)*depth.Width]
	for t := 0.0; t < 1000; t++ {
		cur := p.Add(dir.Scale(t))
		if cur.X >= float64(depth.Width) || cur.Y >= float64(depth.Height) || cur.X < 0 || cur.Y < 0 {
			return maxAngle
		}

		distance := p.Sub(cur).Len()
		if distance < 1 {
			continue
		}
		elevation := depth.Values[int(cur.X)+int(cur.Y)*depth.Width] - z0
		maxAngle = math.Max(maxAngle, math.Atan(elevation/distance))
	}
	return maxAngle
}

// ScreenSpaceAO overwrites every covered pixel of img with a gray level
// proportional to how open the horizon is around it in depth, sampled in
// eight directions.
func ScreenSpaceAO(img *Framebuffer, depth *DepthBuffer) {
	start := time.Now()
	covered := 0
	for y := range img.Height {
		for x := range img.Width {
			if depth.Values[x+y*depth.Width] < ssaoEmptyDepth {
				continue
			}
			covered++
			p := math3d.V2(float64(x), float64(y))
			total := 0.0
			for a := 0.0; a < 2*math.Pi-1e-4; a += math.Pi / 4 {
				dir := math3d.V2(math.Cos(a), math.Sin(a))
				total += math.Pi/2 - MaxElevationAngle(depth, p, dir)
			}
			total /= (math.Pi / 2) * 8
			img.SetPixel(x, y, GrayF(total))
		}
	}
	Logger().Debug("screen space ao",
		"width", img.Width, "height", img.Height,
		"covered", covered, "elapsed", time.Since(start))
}
