package preview

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// rasterizeTriangle draws one flat-shaded triangle with per-vertex colors
// interpolated across it, a z-buffer (larger z is closer), sRGB-correct
// lighting and ACES tone mapping.
func rasterizeTriangle(fb *frameBuffer, p [3]mgl64.Vec3, c [3][4]uint8, l *Light) {
	x0, y0, z0 := p[0][0], p[0][1], p[0][2]
	x1, y1, z1 := p[1][0], p[1][1], p[1][2]
	x2, y2, z2 := p[2][0], p[2][1], p[2][2]

	// Face normal for flat shading. Screen y points down, so flip it back,
	// then face it towards the viewer (double-sided).
	n := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
	if n.Len() < 1e-8 {
		return
	}
	n = n.Normalize()
	n[1] = -n[1]
	if n[2] < 0 {
		n = n.Mul(-1)
	}
	shade := l.Shade(n) * l.Exposure

	size := fb.size
	minX := max(int(math.Min(math.Min(x0, x1), x2)), 0)
	maxX := min(int(math.Max(math.Max(x0, x1), x2))+1, size-1)
	minY := max(int(math.Min(math.Min(y0, y1), y2)), 0)
	maxY := min(int(math.Max(math.Max(y0, y1), y2))+1, size-1)
	if minX >= maxX || minY >= maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det
	dy12, dx21 := y1-y2, x2-x1
	dy20, dx02 := y2-y0, x0-x2

	// Pixel loop, no allocations
	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * size
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.zbuf[zIdx] {
				continue
			}

			a := w0*float64(c[0][3]) + w1*float64(c[1][3]) + w2*float64(c[2][3])
			if a < 8 {
				continue
			}
			fb.zbuf[zIdx] = z

			pxIdx := zIdx * 4
			for k := range 3 {
				lin := w0*srgbToLinear[c[0][k]] + w1*srgbToLinear[c[1][k]] + w2*srgbToLinear[c[2][k]]
				out := math.Pow(acesTonemap(lin*shade), l.InvGamma)
				fb.color[pxIdx+k] = clamp255(out * 255)
			}
			fb.color[pxIdx+3] = clamp255(a)
		}
	}
}
