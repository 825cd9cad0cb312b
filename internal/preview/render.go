// Package preview renders exported robot meshes to a small shaded thumbnail
// with a software rasterizer.
package preview

import (
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
	"github.com/go-gl/mathgl/mgl64"

	"urdf-scene-exporter/internal/mathutil"
	"urdf-scene-exporter/internal/scene"
	"urdf-scene-exporter/internal/transform"
)

// Item is one mesh placed in the root frame.
type Item struct {
	Path  string
	Mesh  scene.Mesh3D
	World transform.Transform
}

// Options controls the camera and output size.
type Options struct {
	Size        int // output edge in pixels
	Supersample int
	Azimuth     float64 // camera yaw about world Z, radians
	Elevation   float64 // camera height above the horizon, radians
	FillRatio   float64 // fraction of the canvas the robot may cover
	Light       Light
}

// DefaultOptions is a three-quarter view from slightly above.
func DefaultOptions() Options {
	return Options{
		Size:        512,
		Supersample: 2,
		Azimuth:     mathutil.Deg2Rad(35),
		Elevation:   mathutil.Deg2Rad(20),
		FillRatio:   0.9,
		Light:       DefaultLight(),
	}
}

// fallbackColor is used for meshes without vertex colors.
var fallbackColor = [4]uint8{160, 160, 170, 255}

// View returns the rotation from the Z-up world frame to a Y-up camera
// looking down -Z.
func (o Options) View() mgl64.Quat {
	up := mathutil.AxisAngle(mathutil.UnitX, -math.Pi/2)
	yaw := mathutil.AxisAngle(mgl64.Vec3{0, 0, 1}, -o.Azimuth)
	tilt := mathutil.AxisAngle(mathutil.UnitX, o.Elevation)
	return tilt.Mul(up).Mul(yaw)
}

// Render draws items with an orthographic camera fitted to their bounds.
// An empty scene yields a transparent image.
func Render(items []Item, o Options) *image.NRGBA {
	if o.Size <= 0 {
		o.Size = DefaultOptions().Size
	}
	if o.Supersample <= 0 {
		o.Supersample = 1
	}
	if o.FillRatio <= 0 || o.FillRatio > 1 {
		o.FillRatio = 1
	}
	renderSize := o.Size * o.Supersample
	view := o.View()

	// View-space vertices per item
	projected := make([][]mgl64.Vec3, len(items))
	lo := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i, it := range items {
		vs := make([]mgl64.Vec3, len(it.Mesh.Positions))
		for k, p := range it.Mesh.Positions {
			v := view.Rotate(it.World.Apply(mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])}))
			vs[k] = v
			for a := range 3 {
				lo[a] = math.Min(lo[a], v[a])
				hi[a] = math.Max(hi[a], v[a])
			}
		}
		projected[i] = vs
	}
	if math.IsInf(lo[0], 1) {
		return image.NewNRGBA(image.Rect(0, 0, o.Size, o.Size))
	}

	center := lo.Add(hi).Mul(0.5)
	span := math.Max(math.Max(hi[0]-lo[0], hi[1]-lo[1]), 1e-6)
	margin := 8 * o.Supersample
	scale := float64(renderSize-2*margin) / span
	half := float64(renderSize) / 2

	fb := newFrameBuffer(renderSize)
	for i, it := range items {
		vs := projected[i]
		for k, v := range vs {
			d := v.Sub(center).Mul(scale)
			vs[k] = mgl64.Vec3{d[0] + half, half - d[1], d[2]}
		}
		colors := it.Mesh.VertexColors
		for _, f := range it.Mesh.Indices {
			if int(f[0]) >= len(vs) || int(f[1]) >= len(vs) || int(f[2]) >= len(vs) {
				continue
			}
			var c [3][4]uint8
			for k := range 3 {
				c[k] = fallbackColor
				if int(f[k]) < len(colors) {
					c[k] = colors[f[k]]
				}
			}
			rasterizeTriangle(fb, [3]mgl64.Vec3{vs[f[0]], vs[f[1]], vs[f[2]]}, c, &o.Light)
		}
	}

	img := image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	copy(img.Pix, fb.color)

	if o.Supersample > 1 {
		img = downsample(img, o.Size)
	}
	return cropAndCenter(img, o.Size, o.FillRatio)
}

// WriteWebP encodes img losslessly to path, creating parent directories.
func WriteWebP(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("preview: create %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("preview: create %s: %w", path, err)
	}
	defer f.Close()
	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("preview: encode %s: %w", path, err)
	}
	return nil
}
