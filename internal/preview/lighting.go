package preview

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Light holds the view-space lighting parameters.
type Light struct {
	Dir      mgl64.Vec3
	RimDir   mgl64.Vec3
	HalfMain mgl64.Vec3 // half-vector for Blinn-Phong
	Ambient  float64
	Hemi     float64
	Direct   float64
	Rim      float64
	SpecInt  float64
	SpecPow  float64
	Exposure float64
	InvGamma float64
}

// DefaultLight is a key light from the upper right with a cool rim from behind.
func DefaultLight() Light {
	dir := mgl64.Vec3{0.45, 0.65, 0.6}.Normalize()
	rim := mgl64.Vec3{-0.5, 0.4, -0.65}.Normalize()
	view := mgl64.Vec3{0, 0, 1}
	return Light{
		Dir:      dir,
		RimDir:   rim,
		HalfMain: dir.Add(view).Normalize(),
		Ambient:  0.35,
		Hemi:     0.35,
		Direct:   1.1,
		Rim:      0.4,
		SpecInt:  0.3,
		SpecPow:  12,
		Exposure: 1.0,
		InvGamma: 1 / 2.2,
	}
}

// Shade returns the combined lighting scalar for a unit face normal.
func (l *Light) Shade(n mgl64.Vec3) float64 {
	// Lambertian (abs for double-sided)
	ndl := math.Abs(n.Dot(l.Dir))
	ndlRim := math.Abs(n.Dot(l.RimDir))

	// Hemisphere fill, brighter for upward facing
	hemi := (n[1]*0.5 + 0.5) * l.Hemi

	ndh := math.Max(n.Dot(l.HalfMain), 0)
	spec := math.Pow(ndh, l.SpecPow) * l.SpecInt

	return l.Ambient + hemi + ndl*l.Direct + ndlRim*l.Rim + spec
}

var srgbToLinear [256]float64

func init() {
	for i := range srgbToLinear {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// acesTonemap applies ACES filmic tone mapping to a linear value.
func acesTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

func clamp255(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
