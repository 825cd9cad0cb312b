package mathutil

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// RandomRotation returns a rotation drawn uniformly from SO(3)
// (Shoemake's subgroup algorithm).
func RandomRotation(r *rand.Rand) mgl64.Quat {
	u1, u2, u3 := r.Float64(), r.Float64(), r.Float64()
	a := math.Sqrt(1 - u1)
	b := math.Sqrt(u1)
	s2, c2 := math.Sincos(2 * math.Pi * u2)
	s3, c3 := math.Sincos(2 * math.Pi * u3)
	return mgl64.Quat{
		W: b * c3,
		V: mgl64.Vec3{a * s2, a * c2, b * s3},
	}
}

// Uniform returns a value drawn uniformly from [lo, hi).
func Uniform(r *rand.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}
