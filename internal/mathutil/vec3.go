package mathutil

import "github.com/go-gl/mathgl/mgl64"

// NormalizeAxis returns v scaled to unit length.
// ok is false when v is (numerically) the zero vector.
func NormalizeAxis(v mgl64.Vec3) (unit mgl64.Vec3, ok bool) {
	l := v.Len()
	if l < Epsilon {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// MulElem returns the element-wise product of a and b.
func MulElem(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// Near reports whether a and b are within eps of each other (absolute distance).
func Near(a, b mgl64.Vec3, eps float64) bool {
	return a.Sub(b).Len() <= eps
}
