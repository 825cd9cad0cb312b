package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// TRS builds the 4×4 affine matrix T · R · S (column-major, as mgl64).
func TRS(t mgl64.Vec3, r mgl64.Quat, s mgl64.Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(t[0], t[1], t[2]).
		Mul4(r.Mat4()).
		Mul4(mgl64.Scale3D(s[0], s[1], s[2]))
}

// MatNear reports whether every element of a is within eps of b.
func MatNear(a, b mgl64.Mat4, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// IsIdentity checks if the matrix is approximately identity.
func IsIdentity(m mgl64.Mat4) bool {
	return MatNear(m, mgl64.Ident4(), 1e-8)
}
