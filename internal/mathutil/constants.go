package mathutil

import "github.com/go-gl/mathgl/mgl64"

// Epsilon is the length below which an axis is treated as degenerate.
const Epsilon = 1e-12

var (
	// UnitX is the default joint axis when a joint does not declare one.
	UnitX = mgl64.Vec3{1, 0, 0}

	// Zero is the zero translation.
	Zero = mgl64.Vec3{}

	// Ones is the unit scale.
	Ones = mgl64.Vec3{1, 1, 1}
)
