package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RPYToQuat converts URDF roll-pitch-yaw (radians) to a unit quaternion.
// Rotations are about the fixed X, Y, then Z axes, so q = qz * qy * qx.
func RPYToQuat(rpy mgl64.Vec3) mgl64.Quat {
	// ZYX intrinsic is the same rotation as XYZ extrinsic.
	return mgl64.AnglesToQuat(rpy[2], rpy[1], rpy[0], mgl64.ZYX).Normalize()
}

// AxisAngle returns the rotation of angle radians about axis.
// axis must already be unit length.
func AxisAngle(axis mgl64.Vec3, angle float64) mgl64.Quat {
	return mgl64.QuatRotate(angle, axis)
}

// QuatEqual reports whether a and b describe the same orientation within eps.
// q and -q are the same rotation.
func QuatEqual(a, b mgl64.Quat, eps float64) bool {
	return math.Abs(a.Dot(b)) >= 1-eps
}
