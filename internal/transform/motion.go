package transform

import (
	"github.com/go-gl/mathgl/mgl64"

	"urdf-scene-exporter/internal/kinematics"
	"urdf-scene-exporter/internal/mathutil"
)

// JointMotion returns the transform induced by moving j to value
// (radians for angular joints, meters for prismatic).
// Fixed and unsupported joint kinds yield Identity whatever their axis.
func JointMotion(j *kinematics.Joint, value float64) (Transform, error) {
	switch j.Type {
	case kinematics.Revolute, kinematics.Continuous:
		axis, err := jointAxis(j)
		if err != nil {
			return Transform{}, err
		}
		return FromRotation(mathutil.AxisAngle(axis, value)), nil
	case kinematics.Prismatic:
		axis, err := jointAxis(j)
		if err != nil {
			return Transform{}, err
		}
		return FromTranslation(axis.Mul(value)), nil
	default:
		return Identity(), nil
	}
}

// jointAxis returns the unit axis of j, (1,0,0) when unset.
func jointAxis(j *kinematics.Joint) (mgl64.Vec3, error) {
	axis := mathutil.UnitX
	if j.Axis != nil {
		axis = *j.Axis
	}
	axis, ok := mathutil.NormalizeAxis(axis)
	if !ok {
		return mgl64.Vec3{}, &DegenerateAxisError{Joint: j.Name}
	}
	return axis, nil
}
