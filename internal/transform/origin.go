package transform

import (
	"urdf-scene-exporter/internal/kinematics"
	"urdf-scene-exporter/internal/mathutil"
)

// FromOrigin converts a joint or visual origin.
// A nil origin, or one with neither xyz nor rpy, yields None.
func FromOrigin(o *kinematics.Origin) Maybe {
	if o == nil || (o.XYZ == nil && o.RPY == nil) {
		return None()
	}
	var t Transform
	if o.XYZ != nil {
		t = t.WithTranslation(*o.XYZ)
	}
	if o.RPY != nil {
		t = t.WithRotation(mathutil.RPYToQuat(*o.RPY))
	}
	return Some(t)
}
