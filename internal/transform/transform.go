package transform

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"urdf-scene-exporter/internal/mathutil"
)

// Transform is a rigid pose of a child frame relative to its parent, with an
// optional scale. Each component is independently present or absent; absent
// components read as identity (zero translation, identity rotation, unit scale).
// Transform is a value type; copies never share state.
type Transform struct {
	translation mgl64.Vec3
	rotation    mgl64.Quat
	scale       mgl64.Vec3

	hasTranslation bool
	hasRotation    bool
	hasScale       bool
}

// Identity returns an explicit identity: zero translation and identity rotation, both present.
func Identity() Transform {
	return Transform{
		rotation:       mgl64.QuatIdent(),
		hasTranslation: true,
		hasRotation:    true,
	}
}

func FromTranslation(t mgl64.Vec3) Transform {
	return Transform{translation: t, rotation: mgl64.QuatIdent(), hasTranslation: true}
}

func FromRotation(q mgl64.Quat) Transform {
	return Transform{rotation: q, hasRotation: true}
}

func FromScale(s mgl64.Vec3) Transform {
	return Transform{rotation: mgl64.QuatIdent(), scale: s, hasScale: true}
}

// New returns a transform with translation and rotation present.
func New(t mgl64.Vec3, q mgl64.Quat) Transform {
	return Transform{translation: t, rotation: q, hasTranslation: true, hasRotation: true}
}

// WithTranslation returns a copy of t with the translation set.
func (t Transform) WithTranslation(v mgl64.Vec3) Transform {
	t.translation, t.hasTranslation = v, true
	return t
}

// WithRotation returns a copy of t with the rotation set.
func (t Transform) WithRotation(q mgl64.Quat) Transform {
	t.rotation, t.hasRotation = q, true
	return t
}

// WithScale returns a copy of t with the scale set.
func (t Transform) WithScale(s mgl64.Vec3) Transform {
	t.scale, t.hasScale = s, true
	return t
}

func (t Transform) HasTranslation() bool { return t.hasTranslation }
func (t Transform) HasRotation() bool    { return t.hasRotation }
func (t Transform) HasScale() bool       { return t.hasScale }

// Translation returns the translation, or zero when absent.
func (t Transform) Translation() mgl64.Vec3 {
	if !t.hasTranslation {
		return mathutil.Zero
	}
	return t.translation
}

// Rotation returns the rotation, or identity when absent.
func (t Transform) Rotation() mgl64.Quat {
	if !t.hasRotation {
		return mgl64.QuatIdent()
	}
	return t.rotation
}

// Scale returns the scale, or (1,1,1) when absent.
func (t Transform) Scale() mgl64.Vec3 {
	if !t.hasScale {
		return mathutil.Ones
	}
	return t.scale
}

// Apply maps a point from the child frame to the parent frame (scale, rotate, translate).
func (t Transform) Apply(p mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation().Rotate(mathutil.MulElem(t.Scale(), p)).Add(t.Translation())
}

// Mat4 returns the affine matrix T · R · S.
func (t Transform) Mat4() mgl64.Mat4 {
	return mathutil.TRS(t.Translation(), t.Rotation(), t.Scale())
}

// Inverse returns the inverse of the rigid part of t. Scale is dropped.
func (t Transform) Inverse() Transform {
	inv := t.Rotation().Inverse()
	return New(inv.Rotate(t.Translation().Mul(-1)), inv)
}

// ApproxEqual compares effective values (absent components read as identity).
func (t Transform) ApproxEqual(o Transform, eps float64) bool {
	return mathutil.Near(t.Translation(), o.Translation(), eps) &&
		mathutil.QuatEqual(t.Rotation(), o.Rotation(), eps) &&
		mathutil.Near(t.Scale(), o.Scale(), eps)
}

func (t Transform) String() string {
	s := "Transform{"
	if t.hasTranslation {
		s += fmt.Sprintf("t=%v ", t.translation)
	}
	if t.hasRotation {
		s += fmt.Sprintf("q=(%g %v) ", t.rotation.W, t.rotation.V)
	}
	if t.hasScale {
		s += fmt.Sprintf("s=%v ", t.scale)
	}
	return s + "}"
}

// Maybe is a Transform that may be absent ("no transform").
// Absence is distinct from Identity: composing with None returns the other operand unchanged.
type Maybe struct {
	t  Transform
	ok bool
}

func None() Maybe { return Maybe{} }

func Some(t Transform) Maybe { return Maybe{t: t, ok: true} }

func (m Maybe) Get() (Transform, bool) { return m.t, m.ok }

func (m Maybe) IsNone() bool { return !m.ok }

// OrIdentity returns the transform, or Identity when absent.
func (m Maybe) OrIdentity() Transform {
	if !m.ok {
		return Identity()
	}
	return m.t
}
