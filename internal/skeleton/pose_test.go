package skeleton

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urdf-scene-exporter/internal/kinematics"
	"urdf-scene-exporter/internal/mathutil"
	"urdf-scene-exporter/internal/mesh"
	"urdf-scene-exporter/internal/transform"
)

func vec(x, y, z float64) *mgl64.Vec3 { return &mgl64.Vec3{x, y, z} }

func twoLink(t *testing.T) *kinematics.Model {
	t.Helper()
	links := []*kinematics.Link{{Name: "root"}, {Name: "A"}, {Name: "B"}}
	joints := []*kinematics.Joint{
		{Name: "j1", Type: kinematics.Revolute, Parent: "root", Child: "A", Axis: vec(0, 0, 1)},
		{Name: "j2", Type: kinematics.Fixed, Parent: "A", Child: "B", Origin: &kinematics.Origin{XYZ: vec(1, 0, 0)}},
	}
	m, err := kinematics.NewModel("two", links, joints)
	require.NoError(t, err)
	return m
}

func TestWorldTransformsZeroPose(t *testing.T) {
	worlds, err := WorldTransforms(twoLink(t), nil)
	require.NoError(t, err)
	require.Len(t, worlds, 3)
	assert.True(t, worlds["root"].ApproxEqual(transform.Identity(), 1e-12))
	assert.True(t, worlds["A"].ApproxEqual(transform.Identity(), 1e-12))
	assert.True(t, mathutil.Near(worlds["B"].Translation(), mgl64.Vec3{1, 0, 0}, 1e-12))
}

func TestWorldTransformsRotatedJoint(t *testing.T) {
	worlds, err := WorldTransforms(twoLink(t), map[string]float64{"j1": math.Pi / 2})
	require.NoError(t, err)
	assert.True(t, mathutil.Near(worlds["B"].Translation(), mgl64.Vec3{0, 1, 0}, 1e-12))
	assert.True(t, mathutil.Near(worlds["B"].Apply(mgl64.Vec3{1, 0, 0}), mgl64.Vec3{0, 2, 0}, 1e-12))
}

func TestWorldTransformsDegenerateAxis(t *testing.T) {
	links := []*kinematics.Link{{Name: "root"}, {Name: "A"}}
	joints := []*kinematics.Joint{{Name: "bad", Type: kinematics.Revolute, Parent: "root", Child: "A", Axis: vec(0, 0, 0)}}
	m, err := kinematics.NewModel("bad", links, joints)
	require.NoError(t, err)

	_, err = WorldTransforms(m, nil)
	var dae *transform.DegenerateAxisError
	assert.ErrorAs(t, err, &dae)
}

func TestWorldTransformsFixedZeroAxis(t *testing.T) {
	links := []*kinematics.Link{{Name: "root"}, {Name: "A"}}
	joints := []*kinematics.Joint{{
		Name: "mount", Type: kinematics.Fixed, Parent: "root", Child: "A",
		Axis: vec(0, 0, 0), Origin: &kinematics.Origin{XYZ: vec(0, 0, 2)},
	}}
	m, err := kinematics.NewModel("fixed", links, joints)
	require.NoError(t, err)

	worlds, err := WorldTransforms(m, nil)
	require.NoError(t, err)
	assert.True(t, mathutil.Near(worlds["A"].Translation(), mgl64.Vec3{0, 0, 2}, 1e-12))
}

func TestVisualWorld(t *testing.T) {
	link := transform.FromTranslation(mgl64.Vec3{0, 0, 1})
	v := &kinematics.Visual{
		Origin:   &kinematics.Origin{XYZ: vec(1, 0, 0)},
		Geometry: kinematics.Geometry{Kind: kinematics.Mesh, Scale: vec(2, 2, 2)},
	}
	w := VisualWorld(link, v)
	assert.True(t, mathutil.Near(w.Apply(mgl64.Vec3{1, 0, 0}), mgl64.Vec3{3, 0, 1}, 1e-12))

	v.Origin = nil
	v.Geometry.Scale = nil
	assert.True(t, VisualWorld(link, v).ApproxEqual(link, 1e-12))
}

func TestPoseMesh(t *testing.T) {
	m := &mesh.Mesh{
		Vertices: [][3]float32{{1, 0, 0}, {0, 1, 0}},
		Normals:  [][3]float32{{1, 0, 0}, {0, 1, 0}},
	}
	assert.Same(t, m, PoseMesh(m, transform.Identity()))

	q := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})
	posed := PoseMesh(m, transform.New(mgl64.Vec3{0, 0, 5}, q))
	assert.InDeltaSlice(t, []float32{0, 1, 5}, posed.Vertices[0][:], 1e-6)
	assert.InDeltaSlice(t, []float32{0, 1, 0}, posed.Normals[0][:], 1e-6)
	assert.Equal(t, [3]float32{1, 0, 0}, m.Vertices[0])

	lo, hi, ok := Bounds(posed)
	require.True(t, ok)
	assert.InDeltaSlice(t, []float64{-1, 0, 5}, lo[:], 1e-6)
	assert.InDeltaSlice(t, []float64{0, 1, 5}, hi[:], 1e-6)

	_, _, ok = Bounds(&mesh.Mesh{})
	assert.False(t, ok)
}
