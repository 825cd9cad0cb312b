// Package skeleton computes link poses in the root frame for a given joint configuration.
package skeleton

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"urdf-scene-exporter/internal/kinematics"
	"urdf-scene-exporter/internal/mathutil"
	"urdf-scene-exporter/internal/mesh"
	"urdf-scene-exporter/internal/transform"
)

// Tree is the part of a kinematic model needed to walk it parents-first.
type Tree interface {
	Root() string
	TopologicalLinks() []string
	ParentJoint(link string) (*kinematics.Joint, bool)
}

// WorldTransforms returns the pose of every link relative to the root.
// Each joint contributes its origin followed by its motion at values[joint.Name]
// (0 when absent).
func WorldTransforms(tree Tree, values map[string]float64) (map[string]transform.Transform, error) {
	order := tree.TopologicalLinks()
	worlds := make(map[string]transform.Transform, len(order))

	for _, link := range order {
		j, ok := tree.ParentJoint(link)
		if !ok {
			worlds[link] = transform.Identity()
			continue
		}
		parent, ok := worlds[j.Parent]
		if !ok {
			return nil, fmt.Errorf("skeleton: link %s visited before parent %s", link, j.Parent)
		}
		motion, err := transform.JointMotion(j, values[j.Name])
		if err != nil {
			return nil, fmt.Errorf("skeleton: joint %s: %w", j.Name, err)
		}
		local := transform.Compose(transform.FromOrigin(j.Origin), transform.Some(motion))
		worlds[link] = transform.Compose(transform.Some(parent), local).OrIdentity()
	}
	return worlds, nil
}

// VisualWorld composes a link pose with a visual's origin and mesh scale.
func VisualWorld(link transform.Transform, v *kinematics.Visual) transform.Transform {
	t := transform.Compose(transform.Some(link), transform.FromOrigin(v.Origin)).OrIdentity()
	if v.Geometry.Kind == kinematics.Mesh && v.Geometry.Scale != nil {
		t = t.WithScale(*v.Geometry.Scale)
	}
	return t
}

// PoseMesh returns a copy of m with vertices and normals mapped through t.
// An identity t returns m itself.
func PoseMesh(m *mesh.Mesh, t transform.Transform) *mesh.Mesh {
	mat := t.Mat4()
	if mathutil.IsIdentity(mat) {
		return m
	}
	out := *m
	out.Vertices = make([][3]float32, len(m.Vertices))
	for i, v := range m.Vertices {
		p := t.Apply(mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])})
		out.Vertices[i] = [3]float32{float32(p[0]), float32(p[1]), float32(p[2])}
	}
	if m.Normals != nil {
		// Normals take the inverse scale before rotation.
		inv := mgl64.Vec3{1 / t.Scale()[0], 1 / t.Scale()[1], 1 / t.Scale()[2]}
		q := t.Rotation()
		out.Normals = make([][3]float32, len(m.Normals))
		for i, n := range m.Normals {
			r := q.Rotate(mathutil.MulElem(inv, mgl64.Vec3{float64(n[0]), float64(n[1]), float64(n[2])}))
			if l := r.Len(); l > mathutil.Epsilon {
				r = r.Mul(1 / l)
			}
			out.Normals[i] = [3]float32{float32(r[0]), float32(r[1]), float32(r[2])}
		}
	}
	return &out
}

// Bounds returns the axis-aligned bounding box of m. ok is false for an empty mesh.
func Bounds(m *mesh.Mesh) (lo, hi mgl64.Vec3, ok bool) {
	if len(m.Vertices) == 0 {
		return lo, hi, false
	}
	for i, v := range m.Vertices {
		p := mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
		if i == 0 {
			lo, hi = p, p
			continue
		}
		for k := range 3 {
			lo[k] = min(lo[k], p[k])
			hi[k] = max(hi[k], p[k])
		}
	}
	return lo, hi, true
}
