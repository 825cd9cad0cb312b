// Package urdf reads robot descriptions in the Unified Robot Description
// Format into a validated kinematics.Model.
package urdf

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"urdf-scene-exporter/internal/kinematics"
)

// Parse reads and decodes the URDF file at path.
func Parse(path string) (*kinematics.Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("urdf: read %s: %w", path, err)
	}
	m, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("urdf: parse %s: %w", path, err)
	}
	return m, nil
}

// Decode builds a model from URDF bytes. Materials referenced by name are
// resolved against the robot-level material table.
func Decode(raw []byte) (*kinematics.Model, error) {
	var robot xmlRobot
	if err := xml.Unmarshal(raw, &robot); err != nil {
		return nil, err
	}

	named := make(map[string]*kinematics.Material, len(robot.Materials))
	for i := range robot.Materials {
		mat, err := convertMaterial(&robot.Materials[i])
		if err != nil {
			return nil, err
		}
		named[mat.Name] = mat
	}

	links := make([]*kinematics.Link, 0, len(robot.Links))
	for _, xl := range robot.Links {
		l, err := convertLink(xl, named)
		if err != nil {
			return nil, err
		}
		links = append(links, l)
	}

	joints := make([]*kinematics.Joint, 0, len(robot.Joints))
	for _, xj := range robot.Joints {
		j, err := convertJoint(xj)
		if err != nil {
			return nil, err
		}
		joints = append(joints, j)
	}

	return kinematics.NewModel(robot.Name, links, joints)
}

func convertLink(xl xmlLink, named map[string]*kinematics.Material) (*kinematics.Link, error) {
	l := &kinematics.Link{Name: xl.Name}
	for i, xv := range xl.Visuals {
		v := kinematics.Visual{Name: xv.Name}

		o, err := convertOrigin(xv.Origin)
		if err != nil {
			return nil, fmt.Errorf("link %s visual %d: %w", xl.Name, i, err)
		}
		v.Origin = o

		if xv.Geometry == nil {
			return nil, fmt.Errorf("link %s visual %d: missing geometry", xl.Name, i)
		}
		if v.Geometry, err = convertGeometry(xv.Geometry); err != nil {
			return nil, fmt.Errorf("link %s visual %d: %w", xl.Name, i, err)
		}

		if xv.Material != nil {
			mat, err := convertMaterial(xv.Material)
			if err != nil {
				return nil, fmt.Errorf("link %s visual %d: %w", xl.Name, i, err)
			}
			if mat.Color == nil && mat.Texture == "" {
				if ref, ok := named[mat.Name]; ok {
					mat = ref
				}
			}
			v.Material = mat
		}
		l.Visuals = append(l.Visuals, v)
	}
	return l, nil
}

func convertJoint(xj xmlJoint) (*kinematics.Joint, error) {
	typ := kinematics.ParseJointType(xj.Type)
	if typ == kinematics.Unknown {
		return nil, fmt.Errorf("joint %s: unknown type %q", xj.Name, xj.Type)
	}
	j := &kinematics.Joint{
		Name:   xj.Name,
		Type:   typ,
		Parent: xj.Parent.Link,
		Child:  xj.Child.Link,
	}

	var err error
	if j.Origin, err = convertOrigin(xj.Origin); err != nil {
		return nil, fmt.Errorf("joint %s: %w", xj.Name, err)
	}
	if xj.Axis != nil && xj.Axis.XYZ != "" {
		axis, err := parseVec3(xj.Axis.XYZ)
		if err != nil {
			return nil, fmt.Errorf("joint %s axis: %w", xj.Name, err)
		}
		j.Axis = &axis
	}
	if xj.Limit != nil {
		var lim kinematics.Limit
		for _, f := range []struct {
			dst *float64
			src string
		}{
			{&lim.Lower, xj.Limit.Lower},
			{&lim.Upper, xj.Limit.Upper},
			{&lim.Effort, xj.Limit.Effort},
			{&lim.Velocity, xj.Limit.Velocity},
		} {
			if *f.dst, err = parseFloat(f.src); err != nil {
				return nil, fmt.Errorf("joint %s limit: %w", xj.Name, err)
			}
		}
		j.Limit = &lim
	}
	return j, nil
}

// convertOrigin keeps absent attributes absent.
func convertOrigin(xo *xmlOrigin) (*kinematics.Origin, error) {
	if xo == nil {
		return nil, nil
	}
	o := &kinematics.Origin{}
	if xo.XYZ != "" {
		v, err := parseVec3(xo.XYZ)
		if err != nil {
			return nil, fmt.Errorf("origin xyz: %w", err)
		}
		o.XYZ = &v
	}
	if xo.RPY != "" {
		v, err := parseVec3(xo.RPY)
		if err != nil {
			return nil, fmt.Errorf("origin rpy: %w", err)
		}
		o.RPY = &v
	}
	return o, nil
}

func convertGeometry(xg *xmlGeometry) (kinematics.Geometry, error) {
	var g kinematics.Geometry
	var err error
	switch {
	case xg.Mesh != nil:
		g.Kind = kinematics.Mesh
		g.Filename = xg.Mesh.Filename
		if g.Filename == "" {
			return g, fmt.Errorf("mesh without filename")
		}
		if xg.Mesh.Scale != "" {
			s, err := parseVec3(xg.Mesh.Scale)
			if err != nil {
				return g, fmt.Errorf("mesh scale: %w", err)
			}
			g.Scale = &s
		}
	case xg.Box != nil:
		g.Kind = kinematics.Box
		g.Size, err = parseVec3(xg.Box.Size)
	case xg.Cylinder != nil:
		g.Kind = kinematics.Cylinder
		if g.Radius, err = parseFloat(xg.Cylinder.Radius); err == nil {
			g.Length, err = parseFloat(xg.Cylinder.Length)
		}
	case xg.Sphere != nil:
		g.Kind = kinematics.Sphere
		g.Radius, err = parseFloat(xg.Sphere.Radius)
	default:
		return g, fmt.Errorf("empty geometry")
	}
	if err != nil {
		return g, fmt.Errorf("%s: %w", g.Kind, err)
	}
	return g, nil
}

func convertMaterial(xm *xmlMaterial) (*kinematics.Material, error) {
	mat := &kinematics.Material{Name: xm.Name}
	if xm.Color != nil {
		f, err := parseFloats(xm.Color.RGBA, 4)
		if err != nil {
			return nil, fmt.Errorf("material %s color: %w", xm.Name, err)
		}
		c := kinematics.Color{f[0], f[1], f[2], f[3]}
		mat.Color = &c
	}
	if xm.Texture != nil {
		mat.Texture = xm.Texture.Filename
	}
	return mat, nil
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func parseVec3(s string) (mgl64.Vec3, error) {
	f, err := parseFloats(s, 3)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return mgl64.Vec3{f[0], f[1], f[2]}, nil
}

func parseFloats(s string, n int) ([]float64, error) {
	fields := strings.Fields(s)
	if len(fields) != n {
		return nil, fmt.Errorf("want %d numbers, got %q", n, s)
	}
	out := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
