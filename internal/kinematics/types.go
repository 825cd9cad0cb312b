package kinematics

import "github.com/go-gl/mathgl/mgl64"

// JointType is the kind of motion a joint allows.
type JointType int

const (
	Unknown JointType = iota
	Fixed
	Revolute
	Continuous
	Prismatic
	Floating
	Planar
)

var jointTypeNames = map[JointType]string{
	Unknown:    "unknown",
	Fixed:      "fixed",
	Revolute:   "revolute",
	Continuous: "continuous",
	Prismatic:  "prismatic",
	Floating:   "floating",
	Planar:     "planar",
}

// ParseJointType maps a URDF joint type name. Unrecognized names map to Unknown.
func ParseJointType(s string) JointType {
	for t, name := range jointTypeNames {
		if name == s {
			return t
		}
	}
	return Unknown
}

func (t JointType) String() string {
	if s, ok := jointTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// Origin is a fixed pose offset. Either field may be nil.
type Origin struct {
	XYZ *mgl64.Vec3
	RPY *mgl64.Vec3 // roll, pitch, yaw in radians
}

// Limit holds joint position limits (radians or meters).
type Limit struct {
	Lower, Upper     float64
	Effort, Velocity float64
}

// Joint connects a parent link to a child link.
type Joint struct {
	Name   string
	Type   JointType
	Parent string
	Child  string
	Axis   *mgl64.Vec3 // nil = unit X; need not be normalized
	Origin *Origin
	Limit  *Limit
}

// GeometryKind tags the Geometry variant.
type GeometryKind int

const (
	Mesh GeometryKind = iota
	Box
	Cylinder
	Sphere
)

func (k GeometryKind) String() string {
	switch k {
	case Mesh:
		return "mesh"
	case Box:
		return "box"
	case Cylinder:
		return "cylinder"
	case Sphere:
		return "sphere"
	}
	return "unknown"
}

// Geometry is a closed variant: Kind selects which fields are meaningful.
type Geometry struct {
	Kind GeometryKind

	// Mesh
	Filename string
	Scale    *mgl64.Vec3

	// Box
	Size mgl64.Vec3

	// Cylinder, Sphere
	Radius float64
	Length float64
}

// Color is linear RGBA in [0, 1].
type Color [4]float64

// RGBA8 converts the color to 8-bit channels, clamping out-of-range values.
func (c Color) RGBA8() [4]uint8 {
	var out [4]uint8
	for i, v := range c {
		switch {
		case v <= 0:
			out[i] = 0
		case v >= 1:
			out[i] = 255
		default:
			out[i] = uint8(v*255 + 0.5)
		}
	}
	return out
}

// Material is either a flat color or a texture reference (or both; color wins).
type Material struct {
	Name    string
	Color   *Color
	Texture string
}

// Visual is one renderable attachment on a link.
type Visual struct {
	Name     string
	Origin   *Origin
	Geometry Geometry
	Material *Material
}

// Link is a rigid body in the tree.
type Link struct {
	Name    string
	Visuals []Visual
}
