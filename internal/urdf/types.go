package urdf

// xmlRobot matches the subset of the URDF schema this package reads.
type xmlRobot struct {
	Name      string        `xml:"name,attr"`
	Materials []xmlMaterial `xml:"material"`
	Links     []xmlLink     `xml:"link"`
	Joints    []xmlJoint    `xml:"joint"`
}

type xmlMaterial struct {
	Name    string      `xml:"name,attr"`
	Color   *xmlColor   `xml:"color"`
	Texture *xmlTexture `xml:"texture"`
}

type xmlColor struct {
	RGBA string `xml:"rgba,attr"`
}

type xmlTexture struct {
	Filename string `xml:"filename,attr"`
}

type xmlOrigin struct {
	XYZ string `xml:"xyz,attr"`
	RPY string `xml:"rpy,attr"`
}

type xmlLink struct {
	Name    string      `xml:"name,attr"`
	Visuals []xmlVisual `xml:"visual"`
}

type xmlVisual struct {
	Name     string       `xml:"name,attr"`
	Origin   *xmlOrigin   `xml:"origin"`
	Geometry *xmlGeometry `xml:"geometry"`
	Material *xmlMaterial `xml:"material"`
}

type xmlGeometry struct {
	Mesh *struct {
		Filename string `xml:"filename,attr"`
		Scale    string `xml:"scale,attr"`
	} `xml:"mesh"`
	Box *struct {
		Size string `xml:"size,attr"`
	} `xml:"box"`
	Cylinder *struct {
		Radius string `xml:"radius,attr"`
		Length string `xml:"length,attr"`
	} `xml:"cylinder"`
	Sphere *struct {
		Radius string `xml:"radius,attr"`
	} `xml:"sphere"`
}

type xmlJoint struct {
	Name   string     `xml:"name,attr"`
	Type   string     `xml:"type,attr"`
	Parent xmlLinkRef `xml:"parent"`
	Child  xmlLinkRef `xml:"child"`
	Origin *xmlOrigin `xml:"origin"`
	Axis   *struct {
		XYZ string `xml:"xyz,attr"`
	} `xml:"axis"`
	Limit *struct {
		Lower    string `xml:"lower,attr"`
		Upper    string `xml:"upper,attr"`
		Effort   string `xml:"effort,attr"`
		Velocity string `xml:"velocity,attr"`
	} `xml:"limit"`
}

type xmlLinkRef struct {
	Link string `xml:"link,attr"`
}
