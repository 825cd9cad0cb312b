package mesh

import "image"

// VisualKind describes how a mesh is already colored.
type VisualKind int

const (
	// NoVisual means the mesh carries neither colors nor texture coordinates.
	NoVisual VisualKind = iota
	// ColorVisual means per-vertex colors.
	ColorVisual
	// TextureVisual means per-vertex texture coordinates (and possibly an image).
	TextureVisual
)

func (k VisualKind) String() string {
	switch k {
	case NoVisual:
		return "none"
	case ColorVisual:
		return "color"
	case TextureVisual:
		return "texture"
	}
	return "unknown"
}

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Vertices     [][3]float32
	Faces        [][3]uint32
	Normals      [][3]float32 // one per vertex
	TexCoords    [][2]float32 // one per vertex, TextureVisual only
	VertexColors [][4]uint8   // one per vertex, ColorVisual only
	Texture      image.Image  // TextureVisual only; may be nil
	Visual       VisualKind
}

// UniformColor returns a copy of m colored with c at every vertex.
// Texture data is dropped; geometry slices are shared with m.
func (m *Mesh) UniformColor(c [4]uint8) *Mesh {
	out := *m
	out.VertexColors = make([][4]uint8, len(m.Vertices))
	for i := range out.VertexColors {
		out.VertexColors[i] = c
	}
	out.TexCoords = nil
	out.Texture = nil
	out.Visual = ColorVisual
	return &out
}

// Textured returns a copy of m marked as a texture visual using img.
// Geometry slices are shared with m.
func (m *Mesh) Textured(img image.Image) *Mesh {
	out := *m
	out.VertexColors = nil
	out.Texture = img
	out.Visual = TextureVisual
	return &out
}
