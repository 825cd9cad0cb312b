// Package visual converts link visuals into scene meshes and their local transforms.
package visual

import (
	"context"
	"fmt"

	"urdf-scene-exporter/internal/assets"
	"urdf-scene-exporter/internal/entitypath"
	"urdf-scene-exporter/internal/kinematics"
	"urdf-scene-exporter/internal/logging"
	"urdf-scene-exporter/internal/mesh"
	"urdf-scene-exporter/internal/scene"
	"urdf-scene-exporter/internal/texture"
	"urdf-scene-exporter/internal/transform"
)

// DefaultColor is applied to meshes that end up with no colors and no texture.
var DefaultColor = kinematics.Color{0.4, 0.4, 0.4, 1}

// Exporter emits one mesh (and optionally one static transform) per visual.
type Exporter struct {
	Meshes mesh.Loader
	Images texture.Loader
	Assets *assets.Index // nil resolves filenames verbatim
	Sink   scene.Sink

	// DefaultColor overrides the package DefaultColor for uncolored meshes.
	DefaultColor *kinematics.Color
	// Textures enables export of textured meshes with their albedo image.
	// When false a textured mesh is an UnsupportedVisualError.
	Textures bool
}

// ExportLink exports every visual of link under linkPath/visual_i and
// returns how many were emitted. It stops at the first failing visual.
func (e *Exporter) ExportLink(ctx context.Context, linkPath string, link *kinematics.Link) (int, error) {
	for i := range link.Visuals {
		path := entitypath.VisualPath(linkPath, i)
		if err := e.ExportVisual(ctx, path, &link.Visuals[i]); err != nil {
			return i, err
		}
	}
	return len(link.Visuals), nil
}

// ExportVisual emits the mesh of v at path, then its local transform if it has one.
// On error nothing is emitted for v.
func (e *Exporter) ExportVisual(ctx context.Context, path string, v *kinematics.Visual) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	geom := v.Geometry
	if geom.Kind != kinematics.Mesh {
		return &UnsupportedGeometryError{Path: path, Kind: geom.Kind.String()}
	}

	m, err := e.loadMesh(geom.Filename)
	if err != nil {
		return fmt.Errorf("visual: %s: %w", path, err)
	}

	local := transform.FromOrigin(v.Origin)
	if geom.Scale != nil {
		if t, ok := local.Get(); ok {
			local = transform.Some(t.WithScale(*geom.Scale))
		} else {
			local = transform.Some(transform.FromScale(*geom.Scale))
		}
	}

	m, err = e.applyMaterial(m, v.Material)
	if err != nil {
		return fmt.Errorf("visual: %s: %w", path, err)
	}
	out, err := e.toScene(path, m)
	if err != nil {
		return err
	}

	if err := e.Sink.LogMesh(path, out, true); err != nil {
		return fmt.Errorf("visual: log mesh %s: %w", path, err)
	}
	logging.Logger().Debug("mesh", "path", path, "vertices", len(out.Positions), "visual", m.Visual.String())

	if t, ok := local.Get(); ok {
		if err := e.Sink.LogTransform(path, t, true); err != nil {
			return fmt.Errorf("visual: log transform %s: %w", path, err)
		}
	}
	return nil
}

func (e *Exporter) resolve(uri string) (string, error) {
	if e.Assets == nil {
		return uri, nil
	}
	return e.Assets.Resolve(uri)
}

func (e *Exporter) loadMesh(uri string) (*mesh.Mesh, error) {
	p, err := e.resolve(uri)
	if err != nil {
		return nil, err
	}
	return e.Meshes.Load(p)
}

// applyMaterial gives the material a chance to color the mesh. A mesh that
// carries texture coordinates is left as loaded, with or without an image.
func (e *Exporter) applyMaterial(m *mesh.Mesh, mat *kinematics.Material) (*mesh.Mesh, error) {
	if mat != nil && m.Visual != mesh.TextureVisual {
		switch {
		case mat.Color != nil:
			m = m.UniformColor(mat.Color.RGBA8())
		case mat.Texture != "":
			if e.Images == nil {
				return nil, fmt.Errorf("no image loader for texture %s", mat.Texture)
			}
			p, err := e.resolve(mat.Texture)
			if err != nil {
				return nil, err
			}
			img, err := e.Images.Load(p)
			if err != nil {
				return nil, err
			}
			m = m.Textured(img)
		}
	}
	if m.Visual == mesh.NoVisual {
		c := DefaultColor
		if e.DefaultColor != nil {
			c = *e.DefaultColor
		}
		m = m.UniformColor(c.RGBA8())
	}
	return m, nil
}

func (e *Exporter) toScene(path string, m *mesh.Mesh) (scene.Mesh3D, error) {
	out := scene.Mesh3D{
		Positions: m.Vertices,
		Indices:   m.Faces,
		Normals:   m.Normals,
	}
	switch m.Visual {
	case mesh.ColorVisual:
		out.VertexColors = m.VertexColors
	case mesh.TextureVisual:
		if !e.Textures || m.Texture == nil || len(m.TexCoords) != len(m.Vertices) {
			return scene.Mesh3D{}, &UnsupportedVisualError{Path: path, Kind: m.Visual.String()}
		}
		out.TexCoords = m.TexCoords
		out.Albedo = m.Texture
	default:
		return scene.Mesh3D{}, &UnsupportedVisualError{Path: path, Kind: m.Visual.String()}
	}
	return out, nil
}
