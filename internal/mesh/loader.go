package mesh

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"urdf-scene-exporter/internal/logging"
	"urdf-scene-exporter/internal/texture"
)

// Loader loads a mesh file.
type Loader interface {
	Load(path string) (*Mesh, error)
}

// FileLoader loads STL and Wavefront OBJ files from disk. When Images is set,
// an OBJ with texture coordinates gets the diffuse map of its MTL material.
type FileLoader struct {
	Images texture.Loader
}

// Load reads the file at path and dispatches on its extension.
func (l FileLoader) Load(path string) (*Mesh, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: read %s: %w", path, err)
	}

	var m *Mesh
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".stl":
		m, err = DecodeSTL(raw)
	case ".obj":
		m, err = DecodeOBJ(raw)
		if err == nil && m.Visual == TextureVisual && l.Images != nil {
			err = l.attachTexture(m, path, raw)
		}
	default:
		return nil, fmt.Errorf("mesh: unsupported format %q: %s", ext, path)
	}
	if err != nil {
		return nil, fmt.Errorf("mesh: decode %s: %w", path, err)
	}
	return m, nil
}

// attachTexture loads the diffuse map named by the OBJ's material library.
// A missing MTL file leaves the mesh without an image.
func (l FileLoader) attachTexture(m *Mesh, path string, raw []byte) error {
	libs, use := objMaterialRefs(raw)
	dir := filepath.Dir(path)
	for _, lib := range libs {
		mtlPath := filepath.Join(dir, lib)
		data, err := os.ReadFile(mtlPath)
		if err != nil {
			logging.Logger().Warn("mesh: material library not found", "obj", path, "mtl", mtlPath)
			continue
		}
		name := diffuseMap(DecodeMTL(data), use)
		if name == "" {
			continue
		}
		img, err := l.Images.Load(filepath.Join(filepath.Dir(mtlPath), name))
		if err != nil {
			return err
		}
		m.Texture = img
		return nil
	}
	return nil
}
