package visual

import "fmt"

// UnsupportedGeometryError is returned for geometry other than a mesh file.
type UnsupportedGeometryError struct {
	Path string
	Kind string
}

func (e *UnsupportedGeometryError) Error() string {
	return fmt.Sprintf("visual: %s: unsupported geometry %s", e.Path, e.Kind)
}

// UnsupportedVisualError is returned for a mesh whose final visual kind cannot be exported.
type UnsupportedVisualError struct {
	Path string
	Kind string
}

func (e *UnsupportedVisualError) Error() string {
	return fmt.Sprintf("visual: %s: unsupported mesh visual %s", e.Path, e.Kind)
}
