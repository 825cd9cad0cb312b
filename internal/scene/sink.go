// Package scene defines the destination for exported entities and two
// implementations: an in-memory Recorder and a directory-backed FileSink.
package scene

import (
	"image"

	"urdf-scene-exporter/internal/transform"
)

// Sink accepts scene records addressed by hierarchical entity path.
// A static record persists for the whole timeline; a non-static one belongs
// to the sink's current time step.
type Sink interface {
	LogTransform(path string, t transform.Transform, static bool) error
	LogMesh(path string, m Mesh3D, static bool) error
}

// Mesh3D is a triangle mesh as handed to a sink.
type Mesh3D struct {
	Positions    [][3]float32
	Indices      [][3]uint32
	Normals      [][3]float32
	VertexColors [][4]uint8

	// Set only for textured meshes.
	TexCoords [][2]float32
	Albedo    image.Image
}

// Kind identifies a record type.
type Kind string

const (
	KindTransform Kind = "transform"
	KindMesh      Kind = "mesh"
)

// Timeline is implemented by sinks that attach a time step to non-static records.
type Timeline interface {
	SetFrame(frame int)
}
