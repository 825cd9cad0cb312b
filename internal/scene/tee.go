package scene

import "urdf-scene-exporter/internal/transform"

type tee []Sink

// Tee returns a Sink that forwards every record to each of sinks in order,
// stopping at the first error. SetFrame is forwarded to sinks that implement Timeline.
func Tee(sinks ...Sink) Sink { return tee(sinks) }

func (t tee) LogTransform(path string, tr transform.Transform, static bool) error {
	for _, s := range t {
		if err := s.LogTransform(path, tr, static); err != nil {
			return err
		}
	}
	return nil
}

func (t tee) LogMesh(path string, m Mesh3D, static bool) error {
	for _, s := range t {
		if err := s.LogMesh(path, m, static); err != nil {
			return err
		}
	}
	return nil
}

func (t tee) SetFrame(frame int) {
	for _, s := range t {
		if tl, ok := s.(Timeline); ok {
			tl.SetFrame(frame)
		}
	}
}
