package scene

import (
	"sync"

	"urdf-scene-exporter/internal/transform"
)

// Record is one call made against a Recorder.
type Record struct {
	Kind      Kind
	Path      string
	Static    bool
	Frame     int
	Transform transform.Transform
	Mesh      *Mesh3D
}

// Recorder is a Sink that keeps every record in memory. Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	frame   int
	records []Record
}

var (
	_ Sink     = (*Recorder)(nil)
	_ Timeline = (*Recorder)(nil)
)

func NewRecorder() *Recorder { return &Recorder{} }

// SetFrame sets the time step attached to subsequent non-static records.
func (r *Recorder) SetFrame(frame int) {
	r.mu.Lock()
	r.frame = frame
	r.mu.Unlock()
}

func (r *Recorder) LogTransform(path string, t transform.Transform, static bool) error {
	r.append(Record{Kind: KindTransform, Path: path, Static: static, Transform: t})
	return nil
}

func (r *Recorder) LogMesh(path string, m Mesh3D, static bool) error {
	r.append(Record{Kind: KindMesh, Path: path, Static: static, Mesh: &m})
	return nil
}

func (r *Recorder) append(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !rec.Static {
		rec.Frame = r.frame
	}
	r.records = append(r.records, rec)
}

// Records returns a copy of everything logged so far, in call order.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Record(nil), r.records...)
}

// Find returns the records logged at path, in call order.
func (r *Recorder) Find(path string) []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Record
	for _, rec := range r.records {
		if rec.Path == path {
			out = append(out, rec)
		}
	}
	return out
}

// Len returns the number of records.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Reset drops all records.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.records = nil
	r.frame = 0
	r.mu.Unlock()
}
