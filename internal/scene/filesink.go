package scene

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/HugoSmits86/nativewebp"
	"github.com/samber/lo"

	"urdf-scene-exporter/internal/transform"
)

// FileSink writes records as JSON lines to <dir>/records.jsonl, textures as
// WebP under <dir>/textures, and an entity summary to <dir>/manifest.json on Close.
// Safe for concurrent use.
type FileSink struct {
	dir string

	mu       sync.Mutex
	f        *os.File
	w        *bufio.Writer
	enc      *json.Encoder
	frame    int
	textures int
	entities map[string]*ManifestEntry
	closed   bool
}

var (
	_ Sink     = (*FileSink)(nil)
	_ Timeline = (*FileSink)(nil)
)

// ManifestEntry summarizes everything logged at one entity path.
type ManifestEntry struct {
	Path       string   `json:"path"`
	Transforms int      `json:"transforms"`
	Meshes     int      `json:"meshes"`
	Vertices   int      `json:"vertices,omitempty"`
	Triangles  int      `json:"triangles,omitempty"`
	Textures   []string `json:"textures,omitempty"`
}

type fileRecord struct {
	Kind   Kind   `json:"kind"`
	Path   string `json:"path"`
	Static bool   `json:"static"`
	Frame  *int   `json:"frame,omitempty"`

	Translation *[3]float64 `json:"translation,omitempty"`
	Rotation    *[4]float64 `json:"rotation,omitempty"` // x, y, z, w
	Scale       *[3]float64 `json:"scale,omitempty"`

	Positions    [][3]float32 `json:"positions,omitempty"`
	Indices      [][3]uint32  `json:"indices,omitempty"`
	Normals      [][3]float32 `json:"normals,omitempty"`
	VertexColors [][4]uint8   `json:"vertex_colors,omitempty"`
	TexCoords    [][2]float32 `json:"texcoords,omitempty"`
	Texture      string       `json:"texture,omitempty"`
}

// NewFileSink creates dir if needed and opens records.jsonl for writing.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("scene: create %s: %w", dir, err)
	}
	f, err := os.Create(filepath.Join(dir, "records.jsonl"))
	if err != nil {
		return nil, fmt.Errorf("scene: create records: %w", err)
	}
	w := bufio.NewWriter(f)
	return &FileSink{
		dir:      dir,
		f:        f,
		w:        w,
		enc:      json.NewEncoder(w),
		entities: make(map[string]*ManifestEntry),
	}, nil
}

// Dir returns the output directory.
func (s *FileSink) Dir() string { return s.dir }

// SetFrame sets the time step attached to subsequent non-static records.
func (s *FileSink) SetFrame(frame int) {
	s.mu.Lock()
	s.frame = frame
	s.mu.Unlock()
}

func (s *FileSink) LogTransform(path string, t transform.Transform, static bool) error {
	rec := fileRecord{Kind: KindTransform, Path: path, Static: static}
	if t.HasTranslation() {
		v := t.Translation()
		rec.Translation = &[3]float64{v[0], v[1], v[2]}
	}
	if t.HasRotation() {
		q := t.Rotation()
		rec.Rotation = &[4]float64{q.V[0], q.V[1], q.V[2], q.W}
	}
	if t.HasScale() {
		v := t.Scale()
		rec.Scale = &[3]float64{v[0], v[1], v[2]}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(&rec); err != nil {
		return err
	}
	s.entry(path).Transforms++
	return nil
}

func (s *FileSink) LogMesh(path string, m Mesh3D, static bool) error {
	rec := fileRecord{
		Kind:         KindMesh,
		Path:         path,
		Static:       static,
		Positions:    m.Positions,
		Indices:      m.Indices,
		Normals:      m.Normals,
		VertexColors: m.VertexColors,
		TexCoords:    m.TexCoords,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if m.Albedo != nil {
		name, err := s.writeTexture(m)
		if err != nil {
			return err
		}
		rec.Texture = name
	}
	if err := s.write(&rec); err != nil {
		return err
	}
	e := s.entry(path)
	e.Meshes++
	e.Vertices += len(m.Positions)
	e.Triangles += len(m.Indices)
	if rec.Texture != "" {
		e.Textures = append(e.Textures, rec.Texture)
	}
	return nil
}

// Close flushes records and writes manifest.json. Calling Close twice is a no-op.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.w.Flush(); err != nil {
		s.f.Close()
		return fmt.Errorf("scene: flush records: %w", err)
	}
	if err := s.f.Close(); err != nil {
		return fmt.Errorf("scene: close records: %w", err)
	}
	return s.writeManifest()
}

func (s *FileSink) write(rec *fileRecord) error {
	if s.closed {
		return fmt.Errorf("scene: write %s: sink closed", rec.Path)
	}
	if !rec.Static {
		frame := s.frame
		rec.Frame = &frame
	}
	if err := s.enc.Encode(rec); err != nil {
		return fmt.Errorf("scene: write %s: %w", rec.Path, err)
	}
	return nil
}

func (s *FileSink) writeTexture(m Mesh3D) (string, error) {
	s.textures++
	name := fmt.Sprintf("textures/%04d.webp", s.textures)
	out := filepath.Join(s.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return "", fmt.Errorf("scene: create texture dir: %w", err)
	}
	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("scene: create %s: %w", name, err)
	}
	defer f.Close()
	if err := nativewebp.Encode(f, m.Albedo, nil); err != nil {
		return "", fmt.Errorf("scene: encode %s: %w", name, err)
	}
	return name, nil
}

func (s *FileSink) entry(path string) *ManifestEntry {
	e, ok := s.entities[path]
	if !ok {
		e = &ManifestEntry{Path: path}
		s.entities[path] = e
	}
	return e
}

func (s *FileSink) writeManifest() error {
	entries := lo.Map(lo.Values(s.entities), func(e *ManifestEntry, _ int) ManifestEntry { return *e })
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, "manifest.json"), data, 0644)
}
