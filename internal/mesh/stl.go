package mesh

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DecodeSTL parses a binary or ASCII STL file. Coincident vertices are merged.
func DecodeSTL(raw []byte) (*Mesh, error) {
	var (
		tris [][3][3]float32
		err  error
	)
	if isBinarySTL(raw) {
		tris, err = readBinarySTL(raw)
	} else {
		tris, err = readASCIISTL(raw)
	}
	if err != nil {
		return nil, err
	}
	if len(tris) == 0 {
		return nil, errors.New("stl: no triangles")
	}

	b := newBuilder()
	for _, t := range tris {
		b.faces = append(b.faces, [3]uint32{b.vertex(t[0]), b.vertex(t[1]), b.vertex(t[2])})
	}
	return &Mesh{
		Vertices: b.verts,
		Faces:    b.faces,
		Normals:  ComputeNormals(b.verts, b.faces),
		Visual:   NoVisual,
	}, nil
}

func isBinarySTL(raw []byte) bool {
	if len(raw) < 84 {
		return false
	}
	n := binary.LittleEndian.Uint32(raw[80:84])
	return 84+50*int(n) == len(raw)
}

func readBinarySTL(raw []byte) ([][3][3]float32, error) {
	n := int(binary.LittleEndian.Uint32(raw[80:84]))
	tris := make([][3][3]float32, n)
	off := 84
	for i := 0; i < n; i++ {
		// Skip the stored facet normal (12 bytes); normals are recomputed.
		p := off + 12
		for v := 0; v < 3; v++ {
			for k := 0; k < 3; k++ {
				tris[i][v][k] = math.Float32frombits(binary.LittleEndian.Uint32(raw[p:]))
				p += 4
			}
		}
		off += 50
	}
	return tris, nil
}

func readASCIISTL(raw []byte) ([][3][3]float32, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("solid")) {
		return nil, errors.New("stl: neither binary nor ASCII")
	}

	var (
		tris    [][3][3]float32
		corners [][3]float32
	)
	sc := bufio.NewScanner(bytes.NewReader(raw))
	line := 0
	for sc.Scan() {
		line++
		f := strings.Fields(sc.Text())
		if len(f) == 0 {
			continue
		}
		switch f[0] {
		case "vertex":
			if len(f) != 4 {
				return nil, fmt.Errorf("stl: line %d: malformed vertex", line)
			}
			v, err := parseVec3(f[1:])
			if err != nil {
				return nil, fmt.Errorf("stl: line %d: %w", line, err)
			}
			corners = append(corners, v)
		case "endfacet":
			if len(corners) != 3 {
				return nil, fmt.Errorf("stl: line %d: facet has %d vertices", line, len(corners))
			}
			tris = append(tris, [3][3]float32{corners[0], corners[1], corners[2]})
			corners = corners[:0]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("stl: %w", err)
	}
	return tris, nil
}

func parseVec3(f []string) ([3]float32, error) {
	var v [3]float32
	for i := 0; i < 3; i++ {
		x, err := strconv.ParseFloat(f[i], 32)
		if err != nil {
			return v, err
		}
		v[i] = float32(x)
	}
	return v, nil
}

// builder deduplicates vertex positions.
type builder struct {
	index map[[3]float32]uint32
	verts [][3]float32
	faces [][3]uint32
}

func newBuilder() *builder {
	return &builder{index: make(map[[3]float32]uint32)}
}

func (b *builder) vertex(v [3]float32) uint32 {
	if i, ok := b.index[v]; ok {
		return i
	}
	i := uint32(len(b.verts))
	b.index[v] = i
	b.verts = append(b.verts, v)
	return i
}
