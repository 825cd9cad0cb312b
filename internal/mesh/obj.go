package mesh

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DecodeOBJ parses a Wavefront OBJ file. Polygons are fan-triangulated.
// Texture coordinates and normals are attached to the position they are
// first referenced with. Vertex colors ("v x y z r g b") make a color visual;
// texture coordinates make a texture visual. Material libraries are read by
// FileLoader, not here.
func DecodeOBJ(raw []byte) (*Mesh, error) {
	var (
		positions [][3]float32
		colors    [][3]float32
		uvs       [][2]float32
		normals   [][3]float32
		faces     [][3]uint32
		cornerUV  = map[uint32]int{}
		cornerN   = map[uint32][]int{}
	)

	sc := bufio.NewScanner(bytes.NewReader(raw))
	line := 0
	for sc.Scan() {
		line++
		f := strings.Fields(sc.Text())
		if len(f) == 0 || strings.HasPrefix(f[0], "#") {
			continue
		}
		switch f[0] {
		case "v":
			if len(f) < 4 {
				return nil, fmt.Errorf("obj: line %d: malformed vertex", line)
			}
			p, err := parseVec3(f[1:4])
			if err != nil {
				return nil, fmt.Errorf("obj: line %d: %w", line, err)
			}
			positions = append(positions, p)
			if len(f) >= 7 {
				c, err := parseVec3(f[4:7])
				if err != nil {
					return nil, fmt.Errorf("obj: line %d: %w", line, err)
				}
				colors = append(colors, c)
			}
		case "vt":
			if len(f) < 3 {
				return nil, fmt.Errorf("obj: line %d: malformed texcoord", line)
			}
			u, err1 := strconv.ParseFloat(f[1], 32)
			v, err2 := strconv.ParseFloat(f[2], 32)
			if err := errors.Join(err1, err2); err != nil {
				return nil, fmt.Errorf("obj: line %d: %w", line, err)
			}
			uvs = append(uvs, [2]float32{float32(u), float32(v)})
		case "vn":
			if len(f) < 4 {
				return nil, fmt.Errorf("obj: line %d: malformed normal", line)
			}
			n, err := parseVec3(f[1:4])
			if err != nil {
				return nil, fmt.Errorf("obj: line %d: %w", line, err)
			}
			normals = append(normals, n)
		case "f":
			if len(f) < 4 {
				return nil, fmt.Errorf("obj: line %d: face needs 3 vertices", line)
			}
			idx := make([]uint32, 0, len(f)-1)
			for _, c := range f[1:] {
				vi, ti, ni, err := parseCorner(c, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("obj: line %d: %w", line, err)
				}
				if ti >= 0 {
					if _, ok := cornerUV[vi]; !ok {
						cornerUV[vi] = ti
					}
				}
				if ni >= 0 {
					cornerN[vi] = append(cornerN[vi], ni)
				}
				idx = append(idx, vi)
			}
			for k := 1; k+1 < len(idx); k++ {
				faces = append(faces, [3]uint32{idx[0], idx[k], idx[k+1]})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("obj: %w", err)
	}
	if len(faces) == 0 {
		return nil, errors.New("obj: no faces")
	}

	m := &Mesh{Vertices: positions, Faces: faces, Visual: NoVisual}

	if len(cornerN) == len(positions) {
		m.Normals = averageNormals(positions, normals, cornerN)
	} else {
		m.Normals = ComputeNormals(positions, faces)
	}

	switch {
	case len(cornerUV) > 0:
		m.TexCoords = make([][2]float32, len(positions))
		for vi, ti := range cornerUV {
			m.TexCoords[vi] = uvs[ti]
		}
		m.Visual = TextureVisual
	case len(colors) == len(positions):
		m.VertexColors = make([][4]uint8, len(positions))
		for i, c := range colors {
			m.VertexColors[i] = [4]uint8{unit8(c[0]), unit8(c[1]), unit8(c[2]), 255}
		}
		m.Visual = ColorVisual
	}
	return m, nil
}

// parseCorner parses "v", "v/t", "v//n" or "v/t/n". Indices are 1-based;
// negative indices count back from the end. Missing parts return -1.
func parseCorner(s string, nv, nt, nn int) (vi uint32, ti, ni int, err error) {
	parts := strings.Split(s, "/")
	v, err := resolveIndex(parts[0], nv)
	if err != nil {
		return 0, 0, 0, err
	}
	ti, ni = -1, -1
	if len(parts) > 1 && parts[1] != "" {
		if ti, err = resolveIndex(parts[1], nt); err != nil {
			return 0, 0, 0, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if ni, err = resolveIndex(parts[2], nn); err != nil {
			return 0, 0, 0, err
		}
	}
	return uint32(v), ti, ni, nil
}

func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad index %q", s)
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	}
	return 0, fmt.Errorf("index %d out of range (have %d)", i, n)
}

func averageNormals(positions, normals [][3]float32, refs map[uint32][]int) [][3]float32 {
	out := make([][3]float32, len(positions))
	for vi, ns := range refs {
		var sum [3]float32
		for _, ni := range ns {
			for k := 0; k < 3; k++ {
				sum[k] += normals[ni][k]
			}
		}
		out[vi] = sum
	}
	// Normalize through the same path as computed normals.
	for i, n := range out {
		v := vec(n)
		if v.X == 0 && v.Y == 0 && v.Z == 0 {
			continue
		}
		out[i] = unit(v)
	}
	return out
}

func unit8(x float32) uint8 {
	switch {
	case x <= 0:
		return 0
	case x >= 1:
		return 255
	}
	return uint8(x*255 + 0.5)
}
