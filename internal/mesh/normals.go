package mesh

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// ComputeNormals returns area-weighted vertex normals.
// Vertices not referenced by any non-degenerate face get a zero normal.
func ComputeNormals(vertices [][3]float32, faces [][3]uint32) [][3]float32 {
	acc := make([]r3.Vec, len(vertices))
	for _, f := range faces {
		a, b, c := vec(vertices[f[0]]), vec(vertices[f[1]]), vec(vertices[f[2]])
		// |cross| is twice the triangle area, which gives the weighting.
		n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
		for _, i := range f {
			acc[i] = r3.Add(acc[i], n)
		}
	}

	normals := make([][3]float32, len(vertices))
	for i, n := range acc {
		if r3.Norm(n) == 0 {
			continue
		}
		normals[i] = unit(n)
	}
	return normals
}

func vec(v [3]float32) r3.Vec {
	return r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}

func unit(v r3.Vec) [3]float32 {
	u := r3.Unit(v)
	return [3]float32{float32(u.X), float32(u.Y), float32(u.Z)}
}
