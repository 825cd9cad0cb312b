package mesh

import (
	"bytes"
	"encoding/binary"
	"image"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const asciiSTL = `solid square
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 1 1 0
    endloop
  endfacet
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 1 0
      vertex 0 1 0
    endloop
  endfacet
endsolid square
`

func binarySTL(tris [][3][3]float32) []byte {
	var buf bytes.Buffer
	buf.Write(make([]byte, 80))
	binary.Write(&buf, binary.LittleEndian, uint32(len(tris)))
	for _, t := range tris {
		binary.Write(&buf, binary.LittleEndian, [3]float32{})
		binary.Write(&buf, binary.LittleEndian, t)
		binary.Write(&buf, binary.LittleEndian, uint16(0))
	}
	return buf.Bytes()
}

func TestDecodeASCIISTL(t *testing.T) {
	m, err := DecodeSTL([]byte(asciiSTL))
	require.NoError(t, err)
	assert.Len(t, m.Vertices, 4)
	assert.Len(t, m.Faces, 2)
	assert.Equal(t, NoVisual, m.Visual)
	for _, n := range m.Normals {
		assert.Equal(t, [3]float32{0, 0, 1}, n)
	}
}

func TestDecodeBinarySTL(t *testing.T) {
	raw := binarySTL([][3][3]float32{
		{{0, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	})
	m, err := DecodeSTL(raw)
	require.NoError(t, err)
	assert.Equal(t, [][3]float32{{0, 0, 0}, {0, 1, 0}, {0, 0, 1}}, m.Vertices)
	assert.Equal(t, [][3]uint32{{0, 1, 2}}, m.Faces)
	assert.Equal(t, [3]float32{1, 0, 0}, m.Normals[0])
}

func TestDecodeSTLErrors(t *testing.T) {
	_, err := DecodeSTL([]byte("not a mesh"))
	assert.Error(t, err)

	_, err = DecodeSTL([]byte("solid empty\nendsolid empty\n"))
	assert.Error(t, err)

	_, err = DecodeSTL([]byte("solid x\nfacet\nouter loop\nvertex 0 0 0\nendloop\nendfacet\n"))
	assert.Error(t, err)
}

func TestDecodeOBJ(t *testing.T) {
	src := `# quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1 4//1
`
	m, err := DecodeOBJ([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, [][3]uint32{{0, 1, 2}, {0, 2, 3}}, m.Faces)
	assert.Equal(t, NoVisual, m.Visual)
	require.Len(t, m.Normals, 4)
	assert.Equal(t, [3]float32{0, 0, 1}, m.Normals[2])
}

func TestDecodeOBJTexCoords(t *testing.T) {
	src := `v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
f -3/1 -2/2 -1/3
`
	m, err := DecodeOBJ([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, TextureVisual, m.Visual)
	assert.Equal(t, [][2]float32{{0, 0}, {1, 0}, {0, 1}}, m.TexCoords)
}

func TestDecodeOBJVertexColors(t *testing.T) {
	src := `v 0 0 0 1 0 0
v 1 0 0 0 1 0
v 0 1 0 0 0 1
f 1 2 3
`
	m, err := DecodeOBJ([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, ColorVisual, m.Visual)
	assert.Equal(t, [4]uint8{0, 255, 0, 255}, m.VertexColors[1])
}

func TestDecodeOBJErrors(t *testing.T) {
	for _, src := range []string{
		"v 0 0 0\n",
		"v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n",
		"v 0 0\n",
		"v 0 0 0\nf 1 1\n",
	} {
		_, err := DecodeOBJ([]byte(src))
		assert.Error(t, err, src)
	}
}

func TestComputeNormalsAreaWeighted(t *testing.T) {
	verts := [][3]float32{{0, 0, 0}, {10, 0, 0}, {0, 10, 0}, {0, 0, 1}, {9, 9, 9}}
	faces := [][3]uint32{{0, 1, 2}, {0, 1, 3}}
	n := ComputeNormals(verts, faces)
	// Vertex 0 is shared by a large +Z face and a small -Y face.
	assert.Greater(t, n[0][2], float32(0.9))
	assert.Less(t, n[0][1], float32(0))
	assert.InDelta(t, 1, math.Sqrt(float64(n[0][0]*n[0][0]+n[0][1]*n[0][1]+n[0][2]*n[0][2])), 1e-6)
	assert.Equal(t, [3]float32{}, n[4])
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	stl := filepath.Join(dir, "part.STL")
	require.NoError(t, os.WriteFile(stl, []byte(asciiSTL), 0644))

	m, err := FileLoader{}.Load(stl)
	require.NoError(t, err)
	assert.Len(t, m.Faces, 2)

	dae := filepath.Join(dir, "part.dae")
	require.NoError(t, os.WriteFile(dae, []byte("<COLLADA/>"), 0644))
	_, err = FileLoader{}.Load(dae)
	assert.ErrorContains(t, err, "unsupported format")

	_, err = FileLoader{}.Load(filepath.Join(dir, "missing.stl"))
	assert.Error(t, err)
}

func TestUniformColorAndTextured(t *testing.T) {
	m, err := DecodeSTL([]byte(asciiSTL))
	require.NoError(t, err)

	c := m.UniformColor([4]uint8{1, 2, 3, 4})
	assert.Equal(t, ColorVisual, c.Visual)
	assert.Len(t, c.VertexColors, len(m.Vertices))
	assert.Nil(t, m.VertexColors, "original untouched")

	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	tx := m.Textured(img)
	assert.Equal(t, TextureVisual, tx.Visual)
	assert.Same(t, img, tx.Texture.(*image.NRGBA))
	assert.Equal(t, NoVisual, m.Visual)
}

type images map[string]*image.NRGBA

func (im images) Load(path string) (*image.NRGBA, error) {
	if img, ok := im[path]; ok {
		return img, nil
	}
	return nil, os.ErrNotExist
}

const texturedOBJ = `mtllib part.mtl
usemtl painted
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
f 1/1 2/2 3/3
`

const partMTL = `newmtl bare
Kd 1 1 1
newmtl painted
Kd 1 1 1
map_Kd -s 1 1 1 maps/skin.png
`

func TestDecodeMTL(t *testing.T) {
	mats := DecodeMTL([]byte(partMTL))
	assert.Equal(t, []Material{{Name: "bare"}, {Name: "painted", DiffuseMap: "maps/skin.png"}}, mats)
	assert.Equal(t, "maps/skin.png", diffuseMap(mats, "painted"))
	assert.Equal(t, "maps/skin.png", diffuseMap(mats, "other"))
	assert.Empty(t, diffuseMap(mats[:1], "bare"))
}

func TestFileLoaderOBJTexture(t *testing.T) {
	dir := t.TempDir()
	obj := filepath.Join(dir, "part.obj")
	require.NoError(t, os.WriteFile(obj, []byte(texturedOBJ), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "part.mtl"), []byte(partMTL), 0644))

	skin := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	l := FileLoader{Images: images{filepath.Join(dir, "maps", "skin.png"): skin}}
	m, err := l.Load(obj)
	require.NoError(t, err)
	assert.Equal(t, TextureVisual, m.Visual)
	assert.Same(t, skin, m.Texture)

	m, err = FileLoader{}.Load(obj)
	require.NoError(t, err)
	assert.Equal(t, TextureVisual, m.Visual)
	assert.Nil(t, m.Texture)

	_, err = FileLoader{Images: images{}}.Load(obj)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileLoaderOBJMissingMTL(t *testing.T) {
	dir := t.TempDir()
	obj := filepath.Join(dir, "part.obj")
	require.NoError(t, os.WriteFile(obj, []byte(texturedOBJ), 0644))

	m, err := FileLoader{Images: images{}}.Load(obj)
	require.NoError(t, err)
	assert.Equal(t, TextureVisual, m.Visual)
	assert.Nil(t, m.Texture)
}
