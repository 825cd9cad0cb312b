package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checker() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	img.Set(1, 0, color.NRGBA{0, 255, 0, 255})
	img.Set(0, 1, color.NRGBA{0, 0, 255, 255})
	img.Set(1, 1, color.NRGBA{255, 255, 255, 128})
	return img
}

func TestFileLoaderPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, checker()))
	path := filepath.Join(t.TempDir(), "tex.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	img, err := FileLoader{}.Load(path)
	require.NoError(t, err)
	assert.Equal(t, checker().Pix, img.Pix)
}

func TestDecodeWebP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, nativewebp.Encode(&buf, checker(), nil))
	img, err := Decode(buf.Bytes(), ".webp")
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
	assert.Equal(t, color.NRGBA{0, 255, 0, 255}, img.NRGBAAt(1, 0))
}

func TestFileLoaderMixedFormats(t *testing.T) {
	dir := t.TempDir()
	encoders := map[string]func(*bytes.Buffer) error{
		"a.png":  func(b *bytes.Buffer) error { return png.Encode(b, checker()) },
		"b.webp": func(b *bytes.Buffer) error { return nativewebp.Encode(b, checker(), nil) },
		"c.tga":  func(b *bytes.Buffer) error { return tga.Encode(b, checker()) },
		"d.TGA":  func(b *bytes.Buffer) error { return tga.Encode(b, checker()) },
	}
	for name, enc := range encoders {
		var buf bytes.Buffer
		require.NoError(t, enc(&buf), name)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0644))
	}

	for name := range encoders {
		img, err := FileLoader{}.Load(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds(), name)
		assert.Equal(t, color.NRGBA{255, 0, 0, 255}, img.NRGBAAt(0, 0), name)
		assert.Equal(t, color.NRGBA{0, 0, 255, 255}, img.NRGBAAt(0, 1), name)
	}
}

func TestDecodeUnknownExtension(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, checker()))
	_, err := Decode(buf.Bytes(), ".dds")
	assert.ErrorContains(t, err, "unknown extension")
}

func TestToNRGBAGray(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 1, 1))
	g.SetGray(0, 0, color.Gray{Y: 77})
	n := toNRGBA(g)
	assert.Equal(t, color.NRGBA{77, 77, 77, 255}, n.NRGBAAt(0, 0))
}

func TestFileLoaderErrors(t *testing.T) {
	_, err := FileLoader{}.Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "junk.png")
	require.NoError(t, os.WriteFile(path, []byte("junk"), 0644))
	_, err = FileLoader{}.Load(path)
	assert.ErrorContains(t, err, "decode")
}

type countingLoader struct {
	calls atomic.Int64
	err   error
}

func (l *countingLoader) Load(string) (*image.NRGBA, error) {
	l.calls.Add(1)
	if l.err != nil {
		return nil, l.err
	}
	return checker(), nil
}

func TestCacheLoadsOnce(t *testing.T) {
	next := &countingLoader{}
	c := NewCache(next)

	var wg sync.WaitGroup
	imgs := make([]*image.NRGBA, 16)
	for i := range imgs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			imgs[i], _ = c.Load("a/../tex.png")
		}()
	}
	wg.Wait()

	for _, img := range imgs {
		assert.Same(t, imgs[0], img)
	}
	assert.Equal(t, 1, c.Len())
	first, _ := c.Load("tex.png")
	assert.Same(t, imgs[0], first)
}

func TestCacheRemembersErrors(t *testing.T) {
	next := &countingLoader{err: errors.New("boom")}
	c := NewCache(next)
	_, err1 := c.Load("x.png")
	_, err2 := c.Load("x.png")
	assert.Error(t, err1)
	assert.Equal(t, err1, err2)
	assert.EqualValues(t, 1, next.calls.Load())
}
