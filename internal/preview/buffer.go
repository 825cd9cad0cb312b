package preview

import "math"

// frameBuffer holds the rendering target as flat slices for cache locality.
type frameBuffer struct {
	size  int
	color []uint8   // RGBA interleaved, len = size*size*4
	zbuf  []float64 // depth per pixel, initialized to -inf
}

func newFrameBuffer(size int) *frameBuffer {
	n := size * size
	zbuf := make([]float64, n)
	for i := range zbuf {
		zbuf[i] = math.Inf(-1)
	}
	return &frameBuffer{
		size:  size,
		color: make([]uint8, n*4),
		zbuf:  zbuf,
	}
}
