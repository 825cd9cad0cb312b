package preview

import (
	"image"

	"golang.org/x/image/draw"
)

// downsample reduces image size with premultiplied-alpha-aware filtering.
// This prevents dark halos at transparent edges.
func downsample(img *image.NRGBA, targetSize int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= targetSize && b.Dy() <= targetSize {
		return img
	}

	premul := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			si := img.PixOffset(x, y)
			di := premul.PixOffset(x, y)
			a := float64(img.Pix[si+3]) / 255.0
			premul.Pix[di] = uint8(float64(img.Pix[si])*a + 0.5)
			premul.Pix[di+1] = uint8(float64(img.Pix[si+1])*a + 0.5)
			premul.Pix[di+2] = uint8(float64(img.Pix[si+2])*a + 0.5)
			premul.Pix[di+3] = img.Pix[si+3]
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetSize, targetSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), premul, premul.Bounds(), draw.Src, nil)

	result := image.NewNRGBA(dst.Bounds())
	for i := 0; i < len(dst.Pix); i += 4 {
		a := float64(dst.Pix[i+3])
		if a > 1 {
			inv := 255.0 / a
			result.Pix[i] = clamp255(float64(dst.Pix[i]) * inv)
			result.Pix[i+1] = clamp255(float64(dst.Pix[i+1]) * inv)
			result.Pix[i+2] = clamp255(float64(dst.Pix[i+2]) * inv)
		}
		result.Pix[i+3] = dst.Pix[i+3]
	}
	return result
}

// cropAndCenter crops to the non-transparent pixels, then scales them to
// fillRatio of a size×size canvas and centers them.
func cropAndCenter(img *image.NRGBA, size int, fillRatio float64) *image.NRGBA {
	return scaleAndCenter(cropAlpha(img), size, fillRatio)
}

func cropAlpha(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	minX, minY := w, h
	maxX, maxY := -1, -1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if img.Pix[y*img.Stride+x*4+3] > 0 {
				minX, maxX = min(minX, x), max(maxX, x)
				minY, maxY = min(minY, y), max(maxY, y)
			}
		}
	}
	if maxX < minX || maxY < minY {
		return img
	}

	return img.SubImage(image.Rect(minX, minY, maxX+1, maxY+1)).(*image.NRGBA)
}

func scaleAndCenter(img *image.NRGBA, canvasSize int, fillRatio float64) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, canvasSize, canvasSize))
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW == 0 || srcH == 0 {
		return canvas
	}

	maxDim := float64(canvasSize) * fillRatio
	s := maxDim / float64(max(srcW, srcH))
	newW := max(int(float64(srcW)*s+0.5), 1)
	newH := max(int(float64(srcH)*s+0.5), 1)

	offX := (canvasSize - newW) / 2
	offY := (canvasSize - newH) / 2
	draw.CatmullRom.Scale(canvas, image.Rect(offX, offY, offX+newW, offY+newH), img, b, draw.Src, nil)
	return canvas
}
