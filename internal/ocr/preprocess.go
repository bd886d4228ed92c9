package ocr

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
)

// PreprocessFile binarizes a rasterized page for OCR: grayscale conversion
// followed by Otsu thresholding. Returns the path of the written PNG.
func PreprocessFile(path string) (string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("open raster: %w", err)
	}

	bin := Binarize(img)

	out := strings.TrimSuffix(path, ".png") + "-bin.png"
	if err := imaging.Save(bin, out); err != nil {
		return "", fmt.Errorf("save binarized image: %w", err)
	}
	return out, nil
}

// Binarize converts an image to grayscale and applies Otsu's threshold.
func Binarize(img image.Image) *image.Gray {
	gray := toGray(imaging.Grayscale(img))
	t := otsuThreshold(gray)

	b := gray.Bounds()
	bin := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if gray.GrayAt(x, y).Y > t {
				bin.SetGray(x, y, color.Gray{Y: 255})
			} else {
				bin.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return bin
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g.Set(x, y, img.At(x, y))
		}
	}
	return g
}

// otsuThreshold picks the threshold that maximizes between-class variance
// over the 256-bin intensity histogram.
func otsuThreshold(img *image.Gray) uint8 {
	var hist [256]int
	total := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			hist[img.GrayAt(x, y).Y]++
			total++
		}
	}
	if total == 0 {
		return 127
	}

	var sum float64
	for i, n := range hist {
		sum += float64(i) * float64(n)
	}

	var sumB, wB float64
	var maxVar float64
	var threshold uint8
	for i := 0; i < 256; i++ {
		wB += float64(hist[i])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(i) * float64(hist[i])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > maxVar {
			maxVar = between
			threshold = uint8(i)
		}
	}
	return threshold
}
