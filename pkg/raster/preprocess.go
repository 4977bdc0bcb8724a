package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
)

// threshold separates ink from paper in the grayscale render. Pixels at or
// below it become black, everything else white.
const threshold = 150

// minOCRWidth is the narrowest page width fed to recognition. Renders below
// it (low DPI sources) are upscaled, which measurably helps Tesseract on
// small print.
const minOCRWidth = 1200

// PreprocessPNG prepares a rendered page for recognition: grayscale, binary
// threshold, and an upscale when the render is too small.
func PreprocessPNG(data []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode render: %w", err)
	}

	out := binarize(img)
	if out.Bounds().Dx() < minOCRWidth {
		out = upscale(out, minOCRWidth)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode processed page: %w", err)
	}
	return buf.Bytes(), nil
}

func binarize(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			if g.Y <= threshold {
				out.SetGray(x, y, color.Gray{Y: 0})
			} else {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}

func upscale(img *image.Gray, targetWidth int) *image.Gray {
	b := img.Bounds()
	scale := float64(targetWidth) / float64(b.Dx())
	dst := image.NewGray(image.Rect(0, 0, targetWidth, int(float64(b.Dy())*scale)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
