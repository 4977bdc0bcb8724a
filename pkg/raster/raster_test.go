package raster

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRenderedImagePaddedNames(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "page-7")

	// pdftoppm pads to the width of the last page number.
	path := prefix + "-007.png"
	require.NoError(t, os.WriteFile(path, []byte("png"), 0644))

	got, err := findRenderedImage(prefix, 7)
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestFindRenderedImageMissing(t *testing.T) {
	dir := t.TempDir()
	_, err := findRenderedImage(filepath.Join(dir, "page-3"), 3)
	assert.Error(t, err)
}

func TestPageNumberFromName(t *testing.T) {
	assert.Equal(t, 12, pageNumberFromName("/tmp/x/page-12-0012.png"))
	assert.Equal(t, 5, pageNumberFromName("page-5.png"))
	assert.Equal(t, 0, pageNumberFromName("noindex.png"))
}

func TestPreprocessPNGBinarizes(t *testing.T) {
	// Left half ink (120, below the threshold), right half paper (200, above).
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			v := uint8(200)
			if x < 2 {
				v = 120
			}
			src.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	out, err := PreprocessPNG(buf.Bytes())
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	// The tiny source gets upscaled; sample well inside each half so bilinear
	// blending at the seam does not matter.
	bounds := img.Bounds()
	assert.Equal(t, minOCRWidth, bounds.Dx())

	left := color.GrayModel.Convert(img.At(bounds.Min.X+10, bounds.Min.Y+10)).(color.Gray)
	assert.Equal(t, uint8(0), left.Y, "ink half should be black")

	right := color.GrayModel.Convert(img.At(bounds.Max.X-10, bounds.Min.Y+10)).(color.Gray)
	assert.Equal(t, uint8(255), right.Y, "paper half should be white")
}

func TestPreprocessPNGRejectsGarbage(t *testing.T) {
	_, err := PreprocessPNG([]byte("not a png"))
	assert.Error(t, err)
}

func TestPageCountMissingFile(t *testing.T) {
	r := New(filepath.Join(t.TempDir(), "missing.pdf"), 0)
	_, err := r.PageCount(context.Background())
	assert.ErrorIs(t, err, ErrSourceUnreadable)
}
