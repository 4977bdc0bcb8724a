package recognize

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTesseractName(t *testing.T) {
	assert.Equal(t, "tesseract", NewTesseract().Name())
}

func TestTesseractHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A canceled context must be detected before any client is created, so no
	// native Tesseract installation is needed for this test.
	eng := &Tesseract{}
	_, err := eng.Recognize(ctx, Input{Page: 1, Image: []byte("png")})
	assert.ErrorIs(t, err, context.Canceled)
}
