package recognize

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract implements Engine using the gosseract client. Each Recognize call
// uses a fresh client, so the engine is safe to share across goroutines.
type Tesseract struct {
	// PageSegMode is Tesseract's page segmentation mode. 6 ("assume a single
	// uniform block of text") suits full book pages; 0 keeps the engine
	// default.
	PageSegMode int

	clientFactory func() *gosseract.Client
}

// NewTesseract constructs the default Tesseract engine configured for book
// pages.
func NewTesseract() *Tesseract {
	return &Tesseract{PageSegMode: 6, clientFactory: gosseract.NewClient}
}

func (t *Tesseract) Name() string { return "tesseract" }

// Recognize runs OCR over a single page image.
func (t *Tesseract) Recognize(ctx context.Context, in Input) (Result, error) {
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	default:
	}

	factory := t.clientFactory
	if factory == nil {
		factory = gosseract.NewClient
	}
	c := factory()
	defer c.Close()

	if err := c.SetImageFromBytes(in.Image); err != nil {
		return Result{}, fmt.Errorf("set image for page %d: %w", in.Page, err)
	}
	if len(in.Languages) > 0 {
		if err := c.SetLanguage(in.Languages...); err != nil {
			return Result{}, fmt.Errorf("set languages: %w", err)
		}
	}
	if in.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), strconv.Itoa(in.DPI)); err != nil {
			return Result{}, fmt.Errorf("set dpi: %w", err)
		}
	}
	if t.PageSegMode > 0 {
		c.SetPageSegMode(gosseract.PageSegMode(t.PageSegMode))
	}
	for k, v := range in.Variables {
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return Result{}, fmt.Errorf("set variable %s: %w", k, err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return Result{}, fmt.Errorf("recognize page %d: %w", in.Page, err)
	}
	return Result{Page: in.Page, Text: strings.TrimSpace(text)}, nil
}
