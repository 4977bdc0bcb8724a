// Package recognize defines a small, provider-agnostic contract for optical
// text recognition over page images, plus the default Tesseract-backed engine.
// Engines may be backed by native libraries or test doubles without leaking
// provider specifics into callers.
package recognize

import "context"

// Input is a single page image submitted for recognition.
type Input struct {
	// Page is the 1-based page number the image came from, echoed back in the
	// Result for correlation.
	Page int
	// Image is the PNG-encoded page bitmap.
	Image []byte
	// Languages holds trained-data hints (e.g. "eng"). Empty means the
	// engine's default.
	Languages []string
	// DPI carries the render resolution; zero means unknown.
	DPI int
	// Variables passes engine-specific knobs (e.g. Tesseract's
	// "tessedit_pageseg_mode") without widening the API.
	Variables map[string]string
}

// Result is the recognized text of one page. Empty text is a valid result,
// not an error: blank pages recognize to nothing.
type Result struct {
	Page int
	Text string
}

// Engine recognizes text in one page image. Implementations are not required
// to be byte-for-byte deterministic across versions; callers cache results and
// never re-invoke recognition for a cached page.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, in Input) (Result, error)
}
