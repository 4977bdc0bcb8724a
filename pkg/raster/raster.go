// Package raster converts PDF pages into page images suitable for OCR. It
// shells out to the poppler tools (pdftoppm, pdfinfo), which keeps the module
// free of native PDF rendering code.
package raster

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrSourceUnreadable means the document cannot be opened or rendered at
	// all. Callers treat it as fatal before any page processing happens.
	ErrSourceUnreadable = errors.New("source document unreadable")

	// ErrPageOutOfRange means a requested page exceeds the document's page
	// count. Per-page, non-fatal: remaining valid pages are still processed.
	ErrPageOutOfRange = errors.New("page out of range")
)

// Rasterizer renders pages of a single PDF document. Rendered page images are
// ephemeral: produced here, consumed by recognition, then discarded.
type Rasterizer struct {
	Path string
	// DPI for rendering; 0 means DefaultDPI.
	DPI int
	// Preprocess disables the OCR preprocessing pass when false is desired;
	// it defaults to on via New.
	Preprocess bool
	// Logger is used for informational messages. nil means no logging.
	Logger *log.Logger
}

// DefaultDPI is the rendering resolution used when none is configured. 300 is
// the resolution Tesseract's own docs recommend for book scans.
const DefaultDPI = 300

// New returns a Rasterizer for the given PDF with preprocessing enabled.
func New(path string, dpi int) *Rasterizer {
	return &Rasterizer{Path: path, DPI: dpi, Preprocess: true}
}

func (r *Rasterizer) dpi() int {
	if r.DPI <= 0 {
		return DefaultDPI
	}
	return r.DPI
}

func (r *Rasterizer) logf(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}

// PageCount reads the document's total page count via pdfinfo.
func (r *Rasterizer) PageCount(ctx context.Context) (int, error) {
	if _, err := os.Stat(r.Path); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrSourceUnreadable, r.Path, err)
	}
	cmd := exec.CommandContext(ctx, "pdfinfo", r.Path)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("%w: pdfinfo %s: %v", ErrSourceUnreadable, r.Path, err)
	}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "Pages:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 {
			if total, convErr := strconv.Atoi(fields[1]); convErr == nil {
				return total, nil
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("%w: pdfinfo reported no page count for %s", ErrSourceUnreadable, r.Path)
}

// RenderPage renders a single page and returns its preprocessed PNG bytes.
// Rendering is deterministic and side-effect-free: each call uses a fresh
// temporary directory, removed before returning, so a page sequence is freely
// restartable.
func (r *Rasterizer) RenderPage(ctx context.Context, page int) ([]byte, error) {
	workDir, err := os.MkdirTemp("", "pdf2words-raster-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(workDir)
	return r.renderPage(ctx, workDir, page)
}

func (r *Rasterizer) renderPage(ctx context.Context, workDir string, page int) ([]byte, error) {
	prefix := filepath.Join(workDir, fmt.Sprintf("page-%d", page))
	args := []string{
		"-png",
		"-gray",
		"-r", strconv.Itoa(r.dpi()),
		"-f", strconv.Itoa(page),
		"-l", strconv.Itoa(page),
		r.Path, prefix,
	}
	cmd := exec.CommandContext(ctx, "pdftoppm", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: pdftoppm page %d: %v (%s)", ErrSourceUnreadable, page, err, strings.TrimSpace(stderr.String()))
	}

	path, err := findRenderedImage(prefix, page)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !r.Preprocess {
		return data, nil
	}
	processed, err := PreprocessPNG(data)
	if err != nil {
		// Preprocessing failures are not worth losing the page over; the raw
		// render still OCRs, just less reliably.
		r.logf("preprocess page %d: %v (using raw render)", page, err)
		return data, nil
	}
	return processed, nil
}

// findRenderedImage locates pdftoppm's output for a page. pdftoppm pads the
// page number in the file name to the width of the document's last page, so
// several paddings have to be probed.
func findRenderedImage(prefix string, page int) (string, error) {
	for width := 1; width <= 6; width++ {
		candidate := fmt.Sprintf("%s-%0*d.png", prefix, width, page)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
	}
	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return "", err
	}
	for _, match := range matches {
		if pageNumberFromName(match) == page {
			return match, nil
		}
	}
	return "", fmt.Errorf("rendered image not found for page %d", page)
}

func pageNumberFromName(path string) int {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	idx := strings.LastIndex(base, "-")
	if idx < 0 {
		return 0
	}
	n, err := strconv.Atoi(base[idx+1:])
	if err != nil {
		return 0
	}
	return n
}
