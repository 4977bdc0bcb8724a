// Package textcache persists recognized text so OCR work is never repeated.
// One cache entry covers one (document, page range) configuration: a single
// plain-text blob with recoverable page-boundary markers.
package textcache

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Key identifies one cached blob. The page range is part of the key because
// the blob holds the concatenated text of the whole requested range, not of
// individual pages.
type Key struct {
	DocumentID string
	// PageRange is the canonical rendering of the requested range ("all" or
	// e.g. "16-241").
	PageRange string
}

// fileName derives the on-disk name for the key. The range tag keeps entries
// for different range configurations of the same document apart.
func (k Key) fileName() string {
	tag := strings.ReplaceAll(k.PageRange, ",", "_")
	if tag == "" {
		tag = "all"
	}
	return fmt.Sprintf("%s.%s.txt", k.DocumentID, tag)
}

// PageText is the recognized text of a single page.
type PageText struct {
	Page int
	Text string
}

// Page blocks inside a blob are introduced by a marker line. The leading form
// feed cannot occur in whitespace-cleaned OCR output, so markers are always
// recoverable.
const markerPrefix = "\f=== page "
const markerSuffix = " ===\n"

// Blob is one cached recognition result, re-readable either as a single text
// or as per-page texts.
type Blob struct {
	raw string
}

// Join builds a blob from per-page texts. Pages must already be in ascending
// order.
func Join(pages []PageText) Blob {
	var b strings.Builder
	for _, p := range pages {
		b.WriteString(markerPrefix)
		b.WriteString(strconv.Itoa(p.Page))
		b.WriteString(markerSuffix)
		b.WriteString(p.Text)
		if !strings.HasSuffix(p.Text, "\n") {
			b.WriteByte('\n')
		}
	}
	return Blob{raw: b.String()}
}

// String returns the blob as one concatenated text, markers included.
func (b Blob) String() string { return b.raw }

// IsEmpty reports whether the blob holds no pages at all.
func (b Blob) IsEmpty() bool { return b.raw == "" }

// Pages splits the blob back into per-page texts using the boundary markers,
// so downstream sentence extraction can attribute text to a page.
func (b Blob) Pages() []PageText {
	var pages []PageText
	blocks := strings.Split(b.raw, markerPrefix)
	for _, block := range blocks {
		if block == "" {
			continue
		}
		head, body, ok := strings.Cut(block, markerSuffix)
		if !ok {
			continue
		}
		page, err := strconv.Atoi(strings.TrimSpace(head))
		if err != nil {
			continue
		}
		pages = append(pages, PageText{Page: page, Text: strings.TrimSuffix(body, "\n")})
	}
	return pages
}

// Cache stores blobs as plain-text files in a directory.
type Cache struct {
	Dir string
	// Logger is used for informational messages. nil means no logging.
	Logger *log.Logger
}

// New returns a Cache rooted at dir.
func New(dir string) *Cache { return &Cache{Dir: dir} }

func (c *Cache) logf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}

// Path returns the file path backing the given key.
func (c *Cache) Path(key Key) string {
	return filepath.Join(c.Dir, key.fileName())
}

// GetOrCompute returns the cached blob for key, computing and persisting it
// first on a miss. The returned bool reports a cache hit. On a miss the blob
// is written durably (temp file, fsync, rename) before the call returns, so a
// reader never observes a partial entry; a crash before the rename simply
// re-triggers recognition on the next run.
func (c *Cache) GetOrCompute(key Key, compute func() ([]PageText, error)) (Blob, bool, error) {
	path := c.Path(key)
	if data, err := os.ReadFile(path); err == nil {
		c.logf("using cached text %s", path)
		return Blob{raw: string(data)}, true, nil
	} else if !os.IsNotExist(err) {
		return Blob{}, false, fmt.Errorf("read cache %s: %w", path, err)
	}

	pages, err := compute()
	if err != nil {
		return Blob{}, false, err
	}
	blob := Join(pages)
	if err := c.write(path, blob); err != nil {
		return Blob{}, false, err
	}
	return blob, false, nil
}

func (c *Cache) write(path string, blob Blob) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".cache-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(blob.raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	c.logf("cached recognized text at %s", path)
	return nil
}
