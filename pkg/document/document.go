package document

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Document identifies the source PDF for one run. It is immutable once a run
// starts; all derived artifact names come from the file's base name so that
// moving the file elsewhere with the same name resolves to the same artifacts.
type Document struct {
	Path string
}

// New returns a Document for the given file path.
func New(path string) Document {
	return Document{Path: path}
}

// ID is the stable identity of the document: the base file name without its
// extension. It keys the recognition cache and names the per-book artifacts.
func (d Document) ID() string {
	base := filepath.Base(d.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Span is an inclusive range of 1-based page numbers.
type Span struct {
	First int
	Last  int
}

// PageRange is an ordered, non-overlapping set of page spans. The zero value
// selects all pages.
type PageRange struct {
	spans []Span
}

// ParsePageRange parses a range expression such as "16-241", "3,7,10-12" or
// "" (all pages). Spans are sorted ascending and overlapping or adjacent spans
// are merged, so equivalent expressions share one canonical form.
func ParsePageRange(s string) (PageRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PageRange{}, nil
	}

	var spans []Span
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return PageRange{}, fmt.Errorf("page range %q: empty segment", s)
		}
		first, last, err := parseSpan(part)
		if err != nil {
			return PageRange{}, fmt.Errorf("page range %q: %w", s, err)
		}
		spans = append(spans, Span{First: first, Last: last})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].First < spans[j].First })

	// Merge overlapping and adjacent spans.
	merged := spans[:1]
	for _, sp := range spans[1:] {
		top := &merged[len(merged)-1]
		if sp.First <= top.Last+1 {
			if sp.Last > top.Last {
				top.Last = sp.Last
			}
			continue
		}
		merged = append(merged, sp)
	}

	return PageRange{spans: merged}, nil
}

func parseSpan(part string) (int, int, error) {
	if first, last, ok := strings.Cut(part, "-"); ok {
		lo, err := parsePageNumber(first)
		if err != nil {
			return 0, 0, err
		}
		hi, err := parsePageNumber(last)
		if err != nil {
			return 0, 0, err
		}
		if hi < lo {
			return 0, 0, fmt.Errorf("span %q is descending", part)
		}
		return lo, hi, nil
	}
	n, err := parsePageNumber(part)
	if err != nil {
		return 0, 0, err
	}
	return n, n, nil
}

func parsePageNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid page number %q", s)
	}
	if n < 1 {
		return 0, fmt.Errorf("page numbers are 1-based, got %d", n)
	}
	return n, nil
}

// IsAll reports whether the range selects every page of the document.
func (r PageRange) IsAll() bool { return len(r.spans) == 0 }

// Contains reports whether page n is selected by the range.
func (r PageRange) Contains(n int) bool {
	if r.IsAll() {
		return true
	}
	for _, sp := range r.spans {
		if n >= sp.First && n <= sp.Last {
			return true
		}
	}
	return false
}

// Max returns the highest selected page number, or 0 for an all-pages range.
func (r PageRange) Max() int {
	if r.IsAll() {
		return 0
	}
	return r.spans[len(r.spans)-1].Last
}

// Pages expands the range into ascending page numbers, clipped to a document
// with total pages. Selected pages beyond total are returned separately so the
// caller can report them as skipped.
func (r PageRange) Pages(total int) (pages, outOfRange []int) {
	if r.IsAll() {
		for n := 1; n <= total; n++ {
			pages = append(pages, n)
		}
		return pages, nil
	}
	for _, sp := range r.spans {
		for n := sp.First; n <= sp.Last; n++ {
			if n > total {
				outOfRange = append(outOfRange, n)
				continue
			}
			pages = append(pages, n)
		}
	}
	return pages, outOfRange
}

// String renders the canonical form of the range ("all" for the zero value).
// The canonical form is part of the recognition cache key, so equal ranges
// must always render identically.
func (r PageRange) String() string {
	if r.IsAll() {
		return "all"
	}
	parts := make([]string, 0, len(r.spans))
	for _, sp := range r.spans {
		if sp.First == sp.Last {
			parts = append(parts, strconv.Itoa(sp.First))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", sp.First, sp.Last))
		}
	}
	return strings.Join(parts, ",")
}
