package main_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/japaniel/pdf2words/pkg/textcache"
)

func buildCLI(t *testing.T, dir string) string {
	t.Helper()
	bin := filepath.Join(dir, "pdf2words.bin")
	build := exec.Command("go", "build", "-o", bin, "github.com/japaniel/pdf2words/cmd/pdf2words")
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("failed to build CLI: %v", err)
	}
	return bin
}

func TestCLI_OfflineWithCachedText(t *testing.T) {
	tmp := t.TempDir()
	dataDir := filepath.Join(tmp, "data")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		t.Fatalf("mkdir data dir: %v", err)
	}

	// Seed the recognition cache so the run never needs poppler or
	// tesseract: a cache hit skips rasterization and recognition entirely.
	blob := textcache.Join([]textcache.PageText{
		{Page: 1, Text: "the cat sat"},
		{Page: 2, Text: "the dog ran"},
	})
	cachePath := filepath.Join(dataDir, "book.all.txt")
	if err := os.WriteFile(cachePath, []byte(blob.String()), 0644); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	knownPath := filepath.Join(dataDir, ".KNOWN_WORDS.txt")
	if err := os.WriteFile(knownPath, []byte("the\n"), 0644); err != nil {
		t.Fatalf("seed known words: %v", err)
	}

	bin := buildCLI(t, tmp)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, bin, "extract", filepath.Join(tmp, "book.pdf"), "-d", dataDir)
	// cat -> known, sat -> unknown, dog -> unknown, ran -> known
	cmd.Stdin = strings.NewReader("k\nu\nu\nk\n")
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		t.Fatalf("cli timed out, output:\n%s", out)
	}
	if err != nil {
		t.Fatalf("cli failed: %v\noutput:\n%s", err, out)
	}

	outStr := string(out)
	if !strings.Contains(outStr, "recognized text: cached") {
		t.Fatalf("expected cache hit in output, got:\n%s", outStr)
	}
	if !strings.Contains(outStr, "newly known: 2, newly unknown: 2") {
		t.Fatalf("expected classification counts in output, got:\n%s", outStr)
	}

	known, err := os.ReadFile(knownPath)
	if err != nil {
		t.Fatalf("read known words: %v", err)
	}
	for _, w := range []string{"the", "cat", "ran"} {
		if !strings.Contains(string(known), w) {
			t.Errorf("expected %q in known words, got:\n%s", w, known)
		}
	}

	records, err := os.ReadFile(filepath.Join(dataDir, "book.csv"))
	if err != nil {
		t.Fatalf("read records: %v", err)
	}
	if !strings.Contains(string(records), "sat") || !strings.Contains(string(records), "dog") {
		t.Errorf("expected sat and dog in records, got:\n%s", records)
	}

	wordsList, err := os.ReadFile(filepath.Join(dataDir, "book.words"))
	if err != nil {
		t.Fatalf("read word list: %v", err)
	}
	if string(wordsList) != "dog\nsat\n" {
		t.Errorf("expected sorted word list, got %q", wordsList)
	}
}

func TestCLI_MissingDocumentFails(t *testing.T) {
	tmp := t.TempDir()
	bin := buildCLI(t, tmp)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, bin, "extract", filepath.Join(tmp, "absent.pdf"), "-d", filepath.Join(tmp, "data"))
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("expected failure for missing document, output:\n%s", out)
	}
	if !strings.Contains(string(out), "unreadable") {
		t.Fatalf("expected unreadable-source error, got:\n%s", out)
	}
}
