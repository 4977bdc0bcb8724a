// Package store persists the vocabulary artifacts: the known-word list shared
// across books, the per-book unknown-word records (word, translation, example
// sentence) and the per-book plain word list consumed by the deck builder.
// All appends are durable before the call returns; a word is only ever
// appended to one of the known or unknown stores.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/japaniel/pdf2words/pkg/wordlist"
)

const (
	// KnownFileName is shared by every book processed against the same data
	// directory, so known vocabulary carries over between books.
	KnownFileName = ".KNOWN_WORDS.txt"

	lockFileName = ".pdf2words.lock"
)

var (
	// ErrStoreBusy means another process holds the store lock. Fatal: the
	// run must not risk interleaved writes.
	ErrStoreBusy = errors.New("vocabulary store is in use")

	// ErrStoreCorrupt means a persisted artifact fails to parse. Fatal; the
	// operator repairs the file manually, there is no auto-repair.
	ErrStoreCorrupt = errors.New("vocabulary store is corrupt")
)

// Record is one unknown word with its optional translation and the example
// sentence from the text where the word first occurred.
type Record struct {
	Word        string
	Translation string
	Sentence    string
}

// Store is the on-disk vocabulary store for one book inside a data directory.
// Open acquires an exclusive lock for the whole run; Close releases it.
type Store struct {
	dir  string
	book string

	lockPath string
	// Logger is used for informational messages. nil means no logging.
	Logger *log.Logger
}

// Open locks the data directory and returns a store for the given book name
// (the document identity). A held lock yields ErrStoreBusy.
func Open(dir, book string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	lockPath := filepath.Join(dir, lockFileName)
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			holder, _ := os.ReadFile(lockPath)
			return nil, fmt.Errorf("%w: lock %s held by %s", ErrStoreBusy, lockPath, strings.TrimSpace(string(holder)))
		}
		return nil, err
	}
	fmt.Fprintf(f, "%s pid=%d\n", uuid.NewString(), os.Getpid())
	if err := f.Close(); err != nil {
		os.Remove(lockPath)
		return nil, err
	}
	return &Store{dir: dir, book: book, lockPath: lockPath}, nil
}

// Close releases the store lock.
func (s *Store) Close() error {
	if s.lockPath == "" {
		return nil
	}
	err := os.Remove(s.lockPath)
	s.lockPath = ""
	return err
}

func (s *Store) logf(format string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}

// KnownPath returns the known-word list path.
func (s *Store) KnownPath() string { return filepath.Join(s.dir, KnownFileName) }

// RecordsPath returns the unknown-word records (CSV) path for this book.
func (s *Store) RecordsPath() string { return filepath.Join(s.dir, s.book+".csv") }

// WordListPath returns the plain unknown word list path for this book.
func (s *Store) WordListPath() string { return filepath.Join(s.dir, s.book+".words") }

// KnownWords loads the known-word set, deduplicated and lowercased. A missing
// file is an empty set.
func (s *Store) KnownWords() (*wordlist.List, error) {
	l, err := wordlist.Load(s.KnownPath())
	if err != nil {
		if os.IsNotExist(err) {
			return wordlist.FromWords(), nil
		}
		return nil, err
	}
	return l, nil
}

// AppendKnown durably appends one word to the known-word list. The list is
// append-only; duplicates collapse on read.
func (s *Store) AppendKnown(word string) error {
	return s.appendLine(s.KnownPath(), strings.ToLower(strings.TrimSpace(word)))
}

func (s *Store) appendLine(path, line string) error {
	if line == "" {
		return fmt.Errorf("word must be non-empty")
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteString(line + "\n"); err != nil {
		return err
	}
	return f.Sync()
}

// Records loads this book's unknown-word records. A missing file is an empty
// set; a file that fails to parse is ErrStoreCorrupt.
func (s *Store) Records() ([]Record, error) {
	f, err := os.Open(s.RecordsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 3
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStoreCorrupt, s.RecordsPath(), err)
	}
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Record{Word: row[0], Translation: row[1], Sentence: row[2]})
	}
	return records, nil
}

// RecordWords returns the set of words already present in the records file.
func (s *Store) RecordWords() (map[string]struct{}, error) {
	records, err := s.Records()
	if err != nil {
		return nil, err
	}
	words := make(map[string]struct{}, len(records))
	for _, rec := range records {
		words[strings.ToLower(rec.Word)] = struct{}{}
	}
	return words, nil
}

// AppendRecord durably appends one unknown-word record.
func (s *Store) AppendRecord(rec Record) error {
	if strings.TrimSpace(rec.Word) == "" {
		return fmt.Errorf("record word must be non-empty")
	}
	f, err := os.OpenFile(s.RecordsPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{rec.Word, rec.Translation, rec.Sentence}); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Sync()
}

// ExportWordList writes the sorted unknown word list artifact for the deck
// builder and returns its path.
func (s *Store) ExportWordList() (string, error) {
	words, err := s.RecordWords()
	if err != nil {
		return "", err
	}
	sorted := make([]string, 0, len(words))
	for w := range words {
		sorted = append(sorted, w)
	}
	sort.Strings(sorted)

	var b strings.Builder
	for _, w := range sorted {
		b.WriteString(w)
		b.WriteByte('\n')
	}
	path := s.WordListPath()
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", err
	}
	s.logf("exported %d words to %s", len(sorted), path)
	return path, nil
}

// OtherBookWords gathers the word lists of other books in the same data
// directory. Words already collected for another book are not re-offered.
func (s *Store) OtherBookWords() (map[string]struct{}, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.words"))
	if err != nil {
		return nil, err
	}
	words := make(map[string]struct{})
	for _, match := range matches {
		if match == s.WordListPath() {
			continue
		}
		l, err := wordlist.Load(match)
		if err != nil {
			return nil, err
		}
		s.logf("found %d words from other book list %s", l.Len(), filepath.Base(match))
		for w := range l.Words() {
			words[w] = struct{}{}
		}
	}
	return words, nil
}
