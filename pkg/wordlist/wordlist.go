// Package wordlist loads plain newline-delimited word lists. Lists serve two
// roles in the pipeline: an optional reference dictionary that filters OCR
// noise down to real words, and per-book ignore lists of already-collected
// vocabulary.
package wordlist

import (
	"bufio"
	"os"
	"strings"
)

// List is an in-memory word set with case-insensitive membership.
type List struct {
	words map[string]struct{}
}

// Load reads a newline-delimited word list. Blank lines and leading/trailing
// whitespace are ignored; words are lowercased.
func Load(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	l := &List{words: make(map[string]struct{})}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word == "" {
			continue
		}
		l.words[word] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return l, nil
}

// FromWords builds a list directly from words, mainly for tests.
func FromWords(words ...string) *List {
	l := &List{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		l.words[strings.ToLower(w)] = struct{}{}
	}
	return l
}

// Contains reports membership. A nil list contains nothing.
func (l *List) Contains(word string) bool {
	if l == nil {
		return false
	}
	_, ok := l.words[strings.ToLower(word)]
	return ok
}

// Len returns the number of distinct words. A nil list has length 0.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.words)
}

// Words returns the set as a map usable as an ignore set.
func (l *List) Words() map[string]struct{} {
	if l == nil {
		return nil
	}
	return l.words
}
