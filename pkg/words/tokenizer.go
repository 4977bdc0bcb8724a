// Package words extracts candidate vocabulary from recognized text. Tokens
// are normalized, filtered against everything the reader has already resolved,
// and annotated with the sentence they were first seen in.
package words

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/japaniel/pdf2words/pkg/textcache"
	"github.com/japaniel/pdf2words/pkg/wordlist"
)

// Candidate is a normalized token not yet classified, with the cleaned
// sentence fragment of its first occurrence for later use as an example
// sentence.
type Candidate struct {
	Word     string
	Sentence string
	Page     int
}

// DefaultMinLength is the shortest token kept as a candidate. Three letters
// keeps common content words ("cat", "run") while dropping most OCR debris.
const DefaultMinLength = 3

// Spelled-out small numbers carry no vocabulary value.
var numberWords = map[string]struct{}{
	"zero": {}, "one": {}, "two": {}, "three": {}, "four": {}, "five": {},
	"six": {}, "seven": {}, "eight": {}, "nine": {}, "ten": {}, "eleven": {},
	"twelve": {}, "thirteen": {}, "fourteen": {}, "fifteen": {}, "sixteen": {},
	"seventeen": {}, "eighteen": {}, "nineteen": {}, "twenty": {},
}

var (
	sentenceDelims = regexp.MustCompile(`[.!?]`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
	lettersOnly    = regexp.MustCompile(`^[a-zA-Z]+$`)
)

// Tokenizer turns recognized page text into an ordered candidate set. The
// zero value uses DefaultMinLength and no reference list.
type Tokenizer struct {
	// MinLength is the minimum token length kept; 0 means DefaultMinLength.
	MinLength int
	// Reference optionally restricts candidates to words present in a
	// reference word list, filtering OCR misreads. nil disables the check.
	Reference *wordlist.List
}

// Extract returns candidates in order of first occurrence. Sentences are
// bounded by '.', '!' or '?' within a page (a sentence never spans a page
// boundary) and whitespace-collapsed before capture. Given identical input
// text and ignore set, the output is identical and order-stable.
func (t *Tokenizer) Extract(pages []textcache.PageText, ignore map[string]struct{}) []Candidate {
	minLen := t.MinLength
	if minLen <= 0 {
		minLen = DefaultMinLength
	}

	var candidates []Candidate
	seen := make(map[string]struct{}, len(ignore))
	for w := range ignore {
		seen[strings.ToLower(w)] = struct{}{}
	}

	for _, page := range pages {
		for _, raw := range sentenceDelims.Split(page.Text, -1) {
			sentence := CleanSentence(raw)
			if sentence == "" {
				continue
			}
			for _, token := range strings.Fields(sentence) {
				word := cleanWord(token)
				if !t.valid(word, minLen) {
					continue
				}
				normalized := strings.ToLower(word)
				if _, dup := seen[normalized]; dup {
					continue
				}
				seen[normalized] = struct{}{}
				candidates = append(candidates, Candidate{
					Word:     normalized,
					Sentence: sentence,
					Page:     page.Page,
				})
			}
		}
	}
	return candidates
}

// CleanSentence collapses whitespace runs (including newlines left by OCR)
// into single spaces and trims the result.
func CleanSentence(s string) string {
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(s, " "))
}

// cleanWord strips punctuation and other non-word runes, keeping letters and
// digits so that digit-bearing junk still fails validation later.
func cleanWord(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// valid applies the normalization filters: minimum length, letters only,
// no long same-rune runs (OCR artifacts like "iiii"), no spelled-out small
// numbers, no title-case tokens (proper nouns), and membership in the
// reference list when one is loaded.
func (t *Tokenizer) valid(word string, minLen int) bool {
	if len(word) < minLen {
		return false
	}
	if !lettersOnly.MatchString(word) {
		return false
	}
	if hasRepeatedRun(word, 4) {
		return false
	}
	lower := strings.ToLower(word)
	if _, ok := numberWords[lower]; ok {
		return false
	}
	if isTitleCase(word) {
		return false
	}
	if t.Reference != nil && !t.Reference.Contains(lower) {
		return false
	}
	return true
}

// hasRepeatedRun reports a run of n or more identical runes.
func hasRepeatedRun(word string, n int) bool {
	var prev rune
	run := 0
	for _, r := range word {
		if r == prev {
			run++
			if run >= n {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

// isTitleCase reports an upper-case initial followed by lower-case letters,
// the shape of proper nouns in running text.
func isTitleCase(word string) bool {
	runes := []rune(word)
	if len(runes) < 2 || !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if !unicode.IsLower(r) {
			return false
		}
	}
	return true
}
