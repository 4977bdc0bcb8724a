package words

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/pdf2words/pkg/textcache"
	"github.com/japaniel/pdf2words/pkg/wordlist"
)

func ignoreSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

func TestExtractTwoPageBook(t *testing.T) {
	pages := []textcache.PageText{
		{Page: 1, Text: "the cat sat"},
		{Page: 2, Text: "the dog ran"},
	}
	tok := &Tokenizer{}

	got := tok.Extract(pages, ignoreSet("the"))

	require.Len(t, got, 4)
	assert.Equal(t, Candidate{Word: "cat", Sentence: "the cat sat", Page: 1}, got[0])
	assert.Equal(t, Candidate{Word: "sat", Sentence: "the cat sat", Page: 1}, got[1])
	assert.Equal(t, Candidate{Word: "dog", Sentence: "the dog ran", Page: 2}, got[2])
	assert.Equal(t, Candidate{Word: "ran", Sentence: "the dog ran", Page: 2}, got[3])
}

func TestExtractFirstOccurrenceWins(t *testing.T) {
	pages := []textcache.PageText{
		{Page: 1, Text: "a shiny rocket. the rocket flew away."},
	}
	tok := &Tokenizer{}

	got := tok.Extract(pages, nil)

	require.NotEmpty(t, got)
	assert.Equal(t, "shiny", got[0].Word)
	assert.Equal(t, "a shiny rocket", got[0].Sentence)

	seen := map[string]int{}
	for _, c := range got {
		seen[c.Word]++
	}
	assert.Equal(t, 1, seen["rocket"], "duplicates collapse to first occurrence")
	assert.Equal(t, "a shiny rocket", candidateByWord(t, got, "rocket").Sentence)
}

func candidateByWord(t *testing.T, cs []Candidate, word string) Candidate {
	t.Helper()
	for _, c := range cs {
		if c.Word == word {
			return c
		}
	}
	t.Fatalf("candidate %q not found", word)
	return Candidate{}
}

func TestExtractFilters(t *testing.T) {
	pages := []textcache.PageText{
		{Page: 3, Text: "Geronimo yelled woooowww at 3000 mice, ow! five gizmos."},
	}
	tok := &Tokenizer{}

	got := tok.Extract(pages, nil)

	words := make([]string, 0, len(got))
	for _, c := range got {
		words = append(words, c.Word)
	}
	assert.NotContains(t, words, "geronimo", "title-case proper noun")
	assert.NotContains(t, words, "woooowww", "repeated-rune OCR artifact")
	assert.NotContains(t, words, "3000", "digits")
	assert.NotContains(t, words, "ow", "below minimum length")
	assert.NotContains(t, words, "five", "number word")
	assert.Contains(t, words, "yelled")
	assert.Contains(t, words, "mice")
	assert.Contains(t, words, "gizmos")
}

func TestExtractReferenceList(t *testing.T) {
	pages := []textcache.PageText{
		{Page: 1, Text: "the vat sat qzx"},
	}
	tok := &Tokenizer{Reference: wordlist.FromWords("the", "sat", "vat")}

	got := tok.Extract(pages, ignoreSet("the"))

	words := make([]string, 0, len(got))
	for _, c := range got {
		words = append(words, c.Word)
	}
	assert.Equal(t, []string{"vat", "sat"}, words)
}

func TestExtractCleansOCRWhitespace(t *testing.T) {
	pages := []textcache.PageText{
		{Page: 9, Text: "spaceship\n  controls   hummed.\r\nNothing else."},
	}
	tok := &Tokenizer{}

	got := tok.Extract(pages, nil)

	c := candidateByWord(t, got, "spaceship")
	assert.Equal(t, "spaceship controls hummed", c.Sentence)
}

func TestExtractDeterminism(t *testing.T) {
	pages := []textcache.PageText{
		{Page: 1, Text: "cosmic cheese melts. cosmic rays hum. cheese wins."},
	}
	tok := &Tokenizer{}
	ignore := ignoreSet("wins")

	first := tok.Extract(pages, ignore)
	second := tok.Extract(pages, ignore)
	assert.Equal(t, first, second)
}
