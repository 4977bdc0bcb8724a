package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentID(t *testing.T) {
	d := New("/books/Ice Planet Adventure.pdf")
	assert.Equal(t, "Ice Planet Adventure", d.ID())

	assert.Equal(t, "notes", New("notes.pdf").ID())
	assert.Equal(t, "archive.tar", New("archive.tar.pdf").ID())
}

func TestParsePageRangeCanonical(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "all"},
		{"16-241", "16-241"},
		{"3,7,10-12", "3,7,10-12"},
		{"10-12, 3 ,7", "3,7,10-12"},
		{"1-3,2-5", "1-5"},
		{"1,2,3", "1-3"},
		{"9", "9"},
	}
	for _, tc := range cases {
		r, err := ParsePageRange(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, r.String(), "input %q", tc.in)
	}
}

func TestParsePageRangeErrors(t *testing.T) {
	for _, in := range []string{"0", "-1", "5-3", "a-b", "1,,3", "1-"} {
		_, err := ParsePageRange(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestPageRangeContains(t *testing.T) {
	r, err := ParsePageRange("2-4,8")
	require.NoError(t, err)

	assert.True(t, r.Contains(2))
	assert.True(t, r.Contains(4))
	assert.True(t, r.Contains(8))
	assert.False(t, r.Contains(1))
	assert.False(t, r.Contains(5))

	all, err := ParsePageRange("")
	require.NoError(t, err)
	assert.True(t, all.Contains(999))
}

func TestPageRangePages(t *testing.T) {
	r, err := ParsePageRange("2-4,9-11")
	require.NoError(t, err)

	pages, skipped := r.Pages(10)
	assert.Equal(t, []int{2, 3, 4, 9, 10}, pages)
	assert.Equal(t, []int{11}, skipped)

	all := PageRange{}
	pages, skipped = all.Pages(3)
	assert.Equal(t, []int{1, 2, 3}, pages)
	assert.Empty(t, skipped)
}
