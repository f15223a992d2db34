package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitDocument_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	split, err := SplitDocument(input)
	require.NoError(t, err)
	require.False(t, split.Had)
	require.Empty(t, split.Raw)
	require.Equal(t, input, split.Body)
	require.Zero(t, split.BodyLine)
}

func TestSplitDocument_YAMLFrontmatter_SplitsAndCountsLines(t *testing.T) {
	input := []byte("---\nkey: value\ntags: [a]\n---\n# Title\n")

	split, err := SplitDocument(input)
	require.NoError(t, err)
	require.True(t, split.Had)
	require.Equal(t, []byte("key: value\ntags: [a]\n"), split.Raw)
	require.Equal(t, []byte("# Title\n"), split.Body)
	require.Equal(t, 4, split.BodyLine)
}

func TestSplitDocument_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	input := []byte("---\nkey: value\n# Title\n")

	split, err := SplitDocument(input)
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
	require.False(t, split.Had)
}

func TestSplitDocument_CRLF(t *testing.T) {
	input := []byte("---\r\nkey: value\r\n---\r\n# Title\r\n")

	split, err := SplitDocument(input)
	require.NoError(t, err)
	require.True(t, split.Had)
	require.Equal(t, []byte("key: value\r\n"), split.Raw)
	require.Equal(t, []byte("# Title\r\n"), split.Body)
	require.Equal(t, 3, split.BodyLine)
}

func TestSplitDocument_EmptyFrontmatterBlock(t *testing.T) {
	split, err := SplitDocument([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, split.Had)
	require.Empty(t, split.Raw)
	require.Equal(t, []byte("# Title\n"), split.Body)
	require.Equal(t, 2, split.BodyLine)
}

func TestSplitDocument_ClosingDelimiterAtEOF(t *testing.T) {
	split, err := SplitDocument([]byte("---\nkey: value\n---"))
	require.NoError(t, err)
	require.True(t, split.Had)
	require.Equal(t, []byte("key: value\n"), split.Raw)
	require.Empty(t, split.Body)
}

func TestSplit_Fields(t *testing.T) {
	split, err := SplitDocument([]byte("---\nuid: abc\ntags:\n  - one\n---\nbody"))
	require.NoError(t, err)

	fields, err := split.Fields()
	require.NoError(t, err)
	require.Equal(t, "abc", fields["uid"])
	require.Equal(t, []any{"one"}, fields["tags"])

	none, err := Split{}.Fields()
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestParseYAML_InvalidYAML_ReturnsError(t *testing.T) {
	_, err := ParseYAML([]byte(": not yaml"))
	require.Error(t, err)
}

func TestSplitDocument_EmptyFrontmatterAtEOF(t *testing.T) {
	for _, input := range []string{"---\n---", "---\r\n---"} {
		split, err := SplitDocument([]byte(input))
		require.NoError(t, err, "input %q", input)
		assert.True(t, split.Had)
		assert.Empty(t, split.Raw)
		assert.Empty(t, split.Body)
		assert.Equal(t, 2, split.BodyLine)
	}
}
