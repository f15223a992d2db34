package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateLineMarks(t *testing.T) {
	s := NewState("a\n  bc\n\n   \nd", nil, nil, nil)

	require.Equal(t, 5, s.LineMax)
	assert.Equal(t, []int{0, 2, 7, 8, 12, 13}, s.BMarks)
	assert.Equal(t, []int{1, 6, 7, 11, 13, 13}, s.EMarks)
	assert.Equal(t, []int{0, 2, 0, 3, 0, 0}, s.TShift)

	assert.Equal(t, ContainerRoot, s.ParentType)
	assert.True(t, s.Tight)
	assert.Zero(t, s.BlkIndent)
	assert.Zero(t, s.Line)
}

func TestNewStateTrailingNewline(t *testing.T) {
	s := NewState("a\n", nil, nil, nil)
	assert.Equal(t, 1, s.LineMax)
	assert.Equal(t, "a", s.LineText(0))

	empty := NewState("", nil, nil, nil)
	assert.Zero(t, empty.LineMax)
	assert.Len(t, empty.BMarks, 1)
}

func TestStateIsEmpty(t *testing.T) {
	s := NewState("a\n\n   \n b", nil, nil, nil)
	assert.False(t, s.IsEmpty(0))
	assert.True(t, s.IsEmpty(1))
	assert.True(t, s.IsEmpty(2))
	assert.False(t, s.IsEmpty(3))
	assert.Equal(t, 3, s.SkipEmptyLines(1))
	assert.Equal(t, 0, s.SkipEmptyLines(0))
	assert.Equal(t, 1, s.TShift[3])
}

func TestStateSkipHelpers(t *testing.T) {
	s := NewState("  ## title ##  ", nil, nil, nil)

	assert.Equal(t, 2, s.SkipSpaces(0))
	assert.Equal(t, 4, s.SkipChars(2, '#'))
	assert.Equal(t, 13, s.SkipSpacesBack(len(s.Src), 0))
	assert.Equal(t, 11, s.SkipCharsBack(13, '#', 0))
	assert.Equal(t, 12, s.SkipCharsBack(13, '#', 12), "floor bounds the scan")
}

func TestStateLines(t *testing.T) {
	s := NewState("  a\n    b\n c\nd", nil, nil, nil)

	assert.Equal(t, "a\n  b\nc", s.Lines(0, 3, 2, false))
	assert.Equal(t, "a\n  b\nc\n", s.Lines(0, 3, 2, true))
	assert.Equal(t, "  a\n    b", s.Lines(0, 2, 0, false))
	assert.Equal(t, "d", s.Lines(3, 4, 4, true), "last line without newline")
	assert.Empty(t, s.Lines(2, 2, 0, false))
}

func TestStatePushTracksLevel(t *testing.T) {
	s := NewState("x", nil, nil, nil)

	open := s.Push("blockquote_open", "blockquote", 1)
	open.Markup = ">"
	s.Push("paragraph_open", "p", 1)
	s.Push("inline", "", 0)
	s.Push("paragraph_close", "p", -1)
	s.Push("blockquote_close", "blockquote", -1)

	levels := make([]int, len(s.Tokens))
	for i, tok := range s.Tokens {
		levels[i] = tok.Level
	}
	assert.Equal(t, []int{0, 1, 2, 1, 0}, levels)
	assert.Zero(t, s.Level)
	assert.Equal(t, ">", s.Tokens[0].Markup)
}

func TestStateFailIsSticky(t *testing.T) {
	s := NewState("x", nil, nil, nil)
	first := noMatchingRule(0)
	assert.Same(t, first, s.fail(first))
	assert.Same(t, first, s.fail(stalledRule("x", 0)))
	assert.Same(t, first, s.Err())
}

func TestTokenAttrs(t *testing.T) {
	var tok Token
	_, ok := tok.Attr("start")
	assert.False(t, ok)

	tok.SetAttr("start", "3")
	tok.SetAttr("style", "text-align:left")
	tok.SetAttr("start", "4")

	v, ok := tok.Attr("start")
	assert.True(t, ok)
	assert.Equal(t, "4", v)
	assert.Len(t, tok.Attrs, 2)
}
