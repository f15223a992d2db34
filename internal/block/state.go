package block

import (
	"strings"
)

// ContainerKind identifies the construct a nested tokenization runs inside.
// It selects the termination behaviour for descendants.
type ContainerKind string

const (
	ContainerRoot       ContainerKind = "root"
	ContainerBlockquote ContainerKind = "blockquote"
	ContainerList       ContainerKind = "list"
	ContainerParagraph  ContainerKind = "paragraph"
)

// Scope is the narrowed context a container hands to a nested tokenization.
type Scope struct {
	Kind ContainerKind
	// Indent is the column a line must reach to stay inside the container.
	Indent int
}

// State is the mutable record of one parse. Nested tokenizations share it;
// Parser.Nest swaps the Scope in and out around the recursive call.
type State struct {
	// Src is the normalized source. It never changes during a parse.
	Src string

	// Options and Env are passed through to rules untouched.
	Options any
	Env     any

	Parser *Parser
	Tokens []Token

	// BMarks and EMarks hold the byte offsets of each line's start and end
	// (end excludes the newline). TShift holds the count of leading spaces of
	// each line. Container rules may adjust BMarks and TShift for the lines
	// they own and must restore them afterwards; a negative TShift marks a
	// lazy continuation line that only a paragraph may absorb. The slices
	// carry one extra sentinel entry at index LineMax.
	BMarks []int
	EMarks []int
	TShift []int

	Line    int
	LineMax int

	// BlkIndent is the required indent of the current container.
	BlkIndent int
	// ParentType is the kind of the current container.
	ParentType ContainerKind
	// Tight is true iff no blank line preceded the latest block at this level.
	Tight bool
	// Level is the token nesting depth.
	Level int

	err error
}

// NewState splits src into lines and measures their indentation.
// src must already be normalized.
func NewState(src string, p *Parser, options, env any) *State {
	s := &State{
		Src:        src,
		Options:    options,
		Env:        env,
		Parser:     p,
		ParentType: ContainerRoot,
		Tight:      true,
	}

	n := strings.Count(src, "\n") + 2
	s.BMarks = make([]int, 0, n)
	s.EMarks = make([]int, 0, n)
	s.TShift = make([]int, 0, n)

	for start := 0; start < len(src); {
		end := strings.IndexByte(src[start:], '\n')
		if end < 0 {
			end = len(src)
		} else {
			end += start
		}
		indent := 0
		for start+indent < end && src[start+indent] == ' ' {
			indent++
		}
		s.BMarks = append(s.BMarks, start)
		s.EMarks = append(s.EMarks, end)
		s.TShift = append(s.TShift, indent)
		start = end + 1
	}

	s.LineMax = len(s.BMarks)
	s.BMarks = append(s.BMarks, len(src))
	s.EMarks = append(s.EMarks, len(src))
	s.TShift = append(s.TShift, 0)
	return s
}

// Scope returns the current container context.
func (s *State) Scope() Scope {
	return Scope{Kind: s.ParentType, Indent: s.BlkIndent}
}

// Err returns the first fatal error recorded during the parse.
func (s *State) Err() error {
	return s.err
}

// fail records err unless an earlier error is already recorded.
func (s *State) fail(err error) error {
	if s.err == nil {
		s.err = err
	}
	return s.err
}

// IsEmpty reports whether line holds nothing but spaces.
func (s *State) IsEmpty(line int) bool {
	return s.BMarks[line]+s.TShift[line] >= s.EMarks[line]
}

// SkipEmptyLines returns the first non-blank line at or after from.
func (s *State) SkipEmptyLines(from int) int {
	for from < s.LineMax && s.IsEmpty(from) {
		from++
	}
	return from
}

// SkipSpaces returns the first position at or after pos that is not a space.
func (s *State) SkipSpaces(pos int) int {
	for pos < len(s.Src) && s.Src[pos] == ' ' {
		pos++
	}
	return pos
}

// SkipSpacesBack returns the position after the last non-space before pos,
// never going below floor.
func (s *State) SkipSpacesBack(pos, floor int) int {
	for pos > floor && s.Src[pos-1] == ' ' {
		pos--
	}
	return pos
}

// SkipChars returns the first position at or after pos not holding ch.
func (s *State) SkipChars(pos int, ch byte) int {
	for pos < len(s.Src) && s.Src[pos] == ch {
		pos++
	}
	return pos
}

// SkipCharsBack returns the position after the last byte before pos that is
// not ch, never going below floor.
func (s *State) SkipCharsBack(pos int, ch byte, floor int) int {
	for pos > floor && s.Src[pos-1] == ch {
		pos--
	}
	return pos
}

// LineText returns line without its indentation and newline.
func (s *State) LineText(line int) string {
	return s.Src[s.BMarks[line]+max(s.TShift[line], 0) : s.EMarks[line]]
}

// Lines returns the source of lines [begin, end), removing up to indent
// leading spaces from each. The newline of the last line is kept only when
// keepLastLF is set.
func (s *State) Lines(begin, end, indent int, keepLastLF bool) string {
	if begin >= end {
		return ""
	}
	var b strings.Builder
	for line := begin; line < end; line++ {
		shift := min(max(s.TShift[line], 0), indent)
		first := s.BMarks[line] + shift
		last := s.EMarks[line]
		if line+1 < end || keepLastLF {
			last = min(last+1, len(s.Src))
		}
		b.WriteString(s.Src[first:last])
	}
	return b.String()
}

// Push appends a token and returns it for the caller to fill in. The pointer
// is only valid until the next Push.
//
// nesting is +1 for opening tokens, -1 for closing tokens and 0 otherwise;
// it drives Level.
func (s *State) Push(typ, tag string, nesting int) *Token {
	if nesting < 0 {
		s.Level--
	}
	s.Tokens = append(s.Tokens, Token{
		Type:    typ,
		Tag:     tag,
		Nesting: nesting,
		Level:   s.Level,
		Block:   true,
	})
	if nesting > 0 {
		s.Level++
	}
	return &s.Tokens[len(s.Tokens)-1]
}
