package rules

import (
	"strconv"
	"strings"

	"git.home.luguber.info/inful/mdblock/internal/block"
)

// Heading recognizes ATX headings ("# title"). A closing sequence of '#'
// is dropped when a space precedes it.
func Heading(s *block.State, startLine, _ int, silent bool) bool {
	pos, eol := lineBounds(s, startLine)
	src := s.Src

	if indentedCode(s, startLine) {
		return false
	}

	if pos >= eol || src[pos] != '#' {
		return false
	}

	level := 1
	pos++
	for pos < eol && src[pos] == '#' && level <= 6 {
		level++
		pos++
	}

	if level > 6 || (pos < eol && !isSpace(src[pos])) {
		return false
	}

	if silent {
		return true
	}

	eol = s.SkipSpacesBack(eol, pos)
	tmp := s.SkipCharsBack(eol, '#', pos)
	if tmp > pos && isSpace(src[tmp-1]) {
		eol = tmp
	}

	s.Line = startLine + 1
	tag := "h" + strconv.Itoa(level)

	tok := s.Push("heading_open", tag, 1)
	tok.Markup = strings.Repeat("#", level)
	tok.Map = [2]int{startLine, s.Line}

	tok = s.Push("inline", "", 0)
	tok.Content = strings.TrimSpace(src[pos:eol])
	tok.Map = [2]int{startLine, s.Line}

	s.Push("heading_close", tag, -1).Markup = strings.Repeat("#", level)
	return true
}

// LHeading recognizes setext headings: a single text line underlined with
// '=' (level 1) or '-' (level 2).
func LHeading(s *block.State, startLine, endLine int, silent bool) bool {
	next := startLine + 1
	if next >= endLine {
		return false
	}
	if s.TShift[next] < s.BlkIndent || indentedCode(s, next) {
		return false
	}

	pos, eol := lineBounds(s, next)
	if pos >= eol {
		return false
	}

	marker := s.Src[pos]
	if marker != '-' && marker != '=' {
		return false
	}
	pos = s.SkipChars(pos, marker)
	pos = s.SkipSpaces(pos)
	if pos < eol {
		return false
	}

	if silent {
		return true
	}

	level := 2
	if marker == '=' {
		level = 1
	}
	tag := "h" + strconv.Itoa(level)
	s.Line = next + 1

	tok := s.Push("heading_open", tag, 1)
	tok.Markup = string(marker)
	tok.Map = [2]int{startLine, s.Line}

	tok = s.Push("inline", "", 0)
	tok.Content = strings.TrimSpace(s.LineText(startLine))
	tok.Map = [2]int{startLine, s.Line - 1}

	s.Push("heading_close", tag, -1).Markup = string(marker)
	return true
}
