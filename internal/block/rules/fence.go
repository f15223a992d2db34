package rules

import (
	"strings"

	"git.home.luguber.info/inful/mdblock/internal/block"
)

// Fence recognizes ``` and ~~~ fenced code blocks. An unclosed fence runs
// to the end of its container.
func Fence(s *block.State, startLine, endLine int, silent bool) bool {
	pos, eol := lineBounds(s, startLine)
	if indentedCode(s, startLine) || pos+3 > eol {
		return false
	}

	marker := s.Src[pos]
	if marker != '~' && marker != '`' {
		return false
	}

	mem := pos
	pos = s.SkipChars(pos, marker)
	length := pos - mem
	if length < 3 {
		return false
	}

	markup := s.Src[mem:pos]
	params := s.Src[pos:eol]
	if marker == '`' && strings.IndexByte(params, '`') >= 0 {
		return false
	}

	if silent {
		return true
	}

	next := startLine
	closed := false
	for {
		next++
		if next >= endLine {
			break
		}

		pos, eol = lineBounds(s, next)
		if pos < eol && s.TShift[next] < s.BlkIndent {
			// non-empty line with negative indent closes the container
			break
		}
		if pos >= eol || s.Src[pos] != marker || indentedCode(s, next) {
			continue
		}

		end := s.SkipChars(pos, marker)
		if end-pos < length {
			continue
		}
		if s.SkipSpaces(end) < eol {
			continue
		}

		closed = true
		break
	}

	indent := s.TShift[startLine]
	s.Line = next
	if closed {
		s.Line++
	}

	tok := s.Push("fence", "code", 0)
	tok.Info = strings.TrimSpace(params)
	tok.Content = s.Lines(startLine+1, next, indent, true)
	tok.Markup = markup
	tok.Map = [2]int{startLine, s.Line}
	return true
}
