package rules

import "git.home.luguber.info/inful/mdblock/internal/block"

// HR recognizes thematic breaks: three or more '*', '-' or '_' optionally
// separated by spaces.
func HR(s *block.State, startLine, _ int, silent bool) bool {
	pos, eol := lineBounds(s, startLine)
	if pos >= eol || indentedCode(s, startLine) {
		return false
	}

	marker := s.Src[pos]
	if marker != '*' && marker != '-' && marker != '_' {
		return false
	}

	cnt := 0
	for ; pos < eol; pos++ {
		ch := s.Src[pos]
		if ch != marker && !isSpace(ch) {
			return false
		}
		if ch == marker {
			cnt++
		}
	}

	if cnt < 3 {
		return false
	}

	if silent {
		return true
	}

	s.Line = startLine + 1

	tok := s.Push("hr", "hr", 0)
	tok.Map = [2]int{startLine, s.Line}
	tok.Markup = string(marker)
	return true
}
