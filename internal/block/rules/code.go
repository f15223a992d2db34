package rules

import "git.home.luguber.info/inful/mdblock/internal/block"

// Code recognizes indented code blocks. Blank lines inside the block are
// kept; trailing ones are not.
func Code(s *block.State, startLine, endLine int, silent bool) bool {
	if !indentedCode(s, startLine) {
		return false
	}

	next := startLine + 1
	last := next
	for next < endLine {
		if s.IsEmpty(next) {
			next++
			continue
		}
		if indentedCode(s, next) {
			next++
			last = next
			continue
		}
		break
	}

	if silent {
		return true
	}

	s.Line = last
	tok := s.Push("code_block", "code", 0)
	tok.Content = s.Lines(startLine, last, 4+s.BlkIndent, true)
	tok.Map = [2]int{startLine, s.Line}
	return true
}
