package rules

import (
	"strings"

	"git.home.luguber.info/inful/mdblock/internal/block"
)

// Paragraph is the fallback rule. It accepts any line and runs until a blank
// line or until a rule of the paragraph chain would start a block.
func Paragraph(s *block.State, startLine, endLine int, silent bool) bool {
	if silent {
		return true
	}

	oldParent := s.ParentType
	s.ParentType = block.ContainerParagraph

	next := startLine + 1
	for ; next < endLine && !s.IsEmpty(next); next++ {
		// would be code on its own, but after a paragraph it continues it
		if indentedCode(s, next) {
			continue
		}
		// lazy line, already checked by the blockquote rule
		if s.TShift[next] < 0 {
			continue
		}
		if s.Parser.Probe(block.ChainParagraph, s, next, endLine) {
			break
		}
	}

	s.ParentType = oldParent

	content := strings.TrimSpace(s.Lines(startLine, next, s.BlkIndent, false))
	s.Line = next

	tok := s.Push("paragraph_open", "p", 1)
	tok.Map = [2]int{startLine, s.Line}

	tok = s.Push("inline", "", 0)
	tok.Content = content
	tok.Map = [2]int{startLine, s.Line}

	s.Push("paragraph_close", "p", -1)
	return true
}
